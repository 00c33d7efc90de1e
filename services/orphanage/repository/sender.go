package repository

import (
	"context"
	"orphancare/config"
	"orphancare/domain"
	"time"

	"github.com/bytedance/sonic"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker"
)

// eventSender publishes adoption events to a durable RabbitMQ queue.
type eventSender struct {
	ch        *amqp.Channel
	queueName string
	cb        *gobreaker.CircuitBreaker
}

func NewEventSender(conn *amqp.Connection, queueName string) (domain.AdoptionEventPublisher, func() error, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, nil, err
	}

	_, err = ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		ch.Close()
		return nil, nil, err
	}

	s := &eventSender{
		ch:        ch,
		queueName: queueName,
		cb:        config.NewCircuitBreaker("RabbitMQ-Publisher", nil),
	}
	return s, ch.Close, nil
}

func (s *eventSender) PublishAdoptionEvent(ctx context.Context, evt domain.AdoptionEvent) error {
	body, err := sonic.Marshal(evt)
	if err != nil {
		return err
	}

	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) <= 0 {
		return ctx.Err()
	}

	_, err = s.cb.Execute(func() (interface{}, error) {
		return nil, s.ch.PublishWithContext(
			ctx,
			"",          // default exchange
			s.queueName, // routing key == queue name
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				Type:         string(evt.Type),
				MessageId:    evt.RequestID + ":" + evt.At.UTC().Format(time.RFC3339Nano),
				Timestamp:    evt.At,
				Body:         body,
			},
		)
	})
	return err
}

type noopSender struct{}

// NewNoopSender is used when no broker is configured.
func NewNoopSender() domain.AdoptionEventPublisher {
	return noopSender{}
}

func (noopSender) PublishAdoptionEvent(ctx context.Context, evt domain.AdoptionEvent) error {
	return nil
}
