package config

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

// InitRedis connects to redis when REDIS_ADDRESS is set. A nil client means
// redis is not configured.
func InitRedis(ctx context.Context) (*redis.Client, error) {
	addr := GetRedisAddress()
	if addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: GetRedisPassword(),
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	GetLogrusInstance().WithField("addr", addr).Info("Redis connected")
	return client, nil
}

// InitRabbitMQ dials the broker when RABBITMQ_URL is set. A nil connection
// means event publishing is disabled.
func InitRabbitMQ() (*amqp.Connection, error) {
	url := GetRabbitMQURL()
	if url == "" {
		return nil, nil
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	GetLogrusInstance().Info("RabbitMQ connected")
	return conn, nil
}
