package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"orphancare/config"
	"orphancare/domain"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sony/gobreaker"
	"gorm.io/gorm"
)

// Guard runs record-store calls through one circuit breaker and translates
// driver errors into domain errors. Client-facing domain errors do not count
// against the breaker.
type Guard struct {
	cb *gobreaker.CircuitBreaker
}

func NewGuard() *Guard {
	return &Guard{
		cb: config.NewCircuitBreaker("PostgreSQL", func(err error) bool {
			return err == nil || domain.IsClientError(err)
		}),
	}
}

func (g *Guard) do(fn func() error) error {
	_, err := g.cb.Execute(func() (interface{}, error) {
		return nil, translate(fn())
	})
	return translate(err)
}

func translate(err error) error {
	if err == nil {
		return nil
	}

	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.NotFound("Record not found")
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return domain.Unavailable("Database temporarily unavailable", err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return domain.Unavailable("Database request timed out", err)
	case errors.Is(err, driver.ErrBadConn):
		return domain.Unavailable("Database connection lost", err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505":
			return domain.Conflict("Duplicate record")
		case strings.HasPrefix(pgErr.Code, "08"), pgErr.Code == "57P01", pgErr.Code == "40001", pgErr.Code == "40P01":
			return domain.Unavailable("Database temporarily unavailable", err)
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return domain.Unavailable("Database connection failed", err)
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return domain.Conflict("Duplicate record")
	case strings.Contains(msg, "database is locked"):
		return domain.Unavailable("Database is busy", err)
	}

	return domain.Internal("Database error", err)
}

// rename replaces the message of a translated error of the given kind.
func rename(err error, kind domain.ErrorKind, msg string) error {
	if domain.KindOf(err) != kind {
		return err
	}
	return &domain.Error{Kind: kind, Message: msg}
}
