package locker

import (
	"context"
	"errors"
	"orphancare/config"
	"orphancare/domain"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
)

var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis is a lease lock built on SET NX PX. The lease expires after ttl so a
// crashed holder cannot block a key forever.
type Redis struct {
	client redis.UniversalClient
	ttl    time.Duration
	retry  time.Duration
	prefix string
	cb     *gobreaker.CircuitBreaker
}

func NewRedis(client redis.UniversalClient, ttl time.Duration) *Redis {
	return &Redis{
		client: client,
		ttl:    ttl,
		retry:  25 * time.Millisecond,
		prefix: "orphancare:lock:",
		cb:     config.NewCircuitBreaker("Redis-Lock", nil),
	}
}

func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	k := r.prefix + key
	token := uuid.NewString()

	for {
		res, err := r.cb.Execute(func() (interface{}, error) {
			return r.client.SetNX(ctx, k, token, r.ttl).Result()
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, domain.Unavailable("Could not acquire lock for "+key, err)
			}
			return nil, domain.Unavailable("Lock service unavailable", err)
		}
		if res.(bool) {
			break
		}

		select {
		case <-ctx.Done():
			return nil, domain.Unavailable("Could not acquire lock for "+key, ctx.Err())
		case <-time.After(r.retry):
		}
	}

	return func() {
		uctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := unlockScript.Run(uctx, r.client, []string{k}, token).Err(); err != nil {
			config.GetLogrusInstance().WithError(err).WithField("key", k).Warn("failed to release lock, it will expire")
		}
	}, nil
}
