// Package quota enforces per-owner daily execution limits.
package quota

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrQuotaExceeded indicates the owner has used up today's execution quota.
var ErrQuotaExceeded = errors.New("daily execution quota exceeded")

func IsQuotaExceeded(err error) bool {
	return errors.Is(err, ErrQuotaExceeded)
}

// Limiter decides whether an owner may start another execution right now.
// Allow both checks and consumes one unit of quota.
type Limiter interface {
	Allow(ctx context.Context, ownerID string) error
}

// RedisLimiter counts executions per owner per UTC day in redis. Counter keys
// expire on their own, so no cleanup job is needed.
type RedisLimiter struct {
	client   *redis.Client
	dailyCap int64
}

func NewRedisLimiter(client *redis.Client, dailyCap int64) *RedisLimiter {
	return &RedisLimiter{client: client, dailyCap: dailyCap}
}

func (l *RedisLimiter) Allow(ctx context.Context, ownerID string) error {
	key := fmt.Sprintf("flowline:quota:%s:%s", ownerID, time.Now().UTC().Format("2006-01-02"))

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to check execution quota: %w", err)
	}

	if count == 1 {
		// First execution of the day sets the key's lifetime. The key
		// outlives the day boundary slightly; that only matters for
		// inspection, never for counting, since the date is in the key.
		l.client.Expire(ctx, key, 24*time.Hour)
	}

	if count > l.dailyCap {
		return fmt.Errorf("%w: %d executions today (limit %d)", ErrQuotaExceeded, count, l.dailyCap)
	}

	return nil
}

// Unlimited never rejects. Used when no redis endpoint is configured.
type Unlimited struct{}

func (Unlimited) Allow(_ context.Context, _ string) error {
	return nil
}
