package cmd

import (
	"fmt"

	"github.com/commerceops/flowline/pkg/quota"
	"github.com/redis/go-redis/v9"
)

// NewLimiter builds the daily execution limiter. Without a redis URL quota
// enforcement is disabled.
func NewLimiter(redisURL string, dailyCap int64) (quota.Limiter, error) {
	if redisURL == "" || dailyCap <= 0 {
		return quota.Unlimited{}, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	return quota.NewRedisLimiter(redis.NewClient(opts), dailyCap), nil
}
