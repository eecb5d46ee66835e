package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

const submissionKeyPrefix = "submission:"

// SubmissionGuard holds a short-lived Redis key per logical submission so
// that a resubmitted form is rejected until the key expires.
type SubmissionGuard struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewSubmissionGuard(client redis.Cmdable, ttl time.Duration) *SubmissionGuard {
	return &SubmissionGuard{client: client, ttl: ttl}
}

func (g *SubmissionGuard) Acquire(ctx context.Context, key string) (bool, error) {
	ok, err := g.client.SetNX(ctx, submissionKeyPrefix+key, time.Now().Unix(), g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire submission key: %w", err)
	}
	return ok, nil
}

func (g *SubmissionGuard) Release(ctx context.Context, key string) error {
	if err := g.client.Del(ctx, submissionKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("release submission key: %w", err)
	}
	return nil
}

// SubmissionKey joins parts into a guard key.
func SubmissionKey(parts ...string) string {
	return strings.Join(parts, ":")
}
