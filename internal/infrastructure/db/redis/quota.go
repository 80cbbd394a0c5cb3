package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultQuotaLimit  = 30
	defaultQuotaWindow = time.Hour
)

// counter is the subset of the Redis client the quota needs.
type counter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// Quota is a fixed-window request limiter backed by Redis.
// Key format: quota:<scope>:<subject>:<window_start_unix>
type Quota struct {
	client counter
	scope  string
	limit  int64
	window time.Duration
	now    func() time.Time
}

// NewQuota creates a limiter allowing limit calls per window for each subject.
func NewQuota(client counter, scope string, limit int, window time.Duration) *Quota {
	if limit <= 0 {
		limit = defaultQuotaLimit
	}
	if window <= 0 {
		window = defaultQuotaWindow
	}
	return &Quota{client: client, scope: scope, limit: int64(limit), window: window, now: time.Now}
}

// Allow counts one call for subject and reports whether it fits in the
// current window.
func (q *Quota) Allow(ctx context.Context, subject string) (bool, error) {
	key := q.key(subject)

	n, err := q.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("quota incr: %w", err)
	}
	if n == 1 {
		if err := q.client.Expire(ctx, key, q.window).Err(); err != nil {
			return false, fmt.Errorf("quota expire: %w", err)
		}
	}
	return n <= q.limit, nil
}

func (q *Quota) key(subject string) string {
	start := q.now().UTC().Truncate(q.window)
	return fmt.Sprintf("quota:%s:%s:%d", q.scope, subject, start.Unix())
}
