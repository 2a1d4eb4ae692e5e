package redis

import (
	"context"
	"strconv"
	"time"
)

const rateLimitPrefix = "rate_limit"

// RateLimiter is the fixed-window surface used by request throttling.
type RateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// RateLimitKey returns the counter key for scope in the window containing at.
// Windows are aligned to the epoch so every replica agrees on the boundaries.
func (c *Client) RateLimitKey(scope string, window time.Duration, at time.Time) string {
	bucket := at.Truncate(window).Unix()
	return key(rateLimitPrefix, scope, strconv.FormatInt(bucket, 10))
}

// FixedWindowAllow counts one attempt for scope and reports whether it is within
// limit. The counter expires with its window.
func (c *Client) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error) {
	if c.store == nil {
		return false, 0, errNotInitialized
	}
	if window <= 0 {
		window = time.Second
	}

	k := c.RateLimitKey(scope, window, c.clock())
	count, err := c.store.Incr(ctx, k).Result()
	if err != nil {
		return false, 0, err
	}
	if count == 1 {
		if err := c.store.Expire(ctx, k, window).Err(); err != nil {
			return false, count, err
		}
	}
	return count <= limit, count, nil
}
