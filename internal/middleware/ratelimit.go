package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// RateLimitStore is the subset of redis commands the limiter needs.
// *redis.Client satisfies it.
type RateLimitStore interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, ttl time.Duration) *redis.BoolCmd
}

// RateLimitMiddleware is a fixed-window counter in redis. All routes sharing
// the same scope share one window per caller, so the nonce and verify
// endpoints count against a single cap.
func RateLimitMiddleware(store RateLimitStore, scope string, limit int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := fmt.Sprintf("rl:%s:%s", scope, c.IP())

		ctx := context.Background()
		count, err := store.Incr(ctx, key).Result()
		if err != nil {
			return c.Next() // fail open
		}

		if count == 1 {
			store.Expire(ctx, key, window)
		}

		if count > int64(limit) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "too many authentication attempts, please try again later",
			})
		}

		return c.Next()
	}
}
