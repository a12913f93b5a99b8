package middlewares

import (
	"fmt"
	"time"

	"social_messaging_service/pkg/logger"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RateLimitConfig definition fixed window limiter setting
type RateLimitConfig struct {
	Max    int
	Window time.Duration
}

// RateLimit count requests per client IP in redis, reject over Max within Window
func RateLimit(client *redis.Client, cfg RateLimitConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := fmt.Sprintf("ratelimit:%s", c.IP())

		count, err := client.Incr(c.Context(), key).Result()
		if err != nil {
			// limiter store down, let the request through
			logger.Log.Warn("rate limit store unavailable", zap.String("err", err.Error()))
			return c.Next()
		}
		if count == 1 {
			if err := client.Expire(c.Context(), key, cfg.Window).Err(); err != nil {
				logger.Log.Warn("rate limit expire failed", zap.String("key", key), zap.String("err", err.Error()))
			}
		}

		if count > int64(cfg.Max) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"status":  "fail",
				"message": "Too many requests from this IP, please try again later",
			})
		}

		return c.Next()
	}
}
