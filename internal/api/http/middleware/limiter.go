package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	fiberredis "github.com/gofiber/storage/redis/v3"
	"github.com/redis/go-redis/v9"

	"github.com/Alijeyrad/vitum_backend/config"
)

const (
	defaultLimitMax        = 60
	defaultLimitExpiration = 30 * time.Second
)

// NewLimiter builds a sliding-window rate limiter. Counters live in Redis
// when a client is given so every instance shares them, otherwise in memory.
func NewLimiter(cfg config.RateLimit, rdb *redis.Client) fiber.Handler {
	lc := limiter.Config{
		Max:               defaultLimitMax,
		Expiration:        defaultLimitExpiration,
		LimiterMiddleware: limiter.SlidingWindow{},
	}
	if cfg.Max > 0 {
		lc.Max = cfg.Max
	}
	if cfg.ExpirationSeconds > 0 {
		lc.Expiration = time.Duration(cfg.ExpirationSeconds) * time.Second
	}
	if rdb != nil {
		lc.Storage = fiberredis.NewFromConnection(rdb)
	}
	return limiter.New(lc)
}
