package ratelimit

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ZYX-Studios/v0-nevha-sub002/internal/observability"
	apperrors "github.com/ZYX-Studios/v0-nevha-sub002/pkg/util"
)

// Handler throttles requests per client identity under scope. Every attempt counts,
// whatever the downstream outcome.
func (l *Limiter) Handler(scope string, window time.Duration, limit int, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := scope + ":" + ClientIdentity(c.Get(fiber.HeaderXForwardedFor))
		result := l.Check(key, window, limit)

		c.Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		if !result.Allowed {
			metrics.RecordRateLimited(scope)
			return apperrors.NewRateLimited(result.ResetIn)
		}
		return c.Next()
	}
}
