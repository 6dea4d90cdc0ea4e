package http

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/telco-selfcare-api/internal/application/dto"
	"github.com/jhoicas/telco-selfcare-api/pkg/logger"
)

// RateLimiter ventana fija por clave; lo implementa *ratelimit.Limiter.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit limita por IP de conexión (c.IP()); X-Forwarded-For solo cuenta si el
// proxy es de confianza (fiber.Config.TrustedProxies). Con limiter nil o limit <= 0
// no hace nada. Los errores de Redis dejan pasar la petición.
func RateLimit(limiter RateLimiter, scope string, limit int, window time.Duration, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if limiter == nil || limit <= 0 {
			return c.Next()
		}
		allowed, err := limiter.Allow(c.Context(), scope+":"+c.IP(), limit, window)
		if err != nil && log != nil {
			log.Warn().Err(err).Str("scope", scope).Msg("rate limit no disponible, se permite la petición")
		}
		if !allowed {
			c.Set(fiber.HeaderRetryAfter, fmtSeconds(window))
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.NewError("RATE_LIMITED", "Too many requests, try again later"))
		}
		return c.Next()
	}
}

func fmtSeconds(d time.Duration) string {
	s := int(d.Seconds())
	if s < 1 {
		s = 1
	}
	return strconv.Itoa(s)
}
