package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/telco-selfcare-api/internal/application/auth"
)

// clientIP primer salto de X-Forwarded-For, luego X-Real-IP y por último la dirección remota.
// Lo declara el cliente: sirve para auditoría, nunca para rate limiting.
func clientIP(c *fiber.Ctx) string {
	if xff := c.Get(fiber.HeaderXForwardedFor); xff != "" {
		first := strings.TrimSpace(strings.SplitN(xff, ",", 2)[0])
		if first != "" {
			return first
		}
	}
	if real := strings.TrimSpace(c.Get("X-Real-IP")); real != "" {
		return real
	}
	return c.IP()
}

func requestMeta(c *fiber.Ctx) auth.RequestMeta {
	return auth.RequestMeta{IP: clientIP(c), UserAgent: c.Get(fiber.HeaderUserAgent)}
}
