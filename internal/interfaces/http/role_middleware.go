package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/telco-selfcare-api/internal/application/dto"
)

// RequireRole devuelve un middleware Fiber que restringe la ruta a los roles indicados.
// Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - 401 → no hay identidad en el contexto.
//   - 403 → el rol no está en la lista.
//   - Sin roles, basta con estar autenticado.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		id, ok := GetIdentity(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.NewError("UNAUTHENTICATED", "Authentication required"))
		}
		if len(allowed) == 0 {
			return c.Next()
		}
		if _, ok := allowed[id.Role]; !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.NewError("FORBIDDEN", "Forbidden"))
		}
		return c.Next()
	}
}
