package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/telco-selfcare-api/internal/application/dto"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/entity"
	"github.com/jhoicas/telco-selfcare-api/pkg/logger"
)

const (
	// LocalIdentity clave en c.Locals de la identidad autenticada.
	LocalIdentity = "identity"
	// LocalSessionToken token de sesión (jti) de la petición actual.
	LocalSessionToken = "session_token"
)

// SessionValidator es el contrato mínimo que necesita el middleware; lo implementa *auth.AuthUseCase.
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (*entity.Identity, error)
}

// AuthMiddleware valida la credencial (cookie de sesión o Authorization: Bearer) y guarda la identidad en Locals.
func AuthMiddleware(sessions SessionValidator, cookieName string, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := credential(c, cookieName)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.NewError("UNAUTHENTICATED", "Authentication required"))
		}

		identity, err := sessions.ValidateSession(c.Context(), token)
		if err != nil {
			return writeError(c, log, err, nil)
		}
		if identity == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.NewError("INVALID_SESSION", "Invalid session"))
		}

		c.Locals(LocalIdentity, *identity)
		c.Locals(LocalSessionToken, token)
		return c.Next()
	}
}

// credential la cookie tiene prioridad sobre el header.
func credential(c *fiber.Ctx, cookieName string) string {
	if cookieName != "" {
		if v := strings.TrimSpace(c.Cookies(cookieName)); v != "" {
			return v
		}
	}
	auth := c.Get(fiber.HeaderAuthorization)
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

// GetIdentity devuelve la identidad puesta por AuthMiddleware.
func GetIdentity(c *fiber.Ctx) (entity.Identity, bool) {
	id, ok := c.Locals(LocalIdentity).(entity.Identity)
	return id, ok && id.UserID != ""
}

// GetUserID devuelve el user_id del contexto (vacío si no hay sesión).
func GetUserID(c *fiber.Ctx) string {
	id, _ := GetIdentity(c)
	return id.UserID
}

// GetCompanyID devuelve el company_id del contexto.
func GetCompanyID(c *fiber.Ctx) string {
	id, _ := GetIdentity(c)
	return id.CompanyID
}

// GetRole devuelve el rol del contexto.
func GetRole(c *fiber.Ctx) string {
	id, _ := GetIdentity(c)
	return id.Role
}
