package http

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/telco-selfcare-api/internal/application/dto"
	"github.com/jhoicas/telco-selfcare-api/internal/application/usecase"
	"github.com/jhoicas/telco-selfcare-api/internal/domain"
	"github.com/jhoicas/telco-selfcare-api/pkg/logger"
)

const msgInternal = "Internal server error"

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// errorMappings traduce errores de dominio a HTTP. El orden importa: el primero que coincide gana.
var errorMappings = []errorMapping{
	{domain.ErrOTPExpired, fiber.StatusBadRequest, "OTP_EXPIRED", "OTP has expired"},
	{domain.ErrOTPMismatch, fiber.StatusBadRequest, "INVALID_OTP", "Invalid OTP"},
	{domain.ErrInvalidContract, fiber.StatusBadRequest, "INVALID_CONTRACT", "Invalid contract number"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION", "Invalid request"},
	{domain.ErrInvalidCredentials, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password"},
	{domain.ErrSessionExpired, fiber.StatusUnauthorized, "SESSION_EXPIRED", "Session expired"},
	{domain.ErrInvalidSession, fiber.StatusUnauthorized, "INVALID_SESSION", "Invalid session"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required"},
	{domain.ErrNotVerified, fiber.StatusForbidden, "NOT_VERIFIED", "Please verify your account first"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN", "Forbidden"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "NOT_FOUND", "User not found"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", "Not found"},
	{domain.ErrInvalidTransition, fiber.StatusConflict, "INVALID_TRANSITION", "Invalid status transition"},
	{domain.ErrDuplicate, fiber.StatusConflict, "CONFLICT", "Resource already exists"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT", "Resource belongs to another company"},
	{domain.ErrRateLimited, fiber.StatusTooManyRequests, "RATE_LIMITED", "Too many requests"},
}

// messages reemplaza el mensaje por defecto de un error en una ruta concreta.
type messages map[error]string

// writeError responde con el status y cuerpo que corresponden a err.
// Los errores no mapeados se registran y se devuelven como 500 genérico.
func writeError(c *fiber.Ctx, log *logger.Logger, err error, override messages) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewError("VALIDATION", validationMessage(verrs)))
	}
	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		msg := m.message
		for target, custom := range override {
			if errors.Is(err, target) {
				msg = custom
				break
			}
		}
		// el mensaje del caso de uso es más preciso que el de la ruta
		if public, ok := usecase.PublicMessage(err); ok {
			msg = public
		}
		return c.Status(m.status).JSON(dto.NewError(m.code, msg))
	}

	if log != nil {
		log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("error interno")
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.NewError("INTERNAL", msgInternal))
}

// ErrorHandler para fiber.Config: errores devueltos por handlers o middlewares.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code := "HTTP_ERROR"
			switch fe.Code {
			case fiber.StatusNotFound:
				code = "NOT_FOUND"
			case fiber.StatusMethodNotAllowed:
				code = "METHOD_NOT_ALLOWED"
			case fiber.StatusBadRequest:
				code = "VALIDATION"
			}
			return c.Status(fe.Code).JSON(dto.NewError(code, fe.Message))
		}
		return writeError(c, log, err, nil)
	}
}
