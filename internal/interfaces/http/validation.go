package http

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/telco-selfcare-api/internal/application/dto"
	"github.com/jhoicas/telco-selfcare-api/pkg/logger"
)

// NewValidator validador con nombres de campo tomados de las etiquetas json/query.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	return v
}

func validationMessage(errs validator.ValidationErrors) string {
	if len(errs) == 0 {
		return "Invalid request"
	}
	fe := errs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
	}
}

// base utilidades comunes de los handlers: logger y validación.
type base struct {
	log      *logger.Logger
	validate *validator.Validate
}

func newBase(log *logger.Logger, v *validator.Validate) base {
	if log == nil {
		log = logger.Nop()
	}
	if v == nil {
		v = NewValidator()
	}
	return base{log: log, validate: v}
}

// bind parsea el cuerpo JSON y lo valida; en caso de error ya respondió 400 y devuelve false.
func (b base) bind(c *fiber.Ctx, out any) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.NewError("INVALID_BODY", "Invalid request body"))
	}
	if err := b.validate.StructCtx(c.Context(), out); err != nil {
		return false, b.fail(c, err)
	}
	return true, nil
}

// bindQuery igual que bind para parámetros de query.
func (b base) bindQuery(c *fiber.Ctx, out any) (bool, error) {
	if err := c.QueryParser(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.NewError("VALIDATION", "Invalid query parameters"))
	}
	if err := b.validate.StructCtx(c.Context(), out); err != nil {
		return false, b.fail(c, err)
	}
	return true, nil
}

func (b base) fail(c *fiber.Ctx, err error) error {
	return writeError(c, b.log, err, nil)
}

func (b base) failWith(c *fiber.Ctx, err error, override messages) error {
	return writeError(c, b.log, err, override)
}
