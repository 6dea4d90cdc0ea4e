package http

import (
	"context"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/telco-selfcare-api/internal/application/dto"
	"github.com/jhoicas/telco-selfcare-api/internal/domain"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/entity"
	"github.com/jhoicas/telco-selfcare-api/pkg/logger"
)

// UsageService lo implementa *usecase.UsageUseCase.
type UsageService interface {
	List(ctx context.Context, caller entity.Identity, companyID string) ([]dto.UsageResponse, error)
	Record(ctx context.Context, caller entity.Identity, in dto.RecordUsageRequest) (*dto.UsageResponse, error)
}

// StatementService lo implementa *report.StatementUseCase.
type StatementService interface {
	Download(ctx context.Context, caller entity.Identity, q dto.StatementQuery) ([]byte, string, error)
}

// UsageHandler consumos mensuales y extracto PDF.
type UsageHandler struct {
	base
	uc         UsageService
	statements StatementService
}

// NewUsageHandler construye el handler. statements puede ser nil (sin extracto PDF).
func NewUsageHandler(uc UsageService, statements StatementService, log *logger.Logger, v *validator.Validate) *UsageHandler {
	return &UsageHandler{base: newBase(log, v), uc: uc, statements: statements}
}

// List godoc
// @Summary      Listar consumos
// @Tags         usage
// @Produce      json
// @Security     BearerAuth
// @Param        company_id  query  string  false  "solo admin/ssr"
// @Success      200  {array}  dto.UsageResponse
// @Router       /api/usage [get]
func (h *UsageHandler) List(c *fiber.Ctx) error {
	caller, _ := GetIdentity(c)
	out, err := h.uc.List(c.Context(), caller, c.Query("company_id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Record godoc
// @Summary      Registrar consumo mensual de una línea
// @Description  Crea o reemplaza el consumo del período. Si el volumen de datos alcanza usage_limit se genera una alerta.
// @Tags         usage
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.RecordUsageRequest  true  "msisdnId, month, year, voice, sms, data"
// @Success      201  {object}  dto.UsageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/usage [post]
func (h *UsageHandler) Record(c *fiber.Ctx) error {
	caller, _ := GetIdentity(c)
	var in dto.RecordUsageRequest
	if ok, err := h.bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.Record(c.Context(), caller, in)
	if err != nil {
		return h.failWith(c, err, messages{domain.ErrNotFound: "MSISDN not found or not authorized"})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Statement godoc
// @Summary      Extracto de consumo en PDF
// @Tags         usage
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        month       query  int     true   "1-12"
// @Param        year        query  int     true   "año"
// @Param        company_id  query  string  false  "obligatorio para admin/ssr sin empresa"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/usage/statement [get]
func (h *UsageHandler) Statement(c *fiber.Ctx) error {
	if h.statements == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(dto.NewError("NOT_IMPLEMENTED", "Statements are not available"))
	}
	caller, _ := GetIdentity(c)
	var q dto.StatementQuery
	if ok, err := h.bindQuery(c, &q); !ok {
		return err
	}
	pdf, filename, err := h.statements.Download(c.Context(), caller, q)
	if err != nil {
		return h.failWith(c, err, messages{domain.ErrNotFound: "Company not found"})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Set(fiber.HeaderContentLength, strconv.Itoa(len(pdf)))
	return c.Send(pdf)
}
