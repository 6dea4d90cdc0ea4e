package http

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/telco-selfcare-api/internal/application/dto"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/entity"
	"github.com/jhoicas/telco-selfcare-api/pkg/logger"
)

// LogService lo implementa *usecase.LogUseCase.
type LogService interface {
	List(ctx context.Context, q dto.LogListQuery) (*dto.LogListResponse, error)
	Create(ctx context.Context, caller entity.Identity, in dto.CreateLogRequest, ip string) (*dto.LogResponse, error)
}

// LogHandler registro de auditoría.
type LogHandler struct {
	base
	uc LogService
}

func NewLogHandler(uc LogService, log *logger.Logger, v *validator.Validate) *LogHandler {
	return &LogHandler{base: newBase(log, v), uc: uc}
}

// List godoc
// @Summary      Listar auditoría
// @Tags         logs
// @Produce      json
// @Security     BearerAuth
// @Param        page   query  int  false  "página (desde 1)"
// @Param        limit  query  int  false  "máx. 200"
// @Success      200  {object}  dto.LogListResponse
// @Router       /api/logs [get]
func (h *LogHandler) List(c *fiber.Ctx) error {
	var q dto.LogListQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewError("VALIDATION", "Invalid query parameters"))
	}
	out, err := h.uc.List(c.Context(), q)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Registrar evento de auditoría
// @Tags         logs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateLogRequest  true  "action, details"
// @Success      201  {object}  dto.LogResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/logs [post]
func (h *LogHandler) Create(c *fiber.Ctx) error {
	caller, _ := GetIdentity(c)
	var in dto.CreateLogRequest
	if ok, err := h.bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.Context(), caller, in, clientIP(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
