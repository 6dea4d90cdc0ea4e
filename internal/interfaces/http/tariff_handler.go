package http

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/telco-selfcare-api/internal/application/dto"
	"github.com/jhoicas/telco-selfcare-api/internal/domain"
	"github.com/jhoicas/telco-selfcare-api/pkg/logger"
)

// TariffPlanService lo implementa *usecase.TariffPlanUseCase.
type TariffPlanService interface {
	List(ctx context.Context) ([]dto.TariffPlanResponse, error)
	Create(ctx context.Context, in dto.CreateTariffPlanRequest) (*dto.TariffPlanResponse, error)
	Update(ctx context.Context, in dto.UpdateTariffPlanRequest) (*dto.TariffPlanResponse, error)
	Delete(ctx context.Context, id string) error
}

// TariffPlanHandler catálogo de planes.
type TariffPlanHandler struct {
	base
	uc TariffPlanService
}

// NewTariffPlanHandler construye el handler.
func NewTariffPlanHandler(uc TariffPlanService, log *logger.Logger, v *validator.Validate) *TariffPlanHandler {
	return &TariffPlanHandler{base: newBase(log, v), uc: uc}
}

// List godoc
// @Summary      Listar planes
// @Tags         tariff-plans
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.TariffPlanResponse
// @Router       /api/tariff-plans [get]
func (h *TariffPlanHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear plan
// @Tags         tariff-plans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateTariffPlanRequest  true  "datos del plan"
// @Success      201  {object}  dto.TariffPlanResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/tariff-plans [post]
func (h *TariffPlanHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTariffPlanRequest
	if ok, err := h.bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar plan (parcial)
// @Tags         tariff-plans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.UpdateTariffPlanRequest  true  "id y campos a cambiar"
// @Success      200  {object}  dto.TariffPlanResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/tariff-plans [patch]
func (h *TariffPlanHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateTariffPlanRequest
	if ok, err := h.bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.Context(), in)
	if err != nil {
		return h.failWith(c, err, messages{domain.ErrNotFound: "Tariff plan not found"})
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar plan
// @Tags         tariff-plans
// @Produce      json
// @Security     BearerAuth
// @Param        id   query  string  true  "ID del plan"
// @Success      200  {object}  dto.SuccessResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/tariff-plans [delete]
func (h *TariffPlanHandler) Delete(c *fiber.Ctx) error {
	id := c.Query("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewError("VALIDATION", "id is required"))
	}
	if err := h.uc.Delete(c.Context(), id); err != nil {
		return h.failWith(c, err, messages{domain.ErrNotFound: "Tariff plan not found"})
	}
	return c.JSON(dto.SuccessResponse{Success: true})
}
