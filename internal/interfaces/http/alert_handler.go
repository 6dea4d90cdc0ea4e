package http

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/telco-selfcare-api/internal/application/dto"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/entity"
	"github.com/jhoicas/telco-selfcare-api/pkg/logger"
)

// AlertService lo implementa *usecase.AlertUseCase.
type AlertService interface {
	List(ctx context.Context, caller entity.Identity, companyID string) ([]dto.AlertResponse, error)
	Create(ctx context.Context, caller entity.Identity, in dto.CreateAlertRequest) (*dto.AlertResponse, error)
	UpdateStatus(ctx context.Context, caller entity.Identity, in dto.UpdateAlertRequest) (*dto.AlertResponse, error)
}

type AlertHandler struct {
	base
	uc AlertService
}

func NewAlertHandler(uc AlertService, log *logger.Logger, v *validator.Validate) *AlertHandler {
	return &AlertHandler{base: newBase(log, v), uc: uc}
}

// List godoc
// @Summary      Listar alertas
// @Tags         alerts
// @Produce      json
// @Security     BearerAuth
// @Param        company_id  query  string  false  "solo admin/ssr"
// @Success      200  {array}  dto.AlertResponse
// @Router       /api/alerts [get]
func (h *AlertHandler) List(c *fiber.Ctx) error {
	caller, _ := GetIdentity(c)
	out, err := h.uc.List(c.Context(), caller, c.Query("company_id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear alerta
// @Tags         alerts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateAlertRequest  true  "msisdnId, type, threshold"
// @Success      201  {object}  dto.AlertResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/alerts [post]
func (h *AlertHandler) Create(c *fiber.Ctx) error {
	caller, _ := GetIdentity(c)
	var in dto.CreateAlertRequest
	if ok, err := h.bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.Context(), caller, in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateStatus godoc
// @Summary      Cambiar estado de una alerta
// @Tags         alerts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.UpdateAlertRequest  true  "alertId, status"
// @Success      200  {object}  dto.AlertResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/alerts [patch]
func (h *AlertHandler) UpdateStatus(c *fiber.Ctx) error {
	caller, _ := GetIdentity(c)
	var in dto.UpdateAlertRequest
	if ok, err := h.bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.UpdateStatus(c.Context(), caller, in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}
