package http

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/telco-selfcare-api/internal/application/dto"
	"github.com/jhoicas/telco-selfcare-api/internal/domain"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/entity"
	"github.com/jhoicas/telco-selfcare-api/pkg/logger"
)

// MSISDNService lo implementa *usecase.MSISDNUseCase.
type MSISDNService interface {
	List(ctx context.Context, caller entity.Identity, companyID string) ([]dto.MSISDNResponse, error)
	Upsert(ctx context.Context, caller entity.Identity, in dto.UpsertMSISDNRequest) (*dto.MSISDNResponse, error)
	Update(ctx context.Context, caller entity.Identity, in dto.UpdateMSISDNRequest) (*dto.MSISDNResponse, error)
}

// MSISDNHandler líneas móviles de las empresas.
type MSISDNHandler struct {
	base
	uc MSISDNService
}

// NewMSISDNHandler construye el handler.
func NewMSISDNHandler(uc MSISDNService, log *logger.Logger, v *validator.Validate) *MSISDNHandler {
	return &MSISDNHandler{base: newBase(log, v), uc: uc}
}

// List godoc
// @Summary      Listar líneas
// @Tags         msisdns
// @Produce      json
// @Security     BearerAuth
// @Param        company_id  query  string  false  "solo admin/ssr"
// @Success      200  {array}   dto.MSISDNResponse
// @Router       /api/msisdns [get]
func (h *MSISDNHandler) List(c *fiber.Ctx) error {
	caller, _ := GetIdentity(c)
	out, err := h.uc.List(c.Context(), caller, c.Query("company_id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Upsert godoc
// @Summary      Crear o actualizar línea por número
// @Tags         msisdns
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.UpsertMSISDNRequest  true  "msisdn, tariff_plan_id, usage_limit"
// @Success      200  {object}  dto.MSISDNResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/msisdns [post]
func (h *MSISDNHandler) Upsert(c *fiber.Ctx) error {
	caller, _ := GetIdentity(c)
	var in dto.UpsertMSISDNRequest
	if ok, err := h.bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.Upsert(c.Context(), caller, in)
	if err != nil {
		return h.failWith(c, err, messages{
			domain.ErrConflict: "MSISDN belongs to another company",
		})
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Cambiar plan o límite de una línea
// @Tags         msisdns
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.UpdateMSISDNRequest  true  "msisdn y campos a cambiar"
// @Success      200  {object}  dto.MSISDNResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/msisdns [patch]
func (h *MSISDNHandler) Update(c *fiber.Ctx) error {
	caller, _ := GetIdentity(c)
	var in dto.UpdateMSISDNRequest
	if ok, err := h.bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.Context(), caller, in)
	if err != nil {
		return h.failWith(c, err, messages{domain.ErrNotFound: "MSISDN not found"})
	}
	return c.JSON(out)
}
