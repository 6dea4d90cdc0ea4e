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

// OrderService lo implementa *usecase.OrderUseCase.
type OrderService interface {
	List(ctx context.Context, caller entity.Identity, companyID string) ([]dto.OrderResponse, error)
	Create(ctx context.Context, caller entity.Identity, in dto.CreateOrderRequest, ip string) (*dto.OrderResponse, error)
	UpdateStatus(ctx context.Context, caller entity.Identity, in dto.UpdateOrderRequest, ip string) (*dto.OrderResponse, error)
}

// OrderHandler pedidos de servicio (cambio de plan, paquetes, límites).
type OrderHandler struct {
	base
	uc OrderService
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc OrderService, log *logger.Logger, v *validator.Validate) *OrderHandler {
	return &OrderHandler{base: newBase(log, v), uc: uc}
}

// List godoc
// @Summary      Listar pedidos
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        company_id  query  string  false  "solo admin/ssr"
// @Success      200  {array}  dto.OrderResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	caller, _ := GetIdentity(c)
	out, err := h.uc.List(c.Context(), caller, c.Query("company_id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear pedido
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateOrderRequest  true  "type, details"
// @Success      201  {object}  dto.OrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	caller, _ := GetIdentity(c)
	var in dto.CreateOrderRequest
	if ok, err := h.bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.Context(), caller, in, clientIP(c))
	if err != nil {
		return h.failWith(c, err, messages{domain.ErrInvalidInput: "details must be a JSON object"})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateStatus godoc
// @Summary      Cambiar estado de un pedido
// @Description  created → pending|in_progress|failed, pending → in_progress|failed, in_progress → completed|failed.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.UpdateOrderRequest  true  "orderId, status"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders [patch]
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	caller, _ := GetIdentity(c)
	var in dto.UpdateOrderRequest
	if ok, err := h.bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.UpdateStatus(c.Context(), caller, in, clientIP(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}
