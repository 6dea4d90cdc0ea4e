package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/telco-selfcare-api/internal/application/dto"
	"github.com/jhoicas/telco-selfcare-api/internal/domain"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/entity"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/repository"
	"github.com/jhoicas/telco-selfcare-api/pkg/logger"
)

// ErrOrderNotFound pedido inexistente o de otra empresa.
var ErrOrderNotFound = wrapNotFound("Order not found or not authorized")

// OrderUseCase pedidos de cambio de plan, paquetes y límites.
type OrderUseCase struct {
	orders repository.OrderRepository
	tx     OrderTxRunner
	audit  auditor
	log    *logger.Logger
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(orders repository.OrderRepository, logs repository.AuditLogRepository, tx OrderTxRunner, l *logger.Logger) *OrderUseCase {
	if l == nil {
		l = logger.Nop()
	}
	return &OrderUseCase{orders: orders, tx: tx, audit: newAuditor(logs, l), log: l.Component("orders")}
}

// List pedidos visibles, más recientes primero.
func (uc *OrderUseCase) List(ctx context.Context, caller entity.Identity, companyID string) ([]dto.OrderResponse, error) {
	company, err := ScopeCompany(caller, companyID)
	if err != nil {
		return nil, err
	}
	list, err := uc.orders.List(ctx, company)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, entityToOrderResponse(o))
	}
	return out, nil
}

// Create pedido en estado created para la empresa del llamador.
func (uc *OrderUseCase) Create(ctx context.Context, caller entity.Identity, in dto.CreateOrderRequest, ip string) (*dto.OrderResponse, error) {
	if !entity.ValidOrderType(in.Type) {
		return nil, domain.ErrInvalidInput
	}
	details, err := normalizeDetails(in.Details)
	if err != nil {
		return nil, err
	}
	company, err := targetCompany(caller, in.CompanyID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	o := &entity.Order{
		ID:        uuid.New().String(),
		CompanyID: company,
		Type:      in.Type,
		Status:    entity.OrderStatusCreated,
		Details:   details,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.orders.Create(ctx, o); err != nil {
		return nil, err
	}
	uc.audit.record(ctx, caller.UserID, entity.ActionOrderCreated, map[string]any{
		"order_id": o.ID, "type": o.Type, "company_id": company,
	}, ip)
	resp := entityToOrderResponse(o)
	return &resp, nil
}

// UpdateStatus aplica una transición válida bajo bloqueo de fila y la registra en la misma transacción.
func (uc *OrderUseCase) UpdateStatus(ctx context.Context, caller entity.Identity, in dto.UpdateOrderRequest, ip string) (*dto.OrderResponse, error) {
	if !entity.ValidOrderStatus(in.Status) {
		return nil, domain.ErrInvalidInput
	}
	var updated *entity.Order
	err := uc.tx.RunOrders(ctx, func(orders repository.OrderRepository, logs repository.AuditLogRepository) error {
		current, err := orders.GetByIDForUpdate(ctx, in.OrderID)
		if err != nil {
			return err
		}
		if current == nil || !inScope(caller, current.CompanyID) {
			return ErrOrderNotFound
		}
		if !entity.ValidOrderTransition(current.Status, in.Status) {
			return domain.ErrInvalidTransition
		}
		updated, err = orders.UpdateStatus(ctx, current.ID, in.Status)
		if err != nil {
			return err
		}
		return logs.Append(ctx, newAuditEntry(caller.UserID, entity.ActionOrderStatusChanged, map[string]any{
			"order_id": current.ID, "from": current.Status, "to": in.Status,
		}, ip))
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("order_id", updated.ID).Str("status", updated.Status).Msg("pedido actualizado")
	resp := entityToOrderResponse(updated)
	return &resp, nil
}

// normalizeDetails exige un objeto JSON; vacío o null se guarda como {}.
func normalizeDetails(raw json.RawMessage) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return json.RawMessage(`{}`), nil
	}
	var obj map[string]any
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, domain.ErrInvalidInput
	}
	return json.RawMessage(trimmed), nil
}

func entityToOrderResponse(o *entity.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:        o.ID,
		CompanyID: o.CompanyID,
		Type:      o.Type,
		Status:    o.Status,
		Details:   o.Details,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}
