package dto

import (
	"encoding/json"
	"time"
)

// CreateOrderRequest alta de pedido. CompanyID solo lo usan admin/ssr.
type CreateOrderRequest struct {
	Type      string          `json:"type" validate:"required,oneof=plan_change package_activation limit_change"`
	Details   json.RawMessage `json:"details"`
	CompanyID string          `json:"company_id" validate:"omitempty,uuid"`
}

// UpdateOrderRequest transición de estado.
type UpdateOrderRequest struct {
	OrderID string `json:"orderId" validate:"required,uuid"`
	Status  string `json:"status" validate:"required,oneof=created pending in_progress completed failed"`
}

// OrderResponse salida de un pedido.
type OrderResponse struct {
	ID        string          `json:"id"`
	CompanyID string          `json:"company_id"`
	Type      string          `json:"type"`
	Status    string          `json:"status"`
	Details   json.RawMessage `json:"details"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
