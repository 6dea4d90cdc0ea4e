package entity

import (
	"encoding/json"
	"time"
)

// Tipos de pedido.
const (
	OrderTypePlanChange        = "plan_change"
	OrderTypePackageActivation = "package_activation"
	OrderTypeLimitChange       = "limit_change"
)

// Estados de pedido.
const (
	OrderStatusCreated    = "created"
	OrderStatusPending    = "pending"
	OrderStatusInProgress = "in_progress"
	OrderStatusCompleted  = "completed"
	OrderStatusFailed     = "failed"
)

// Order pedido de una empresa. Details es JSON opaco.
type Order struct {
	ID        string
	CompanyID string
	Type      string
	Status    string
	Details   json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}

// orderTransitions estados destino permitidos desde cada estado; completed y failed son terminales.
var orderTransitions = map[string][]string{
	OrderStatusCreated:    {OrderStatusPending, OrderStatusInProgress, OrderStatusFailed},
	OrderStatusPending:    {OrderStatusInProgress, OrderStatusFailed},
	OrderStatusInProgress: {OrderStatusCompleted, OrderStatusFailed},
	OrderStatusCompleted:  {},
	OrderStatusFailed:     {},
}

// ValidOrderTransition indica si se puede pasar de from a to.
func ValidOrderTransition(from, to string) bool {
	for _, s := range orderTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ValidOrderType indica si t es un tipo conocido.
func ValidOrderType(t string) bool {
	switch t {
	case OrderTypePlanChange, OrderTypePackageActivation, OrderTypeLimitChange:
		return true
	}
	return false
}

// ValidOrderStatus indica si s es un estado conocido.
func ValidOrderStatus(s string) bool {
	_, ok := orderTransitions[s]
	return ok
}

// IsOpen pedidos aún no terminados.
func (o *Order) IsOpen() bool {
	return o.Status != OrderStatusCompleted && o.Status != OrderStatusFailed
}
