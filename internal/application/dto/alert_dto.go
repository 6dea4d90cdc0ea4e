package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateAlertRequest alta de alerta sobre una línea.
type CreateAlertRequest struct {
	MSISDNID  string          `json:"msisdnId" validate:"required,uuid"`
	Type      string          `json:"type" validate:"required,oneof=usage_limit monthly_fee"`
	Threshold decimal.Decimal `json:"threshold"`
}

// UpdateAlertRequest cambio de estado.
type UpdateAlertRequest struct {
	AlertID string `json:"alertId" validate:"required,uuid"`
	Status  string `json:"status" validate:"required,oneof=pending sent resolved"`
}

// AlertResponse salida de una alerta.
type AlertResponse struct {
	ID          string             `json:"id"`
	MSISDNID    string             `json:"msisdn_id"`
	Type        string             `json:"type"`
	Threshold   decimal.Decimal    `json:"threshold"`
	Status      string             `json:"status"`
	TriggeredAt time.Time          `json:"triggered_at"`
	MSISDN      *MSISDNRefResponse `json:"msisdn,omitempty"`
}
