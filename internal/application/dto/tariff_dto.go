package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateTariffPlanRequest alta de plan.
type CreateTariffPlanRequest struct {
	Name         string          `json:"name" validate:"required,min=1,max=100"`
	Description  string          `json:"description" validate:"max=500"`
	Price        decimal.Decimal `json:"price"`
	Currency     string          `json:"currency" validate:"omitempty,len=3,alpha"`
	VoiceMinutes int             `json:"voice_minutes" validate:"min=0"`
	DataGB       decimal.Decimal `json:"data_gb"`
	SMSCount     int             `json:"sms_count" validate:"min=0"`
	ValidityDays int             `json:"validity_days" validate:"min=0,max=3650"`
}

// UpdateTariffPlanRequest actualización parcial por id.
type UpdateTariffPlanRequest struct {
	ID           string           `json:"id" validate:"required,uuid"`
	Name         *string          `json:"name" validate:"omitempty,min=1,max=100"`
	Description  *string          `json:"description" validate:"omitempty,max=500"`
	Price        *decimal.Decimal `json:"price"`
	Currency     *string          `json:"currency" validate:"omitempty,len=3,alpha"`
	VoiceMinutes *int             `json:"voice_minutes" validate:"omitempty,min=0"`
	DataGB       *decimal.Decimal `json:"data_gb"`
	SMSCount     *int             `json:"sms_count" validate:"omitempty,min=0"`
	ValidityDays *int             `json:"validity_days" validate:"omitempty,min=0,max=3650"`
	IsActive     *bool            `json:"is_active"`
}

// TariffPlanResponse salida de un plan.
type TariffPlanResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Currency     string          `json:"currency"`
	VoiceMinutes int             `json:"voice_minutes"`
	DataGB       decimal.Decimal `json:"data_gb"`
	SMSCount     int             `json:"sms_count"`
	ValidityDays int             `json:"validity_days"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
}
