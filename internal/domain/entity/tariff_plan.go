package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCurrency moneda por defecto de los planes (lek albanés).
const DefaultCurrency = "ALL"

// TariffPlan plan tarifario con sus bolsas de voz, datos y SMS.
type TariffPlan struct {
	ID           string
	Name         string
	Description  string
	Price        decimal.Decimal
	Currency     string
	VoiceMinutes int
	DataGB       decimal.Decimal
	SMSCount     int
	ValidityDays int
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TariffPlanPatch campos opcionales de una actualización parcial.
type TariffPlanPatch struct {
	Name         *string
	Description  *string
	Price        *decimal.Decimal
	Currency     *string
	VoiceMinutes *int
	DataGB       *decimal.Decimal
	SMSCount     *int
	ValidityDays *int
	IsActive     *bool
}
