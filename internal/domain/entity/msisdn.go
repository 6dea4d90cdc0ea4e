package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MSISDN línea móvil de una empresa con su plan y límite de consumo.
type MSISDN struct {
	ID             string
	Number         string
	CompanyID      string
	UserID         *string
	TariffPlanID   *string
	UsageLimit     decimal.Decimal // GB de datos; 0 = sin límite
	Unit           string
	DurationVolume decimal.Decimal
	TariffVATIncl  decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// MSISDNRef resumen de línea embebido en usage y alerts.
type MSISDNRef struct {
	ID        string `json:"id"`
	Number    string `json:"msisdn"`
	CompanyID string `json:"company_id"`
}
