package dto

import "github.com/shopspring/decimal"

// UpsertMSISDNRequest alta o actualización por número. CompanyID solo lo usan admin/ssr.
type UpsertMSISDNRequest struct {
	MSISDN       string          `json:"msisdn" validate:"required,numeric,min=6,max=20"`
	TariffPlanID *string         `json:"tariff_plan_id" validate:"omitempty,uuid"`
	UsageLimit   decimal.Decimal `json:"usage_limit"`
	CompanyID    string          `json:"company_id" validate:"omitempty,uuid"`
}

// UpdateMSISDNRequest cambio de plan o límite.
type UpdateMSISDNRequest struct {
	MSISDN       string           `json:"msisdn" validate:"required"`
	TariffPlanID *string          `json:"tariff_plan_id" validate:"omitempty,uuid"`
	UsageLimit   *decimal.Decimal `json:"usage_limit"`
}

// MSISDNResponse salida de una línea.
type MSISDNResponse struct {
	ID             string          `json:"id"`
	MSISDN         string          `json:"msisdn"`
	CompanyID      string          `json:"company_id"`
	UserID         *string         `json:"user_id"`
	TariffPlanID   *string         `json:"tariff_plan_id"`
	UsageLimit     decimal.Decimal `json:"usage_limit"`
	Unit           string          `json:"unit"`
	DurationVolume decimal.Decimal `json:"duration_volume"`
	TariffVATIncl  decimal.Decimal `json:"tariff_vat_incl"`
}
