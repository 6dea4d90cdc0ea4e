package dto

import (
	"github.com/shopspring/decimal"
)

// VoiceUsage minutos por destino.
type VoiceUsage struct {
	National      decimal.Decimal `json:"national"`
	International decimal.Decimal `json:"international"`
	Roaming       decimal.Decimal `json:"roaming"`
}

// DataUsage GB en red propia y en roaming.
type DataUsage struct {
	Home    decimal.Decimal `json:"home"`
	Roaming decimal.Decimal `json:"roaming"`
}

// RecordUsageRequest consumo mensual de una línea.
type RecordUsageRequest struct {
	MSISDNID string     `json:"msisdnId" validate:"required,uuid"`
	Month    int        `json:"month" validate:"required,min=1,max=12"`
	Year     int        `json:"year" validate:"required,min=2000,max=2100"`
	Voice    VoiceUsage `json:"voice"`
	SMS      int        `json:"sms" validate:"min=0"`
	Data     DataUsage  `json:"data"`
}

// MSISDNRefResponse línea embebida en usage y alerts.
type MSISDNRefResponse struct {
	ID     string `json:"id"`
	MSISDN string `json:"msisdn"`
}

// UsageResponse salida de un consumo.
type UsageResponse struct {
	ID             string             `json:"id"`
	MSISDNID       string             `json:"msisdn_id"`
	Month          int                `json:"month"`
	Year           int                `json:"year"`
	Voice          VoiceUsage         `json:"voice"`
	SMS            int                `json:"sms"`
	Data           DataUsage          `json:"data"`
	MSISDN         *MSISDNRefResponse `json:"msisdn,omitempty"`
	AlertTriggered bool               `json:"alert_triggered,omitempty"`
}

// StatementQuery período del extracto PDF.
type StatementQuery struct {
	Month     int    `query:"month" validate:"required,min=1,max=12"`
	Year      int    `query:"year" validate:"required,min=2000,max=2100"`
	CompanyID string `query:"company_id" validate:"omitempty,uuid"`
}
