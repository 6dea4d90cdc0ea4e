package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
// Contadores de la empresa (o globales para admin/ssr) y top de consumo del mes en curso.
type DashboardSummaryDTO struct {
	CompanyID     string `json:"company_id,omitempty"`
	Lines         int    `json:"lines"`
	Users         int    `json:"users"`
	PendingAlerts int    `json:"pending_alerts"`
	OpenOrders    int    `json:"open_orders"`

	// Consumo del mes en curso
	MonthlyDataGB       decimal.Decimal  `json:"monthly_data_gb"`
	MonthlyVoiceMinutes decimal.Decimal  `json:"monthly_voice_minutes"`
	TopConsumers        []TopConsumerDTO `json:"top_consumers"`

	DateLabel   string    `json:"date_label"` // ej: "Febrero 2026"
	GeneratedAt time.Time `json:"generated_at"`
}

// TopConsumerDTO línea con mayor consumo de datos en el mes.
type TopConsumerDTO struct {
	MSISDNID string          `json:"msisdn_id"`
	MSISDN   string          `json:"msisdn"`
	DataGB   decimal.Decimal `json:"data_gb"`
}
