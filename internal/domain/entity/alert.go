package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de alerta.
const (
	AlertTypeUsageLimit = "usage_limit"
	AlertTypeMonthlyFee = "monthly_fee"
)

// Estados de alerta.
const (
	AlertStatusPending  = "pending"
	AlertStatusSent     = "sent"
	AlertStatusResolved = "resolved"
)

// Alert alerta sobre una línea.
type Alert struct {
	ID          string
	MSISDNID    string
	Type        string
	Threshold   decimal.Decimal
	Status      string
	TriggeredAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	MSISDN *MSISDNRef // solo en lecturas
}

// ValidAlertType indica si t es un tipo conocido.
func ValidAlertType(t string) bool {
	return t == AlertTypeUsageLimit || t == AlertTypeMonthlyFee
}

// ValidAlertStatus indica si s es un estado conocido.
func ValidAlertStatus(s string) bool {
	switch s {
	case AlertStatusPending, AlertStatusSent, AlertStatusResolved:
		return true
	}
	return false
}
