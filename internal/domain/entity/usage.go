package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Usage consumo mensual de una línea. Único por (msisdn_id, month, year).
type Usage struct {
	ID                 string
	MSISDNID           string
	Month              int
	Year               int
	VoiceNational      decimal.Decimal
	VoiceInternational decimal.Decimal
	VoiceRoaming       decimal.Decimal
	SMS                int
	DataHome           decimal.Decimal
	DataRoaming        decimal.Decimal
	CreatedAt          time.Time
	UpdatedAt          time.Time

	MSISDN *MSISDNRef // solo en lecturas
}

// TotalData datos consumidos (casa + roaming).
func (u *Usage) TotalData() decimal.Decimal {
	return u.DataHome.Add(u.DataRoaming)
}

// TotalVoice minutos consumidos.
func (u *Usage) TotalVoice() decimal.Decimal {
	return u.VoiceNational.Add(u.VoiceInternational).Add(u.VoiceRoaming)
}

// ReachesLimit indica si el consumo de datos alcanza un límite positivo.
func (u *Usage) ReachesLimit(limit decimal.Decimal) bool {
	return limit.IsPositive() && u.TotalData().GreaterThanOrEqual(limit)
}
