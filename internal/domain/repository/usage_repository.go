package repository

import (
	"context"

	"github.com/jhoicas/telco-selfcare-api/internal/domain/entity"
)

// UsageRepository consumos mensuales por línea.
type UsageRepository interface {
	// Upsert inserta o reemplaza el consumo de (msisdn_id, month, year).
	Upsert(ctx context.Context, u *entity.Usage) error
	List(ctx context.Context, companyID string) ([]*entity.Usage, error)
	ListByPeriod(ctx context.Context, companyID string, month, year int) ([]*entity.Usage, error)
}
