package repository

import (
	"context"

	"github.com/jhoicas/telco-selfcare-api/internal/domain/entity"
)

// TariffPlanRepository catálogo de planes.
type TariffPlanRepository interface {
	Create(ctx context.Context, p *entity.TariffPlan) error
	GetByID(ctx context.Context, id string) (*entity.TariffPlan, error)
	List(ctx context.Context) ([]*entity.TariffPlan, error)
	Update(ctx context.Context, id string, patch entity.TariffPlanPatch) (*entity.TariffPlan, error)
	Delete(ctx context.Context, id string) error
}
