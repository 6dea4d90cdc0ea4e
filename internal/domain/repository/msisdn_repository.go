package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/telco-selfcare-api/internal/domain/entity"
)

// MSISDNPatch campos opcionales al actualizar una línea.
type MSISDNPatch struct {
	TariffPlanID *string
	UsageLimit   *decimal.Decimal
}

// MSISDNRepository líneas móviles. companyID vacío en List/Count = todas las empresas.
type MSISDNRepository interface {
	// Upsert inserta o actualiza por número (plan y límite). Si el número ya es de
	// otra empresa devuelve domain.ErrConflict sin tocar la línea.
	Upsert(ctx context.Context, m *entity.MSISDN) error
	GetByID(ctx context.Context, id string) (*entity.MSISDN, error)
	GetByNumber(ctx context.Context, number string) (*entity.MSISDN, error)
	List(ctx context.Context, companyID string) ([]*entity.MSISDN, error)
	Count(ctx context.Context, companyID string) (int, error)
	Update(ctx context.Context, number string, patch MSISDNPatch) (*entity.MSISDN, error)
}
