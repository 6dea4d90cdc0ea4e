package repository

import (
	"context"

	"github.com/jhoicas/telco-selfcare-api/internal/domain/entity"
)

// AlertRepository alertas por línea. Las lecturas incluyen la referencia a la línea.
type AlertRepository interface {
	Create(ctx context.Context, a *entity.Alert) error
	GetByID(ctx context.Context, id string) (*entity.Alert, error)
	List(ctx context.Context, companyID string) ([]*entity.Alert, error)
	UpdateStatus(ctx context.Context, id, status string) (*entity.Alert, error)
	HasPending(ctx context.Context, msisdnID, alertType string) (bool, error)
	CountPending(ctx context.Context, companyID string) (int, error)
}
