package repository

import (
	"context"

	"github.com/jhoicas/telco-selfcare-api/internal/domain/entity"
)

// OrderRepository pedidos de empresas.
type OrderRepository interface {
	Create(ctx context.Context, o *entity.Order) error
	// GetByIDForUpdate bloquea la fila (SELECT ... FOR UPDATE) cuando se usa dentro de una tx.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Order, error)
	List(ctx context.Context, companyID string) ([]*entity.Order, error)
	UpdateStatus(ctx context.Context, id, status string) (*entity.Order, error)
	CountOpen(ctx context.Context, companyID string) (int, error)
}
