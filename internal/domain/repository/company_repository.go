package repository

import (
	"context"

	"github.com/jhoicas/telco-selfcare-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	GetByContractNumber(ctx context.Context, contract string) (*entity.Company, error)
	List(ctx context.Context) ([]*entity.Company, error)
}
