package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jhoicas/telco-selfcare-api/internal/application/dto"
	"github.com/jhoicas/telco-selfcare-api/internal/domain"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/entity"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/repository"
)

// MSISDNUseCase gestión de líneas móviles.
type MSISDNUseCase struct {
	repo    repository.MSISDNRepository
	tariffs repository.TariffPlanRepository
}

// NewMSISDNUseCase construye el caso de uso.
func NewMSISDNUseCase(repo repository.MSISDNRepository, tariffs repository.TariffPlanRepository) *MSISDNUseCase {
	return &MSISDNUseCase{repo: repo, tariffs: tariffs}
}

// List líneas visibles para el llamador.
func (uc *MSISDNUseCase) List(ctx context.Context, caller entity.Identity, companyID string) ([]dto.MSISDNResponse, error) {
	company, err := ScopeCompany(caller, companyID)
	if err != nil {
		return nil, err
	}
	list, err := uc.repo.List(ctx, company)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MSISDNResponse, 0, len(list))
	for _, m := range list {
		out = append(out, entityToMSISDNResponse(m))
	}
	return out, nil
}

// Upsert crea la línea o actualiza plan/límite. Una línea de otra empresa es conflicto.
func (uc *MSISDNUseCase) Upsert(ctx context.Context, caller entity.Identity, in dto.UpsertMSISDNRequest) (*dto.MSISDNResponse, error) {
	if in.UsageLimit.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	company, err := targetCompany(caller, in.CompanyID)
	if err != nil {
		return nil, err
	}
	if err := uc.checkTariff(ctx, in.TariffPlanID); err != nil {
		return nil, err
	}
	number := strings.TrimSpace(in.MSISDN)
	existing, err := uc.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.CompanyID != company {
		return nil, domain.ErrConflict
	}

	m := &entity.MSISDN{
		ID:           uuid.New().String(),
		Number:       number,
		CompanyID:    company,
		TariffPlanID: in.TariffPlanID,
		UsageLimit:   in.UsageLimit,
	}
	if err := uc.repo.Upsert(ctx, m); err != nil {
		return nil, err
	}
	resp := entityToMSISDNResponse(m)
	return &resp, nil
}

// Update cambia plan o límite de una línea visible para el llamador.
func (uc *MSISDNUseCase) Update(ctx context.Context, caller entity.Identity, in dto.UpdateMSISDNRequest) (*dto.MSISDNResponse, error) {
	if in.UsageLimit != nil && in.UsageLimit.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	number := strings.TrimSpace(in.MSISDN)
	existing, err := uc.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if existing == nil || !inScope(caller, existing.CompanyID) {
		return nil, domain.ErrNotFound
	}
	if err := uc.checkTariff(ctx, in.TariffPlanID); err != nil {
		return nil, err
	}
	m, err := uc.repo.Update(ctx, number, repository.MSISDNPatch{TariffPlanID: in.TariffPlanID, UsageLimit: in.UsageLimit})
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	resp := entityToMSISDNResponse(m)
	return &resp, nil
}

func (uc *MSISDNUseCase) checkTariff(ctx context.Context, id *string) error {
	if id == nil {
		return nil
	}
	p, err := uc.tariffs.GetByID(ctx, *id)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrInvalidInput
	}
	return nil
}

func entityToMSISDNResponse(m *entity.MSISDN) dto.MSISDNResponse {
	return dto.MSISDNResponse{
		ID:             m.ID,
		MSISDN:         m.Number,
		CompanyID:      m.CompanyID,
		UserID:         m.UserID,
		TariffPlanID:   m.TariffPlanID,
		UsageLimit:     m.UsageLimit,
		Unit:           m.Unit,
		DurationVolume: m.DurationVolume,
		TariffVATIncl:  m.TariffVATIncl,
	}
}
