package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/telco-selfcare-api/internal/application/dto"
	"github.com/jhoicas/telco-selfcare-api/internal/domain"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/entity"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/repository"
)

// TariffPlanUseCase catálogo de planes.
type TariffPlanUseCase struct {
	repo repository.TariffPlanRepository
}

// NewTariffPlanUseCase construye el caso de uso.
func NewTariffPlanUseCase(repo repository.TariffPlanRepository) *TariffPlanUseCase {
	return &TariffPlanUseCase{repo: repo}
}

// List todos los planes, más recientes primero.
func (uc *TariffPlanUseCase) List(ctx context.Context) ([]dto.TariffPlanResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TariffPlanResponse, 0, len(list))
	for _, p := range list {
		out = append(out, entityToTariffResponse(p))
	}
	return out, nil
}

// Create alta de plan activo; moneda por defecto ALL.
func (uc *TariffPlanUseCase) Create(ctx context.Context, in dto.CreateTariffPlanRequest) (*dto.TariffPlanResponse, error) {
	if in.Price.IsNegative() || in.DataGB.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = entity.DefaultCurrency
	}
	now := time.Now()
	p := &entity.TariffPlan{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		Price:        in.Price,
		Currency:     currency,
		VoiceMinutes: in.VoiceMinutes,
		DataGB:       in.DataGB,
		SMSCount:     in.SMSCount,
		ValidityDays: in.ValidityDays,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if p.ValidityDays == 0 {
		p.ValidityDays = 30
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	resp := entityToTariffResponse(p)
	return &resp, nil
}

// Update actualización parcial por id.
func (uc *TariffPlanUseCase) Update(ctx context.Context, in dto.UpdateTariffPlanRequest) (*dto.TariffPlanResponse, error) {
	if (in.Price != nil && in.Price.IsNegative()) || (in.DataGB != nil && in.DataGB.IsNegative()) {
		return nil, domain.ErrInvalidInput
	}
	if in.Currency != nil {
		c := strings.ToUpper(*in.Currency)
		in.Currency = &c
	}
	p, err := uc.repo.Update(ctx, in.ID, entity.TariffPlanPatch{
		Name:         in.Name,
		Description:  in.Description,
		Price:        in.Price,
		Currency:     in.Currency,
		VoiceMinutes: in.VoiceMinutes,
		DataGB:       in.DataGB,
		SMSCount:     in.SMSCount,
		ValidityDays: in.ValidityDays,
		IsActive:     in.IsActive,
	})
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	resp := entityToTariffResponse(p)
	return &resp, nil
}

// Delete borra un plan.
func (uc *TariffPlanUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(ctx, id)
}

func entityToTariffResponse(p *entity.TariffPlan) dto.TariffPlanResponse {
	return dto.TariffPlanResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		Currency:     p.Currency,
		VoiceMinutes: p.VoiceMinutes,
		DataGB:       p.DataGB,
		SMSCount:     p.SMSCount,
		ValidityDays: p.ValidityDays,
		IsActive:     p.IsActive,
		CreatedAt:    p.CreatedAt,
	}
}
