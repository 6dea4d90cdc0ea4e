package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/telco-selfcare-api/internal/application/dto"
	"github.com/jhoicas/telco-selfcare-api/internal/domain"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/entity"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// UsageUseCase registro y consulta de consumos.
type UsageUseCase struct {
	usage   repository.UsageRepository
	msisdns repository.MSISDNRepository
	tx      UsageTxRunner
}

// NewUsageUseCase construye el caso de uso.
func NewUsageUseCase(usage repository.UsageRepository, msisdns repository.MSISDNRepository, tx UsageTxRunner) *UsageUseCase {
	return &UsageUseCase{usage: usage, msisdns: msisdns, tx: tx}
}

// List consumos visibles para el llamador.
func (uc *UsageUseCase) List(ctx context.Context, caller entity.Identity, companyID string) ([]dto.UsageResponse, error) {
	company, err := ScopeCompany(caller, companyID)
	if err != nil {
		return nil, err
	}
	list, err := uc.usage.List(ctx, company)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UsageResponse, 0, len(list))
	for _, u := range list {
		out = append(out, entityToUsageResponse(u))
	}
	return out, nil
}

// Record guarda el consumo del período y, si los datos alcanzan usage_limit,
// crea una alerta usage_limit pendiente en la misma transacción (una por línea).
func (uc *UsageUseCase) Record(ctx context.Context, caller entity.Identity, in dto.RecordUsageRequest) (*dto.UsageResponse, error) {
	for _, d := range []decimal.Decimal{
		in.Voice.National, in.Voice.International, in.Voice.Roaming, in.Data.Home, in.Data.Roaming,
	} {
		if d.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
	}
	line, err := uc.msisdns.GetByID(ctx, in.MSISDNID)
	if err != nil {
		return nil, err
	}
	if line == nil || !inScope(caller, line.CompanyID) {
		return nil, domain.ErrNotFound
	}

	u := &entity.Usage{
		ID:                 uuid.New().String(),
		MSISDNID:           line.ID,
		Month:              in.Month,
		Year:               in.Year,
		VoiceNational:      in.Voice.National,
		VoiceInternational: in.Voice.International,
		VoiceRoaming:       in.Voice.Roaming,
		SMS:                in.SMS,
		DataHome:           in.Data.Home,
		DataRoaming:        in.Data.Roaming,
	}
	triggered := false
	err = uc.tx.RunUsage(ctx, func(usage repository.UsageRepository, alerts repository.AlertRepository) error {
		if err := usage.Upsert(ctx, u); err != nil {
			return err
		}
		if !u.ReachesLimit(line.UsageLimit) {
			return nil
		}
		pending, err := alerts.HasPending(ctx, line.ID, entity.AlertTypeUsageLimit)
		if err != nil || pending {
			return err
		}
		now := time.Now()
		triggered = true
		return alerts.Create(ctx, &entity.Alert{
			ID:          uuid.New().String(),
			MSISDNID:    line.ID,
			Type:        entity.AlertTypeUsageLimit,
			Threshold:   line.UsageLimit,
			Status:      entity.AlertStatusPending,
			TriggeredAt: now,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	})
	if err != nil {
		return nil, err
	}
	u.MSISDN = &entity.MSISDNRef{ID: line.ID, Number: line.Number, CompanyID: line.CompanyID}
	resp := entityToUsageResponse(u)
	resp.AlertTriggered = triggered
	return &resp, nil
}

func entityToUsageResponse(u *entity.Usage) dto.UsageResponse {
	r := dto.UsageResponse{
		ID:       u.ID,
		MSISDNID: u.MSISDNID,
		Month:    u.Month,
		Year:     u.Year,
		Voice: dto.VoiceUsage{
			National:      u.VoiceNational,
			International: u.VoiceInternational,
			Roaming:       u.VoiceRoaming,
		},
		SMS:  u.SMS,
		Data: dto.DataUsage{Home: u.DataHome, Roaming: u.DataRoaming},
	}
	if u.MSISDN != nil {
		r.MSISDN = &dto.MSISDNRefResponse{ID: u.MSISDN.ID, MSISDN: u.MSISDN.Number}
	}
	return r
}
