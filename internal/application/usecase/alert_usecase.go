package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/telco-selfcare-api/internal/application/dto"
	"github.com/jhoicas/telco-selfcare-api/internal/domain"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/entity"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/repository"
)

// ErrAlertMSISDNNotFound y ErrAlertNotFound se exponen con mensaje propio en la API.
var (
	ErrAlertMSISDNNotFound = wrapNotFound("MSISDN not found or not authorized")
	ErrAlertNotFound       = wrapNotFound("Alert not found or not authorized")
)

// AlertUseCase alertas sobre líneas.
type AlertUseCase struct {
	alerts  repository.AlertRepository
	msisdns repository.MSISDNRepository
}

// NewAlertUseCase construye el caso de uso.
func NewAlertUseCase(alerts repository.AlertRepository, msisdns repository.MSISDNRepository) *AlertUseCase {
	return &AlertUseCase{alerts: alerts, msisdns: msisdns}
}

// List alertas visibles, más recientes primero.
func (uc *AlertUseCase) List(ctx context.Context, caller entity.Identity, companyID string) ([]dto.AlertResponse, error) {
	company, err := ScopeCompany(caller, companyID)
	if err != nil {
		return nil, err
	}
	list, err := uc.alerts.List(ctx, company)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AlertResponse, 0, len(list))
	for _, a := range list {
		out = append(out, entityToAlertResponse(a))
	}
	return out, nil
}

// Create alerta pendiente sobre una línea del llamador.
func (uc *AlertUseCase) Create(ctx context.Context, caller entity.Identity, in dto.CreateAlertRequest) (*dto.AlertResponse, error) {
	if !entity.ValidAlertType(in.Type) || in.Threshold.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	line, err := uc.msisdns.GetByID(ctx, in.MSISDNID)
	if err != nil {
		return nil, err
	}
	if line == nil || !inScope(caller, line.CompanyID) {
		return nil, ErrAlertMSISDNNotFound
	}
	now := time.Now()
	a := &entity.Alert{
		ID:          uuid.New().String(),
		MSISDNID:    line.ID,
		Type:        in.Type,
		Threshold:   in.Threshold,
		Status:      entity.AlertStatusPending,
		TriggeredAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
		MSISDN:      &entity.MSISDNRef{ID: line.ID, Number: line.Number, CompanyID: line.CompanyID},
	}
	if err := uc.alerts.Create(ctx, a); err != nil {
		return nil, err
	}
	resp := entityToAlertResponse(a)
	return &resp, nil
}

// UpdateStatus cambia el estado de una alerta visible para el llamador.
func (uc *AlertUseCase) UpdateStatus(ctx context.Context, caller entity.Identity, in dto.UpdateAlertRequest) (*dto.AlertResponse, error) {
	if !entity.ValidAlertStatus(in.Status) {
		return nil, domain.ErrInvalidInput
	}
	current, err := uc.alerts.GetByID(ctx, in.AlertID)
	if err != nil {
		return nil, err
	}
	if current == nil || current.MSISDN == nil || !inScope(caller, current.MSISDN.CompanyID) {
		return nil, ErrAlertNotFound
	}
	a, err := uc.alerts.UpdateStatus(ctx, in.AlertID, in.Status)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrAlertNotFound
	}
	resp := entityToAlertResponse(a)
	return &resp, nil
}

func entityToAlertResponse(a *entity.Alert) dto.AlertResponse {
	r := dto.AlertResponse{
		ID:          a.ID,
		MSISDNID:    a.MSISDNID,
		Type:        a.Type,
		Threshold:   a.Threshold,
		Status:      a.Status,
		TriggeredAt: a.TriggeredAt,
	}
	if a.MSISDN != nil {
		r.MSISDN = &dto.MSISDNRefResponse{ID: a.MSISDN.ID, MSISDN: a.MSISDN.Number}
	}
	return r
}
