package usecase

import (
	"context"

	"github.com/jhoicas/telco-selfcare-api/internal/application/dto"
	"github.com/jhoicas/telco-selfcare-api/internal/domain"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/entity"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/repository"
)

const (
	defaultLogLimit = 50
	maxLogLimit     = 200
	maxLogPage      = 1_000_000 // (maxLogPage-1)*maxLogLimit cabe en un int32
)

// LogUseCase lectura paginada y alta manual de la bitácora.
type LogUseCase struct {
	logs repository.AuditLogRepository
}

// NewLogUseCase construye el caso de uso.
func NewLogUseCase(logs repository.AuditLogRepository) *LogUseCase {
	return &LogUseCase{logs: logs}
}

// List página 1-based, más recientes primero.
func (uc *LogUseCase) List(ctx context.Context, q dto.LogListQuery) (*dto.LogListResponse, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Page > maxLogPage {
		q.Page = maxLogPage
	}
	if q.Limit <= 0 {
		q.Limit = defaultLogLimit
	}
	if q.Limit > maxLogLimit {
		q.Limit = maxLogLimit
	}
	list, total, err := uc.logs.List(ctx, q.Limit, (q.Page-1)*q.Limit)
	if err != nil {
		return nil, err
	}
	out := &dto.LogListResponse{Logs: make([]dto.LogResponse, 0, len(list)), Total: total, Page: q.Page, Limit: q.Limit}
	for _, l := range list {
		out.Logs = append(out.Logs, entityToLogResponse(l))
	}
	return out, nil
}

// Create añade una entrada a nombre del llamador.
func (uc *LogUseCase) Create(ctx context.Context, caller entity.Identity, in dto.CreateLogRequest, ip string) (*dto.LogResponse, error) {
	details, err := normalizeDetails(in.Details)
	if err != nil {
		return nil, err
	}
	if in.Action == "" {
		return nil, domain.ErrInvalidInput
	}
	entry := newAuditEntry(caller.UserID, in.Action, nil, ip)
	entry.Details = details
	if err := uc.logs.Append(ctx, entry); err != nil {
		return nil, err
	}
	resp := entityToLogResponse(entry)
	return &resp, nil
}

func entityToLogResponse(l *entity.AuditLog) dto.LogResponse {
	r := dto.LogResponse{
		ID:        l.ID,
		UserID:    l.UserID,
		Action:    l.Action,
		Details:   l.Details,
		IP:        l.IP,
		CreatedAt: l.CreatedAt,
	}
	if l.UserID != nil {
		r.User = &dto.LogUser{ID: *l.UserID, MSISDN: l.UserMSISDN}
	}
	return r
}
