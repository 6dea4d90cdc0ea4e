package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/entity"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/repository"
	"github.com/jhoicas/telco-selfcare-api/pkg/logger"
)

// auditor escribe en la bitácora; un fallo solo se registra en el log.
type auditor struct {
	logs repository.AuditLogRepository
	log  *logger.Logger
}

func newAuditor(logs repository.AuditLogRepository, l *logger.Logger) auditor {
	if l == nil {
		l = logger.Nop()
	}
	return auditor{logs: logs, log: l}
}

func newAuditEntry(userID, action string, details any, ip string) *entity.AuditLog {
	raw := json.RawMessage(`{}`)
	if details != nil {
		if b, err := json.Marshal(details); err == nil {
			raw = b
		}
	}
	var uid *string
	if userID != "" {
		uid = &userID
	}
	return &entity.AuditLog{
		ID:        uuid.New().String(),
		UserID:    uid,
		Action:    action,
		Details:   raw,
		IP:        ip,
		CreatedAt: time.Now(),
	}
}

func (a auditor) record(ctx context.Context, userID, action string, details any, ip string) {
	if a.logs == nil {
		return
	}
	if err := a.logs.Append(ctx, newAuditEntry(userID, action, details, ip)); err != nil {
		a.log.Error().Err(err).Str("action", action).Msg("no se pudo registrar auditoría")
	}
}
