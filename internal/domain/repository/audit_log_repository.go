package repository

import (
	"context"

	"github.com/jhoicas/telco-selfcare-api/internal/domain/entity"
)

// AuditLogRepository bitácora de auditoría (solo inserción).
type AuditLogRepository interface {
	Append(ctx context.Context, l *entity.AuditLog) error
	// List devuelve la página pedida (más recientes primero) y el total.
	List(ctx context.Context, limit, offset int) ([]*entity.AuditLog, int, error)
}
