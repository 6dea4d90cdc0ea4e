package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/telco-selfcare-api/internal/domain/entity"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo bitácora sobre PostgreSQL.
type AuditLogRepo struct {
	db Querier
}

// NewAuditLogRepository construye el adaptador.
func NewAuditLogRepository(db Querier) *AuditLogRepo {
	return &AuditLogRepo{db: db}
}

// Append inserta una entrada.
func (r *AuditLogRepo) Append(ctx context.Context, l *entity.AuditLog) error {
	details := l.Details
	if len(details) == 0 {
		details = []byte(`{}`)
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO logs (id, user_id, action, details, ip, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		l.ID, l.UserID, l.Action, string(details), l.IP, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert log: %w", err)
	}
	return nil
}

// List página de la bitácora con el msisdn del usuario, más recientes primero.
func (r *AuditLogRepo) List(ctx context.Context, limit, offset int) ([]*entity.AuditLog, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM logs`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count logs: %w", err)
	}
	rows, err := r.db.Query(ctx, `
		SELECT l.id, l.user_id, l.action, l.details, l.ip, l.created_at, u.msisdn
		FROM logs l
		LEFT JOIN users u ON u.id = l.user_id
		ORDER BY l.created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditLog
	for rows.Next() {
		var l entity.AuditLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.Action, &l.Details, &l.IP, &l.CreatedAt, &l.UserMSISDN); err != nil {
			return nil, 0, fmt.Errorf("scan log: %w", err)
		}
		list = append(list, &l)
	}
	return list, total, rows.Err()
}
