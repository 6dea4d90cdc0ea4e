package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/telco-selfcare-api/internal/domain"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/entity"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/repository"
)

var _ repository.UsageRepository = (*UsageRepo)(nil)

// UsageRepo consumos mensuales sobre PostgreSQL.
type UsageRepo struct {
	db Querier
}

// NewUsageRepository construye el adaptador.
func NewUsageRepository(db Querier) *UsageRepo {
	return &UsageRepo{db: db}
}

// Upsert inserta el consumo o reemplaza el del mismo período; rellena ID y fechas.
func (r *UsageRepo) Upsert(ctx context.Context, u *entity.Usage) error {
	query := `
		INSERT INTO usage (id, msisdn_id, month, year, voice_national, voice_international, voice_roaming, sms, data_home, data_roaming, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		ON CONFLICT (msisdn_id, month, year) DO UPDATE SET
			voice_national      = EXCLUDED.voice_national,
			voice_international = EXCLUDED.voice_international,
			voice_roaming       = EXCLUDED.voice_roaming,
			sms                 = EXCLUDED.sms,
			data_home           = EXCLUDED.data_home,
			data_roaming        = EXCLUDED.data_roaming,
			updated_at          = NOW()
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		u.ID, u.MSISDNID, u.Month, u.Year, u.VoiceNational, u.VoiceInternational, u.VoiceRoaming,
		u.SMS, u.DataHome, u.DataRoaming,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("upsert usage: %w", err)
	}
	return nil
}

const usageSelect = `
	SELECT u.id, u.msisdn_id, u.month, u.year, u.voice_national, u.voice_international, u.voice_roaming,
	       u.sms, u.data_home, u.data_roaming, u.created_at, u.updated_at,
	       m.id, m.msisdn, m.company_id
	FROM usage u
	JOIN msisdns m ON m.id = u.msisdn_id`

// List devuelve los consumos con la línea embebida, más recientes primero.
func (r *UsageRepo) List(ctx context.Context, companyID string) ([]*entity.Usage, error) {
	return r.query(ctx, usageSelect+`
		WHERE ($1::uuid IS NULL OR m.company_id = $1)
		ORDER BY u.year DESC, u.month DESC, m.msisdn`, nullIfEmpty(companyID))
}

// ListByPeriod consumos de un mes concreto (para el extracto).
func (r *UsageRepo) ListByPeriod(ctx context.Context, companyID string, month, year int) ([]*entity.Usage, error) {
	return r.query(ctx, usageSelect+`
		WHERE ($1::uuid IS NULL OR m.company_id = $1) AND u.month = $2 AND u.year = $3
		ORDER BY m.msisdn`, nullIfEmpty(companyID), month, year)
}

func (r *UsageRepo) query(ctx context.Context, sql string, args ...any) ([]*entity.Usage, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list usage: %w", err)
	}
	defer rows.Close()
	var list []*entity.Usage
	for rows.Next() {
		var u entity.Usage
		var ref entity.MSISDNRef
		if err := rows.Scan(&u.ID, &u.MSISDNID, &u.Month, &u.Year, &u.VoiceNational, &u.VoiceInternational,
			&u.VoiceRoaming, &u.SMS, &u.DataHome, &u.DataRoaming, &u.CreatedAt, &u.UpdatedAt,
			&ref.ID, &ref.Number, &ref.CompanyID); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		u.MSISDN = &ref
		list = append(list, &u)
	}
	return list, rows.Err()
}
