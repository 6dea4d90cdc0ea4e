package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/telco-selfcare-api/internal/domain"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/entity"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/repository"
)

var _ repository.TariffPlanRepository = (*TariffPlanRepo)(nil)

const tariffColumns = `id, name, description, price, currency, voice_minutes, data_gb, sms_count, validity_days, is_active, created_at, updated_at`

// TariffPlanRepo catálogo de planes sobre PostgreSQL.
type TariffPlanRepo struct {
	db Querier
}

// NewTariffPlanRepository construye el adaptador.
func NewTariffPlanRepository(db Querier) *TariffPlanRepo {
	return &TariffPlanRepo{db: db}
}

func scanTariff(row pgx.Row) (*entity.TariffPlan, error) {
	var p entity.TariffPlan
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Currency, &p.VoiceMinutes,
		&p.DataGB, &p.SMSCount, &p.ValidityDays, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un plan nuevo.
func (r *TariffPlanRepo) Create(ctx context.Context, p *entity.TariffPlan) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO tariff_plans (`+tariffColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		p.ID, p.Name, p.Description, p.Price, p.Currency, p.VoiceMinutes,
		p.DataGB, p.SMSCount, p.ValidityDays, p.IsActive, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert tariff plan: %w", err)
	}
	return nil
}

// GetByID obtiene un plan.
func (r *TariffPlanRepo) GetByID(ctx context.Context, id string) (*entity.TariffPlan, error) {
	p, err := scanTariff(r.db.QueryRow(ctx, `SELECT `+tariffColumns+` FROM tariff_plans WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tariff plan: %w", err)
	}
	return p, nil
}

// List devuelve los planes, más recientes primero.
func (r *TariffPlanRepo) List(ctx context.Context) ([]*entity.TariffPlan, error) {
	rows, err := r.db.Query(ctx, `SELECT `+tariffColumns+` FROM tariff_plans ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list tariff plans: %w", err)
	}
	defer rows.Close()
	var list []*entity.TariffPlan
	for rows.Next() {
		p, err := scanTariff(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tariff plan: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Update aplica los campos no nulos; nil si no existe.
func (r *TariffPlanRepo) Update(ctx context.Context, id string, p entity.TariffPlanPatch) (*entity.TariffPlan, error) {
	query := `
		UPDATE tariff_plans SET
			name          = COALESCE($2, name),
			description   = COALESCE($3, description),
			price         = COALESCE($4, price),
			currency      = COALESCE($5, currency),
			voice_minutes = COALESCE($6, voice_minutes),
			data_gb       = COALESCE($7, data_gb),
			sms_count     = COALESCE($8, sms_count),
			validity_days = COALESCE($9, validity_days),
			is_active     = COALESCE($10, is_active),
			updated_at    = NOW()
		WHERE id = $1
		RETURNING ` + tariffColumns
	out, err := scanTariff(r.db.QueryRow(ctx, query, id, p.Name, p.Description, p.Price, p.Currency,
		p.VoiceMinutes, p.DataGB, p.SMSCount, p.ValidityDays, p.IsActive))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicate
		}
		return nil, fmt.Errorf("update tariff plan: %w", err)
	}
	return out, nil
}

// Delete borra el plan; ErrNotFound si no existe.
func (r *TariffPlanRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tariff_plans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tariff plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
