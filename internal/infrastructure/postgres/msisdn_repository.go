package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/telco-selfcare-api/internal/domain"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/entity"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/repository"
)

var _ repository.MSISDNRepository = (*MSISDNRepo)(nil)

const msisdnColumns = `id, msisdn, company_id, user_id, tariff_plan_id, usage_limit, unit, duration_volume, tariff_vat_incl, created_at, updated_at`

// MSISDNRepo líneas móviles sobre PostgreSQL.
type MSISDNRepo struct {
	db Querier
}

// NewMSISDNRepository construye el adaptador.
func NewMSISDNRepository(db Querier) *MSISDNRepo {
	return &MSISDNRepo{db: db}
}

func scanMSISDN(row pgx.Row) (*entity.MSISDN, error) {
	var m entity.MSISDN
	err := row.Scan(&m.ID, &m.Number, &m.CompanyID, &m.UserID, &m.TariffPlanID,
		&m.UsageLimit, &m.Unit, &m.DurationVolume, &m.TariffVATIncl, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Upsert inserta la línea o actualiza plan y límite si el número ya existe en la misma empresa; rellena m con la fila final.
func (r *MSISDNRepo) Upsert(ctx context.Context, m *entity.MSISDN) error {
	query := `
		INSERT INTO msisdns (id, msisdn, company_id, user_id, tariff_plan_id, usage_limit, unit, duration_volume, tariff_vat_incl, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		ON CONFLICT (msisdn) DO UPDATE SET
			tariff_plan_id = EXCLUDED.tariff_plan_id,
			usage_limit    = EXCLUDED.usage_limit,
			updated_at     = NOW()
		WHERE msisdns.company_id = EXCLUDED.company_id
		RETURNING ` + msisdnColumns
	unit := m.Unit
	if unit == "" {
		unit = "GB"
	}
	out, err := scanMSISDN(r.db.QueryRow(ctx, query,
		m.ID, m.Number, m.CompanyID, m.UserID, m.TariffPlanID, m.UsageLimit, unit, m.DurationVolume, m.TariffVATIncl,
	))
	if err != nil {
		if isNoRows(err) {
			// el número existe en otra empresa: el WHERE del DO UPDATE no devolvió fila
			return fmt.Errorf("%w: la línea pertenece a otra empresa", domain.ErrConflict)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: empresa o plan inexistente", domain.ErrInvalidInput)
		}
		return fmt.Errorf("upsert msisdn: %w", err)
	}
	*m = *out
	return nil
}

// GetByID obtiene una línea por ID.
func (r *MSISDNRepo) GetByID(ctx context.Context, id string) (*entity.MSISDN, error) {
	m, err := scanMSISDN(r.db.QueryRow(ctx, `SELECT `+msisdnColumns+` FROM msisdns WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get msisdn: %w", err)
	}
	return m, nil
}

// GetByNumber obtiene una línea por número.
func (r *MSISDNRepo) GetByNumber(ctx context.Context, number string) (*entity.MSISDN, error) {
	m, err := scanMSISDN(r.db.QueryRow(ctx, `SELECT `+msisdnColumns+` FROM msisdns WHERE msisdn = $1`, number))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get msisdn by number: %w", err)
	}
	return m, nil
}

// List lista las líneas de una empresa (todas si companyID es "").
func (r *MSISDNRepo) List(ctx context.Context, companyID string) ([]*entity.MSISDN, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+msisdnColumns+`
		FROM msisdns
		WHERE ($1::uuid IS NULL OR company_id = $1)
		ORDER BY msisdn`, nullIfEmpty(companyID))
	if err != nil {
		return nil, fmt.Errorf("list msisdns: %w", err)
	}
	defer rows.Close()
	var list []*entity.MSISDN
	for rows.Next() {
		m, err := scanMSISDN(rows)
		if err != nil {
			return nil, fmt.Errorf("scan msisdn: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// Count cuenta líneas.
func (r *MSISDNRepo) Count(ctx context.Context, companyID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM msisdns WHERE ($1::uuid IS NULL OR company_id = $1)`, nullIfEmpty(companyID),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count msisdns: %w", err)
	}
	return n, nil
}

// Update cambia plan y/o límite de la línea; nil si el número no existe.
func (r *MSISDNRepo) Update(ctx context.Context, number string, p repository.MSISDNPatch) (*entity.MSISDN, error) {
	query := `
		UPDATE msisdns SET
			tariff_plan_id = COALESCE($2::uuid, tariff_plan_id),
			usage_limit    = COALESCE($3, usage_limit),
			updated_at     = NOW()
		WHERE msisdn = $1
		RETURNING ` + msisdnColumns
	m, err := scanMSISDN(r.db.QueryRow(ctx, query, number, p.TariffPlanID, p.UsageLimit))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: plan inexistente", domain.ErrInvalidInput)
		}
		return nil, fmt.Errorf("update msisdn: %w", err)
	}
	return m, nil
}
