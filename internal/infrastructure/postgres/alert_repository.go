package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/entity"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

const alertSelect = `
	SELECT a.id, a.msisdn_id, a.type, a.threshold, a.status, a.triggered_at, a.created_at, a.updated_at,
	       m.id, m.msisdn, m.company_id
	FROM alerts a
	JOIN msisdns m ON m.id = a.msisdn_id`

// AlertRepo alertas sobre PostgreSQL.
type AlertRepo struct {
	db Querier
}

// NewAlertRepository construye el adaptador.
func NewAlertRepository(db Querier) *AlertRepo {
	return &AlertRepo{db: db}
}

func scanAlert(row pgx.Row) (*entity.Alert, error) {
	var a entity.Alert
	var ref entity.MSISDNRef
	err := row.Scan(&a.ID, &a.MSISDNID, &a.Type, &a.Threshold, &a.Status, &a.TriggeredAt,
		&a.CreatedAt, &a.UpdatedAt, &ref.ID, &ref.Number, &ref.CompanyID)
	if err != nil {
		return nil, err
	}
	a.MSISDN = &ref
	return &a, nil
}

// Create persiste la alerta.
func (r *AlertRepo) Create(ctx context.Context, a *entity.Alert) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO alerts (id, msisdn_id, type, threshold, status, triggered_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.MSISDNID, a.Type, a.Threshold, a.Status, a.TriggeredAt, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

// GetByID obtiene la alerta con su línea.
func (r *AlertRepo) GetByID(ctx context.Context, id string) (*entity.Alert, error) {
	a, err := scanAlert(r.db.QueryRow(ctx, alertSelect+` WHERE a.id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get alert: %w", err)
	}
	return a, nil
}

// List alertas ordenadas por triggered_at descendente.
func (r *AlertRepo) List(ctx context.Context, companyID string) ([]*entity.Alert, error) {
	rows, err := r.db.Query(ctx, alertSelect+`
		WHERE ($1::uuid IS NULL OR m.company_id = $1)
		ORDER BY a.triggered_at DESC`, nullIfEmpty(companyID))
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// UpdateStatus cambia el estado; nil si no existe.
func (r *AlertRepo) UpdateStatus(ctx context.Context, id, status string) (*entity.Alert, error) {
	tag, err := r.db.Exec(ctx, `UPDATE alerts SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return nil, fmt.Errorf("update alert: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}
	return r.GetByID(ctx, id)
}

// HasPending indica si la línea ya tiene una alerta pendiente del tipo dado.
func (r *AlertRepo) HasPending(ctx context.Context, msisdnID, alertType string) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM alerts WHERE msisdn_id = $1 AND type = $2 AND status = 'pending')`,
		msisdnID, alertType,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("has pending alert: %w", err)
	}
	return ok, nil
}

// CountPending cuenta alertas pendientes.
func (r *AlertRepo) CountPending(ctx context.Context, companyID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM alerts a JOIN msisdns m ON m.id = a.msisdn_id
		WHERE a.status = 'pending' AND ($1::uuid IS NULL OR m.company_id = $1)`, nullIfEmpty(companyID),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count pending alerts: %w", err)
	}
	return n, nil
}
