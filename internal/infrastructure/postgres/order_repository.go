package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/telco-selfcare-api/internal/domain"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/entity"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `id, company_id, type, status, details, created_at, updated_at`

// OrderRepo pedidos sobre PostgreSQL.
type OrderRepo struct {
	db Querier
}

// NewOrderRepository construye el adaptador.
func NewOrderRepository(db Querier) *OrderRepo {
	return &OrderRepo{db: db}
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	if err := row.Scan(&o.ID, &o.CompanyID, &o.Type, &o.Status, &o.Details, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

// Create persiste el pedido.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	details := o.Details
	if len(details) == 0 {
		details = []byte(`{}`)
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		o.ID, o.CompanyID, o.Type, o.Status, string(details), o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: empresa inexistente", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByIDForUpdate obtiene el pedido bloqueando la fila hasta el fin de la tx.
func (r *OrderRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// List pedidos más recientes primero.
func (r *OrderRepo) List(ctx context.Context, companyID string) ([]*entity.Order, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE ($1::uuid IS NULL OR company_id = $1)
		ORDER BY created_at DESC`, nullIfEmpty(companyID))
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// UpdateStatus cambia el estado; nil si no existe.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id, status string) (*entity.Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, `
		UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1
		RETURNING `+orderColumns, id, status))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("update order: %w", err)
	}
	return o, nil
}

// CountOpen pedidos no terminados.
func (r *OrderRepo) CountOpen(ctx context.Context, companyID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM orders
		WHERE status NOT IN ('completed', 'failed') AND ($1::uuid IS NULL OR company_id = $1)`,
		nullIfEmpty(companyID),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count open orders: %w", err)
	}
	return n, nil
}
