package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/telco-selfcare-api/internal/application/auth"
	"github.com/jhoicas/telco-selfcare-api/internal/application/usecase"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/repository"
)

// Ensure TxRunner implements los puertos transaccionales de auth y usecase.
var (
	_ auth.TxRunner         = (*TxRunner)(nil)
	_ usecase.OrderTxRunner = (*TxRunner)(nil)
	_ usecase.UsageTxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// inTx inicia una transacción, ejecuta fn y hace Commit o Rollback.
func (r *TxRunner) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunAuth verificación de OTP: consumo del código y alta de sesión en la misma tx.
func (r *TxRunner) RunAuth(ctx context.Context, fn func(
	users repository.UserRepository,
	sessions repository.SessionRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewUserRepository(tx), NewSessionRepository(tx))
	})
}

// RunOrders cambio de estado de pedido y su entrada de auditoría.
func (r *TxRunner) RunOrders(ctx context.Context, fn func(
	orders repository.OrderRepository,
	logs repository.AuditLogRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewOrderRepository(tx), NewAuditLogRepository(tx))
	})
}

// RunUsage registro de consumo y evaluación de alertas de límite.
func (r *TxRunner) RunUsage(ctx context.Context, fn func(
	usage repository.UsageRepository,
	alerts repository.AlertRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewUsageRepository(tx), NewAlertRepository(tx))
	})
}
