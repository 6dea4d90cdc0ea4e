package usecase

import (
	"context"

	"github.com/jhoicas/telco-selfcare-api/internal/domain/repository"
)

// OrderTxRunner cambio de estado de pedido y auditoría en la misma transacción.
type OrderTxRunner interface {
	RunOrders(ctx context.Context, fn func(
		orders repository.OrderRepository,
		logs repository.AuditLogRepository,
	) error) error
}

// UsageTxRunner alta de consumo y de su alerta de límite en la misma transacción.
type UsageTxRunner interface {
	RunUsage(ctx context.Context, fn func(
		usage repository.UsageRepository,
		alerts repository.AlertRepository,
	) error) error
}
