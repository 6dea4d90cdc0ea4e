//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/jhoicas/telco-selfcare-api/internal/domain"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/entity"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/repository"
	"github.com/jhoicas/telco-selfcare-api/internal/infrastructure/postgres"
	"github.com/jhoicas/telco-selfcare-api/pkg/config"
)

// setupPool levanta PostgreSQL en un contenedor y aplica las migraciones embebidas.
func setupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	provider, err := testcontainers.ProviderDocker.GetProvider()
	if err != nil {
		t.Skip("Docker no disponible, se omiten los tests de integración")
	}
	_ = provider.Close()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("selfcare_test"),
		tcpostgres.WithUsername("selfcare"),
		tcpostgres.WithPassword("selfcare_test"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Skipf("no se pudo arrancar PostgreSQL: %v", err)
	}
	t.Cleanup(func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = container.Terminate(stopCtx)
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	applied, err := postgres.Migrate(ctx, pool)
	require.NoError(t, err)
	require.NotEmpty(t, applied)

	again, err := postgres.Migrate(ctx, pool)
	require.NoError(t, err)
	assert.Empty(t, again, "las migraciones ya aplicadas no se repiten")
	return pool
}

func strPtr(s string) *string { return &s }

func newCompany(t *testing.T, repo *postgres.CompanyRepo, contract string) *entity.Company {
	t.Helper()
	now := time.Now().UTC()
	c := &entity.Company{ID: uuid.NewString(), Name: "ACME " + contract, ContractNumber: contract, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Create(context.Background(), c))
	return c
}

func TestRepositories_Integration(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()

	companies := postgres.NewCompanyRepository(pool)
	users := postgres.NewUserRepository(pool)
	sessions := postgres.NewSessionRepository(pool)
	msisdns := postgres.NewMSISDNRepository(pool)
	usage := postgres.NewUsageRepository(pool)
	orders := postgres.NewOrderRepository(pool)
	logs := postgres.NewAuditLogRepository(pool)
	tx := postgres.NewTxRunner(pool)

	company := newCompany(t, companies, "C-100")

	t.Run("contrato duplicado", func(t *testing.T) {
		now := time.Now().UTC()
		err := companies.Create(ctx, &entity.Company{ID: uuid.NewString(), Name: "Otra", ContractNumber: "C-100", CreatedAt: now, UpdatedAt: now})
		assert.ErrorIs(t, err, domain.ErrDuplicate)

		got, err := companies.GetByContractNumber(ctx, "C-100")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, company.ID, got.ID)

		missing, err := companies.GetByContractNumber(ctx, "NOPE")
		require.NoError(t, err)
		assert.Nil(t, missing, "sin filas el repositorio devuelve (nil, nil)")
	})

	var user *entity.User
	t.Run("usuario por teléfono y OTP de un solo uso", func(t *testing.T) {
		now := time.Now().UTC()
		user = &entity.User{
			ID: uuid.NewString(), Phone: strPtr("355691112233"), MSISDN: strPtr("355691112233"),
			PasswordHash: "$2a$10$hash", Role: entity.RoleUser, CompanyID: &company.ID,
			Status: entity.UserStatusPending, CreatedAt: now, UpdatedAt: now,
		}
		require.NoError(t, users.Create(ctx, user))

		dup := *user
		dup.ID = uuid.NewString()
		assert.ErrorIs(t, users.Create(ctx, &dup), domain.ErrDuplicate)

		found, err := users.FindByLogin(ctx, "355691112233")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, user.ID, found.ID)

		require.NoError(t, users.SetOTP(ctx, user.ID, "123456", now.Add(10*time.Minute)))
		require.NoError(t, users.ConsumeOTP(ctx, user.ID, "123456"))
		assert.ErrorIs(t, users.ConsumeOTP(ctx, user.ID, "123456"), domain.ErrOTPExpired)

		verified, err := users.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.UserStatusVerified, verified.Status)
		assert.Nil(t, verified.OTP)
	})

	t.Run("purga de sesiones vencidas", func(t *testing.T) {
		now := time.Now().UTC()
		live := &entity.Session{ID: uuid.NewString(), Token: "live-" + uuid.NewString(), UserID: user.ID, ExpiresAt: now.Add(time.Hour), CreatedAt: now}
		dead := &entity.Session{ID: uuid.NewString(), Token: "dead-" + uuid.NewString(), UserID: user.ID, ExpiresAt: now.Add(-time.Minute), CreatedAt: now.Add(-time.Hour)}
		require.NoError(t, sessions.Create(ctx, live))
		require.NoError(t, sessions.Create(ctx, dead))

		n, err := sessions.DeleteExpired(ctx, now)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)

		got, err := sessions.GetByToken(ctx, live.Token)
		require.NoError(t, err)
		assert.NotNil(t, got)
	})

	t.Run("consumo único por período", func(t *testing.T) {
		line := &entity.MSISDN{ID: uuid.NewString(), Number: "355697000001", CompanyID: company.ID, UsageLimit: decimal.NewFromInt(10)}
		require.NoError(t, msisdns.Upsert(ctx, line))

		u := &entity.Usage{ID: uuid.NewString(), MSISDNID: line.ID, Month: 3, Year: 2026, DataHome: decimal.NewFromInt(4)}
		require.NoError(t, usage.Upsert(ctx, u))
		u2 := &entity.Usage{ID: uuid.NewString(), MSISDNID: line.ID, Month: 3, Year: 2026, DataHome: decimal.NewFromInt(7), SMS: 3}
		require.NoError(t, usage.Upsert(ctx, u2))

		rows, err := usage.ListByPeriod(ctx, company.ID, 3, 2026)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.True(t, rows[0].DataHome.Equal(decimal.NewFromInt(7)))
		assert.Equal(t, "355697000001", rows[0].MSISDN.Number)
	})

	t.Run("upsert de línea de otra empresa", func(t *testing.T) {
		other := newCompany(t, companies, "C-200")
		line := &entity.MSISDN{ID: uuid.NewString(), Number: "355697000099", CompanyID: other.ID, UsageLimit: decimal.NewFromInt(5)}
		require.NoError(t, msisdns.Upsert(ctx, line))

		steal := &entity.MSISDN{ID: uuid.NewString(), Number: "355697000099", CompanyID: company.ID, UsageLimit: decimal.NewFromInt(50)}
		assert.ErrorIs(t, msisdns.Upsert(ctx, steal), domain.ErrConflict)

		got, err := msisdns.GetByNumber(ctx, "355697000099")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, other.ID, got.CompanyID)
		assert.True(t, got.UsageLimit.Equal(decimal.NewFromInt(5)))
	})

	t.Run("pedido y auditoría en la misma transacción", func(t *testing.T) {
		now := time.Now().UTC()
		order := &entity.Order{ID: uuid.NewString(), CompanyID: company.ID, Type: entity.OrderTypePlanChange, Status: entity.OrderStatusCreated, CreatedAt: now, UpdatedAt: now}
		require.NoError(t, orders.Create(ctx, order))

		_, before, err := logs.List(ctx, 10, 0)
		require.NoError(t, err)

		boom := errors.New("fallo simulado")
		err = tx.RunOrders(ctx, func(o repository.OrderRepository, l repository.AuditLogRepository) error {
			if _, err := o.UpdateStatus(ctx, order.ID, entity.OrderStatusPending); err != nil {
				return err
			}
			if err := l.Append(ctx, &entity.AuditLog{ID: uuid.NewString(), UserID: &user.ID, Action: entity.ActionOrderStatusChanged, Details: []byte(`{}`), CreatedAt: now}); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		current, err := orders.GetByIDForUpdate(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.OrderStatusCreated, current.Status, "el rollback deshace el cambio de estado")

		_, after, err := logs.List(ctx, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, before, after, "el rollback deshace la entrada de auditoría")
	})
}
