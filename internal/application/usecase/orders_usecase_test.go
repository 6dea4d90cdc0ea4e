package usecase

import (
	"context"
	"encoding/json"
	"math"
	"testing"

	"github.com/jhoicas/telco-selfcare-api/internal/application/dto"
	"github.com/jhoicas/telco-selfcare-api/internal/domain"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrderUC() (*OrderUseCase, *fakeOrders, *fakeLogs) {
	orders := newFakeOrders()
	logs := &fakeLogs{}
	return NewOrderUseCase(orders, logs, &fakeTx{orders: orders, logs: logs}, nil), orders, logs
}

func TestOrderCreate(t *testing.T) {
	uc, _, logs := newOrderUC()
	resp, err := uc.Create(context.Background(), smeaA, dto.CreateOrderRequest{
		Type: entity.OrderTypePlanChange, Details: json.RawMessage(`{"msisdn":"355691111111"}`),
	}, "")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCreated, resp.Status)
	assert.Equal(t, companyA, resp.CompanyID)
	assert.JSONEq(t, `{"msisdn":"355691111111"}`, string(resp.Details))
	assert.Equal(t, []string{entity.ActionOrderCreated}, logs.actions())
}

func TestOrderCreate_DetailsNoObjeto(t *testing.T) {
	uc, _, _ := newOrderUC()
	_, err := uc.Create(context.Background(), smeaA, dto.CreateOrderRequest{
		Type: entity.OrderTypeLimitChange, Details: json.RawMessage(`[1,2]`),
	}, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	resp, err := uc.Create(context.Background(), smeaA, dto.CreateOrderRequest{Type: entity.OrderTypeLimitChange}, "")
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(resp.Details))
}

func TestOrderUpdateStatus_Transiciones(t *testing.T) {
	uc, _, logs := newOrderUC()
	ctx := context.Background()
	o, err := uc.Create(ctx, smeaA, dto.CreateOrderRequest{Type: entity.OrderTypePackageActivation}, "")
	require.NoError(t, err)

	_, err = uc.UpdateStatus(ctx, ssrCaller, dto.UpdateOrderRequest{OrderID: o.ID, Status: entity.OrderStatusCompleted}, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "created no pasa directo a completed")

	for _, s := range []string{entity.OrderStatusInProgress, entity.OrderStatusCompleted} {
		resp, err := uc.UpdateStatus(ctx, ssrCaller, dto.UpdateOrderRequest{OrderID: o.ID, Status: s}, "")
		require.NoError(t, err)
		assert.Equal(t, s, resp.Status)
	}

	_, err = uc.UpdateStatus(ctx, ssrCaller, dto.UpdateOrderRequest{OrderID: o.ID, Status: entity.OrderStatusFailed}, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "completed es terminal")

	assert.Equal(t, []string{
		entity.ActionOrderCreated, entity.ActionOrderStatusChanged, entity.ActionOrderStatusChanged,
	}, logs.actions())
}

func TestOrderUpdateStatus_OtraEmpresa(t *testing.T) {
	uc, orders, _ := newOrderUC()
	orders.byID["o-b"] = &entity.Order{ID: "o-b", CompanyID: companyB, Status: entity.OrderStatusCreated}

	_, err := uc.UpdateStatus(context.Background(), smeaA, dto.UpdateOrderRequest{OrderID: "o-b", Status: entity.OrderStatusPending}, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, entity.OrderStatusCreated, orders.byID["o-b"].Status)
}

// ─── logs ────────────────────────────────────────────────────────────────────

func TestLogList_Paginacion(t *testing.T) {
	logs := &fakeLogs{}
	uc := NewLogUseCase(logs)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := uc.Create(ctx, userA, dto.CreateLogRequest{Action: "page_view"}, "127.0.0.1")
		require.NoError(t, err)
	}

	page, err := uc.List(ctx, dto.LogListQuery{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	assert.Len(t, page.Logs, 2)
	assert.Equal(t, 2, page.Page)

	def, err := uc.List(ctx, dto.LogListQuery{Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, 1, def.Page)
	assert.Equal(t, maxLogLimit, def.Limit)
}

func TestLogList_PaginaEnormeNoDesborda(t *testing.T) {
	logs := &fakeLogs{}
	uc := NewLogUseCase(logs)

	page, err := uc.List(context.Background(), dto.LogListQuery{Page: math.MaxInt, Limit: maxLogLimit})
	require.NoError(t, err)
	assert.Empty(t, page.Logs)
	assert.Equal(t, maxLogPage, page.Page)
	assert.GreaterOrEqual(t, logs.lastOffset, 0, "el OFFSET nunca es negativo")
}

func TestLogCreate_UsuarioDelLlamador(t *testing.T) {
	uc := NewLogUseCase(&fakeLogs{})
	resp, err := uc.Create(context.Background(), userA, dto.CreateLogRequest{Action: "export", Details: json.RawMessage(`{"k":1}`)}, "")
	require.NoError(t, err)
	require.NotNil(t, resp.User)
	assert.Equal(t, userA.UserID, resp.User.ID)
}

// ─── companies ───────────────────────────────────────────────────────────────

func TestCompany_ContratoDuplicadoYAlcance(t *testing.T) {
	uc := NewCompanyUseCase(newFakeCompanies(&entity.Company{ID: companyB, Name: "Beta", ContractNumber: "C-2"}))
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateCompanyRequest{Name: "Beta bis", ContractNumber: "C-2"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.GetByID(ctx, smeaA, companyB)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, err := uc.GetByID(ctx, ssrCaller, companyB)
	require.NoError(t, err)
	assert.Equal(t, "Beta", got.Name)
}
