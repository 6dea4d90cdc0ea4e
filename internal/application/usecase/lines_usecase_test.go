package usecase

import (
	"context"
	"testing"

	"github.com/jhoicas/telco-selfcare-api/internal/application/dto"
	"github.com/jhoicas/telco-selfcare-api/internal/domain"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const planID = "33333333-3333-3333-3333-333333333333"

// ─── MSISDN ──────────────────────────────────────────────────────────────────

func TestMSISDNUpsert_CreaYActualiza(t *testing.T) {
	lines := newFakeMSISDNs()
	uc := NewMSISDNUseCase(lines, newFakeTariffs(&entity.TariffPlan{ID: planID, Name: "Biz 10"}))
	ctx := context.Background()

	created, err := uc.Upsert(ctx, smeaA, dto.UpsertMSISDNRequest{MSISDN: "355691111111", UsageLimit: decimal.NewFromInt(10)})
	require.NoError(t, err)
	assert.Equal(t, companyA, created.CompanyID)

	p := planID
	updated, err := uc.Upsert(ctx, smeaA, dto.UpsertMSISDNRequest{MSISDN: "355691111111", TariffPlanID: &p, UsageLimit: decimal.NewFromInt(20)})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID, "el mismo número conserva su id")
	assert.True(t, decimal.NewFromInt(20).Equal(updated.UsageLimit))
	assert.Len(t, lines.byNumber, 1)
}

func TestMSISDNUpsert_LineaDeOtraEmpresa(t *testing.T) {
	lines := newFakeMSISDNs(&entity.MSISDN{ID: "m-b", Number: "355692222222", CompanyID: companyB})
	uc := NewMSISDNUseCase(lines, newFakeTariffs())

	_, err := uc.Upsert(context.Background(), smeaA, dto.UpsertMSISDNRequest{MSISDN: "355692222222"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestMSISDNUpsert_AltaConcurrenteDeOtraEmpresa(t *testing.T) {
	other := &entity.MSISDN{ID: "m-b", Number: "355692222222", CompanyID: companyB}
	lines := newFakeMSISDNs(other)
	lines.staleReads = true
	uc := NewMSISDNUseCase(lines, newFakeTariffs())
	limit := decimal.NewFromInt(99)

	_, err := uc.Upsert(context.Background(), smeaA, dto.UpsertMSISDNRequest{MSISDN: "355692222222", UsageLimit: limit})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, companyB, other.CompanyID)
	assert.True(t, other.UsageLimit.IsZero(), "la línea de la otra empresa no cambia")
}

func TestMSISDNUpsert_PlanInexistente(t *testing.T) {
	uc := NewMSISDNUseCase(newFakeMSISDNs(), newFakeTariffs())
	p := planID
	_, err := uc.Upsert(context.Background(), smeaA, dto.UpsertMSISDNRequest{MSISDN: "355693333333", TariffPlanID: &p})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMSISDNUpdate_FueraDeAlcance(t *testing.T) {
	lines := newFakeMSISDNs(&entity.MSISDN{ID: "m-b", Number: "355692222222", CompanyID: companyB})
	uc := NewMSISDNUseCase(lines, newFakeTariffs())
	limit := decimal.NewFromInt(5)

	_, err := uc.Update(context.Background(), userA, dto.UpdateMSISDNRequest{MSISDN: "355692222222", UsageLimit: &limit})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	resp, err := uc.Update(context.Background(), ssrCaller, dto.UpdateMSISDNRequest{MSISDN: "355692222222", UsageLimit: &limit})
	require.NoError(t, err)
	assert.True(t, limit.Equal(resp.UsageLimit))
}

// ─── usage ───────────────────────────────────────────────────────────────────

func newUsageHarness(limit int64) (*UsageUseCase, *fakeUsage, *fakeAlerts) {
	lines := newFakeMSISDNs(&entity.MSISDN{ID: "m-a", Number: "355691111111", CompanyID: companyA, UsageLimit: decimal.NewFromInt(limit)})
	usage := newFakeUsage()
	alerts := newFakeAlerts(lines)
	return NewUsageUseCase(usage, lines, &fakeTx{usage: usage, alerts: alerts}), usage, alerts
}

func usageReq(home, roaming int64) dto.RecordUsageRequest {
	return dto.RecordUsageRequest{
		MSISDNID: "m-a", Month: 3, Year: 2026,
		Data: dto.DataUsage{Home: decimal.NewFromInt(home), Roaming: decimal.NewFromInt(roaming)},
	}
}

func TestUsageRecord_DisparaAlertaUnaVez(t *testing.T) {
	uc, usage, alerts := newUsageHarness(10)
	ctx := context.Background()

	resp, err := uc.Record(ctx, smeaA, usageReq(8, 3))
	require.NoError(t, err)
	assert.True(t, resp.AlertTriggered)
	require.NotNil(t, resp.MSISDN)
	assert.Equal(t, "355691111111", resp.MSISDN.MSISDN)

	resp, err = uc.Record(ctx, smeaA, usageReq(12, 0))
	require.NoError(t, err)
	assert.False(t, resp.AlertTriggered, "con una alerta pendiente no se crea otra")

	assert.Len(t, alerts.byID, 1)
	assert.Len(t, usage.rows, 1, "mismo período reemplaza el consumo")
}

func TestUsageRecord_PorDebajoDelLimite(t *testing.T) {
	uc, _, alerts := newUsageHarness(10)
	resp, err := uc.Record(context.Background(), smeaA, usageReq(4, 1))
	require.NoError(t, err)
	assert.False(t, resp.AlertTriggered)
	assert.Empty(t, alerts.byID)
}

func TestUsageRecord_SinLimiteNoAlerta(t *testing.T) {
	uc, _, alerts := newUsageHarness(0)
	_, err := uc.Record(context.Background(), smeaA, usageReq(500, 0))
	require.NoError(t, err)
	assert.Empty(t, alerts.byID)
}

func TestUsageRecord_Validaciones(t *testing.T) {
	uc, _, _ := newUsageHarness(10)
	ctx := context.Background()

	_, err := uc.Record(ctx, smeaA, usageReq(-1, 0))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	other := entity.Identity{UserID: "x", Role: entity.RoleSMEA, CompanyID: companyB}
	_, err = uc.Record(ctx, other, usageReq(1, 0))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ─── alerts ──────────────────────────────────────────────────────────────────

func TestAlertCreateYUpdate(t *testing.T) {
	lines := newFakeMSISDNs(&entity.MSISDN{ID: "m-a", Number: "355691111111", CompanyID: companyA})
	alerts := newFakeAlerts(lines)
	uc := NewAlertUseCase(alerts, lines)
	ctx := context.Background()

	created, err := uc.Create(ctx, userA, dto.CreateAlertRequest{MSISDNID: "m-a", Type: entity.AlertTypeMonthlyFee, Threshold: decimal.NewFromInt(2000)})
	require.NoError(t, err)
	assert.Equal(t, entity.AlertStatusPending, created.Status)

	updated, err := uc.UpdateStatus(ctx, smeaA, dto.UpdateAlertRequest{AlertID: created.ID, Status: entity.AlertStatusResolved})
	require.NoError(t, err)
	assert.Equal(t, entity.AlertStatusResolved, updated.Status)

	outsider := entity.Identity{UserID: "x", Role: entity.RoleUser, CompanyID: companyB}
	_, err = uc.UpdateStatus(ctx, outsider, dto.UpdateAlertRequest{AlertID: created.ID, Status: entity.AlertStatusSent})
	assert.ErrorIs(t, err, ErrAlertNotFound)
}

func TestAlertCreate_LineaAjena(t *testing.T) {
	lines := newFakeMSISDNs(&entity.MSISDN{ID: "m-b", Number: "355692222222", CompanyID: companyB})
	uc := NewAlertUseCase(newFakeAlerts(lines), lines)

	_, err := uc.Create(context.Background(), userA, dto.CreateAlertRequest{MSISDNID: "m-b", Type: entity.AlertTypeUsageLimit})
	assert.ErrorIs(t, err, ErrAlertMSISDNNotFound)
	msg, _ := PublicMessage(err)
	assert.Equal(t, "MSISDN not found or not authorized", msg)
}

// ─── tariff plans ────────────────────────────────────────────────────────────

func TestTariffCreate_MonedaPorDefecto(t *testing.T) {
	uc := NewTariffPlanUseCase(newFakeTariffs())
	resp, err := uc.Create(context.Background(), dto.CreateTariffPlanRequest{Name: "Biz 20", Price: decimal.NewFromInt(1500)})
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultCurrency, resp.Currency)
	assert.True(t, resp.IsActive)
	assert.Equal(t, 30, resp.ValidityDays)
}

func TestTariffCreate_PrecioNegativo(t *testing.T) {
	uc := NewTariffPlanUseCase(newFakeTariffs())
	_, err := uc.Create(context.Background(), dto.CreateTariffPlanRequest{Name: "x", Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTariffUpdateYDelete(t *testing.T) {
	repo := newFakeTariffs(&entity.TariffPlan{ID: planID, Name: "Biz 10", Currency: "ALL", IsActive: true})
	uc := NewTariffPlanUseCase(repo)
	ctx := context.Background()

	off := false
	eur := "eur"
	resp, err := uc.Update(ctx, dto.UpdateTariffPlanRequest{ID: planID, IsActive: &off, Currency: &eur})
	require.NoError(t, err)
	assert.False(t, resp.IsActive)
	assert.Equal(t, "EUR", resp.Currency)

	_, err = uc.Update(ctx, dto.UpdateTariffPlanRequest{ID: companyA})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, uc.Delete(ctx, planID))
	assert.ErrorIs(t, uc.Delete(ctx, planID), domain.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, "abc"), domain.ErrNotFound)
}
