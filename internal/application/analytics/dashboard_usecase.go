// Package analytics contiene los casos de uso de resumen para el dashboard de la empresa.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/telco-selfcare-api/internal/application/dto"
	"github.com/jhoicas/telco-selfcare-api/internal/application/usecase"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/entity"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/repository"
)

const dashboardTopConsumers = 5 // líneas en el widget de mayor consumo

// DashboardUseCase genera los contadores de la empresa y el consumo del mes en curso.
//
// Fuente de datos: los repositorios de cada agregado (consultas read-only).
type DashboardUseCase struct {
	users   repository.UserRepository
	msisdns repository.MSISDNRepository
	alerts  repository.AlertRepository
	orders  repository.OrderRepository
	usage   repository.UsageRepository
	now     func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	users repository.UserRepository,
	msisdns repository.MSISDNRepository,
	alerts repository.AlertRepository,
	orders repository.OrderRepository,
	usage repository.UsageRepository,
) *DashboardUseCase {
	return &DashboardUseCase{users: users, msisdns: msisdns, alerts: alerts, orders: orders, usage: usage, now: time.Now}
}

// GetSummary construye el DashboardSummaryDTO para el alcance del llamador.
//
// Cinco consultas en paralelo:
//  1. usuarios, 2. líneas, 3. alertas pendientes, 4. pedidos abiertos
//  5. consumos del mes en curso → totales + top de datos
func (uc *DashboardUseCase) GetSummary(ctx context.Context, caller entity.Identity, companyID string) (*dto.DashboardSummaryDTO, error) {
	company, err := usecase.ScopeCompany(caller, companyID)
	if err != nil {
		return nil, err
	}
	now := uc.now()

	type countResult struct {
		n   int
		err error
	}
	type usageResult struct {
		rows []*entity.Usage
		err  error
	}

	count := func(fn func(context.Context, string) (int, error)) <-chan countResult {
		ch := make(chan countResult, 1)
		go func() {
			n, err := fn(ctx, company)
			ch <- countResult{n, err}
		}()
		return ch
	}
	usersCh := count(uc.users.Count)
	linesCh := count(uc.msisdns.Count)
	alertsCh := count(uc.alerts.CountPending)
	ordersCh := count(uc.orders.CountOpen)
	usageCh := make(chan usageResult, 1)
	go func() {
		rows, err := uc.usage.ListByPeriod(ctx, company, int(now.Month()), now.Year())
		usageCh <- usageResult{rows, err}
	}()

	users, lines, alerts, orders, usage := <-usersCh, <-linesCh, <-alertsCh, <-ordersCh, <-usageCh

	for _, r := range []struct {
		what string
		err  error
	}{
		{"usuarios", users.err}, {"líneas", lines.err}, {"alertas", alerts.err},
		{"pedidos", orders.err}, {"consumos", usage.err},
	} {
		if r.err != nil {
			return nil, fmt.Errorf("dashboard: %s: %w", r.what, r.err)
		}
	}

	data, voice := decimal.Zero, decimal.Zero
	for _, u := range usage.rows {
		data = data.Add(u.TotalData())
		voice = voice.Add(u.TotalVoice())
	}

	return &dto.DashboardSummaryDTO{
		CompanyID:           company,
		Lines:               lines.n,
		Users:               users.n,
		PendingAlerts:       alerts.n,
		OpenOrders:          orders.n,
		MonthlyDataGB:       data.Round(2),
		MonthlyVoiceMinutes: voice.Round(2),
		TopConsumers:        topConsumers(usage.rows, dashboardTopConsumers),
		DateLabel:           monthLabel(now),
		GeneratedAt:         now,
	}, nil
}

// topConsumers las n líneas con más datos; empate por número.
func topConsumers(rows []*entity.Usage, n int) []dto.TopConsumerDTO {
	out := make([]dto.TopConsumerDTO, 0, len(rows))
	for _, u := range rows {
		t := dto.TopConsumerDTO{MSISDNID: u.MSISDNID, DataGB: u.TotalData().Round(2)}
		if u.MSISDN != nil {
			t.MSISDN = u.MSISDN.Number
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].DataGB.Cmp(out[j].DataGB); c != 0 {
			return c > 0
		}
		return out[i].MSISDN < out[j].MSISDN
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// monthLabel devuelve una etiqueta legible del mes, ej: "March 2026".
func monthLabel(t time.Time) string {
	return fmt.Sprintf("%s %d", t.Month().String(), t.Year())
}
