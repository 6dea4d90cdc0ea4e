package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/telco-selfcare-api/internal/domain"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/entity"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/repository"
)

// ─── usuarios ────────────────────────────────────────────────────────────────

type fakeUsers struct {
	mu   sync.Mutex
	byID map[string]*entity.User
}

func newFakeUsers(users ...*entity.User) *fakeUsers {
	f := &fakeUsers{byID: map[string]*entity.User{}}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := *u
	f.byID[u.ID] = &c
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byID[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, nil
}

func (f *fakeUsers) FindByLogin(context.Context, string) (*entity.User, error) { return nil, nil }

func (f *fakeUsers) List(_ context.Context, filter entity.UserFilter) ([]*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.User
	for _, u := range f.byID {
		if filter.CompanyID != "" && u.CompanyIDOrEmpty() != filter.CompanyID {
			continue
		}
		c := *u
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUsers) Count(context.Context, string) (int, error) { return len(f.byID), nil }

func (f *fakeUsers) Update(_ context.Context, id string, p entity.UserPatch) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	if p.Username != nil {
		u.Username = p.Username
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
	if p.CompanyID != nil {
		u.CompanyID = p.CompanyID
	}
	c := *u
	return &c, nil
}

func (f *fakeUsers) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeUsers) SetOTP(context.Context, string, string, time.Time) error { return nil }
func (f *fakeUsers) ConsumeOTP(context.Context, string, string) error        { return nil }
func (f *fakeUsers) ClearExpiredOTPs(context.Context, time.Time) (int64, error) {
	return 0, nil
}

// ─── empresas ────────────────────────────────────────────────────────────────

type fakeCompanies struct {
	byID map[string]*entity.Company
}

func newFakeCompanies(cs ...*entity.Company) *fakeCompanies {
	f := &fakeCompanies{byID: map[string]*entity.Company{}}
	for _, c := range cs {
		f.byID[c.ID] = c
	}
	return f
}

func (f *fakeCompanies) Create(_ context.Context, c *entity.Company) error {
	f.byID[c.ID] = c
	return nil
}

func (f *fakeCompanies) GetByID(_ context.Context, id string) (*entity.Company, error) {
	return f.byID[id], nil
}

func (f *fakeCompanies) GetByContractNumber(_ context.Context, contract string) (*entity.Company, error) {
	for _, c := range f.byID {
		if c.ContractNumber == contract {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeCompanies) List(context.Context) ([]*entity.Company, error) {
	var out []*entity.Company
	for _, c := range f.byID {
		out = append(out, c)
	}
	return out, nil
}

// ─── líneas y planes ─────────────────────────────────────────────────────────

type fakeMSISDNs struct {
	byNumber map[string]*entity.MSISDN
	// staleReads hace que GetByNumber no vea líneas: simula un alta concurrente.
	staleReads bool
}

func newFakeMSISDNs(ms ...*entity.MSISDN) *fakeMSISDNs {
	f := &fakeMSISDNs{byNumber: map[string]*entity.MSISDN{}}
	for _, m := range ms {
		f.byNumber[m.Number] = m
	}
	return f
}

func (f *fakeMSISDNs) Upsert(_ context.Context, m *entity.MSISDN) error {
	if cur, ok := f.byNumber[m.Number]; ok {
		if cur.CompanyID != m.CompanyID {
			return domain.ErrConflict
		}
		cur.TariffPlanID = m.TariffPlanID
		cur.UsageLimit = m.UsageLimit
		*m = *cur
		return nil
	}
	c := *m
	f.byNumber[m.Number] = &c
	return nil
}

func (f *fakeMSISDNs) GetByID(_ context.Context, id string) (*entity.MSISDN, error) {
	for _, m := range f.byNumber {
		if m.ID == id {
			c := *m
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeMSISDNs) GetByNumber(_ context.Context, number string) (*entity.MSISDN, error) {
	if f.staleReads {
		return nil, nil
	}
	if m, ok := f.byNumber[number]; ok {
		c := *m
		return &c, nil
	}
	return nil, nil
}

func (f *fakeMSISDNs) List(_ context.Context, companyID string) ([]*entity.MSISDN, error) {
	var out []*entity.MSISDN
	for _, m := range f.byNumber {
		if companyID == "" || m.CompanyID == companyID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMSISDNs) Count(ctx context.Context, companyID string) (int, error) {
	l, _ := f.List(ctx, companyID)
	return len(l), nil
}

func (f *fakeMSISDNs) Update(_ context.Context, number string, p repository.MSISDNPatch) (*entity.MSISDN, error) {
	m, ok := f.byNumber[number]
	if !ok {
		return nil, nil
	}
	if p.TariffPlanID != nil {
		m.TariffPlanID = p.TariffPlanID
	}
	if p.UsageLimit != nil {
		m.UsageLimit = *p.UsageLimit
	}
	c := *m
	return &c, nil
}

type fakeTariffs struct {
	byID map[string]*entity.TariffPlan
}

func newFakeTariffs(ps ...*entity.TariffPlan) *fakeTariffs {
	f := &fakeTariffs{byID: map[string]*entity.TariffPlan{}}
	for _, p := range ps {
		f.byID[p.ID] = p
	}
	return f
}

func (f *fakeTariffs) Create(_ context.Context, p *entity.TariffPlan) error {
	for _, x := range f.byID {
		if x.Name == p.Name {
			return domain.ErrDuplicate
		}
	}
	f.byID[p.ID] = p
	return nil
}

func (f *fakeTariffs) GetByID(_ context.Context, id string) (*entity.TariffPlan, error) {
	return f.byID[id], nil
}

func (f *fakeTariffs) List(context.Context) ([]*entity.TariffPlan, error) {
	var out []*entity.TariffPlan
	for _, p := range f.byID {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeTariffs) Update(_ context.Context, id string, p entity.TariffPlanPatch) (*entity.TariffPlan, error) {
	cur, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	if p.Name != nil {
		cur.Name = *p.Name
	}
	if p.Price != nil {
		cur.Price = *p.Price
	}
	if p.Currency != nil {
		cur.Currency = *p.Currency
	}
	if p.IsActive != nil {
		cur.IsActive = *p.IsActive
	}
	return cur, nil
}

func (f *fakeTariffs) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// ─── consumos y alertas ──────────────────────────────────────────────────────

type fakeUsage struct {
	rows map[string]*entity.Usage // msisdn|month|year
}

func newFakeUsage() *fakeUsage { return &fakeUsage{rows: map[string]*entity.Usage{}} }

func usageKey(u *entity.Usage) string {
	return fmt.Sprintf("%s|%d|%d", u.MSISDNID, u.Month, u.Year)
}

func (f *fakeUsage) Upsert(_ context.Context, u *entity.Usage) error {
	c := *u
	f.rows[usageKey(u)] = &c
	return nil
}

func (f *fakeUsage) List(context.Context, string) ([]*entity.Usage, error) {
	var out []*entity.Usage
	for _, u := range f.rows {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUsage) ListByPeriod(_ context.Context, _ string, month, year int) ([]*entity.Usage, error) {
	var out []*entity.Usage
	for _, u := range f.rows {
		if u.Month == month && u.Year == year {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeAlerts struct {
	byID    map[string]*entity.Alert
	msisdns *fakeMSISDNs
}

func newFakeAlerts(m *fakeMSISDNs) *fakeAlerts {
	return &fakeAlerts{byID: map[string]*entity.Alert{}, msisdns: m}
}

func (f *fakeAlerts) withRef(a *entity.Alert) *entity.Alert {
	c := *a
	if m, _ := f.msisdns.GetByID(context.Background(), a.MSISDNID); m != nil {
		c.MSISDN = &entity.MSISDNRef{ID: m.ID, Number: m.Number, CompanyID: m.CompanyID}
	}
	return &c
}

func (f *fakeAlerts) Create(_ context.Context, a *entity.Alert) error {
	c := *a
	f.byID[a.ID] = &c
	return nil
}

func (f *fakeAlerts) GetByID(_ context.Context, id string) (*entity.Alert, error) {
	if a, ok := f.byID[id]; ok {
		return f.withRef(a), nil
	}
	return nil, nil
}

func (f *fakeAlerts) List(context.Context, string) ([]*entity.Alert, error) {
	var out []*entity.Alert
	for _, a := range f.byID {
		out = append(out, f.withRef(a))
	}
	return out, nil
}

func (f *fakeAlerts) UpdateStatus(_ context.Context, id, status string) (*entity.Alert, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	a.Status = status
	return f.withRef(a), nil
}

func (f *fakeAlerts) HasPending(_ context.Context, msisdnID, alertType string) (bool, error) {
	for _, a := range f.byID {
		if a.MSISDNID == msisdnID && a.Type == alertType && a.Status == entity.AlertStatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAlerts) CountPending(context.Context, string) (int, error) {
	n := 0
	for _, a := range f.byID {
		if a.Status == entity.AlertStatusPending {
			n++
		}
	}
	return n, nil
}

// ─── pedidos y bitácora ──────────────────────────────────────────────────────

type fakeOrders struct {
	byID map[string]*entity.Order
}

func newFakeOrders() *fakeOrders { return &fakeOrders{byID: map[string]*entity.Order{}} }

func (f *fakeOrders) Create(_ context.Context, o *entity.Order) error {
	c := *o
	f.byID[o.ID] = &c
	return nil
}

func (f *fakeOrders) GetByIDForUpdate(_ context.Context, id string) (*entity.Order, error) {
	if o, ok := f.byID[id]; ok {
		c := *o
		return &c, nil
	}
	return nil, nil
}

func (f *fakeOrders) List(_ context.Context, companyID string) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, o := range f.byID {
		if companyID == "" || o.CompanyID == companyID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, id, status string) (*entity.Order, error) {
	o, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	c := *o
	return &c, nil
}

func (f *fakeOrders) CountOpen(_ context.Context, companyID string) (int, error) {
	n := 0
	for _, o := range f.byID {
		if (companyID == "" || o.CompanyID == companyID) && o.IsOpen() {
			n++
		}
	}
	return n, nil
}

type fakeLogs struct {
	mu         sync.Mutex
	entries    []*entity.AuditLog
	failErr    error
	lastOffset int
}

func (f *fakeLogs) Append(_ context.Context, l *entity.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return f.failErr
	}
	f.entries = append(f.entries, l)
	return nil
}

func (f *fakeLogs) List(_ context.Context, limit, offset int) ([]*entity.AuditLog, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastOffset = offset
	total := len(f.entries)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return f.entries[offset:end], total, nil
}

func (f *fakeLogs) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, e.Action)
	}
	return out
}

// ─── transacciones ───────────────────────────────────────────────────────────

// fakeTx ejecuta fn sobre los mismos fakes; no hay rollback real.
type fakeTx struct {
	orders *fakeOrders
	logs   *fakeLogs
	usage  *fakeUsage
	alerts *fakeAlerts
}

func (t *fakeTx) RunOrders(_ context.Context, fn func(repository.OrderRepository, repository.AuditLogRepository) error) error {
	return fn(t.orders, t.logs)
}

func (t *fakeTx) RunUsage(_ context.Context, fn func(repository.UsageRepository, repository.AlertRepository) error) error {
	return fn(t.usage, t.alerts)
}
