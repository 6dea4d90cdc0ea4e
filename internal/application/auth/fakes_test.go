package auth

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/telco-selfcare-api/internal/domain"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/entity"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/repository"
)

// ─── fakeUsers ───────────────────────────────────────────────────────────────

type fakeUsers struct {
	mu        sync.Mutex
	byID      map[string]*entity.User
	setOTPErr error
}

func newFakeUsers() *fakeUsers { return &fakeUsers{byID: map[string]*entity.User{}} }

func clone(u *entity.User) *entity.User {
	c := *u
	return &c
}

func eq(p *string, s string) bool { return p != nil && *p == s }

func (f *fakeUsers) Create(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, x := range f.byID {
		if (u.Username != nil && eq(x.Username, *u.Username)) ||
			(u.Phone != nil && eq(x.Phone, *u.Phone)) ||
			(u.MSISDN != nil && eq(x.MSISDN, *u.MSISDN)) {
			return domain.ErrDuplicate
		}
	}
	f.byID[u.ID] = clone(u)
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byID[id]; ok {
		return clone(u), nil
	}
	return nil, nil
}

func (f *fakeUsers) FindByLogin(_ context.Context, id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if eq(u.Username, id) || eq(u.Phone, id) || eq(u.MSISDN, id) {
			return clone(u), nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) List(context.Context, entity.UserFilter) ([]*entity.User, error) {
	return nil, nil
}
func (f *fakeUsers) Count(context.Context, string) (int, error) {
	return len(f.byID), nil
}
func (f *fakeUsers) Delete(context.Context, string) error {
	return nil
}

func (f *fakeUsers) Update(_ context.Context, id string, p entity.UserPatch) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	return clone(u), nil
}

func (f *fakeUsers) SetOTP(_ context.Context, id, code string, exp time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setOTPErr != nil {
		return f.setOTPErr
	}
	u, ok := f.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.OTP, u.OTPExpiry = &code, &exp
	return nil
}

func (f *fakeUsers) ConsumeOTP(_ context.Context, id, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok || !eq(u.OTP, code) {
		return domain.ErrOTPExpired
	}
	u.OTP, u.OTPExpiry = nil, nil
	u.Status = entity.UserStatusVerified
	return nil
}

func (f *fakeUsers) ClearExpiredOTPs(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, u := range f.byID {
		if u.OTPExpiry != nil && !u.OTPExpiry.After(now) {
			u.OTP, u.OTPExpiry = nil, nil
			n++
		}
	}
	return n, nil
}

// ─── fakeCompanies ───────────────────────────────────────────────────────────

type fakeCompanies struct{ list []*entity.Company }

func (f *fakeCompanies) Create(_ context.Context, c *entity.Company) error {
	f.list = append(f.list, c)
	return nil
}
func (f *fakeCompanies) GetByID(_ context.Context, id string) (*entity.Company, error) {
	for _, c := range f.list {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}
func (f *fakeCompanies) GetByContractNumber(_ context.Context, n string) (*entity.Company, error) {
	for _, c := range f.list {
		if c.ContractNumber == n {
			return c, nil
		}
	}
	return nil, nil
}
func (f *fakeCompanies) List(context.Context) ([]*entity.Company, error) { return f.list, nil }

// ─── fakeSessions ────────────────────────────────────────────────────────────

type fakeSessions struct {
	mu      sync.Mutex
	byToken map[string]*entity.Session
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{byToken: map[string]*entity.Session{}}
}

func (f *fakeSessions) Create(_ context.Context, s *entity.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := *s
	f.byToken[s.Token] = &c
	return nil
}
func (f *fakeSessions) GetByToken(_ context.Context, t string) (*entity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.byToken[t]; ok {
		c := *s
		return &c, nil
	}
	return nil, nil
}
func (f *fakeSessions) DeleteByToken(_ context.Context, t string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byToken, t)
	return nil
}
func (f *fakeSessions) DeleteByUserExcept(_ context.Context, userID, keep string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for t, s := range f.byToken {
		if s.UserID == userID && t != keep {
			delete(f.byToken, t)
			n++
		}
	}
	return n, nil
}
func (f *fakeSessions) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for t, s := range f.byToken {
		if s.Expired(now) {
			delete(f.byToken, t)
			n++
		}
	}
	return n, nil
}
func (f *fakeSessions) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byToken)
}

// ─── fakeLogs / fakeTx / fakeSender / fakeAttempts ───────────────────────────

type fakeLogs struct {
	mu      sync.Mutex
	entries []*entity.AuditLog
}

func (f *fakeLogs) Append(_ context.Context, l *entity.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, l)
	return nil
}
func (f *fakeLogs) List(context.Context, int, int) ([]*entity.AuditLog, int, error) {
	return f.entries, len(f.entries), nil
}
func (f *fakeLogs) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, e := range f.entries {
		out = append(out, e.Action)
	}
	return out
}

type fakeTx struct {
	users    *fakeUsers
	sessions *fakeSessions
}

func (f *fakeTx) RunAuth(_ context.Context, fn func(repository.UserRepository, repository.SessionRepository) error) error {
	return fn(f.users, f.sessions)
}

type sentOTP struct{ recipient, code string }

type fakeSender struct {
	sent []sentOTP
	err  error
}

func (f *fakeSender) SendOTP(_ context.Context, recipient, code string) error {
	f.sent = append(f.sent, sentOTP{recipient, code})
	return f.err
}

func (f *fakeSender) last() string {
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1].code
}

type fakeAttempts struct{ n map[string]int64 }

func (f *fakeAttempts) Attempts(_ context.Context, k string) (int64, error) { return f.n[k], nil }
func (f *fakeAttempts) Hit(_ context.Context, k string, _ time.Duration) (int64, error) {
	f.n[k]++
	return f.n[k], nil
}
func (f *fakeAttempts) Reset(_ context.Context, k string) error {
	delete(f.n, k)
	return nil
}
