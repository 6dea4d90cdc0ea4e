package report

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/telco-selfcare-api/internal/application/dto"
	"github.com/jhoicas/telco-selfcare-api/internal/domain"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/entity"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/repository"
)

const companyA = "11111111-1111-1111-1111-111111111111"

// ─── mocks ───────────────────────────────────────────────────────────────────

type mockGenerator struct{ mock.Mock }

func (m *mockGenerator) GenerateUsageStatement(ctx context.Context, s *Statement) ([]byte, error) {
	args := m.Called(ctx, s)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

type companiesStub struct {
	repository.CompanyRepository
	company *entity.Company
}

func (s *companiesStub) GetByID(context.Context, string) (*entity.Company, error) {
	return s.company, nil
}

type linesStub struct {
	repository.MSISDNRepository
	lines []*entity.MSISDN
}

func (s *linesStub) List(context.Context, string) ([]*entity.MSISDN, error) { return s.lines, nil }

type usageStub struct {
	repository.UsageRepository
	rows []*entity.Usage
}

func (s *usageStub) ListByPeriod(context.Context, string, int, int) ([]*entity.Usage, error) {
	return s.rows, nil
}

func newHarness(gen *mockGenerator) *StatementUseCase {
	company := &entity.Company{ID: companyA, Name: "Alfa Sh.p.k", ContractNumber: "C-100"}
	lines := []*entity.MSISDN{
		{ID: "m1", Number: "355691000002", CompanyID: companyA, UsageLimit: decimal.NewFromInt(10)},
		{ID: "m2", Number: "355691000001", CompanyID: companyA},
	}
	rows := []*entity.Usage{
		{MSISDNID: "m1", Month: 3, Year: 2026, DataHome: decimal.NewFromInt(12), SMS: 4, VoiceNational: decimal.NewFromInt(30)},
		{MSISDNID: "m2", Month: 3, Year: 2026, DataHome: decimal.NewFromInt(1), SMS: 1},
	}
	return NewStatementUseCase(&companiesStub{company: company}, &linesStub{lines: lines}, &usageStub{rows: rows}, gen)
}

func TestDownload_ArmaExtracto(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("GenerateUsageStatement", mock.Anything, mock.MatchedBy(func(s *Statement) bool {
		return len(s.Lines) == 2 &&
			s.Lines[0].MSISDN == "355691000001" &&
			s.Lines[1].OverLimit &&
			s.TotalSMS == 5 &&
			s.TotalData.Equal(decimal.NewFromInt(13))
	})).Return([]byte("%PDF-1.3"), nil)

	caller := entity.Identity{UserID: "u", Role: entity.RoleSMEA, CompanyID: companyA}
	pdf, name, err := newHarness(gen).Download(context.Background(), caller, dto.StatementQuery{Month: 3, Year: 2026})
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.3"), pdf)
	assert.Equal(t, "statement_C-100_2026-03.pdf", name)
	gen.AssertExpectations(t)
}

func TestDownload_AdminSinEmpresa(t *testing.T) {
	gen := &mockGenerator{}
	_, _, err := newHarness(gen).Download(context.Background(), entity.Identity{Role: entity.RoleAdmin}, dto.StatementQuery{Month: 3, Year: 2026})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	gen.AssertNotCalled(t, "GenerateUsageStatement", mock.Anything, mock.Anything)
}

func TestDownload_PeriodoInvalido(t *testing.T) {
	caller := entity.Identity{Role: entity.RoleSMEA, CompanyID: companyA}
	_, _, err := newHarness(&mockGenerator{}).Download(context.Background(), caller, dto.StatementQuery{Month: 13, Year: 2026})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
