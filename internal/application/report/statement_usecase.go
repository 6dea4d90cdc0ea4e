// Package report genera el extracto mensual de consumo de una empresa en PDF.
package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/telco-selfcare-api/internal/application/dto"
	"github.com/jhoicas/telco-selfcare-api/internal/application/usecase"
	"github.com/jhoicas/telco-selfcare-api/internal/domain"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/entity"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/repository"
)

// StatementLine consumo de una línea en el período.
type StatementLine struct {
	MSISDN             string
	VoiceNational      decimal.Decimal
	VoiceInternational decimal.Decimal
	VoiceRoaming       decimal.Decimal
	SMS                int
	DataHome           decimal.Decimal
	DataRoaming        decimal.Decimal
	UsageLimit         decimal.Decimal
	OverLimit          bool
}

// Statement datos completos del extracto.
type Statement struct {
	Company     *entity.Company
	Month       int
	Year        int
	Lines       []StatementLine
	TotalVoice  decimal.Decimal
	TotalSMS    int
	TotalData   decimal.Decimal
	GeneratedAt time.Time
}

// StatementGenerator puerto de salida: renderiza el extracto (PDF en infraestructura).
type StatementGenerator interface {
	GenerateUsageStatement(ctx context.Context, s *Statement) ([]byte, error)
}

// StatementUseCase reúne consumos y líneas del período y delega el render.
type StatementUseCase struct {
	companies repository.CompanyRepository
	msisdns   repository.MSISDNRepository
	usage     repository.UsageRepository
	generator StatementGenerator
}

// NewStatementUseCase construye el caso de uso inyectando sus dependencias.
func NewStatementUseCase(
	companies repository.CompanyRepository,
	msisdns repository.MSISDNRepository,
	usage repository.UsageRepository,
	generator StatementGenerator,
) *StatementUseCase {
	return &StatementUseCase{companies: companies, msisdns: msisdns, usage: usage, generator: generator}
}

// Download devuelve (pdfBytes, filename). admin/ssr deben indicar company_id si no tienen empresa.
func (uc *StatementUseCase) Download(ctx context.Context, caller entity.Identity, q dto.StatementQuery) ([]byte, string, error) {
	if q.Month < 1 || q.Month > 12 || q.Year < 2000 {
		return nil, "", domain.ErrInvalidInput
	}
	companyID, err := usecase.ScopeCompany(caller, q.CompanyID)
	if err != nil {
		return nil, "", err
	}
	if companyID == "" {
		companyID = caller.CompanyID
	}
	if companyID == "" {
		return nil, "", fmt.Errorf("%w: company_id es obligatorio", domain.ErrInvalidInput)
	}

	company, err := uc.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, "", fmt.Errorf("statement: obtener empresa: %w", err)
	}
	if company == nil {
		return nil, "", domain.ErrNotFound
	}
	rows, err := uc.usage.ListByPeriod(ctx, companyID, q.Month, q.Year)
	if err != nil {
		return nil, "", fmt.Errorf("statement: obtener consumos: %w", err)
	}
	lines, err := uc.msisdns.List(ctx, companyID)
	if err != nil {
		return nil, "", fmt.Errorf("statement: obtener líneas: %w", err)
	}

	st := buildStatement(company, q.Month, q.Year, rows, lines)
	st.GeneratedAt = time.Now()

	pdf, err := uc.generator.GenerateUsageStatement(ctx, st)
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("statement_%s_%04d-%02d.pdf", company.ContractNumber, q.Year, q.Month)
	return pdf, filename, nil
}

func buildStatement(company *entity.Company, month, year int, rows []*entity.Usage, lines []*entity.MSISDN) *Statement {
	limits := make(map[string]decimal.Decimal, len(lines))
	numbers := make(map[string]string, len(lines))
	for _, l := range lines {
		limits[l.ID] = l.UsageLimit
		numbers[l.ID] = l.Number
	}

	st := &Statement{Company: company, Month: month, Year: year, TotalVoice: decimal.Zero, TotalData: decimal.Zero}
	for _, u := range rows {
		number := numbers[u.MSISDNID]
		if u.MSISDN != nil {
			number = u.MSISDN.Number
		}
		limit := limits[u.MSISDNID]
		st.Lines = append(st.Lines, StatementLine{
			MSISDN:             number,
			VoiceNational:      u.VoiceNational,
			VoiceInternational: u.VoiceInternational,
			VoiceRoaming:       u.VoiceRoaming,
			SMS:                u.SMS,
			DataHome:           u.DataHome,
			DataRoaming:        u.DataRoaming,
			UsageLimit:         limit,
			OverLimit:          u.ReachesLimit(limit),
		})
		st.TotalVoice = st.TotalVoice.Add(u.TotalVoice())
		st.TotalData = st.TotalData.Add(u.TotalData())
		st.TotalSMS += u.SMS
	}
	sort.Slice(st.Lines, func(i, j int) bool { return st.Lines[i].MSISDN < st.Lines[j].MSISDN })
	return st
}
