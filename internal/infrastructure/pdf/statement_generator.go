// Package pdf implementa el extracto mensual de consumo de una empresa.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa + contrato  │  Período + fecha de emisión  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: MSISDN | Voz nac/int/roam | SMS | Datos | Límite     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: voz / SMS / datos                                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR de referencia + leyenda                          │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/telco-selfcare-api/internal/application/report"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 200, Green: 16, Blue: 46}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 190, Green: 0, Blue: 0}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// StatementGenerator implementa report.StatementGenerator usando Maroto v2.
type StatementGenerator struct{}

var _ report.StatementGenerator = (*StatementGenerator)(nil)

// NewStatementGenerator construye el generador.
func NewStatementGenerator() *StatementGenerator { return &StatementGenerator{} }

// GenerateUsageStatement genera el PDF y devuelve sus bytes.
func (g *StatementGenerator) GenerateUsageStatement(_ context.Context, s *report.Statement) ([]byte, error) {
	if s == nil || s.Company == nil {
		return nil, fmt.Errorf("pdf: extracto sin empresa")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Usage statement", true).
		WithAuthor(s.Company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(s))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	if len(s.Lines) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("No usage recorded for this period.", props.Text{Size: 8, Top: 2, Color: colorGray, Align: align.Center}),
		)))
	}
	for _, r := range tableDetailRows(s.Lines) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(s))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(s))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(s *report.Statement) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(s.Company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Contract: "+s.Company.ContractNumber, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("USAGE STATEMENT", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(period(s.Month, s.Year), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Issued: "+s.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("MSISDN", 3, align.Left),
		h("Voice nat.", 1, align.Right),
		h("Voice int.", 1, align.Right),
		h("Roaming", 1, align.Right),
		h("SMS", 1, align.Right),
		h("Data home", 2, align.Right),
		h("Data roam.", 1, align.Right),
		h("Limit GB", 2, align.Right),
	)
}

// tableDetailRows: una fila por línea; en rojo las que alcanzaron el límite.
func tableDetailRows(lines []report.StatementLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		cell := props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1}
		if l.OverLimit {
			cell.Color = colorAlert
		}
		limit := "-"
		if l.UsageLimit.IsPositive() {
			limit = l.UsageLimit.StringFixed(2)
		}
		result = append(result, row.New(7).Add(
			col.New(3).Add(text.New(l.MSISDN, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(l.VoiceNational.StringFixed(0), cell)),
			col.New(1).Add(text.New(l.VoiceInternational.StringFixed(0), cell)),
			col.New(1).Add(text.New(l.VoiceRoaming.StringFixed(0), cell)),
			col.New(1).Add(text.New(formatThousands(strconv.Itoa(l.SMS)), cell)),
			col.New(2).Add(text.New(l.DataHome.StringFixed(2), cell)),
			col.New(1).Add(text.New(l.DataRoaming.StringFixed(2), cell)),
			col.New(2).Add(text.New(limit, cell)),
		))
	}
	return result
}

func totalsRow(s *report.Statement) core.Row {
	label := func(v string) core.Component {
		return text.New(v, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(v string) core.Component {
		return text.New(v, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Voice minutes:"),
			label("SMS:"),
			label("Data (GB):"),
		),
		col.New(3).Add(
			value(formatThousands(s.TotalVoice.StringFixed(0))),
			value(formatThousands(strconv.Itoa(s.TotalSMS))),
			value(s.TotalData.StringFixed(2)),
		),
	)
}

// footerRow: QR con la referencia contrato/período.
func footerRow(s *report.Statement) core.Row {
	ref := fmt.Sprintf("%s|%04d-%02d|%d", s.Company.ContractNumber, s.Year, s.Month, len(s.Lines))
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(ref, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("Statement reference: "+ref, props.Text{Size: 8, Top: 4, Left: 3, Color: colorGray}),
			text.New("Figures reflect usage recorded up to the issue date and may change until the period closes.",
				props.Text{Size: 7, Top: 12, Left: 3, Color: colorGray}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func period(month, year int) string {
	return fmt.Sprintf("%02d/%04d", month, year)
}

// formatThousands inserta comas de miles en un string numérico sin decimales.
// Ej: "25000" → "25,000", "-1000000" → "-1,000,000"
func formatThousands(s string) string {
	sign := ""
	if len(s) > 0 && s[0] == '-' {
		sign, s = "-", s[1:]
	}
	n := len(s)
	if n <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
