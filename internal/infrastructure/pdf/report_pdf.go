// Package pdf genera el reporte financiero (estado de resultados + flujo de caja) en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + Negocio    │  Período desde / hasta       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  I.  ESTADO DE RESULTADOS: Ingresos / HPP / Gastos / Neto   │
//	│  II. FLUJO DE CAJA: Entradas / Salidas / Capital / Compras  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  III. MOVIMIENTOS: Fecha | Descripción | Categoría | Monto  │
//	│  IV.  CONSUMO DE MATERIA PRIMA: Fecha | Producto | Costo    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
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
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cashbook-api/internal/application/analytics"
	"github.com/jhoicas/cashbook-api/internal/application/dto"
)

var _ analytics.ReportExporter = (*MarotoReportGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorLoss    = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa analytics.ReportExporter usando Maroto v2.
type MarotoReportGenerator struct {
	businessName string
}

// NewMarotoReportGenerator construye el generador. businessName va en el encabezado.
func NewMarotoReportGenerator(businessName string) *MarotoReportGenerator {
	return &MarotoReportGenerator{businessName: businessName}
}

// Export genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) Export(rep *dto.FinancialReportDTO) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte financiero", true).
		WithAuthor(g.businessName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.businessName, rep))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(sectionRow("I. ESTADO DE RESULTADOS"))
	m.AddRows(amountRow("Ingresos por ventas", rep.Revenue, false))
	m.AddRows(amountRow("Costo de lo vendido (HPP)", rep.COGS.Neg(), false))
	m.AddRows(amountRow("Gastos de caja", rep.CashExpenses.Neg(), false))
	m.AddRows(amountRow("Consumo de materia prima", rep.MaterialUsageCost.Neg(), false))
	m.AddRows(amountRow("Total gastos", rep.TotalExpenses.Neg(), false))
	m.AddRows(amountRow(profitLabel(rep), rep.NetProfit, true))

	m.AddRows(line.NewRow(3))
	m.AddRows(sectionRow("II. FLUJO DE CAJA"))
	m.AddRows(amountRow("Entradas", rep.CashIn, false))
	m.AddRows(amountRow("Salidas", rep.CashOut.Neg(), false))
	m.AddRows(amountRow("Aportes de capital", rep.CapitalInjected, false))
	m.AddRows(amountRow("Compras de stock", rep.StockPurchases.Neg(), false))
	m.AddRows(amountRow("Flujo neto", rep.NetCash, true))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(sectionRow("III. MOVIMIENTOS DE CAJA"))
	m.AddRows(tableHeaderRow("Fecha", "Descripción", "Categoría", "Monto"))
	for _, t := range rep.Transactions {
		m.AddRows(tableRow(t.Date, t.Description, t.Category+" / "+t.Type, signed(t)))
	}

	if len(rep.MaterialUsages) > 0 {
		m.AddRows(line.NewRow(3))
		m.AddRows(sectionRow("IV. CONSUMO DE MATERIA PRIMA"))
		m.AddRows(tableHeaderRow("Fecha", "Producto", "Cantidad", "Costo"))
		for _, u := range rep.MaterialUsages {
			m.AddRows(tableRow(u.Date, u.ProductName, u.Quantity.String(), u.TotalCost))
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(businessName string, rep *dto.FinancialReportDTO) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New("REPORTE FINANCIERO", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(businessName, "-"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Período", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(rep.From+"  a  "+rep.To, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 7,
			}),
		),
	)
}

func sectionRow(title string) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 2}),
	))
}

func amountRow(label string, v decimal.Decimal, total bool) core.Row {
	p := props.Text{Size: 9, Top: 1}
	if total {
		p.Style = fontstyle.Bold
		p.Color = colorPrimary
		if v.IsNegative() {
			p.Color = colorLoss
		}
	}
	vp := p
	vp.Align = align.Right
	vp.Right = 1
	return row.New(6).Add(
		col.New(1),
		col.New(7).Add(text.New(label, p)),
		col.New(4).Add(text.New(money(v), vp)),
	)
}

func tableHeaderRow(c1, c2, c3, c4 string) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 1, Left: 1, Right: 1,
		}))
	}
	return row.New(7).Add(
		h(c1, 2, align.Left),
		h(c2, 5, align.Left),
		h(c3, 2, align.Left),
		h(c4, 3, align.Right),
	)
}

func tableRow(date, desc, extra string, amount decimal.Decimal) core.Row {
	return row.New(6).Add(
		col.New(2).Add(text.New(date, props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(5).Add(text.New(desc, props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(2).Add(text.New(extra, props.Text{Size: 8, Top: 1, Left: 1, Color: colorGray})),
		col.New(3).Add(text.New(money(amount), props.Text{Size: 8, Top: 1, Align: align.Right, Right: 1})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func profitLabel(rep *dto.FinancialReportDTO) string {
	if rep.Profitable {
		return "UTILIDAD NETA"
	}
	return "PÉRDIDA NETA"
}

func signed(t dto.TransactionResponse) decimal.Decimal {
	if t.Type == "OUT" {
		return t.Amount.Neg()
	}
	return t.Amount
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// money formatea con separador de miles y sin decimales. Ej: -1250000 → "-$1.250.000".
func money(v decimal.Decimal) string {
	s := v.Abs().StringFixed(0)
	sign := ""
	if v.Round(0).IsNegative() {
		sign = "-"
	}
	return sign + "$" + formatThousands(s)
}

// formatThousands inserta puntos de miles en un string numérico sin signo.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	var b strings.Builder
	b.Grow(n + n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteByte(c)
	}
	return b.String()
}
