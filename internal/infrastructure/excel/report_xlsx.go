// Package excel exporta el reporte financiero a xlsx con excelize.
package excel

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/cashbook-api/internal/application/analytics"
	"github.com/jhoicas/cashbook-api/internal/application/dto"
)

var _ analytics.ReportExporter = (*ReportExporter)(nil)

const sheetName = "Reporte"

// ReportExporter hoja única con cinco secciones:
// I resumen, II estado de resultados, III flujo de caja, IV movimientos, V consumo de materia prima.
type ReportExporter struct{}

// NewReportExporter construye el exportador.
func NewReportExporter() *ReportExporter { return &ReportExporter{} }

// sheetWriter escribe filas consecutivas y recuerda la siguiente fila libre.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
	bold  int
	err   error
}

func (w *sheetWriter) write(values ...interface{}) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetSheetRow(w.sheet, cell, &values); err != nil {
		w.err = err
		return
	}
	w.row++
}

// title fila en negrita.
func (w *sheetWriter) title(s string) {
	if w.err != nil {
		return
	}
	cell, _ := excelize.CoordinatesToCellName(1, w.row)
	w.write(s)
	if w.err == nil {
		w.err = w.f.SetCellStyle(w.sheet, cell, cell, w.bold)
	}
}

func (w *sheetWriter) blank() { w.row++ }

func num(d decimal.Decimal) float64 { return d.InexactFloat64() }

// Export genera el archivo y devuelve sus bytes.
func (e *ReportExporter) Export(rep *dto.FinancialReportDTO) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), sheetName); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}
	_ = f.SetColWidth(sheetName, "A", "A", 14)
	_ = f.SetColWidth(sheetName, "B", "B", 42)
	_ = f.SetColWidth(sheetName, "C", "E", 16)

	w := &sheetWriter{f: f, sheet: sheetName, row: 1, bold: bold}

	w.title("I. RESUMEN")
	w.write("Desde", rep.From)
	w.write("Hasta", rep.To)
	w.write("Resultado", profitLabel(rep))
	w.blank()

	w.title("II. ESTADO DE RESULTADOS")
	w.write("", "Ingresos por ventas", num(rep.Revenue))
	w.write("", "Costo de lo vendido (HPP)", num(rep.COGS))
	w.write("", "Gastos de caja", num(rep.CashExpenses))
	w.write("", "Consumo de materia prima", num(rep.MaterialUsageCost))
	w.write("", "Total gastos", num(rep.TotalExpenses))
	w.write("", "Utilidad neta", num(rep.NetProfit))
	w.blank()

	w.title("III. FLUJO DE CAJA")
	w.write("", "Entradas", num(rep.CashIn))
	w.write("", "Salidas", num(rep.CashOut))
	w.write("", "Flujo neto", num(rep.NetCash))
	w.write("", "Aportes de capital", num(rep.CapitalInjected))
	w.write("", "Compras de stock", num(rep.StockPurchases))
	w.blank()

	w.title("IV. MOVIMIENTOS DE CAJA")
	w.write("Fecha", "Descripción", "Categoría", "Tipo", "Monto")
	for _, t := range rep.Transactions {
		w.write(t.Date, t.Description, t.Category, t.Type, num(t.Amount))
	}
	w.blank()

	w.title("V. CONSUMO DE MATERIA PRIMA")
	w.write("Fecha", "Producto", "Cantidad", "Costo")
	for _, u := range rep.MaterialUsages {
		w.write(u.Date, u.ProductName, num(u.Quantity), num(u.TotalCost))
	}

	if w.err != nil {
		return nil, fmt.Errorf("xlsx: escribir filas: %w", w.err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("xlsx: serializar: %w", err)
	}
	return buf.Bytes(), nil
}

func profitLabel(rep *dto.FinancialReportDTO) string {
	if rep.Profitable {
		return "UTILIDAD"
	}
	return "PÉRDIDA"
}
