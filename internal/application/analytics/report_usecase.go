// Package analytics contiene los casos de uso de reportes financieros y el dashboard.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/cashbook-api/internal/application/dto"
	"github.com/jhoicas/cashbook-api/internal/domain/entity"
	"github.com/jhoicas/cashbook-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ReportUseCase genera el estado de resultados y el flujo de caja de una ventana de fechas.
//
//	Ingresos       = Σ entradas de categoría sale
//	HPP            = Σ TotalCOGS de las ventas
//	Gastos totales = Σ salidas expense + Σ consumos de materia prima
//	Utilidad neta  = Ingresos - HPP - Gastos totales
//
// Las compras de stock y el capital afectan caja, no resultados.
type ReportUseCase struct {
	repos repository.Repositories
	xlsx  ReportExporter
	pdf   ReportExporter
}

// NewReportUseCase construye el caso de uso. Los exportadores pueden ser nil.
func NewReportUseCase(repos repository.Repositories, xlsx, pdf ReportExporter) *ReportUseCase {
	return &ReportUseCase{repos: repos, xlsx: xlsx, pdf: pdf}
}

// Financial calcula el reporte para [r.From, r.To].
func (uc *ReportUseCase) Financial(ctx context.Context, businessID string, r dto.DateRange) (*dto.FinancialReportDTO, error) {
	from, to := r.From, r.To

	type txResult struct {
		list []*entity.CashTransaction
		err  error
	}
	type salesResult struct {
		list []*entity.Sale
		err  error
	}
	type usagesResult struct {
		list []*entity.ProductionUsage
		err  error
	}

	txCh := make(chan txResult, 1)
	salesCh := make(chan salesResult, 1)
	usagesCh := make(chan usagesResult, 1)

	go func() {
		list, err := uc.repos.Transactions.List(ctx, businessID, repository.TransactionFilter{From: &from, To: &to})
		txCh <- txResult{list, err}
	}()
	go func() {
		list, err := uc.repos.Sales.List(ctx, businessID, &from, &to)
		salesCh <- salesResult{list, err}
	}()
	go func() {
		list, err := uc.repos.Productions.ListUsages(ctx, businessID, &from, &to)
		usagesCh <- usagesResult{list, err}
	}()

	txs := <-txCh
	sales := <-salesCh
	usages := <-usagesCh

	if txs.err != nil {
		return nil, fmt.Errorf("reporte: movimientos: %w", txs.err)
	}
	if sales.err != nil {
		return nil, fmt.Errorf("reporte: ventas: %w", sales.err)
	}
	if usages.err != nil {
		return nil, fmt.Errorf("reporte: consumos: %w", usages.err)
	}

	return BuildFinancialReport(r, txs.list, sales.list, usages.list), nil
}

// BuildFinancialReport agrega los registros ya filtrados por la ventana.
func BuildFinancialReport(r dto.DateRange, txs []*entity.CashTransaction, sales []*entity.Sale, usages []*entity.ProductionUsage) *dto.FinancialReportDTO {
	rep := &dto.FinancialReportDTO{
		From:              r.From.Format(dto.DateLayout),
		To:                r.To.Format(dto.DateLayout),
		Revenue:           decimal.Zero,
		COGS:              decimal.Zero,
		CashExpenses:      decimal.Zero,
		MaterialUsageCost: decimal.Zero,
		CashIn:            decimal.Zero,
		CashOut:           decimal.Zero,
		CapitalInjected:   decimal.Zero,
		StockPurchases:    decimal.Zero,
		Transactions:      make([]dto.TransactionResponse, 0, len(txs)),
		MaterialUsages:    make([]dto.ProductionUsageResponse, 0, len(usages)),
	}

	for _, t := range txs {
		rep.Transactions = append(rep.Transactions, dto.ToTransactionResponse(t))
		if t.Type == entity.TransactionIN {
			rep.CashIn = rep.CashIn.Add(t.Amount)
		} else {
			rep.CashOut = rep.CashOut.Add(t.Amount)
		}
		switch {
		case t.Category == entity.CategorySale && t.Type == entity.TransactionIN:
			rep.Revenue = rep.Revenue.Add(t.Amount)
		case t.Category == entity.CategoryExpense && t.Type == entity.TransactionOUT:
			rep.CashExpenses = rep.CashExpenses.Add(t.Amount)
		case t.Category == entity.CategoryCapital && t.Type == entity.TransactionIN:
			rep.CapitalInjected = rep.CapitalInjected.Add(t.Amount)
		case t.Category == entity.CategoryStockPurchase && t.Type == entity.TransactionOUT:
			rep.StockPurchases = rep.StockPurchases.Add(t.Amount)
		}
	}
	for _, s := range sales {
		rep.COGS = rep.COGS.Add(s.TotalCOGS)
	}
	for _, u := range usages {
		rep.MaterialUsageCost = rep.MaterialUsageCost.Add(u.TotalCost)
		rep.MaterialUsages = append(rep.MaterialUsages, dto.ToProductionUsageResponse(u))
	}

	rep.TotalExpenses = rep.CashExpenses.Add(rep.MaterialUsageCost)
	rep.NetProfit = rep.Revenue.Sub(rep.COGS).Sub(rep.TotalExpenses)
	rep.Profitable = !rep.NetProfit.IsNegative()
	rep.NetCash = rep.CashIn.Sub(rep.CashOut)
	return rep
}

// ExportXLSX genera el reporte en Excel.
func (uc *ReportUseCase) ExportXLSX(ctx context.Context, businessID string, r dto.DateRange) ([]byte, error) {
	return uc.export(ctx, businessID, r, uc.xlsx)
}

// ExportPDF genera el reporte en PDF.
func (uc *ReportUseCase) ExportPDF(ctx context.Context, businessID string, r dto.DateRange) ([]byte, error) {
	return uc.export(ctx, businessID, r, uc.pdf)
}

func (uc *ReportUseCase) export(ctx context.Context, businessID string, r dto.DateRange, exp ReportExporter) ([]byte, error) {
	if exp == nil {
		return nil, fmt.Errorf("reporte: exportador no configurado")
	}
	rep, err := uc.Financial(ctx, businessID, r)
	if err != nil {
		return nil, err
	}
	return exp.Export(rep)
}

// ReportFileName nombre sugerido del archivo descargado.
func ReportFileName(r dto.DateRange, ext string) string {
	return fmt.Sprintf("reporte-financiero_%s_%s.%s", r.From.Format(dto.DateLayout), r.To.Format(dto.DateLayout), ext)
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
