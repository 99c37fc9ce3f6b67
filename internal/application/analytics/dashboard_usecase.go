package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/cashbook-api/internal/application/dto"
	"github.com/jhoicas/cashbook-api/internal/domain/entity"
	domaininv "github.com/jhoicas/cashbook-api/internal/domain/inventory"
	"github.com/jhoicas/cashbook-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// DashboardUseCase genera el resumen acumulado: saldo de caja, valor del stock por
// clasificación y el próximo lote FIFO de cada producto.
type DashboardUseCase struct {
	repos repository.Repositories
	now   func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(repos repository.Repositories) *DashboardUseCase {
	return &DashboardUseCase{repos: repos, now: dto.NowUTC}
}

// InLocation fija la zona del mes en curso.
func (uc *DashboardUseCase) InLocation(loc *time.Location) *DashboardUseCase {
	uc.now = func() time.Time { return time.Now().In(loc) }
	return uc
}

// GetSummary construye el DashboardSummaryDTO del negocio.
//
// Dos llamadas en paralelo:
//  1. Transactions.List (histórico)  → caja y ventas
//  2. Batches.List (con remanente)   → valor del stock y próximos lotes
func (uc *DashboardUseCase) GetSummary(ctx context.Context, businessID string) (*dto.DashboardSummaryDTO, error) {
	type txResult struct {
		list []*entity.CashTransaction
		err  error
	}
	type batchResult struct {
		list []*entity.StockBatch
		err  error
	}

	txCh := make(chan txResult, 1)
	batchCh := make(chan batchResult, 1)

	go func() {
		list, err := uc.repos.Transactions.List(ctx, businessID, repository.TransactionFilter{})
		txCh <- txResult{list, err}
	}()
	go func() {
		list, err := uc.repos.Batches.List(ctx, businessID, repository.BatchFilter{OnlyAvailable: true})
		batchCh <- batchResult{list, err}
	}()

	txs := <-txCh
	batches := <-batchCh

	if txs.err != nil {
		return nil, fmt.Errorf("dashboard: movimientos: %w", txs.err)
	}
	if batches.err != nil {
		return nil, fmt.Errorf("dashboard: lotes: %w", batches.err)
	}

	out := &dto.DashboardSummaryDTO{
		TotalCashIn:  decimal.Zero,
		TotalCashOut: decimal.Zero,
		SalesRevenue: decimal.Zero,
		SaleStock:    decimal.Zero,
		ProdStock:    decimal.Zero,
		NextOut:      nextOut(batches.list),
		Period:       monthLabel(uc.now()),
	}
	for _, t := range txs.list {
		if t.Type == entity.TransactionIN {
			out.TotalCashIn = out.TotalCashIn.Add(t.Amount)
			if t.Category == entity.CategorySale {
				out.SalesRevenue = out.SalesRevenue.Add(t.Amount)
			}
		} else {
			out.TotalCashOut = out.TotalCashOut.Add(t.Amount)
		}
	}
	out.CashBalance = out.TotalCashIn.Sub(out.TotalCashOut)

	for _, b := range batches.list {
		switch b.Class {
		case entity.StockClassForSale:
			out.SaleStock = out.SaleStock.Add(b.OnHandValue())
		case entity.StockClassForProduction:
			out.ProdStock = out.ProdStock.Add(b.OnHandValue())
		}
	}
	out.SaleStock = out.SaleStock.Round(2)
	out.ProdStock = out.ProdStock.Round(2)
	return out, nil
}

// nextOut primer lote FIFO con remanente por (producto, clasificación).
func nextOut(batches []*entity.StockBatch) []dto.NextOutDTO {
	type key struct {
		name  string
		class entity.StockClass
	}
	first := make(map[key]*entity.StockBatch)
	for _, b := range batches {
		if !b.CurrentQty.IsPositive() {
			continue
		}
		k := key{b.ProductName, b.Class}
		if cur, ok := first[k]; !ok || b.FIFOBefore(cur) {
			first[k] = b
		}
	}
	list := make([]*entity.StockBatch, 0, len(first))
	for _, b := range first {
		list = append(list, b)
	}
	domaininv.SortFIFO(list)
	sort.SliceStable(list, func(i, j int) bool { return list[i].ProductName < list[j].ProductName })

	out := make([]dto.NextOutDTO, 0, len(list))
	for _, b := range list {
		out = append(out, dto.NextOutDTO{
			ProductName: b.ProductName,
			Class:       string(b.Class),
			BatchID:     b.ID,
			Date:        b.Date.Format(dto.DateLayout),
			CurrentQty:  b.CurrentQty,
			BuyPrice:    b.BuyPrice,
		})
	}
	return out
}
