// Package inventory contiene los servicios de dominio del costeo de inventario (FIFO).
// No hace I/O: recibe lotes y devuelve planes de consumo.
package inventory

import (
	"fmt"
	"sort"

	"github.com/jhoicas/cashbook-api/internal/domain"
	"github.com/jhoicas/cashbook-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// SortFIFO ordena los lotes in-place: fecha de adquisición ascendente, empate por orden de inserción.
func SortFIFO(batches []*entity.StockBatch) {
	sort.SliceStable(batches, func(i, j int) bool {
		return batches[i].FIFOBefore(batches[j])
	})
}

// Available suma CurrentQty de los lotes.
func Available(batches []*entity.StockBatch) decimal.Decimal {
	total := decimal.Zero
	for _, b := range batches {
		if b.CurrentQty.IsPositive() {
			total = total.Add(b.CurrentQty)
		}
	}
	return total
}

// PlanFIFO calcula qué tomar de cada lote para cubrir qty, sin modificar los lotes.
//
//   - qty == 0 → plan vacío, sin error.
//   - qty < 0  → ErrInvalidInput.
//   - disponible < qty → ErrInsufficientStock (se verifica antes de planear).
//
// El orden de las líneas es el orden FIFO de consumo.
func PlanFIFO(batches []*entity.StockBatch, qty decimal.Decimal) (entity.Allocations, error) {
	if qty.IsNegative() {
		return nil, fmt.Errorf("cantidad %s: %w", qty, domain.ErrInvalidInput)
	}
	if qty.IsZero() {
		return entity.Allocations{}, nil
	}
	available := Available(batches)
	if available.LessThan(qty) {
		return nil, fmt.Errorf("solicitado %s, disponible %s: %w", qty, available, domain.ErrInsufficientStock)
	}

	ordered := make([]*entity.StockBatch, len(batches))
	copy(ordered, batches)
	SortFIFO(ordered)

	plan := make(entity.Allocations, 0, len(ordered))
	remaining := qty
	for _, b := range ordered {
		if !remaining.IsPositive() {
			break
		}
		take := decimal.Min(b.CurrentQty, remaining)
		if !take.IsPositive() {
			continue
		}
		plan = append(plan, entity.Allocation{
			BatchID:     b.ID,
			QtyUsed:     take,
			CostPerUnit: b.BuyPrice,
		})
		remaining = remaining.Sub(take)
	}
	return plan, nil
}

// ProductionUnitCost costo unitario de un lote producido:
// (CostoMateriales + CostosOperativos) / CantidadProducida.
func ProductionUnitCost(materialCost, operationalCost, outputQty decimal.Decimal) decimal.Decimal {
	if !outputQty.IsPositive() {
		return decimal.Zero
	}
	return materialCost.Add(operationalCost).Div(outputQty)
}
