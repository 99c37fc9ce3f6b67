package entity

import "github.com/shopspring/decimal"

// Allocation línea de consumo: QtyUsed unidades tomadas de un lote al costo capturado.
type Allocation struct {
	BatchID     string          `json:"batchId"`
	QtyUsed     decimal.Decimal `json:"qtyUsed"`
	CostPerUnit decimal.Decimal `json:"costPerUnit"`
}

// Cost costo de la línea.
func (a Allocation) Cost() decimal.Decimal {
	return a.QtyUsed.Mul(a.CostPerUnit)
}

// Allocations lista ordenada de asignaciones de un evento de consumo.
type Allocations []Allocation

// TotalQty suma de cantidades.
func (as Allocations) TotalQty() decimal.Decimal {
	total := decimal.Zero
	for _, a := range as {
		total = total.Add(a.QtyUsed)
	}
	return total
}

// TotalCost suma de QtyUsed * CostPerUnit.
func (as Allocations) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for _, a := range as {
		total = total.Add(a.Cost())
	}
	return total
}

// QtyByBatch agrupa cantidades por lote (un lote puede aparecer varias veces en una producción).
func (as Allocations) QtyByBatch() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(as))
	for _, a := range as {
		out[a.BatchID] = out[a.BatchID].Add(a.QtyUsed)
	}
	return out
}

// AllocationResult resultado de una asignación FIFO aplicada.
type AllocationResult struct {
	ProductName string
	Class       StockClass
	Allocations Allocations
	TotalCost   decimal.Decimal
}
