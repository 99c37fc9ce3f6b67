package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale venta de un producto; BatchUsages guarda la asignación FIFO para revertirla sin recalcular.
type Sale struct {
	ID           string
	BusinessID   string
	Date         time.Time
	ProductName  string
	Qty          decimal.Decimal
	SellPrice    decimal.Decimal
	TotalRevenue decimal.Decimal // Qty * SellPrice
	TotalCOGS    decimal.Decimal // costo de lo vendido (HPP)
	BatchUsages  Allocations
	CreatedAt    time.Time
}

// GrossProfit margen bruto de la venta.
func (s *Sale) GrossProfit() decimal.Decimal {
	return s.TotalRevenue.Sub(s.TotalCOGS)
}

// ProductionUsage consumo de materia prima registrado como gasto no monetario.
type ProductionUsage struct {
	ID          string
	BusinessID  string
	Date        time.Time
	ProductName string
	Qty         decimal.Decimal
	TotalCost   decimal.Decimal
	BatchUsages Allocations
	CreatedAt   time.Time
}

// OperationalCost costo operativo incorporado a una producción (mano de obra, empaque...).
type OperationalCost struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// IngredientUsage materia prima consumida por una producción con su asignación FIFO.
type IngredientUsage struct {
	ProductName string          `json:"productName"`
	Qty         decimal.Decimal `json:"qty"`
	TotalCost   decimal.Decimal `json:"totalCost"`
	BatchUsages Allocations     `json:"batchUsages"`
}

// ProductionRun transforma materias primas en un lote vendible (OutputBatchID).
// UnitCost = (costo de materiales + costos operativos) / OutputQty.
type ProductionRun struct {
	ID                 string
	BusinessID         string
	Date               time.Time
	OutputProduct      string
	OutputQty          decimal.Decimal
	OutputBatchID      string
	Ingredients        []IngredientUsage
	OperationalCosts   []OperationalCost
	MaterialCost       decimal.Decimal
	TotalOperationCost decimal.Decimal
	UnitCost           decimal.Decimal
	CreatedAt          time.Time
}

// AllAllocations concatena las asignaciones de todos los ingredientes.
func (r *ProductionRun) AllAllocations() Allocations {
	var out Allocations
	for _, ing := range r.Ingredients {
		out = append(out, ing.BatchUsages...)
	}
	return out
}
