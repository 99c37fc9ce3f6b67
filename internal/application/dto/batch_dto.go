package dto

import (
	"time"

	"github.com/jhoicas/cashbook-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CreateBatchRequest body para POST /api/batches (ingreso de stock).
// Se envía unit_price o total_paid; con total_paid el costo unitario es total_paid / quantity.
type CreateBatchRequest struct {
	Date        string           `json:"date"`
	ProductName string           `json:"product_name"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
	TotalPaid   *decimal.Decimal `json:"total_paid,omitempty"`
	Class       string           `json:"class"`
	// SkipCashEntry no registra la salida de caja (stock inicial o donado).
	SkipCashEntry bool `json:"skip_cash_entry,omitempty"`
}

// BatchResponse lote en respuestas.
type BatchResponse struct {
	ID              string          `json:"id"`
	Date            string          `json:"date"`
	ProductName     string          `json:"product_name"`
	InitialQty      decimal.Decimal `json:"initial_qty"`
	CurrentQty      decimal.Decimal `json:"current_qty"`
	BuyPrice        decimal.Decimal `json:"buy_price"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	Class           string          `json:"class"`
	State           string          `json:"state"`
	ProducedByRunID string          `json:"produced_by_run_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ToBatchResponse mapea la entidad.
func ToBatchResponse(b *entity.StockBatch) BatchResponse {
	return BatchResponse{
		ID:              b.ID,
		Date:            b.Date.Format(DateLayout),
		ProductName:     b.ProductName,
		InitialQty:      b.InitialQty,
		CurrentQty:      b.CurrentQty,
		BuyPrice:        b.BuyPrice,
		TotalCost:       b.TotalCost,
		Class:           string(b.Class),
		State:           string(b.State()),
		ProducedByRunID: b.ProducedByRunID,
		CreatedAt:       b.CreatedAt,
	}
}

// ToBatchResponses mapea una lista.
func ToBatchResponses(list []*entity.StockBatch) []BatchResponse {
	out := make([]BatchResponse, 0, len(list))
	for _, b := range list {
		out = append(out, ToBatchResponse(b))
	}
	return out
}

// AvailabilityResponse respuesta de GET /api/batches/total.
type AvailabilityResponse struct {
	ProductName string          `json:"product_name"`
	Class       string          `json:"class"`
	Available   decimal.Decimal `json:"available"`
}

// OnHandProductDTO existencias de un producto por clasificación.
// NextBatch es el lote que saldrá primero (FIFO).
type OnHandProductDTO struct {
	ProductName   string          `json:"product_name"`
	Class         string          `json:"class"`
	TotalQty      decimal.Decimal `json:"total_qty"`
	TotalValue    decimal.Decimal `json:"total_value"`
	BatchCount    int             `json:"batch_count"`
	NextBatchID   string          `json:"next_batch_id"`
	NextBatchDate string          `json:"next_batch_date"`
	NextBuyPrice  decimal.Decimal `json:"next_buy_price"`
}

// AllocationDTO línea de consumo en respuestas.
type AllocationDTO struct {
	BatchID     string          `json:"batch_id"`
	QtyUsed     decimal.Decimal `json:"qty_used"`
	CostPerUnit decimal.Decimal `json:"cost_per_unit"`
	Cost        decimal.Decimal `json:"cost"`
}

// ToAllocationDTOs mapea la asignación.
func ToAllocationDTOs(as entity.Allocations) []AllocationDTO {
	out := make([]AllocationDTO, 0, len(as))
	for _, a := range as {
		out = append(out, AllocationDTO{BatchID: a.BatchID, QtyUsed: a.QtyUsed, CostPerUnit: a.CostPerUnit, Cost: a.Cost()})
	}
	return out
}
