package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/cashbook-api/internal/domain"
	"github.com/shopspring/decimal"
)

// StockClass clasifica un lote según el flujo que puede consumirlo.
type StockClass string

// Clasificaciones de stock.
const (
	StockClassForSale       StockClass = "for_sale"       // venta a cliente final
	StockClassForProduction StockClass = "for_production" // materia prima
)

// ParseStockClass normaliza la clasificación, aceptando las etiquetas heredadas
// ("Dijual", "Produksi", "HASIL_PRODUKSI"). HASIL_PRODUKSI es stock vendible.
func ParseStockClass(s string) (StockClass, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "for_sale", "for-sale", "dijual", "hasil_produksi":
		return StockClassForSale, nil
	case "for_production", "for-production", "produksi":
		return StockClassForProduction, nil
	}
	return "", fmt.Errorf("clasificación %q: %w", s, domain.ErrInvalidInput)
}

// Valid indica si la clasificación es una de las dos conocidas.
func (c StockClass) Valid() bool {
	return c == StockClassForSale || c == StockClassForProduction
}

// BatchState estado derivado de un lote según su cantidad actual.
type BatchState string

const (
	BatchStateActive            BatchState = "active"
	BatchStatePartiallyConsumed BatchState = "partially_consumed"
	BatchStateFullyConsumed     BatchState = "fully_consumed"
)

// StockBatch representa un lote de compra o de producción de un solo producto.
// InitialQty, BuyPrice y TotalCost no cambian después de la creación; CurrentQty solo
// la modifica el asignador de consumo (Debit/Credit).
type StockBatch struct {
	ID              string
	BusinessID      string
	ProductName     string
	Date            time.Time // fecha de adquisición, define el orden FIFO
	InitialQty      decimal.Decimal
	CurrentQty      decimal.Decimal
	BuyPrice        decimal.Decimal // costo unitario
	TotalCost       decimal.Decimal // InitialQty * BuyPrice
	Class           StockClass
	ProducedByRunID string // procedencia si el lote es resultado de una producción
	Seq             int64  // orden de inserción, desempate FIFO
	CreatedAt       time.Time
}

// NewStockBatch construye un lote intacto (CurrentQty = InitialQty).
func NewStockBatch(id, businessID, productName string, date time.Time, qty, buyPrice decimal.Decimal, class StockClass) (*StockBatch, error) {
	if strings.TrimSpace(productName) == "" || !class.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if !qty.IsPositive() || buyPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	return &StockBatch{
		ID:          id,
		BusinessID:  businessID,
		ProductName: strings.TrimSpace(productName),
		Date:        date,
		InitialQty:  qty,
		CurrentQty:  qty,
		BuyPrice:    buyPrice,
		TotalCost:   qty.Mul(buyPrice),
		Class:       class,
		CreatedAt:   time.Now(),
	}, nil
}

// Debit descuenta amount de CurrentQty. Falla si amount > CurrentQty.
func (b *StockBatch) Debit(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("débito negativo %s en lote %s: %w", amount, b.ID, domain.ErrInvariantViolation)
	}
	if amount.GreaterThan(b.CurrentQty) {
		return fmt.Errorf("débito %s excede %s en lote %s: %w", amount, b.CurrentQty, b.ID, domain.ErrInvariantViolation)
	}
	b.CurrentQty = b.CurrentQty.Sub(amount)
	return nil
}

// Credit devuelve amount a CurrentQty. Falla si el resultado supera InitialQty.
func (b *StockBatch) Credit(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("crédito negativo %s en lote %s: %w", amount, b.ID, domain.ErrInvariantViolation)
	}
	next := b.CurrentQty.Add(amount)
	if next.GreaterThan(b.InitialQty) {
		return fmt.Errorf("crédito %s en lote %s supera la cantidad inicial %s: %w", amount, b.ID, b.InitialQty, domain.ErrInvariantViolation)
	}
	b.CurrentQty = next
	return nil
}

// ConsumedQty cantidad ya tomada del lote.
func (b *StockBatch) ConsumedQty() decimal.Decimal {
	return b.InitialQty.Sub(b.CurrentQty)
}

// State devuelve el estado del ciclo de vida del lote.
func (b *StockBatch) State() BatchState {
	switch {
	case b.CurrentQty.Equal(b.InitialQty):
		return BatchStateActive
	case b.CurrentQty.IsZero():
		return BatchStateFullyConsumed
	default:
		return BatchStatePartiallyConsumed
	}
}

// Deletable solo los lotes intactos pueden eliminarse.
func (b *StockBatch) Deletable() bool {
	return b.State() == BatchStateActive
}

// OnHandValue valor del remanente al costo del lote.
func (b *StockBatch) OnHandValue() decimal.Decimal {
	return b.CurrentQty.Mul(b.BuyPrice)
}

// FIFOBefore define el orden FIFO: fecha de adquisición ascendente, luego orden de inserción.
func (b *StockBatch) FIFOBefore(other *StockBatch) bool {
	if !b.Date.Equal(other.Date) {
		return b.Date.Before(other.Date)
	}
	return b.Seq < other.Seq
}

// Clone copia el lote (los decimal son inmutables).
func (b *StockBatch) Clone() *StockBatch {
	c := *b
	return &c
}
