package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/cashbook-api/internal/domain"
	"github.com/shopspring/decimal"
)

// TransactionCategory categoría de un movimiento de caja.
type TransactionCategory string

const (
	CategorySale          TransactionCategory = "sale"           // Penjualan
	CategoryCapital       TransactionCategory = "capital"        // Modal
	CategoryExpense       TransactionCategory = "expense"        // Biaya
	CategoryStockPurchase TransactionCategory = "stock_purchase" // Beli Stok
)

// ParseTransactionCategory acepta los nombres actuales y los heredados.
func ParseTransactionCategory(s string) (TransactionCategory, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sale", "penjualan":
		return CategorySale, nil
	case "capital", "modal":
		return CategoryCapital, nil
	case "expense", "biaya":
		return CategoryExpense, nil
	case "stock_purchase", "beli stok":
		return CategoryStockPurchase, nil
	}
	return "", fmt.Errorf("categoría %q: %w", s, domain.ErrInvalidInput)
}

// TransactionType dirección del dinero.
type TransactionType string

const (
	TransactionIN  TransactionType = "IN"
	TransactionOUT TransactionType = "OUT"
)

// ParseTransactionType valida IN/OUT.
func ParseTransactionType(s string) (TransactionType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "IN":
		return TransactionIN, nil
	case "OUT":
		return TransactionOUT, nil
	}
	return "", fmt.Errorf("tipo %q: %w", s, domain.ErrInvalidInput)
}

// CashTransaction movimiento del libro de caja. Los Related* enlazan el movimiento con la
// venta, el lote o la producción que lo originó; esos movimientos no se borran a mano.
type CashTransaction struct {
	ID             string
	BusinessID     string
	Date           time.Time
	Amount         decimal.Decimal
	Description    string
	Category       TransactionCategory
	Type           TransactionType
	RelatedSaleID  string
	RelatedBatchID string
	CreatedAt      time.Time
}

// Linked indica si el movimiento pertenece a otro registro.
func (t *CashTransaction) Linked() bool {
	return t.RelatedSaleID != "" || t.RelatedBatchID != ""
}

// Signed devuelve el monto con signo (+IN, -OUT).
func (t *CashTransaction) Signed() decimal.Decimal {
	if t.Type == TransactionOUT {
		return t.Amount.Neg()
	}
	return t.Amount
}
