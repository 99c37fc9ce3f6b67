package dto

import (
	"time"

	"github.com/jhoicas/cashbook-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest body para POST /api/transactions (movimiento manual).
type CreateTransactionRequest struct {
	Date        string          `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Type        string          `json:"type"`
}

// TransactionResponse movimiento de caja.
type TransactionResponse struct {
	ID             string          `json:"id"`
	Date           string          `json:"date"`
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description"`
	Category       string          `json:"category"`
	Type           string          `json:"type"`
	RelatedSaleID  string          `json:"related_sale_id,omitempty"`
	RelatedBatchID string          `json:"related_batch_id,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ToTransactionResponse mapea la entidad.
func ToTransactionResponse(t *entity.CashTransaction) TransactionResponse {
	return TransactionResponse{
		ID:             t.ID,
		Date:           t.Date.Format(DateLayout),
		Amount:         t.Amount,
		Description:    t.Description,
		Category:       string(t.Category),
		Type:           string(t.Type),
		RelatedSaleID:  t.RelatedSaleID,
		RelatedBatchID: t.RelatedBatchID,
		CreatedAt:      t.CreatedAt,
	}
}
