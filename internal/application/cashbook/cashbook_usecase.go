// Package cashbook movimientos manuales del libro de caja.
package cashbook

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/cashbook-api/internal/application/dto"
	"github.com/jhoicas/cashbook-api/internal/application/inventory"
	"github.com/jhoicas/cashbook-api/internal/domain"
	"github.com/jhoicas/cashbook-api/internal/domain/entity"
	"github.com/jhoicas/cashbook-api/internal/domain/repository"
	"github.com/jhoicas/cashbook-api/pkg/logger"
)

// CashbookUseCase alta, baja y consulta de movimientos de caja.
type CashbookUseCase struct {
	tx    inventory.TxRunner
	repos repository.Repositories
	log   *logger.Logger
	now   func() time.Time
}

// NewCashbookUseCase construye el caso de uso.
func NewCashbookUseCase(tx inventory.TxRunner, repos repository.Repositories, log *logger.Logger) *CashbookUseCase {
	return &CashbookUseCase{tx: tx, repos: repos, log: log.Component("cashbook"), now: dto.NowUTC}
}

// InLocation fija la zona en que se interpretan las fechas sin hora.
func (uc *CashbookUseCase) InLocation(loc *time.Location) *CashbookUseCase {
	uc.now = func() time.Time { return time.Now().In(loc) }
	return uc
}

// Add registra un movimiento manual. stock_purchase solo nace del ingreso de un lote.
func (uc *CashbookUseCase) Add(ctx context.Context, businessID string, in dto.CreateTransactionRequest) (*dto.TransactionResponse, error) {
	category, err := entity.ParseTransactionCategory(in.Category)
	if err != nil {
		return nil, err
	}
	if category == entity.CategoryStockPurchase {
		return nil, fmt.Errorf("las compras de stock se registran como lote: %w", domain.ErrInvalidInput)
	}
	typ, err := entity.ParseTransactionType(in.Type)
	if err != nil {
		return nil, err
	}
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("monto %s: %w", in.Amount, domain.ErrInvalidInput)
	}
	date, err := dto.ParseDate(in.Date, uc.now())
	if err != nil {
		return nil, err
	}
	t := &entity.CashTransaction{
		ID:          uuid.New().String(),
		BusinessID:  businessID,
		Date:        date,
		Amount:      in.Amount,
		Description: strings.TrimSpace(in.Description),
		Category:    category,
		Type:        typ,
		CreatedAt:   uc.now(),
	}
	if err := uc.tx.Run(ctx, func(r repository.Repositories) error {
		return r.Transactions.Create(ctx, t)
	}); err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("business_id", businessID).
		Str("transaction_id", t.ID).
		Str("type", string(t.Type)).
		Str("amount", t.Amount.String()).
		Msg("movimiento registrado")
	out := dto.ToTransactionResponse(t)
	return &out, nil
}

// Delete elimina un movimiento manual. Los enlazados a venta o lote se rechazan con
// ErrLinkedTransaction: se eliminan anulando su origen.
func (uc *CashbookUseCase) Delete(ctx context.Context, businessID, id string) error {
	err := uc.tx.Run(ctx, func(r repository.Repositories) error {
		t, err := r.Transactions.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if t == nil || t.BusinessID != businessID {
			return domain.ErrNotFound
		}
		if t.Linked() {
			return domain.ErrLinkedTransaction
		}
		return r.Transactions.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("business_id", businessID).Str("transaction_id", id).Msg("movimiento eliminado")
	return nil
}

// List movimientos del negocio en orden de fecha.
func (uc *CashbookUseCase) List(ctx context.Context, businessID string, f repository.TransactionFilter) ([]dto.TransactionResponse, error) {
	list, err := uc.repos.Transactions.List(ctx, businessID, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TransactionResponse, 0, len(list))
	for _, t := range list {
		out = append(out, dto.ToTransactionResponse(t))
	}
	return out, nil
}
