package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/cashbook-api/internal/domain"
	"github.com/jhoicas/cashbook-api/internal/domain/entity"
	"github.com/jhoicas/cashbook-api/internal/domain/repository"
)

var _ repository.CashTransactionRepository = (*CashTransactionRepo)(nil)

// CashTransactionRepo libro de caja sobre PostgreSQL.
type CashTransactionRepo struct {
	q Querier
}

// NewCashTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCashTransactionRepository(q Querier) *CashTransactionRepo {
	return &CashTransactionRepo{q: q}
}

const txColumns = `id, business_id, tx_date, amount, description, category, type,
	COALESCE(related_sale_id::text, ''), COALESCE(related_batch_id::text, ''), created_at`

func scanTransaction(row pgx.Row) (*entity.CashTransaction, error) {
	var t entity.CashTransaction
	var category, typ string
	if err := row.Scan(&t.ID, &t.BusinessID, &t.Date, &t.Amount, &t.Description, &category, &typ,
		&t.RelatedSaleID, &t.RelatedBatchID, &t.CreatedAt); err != nil {
		return nil, err
	}
	t.Category = entity.TransactionCategory(category)
	t.Type = entity.TransactionType(typ)
	return &t, nil
}

// Create inserta el movimiento.
func (r *CashTransactionRepo) Create(ctx context.Context, t *entity.CashTransaction) error {
	query := `
		INSERT INTO cash_transactions (id, business_id, tx_date, amount, description, category, type,
			related_sale_id, related_batch_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query, t.ID, t.BusinessID, t.Date, t.Amount, t.Description,
		string(t.Category), string(t.Type), nullableUUID(t.RelatedSaleID), nullableUUID(t.RelatedBatchID), t.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isCheckViolation(err) {
			return fmt.Errorf("crear movimiento: %w", domain.ErrInvalidInput)
		}
		return fmt.Errorf("crear movimiento: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento. nil, nil si no existe.
func (r *CashTransactionRepo) GetByID(ctx context.Context, id string) (*entity.CashTransaction, error) {
	t, err := scanTransaction(r.q.QueryRow(ctx, `SELECT `+txColumns+` FROM cash_transactions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movimiento: %w", err)
	}
	return t, nil
}

// List movimientos filtrados, por fecha ascendente.
func (r *CashTransactionRepo) List(ctx context.Context, businessID string, f repository.TransactionFilter) ([]*entity.CashTransaction, error) {
	q := psql.Select(txColumns).From("cash_transactions").Where(squirrel.Eq{"business_id": businessID})
	q = whereDateRange(q, "tx_date", f.From, f.To)
	if f.Category != "" {
		q = q.Where(squirrel.Eq{"category": string(f.Category)})
	}
	if f.Type != "" {
		q = q.Where(squirrel.Eq{"type": string(f.Type)})
	}
	sql, args, err := q.OrderBy("tx_date ASC", "created_at ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list movimientos: %w", err)
	}
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list movimientos: %w", err)
	}
	defer rows.Close()
	var list []*entity.CashTransaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movimiento: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// Delete elimina un movimiento.
func (r *CashTransactionRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM cash_transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("eliminar movimiento: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteBySale elimina los movimientos enlazados a la venta (puede no haber ninguno).
func (r *CashTransactionRepo) DeleteBySale(ctx context.Context, saleID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM cash_transactions WHERE related_sale_id = $1`, saleID); err != nil {
		return fmt.Errorf("eliminar movimientos de venta: %w", err)
	}
	return nil
}

// DeleteByBatch elimina los movimientos enlazados al lote (puede no haber ninguno).
func (r *CashTransactionRepo) DeleteByBatch(ctx context.Context, batchID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM cash_transactions WHERE related_batch_id = $1`, batchID); err != nil {
		return fmt.Errorf("eliminar movimientos de lote: %w", err)
	}
	return nil
}
