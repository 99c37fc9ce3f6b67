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
	"github.com/shopspring/decimal"
)

var _ repository.BatchLedger = (*BatchRepo)(nil)

// BatchRepo libro de lotes sobre PostgreSQL (usable con pool o tx).
// Los consumos concurrentes de un mismo producto se serializan con pg_advisory_xact_lock
// y con SELECT ... FOR UPDATE sobre los lotes disponibles.
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

const batchColumns = `id, business_id, product_name, batch_date, initial_qty, current_qty,
	buy_price, total_cost, class, COALESCE(produced_by_run_id::text, ''), seq, created_at`

func scanBatch(row pgx.Row) (*entity.StockBatch, error) {
	var b entity.StockBatch
	var class string
	err := row.Scan(
		&b.ID, &b.BusinessID, &b.ProductName, &b.Date, &b.InitialQty, &b.CurrentQty,
		&b.BuyPrice, &b.TotalCost, &class, &b.ProducedByRunID, &b.Seq, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.Class = entity.StockClass(class)
	return &b, nil
}

func collectBatches(rows pgx.Rows) ([]*entity.StockBatch, error) {
	defer rows.Close()
	var list []*entity.StockBatch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lote: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// Create inserta el lote. Seq lo asigna la secuencia de la tabla.
func (r *BatchRepo) Create(ctx context.Context, b *entity.StockBatch) error {
	query := `
		INSERT INTO stock_batches (id, business_id, product_name, batch_date, initial_qty, current_qty,
			buy_price, total_cost, class, produced_by_run_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query,
		b.ID, b.BusinessID, b.ProductName, b.Date, b.InitialQty, b.CurrentQty,
		b.BuyPrice, b.TotalCost, string(b.Class), nullableUUID(b.ProducedByRunID), b.CreatedAt,
	).Scan(&b.Seq)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isCheckViolation(err) {
			return fmt.Errorf("crear lote: %w", domain.ErrInvalidInput)
		}
		return fmt.Errorf("crear lote: %w", err)
	}
	return nil
}

// GetByID obtiene un lote. nil, nil si no existe.
func (r *BatchRepo) GetByID(ctx context.Context, id string) (*entity.StockBatch, error) {
	b, err := scanBatch(r.q.QueryRow(ctx, `SELECT `+batchColumns+` FROM stock_batches WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lote: %w", err)
	}
	return b, nil
}

// GetForUpdate obtiene el lote y bloquea la fila (SELECT FOR UPDATE).
func (r *BatchRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockBatch, error) {
	b, err := scanBatch(r.q.QueryRow(ctx, `SELECT `+batchColumns+` FROM stock_batches WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lote for update: %w", err)
	}
	return b, nil
}

// List lotes del negocio en orden FIFO.
func (r *BatchRepo) List(ctx context.Context, businessID string, f repository.BatchFilter) ([]*entity.StockBatch, error) {
	q := psql.Select(batchColumns).
		From("stock_batches").
		Where(squirrel.Eq{"business_id": businessID})
	if f.ProductName != "" {
		q = q.Where(squirrel.Eq{"product_name": f.ProductName})
	}
	if f.Class != "" {
		q = q.Where(squirrel.Eq{"class": string(f.Class)})
	}
	if f.OnlyAvailable {
		q = q.Where(squirrel.Gt{"current_qty": 0})
	}
	sql, args, err := q.OrderBy("batch_date ASC", "seq ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list lotes: %w", err)
	}
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list lotes: %w", err)
	}
	return collectBatches(rows)
}

const availableQuery = `
	SELECT ` + batchColumns + `
	FROM stock_batches
	WHERE business_id = $1 AND product_name = $2 AND class = $3 AND current_qty > 0
	ORDER BY batch_date ASC, seq ASC`

// ListAvailable lotes con remanente en orden FIFO.
func (r *BatchRepo) ListAvailable(ctx context.Context, businessID, productName string, class entity.StockClass) ([]*entity.StockBatch, error) {
	rows, err := r.q.Query(ctx, availableQuery, businessID, productName, string(class))
	if err != nil {
		return nil, fmt.Errorf("list disponibles: %w", err)
	}
	return collectBatches(rows)
}

// LockAvailable toma el advisory lock de (negocio, producto, clase) y bloquea los lotes disponibles.
// Ambos se liberan al terminar la transacción; fuera de una tx el lock no tiene efecto.
func (r *BatchRepo) LockAvailable(ctx context.Context, businessID, productName string, class entity.StockClass) ([]*entity.StockBatch, error) {
	key := businessID + "|" + productName + "|" + string(class)
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key); err != nil {
		return nil, fmt.Errorf("advisory lock %s: %w", productName, err)
	}
	rows, err := r.q.Query(ctx, availableQuery+` FOR UPDATE`, businessID, productName, string(class))
	if err != nil {
		return nil, fmt.Errorf("lock disponibles: %w", err)
	}
	return collectBatches(rows)
}

// TotalAvailable suma del remanente.
func (r *BatchRepo) TotalAvailable(ctx context.Context, businessID, productName string, class entity.StockClass) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(current_qty), 0)
		FROM stock_batches
		WHERE business_id = $1 AND product_name = $2 AND class = $3 AND current_qty > 0`
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, businessID, productName, string(class)).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("total disponible: %w", err)
	}
	return total, nil
}

// Debit descuenta con UPDATE condicional; 0 filas => no existe o no alcanza.
func (r *BatchRepo) Debit(ctx context.Context, id string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("débito negativo en lote %s: %w", id, domain.ErrInvariantViolation)
	}
	tag, err := r.q.Exec(ctx,
		`UPDATE stock_batches SET current_qty = current_qty - $2 WHERE id = $1 AND current_qty >= $2`,
		id, amount)
	if err != nil {
		return fmt.Errorf("debitar lote: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.missingOr(ctx, id, fmt.Errorf("débito %s en lote %s: %w", amount, id, domain.ErrInvariantViolation))
	}
	return nil
}

// Credit acredita sin superar initial_qty.
func (r *BatchRepo) Credit(ctx context.Context, id string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("crédito negativo en lote %s: %w", id, domain.ErrInvariantViolation)
	}
	tag, err := r.q.Exec(ctx,
		`UPDATE stock_batches SET current_qty = current_qty + $2 WHERE id = $1 AND current_qty + $2 <= initial_qty`,
		id, amount)
	if err != nil {
		return fmt.Errorf("acreditar lote: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.missingOr(ctx, id, fmt.Errorf("crédito %s en lote %s: %w", amount, id, domain.ErrInvariantViolation))
	}
	return nil
}

// Remove borra el lote solo si está intacto.
func (r *BatchRepo) Remove(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM stock_batches WHERE id = $1 AND current_qty = initial_qty`, id)
	if err != nil {
		return fmt.Errorf("eliminar lote: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.missingOr(ctx, id, fmt.Errorf("lote %s: %w", id, domain.ErrNotDeletable))
	}
	return nil
}

// missingOr devuelve ErrNotFound si el lote no existe, si no err.
func (r *BatchRepo) missingOr(ctx context.Context, id string, err error) error {
	var exists bool
	if qErr := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM stock_batches WHERE id = $1)`, id).Scan(&exists); qErr != nil {
		return fmt.Errorf("verificar lote: %w", qErr)
	}
	if !exists {
		return fmt.Errorf("lote %s: %w", id, domain.ErrNotFound)
	}
	return err
}
