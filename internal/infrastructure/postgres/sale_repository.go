package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/cashbook-api/internal/domain"
	"github.com/jhoicas/cashbook-api/internal/domain/entity"
	"github.com/jhoicas/cashbook-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas sobre PostgreSQL. La asignación FIFO se guarda en batch_usages (JSONB).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, business_id, sale_date, product_name, qty, sell_price, total_revenue, total_cogs, batch_usages, created_at`

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var usages []byte
	if err := row.Scan(&s.ID, &s.BusinessID, &s.Date, &s.ProductName, &s.Qty, &s.SellPrice,
		&s.TotalRevenue, &s.TotalCOGS, &usages, &s.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(usages, &s.BatchUsages); err != nil {
		return nil, fmt.Errorf("decodificar batch_usages de venta %s: %w", s.ID, err)
	}
	return &s, nil
}

// Create inserta la venta.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	usages, err := json.Marshal(s.BatchUsages)
	if err != nil {
		return fmt.Errorf("codificar batch_usages: %w", err)
	}
	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err = r.q.Exec(ctx, query, s.ID, s.BusinessID, s.Date, s.ProductName, s.Qty, s.SellPrice,
		s.TotalRevenue, s.TotalCOGS, usages, s.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("crear venta: %w", err)
	}
	return nil
}

// GetByID obtiene una venta. nil, nil si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get venta: %w", err)
	}
	return s, nil
}

// List ventas del negocio por fecha ascendente.
func (r *SaleRepo) List(ctx context.Context, businessID string, from, to *time.Time) ([]*entity.Sale, error) {
	q := psql.Select(saleColumns).From("sales").Where(squirrel.Eq{"business_id": businessID})
	q = whereDateRange(q, "sale_date", from, to)
	sql, args, err := q.OrderBy("sale_date ASC", "created_at ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list ventas: %w", err)
	}
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list ventas: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan venta: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Delete elimina la venta.
func (r *SaleRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("eliminar venta: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// whereDateRange agrega from <= col <= to cuando vienen definidos.
func whereDateRange(q squirrel.SelectBuilder, col string, from, to *time.Time) squirrel.SelectBuilder {
	if from != nil {
		q = q.Where(squirrel.GtOrEq{col: *from})
	}
	if to != nil {
		q = q.Where(squirrel.LtOrEq{col: *to})
	}
	return q
}
