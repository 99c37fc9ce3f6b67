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

var _ repository.ProductionRepository = (*ProductionRepo)(nil)

// ProductionRepo consumos de materia prima y producciones sobre PostgreSQL.
type ProductionRepo struct {
	q Querier
}

// NewProductionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductionRepository(q Querier) *ProductionRepo {
	return &ProductionRepo{q: q}
}

// ── Consumos ────────────────────────────────────────────────────────────────

const usageColumns = `id, business_id, usage_date, product_name, qty, total_cost, batch_usages, created_at`

func scanUsage(row pgx.Row) (*entity.ProductionUsage, error) {
	var u entity.ProductionUsage
	var usages []byte
	if err := row.Scan(&u.ID, &u.BusinessID, &u.Date, &u.ProductName, &u.Qty, &u.TotalCost, &usages, &u.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(usages, &u.BatchUsages); err != nil {
		return nil, fmt.Errorf("decodificar batch_usages de consumo %s: %w", u.ID, err)
	}
	return &u, nil
}

// CreateUsage inserta el consumo.
func (r *ProductionRepo) CreateUsage(ctx context.Context, u *entity.ProductionUsage) error {
	usages, err := json.Marshal(u.BatchUsages)
	if err != nil {
		return fmt.Errorf("codificar batch_usages: %w", err)
	}
	_, err = r.q.Exec(ctx, `INSERT INTO production_usages (`+usageColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.BusinessID, u.Date, u.ProductName, u.Qty, u.TotalCost, usages, u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("crear consumo: %w", err)
	}
	return nil
}

// GetUsage obtiene un consumo. nil, nil si no existe.
func (r *ProductionRepo) GetUsage(ctx context.Context, id string) (*entity.ProductionUsage, error) {
	u, err := scanUsage(r.q.QueryRow(ctx, `SELECT `+usageColumns+` FROM production_usages WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get consumo: %w", err)
	}
	return u, nil
}

// ListUsages consumos por fecha ascendente.
func (r *ProductionRepo) ListUsages(ctx context.Context, businessID string, from, to *time.Time) ([]*entity.ProductionUsage, error) {
	q := psql.Select(usageColumns).From("production_usages").Where(squirrel.Eq{"business_id": businessID})
	q = whereDateRange(q, "usage_date", from, to)
	sql, args, err := q.OrderBy("usage_date ASC", "created_at ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list consumos: %w", err)
	}
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list consumos: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductionUsage
	for rows.Next() {
		u, err := scanUsage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan consumo: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// DeleteUsage elimina el consumo.
func (r *ProductionRepo) DeleteUsage(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM production_usages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("eliminar consumo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ── Producciones ────────────────────────────────────────────────────────────

const runColumns = `id, business_id, run_date, output_product, output_qty, output_batch_id, ingredients,
	operational_costs, material_cost, total_operation_cost, unit_cost, created_at`

func scanRun(row pgx.Row) (*entity.ProductionRun, error) {
	var run entity.ProductionRun
	var ingredients, opCosts []byte
	if err := row.Scan(&run.ID, &run.BusinessID, &run.Date, &run.OutputProduct, &run.OutputQty, &run.OutputBatchID,
		&ingredients, &opCosts, &run.MaterialCost, &run.TotalOperationCost, &run.UnitCost, &run.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(ingredients, &run.Ingredients); err != nil {
		return nil, fmt.Errorf("decodificar ingredientes de producción %s: %w", run.ID, err)
	}
	if err := json.Unmarshal(opCosts, &run.OperationalCosts); err != nil {
		return nil, fmt.Errorf("decodificar costos operativos de producción %s: %w", run.ID, err)
	}
	return &run, nil
}

// CreateRun inserta la producción. El lote producido se crea antes por BatchRepo.
func (r *ProductionRepo) CreateRun(ctx context.Context, run *entity.ProductionRun) error {
	ingredients, err := json.Marshal(run.Ingredients)
	if err != nil {
		return fmt.Errorf("codificar ingredientes: %w", err)
	}
	opCosts, err := json.Marshal(run.OperationalCosts)
	if err != nil {
		return fmt.Errorf("codificar costos operativos: %w", err)
	}
	_, err = r.q.Exec(ctx, `INSERT INTO production_runs (`+runColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		run.ID, run.BusinessID, run.Date, run.OutputProduct, run.OutputQty, run.OutputBatchID,
		ingredients, opCosts, run.MaterialCost, run.TotalOperationCost, run.UnitCost, run.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("crear producción: %w", err)
	}
	return nil
}

// GetRun obtiene una producción. nil, nil si no existe.
func (r *ProductionRepo) GetRun(ctx context.Context, id string) (*entity.ProductionRun, error) {
	run, err := scanRun(r.q.QueryRow(ctx, `SELECT `+runColumns+` FROM production_runs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get producción: %w", err)
	}
	return run, nil
}

// ListRuns producciones por fecha ascendente.
func (r *ProductionRepo) ListRuns(ctx context.Context, businessID string, from, to *time.Time) ([]*entity.ProductionRun, error) {
	q := psql.Select(runColumns).From("production_runs").Where(squirrel.Eq{"business_id": businessID})
	q = whereDateRange(q, "run_date", from, to)
	sql, args, err := q.OrderBy("run_date ASC", "created_at ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list producciones: %w", err)
	}
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list producciones: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductionRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan producción: %w", err)
		}
		list = append(list, run)
	}
	return list, rows.Err()
}

// DeleteRun elimina la producción.
func (r *ProductionRepo) DeleteRun(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM production_runs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("eliminar producción: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
