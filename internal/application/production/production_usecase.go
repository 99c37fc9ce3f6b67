// Package production consume materia prima (for_production) y genera lotes producidos.
package production

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/cashbook-api/internal/application/dto"
	"github.com/jhoicas/cashbook-api/internal/application/inventory"
	"github.com/jhoicas/cashbook-api/internal/domain"
	"github.com/jhoicas/cashbook-api/internal/domain/entity"
	domaininv "github.com/jhoicas/cashbook-api/internal/domain/inventory"
	"github.com/jhoicas/cashbook-api/internal/domain/repository"
	"github.com/jhoicas/cashbook-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// ProductionUseCase consumos de materia prima y producciones.
type ProductionUseCase struct {
	tx        inventory.TxRunner
	repos     repository.Repositories
	allocator *inventory.ConsumptionAllocator
	log       *logger.Logger
	now       func() time.Time
}

// NewProductionUseCase construye el caso de uso.
func NewProductionUseCase(tx inventory.TxRunner, repos repository.Repositories, allocator *inventory.ConsumptionAllocator, log *logger.Logger) *ProductionUseCase {
	return &ProductionUseCase{tx: tx, repos: repos, allocator: allocator, log: log.Component("production"), now: dto.NowUTC}
}

// InLocation fija la zona en que se interpretan las fechas sin hora.
func (uc *ProductionUseCase) InLocation(loc *time.Location) *ProductionUseCase {
	uc.now = func() time.Time { return time.Now().In(loc) }
	return uc
}

// ── Consumos de materia prima ───────────────────────────────────────────────

// CreateUsage registra el uso de materia prima. Su costo FIFO entra al reporte como gasto
// no monetario; no genera movimiento de caja.
func (uc *ProductionUseCase) CreateUsage(ctx context.Context, businessID string, in dto.CreateProductionUsageRequest) (*dto.ProductionUsageResponse, error) {
	if strings.TrimSpace(in.ProductName) == "" || !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	date, err := dto.ParseDate(in.Date, uc.now())
	if err != nil {
		return nil, err
	}
	usage := &entity.ProductionUsage{
		ID:          uuid.New().String(),
		BusinessID:  businessID,
		Date:        date,
		ProductName: in.ProductName,
		Qty:         in.Quantity,
		CreatedAt:   uc.now(),
	}
	err = uc.tx.Run(ctx, func(r repository.Repositories) error {
		res, err := uc.allocator.Allocate(ctx, r.Batches, businessID, in.ProductName, entity.StockClassForProduction, in.Quantity)
		if err != nil {
			return err
		}
		usage.BatchUsages = res.Allocations
		usage.TotalCost = res.TotalCost
		return r.Productions.CreateUsage(ctx, usage)
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToProductionUsageResponse(usage)
	return &out, nil
}

// DeleteUsage revierte el consumo y lo elimina.
func (uc *ProductionUseCase) DeleteUsage(ctx context.Context, businessID, id string) error {
	return uc.tx.Run(ctx, func(r repository.Repositories) error {
		usage, err := r.Productions.GetUsage(ctx, id)
		if err != nil {
			return err
		}
		if usage == nil || usage.BusinessID != businessID {
			return domain.ErrNotFound
		}
		if err := uc.allocator.Reverse(ctx, r.Batches, usage.BatchUsages); err != nil {
			return err
		}
		return r.Productions.DeleteUsage(ctx, id)
	})
}

// ListUsages consumos del negocio, opcionalmente acotados por fecha.
func (uc *ProductionUseCase) ListUsages(ctx context.Context, businessID string, from, to *time.Time) ([]dto.ProductionUsageResponse, error) {
	list, err := uc.repos.Productions.ListUsages(ctx, businessID, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductionUsageResponse, 0, len(list))
	for _, u := range list {
		out = append(out, dto.ToProductionUsageResponse(u))
	}
	return out, nil
}

// ── Producciones ────────────────────────────────────────────────────────────

// CreateRun consume los ingredientes en FIFO y crea el lote producido (for_sale) con
// costo unitario (materiales + costos operativos) / cantidad producida.
// Los costos operativos se capitalizan en el lote; no generan salida de caja.
func (uc *ProductionUseCase) CreateRun(ctx context.Context, businessID string, in dto.CreateProductionRunRequest) (*dto.ProductionRunResponse, error) {
	if strings.TrimSpace(in.OutputProduct) == "" || !in.OutputQuantity.IsPositive() || len(in.Ingredients) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, ing := range in.Ingredients {
		if strings.TrimSpace(ing.ProductName) == "" || !ing.Quantity.IsPositive() {
			return nil, fmt.Errorf("ingrediente %q: %w", ing.ProductName, domain.ErrInvalidInput)
		}
	}
	date, err := dto.ParseDate(in.Date, uc.now())
	if err != nil {
		return nil, err
	}

	run := &entity.ProductionRun{
		ID:                 uuid.New().String(),
		BusinessID:         businessID,
		Date:               date,
		OutputProduct:      strings.TrimSpace(in.OutputProduct),
		OutputQty:          in.OutputQuantity,
		MaterialCost:       decimal.Zero,
		TotalOperationCost: decimal.Zero,
		CreatedAt:          uc.now(),
	}
	for _, op := range in.OperationalCosts {
		if op.Amount.IsNegative() {
			return nil, fmt.Errorf("costo operativo %q: %w", op.Name, domain.ErrInvalidInput)
		}
		run.OperationalCosts = append(run.OperationalCosts, entity.OperationalCost{Name: op.Name, Amount: op.Amount})
		run.TotalOperationCost = run.TotalOperationCost.Add(op.Amount)
	}

	var output *entity.StockBatch
	err = uc.tx.Run(ctx, func(r repository.Repositories) error {
		run.Ingredients = make([]entity.IngredientUsage, len(in.Ingredients))
		run.MaterialCost = decimal.Zero
		// Los locks por producto se toman en orden de nombre; el registro conserva el orden recibido.
		for _, i := range lockOrder(in.Ingredients) {
			ing := in.Ingredients[i]
			res, err := uc.allocator.Allocate(ctx, r.Batches, businessID, ing.ProductName, entity.StockClassForProduction, ing.Quantity)
			if err != nil {
				return fmt.Errorf("ingrediente %s: %w", ing.ProductName, err)
			}
			run.Ingredients[i] = entity.IngredientUsage{
				ProductName: ing.ProductName,
				Qty:         ing.Quantity,
				TotalCost:   res.TotalCost,
				BatchUsages: res.Allocations,
			}
			run.MaterialCost = run.MaterialCost.Add(res.TotalCost)
		}
		run.UnitCost = domaininv.ProductionUnitCost(run.MaterialCost, run.TotalOperationCost, run.OutputQty)

		b, err := entity.NewStockBatch(uuid.New().String(), businessID, run.OutputProduct, run.Date, run.OutputQty, run.UnitCost, entity.StockClassForSale)
		if err != nil {
			return err
		}
		b.ProducedByRunID = run.ID
		if err := r.Batches.Create(ctx, b); err != nil {
			return fmt.Errorf("crear lote producido: %w", err)
		}
		run.OutputBatchID = b.ID
		output = b
		return r.Productions.CreateRun(ctx, run)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("business_id", businessID).
		Str("run_id", run.ID).
		Str("output_batch_id", output.ID).
		Str("unit_cost", run.UnitCost.String()).
		Msg("producción registrada")
	out := dto.ToProductionRunResponse(run)
	return &out, nil
}

// DeleteRun anula una producción: exige que el lote producido siga intacto, lo elimina y
// devuelve los ingredientes a sus lotes.
func (uc *ProductionUseCase) DeleteRun(ctx context.Context, businessID, id string) error {
	return uc.tx.Run(ctx, func(r repository.Repositories) error {
		run, err := r.Productions.GetRun(ctx, id)
		if err != nil {
			return err
		}
		if run == nil || run.BusinessID != businessID {
			return domain.ErrNotFound
		}
		output, err := r.Batches.GetForUpdate(ctx, run.OutputBatchID)
		if err != nil {
			return err
		}
		if output == nil {
			return fmt.Errorf("lote producido %s no existe: %w", run.OutputBatchID, domain.ErrDanglingAllocation)
		}
		if !output.Deletable() {
			return fmt.Errorf("lote producido %s ya fue consumido: %w", output.ID, domain.ErrNotDeletable)
		}
		if err := r.Batches.Remove(ctx, output.ID); err != nil {
			return err
		}
		if err := uc.allocator.Reverse(ctx, r.Batches, run.AllAllocations()); err != nil {
			return err
		}
		return r.Productions.DeleteRun(ctx, id)
	})
}

// ListRuns producciones del negocio, opcionalmente acotadas por fecha.
func (uc *ProductionUseCase) ListRuns(ctx context.Context, businessID string, from, to *time.Time) ([]dto.ProductionRunResponse, error) {
	list, err := uc.repos.Productions.ListRuns(ctx, businessID, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductionRunResponse, 0, len(list))
	for _, run := range list {
		out = append(out, dto.ToProductionRunResponse(run))
	}
	return out, nil
}

// lockOrder índices de ingredientes ordenados por nombre de producto.
func lockOrder(ings []dto.IngredientRequest) []int {
	idx := make([]int, len(ings))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return ings[idx[a]].ProductName < ings[idx[b]].ProductName
	})
	return idx
}
