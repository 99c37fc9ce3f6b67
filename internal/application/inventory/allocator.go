package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/cashbook-api/internal/domain"
	"github.com/jhoicas/cashbook-api/internal/domain/entity"
	domaininv "github.com/jhoicas/cashbook-api/internal/domain/inventory"
	"github.com/jhoicas/cashbook-api/internal/domain/repository"
	"github.com/jhoicas/cashbook-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// Motivos de rechazo reportados a Metrics.
const (
	RejectInsufficientStock  = "insufficient_stock"
	RejectInvariantViolation = "invariant_violation"
	RejectDanglingAllocation = "dangling_allocation"
	RejectNotDeletable       = "not_deletable"
)

// ConsumptionAllocator traduce "consumir N unidades de P" en un plan FIFO, lo aplica al
// libro de lotes y revierte asignaciones guardadas.
//
// Debe llamarse dentro de TxRunner.Run con el BatchLedger de esa transacción: el bloqueo
// de LockAvailable y los débitos se confirman juntos.
type ConsumptionAllocator struct {
	metrics Metrics
	log     *logger.Logger
}

// NewConsumptionAllocator construye el asignador. metrics y log pueden ser nil.
func NewConsumptionAllocator(metrics Metrics, log *logger.Logger) *ConsumptionAllocator {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ConsumptionAllocator{metrics: metrics, log: log.Component("allocator")}
}

// Allocate bloquea los lotes disponibles, verifica suficiencia antes de tocar cualquier lote,
// debita en orden FIFO y devuelve las líneas con su costo.
// qty == 0 devuelve una asignación vacía sin tocar el libro.
func (a *ConsumptionAllocator) Allocate(
	ctx context.Context,
	ledger repository.BatchLedger,
	businessID, productName string,
	class entity.StockClass,
	qty decimal.Decimal,
) (*entity.AllocationResult, error) {
	if productName == "" || !class.Valid() || qty.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	result := &entity.AllocationResult{
		ProductName: productName,
		Class:       class,
		Allocations: entity.Allocations{},
		TotalCost:   decimal.Zero,
	}
	if qty.IsZero() {
		return result, nil
	}

	batches, err := ledger.LockAvailable(ctx, businessID, productName, class)
	if err != nil {
		return nil, fmt.Errorf("bloquear lotes de %s: %w", productName, err)
	}

	plan, err := domaininv.PlanFIFO(batches, qty)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			a.metrics.ObserveRejection(RejectInsufficientStock)
			a.log.Info().
				Str("business_id", businessID).
				Str("product", productName).
				Str("class", string(class)).
				Str("requested", qty.String()).
				Msg("consumo rechazado por stock insuficiente")
		}
		return nil, err
	}

	for _, line := range plan {
		if err := ledger.Debit(ctx, line.BatchID, line.QtyUsed); err != nil {
			if errors.Is(err, domain.ErrInvariantViolation) {
				a.metrics.ObserveRejection(RejectInvariantViolation)
				a.log.Error().Err(err).Str("batch_id", line.BatchID).Msg("débito viola invariante")
			}
			return nil, fmt.Errorf("debitar lote %s: %w", line.BatchID, err)
		}
	}

	result.Allocations = plan
	result.TotalCost = plan.TotalCost()
	a.metrics.ObserveAllocation(class, qty, result.TotalCost)
	a.log.Debug().
		Str("business_id", businessID).
		Str("product", productName).
		Int("lines", len(plan)).
		Str("qty", qty.String()).
		Str("cost", result.TotalCost.String()).
		Msg("asignación FIFO aplicada")
	return result, nil
}

// Reverse devuelve a cada lote lo que la asignación le tomó. Primero valida todas las líneas
// (lote existente y crédito dentro de InitialQty) y solo entonces acredita: un lote faltante
// produce ErrDanglingAllocation sin acreditar nada.
func (a *ConsumptionAllocator) Reverse(ctx context.Context, ledger repository.BatchLedger, allocations entity.Allocations) error {
	if len(allocations) == 0 {
		return nil
	}

	perBatch := allocations.QtyByBatch()
	checked := make(map[string]bool, len(perBatch))
	for _, line := range allocations {
		if checked[line.BatchID] {
			continue
		}
		checked[line.BatchID] = true
		if line.QtyUsed.IsNegative() {
			return fmt.Errorf("línea con cantidad negativa en lote %s: %w", line.BatchID, domain.ErrInvariantViolation)
		}
		batch, err := ledger.GetForUpdate(ctx, line.BatchID)
		if err != nil {
			return fmt.Errorf("leer lote %s: %w", line.BatchID, err)
		}
		if batch == nil {
			a.metrics.ObserveRejection(RejectDanglingAllocation)
			a.log.Error().Str("batch_id", line.BatchID).Msg("reversión referencia un lote inexistente")
			return fmt.Errorf("lote %s: %w", line.BatchID, domain.ErrDanglingAllocation)
		}
		if batch.CurrentQty.Add(perBatch[line.BatchID]).GreaterThan(batch.InitialQty) {
			a.metrics.ObserveRejection(RejectInvariantViolation)
			a.log.Error().Str("batch_id", line.BatchID).Msg("reversión supera la cantidad inicial del lote")
			return fmt.Errorf("reversión de %s en lote %s: %w", perBatch[line.BatchID], line.BatchID, domain.ErrInvariantViolation)
		}
	}

	// Se acredita en orden inverso al de aplicación.
	for i := len(allocations) - 1; i >= 0; i-- {
		line := allocations[i]
		if err := ledger.Credit(ctx, line.BatchID, line.QtyUsed); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("lote %s: %w", line.BatchID, domain.ErrDanglingAllocation)
			}
			return fmt.Errorf("acreditar lote %s: %w", line.BatchID, err)
		}
	}

	a.metrics.ObserveReversal(len(allocations), allocations.TotalQty())
	return nil
}
