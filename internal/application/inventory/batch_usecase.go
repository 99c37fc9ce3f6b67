package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/cashbook-api/internal/application/dto"
	"github.com/jhoicas/cashbook-api/internal/domain"
	"github.com/jhoicas/cashbook-api/internal/domain/entity"
	domaininv "github.com/jhoicas/cashbook-api/internal/domain/inventory"
	"github.com/jhoicas/cashbook-api/internal/domain/repository"
	"github.com/jhoicas/cashbook-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// BatchUseCase ingreso, consulta y eliminación de lotes de stock.
// Las escrituras pasan por TxRunner; las lecturas usan repos (pool o store compartido).
type BatchUseCase struct {
	tx      TxRunner
	repos   repository.Repositories
	metrics Metrics
	log     *logger.Logger
	now     func() time.Time
}

// NewBatchUseCase construye el caso de uso.
func NewBatchUseCase(tx TxRunner, repos repository.Repositories, metrics Metrics, log *logger.Logger) *BatchUseCase {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &BatchUseCase{tx: tx, repos: repos, metrics: metrics, log: log.Component("batches"), now: dto.NowUTC}
}

// InLocation fija la zona en que se interpretan las fechas sin hora.
func (uc *BatchUseCase) InLocation(loc *time.Location) *BatchUseCase {
	uc.now = func() time.Time { return time.Now().In(loc) }
	return uc
}

// Create registra un lote nuevo. Salvo SkipCashEntry, la compra queda en caja como
// salida stock_purchase enlazada al lote, en la misma transacción.
func (uc *BatchUseCase) Create(ctx context.Context, businessID string, in dto.CreateBatchRequest) (*dto.BatchResponse, error) {
	class, err := entity.ParseStockClass(in.Class)
	if err != nil {
		return nil, err
	}
	date, err := dto.ParseDate(in.Date, uc.now())
	if err != nil {
		return nil, err
	}
	if !in.Quantity.IsPositive() {
		return nil, fmt.Errorf("cantidad %s: %w", in.Quantity, domain.ErrInvalidInput)
	}
	unitPrice, err := resolveUnitPrice(in)
	if err != nil {
		return nil, err
	}

	batch, err := entity.NewStockBatch(uuid.New().String(), businessID, in.ProductName, date, in.Quantity, unitPrice, class)
	if err != nil {
		return nil, err
	}

	err = uc.tx.Run(ctx, func(r repository.Repositories) error {
		if err := r.Batches.Create(ctx, batch); err != nil {
			return fmt.Errorf("crear lote: %w", err)
		}
		if in.SkipCashEntry || !batch.TotalCost.IsPositive() {
			return nil
		}
		cash := &entity.CashTransaction{
			ID:             uuid.New().String(),
			BusinessID:     businessID,
			Date:           batch.Date,
			Amount:         batch.TotalCost,
			Description:    fmt.Sprintf("Compra de stock: %s (%s unidades)", batch.ProductName, batch.InitialQty),
			Category:       entity.CategoryStockPurchase,
			Type:           entity.TransactionOUT,
			RelatedBatchID: batch.ID,
			CreatedAt:      uc.now(),
		}
		if err := r.Transactions.Create(ctx, cash); err != nil {
			return fmt.Errorf("registrar compra en caja: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("business_id", businessID).
		Str("batch_id", batch.ID).
		Str("product", batch.ProductName).
		Str("qty", batch.InitialQty.String()).
		Msg("lote registrado")
	out := dto.ToBatchResponse(batch)
	return &out, nil
}

// resolveUnitPrice unit_price tiene prioridad; si no, total_paid / quantity.
func resolveUnitPrice(in dto.CreateBatchRequest) (decimal.Decimal, error) {
	switch {
	case in.UnitPrice != nil:
		if in.UnitPrice.IsNegative() {
			return decimal.Zero, fmt.Errorf("precio unitario negativo: %w", domain.ErrInvalidInput)
		}
		return *in.UnitPrice, nil
	case in.TotalPaid != nil:
		if in.TotalPaid.IsNegative() {
			return decimal.Zero, fmt.Errorf("total pagado negativo: %w", domain.ErrInvalidInput)
		}
		return in.TotalPaid.Div(in.Quantity), nil
	}
	return decimal.Zero, fmt.Errorf("se requiere unit_price o total_paid: %w", domain.ErrInvalidInput)
}

// Remove elimina un lote intacto junto con su salida de caja.
// Los lotes producidos se eliminan borrando la producción que los originó.
func (uc *BatchUseCase) Remove(ctx context.Context, businessID, id string) error {
	return uc.tx.Run(ctx, func(r repository.Repositories) error {
		batch, err := r.Batches.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if batch == nil || batch.BusinessID != businessID {
			return domain.ErrNotFound
		}
		if batch.ProducedByRunID != "" {
			uc.metrics.ObserveRejection(RejectNotDeletable)
			return fmt.Errorf("lote %s pertenece a la producción %s: %w", id, batch.ProducedByRunID, domain.ErrNotDeletable)
		}
		if !batch.Deletable() {
			uc.metrics.ObserveRejection(RejectNotDeletable)
			return fmt.Errorf("lote %s ya fue consumido: %w", id, domain.ErrNotDeletable)
		}
		// Primero la salida de caja: referencia al lote.
		if err := r.Transactions.DeleteByBatch(ctx, id); err != nil {
			return fmt.Errorf("eliminar compra en caja: %w", err)
		}
		if err := r.Batches.Remove(ctx, id); err != nil {
			if errors.Is(err, domain.ErrNotDeletable) {
				uc.metrics.ObserveRejection(RejectNotDeletable)
			}
			return err
		}
		return nil
	})
}

// Get obtiene un lote del negocio. nil, nil si no existe.
func (uc *BatchUseCase) Get(ctx context.Context, businessID, id string) (*dto.BatchResponse, error) {
	batch, err := uc.repos.Batches.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if batch == nil || batch.BusinessID != businessID {
		return nil, nil
	}
	out := dto.ToBatchResponse(batch)
	return &out, nil
}

// List lista los lotes del negocio con filtros opcionales.
func (uc *BatchUseCase) List(ctx context.Context, businessID, productName, class string, onlyAvailable bool) ([]dto.BatchResponse, error) {
	f := repository.BatchFilter{ProductName: productName, OnlyAvailable: onlyAvailable}
	if class != "" {
		c, err := entity.ParseStockClass(class)
		if err != nil {
			return nil, err
		}
		f.Class = c
	}
	list, err := uc.repos.Batches.List(ctx, businessID, f)
	if err != nil {
		return nil, err
	}
	return dto.ToBatchResponses(list), nil
}

// ListAvailable lotes con remanente de (producto, clasificación) en orden FIFO.
func (uc *BatchUseCase) ListAvailable(ctx context.Context, businessID, productName, class string) ([]dto.BatchResponse, error) {
	c, err := entity.ParseStockClass(class)
	if err != nil {
		return nil, err
	}
	if productName == "" {
		return nil, fmt.Errorf("producto requerido: %w", domain.ErrInvalidInput)
	}
	list, err := uc.repos.Batches.ListAvailable(ctx, businessID, productName, c)
	if err != nil {
		return nil, err
	}
	return dto.ToBatchResponses(list), nil
}

// TotalAvailable cantidad total consumible de (producto, clasificación).
func (uc *BatchUseCase) TotalAvailable(ctx context.Context, businessID, productName, class string) (*dto.AvailabilityResponse, error) {
	c, err := entity.ParseStockClass(class)
	if err != nil {
		return nil, err
	}
	if productName == "" {
		return nil, fmt.Errorf("producto requerido: %w", domain.ErrInvalidInput)
	}
	total, err := uc.repos.Batches.TotalAvailable(ctx, businessID, productName, c)
	if err != nil {
		return nil, err
	}
	return &dto.AvailabilityResponse{ProductName: productName, Class: string(c), Available: total}, nil
}

// OnHand resume existencias por producto y clasificación, con el próximo lote FIFO.
func (uc *BatchUseCase) OnHand(ctx context.Context, businessID string) ([]dto.OnHandProductDTO, error) {
	list, err := uc.repos.Batches.List(ctx, businessID, repository.BatchFilter{OnlyAvailable: true})
	if err != nil {
		return nil, err
	}
	return SummarizeOnHand(list), nil
}

type productKey struct {
	name  string
	class entity.StockClass
}

// SummarizeOnHand agrupa los lotes con remanente por (producto, clasificación).
// El resultado va ordenado por nombre de producto y luego clasificación.
func SummarizeOnHand(batches []*entity.StockBatch) []dto.OnHandProductDTO {
	groups := make(map[productKey][]*entity.StockBatch)
	for _, b := range batches {
		if !b.CurrentQty.IsPositive() {
			continue
		}
		k := productKey{b.ProductName, b.Class}
		groups[k] = append(groups[k], b)
	}

	out := make([]dto.OnHandProductDTO, 0, len(groups))
	for k, bs := range groups {
		domaininv.SortFIFO(bs)
		item := dto.OnHandProductDTO{
			ProductName:   k.name,
			Class:         string(k.class),
			TotalQty:      decimal.Zero,
			TotalValue:    decimal.Zero,
			BatchCount:    len(bs),
			NextBatchID:   bs[0].ID,
			NextBatchDate: bs[0].Date.Format(dto.DateLayout),
			NextBuyPrice:  bs[0].BuyPrice,
		}
		for _, b := range bs {
			item.TotalQty = item.TotalQty.Add(b.CurrentQty)
			item.TotalValue = item.TotalValue.Add(b.OnHandValue())
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductName != out[j].ProductName {
			return out[i].ProductName < out[j].ProductName
		}
		return out[i].Class < out[j].Class
	})
	return out
}
