// Package sales registra ventas costeadas por FIFO y su entrada de caja.
package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/cashbook-api/internal/application/dto"
	"github.com/jhoicas/cashbook-api/internal/application/inventory"
	"github.com/jhoicas/cashbook-api/internal/domain"
	"github.com/jhoicas/cashbook-api/internal/domain/entity"
	"github.com/jhoicas/cashbook-api/internal/domain/repository"
	"github.com/jhoicas/cashbook-api/pkg/logger"
)

// SaleUseCase casos de uso de ventas.
type SaleUseCase struct {
	tx        inventory.TxRunner
	repos     repository.Repositories
	allocator *inventory.ConsumptionAllocator
	log       *logger.Logger
	now       func() time.Time
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(tx inventory.TxRunner, repos repository.Repositories, allocator *inventory.ConsumptionAllocator, log *logger.Logger) *SaleUseCase {
	return &SaleUseCase{tx: tx, repos: repos, allocator: allocator, log: log.Component("sales"), now: dto.NowUTC}
}

// InLocation fija la zona en que se interpretan las fechas sin hora.
func (uc *SaleUseCase) InLocation(loc *time.Location) *SaleUseCase {
	uc.now = func() time.Time { return time.Now().In(loc) }
	return uc
}

// Create consume stock for_sale en FIFO, guarda la venta con su asignación y registra
// el ingreso en caja. Si falta stock no se modifica nada.
func (uc *SaleUseCase) Create(ctx context.Context, businessID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if in.ProductName == "" || !in.Quantity.IsPositive() || in.SellPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	date, err := dto.ParseDate(in.Date, uc.now())
	if err != nil {
		return nil, err
	}

	sale := &entity.Sale{
		ID:           uuid.New().String(),
		BusinessID:   businessID,
		Date:         date,
		ProductName:  in.ProductName,
		Qty:          in.Quantity,
		SellPrice:    in.SellPrice,
		TotalRevenue: in.Quantity.Mul(in.SellPrice),
		CreatedAt:    uc.now(),
	}

	err = uc.tx.Run(ctx, func(r repository.Repositories) error {
		res, err := uc.allocator.Allocate(ctx, r.Batches, businessID, in.ProductName, entity.StockClassForSale, in.Quantity)
		if err != nil {
			return err
		}
		sale.BatchUsages = res.Allocations
		sale.TotalCOGS = res.TotalCost
		if err := r.Sales.Create(ctx, sale); err != nil {
			return fmt.Errorf("guardar venta: %w", err)
		}
		if !sale.TotalRevenue.IsPositive() {
			return nil
		}
		cash := &entity.CashTransaction{
			ID:            uuid.New().String(),
			BusinessID:    businessID,
			Date:          sale.Date,
			Amount:        sale.TotalRevenue,
			Description:   fmt.Sprintf("Venta: %s (%s unidades)", sale.ProductName, sale.Qty),
			Category:      entity.CategorySale,
			Type:          entity.TransactionIN,
			RelatedSaleID: sale.ID,
			CreatedAt:     sale.CreatedAt,
		}
		if err := r.Transactions.Create(ctx, cash); err != nil {
			return fmt.Errorf("registrar venta en caja: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("business_id", businessID).
		Str("sale_id", sale.ID).
		Str("revenue", sale.TotalRevenue.String()).
		Str("cogs", sale.TotalCOGS.String()).
		Msg("venta registrada")
	out := dto.ToSaleResponse(sale)
	return &out, nil
}

// Delete anula la venta: devuelve las cantidades a sus lotes y borra el ingreso enlazado.
func (uc *SaleUseCase) Delete(ctx context.Context, businessID, id string) error {
	return uc.tx.Run(ctx, func(r repository.Repositories) error {
		sale, err := r.Sales.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if sale == nil || sale.BusinessID != businessID {
			return domain.ErrNotFound
		}
		if err := uc.allocator.Reverse(ctx, r.Batches, sale.BatchUsages); err != nil {
			return err
		}
		if err := r.Transactions.DeleteBySale(ctx, id); err != nil {
			return fmt.Errorf("eliminar ingreso de la venta: %w", err)
		}
		return r.Sales.Delete(ctx, id)
	})
}

// Get obtiene una venta. nil, nil si no existe.
func (uc *SaleUseCase) Get(ctx context.Context, businessID, id string) (*dto.SaleResponse, error) {
	sale, err := uc.repos.Sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil || sale.BusinessID != businessID {
		return nil, nil
	}
	out := dto.ToSaleResponse(sale)
	return &out, nil
}

// List ventas del negocio, opcionalmente acotadas por fecha.
func (uc *SaleUseCase) List(ctx context.Context, businessID string, from, to *time.Time) ([]dto.SaleResponse, error) {
	list, err := uc.repos.Sales.List(ctx, businessID, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.ToSaleResponse(s))
	}
	return out, nil
}
