package dto

import (
	"time"

	"github.com/jhoicas/cashbook-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	Date        string          `json:"date"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	SellPrice   decimal.Decimal `json:"sell_price"`
}

// SaleResponse venta con su costo FIFO.
type SaleResponse struct {
	ID           string          `json:"id"`
	Date         string          `json:"date"`
	ProductName  string          `json:"product_name"`
	Quantity     decimal.Decimal `json:"quantity"`
	SellPrice    decimal.Decimal `json:"sell_price"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalCOGS    decimal.Decimal `json:"total_cogs"`
	GrossProfit  decimal.Decimal `json:"gross_profit"`
	BatchUsages  []AllocationDTO `json:"batch_usages"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ToSaleResponse mapea la entidad.
func ToSaleResponse(s *entity.Sale) SaleResponse {
	return SaleResponse{
		ID:           s.ID,
		Date:         s.Date.Format(DateLayout),
		ProductName:  s.ProductName,
		Quantity:     s.Qty,
		SellPrice:    s.SellPrice,
		TotalRevenue: s.TotalRevenue,
		TotalCOGS:    s.TotalCOGS,
		GrossProfit:  s.GrossProfit(),
		BatchUsages:  ToAllocationDTOs(s.BatchUsages),
		CreatedAt:    s.CreatedAt,
	}
}

// CreateProductionUsageRequest body para POST /api/production/usages.
type CreateProductionUsageRequest struct {
	Date        string          `json:"date"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// ProductionUsageResponse consumo de materia prima.
type ProductionUsageResponse struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	BatchUsages []AllocationDTO `json:"batch_usages"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToProductionUsageResponse mapea la entidad.
func ToProductionUsageResponse(u *entity.ProductionUsage) ProductionUsageResponse {
	return ProductionUsageResponse{
		ID:          u.ID,
		Date:        u.Date.Format(DateLayout),
		ProductName: u.ProductName,
		Quantity:    u.Qty,
		TotalCost:   u.TotalCost,
		BatchUsages: ToAllocationDTOs(u.BatchUsages),
		CreatedAt:   u.CreatedAt,
	}
}

// IngredientRequest materia prima de una producción.
type IngredientRequest struct {
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// OperationalCostRequest costo operativo de una producción.
type OperationalCostRequest struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// CreateProductionRunRequest body para POST /api/production/runs.
type CreateProductionRunRequest struct {
	Date             string                   `json:"date"`
	OutputProduct    string                   `json:"output_product"`
	OutputQuantity   decimal.Decimal          `json:"output_quantity"`
	Ingredients      []IngredientRequest      `json:"ingredients"`
	OperationalCosts []OperationalCostRequest `json:"operational_costs"`
}

// IngredientResponse ingrediente consumido con su asignación.
type IngredientResponse struct {
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	BatchUsages []AllocationDTO `json:"batch_usages"`
}

// ProductionRunResponse producción con el lote resultante.
type ProductionRunResponse struct {
	ID                 string                   `json:"id"`
	Date               string                   `json:"date"`
	OutputProduct      string                   `json:"output_product"`
	OutputQuantity     decimal.Decimal          `json:"output_quantity"`
	OutputBatchID      string                   `json:"output_batch_id"`
	Ingredients        []IngredientResponse     `json:"ingredients"`
	OperationalCosts   []OperationalCostRequest `json:"operational_costs"`
	MaterialCost       decimal.Decimal          `json:"material_cost"`
	TotalOperationCost decimal.Decimal          `json:"total_operation_cost"`
	UnitCost           decimal.Decimal          `json:"unit_cost"`
	CreatedAt          time.Time                `json:"created_at"`
}

// ToProductionRunResponse mapea la entidad.
func ToProductionRunResponse(r *entity.ProductionRun) ProductionRunResponse {
	ings := make([]IngredientResponse, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		ings = append(ings, IngredientResponse{
			ProductName: ing.ProductName,
			Quantity:    ing.Qty,
			TotalCost:   ing.TotalCost,
			BatchUsages: ToAllocationDTOs(ing.BatchUsages),
		})
	}
	ops := make([]OperationalCostRequest, 0, len(r.OperationalCosts))
	for _, op := range r.OperationalCosts {
		ops = append(ops, OperationalCostRequest{Name: op.Name, Amount: op.Amount})
	}
	return ProductionRunResponse{
		ID:                 r.ID,
		Date:               r.Date.Format(DateLayout),
		OutputProduct:      r.OutputProduct,
		OutputQuantity:     r.OutputQty,
		OutputBatchID:      r.OutputBatchID,
		Ingredients:        ings,
		OperationalCosts:   ops,
		MaterialCost:       r.MaterialCost,
		TotalOperationCost: r.TotalOperationCost,
		UnitCost:           r.UnitCost,
		CreatedAt:          r.CreatedAt,
	}
}
