package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard (acumulado histórico).
type DashboardSummaryDTO struct {
	TotalCashIn   decimal.Decimal `json:"total_cash_in"`
	TotalCashOut  decimal.Decimal `json:"total_cash_out"`
	CashBalance   decimal.Decimal `json:"cash_balance"` // entradas - salidas
	SalesRevenue  decimal.Decimal `json:"sales_revenue"`
	SaleStock     decimal.Decimal `json:"sale_stock_value"`       // Σ current * buy_price, for_sale
	ProdStock     decimal.Decimal `json:"production_stock_value"` // Σ current * buy_price, for_production
	NextOut       []NextOutDTO    `json:"next_out"`
	Period        string          `json:"period"` // ej: "Octubre 2026"
}

// NextOutDTO próximo lote a consumir por producto.
type NextOutDTO struct {
	ProductName string          `json:"product_name"`
	Class       string          `json:"class"`
	BatchID     string          `json:"batch_id"`
	Date        string          `json:"date"`
	CurrentQty  decimal.Decimal `json:"current_qty"`
	BuyPrice    decimal.Decimal `json:"buy_price"`
}
