package dto

import "github.com/shopspring/decimal"

// FinancialReportDTO estado de resultados y flujo de caja de una ventana.
// NetProfit = Revenue - COGS - TotalExpenses; TotalExpenses incluye el consumo de materia prima.
type FinancialReportDTO struct {
	From string `json:"from"`
	To   string `json:"to"`

	Revenue           decimal.Decimal `json:"revenue"`
	COGS              decimal.Decimal `json:"cogs"`
	CashExpenses      decimal.Decimal `json:"cash_expenses"`
	MaterialUsageCost decimal.Decimal `json:"material_usage_cost"`
	TotalExpenses     decimal.Decimal `json:"total_expenses"`
	NetProfit         decimal.Decimal `json:"net_profit"`
	Profitable        bool            `json:"profitable"`
	CashIn            decimal.Decimal `json:"cash_in"`
	CashOut           decimal.Decimal `json:"cash_out"`
	NetCash           decimal.Decimal `json:"net_cash"`
	CapitalInjected   decimal.Decimal `json:"capital_injected"`
	StockPurchases    decimal.Decimal `json:"stock_purchases"`

	Transactions   []TransactionResponse     `json:"transactions"`
	MaterialUsages []ProductionUsageResponse `json:"material_usages"`
}
