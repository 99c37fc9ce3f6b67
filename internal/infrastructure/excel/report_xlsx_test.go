package excel

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/cashbook-api/internal/application/dto"
)

func sampleReport() *dto.FinancialReportDTO {
	return &dto.FinancialReportDTO{
		From:              "2026-10-01",
		To:                "2026-10-31",
		Revenue:           decimal.NewFromInt(3000),
		COGS:              decimal.NewFromInt(1600),
		CashExpenses:      decimal.NewFromInt(200),
		MaterialUsageCost: decimal.NewFromInt(100),
		TotalExpenses:     decimal.NewFromInt(300),
		NetProfit:         decimal.NewFromInt(1100),
		Profitable:        true,
		CashIn:            decimal.NewFromInt(3000),
		CashOut:           decimal.NewFromInt(2200),
		NetCash:           decimal.NewFromInt(800),
		StockPurchases:    decimal.NewFromInt(2000),
		Transactions: []dto.TransactionResponse{
			{Date: "2026-10-01", Description: "Compra de stock: Widget (10 unidades)", Category: "stock_purchase", Type: "OUT", Amount: decimal.NewFromInt(2000)},
			{Date: "2026-10-05", Description: "Venta: Widget (7 unidades)", Category: "sale", Type: "IN", Amount: decimal.NewFromInt(3000)},
		},
		MaterialUsages: []dto.ProductionUsageResponse{
			{Date: "2026-10-06", ProductName: "Harina", Quantity: decimal.NewFromInt(2), TotalCost: decimal.NewFromInt(100)},
		},
	}
}

func TestExport_SeccionesYValores(t *testing.T) {
	out, err := NewReportExporter().Export(sampleReport())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)

	var titles []string
	for _, r := range rows {
		if len(r) > 0 && len(r[0]) > 3 && (r[0][:3] == "I. " || r[0][:3] == "II." || r[0][:3] == "III" || r[0][:3] == "IV." || r[0][:2] == "V.") {
			titles = append(titles, r[0])
		}
	}
	assert.Equal(t, []string{
		"I. RESUMEN",
		"II. ESTADO DE RESULTADOS",
		"III. FLUJO DE CAJA",
		"IV. MOVIMIENTOS DE CAJA",
		"V. CONSUMO DE MATERIA PRIMA",
	}, titles)

	assert.Equal(t, "2026-10-01", rows[1][1])
	assert.Equal(t, "UTILIDAD", rows[3][1])

	found := false
	for _, r := range rows {
		if len(r) >= 3 && r[1] == "Utilidad neta" {
			assert.Equal(t, "1100", r[2])
			found = true
		}
	}
	assert.True(t, found)
}

func TestExport_ReporteVacio(t *testing.T) {
	rep := sampleReport()
	rep.Transactions = nil
	rep.MaterialUsages = nil
	rep.Profitable = false
	out, err := NewReportExporter().Export(rep)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue(sheetName, "B4")
	require.NoError(t, err)
	assert.Equal(t, "PÉRDIDA", v)
}
