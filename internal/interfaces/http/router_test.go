package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cashbook-api/internal/application/analytics"
	"github.com/jhoicas/cashbook-api/internal/application/cashbook"
	"github.com/jhoicas/cashbook-api/internal/application/dto"
	"github.com/jhoicas/cashbook-api/internal/application/inventory"
	"github.com/jhoicas/cashbook-api/internal/application/production"
	"github.com/jhoicas/cashbook-api/internal/application/sales"
	"github.com/jhoicas/cashbook-api/internal/infrastructure/excel"
	"github.com/jhoicas/cashbook-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/cashbook-api/internal/interfaces/http"
	"github.com/jhoicas/cashbook-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// buildTestApp arma el router completo sobre el store en memoria.
func buildTestApp(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repositories()
	log := logger.Nop()
	allocator := inventory.NewConsumptionAllocator(nil, log)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		BatchUC:      inventory.NewBatchUseCase(store, repos, nil, log),
		SaleUC:       sales.NewSaleUseCase(store, repos, allocator, log),
		ProductionUC: production.NewProductionUseCase(store, repos, allocator, log),
		CashbookUC:   cashbook.NewCashbookUseCase(store, repos, log),
		ReportUC:     analytics.NewReportUseCase(repos, excel.NewReportExporter(), nil),
		DashboardUC:  analytics.NewDashboardUseCase(repos),
		JWTSecret:    testJWTSecret,
	})
	return app
}

// doJSON lanza una petición autenticada con body JSON opcional.
func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Authorization", tokenFor(t, testBusinessID))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// seedWidget crea B1(2024-01-01, 10 @100) y B2(2024-01-05, 10 @120).
func seedWidget(t *testing.T, app *fiber.App) (dto.BatchResponse, dto.BatchResponse) {
	t.Helper()
	price1, price2 := dec("100"), dec("120")
	r1 := doJSON(t, app, http.MethodPost, "/api/batches", dto.CreateBatchRequest{
		Date: "2024-01-01", ProductName: "Widget", Quantity: dec("10"), UnitPrice: &price1, Class: "for_sale",
	})
	require.Equal(t, http.StatusCreated, r1.StatusCode)
	r2 := doJSON(t, app, http.MethodPost, "/api/batches", dto.CreateBatchRequest{
		Date: "2024-01-05", ProductName: "Widget", Quantity: dec("10"), UnitPrice: &price2, Class: "for_sale",
	})
	require.Equal(t, http.StatusCreated, r2.StatusCode)
	return decode[dto.BatchResponse](t, r1), decode[dto.BatchResponse](t, r2)
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	return decode[dto.ErrorResponse](t, resp).Code
}

// ──────────────────────────────────────────────────────────────────────────────
// Ventas
// ──────────────────────────────────────────────────────────────────────────────

func TestVenta_CostoFIFOYReversion(t *testing.T) {
	app := buildTestApp(t)
	b1, b2 := seedWidget(t, app)

	resp := doJSON(t, app, http.MethodPost, "/api/sales", dto.CreateSaleRequest{
		Date: "2024-02-01", ProductName: "Widget", Quantity: dec("15"), SellPrice: dec("200"),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sale := decode[dto.SaleResponse](t, resp)

	assert.True(t, sale.TotalCOGS.Equal(dec("1600")), "cogs = 10*100 + 5*120")
	assert.True(t, sale.TotalRevenue.Equal(dec("3000")))
	require.Len(t, sale.BatchUsages, 2)
	assert.Equal(t, b1.ID, sale.BatchUsages[0].BatchID)
	assert.True(t, sale.BatchUsages[0].QtyUsed.Equal(dec("10")))
	assert.Equal(t, b2.ID, sale.BatchUsages[1].BatchID)
	assert.True(t, sale.BatchUsages[1].QtyUsed.Equal(dec("5")))

	total := decode[dto.AvailabilityResponse](t, doJSON(t, app, http.MethodGet, "/api/batches/total?product=Widget&class=for_sale", nil))
	assert.True(t, total.Available.Equal(dec("5")))

	del := doJSON(t, app, http.MethodDelete, "/api/sales/"+sale.ID, nil)
	assert.Equal(t, http.StatusNoContent, del.StatusCode)

	total = decode[dto.AvailabilityResponse](t, doJSON(t, app, http.MethodGet, "/api/batches/total?product=Widget&class=for_sale", nil))
	assert.True(t, total.Available.Equal(dec("20")))

	// El ingreso enlazado se fue con la venta.
	txs := decode[[]dto.TransactionResponse](t, doJSON(t, app, http.MethodGet, "/api/transactions?category=sale", nil))
	assert.Empty(t, txs)
}

func TestVenta_StockInsuficiente_Retorna409(t *testing.T) {
	app := buildTestApp(t)
	seedWidget(t, app)

	resp := doJSON(t, app, http.MethodPost, "/api/sales", dto.CreateSaleRequest{
		ProductName: "Widget", Quantity: dec("21"), SellPrice: dec("200"),
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", errorCode(t, resp))

	total := decode[dto.AvailabilityResponse](t, doJSON(t, app, http.MethodGet, "/api/batches/total?product=Widget&class=for_sale", nil))
	assert.True(t, total.Available.Equal(dec("20")), "el libro no debe mutar")
}

func TestVenta_NoConsumeMateriaPrima(t *testing.T) {
	app := buildTestApp(t)
	price := dec("50")
	r := doJSON(t, app, http.MethodPost, "/api/batches", dto.CreateBatchRequest{
		ProductName: "Harina", Quantity: dec("10"), UnitPrice: &price, Class: "for_production",
	})
	require.Equal(t, http.StatusCreated, r.StatusCode)

	resp := doJSON(t, app, http.MethodPost, "/api/sales", dto.CreateSaleRequest{
		ProductName: "Harina", Quantity: dec("1"), SellPrice: dec("80"),
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Lotes
// ──────────────────────────────────────────────────────────────────────────────

func TestLote_EliminarConsumido_Retorna409(t *testing.T) {
	app := buildTestApp(t)
	b1, b2 := seedWidget(t, app)

	resp := doJSON(t, app, http.MethodPost, "/api/sales", dto.CreateSaleRequest{
		ProductName: "Widget", Quantity: dec("3"), SellPrice: dec("200"),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	del := doJSON(t, app, http.MethodDelete, "/api/batches/"+b1.ID, nil)
	assert.Equal(t, http.StatusConflict, del.StatusCode)
	assert.Equal(t, "NOT_DELETABLE", errorCode(t, del))

	del = doJSON(t, app, http.MethodDelete, "/api/batches/"+b2.ID, nil)
	assert.Equal(t, http.StatusNoContent, del.StatusCode)

	avail := decode[[]dto.BatchResponse](t, doJSON(t, app, http.MethodGet, "/api/batches/available?product=Widget&class=for_sale", nil))
	require.Len(t, avail, 1)
	assert.Equal(t, b1.ID, avail[0].ID)

	// La compra de B2 desaparece de caja; la de B1 sigue.
	txs := decode[[]dto.TransactionResponse](t, doJSON(t, app, http.MethodGet, "/api/transactions?category=stock_purchase", nil))
	require.Len(t, txs, 1)
	assert.Equal(t, b1.ID, txs[0].RelatedBatchID)
}

func TestLote_TotalPaidCalculaPrecioUnitario(t *testing.T) {
	app := buildTestApp(t)
	paid := dec("1000")
	resp := doJSON(t, app, http.MethodPost, "/api/batches", dto.CreateBatchRequest{
		ProductName: "Gula", Quantity: dec("4"), TotalPaid: &paid, Class: "produksi",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	b := decode[dto.BatchResponse](t, resp)
	assert.True(t, b.BuyPrice.Equal(dec("250")))
	assert.Equal(t, "for_production", b.Class)
	assert.Equal(t, "active", b.State)
}

func TestLote_SinPrecio_Retorna400(t *testing.T) {
	app := buildTestApp(t)
	resp := doJSON(t, app, http.MethodPost, "/api/batches", dto.CreateBatchRequest{
		ProductName: "Widget", Quantity: dec("4"), Class: "for_sale",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, resp))
}

// ──────────────────────────────────────────────────────────────────────────────
// Caja, reportes y dashboard
// ──────────────────────────────────────────────────────────────────────────────

func TestMovimiento_EnlazadoNoSeElimina(t *testing.T) {
	app := buildTestApp(t)
	seedWidget(t, app)

	txs := decode[[]dto.TransactionResponse](t, doJSON(t, app, http.MethodGet, "/api/transactions", nil))
	require.Len(t, txs, 2)

	resp := doJSON(t, app, http.MethodDelete, "/api/transactions/"+txs[0].ID, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "LINKED_TRANSACTION", errorCode(t, resp))

	manual := doJSON(t, app, http.MethodPost, "/api/transactions", dto.CreateTransactionRequest{
		Amount: dec("75"), Description: "Listrik", Category: "biaya", Type: "OUT",
	})
	require.Equal(t, http.StatusCreated, manual.StatusCode)
	created := decode[dto.TransactionResponse](t, manual)
	assert.Equal(t, "expense", created.Category)

	resp = doJSON(t, app, http.MethodDelete, "/api/transactions/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestReporte_FinancieroYExcel(t *testing.T) {
	app := buildTestApp(t)
	seedWidget(t, app)
	resp := doJSON(t, app, http.MethodPost, "/api/sales", dto.CreateSaleRequest{
		Date: "2024-01-10", ProductName: "Widget", Quantity: dec("15"), SellPrice: dec("200"),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	rep := decode[dto.FinancialReportDTO](t, doJSON(t, app, http.MethodGet, "/api/reports/financial?from=2024-01-01&to=2024-01-31", nil))
	assert.True(t, rep.Revenue.Equal(dec("3000")))
	assert.True(t, rep.COGS.Equal(dec("1600")))
	assert.True(t, rep.NetProfit.Equal(dec("1400")))
	assert.True(t, rep.StockPurchases.Equal(dec("2200")))
	assert.True(t, rep.NetCash.Equal(dec("800")))

	xlsx := doJSON(t, app, http.MethodGet, "/api/reports/financial.xlsx?from=2024-01-01&to=2024-01-31", nil)
	defer xlsx.Body.Close()
	assert.Equal(t, http.StatusOK, xlsx.StatusCode)
	assert.Contains(t, xlsx.Header.Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, xlsx.Header.Get("Content-Disposition"), "reporte-financiero_2024-01-01_2024-01-31.xlsx")
}

func TestReporte_RangoInvertido_Retorna400(t *testing.T) {
	app := buildTestApp(t)
	resp := doJSON(t, app, http.MethodGet, "/api/reports/financial?from=2024-02-01&to=2024-01-01", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDashboard_SaldoYProximoLote(t *testing.T) {
	app := buildTestApp(t)
	b1, _ := seedWidget(t, app)
	resp := doJSON(t, app, http.MethodPost, "/api/sales", dto.CreateSaleRequest{
		ProductName: "Widget", Quantity: dec("4"), SellPrice: dec("200"),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	sum := decode[dto.DashboardSummaryDTO](t, doJSON(t, app, http.MethodGet, "/api/dashboard", nil))
	assert.True(t, sum.CashBalance.Equal(dec("-1400")), "800 - 2200")
	assert.True(t, sum.SaleStock.Equal(dec("1800")), "6*100 + 10*120")
	require.Len(t, sum.NextOut, 1)
	assert.Equal(t, b1.ID, sum.NextOut[0].BatchID)
}

func TestRutas_SinToken_Retorna401(t *testing.T) {
	app := buildTestApp(t)
	resp := doGet(t, app, "/api/batches", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
