package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/cashbook-api/internal/application/analytics"
	"github.com/jhoicas/cashbook-api/internal/application/cashbook"
	"github.com/jhoicas/cashbook-api/internal/application/inventory"
	"github.com/jhoicas/cashbook-api/internal/application/production"
	"github.com/jhoicas/cashbook-api/internal/application/sales"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	BatchUC      *inventory.BatchUseCase
	SaleUC       *sales.SaleUseCase
	ProductionUC *production.ProductionUseCase
	CashbookUC   *cashbook.CashbookUseCase
	ReportUC     *analytics.ReportUseCase
	DashboardUC  *analytics.DashboardUseCase
	JWTSecret    string
	Location     *time.Location // cortes de día para filtros ?from/?to
}

// Router registra las rutas de la API. Todas requieren Bearer Token con business_id.
func Router(app *fiber.App, deps RouterDeps) {
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}

	protected := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Lotes
	batches := protected.Group("/batches")
	batchHandler := NewBatchHandler(deps.BatchUC)
	batches.Post("/", batchHandler.Create)
	batches.Get("/", batchHandler.List)
	batches.Get("/available", batchHandler.ListAvailable)
	batches.Get("/total", batchHandler.TotalAvailable)
	batches.Get("/on-hand", batchHandler.OnHand)
	batches.Get("/:id", batchHandler.GetByID)
	batches.Delete("/:id", batchHandler.Delete)

	// Ventas
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC, loc)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Delete("/:id", saleHandler.Delete)

	// Producción
	prod := protected.Group("/production")
	productionHandler := NewProductionHandler(deps.ProductionUC, loc)
	prod.Post("/usages", productionHandler.CreateUsage)
	prod.Get("/usages", productionHandler.ListUsages)
	prod.Delete("/usages/:id", productionHandler.DeleteUsage)
	prod.Post("/runs", productionHandler.CreateRun)
	prod.Get("/runs", productionHandler.ListRuns)
	prod.Delete("/runs/:id", productionHandler.DeleteRun)

	// Caja
	txs := protected.Group("/transactions")
	transactionHandler := NewTransactionHandler(deps.CashbookUC, loc)
	txs.Post("/", transactionHandler.Create)
	txs.Get("/", transactionHandler.List)
	txs.Delete("/:id", transactionHandler.Delete)

	// Reportes
	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC, loc)
	reports.Get("/financial", reportHandler.Financial)
	reports.Get("/financial.xlsx", reportHandler.FinancialXLSX)
	reports.Get("/financial.pdf", reportHandler.FinancialPDF)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard", dashboardHandler.GetSummary)
}
