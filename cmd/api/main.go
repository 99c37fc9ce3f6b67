package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/cashbook-api/internal/application/analytics"
	"github.com/jhoicas/cashbook-api/internal/application/cashbook"
	"github.com/jhoicas/cashbook-api/internal/application/inventory"
	"github.com/jhoicas/cashbook-api/internal/application/production"
	"github.com/jhoicas/cashbook-api/internal/application/sales"
	"github.com/jhoicas/cashbook-api/internal/domain/repository"
	"github.com/jhoicas/cashbook-api/internal/infrastructure/excel"
	"github.com/jhoicas/cashbook-api/internal/infrastructure/memory"
	"github.com/jhoicas/cashbook-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/cashbook-api/internal/infrastructure/pdf"
	"github.com/jhoicas/cashbook-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/cashbook-api/internal/interfaces/http"
	"github.com/jhoicas/cashbook-api/pkg/config"
	"github.com/jhoicas/cashbook-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Libro de lotes: PostgreSQL en despliegue, memoria para demos y pruebas locales.
	var (
		tx    inventory.TxRunner
		repos repository.Repositories
	)
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		store := memory.NewStore()
		tx, repos = store, store.Repositories()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(ctx, cfg.DB.ConnectionString(), "up"); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		tx, repos = postgres.NewTxRunner(pool), postgres.NewRepositories(pool)
	}

	prom := metrics.NewPrometheus()
	allocator := inventory.NewConsumptionAllocator(prom, log)

	loc := cfg.Report.Location()
	batchUC := inventory.NewBatchUseCase(tx, repos, prom, log).InLocation(loc)
	saleUC := sales.NewSaleUseCase(tx, repos, allocator, log).InLocation(loc)
	productionUC := production.NewProductionUseCase(tx, repos, allocator, log).InLocation(loc)
	cashbookUC := cashbook.NewCashbookUseCase(tx, repos, log).InLocation(loc)
	reportUC := analytics.NewReportUseCase(repos, excel.NewReportExporter(), infrapdf.NewMarotoReportGenerator(cfg.App.Name))
	dashboardUC := analytics.NewDashboardUseCase(repos).InLocation(loc)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30, // exportes PDF/XLSX
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(prom.Middleware())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Cashbook API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.Storage.Driver})
	})
	app.Get("/metrics", adaptor.HTTPHandler(prom.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		BatchUC:      batchUC,
		SaleUC:       saleUC,
		ProductionUC: productionUC,
		CashbookUC:   cashbookUC,
		ReportUC:     reportUC,
		DashboardUC:  dashboardUC,
		JWTSecret:    cfg.JWT.Secret,
		Location:     loc,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
