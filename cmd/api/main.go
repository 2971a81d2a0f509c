package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jhoicas/suplementos-api/internal/application/cashclosing"
	"github.com/jhoicas/suplementos-api/internal/application/credit"
	"github.com/jhoicas/suplementos-api/internal/application/inventory"
	"github.com/jhoicas/suplementos-api/internal/application/quotation"
	"github.com/jhoicas/suplementos-api/internal/application/sales"
	"github.com/jhoicas/suplementos-api/internal/application/usecase"
	"github.com/jhoicas/suplementos-api/internal/domain/repository"
	"github.com/jhoicas/suplementos-api/internal/infrastructure/cache"
	"github.com/jhoicas/suplementos-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/suplementos-api/internal/infrastructure/pdf"
	"github.com/jhoicas/suplementos-api/internal/infrastructure/postgres"
	"github.com/jhoicas/suplementos-api/internal/infrastructure/telemetry"
	httpRouter "github.com/jhoicas/suplementos-api/internal/interfaces/http"
	"github.com/jhoicas/suplementos-api/pkg/config"
	"github.com/jhoicas/suplementos-api/pkg/logger"
	"github.com/shopspring/decimal"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	shutdownTelemetry, err := telemetry.Setup(ctx, cfg.OTel, version)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar OpenTelemetry")
	}

	var (
		txRunner repository.TxRunner
		repos    repository.Repos
	)
	switch cfg.DB.Driver {
	case "memory":
		store := memory.New()
		txRunner, repos = store, store.Repos()
		log.Warn().Msg("usando almacén en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		txRunner = postgres.NewTxRunner(pool, cfg.Sales.TxRetries, log)
		repos = postgres.NewRepos(pool)
	}

	var productCache usecase.ProductCache = cache.NoopProductCache{}
	if cfg.Redis.Enabled() {
		rc := cache.NewRedisProductCache(cfg.Redis)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis no disponible, catálogo sin caché")
			_ = rc.Close()
		} else {
			defer rc.Close()
			productCache = rc
		}
	}

	taxRate := decimal.RequireFromString(cfg.Sales.TaxRate)

	productUC := usecase.NewProductUseCase(repos.Products, productCache)
	branchUC := usecase.NewBranchUseCase(repos.Branches)
	clientUC := usecase.NewClientUseCase(repos.Clients)
	lotStore := inventory.NewLotStore(txRunner, repos, inventory.Config{
		ExpiryHorizonDays: cfg.Inventory.ExpiryHorizonDays,
	})
	saleUC := sales.NewSaleUseCase(txRunner, repos, lotStore, log, sales.Config{
		CreditDueDays: cfg.Sales.CreditDueDays,
		TaxRate:       taxRate,
	})
	receiptUC := sales.NewReceiptUseCase(saleUC, infrapdf.NewReceiptGenerator())
	ledgerUC := credit.NewLedgerUseCase(txRunner, repos, log, time.Now)
	quotationUC := quotation.NewUseCase(repos, saleUC, taxRate, time.Now)
	cashUC := cashclosing.NewUseCase(txRunner, repos, time.Now)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Suplementos POS API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "version": version})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:    productUC,
		BranchUC:     branchUC,
		ClientUC:     clientUC,
		Lots:         lotStore,
		Sales:        saleUC,
		Receipts:     receiptUC,
		Ledger:       ledgerUC,
		Quotations:   quotationUC,
		CashClosings: cashUC,
		JWTSecret:    cfg.JWT.Secret,
		JWTIssuer:    cfg.JWT.Issuer,
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
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado de OpenTelemetry")
	}

	log.Info().Msg("aplicación detenida")
}
