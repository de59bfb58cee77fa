package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/application/ports"
	"github.com/jhoicas/Almacen-api/internal/application/sales"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/cache"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/events"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/memory"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/Almacen-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Almacen-api/internal/interfaces/http"
	"github.com/jhoicas/Almacen-api/pkg/config"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// txRunner lo implementan postgres.TxRunner y memory.TxRunner.
type txRunner interface {
	Run(ctx context.Context, fn func(repos repository.Repositories) error) error
}

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

	var repos repository.Repositories
	var runner txRunner
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		store := memory.NewStore()
		repos, runner = store.Repositories(), store.TxRunner()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("crear esquema")
		}
		repos, runner = postgres.NewRepositories(pool), postgres.NewTxRunner(pool)
	}

	registry := metrics.NewRegistry()
	obs := ports.Observers{Metrics: registry, Log: log.Component("ledger")}

	// Caché del indicador de stock bajo (opcional)
	if cfg.Redis.Addr != "" {
		lowStock, client := cache.NewRedisLowStockCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.LowStockTTL)
		defer client.Close()
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := lowStock.Ping(pingCtx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible, se continúa sin caché")
		} else {
			obs.Cache = lowStock
		}
		cancel()
	}

	// Eventos de dominio (opcional)
	if len(cfg.Kafka.Brokers) > 0 {
		publisher := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer func() {
			if err := publisher.Close(); err != nil {
				log.Error().Err(err).Msg("cerrar productor kafka")
			}
		}()
		obs.Events = publisher
	}

	movementsUC := inventory.NewRegisterMovementUseCase(runner, obs)
	stockQueryUC := inventory.NewStockQueryUseCase(repos.Products, repos.Stock, repos.Movements, obs)
	importUC := inventory.NewImportUseCase(runner, movementsUC, obs)
	productUC := usecase.NewProductUseCase(runner, repos.Products, movementsUC, obs)
	orderUC := sales.NewOrderUseCase(runner, repos.Orders, obs)
	fulfillmentUC := sales.NewFulfillmentUseCase(runner, movementsUC, repos.Sales, obs)

	// PDF: comprobante de venta
	receiptUC := sales.NewReceiptUseCase(repos.Sales, infrapdf.NewMarotoReceiptGenerator(), sales.ReceiptHeader{
		StoreName:  cfg.Store.Name,
		StorePhone: cfg.Store.Phone,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    16 * 1024 * 1024,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:   productUC,
		Movements:   movementsUC,
		StockQuery:  stockQueryUC,
		Import:      importUC,
		Orders:      orderUC,
		Fulfillment: fulfillmentUC,
		Receipts:    receiptUC,
		Metrics:     registry,
		Log:         log.Component("http"),
		JWTSecret:   cfg.JWT.Secret,
		ServiceName: cfg.App.Name,
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
