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
	"github.com/redis/go-redis/v9"

	"github.com/Danbaba1/Inventory-Management-sub001/internal/application/inventory"
	"github.com/Danbaba1/Inventory-Management-sub001/internal/infrastructure/cache"
	infrapdf "github.com/Danbaba1/Inventory-Management-sub001/internal/infrastructure/pdf"
	"github.com/Danbaba1/Inventory-Management-sub001/internal/infrastructure/postgres"
	httpRouter "github.com/Danbaba1/Inventory-Management-sub001/internal/interfaces/http"
	"github.com/Danbaba1/Inventory-Management-sub001/pkg/config"
	"github.com/Danbaba1/Inventory-Management-sub001/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	ledgerRepo := postgres.NewInventoryTransactionRepository(pool)
	businessRepo := postgres.NewBusinessRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	mutator := inventory.NewStockMutator(txRunner, productRepo)
	history := inventory.NewHistoryQuery(ledgerRepo, productRepo, businessRepo)
	report := inventory.NewHistoryReportUseCase(ledgerRepo, productRepo, infrapdf.NewMarotoHistoryGenerator())

	// Rate limiting sobre Redis; REDIS_ADDR vacío lo desactiva.
	var rateLimiter httpRouter.RateLimiterStore
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		rateLimiter = cache.NewFixedWindowCounter(client, time.Duration(cfg.Redis.RateLimitWindow)*time.Second)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventory Ledger API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Mutator:      mutator,
		History:      history,
		Report:       report,
		RateLimiter:  rateLimiter,
		RateLimitMax: int64(cfg.Redis.RateLimitMax),
		JWTSecret:    cfg.JWT.Secret,
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
