package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hibiken/asynq"

	"github.com/jhoicas/gestion-api/internal/application/billing"
	"github.com/jhoicas/gestion-api/internal/application/settlement"
	"github.com/jhoicas/gestion-api/internal/domain/invoicing"
	"github.com/jhoicas/gestion-api/internal/domain/repository"
	"github.com/jhoicas/gestion-api/internal/infrastructure/jobs"
	"github.com/jhoicas/gestion-api/internal/infrastructure/memory"
	"github.com/jhoicas/gestion-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/gestion-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/gestion-api/internal/interfaces/http"
	"github.com/jhoicas/gestion-api/pkg/config"
	"github.com/jhoicas/gestion-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: "api",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Persistencia: PostgreSQL o memoria (demo).
	var (
		repos    repository.Repos
		configs  repository.BillingConfigRepository
		txRunner repository.TxRunner
	)
	if cfg.DB.Driver == "memory" {
		store := memory.NewStore()
		repos, configs, txRunner = store.Repos(), store.Configs(), store
		log.Warn().Msg("persistencia en memoria: los datos se pierden al reiniciar")
	} else {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		repos = postgres.NewRepos(pool)
		configs = postgres.NewBillingConfigRepository(pool)
		txRunner = postgres.NewTxRunner(pool)
	}

	// Redis: bloqueo entre réplicas y cola de avisos. Sin Redis se usa un bloqueo local y no se avisa.
	var (
		locker   settlement.Locker = settlement.NewLocalLocker()
		notifier settlement.Notifier
	)
	redisClient, err := infraredis.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("redis no disponible; bloqueo local y sin avisos a propietarios")
	} else {
		defer redisClient.Close()
		locker = infraredis.NewLocker(redisClient, cfg.Redis.LockTTL, log)
		jobsClient := jobs.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer jobsClient.Close()
		notifier = jobsClient
	}

	rates := invoicing.NewRateCatalog(cfg.Billing.AllowedVATRates, cfg.Billing.AllowedRetentionRates)
	createInvoiceUC := billing.NewCreateInvoiceUseCase(txRunner, repos.Owners, repos.Invoices, rates, log)
	guard := billing.NewNumberGuard(repos.Invoices, cfg.Billing.NumberCheckSettle, log)
	liquidationUC := settlement.NewLiquidationUseCase(settlement.Deps{
		TxRunner:     txRunner,
		Owners:       repos.Owners,
		Configs:      configs,
		Liquidations: repos.Liquidations,
		Reservations: repos.Reservations,
		Expenses:     repos.Expenses,
		Issuer:       createInvoiceUC,
		Locker:       locker,
		Notifier:     notifier,
		Log:          log,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Swagger UI en /docs si se generó la especificación (swag init).
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Gestión API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Calculator:           billing.NewCalculator(),
		Series:               billing.NewSeriesUseCase(repos.Series, guard),
		Invoices:             createInvoiceUC,
		Owners:               billing.NewOwnerUseCase(repos.Owners),
		Configs:              settlement.NewConfigUseCase(repos.Owners, configs),
		Liquidations:         liquidationUC,
		JWTSecret:            cfg.JWT.Secret,
		LiquidationRateLimit: cfg.Billing.LiquidationRateLimitPerHour,
		Log:                  log,
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
