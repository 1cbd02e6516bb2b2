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

	appanalytics "github.com/jhoicas/Portal-api/internal/application/analytics"
	"github.com/jhoicas/Portal-api/internal/application/auth"
	"github.com/jhoicas/Portal-api/internal/application/identity"
	"github.com/jhoicas/Portal-api/internal/application/lifecycle"
	"github.com/jhoicas/Portal-api/internal/application/reports"
	"github.com/jhoicas/Portal-api/internal/domain/policy"
	"github.com/jhoicas/Portal-api/internal/domain/repository"
	"github.com/jhoicas/Portal-api/internal/infrastructure/memory"
	"github.com/jhoicas/Portal-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/Portal-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Portal-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Portal-api/internal/interfaces/http"
	"github.com/jhoicas/Portal-api/pkg/config"
	"github.com/jhoicas/Portal-api/pkg/logger"
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
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var (
		accounts  repository.AccountRepository
		requests  repository.AccountRequestRepository
		approvals repository.StrategicApprovalRepository
		txRunner  lifecycle.TxRunner
	)
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		store := memory.NewStore()
		accounts, requests, approvals, txRunner = store.Accounts(), store.Requests(), store.Approvals(), store
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		accounts = postgres.NewAccountRepository(pool)
		requests = postgres.NewAccountRequestRepository(pool)
		approvals = postgres.NewStrategicApprovalRepository(pool)
		txRunner = postgres.NewTxRunner(pool)
	}

	pol := policy.New(policy.DefaultTable())
	m := metrics.New()

	resolver := identity.NewResolver(accounts, identity.BootstrapConfig{
		Email:     cfg.Identity.BootstrapEmail,
		AccountID: cfg.Identity.BootstrapAccountID,
	}, m)
	sessionUC := auth.NewSessionUseCase(resolver, accounts, pol, auth.JWTConfig{
		Secret:         cfg.JWT.Secret,
		ExpMinutes:     cfg.JWT.Expiration,
		Issuer:         cfg.JWT.Issuer,
		ProviderSecret: cfg.Identity.ProviderSecret,
		ProviderIssuer: cfg.Identity.ProviderIssuer,
	}, log)
	manager := lifecycle.NewManager(pol, accounts, requests, approvals, txRunner, log, m, lifecycle.Config{
		PhoneRegion:    cfg.App.PhoneRegion,
		BootstrapEmail: cfg.Identity.BootstrapEmail,
	})
	dashboardUC := appanalytics.NewDashboardUseCase(accounts, requests, approvals)

	// PDF: informe de accesos por rol
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	accessReportUC := reports.NewAccessReportUseCase(accounts, requests, approvals, pol, pdfGenerator)

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
		Title:    "Portal API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Policy:         pol,
		SessionUC:      sessionUC,
		Lifecycle:      manager,
		DashboardUC:    dashboardUC,
		AccessReportUC: accessReportUC,
		JWTSecret:      cfg.JWT.Secret,
		PublicLimiter:  httpRouter.NewIPRateLimiter(ctx, cfg.RateLimit.PublicPerMinute, cfg.RateLimit.Burst, 10*time.Minute),
		RequestTimeout: cfg.HTTP.RequestTimeout,
		Logger:         log,
		Metrics:        m,
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
