// Package serve starts the admission bot: the Telegram poller, the reconciler
// and the operational HTTP API.
package serve

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	admissionApp "tollgate/internal/application/admission"
	"tollgate/internal/infrastructure/config"
	"tollgate/internal/infrastructure/database"
	"tollgate/internal/infrastructure/migration"
	"tollgate/internal/infrastructure/repository"
	"tollgate/internal/infrastructure/telegram"
	httpRouter "tollgate/internal/interfaces/http"
	"tollgate/internal/shared/logger"
)

var (
	env         string
	autoMigrate bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the admission bot and operational API",
		Long:  `Start the Telegram long-polling loop, the payment reconciler and the operational HTTP server.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "production", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Run pending database migrations on startup")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(mapEnvToGinMode(env))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("starting tollgate",
		"environment", env,
		"channel_id", cfg.Paywall.ChannelID,
		"price_stars", cfg.Paywall.PriceStars)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	if err := handleMigrations(); err != nil {
		return fmt.Errorf("migration handling failed: %w", err)
	}

	log := logger.NewLogger()

	admissionRepo := repository.NewAdmissionRepository(database.Get())
	offsetRepo := repository.NewPollingOffsetRepository(database.Get())

	botService := telegram.NewBotService(cfg.Telegram)
	transport := telegram.NewTransport(botService)
	gateway := telegram.NewGateway(botService)

	service := admissionApp.NewService(admissionRepo, gateway, transport, cfg.Paywall, log)

	handler := telegram.NewAdmissionUpdateHandler(service, log)
	poller := telegram.NewPollingService(botService, handler, log, offsetRepo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := poller.Start(ctx); err != nil {
		return fmt.Errorf("failed to start polling service: %w", err)
	}
	defer poller.Stop()

	router := httpRouter.NewRouter(service, &cfg.Server, log)
	srv := &http.Server{
		Addr:         cfg.Server.GetAddress(),
		Handler:      router.Engine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting",
			"address", cfg.Server.GetAddress(),
			"mode", cfg.Server.Mode)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down...")

	poller.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return err
	}

	logger.Info("server exited gracefully")
	return nil
}

func handleMigrations() error {
	migrator := migration.NewMigrator()

	if autoMigrate {
		logger.Info("running database migrations")
		if err := migrator.Up(database.Get()); err != nil {
			return err
		}
		return nil
	}

	version, err := migrator.Version(database.Get())
	if err != nil {
		logger.Warn("failed to check migration status", "error", err)
		return nil
	}

	logger.Info("current migration version", "version", version)
	return nil
}

func mapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return "release"
	case "test", "testing":
		return "test"
	default:
		return "debug"
	}
}
