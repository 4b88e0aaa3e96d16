package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/janhq/qa-api/internal/config"
	"github.com/janhq/qa-api/internal/infrastructure/logger"
	"github.com/janhq/qa-api/internal/infrastructure/observability"
	"github.com/janhq/qa-api/internal/interfaces/httpserver"
)

// @title QA API
// @version 1.0
// @description Document question answering with conversations, history and bookmarks.
// @contact.name Jan Server Team
// @contact.url https://github.com/janhq/jan-server
// @BasePath /
type Application struct {
	cfg        *config.Config
	httpServer *httpserver.HTTPServer
	log        zerolog.Logger
}

func NewApplication(cfg *config.Config, httpServer *httpserver.HTTPServer, log zerolog.Logger) *Application {
	return &Application{cfg: cfg, httpServer: httpServer, log: log}
}

// Start blocks until ctx is cancelled or a listener fails. A failing
// listener cancels the others.
func (a *Application) Start(ctx context.Context) error {
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error { return a.httpServer.Run(egCtx) })
	eg.Go(func() error { return httpserver.RunMetrics(egCtx, a.cfg, a.log) })
	return eg.Wait()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "qa-api:", err)
		os.Exit(1)
	}
}

func run() error {
	if err := loadEnvFiles(); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(flushCtx); err != nil {
			log.Error().Err(err).Msg("flush telemetry")
		}
	}()

	app, cleanup, err := buildApplication(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("build application: %w", err)
	}
	defer cleanup()

	log.Info().Str("addr", cfg.Addr()).Str("environment", cfg.Environment).Msg("qa-api starting")
	if err := app.Start(ctx); err != nil {
		return err
	}
	log.Info().Msg("qa-api stopped")
	return nil
}

// loadEnvFiles reads ENV_FILE, or .env and ../.env when it is unset. Values
// already present in the environment win over the files.
func loadEnvFiles() error {
	if explicit := os.Getenv("ENV_FILE"); explicit != "" {
		if err := godotenv.Load(explicit); err != nil {
			return fmt.Errorf("load %s: %w", explicit, err)
		}
		return nil
	}
	for _, path := range []string{".env", "../.env"} {
		err := godotenv.Load(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}
