package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pgtodo/internal/handlers"
	"pgtodo/internal/metrics"
	"pgtodo/internal/store"
	"pgtodo/internal/telemetry"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	logger, err := newLogger(getEnv("LOG_FORMAT", "json"))
	if err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}
	defer logger.Sync()

	cfg, err := loadConfig(logger)
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server exited with error", zap.Error(err))
	}
}

func newLogger(format string) (*zap.Logger, error) {
	if format == "console" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(cfg Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.OTELStdout {
		shutdown, err := telemetry.Setup(os.Stdout)
		if err != nil {
			return err
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Warn("failed to flush traces", zap.Error(err))
			}
		}()
	}

	if cfg.DB.Driver == "sqlite3" && cfg.DB.URL != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DB.URL), 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	pool, err := store.Open(ctx, cfg.DB, logger)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer pool.Close()

	if err := store.WaitReady(ctx, pool, logger, 20, 3*time.Second); err != nil {
		return err
	}
	if err := pool.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("database ready",
		zap.String("driver", cfg.DB.Driver),
		zap.Int("max_conns", cfg.DB.MaxConns),
		zap.Duration("acquire_timeout", cfg.DB.AcquireTimeout),
	)

	h := handlers.New(pool, logger)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           h.Routes(metrics.Handler(pool)),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
