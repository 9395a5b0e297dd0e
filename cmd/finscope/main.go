package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/AlvaroPereir4/FinScope/internal/amqp"
	"github.com/AlvaroPereir4/FinScope/internal/auth"
	"github.com/AlvaroPereir4/FinScope/internal/cache"
	"github.com/AlvaroPereir4/FinScope/internal/config"
	apphttp "github.com/AlvaroPereir4/FinScope/internal/http"
	applog "github.com/AlvaroPereir4/FinScope/internal/log"
	"github.com/AlvaroPereir4/FinScope/internal/services"
	"github.com/AlvaroPereir4/FinScope/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}

	// AMQP is optional: without it, records stay local and the export
	// pipeline is simply off.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		logger.Info("AMQP publishing enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	dashboards := cache.NewLRUCache[[]services.ChartRow](cfg.CacheSize, cfg.CacheTTL)
	cacheManager := cache.NewManager()
	cacheManager.Register(dashboards)
	cacheManager.StartCleanup(cfg.CacheTTL)
	defer cacheManager.Stop()

	ledger := services.NewLedger(repo, amqpClient, services.BalancePolicy(cfg.BalancePolicy)).
		WithDashboardCache(dashboards)
	defer ledger.Close()

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenLifetime)
	srv := apphttp.NewServer(cfg.Port, ledger, auth.NewService(repo, tokens))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting finscope server", "port", cfg.Port, "db", cfg.SQLiteDBPath, "balance_policy", cfg.BalancePolicy)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	slog.Info("Server stopped gracefully")
}
