package main

import (
	"context"
	"log" // Use standard log only for initial fatal errors before logger is set up
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tradejournal/config"
	"tradejournal/internal/adapters/logger"
	"tradejournal/internal/adapters/snapshotcache"
	"tradejournal/internal/adapters/sqlite"
	"tradejournal/internal/app"
	"tradejournal/internal/ports"
	"tradejournal/internal/server"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
	}

	// 2. Initialize Logger
	var appLogger ports.Logger
	if cfg.LogFormat == "zap" {
		zl, err := logger.NewZapLogger(cfg.LogLevel)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize zap logger: %v", err)
		}
		defer zl.Sync()
		appLogger = zl
	} else {
		appLogger = logger.NewStdLogger(cfg.LogLevel)
	}
	appLogger.Info(context.Background(), "Logger initialized", map[string]interface{}{"level": cfg.LogLevel.String(), "format": cfg.LogFormat})

	// 3. Initialize Repository (Database Adapter)
	repo, err := sqlite.NewRepository(sqlite.Config{
		DBPath: cfg.DBPath,
		Logger: appLogger,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize database repository")
		log.Fatalf("FATAL: Failed to initialize database repository: %v", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			appLogger.Error(context.Background(), err, "Error closing database repository")
		}
	}()
	appLogger.Info(context.Background(), "Database repository initialized")

	// 4. Initialize Statistics Cache
	cache, err := snapshotcache.New(cfg.StatsCacheTTL)
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize statistics cache")
		log.Fatalf("FATAL: Failed to initialize statistics cache: %v", err)
	}
	appLogger.Info(context.Background(), "Statistics cache initialized", map[string]interface{}{"ttl": cfg.StatsCacheTTL.String()})

	// 5. Initialize Application Service
	journalService, err := app.NewJournalService(app.Deps{
		Logger:     appLogger,
		Trades:     repo,
		Watchlist:  repo,
		Notes:      repo,
		Resources:  repo,
		Cache:      cache,
		StockLimit: cfg.StockRollupLimit,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize journal service")
		log.Fatalf("FATAL: Failed to initialize journal service: %v", err)
	}
	appLogger.Info(context.Background(), "Journal service initialized")

	// 6. Start the HTTP Server
	srv := server.NewServer(journalService, appLogger)
	httpServer := &http.Server{Addr: cfg.ServerAddr, Handler: srv.R}
	go func() {
		appLogger.Info(context.Background(), "HTTP server listening", map[string]interface{}{"addr": cfg.ServerAddr})
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error(context.Background(), err, "FATAL: HTTP server failed")
			log.Fatalf("FATAL: HTTP server failed: %v", err)
		}
	}()

	// 7. Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	appLogger.Info(context.Background(), "Received shutdown signal", map[string]interface{}{"signal": sig.String()})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(context.Background(), err, "HTTP server shutdown failed")
	}
	appLogger.Info(context.Background(), "Application finished gracefully.")
}
