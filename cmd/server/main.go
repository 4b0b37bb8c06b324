package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/dom/league-rest-explorer/internal/api"
	"github.com/dom/league-rest-explorer/internal/config"
	"github.com/dom/league-rest-explorer/internal/ddragon"
	"github.com/dom/league-rest-explorer/internal/logging"
	"github.com/dom/league-rest-explorer/internal/repository/postgres"
	"github.com/dom/league-rest-explorer/internal/riot"
	"github.com/dom/league-rest-explorer/internal/service"
	"github.com/dom/league-rest-explorer/internal/telemetry"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

const (
	serviceName        = "league-rest-proxy"
	cacheJanitorPeriod = time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing feeds trace=true responses even without an OTLP collector
	recorder := telemetry.NewLayerRecorder()
	shutdownTracing, err := telemetry.Setup(ctx, serviceName, cfg.OTelEndpoint, recorder)
	if err != nil {
		logger.Fatal("failed to set up tracing", zap.Error(err))
	}
	tracer := otel.Tracer(serviceName)

	// Initialize database
	db, err := postgres.NewConnection(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Initialize repositories
	repos := postgres.NewRepositories(db)

	// Upstream clients
	riotClient := riot.NewClient(riot.Options{
		PlatformBaseURL: riot.PlatformBaseURL(cfg.RiotPlatform),
		APIKey:          cfg.RiotAPIKey,
		EsportsAPIKey:   cfg.EsportsAPIKey,
		Timeout:         cfg.HTTPTimeout,
	})
	dd := ddragon.NewClient(ddragon.BaseURL, cfg.DataDragonVersion, cfg.HTTPTimeout)

	if cfg.RiotAPIKey == "" {
		logger.Warn("RIOT_API_KEY is not set, platform endpoints will answer 403")
	}

	// Initialize services
	services := service.NewServices(repos, cfg, riotClient, dd, tracer, logger)

	go func() {
		if err := services.Champion.SyncIfEmpty(ctx); err != nil {
			logger.Warn("failed to seed champion cache", zap.Error(err))
		}
	}()
	go services.Proxy.RunCacheJanitor(ctx, cacheJanitorPeriod)

	// Initialize router
	router := api.NewProxyRouter(services, tracer, recorder, logger)

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("proxy starting", zap.String("port", cfg.Port), zap.String("platform", cfg.RiotPlatform))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("failed to start server", zap.Error(err))
			stop()
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()

	logger.Info("shutting down proxy")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("failed to flush traces", zap.Error(err))
	}

	logger.Info("proxy stopped")
}
