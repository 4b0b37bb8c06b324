package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/dom/league-rest-explorer/internal/api"
	"github.com/dom/league-rest-explorer/internal/client"
	"github.com/dom/league-rest-explorer/internal/dashboard"
	"github.com/dom/league-rest-explorer/internal/ddragon"
	"github.com/dom/league-rest-explorer/internal/preferences"
	"github.com/dom/league-rest-explorer/internal/service"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const sweepInterval = 5 * time.Minute

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard API and event stream",
	Long: `Serves dashboard sessions on DASHBOARD_PORT. Each session keeps its own
selection and per-section data mode; sessions idle for SESSION_TTL expire.

Requires JWT_SECRET for session tokens.`,
	RunE: runServe,
}

// newRunners wires every section to the proxy and Data Dragon.
func newRunners() []dashboard.Runner {
	proxy := client.New(cfg.APIBaseURL, cfg.HTTPTimeout)
	return dashboard.Sources(proxy, newDataDragon())
}

func newDataDragon() *ddragon.Client {
	return ddragon.NewClient(ddragonURL, cfg.DataDragonVersion, cfg.HTTPTimeout)
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := cfg.ValidateDashboard(); err != nil {
		return err
	}

	prefs, err := preferences.NewStore(prefsDir)
	if err != nil {
		return err
	}

	runners := newRunners()
	store := dashboard.NewStore(func(id uuid.UUID) *dashboard.Session {
		return dashboard.NewSession(id, runners, logger)
	}, cfg.SessionTTL)
	defer store.Close()

	tokens := service.NewTokenService(cfg.JWTSecret, cfg.SessionTTL)
	router := api.NewDashboardRouter(store, tokens, newDataDragon(), prefs, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go store.RunSweeper(ctx, sweepInterval)

	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.DashboardPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("dashboard starting",
			zap.String("port", cfg.DashboardPort),
			zap.String("api", cfg.APIBaseURL),
			zap.String("preferences", prefs.Path()),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down dashboard")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
