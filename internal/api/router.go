package api

import (
	"net/http"

	"github.com/dom/league-rest-explorer/internal/api/handlers"
	"github.com/dom/league-rest-explorer/internal/api/middleware"
	"github.com/dom/league-rest-explorer/internal/dashboard"
	"github.com/dom/league-rest-explorer/internal/ddragon"
	"github.com/dom/league-rest-explorer/internal/preferences"
	"github.com/dom/league-rest-explorer/internal/service"
	"github.com/dom/league-rest-explorer/internal/telemetry"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

func health(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}

// NewProxyRouter serves the uniform /api endpoint and the champion cache.
func NewProxyRouter(services *service.Services, tracer trace.Tracer, recorder *telemetry.LayerRecorder, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS)

	r.Get("/health", health)

	proxyHandler := handlers.NewProxyHandler(services.Proxy, tracer, recorder, logger)
	championHandler := handlers.NewChampionHandler(services.Champion, logger)

	r.Get("/api", proxyHandler.Get)

	r.Route("/api/v1/champions", func(r chi.Router) {
		r.Get("/", championHandler.GetAll)
		r.Get("/{id}", championHandler.Get)
		r.Post("/sync", championHandler.Sync)
	})

	return r
}

// NewDashboardRouter serves the dashboard session API and its event stream.
func NewDashboardRouter(store *dashboard.Store, tokens *service.TokenService, dd *ddragon.Client, prefs *preferences.Store, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS)

	r.Get("/health", health)

	sessionHandler := handlers.NewSessionHandler(store, tokens, logger)
	sectionHandler := handlers.NewSectionHandler(logger)
	selectionHandler := handlers.NewSelectionHandler(dd)
	themeHandler := handlers.NewThemeHandler(prefs, logger)
	wsHandler := handlers.NewWebSocketHandler(store, tokens, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/sessions", sessionHandler.Create)

		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Use(middleware.Session(tokens, store, logger))

			r.Delete("/", sessionHandler.Delete)
			r.Get("/sections", sectionHandler.List)
			r.Get("/sections/{section}", sectionHandler.Get)
			r.Post("/sections/{section}/fetch", sectionHandler.Fetch)
			r.Post("/sections/{section}/reset", sectionHandler.Reset)
			r.Post("/refresh", sectionHandler.Refresh)
			r.Get("/selection", selectionHandler.Get)
			r.Put("/selection", selectionHandler.Update)
		})

		r.Get("/champions", selectionHandler.Champions)

		r.Get("/theme", themeHandler.Get)
		r.Put("/theme", themeHandler.Update)

		// WebSocket endpoint
		r.Get("/ws", wsHandler.Handle)
	})

	return r
}
