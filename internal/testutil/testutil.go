package testutil

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dom/league-rest-explorer/internal/api"
	"github.com/dom/league-rest-explorer/internal/client"
	"github.com/dom/league-rest-explorer/internal/config"
	"github.com/dom/league-rest-explorer/internal/dashboard"
	"github.com/dom/league-rest-explorer/internal/ddragon"
	"github.com/dom/league-rest-explorer/internal/domain"
	"github.com/dom/league-rest-explorer/internal/preferences"
	"github.com/dom/league-rest-explorer/internal/repository"
	repoPostgres "github.com/dom/league-rest-explorer/internal/repository/postgres"
	"github.com/dom/league-rest-explorer/internal/riot"
	"github.com/dom/league-rest-explorer/internal/service"
	"github.com/dom/league-rest-explorer/internal/telemetry"
	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB manages a testcontainers PostgreSQL instance
type TestDB struct {
	Container testcontainers.Container
	DB        *gorm.DB
	DSN       string
}

// NewTestDB creates a new PostgreSQL testcontainer and returns a connection
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	container, err := tcPostgres.Run(ctx,
		"postgres:15-alpine",
		tcPostgres.WithDatabase("test_league_rest"),
		tcPostgres.WithUsername("test"),
		tcPostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	db, err := gorm.Open(gormPostgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&domain.Champion{}); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	testDB := &TestDB{
		Container: container,
		DB:        db,
		DSN:       dsn,
	}

	t.Cleanup(func() {
		testDB.Cleanup()
	})

	return testDB
}

// Cleanup terminates the container
func (tdb *TestDB) Cleanup() {
	if tdb.Container != nil {
		ctx := context.Background()
		tdb.Container.Terminate(ctx)
	}
}

// Truncate clears all tables for test isolation
func (tdb *TestDB) Truncate(t *testing.T) {
	t.Helper()

	if err := tdb.DB.Exec("TRUNCATE TABLE champions CASCADE").Error; err != nil {
		t.Logf("warning: failed to truncate champions: %v", err)
	}
}

// TestConfig returns a configuration suitable for testing
func TestConfig() *config.Config {
	return &config.Config{
		Port:              "0", // Random port
		Environment:       "test",
		LogLevel:          "debug",
		RiotAPIKey:        "test-riot-key",
		EsportsAPIKey:     "test-esports-key",
		RiotPlatform:      "na1",
		RiotPUUID:         TestPUUID,
		EsportsLeagueID:   "98767975604431411",
		EsportsTeams:      []string{"t1", "gen-g"},
		DataDragonVersion: "14.1.1",
		JWTSecret:         "test-jwt-secret-key-for-testing-only",
		SessionTTL:        time.Hour,
		HTTPTimeout:       2 * time.Second,
	}
}

// TestServer holds all components of a proxy server for integration testing
type TestServer struct {
	Server     *httptest.Server
	Riot       *httptest.Server
	DataDragon *httptest.Server
	DB         *TestDB
	Repos      *repository.Repositories
	Services   *service.Services
	Recorder   *telemetry.LayerRecorder
	Config     *config.Config
}

// NewTestServer creates a proxy server backed by a postgres container and
// fake Riot and Data Dragon upstreams.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	testDB := NewTestDB(t)
	cfg := TestConfig()
	log := zap.NewNop()

	riotSrv := NewUpstream(t, RiotHandler())
	ddSrv := NewUpstream(t, DataDragonHandler())

	riotClient := riot.NewClient(riot.Options{
		PlatformBaseURL: riotSrv.URL,
		EsportsBaseURL:  riotSrv.URL + "/gw",
		APIKey:          cfg.RiotAPIKey,
		EsportsAPIKey:   cfg.EsportsAPIKey,
		Timeout:         cfg.HTTPTimeout,
	})
	dd := ddragon.NewClient(ddSrv.URL, cfg.DataDragonVersion, cfg.HTTPTimeout)

	recorder := telemetry.NewLayerRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { tp.Shutdown(context.Background()) })
	tracer := tp.Tracer("league-rest-proxy-test")

	repos := repoPostgres.NewRepositories(testDB.DB)
	services := service.NewServices(repos, cfg, riotClient, dd, tracer, log)
	router := api.NewProxyRouter(services, tracer, recorder, log)

	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:     server,
		Riot:       riotSrv,
		DataDragon: ddSrv,
		DB:         testDB,
		Repos:      repos,
		Services:   services,
		Recorder:   recorder,
		Config:     cfg,
	}

	t.Cleanup(func() {
		server.Close()
	})

	return ts
}

// BaseURL returns the test server's base URL
func (ts *TestServer) BaseURL() string {
	return ts.Server.URL
}

// APIURL returns the full API URL for a given path
func (ts *TestServer) APIURL(path string) string {
	return fmt.Sprintf("%s/api/v1%s", ts.Server.URL, path)
}

// ProxyURL returns the uniform /api endpoint URL
func (ts *TestServer) ProxyURL() string {
	return ts.Server.URL + "/api"
}

// DashboardServer holds a dashboard server wired to a proxy URL
type DashboardServer struct {
	Server *httptest.Server
	Store  *dashboard.Store
	Tokens *service.TokenService
	Prefs  *preferences.Store
	Config *config.Config
}

// NewDashboardServer creates a dashboard server whose sections read from
// proxyURL and whose Data Dragon section reads from ddURL.
func NewDashboardServer(t *testing.T, proxyURL, ddURL string) *DashboardServer {
	t.Helper()

	cfg := TestConfig()
	log := zap.NewNop()

	proxy := client.New(proxyURL, cfg.HTTPTimeout)
	dd := ddragon.NewClient(ddURL, cfg.DataDragonVersion, cfg.HTTPTimeout)
	runners := dashboard.Sources(proxy, dd)

	store := dashboard.NewStore(func(id uuid.UUID) *dashboard.Session {
		return dashboard.NewSession(id, runners, log)
	}, cfg.SessionTTL)
	t.Cleanup(store.Close)

	prefs, err := preferences.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create preferences store: %v", err)
	}

	tokens := service.NewTokenService(cfg.JWTSecret, cfg.SessionTTL)
	router := api.NewDashboardRouter(store, tokens, dd, prefs, log)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &DashboardServer{
		Server: server,
		Store:  store,
		Tokens: tokens,
		Prefs:  prefs,
		Config: cfg,
	}
}

// APIURL returns the full API URL for a given path
func (ds *DashboardServer) APIURL(path string) string {
	return fmt.Sprintf("%s/api/v1%s", ds.Server.URL, path)
}

// WebSocketURL returns the WebSocket URL with token
func (ds *DashboardServer) WebSocketURL(token string) string {
	wsURL := "ws" + ds.Server.URL[4:] // Replace "http" with "ws"
	return fmt.Sprintf("%s/api/v1/ws?token=%s", wsURL, token)
}
