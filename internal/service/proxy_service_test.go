package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dom/league-rest-explorer/internal/config"
	"github.com/dom/league-rest-explorer/internal/domain"
	"github.com/dom/league-rest-explorer/internal/riot"
	"github.com/dom/league-rest-explorer/internal/service"
	"github.com/dom/league-rest-explorer/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func testConfig() *config.Config {
	return &config.Config{
		RiotPUUID:       "puuid-1",
		EsportsLeagueID: "98767975604431411",
		EsportsTeams:    []string{"t1", "gen-g"},
	}
}

func seededChampions() *memChampions {
	return newMemChampions(
		&domain.Champion{ID: "Ahri", Key: "103", Name: "Ahri"},
		&domain.Champion{ID: "Kaisa", Key: "145", Name: "Kai'Sa"},
		&domain.Champion{ID: "LeeSin", Key: "64", Name: "Lee Sin"},
	)
}

func TestProxyService_UnknownEndpoint(t *testing.T) {
	svc := service.NewProxyService(&fakeRiot{}, nil, testConfig(), nil, nil)

	_, err := svc.Handle(context.Background(), service.ProxyRequest{Endpoint: "matches"})
	assert.ErrorIs(t, err, domain.ErrUnknownEndpoint)
}

func TestProxyService_ContestsFilteredAndCached(t *testing.T) {
	upstream := &fakeRiot{tournaments: []riot.Tournament{
		{ID: "1", Slug: "worlds_2024", StartDate: "2024-09-25", EndDate: "2024-11-02"},
		{ID: "2", Slug: "msi_2024", StartDate: "2024-05-01", EndDate: "2024-05-19"},
		{ID: "3", Slug: "worlds_2023", StartDate: "2023-10-10", EndDate: "2023-11-19"},
	}}
	svc := service.NewProxyService(upstream, nil, testConfig(), nil, nil)
	ctx := context.Background()
	req := service.ProxyRequest{Endpoint: domain.EndpointContests, Year: "2024"}

	resp, err := svc.Handle(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, service.CacheMiss, resp.Cache)
	assert.Equal(t, time.Hour, resp.MaxAge)
	assert.Equal(t, []domain.ContestRecord{
		{ID: "1", Slug: "worlds_2024", Name: "Worlds 2024", StartDate: "2024-09-25", EndDate: "2024-11-02"},
		{ID: "2", Slug: "msi_2024", Name: "MSI 2024", StartDate: "2024-05-01", EndDate: "2024-05-19"},
	}, resp.Data)

	resp, err = svc.Handle(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, service.CacheHit, resp.Cache)
	assert.Equal(t, 1, upstream.count("tournaments"))

	// A different year is a different cache entry.
	resp, err = svc.Handle(ctx, service.ProxyRequest{Endpoint: domain.EndpointContests, Year: "2023"})
	require.NoError(t, err)
	assert.Equal(t, service.CacheMiss, resp.Cache)
	assert.Len(t, resp.Data, 1)
}

func TestProxyService_SummonersKeepTeamOrder(t *testing.T) {
	upstream := &fakeRiot{teams: map[string]*riot.Team{
		"t1":    {Slug: "t1", Name: "T1", Players: []riot.Player{{SummonerName: "Faker", FirstName: "Sang-hyeok", LastName: "Lee", Role: "mid"}}},
		"gen-g": {Slug: "gen-g", Name: "Gen.G", Players: []riot.Player{{SummonerName: "Chovy", Role: "mid"}, {SummonerName: "Canyon", Role: "jungle"}}},
	}}
	svc := service.NewProxyService(upstream, nil, testConfig(), nil, nil)

	resp, err := svc.Handle(context.Background(), service.ProxyRequest{Endpoint: domain.EndpointSummoners})
	require.NoError(t, err)

	rows := resp.Data.([]domain.SummonerRecord)
	require.Len(t, rows, 3)
	assert.Equal(t, "Faker", rows[0].SummonerName)
	assert.Equal(t, "T1", rows[0].Team)
	assert.Equal(t, "Gen.G", rows[2].Team)
	assert.Equal(t, 2, upstream.count("team"))
}

func TestProxyService_SummonersMissingTeam(t *testing.T) {
	upstream := &fakeRiot{teams: map[string]*riot.Team{"t1": {Slug: "t1", Name: "T1"}}}
	svc := service.NewProxyService(upstream, nil, testConfig(), nil, nil)

	_, err := svc.Handle(context.Background(), service.ProxyRequest{Endpoint: domain.EndpointSummoners})
	assert.ErrorIs(t, err, riot.ErrNotFound)
}

func TestProxyService_Mastery(t *testing.T) {
	upstream := &fakeRiot{
		top: []riot.Mastery{
			{ChampionID: 103, ChampionLevel: 7, ChampionPoints: 250000},
			{ChampionID: 999, ChampionLevel: 5, ChampionPoints: 1000},
		},
		byChampion: map[string]*riot.Mastery{
			"145": {ChampionID: 145, ChampionLevel: 6, ChampionPoints: 90000, LastPlayTime: 1700000000000},
		},
	}
	ctx := context.Background()

	t.Run("top champions", func(t *testing.T) {
		svc := service.NewProxyService(upstream, seededChampions(), testConfig(), nil, nil)
		resp, err := svc.Handle(ctx, service.ProxyRequest{Endpoint: domain.EndpointChampionMastery})
		require.NoError(t, err)
		rows := resp.Data.([]domain.MasteryRecord)
		require.Len(t, rows, 2)
		assert.Equal(t, "Ahri", rows[0].ChampionName)
		assert.Empty(t, rows[1].ChampionName)
	})

	t.Run("selected champion resolves to key", func(t *testing.T) {
		svc := service.NewProxyService(upstream, seededChampions(), testConfig(), nil, nil)
		resp, err := svc.Handle(ctx, service.ProxyRequest{Endpoint: domain.EndpointChampionMastery, Champion: "Kai'Sa"})
		require.NoError(t, err)
		assert.Equal(t, []domain.MasteryRecord{{
			ChampionID: 145, ChampionName: "Kai'Sa", ChampionLevel: 6, ChampionPoints: 90000, LastPlayTime: 1700000000000,
		}}, resp.Data)
		assert.Equal(t, 1, upstream.count("mastery:145"))
	})

	t.Run("champion not cached", func(t *testing.T) {
		svc := service.NewProxyService(upstream, newMemChampions(), testConfig(), nil, nil)
		_, err := svc.Handle(ctx, service.ProxyRequest{Endpoint: domain.EndpointChampionMastery, Champion: "Lux"})
		assert.ErrorIs(t, err, domain.ErrChampionMissing)
	})

	t.Run("no puuid", func(t *testing.T) {
		cfg := testConfig()
		cfg.RiotPUUID = ""
		svc := service.NewProxyService(upstream, seededChampions(), cfg, nil, nil)
		_, err := svc.Handle(ctx, service.ProxyRequest{Endpoint: domain.EndpointChampionMastery})
		assert.ErrorIs(t, err, service.ErrNotConfigured)
	})
}

func TestProxyService_ChallengerSortedAndLimited(t *testing.T) {
	entries := make([]riot.LeagueEntry, 0, 15)
	for i := 0; i < 15; i++ {
		entries = append(entries, riot.LeagueEntry{PUUID: fmt.Sprintf("p%d", i), LeaguePoints: 1000 + i*10})
	}
	upstream := &fakeRiot{league: &riot.League{Tier: "CHALLENGER", Entries: entries}}
	svc := service.NewProxyService(upstream, nil, testConfig(), nil, nil)

	resp, err := svc.Handle(context.Background(), service.ProxyRequest{Endpoint: domain.EndpointChallenger})
	require.NoError(t, err)

	rows := resp.Data.([]domain.ChallengerRecord)
	require.Len(t, rows, 10)
	assert.Equal(t, "p14", rows[0].PUUID)
	for i := 1; i < len(rows); i++ {
		assert.GreaterOrEqual(t, rows[i-1].LeaguePoints, rows[i].LeaguePoints)
	}
}

func TestProxyService_RotationsAndConfig(t *testing.T) {
	upstream := &fakeRiot{rotation: &riot.Rotation{
		FreeChampionIDs:              []int{103, 145},
		FreeChampionIDsForNewPlayers: []int{64},
	}}
	svc := service.NewProxyService(upstream, seededChampions(), testConfig(), nil, nil)
	ctx := context.Background()

	resp, err := svc.Handle(ctx, service.ProxyRequest{Endpoint: domain.EndpointChampionRotations, Config: true})
	require.NoError(t, err)
	configs := resp.Data.([]domain.ConfigRecord)
	assert.Contains(t, configs, domain.ConfigRecord{Key: "highlight", Value: "Ahri, Kai'Sa", Description: "Champions to badge as free this week"})

	// The cached payload is still the rotation itself.
	resp, err = svc.Handle(ctx, service.ProxyRequest{Endpoint: domain.EndpointChampionRotations})
	require.NoError(t, err)
	assert.Equal(t, service.CacheHit, resp.Cache)
	assert.Equal(t, []domain.RotationRecord{
		{ChampionID: 103, ChampionName: "Ahri"},
		{ChampionID: 145, ChampionName: "Kai'Sa"},
		{ChampionID: 64, ChampionName: "Lee Sin", NewPlayersOnly: true},
	}, resp.Data)
	assert.Equal(t, 1, upstream.count("rotations"))
}

func TestProxyService_UpstreamErrorsAreNotCached(t *testing.T) {
	upstream := &fakeRiot{err: riot.ErrUnauthorized}
	svc := service.NewProxyService(upstream, nil, testConfig(), nil, nil)
	ctx := context.Background()
	req := service.ProxyRequest{Endpoint: domain.EndpointChampionRotations}

	_, err := svc.Handle(ctx, req)
	assert.ErrorIs(t, err, riot.ErrUnauthorized)
	_, err = svc.Handle(ctx, req)
	assert.ErrorIs(t, err, riot.ErrUnauthorized)
	assert.Equal(t, 2, upstream.count("rotations"))
}

func TestProxyService_TraceLayers(t *testing.T) {
	rec := telemetry.NewLayerRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	tracer := tp.Tracer("test")

	upstream := &fakeRiot{league: &riot.League{Entries: []riot.LeagueEntry{{PUUID: "p1", LeaguePoints: 1500}}}}
	svc := service.NewProxyService(upstream, nil, testConfig(), tracer, nil)

	ctx, root := tracer.Start(context.Background(), "gateway", telemetry.Layer("gateway", "api-gateway"))
	rec.Watch(root.SpanContext().TraceID())
	_, err := svc.Handle(ctx, service.ProxyRequest{Endpoint: domain.EndpointChallenger, Trace: true})
	require.NoError(t, err)
	root.End()

	hops := rec.Take(root.SpanContext().TraceID())
	require.Len(t, hops, 4)
	layers := []string{hops[0].Layer, hops[1].Layer, hops[2].Layer, hops[3].Layer}
	assert.Equal(t, []string{"gateway", "cache", "proxy", "origin"}, layers)
	assert.Equal(t, service.CacheMiss, hops[1].Status)
	assert.Equal(t, "riot-api", hops[3].Component)
	assert.Equal(t, "1 entries", hops[3].Detail)
}

func TestTournamentName(t *testing.T) {
	tests := []struct {
		slug string
		want string
	}{
		{slug: "worlds_2024", want: "Worlds 2024"},
		{slug: "msi_2024", want: "MSI 2024"},
		{slug: "lck_summer_2024", want: "LCK Summer 2024"},
		{slug: "first-stand-2025", want: "First Stand 2025"},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			assert.Equal(t, tt.want, service.TournamentName(tt.slug))
		})
	}
}
