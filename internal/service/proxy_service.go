package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dom/league-rest-explorer/internal/config"
	"github.com/dom/league-rest-explorer/internal/domain"
	"github.com/dom/league-rest-explorer/internal/repository"
	"github.com/dom/league-rest-explorer/internal/riot"
	"github.com/dom/league-rest-explorer/internal/telemetry"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

const (
	CacheHit  = "HIT"
	CacheMiss = "MISS"

	topMasteryCount  = 5
	challengerLimit  = 10
	maxTeamFetchers  = 4
	componentEsports = "lolesports-api"
	componentRiot    = "riot-api"
)

var ErrNotConfigured = errors.New("proxy is missing upstream configuration")

// endpointTTL is how long each endpoint's upstream payload may be reused.
var endpointTTL = map[string]time.Duration{
	domain.EndpointContests:          time.Hour,
	domain.EndpointSummoners:         time.Hour,
	domain.EndpointChampionMastery:   5 * time.Minute,
	domain.EndpointChallenger:        time.Minute,
	domain.EndpointChampionRotations: time.Hour,
}

// slug words that are acronyms rather than title-cased words
var slugAcronyms = map[string]string{
	"msi": "MSI",
	"lck": "LCK",
	"lec": "LEC",
	"lcs": "LCS",
	"lpl": "LPL",
	"lta": "LTA",
}

// RiotAPI is the upstream surface the proxy needs.
type RiotAPI interface {
	Tournaments(ctx context.Context, leagueID string) ([]riot.Tournament, error)
	Team(ctx context.Context, slug string) (*riot.Team, error)
	TopMasteries(ctx context.Context, puuid string, count int) ([]riot.Mastery, error)
	ChampionMastery(ctx context.Context, puuid, championKey string) (*riot.Mastery, error)
	ChallengerLeague(ctx context.Context, queue string) (*riot.League, error)
	ChampionRotations(ctx context.Context) (*riot.Rotation, error)
}

type ProxyRequest struct {
	Endpoint string
	Year     string
	Champion string
	Trace    bool
	Config   bool
}

func (r ProxyRequest) cacheKey() string {
	return strings.Join([]string{r.Endpoint, r.Year, strings.ToLower(r.Champion)}, "|")
}

type ProxyResponse struct {
	Data   any
	Cache  string
	MaxAge time.Duration
}

// ProxyService answers the uniform GET /api?endpoint=... interface from the
// Riot upstreams.
type ProxyService struct {
	riot      RiotAPI
	champions repository.ChampionRepository
	cfg       *config.Config
	tracer    trace.Tracer
	cache     *responseCache
	logger    *zap.Logger
}

func NewProxyService(riotAPI RiotAPI, champions repository.ChampionRepository, cfg *config.Config, tracer trace.Tracer, logger *zap.Logger) *ProxyService {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProxyService{
		riot:      riotAPI,
		champions: champions,
		cfg:       cfg,
		tracer:    tracer,
		cache:     newResponseCache(),
		logger:    logger,
	}
}

func (s *ProxyService) Handle(ctx context.Context, req ProxyRequest) (*ProxyResponse, error) {
	ttl, ok := endpointTTL[req.Endpoint]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownEndpoint, req.Endpoint)
	}

	key := req.cacheKey()
	_, cacheSpan := s.tracer.Start(ctx, "cache.lookup", telemetry.Layer("cache", "response-cache"))
	data, hit := s.cache.get(key)
	status := CacheMiss
	if hit {
		status = CacheHit
	}
	telemetry.SetStatus(cacheSpan, status)
	cacheSpan.End()

	if !hit {
		var err error
		data, err = s.load(ctx, req)
		if err != nil {
			return nil, err
		}
		s.cache.set(key, data, ttl)
	}

	if req.Config && req.Endpoint == domain.EndpointChampionRotations {
		rotations, _ := data.([]domain.RotationRecord)
		data = BuildUIConfig(rotations)
	}

	return &ProxyResponse{Data: data, Cache: status, MaxAge: ttl}, nil
}

// RunCacheJanitor purges expired responses until ctx is done.
func (s *ProxyService) RunCacheJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.cache.purge(); n > 0 {
				s.logger.Debug("purged expired responses", zap.Int("count", n))
			}
		}
	}
}

func (s *ProxyService) load(ctx context.Context, req ProxyRequest) (any, error) {
	ctx, span := s.tracer.Start(ctx, "proxy."+req.Endpoint, telemetry.Layer("proxy", "riot-proxy"))
	defer span.End()

	var (
		data any
		err  error
	)
	switch req.Endpoint {
	case domain.EndpointContests:
		data, err = s.contests(ctx, req.Year)
	case domain.EndpointSummoners:
		data, err = s.summoners(ctx)
	case domain.EndpointChampionMastery:
		data, err = s.mastery(ctx, req.Champion)
	case domain.EndpointChallenger:
		data, err = s.challenger(ctx)
	case domain.EndpointChampionRotations:
		data, err = s.rotations(ctx)
	}

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		telemetry.SetStatus(span, "error")
		s.logger.Warn("upstream request failed", zap.String("endpoint", req.Endpoint), zap.Error(err))
		return nil, err
	}
	telemetry.SetStatus(span, "ok")
	return data, nil
}

// origin wraps one upstream call in an origin-layer span.
func (s *ProxyService) origin(ctx context.Context, component string, call func(context.Context) (string, error)) error {
	ctx, span := s.tracer.Start(ctx, "origin."+component, telemetry.Layer("origin", component))
	defer span.End()

	detail, err := call(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		telemetry.SetStatus(span, "error")
		return err
	}
	telemetry.SetDetail(span, detail)
	return nil
}

func (s *ProxyService) contests(ctx context.Context, year string) ([]domain.ContestRecord, error) {
	var tournaments []riot.Tournament
	err := s.origin(ctx, componentEsports, func(ctx context.Context) (string, error) {
		var err error
		tournaments, err = s.riot.Tournaments(ctx, s.cfg.EsportsLeagueID)
		return fmt.Sprintf("%d tournaments", len(tournaments)), err
	})
	if err != nil {
		return nil, err
	}

	out := []domain.ContestRecord{}
	for _, t := range tournaments {
		if year != "" && !strings.HasPrefix(t.StartDate, year) {
			continue
		}
		out = append(out, domain.ContestRecord{
			ID:        t.ID,
			Slug:      t.Slug,
			Name:      TournamentName(t.Slug),
			StartDate: t.StartDate,
			EndDate:   t.EndDate,
		})
	}
	return out, nil
}

func (s *ProxyService) summoners(ctx context.Context) ([]domain.SummonerRecord, error) {
	slugs := s.cfg.EsportsTeams
	teams := make([]*riot.Team, len(slugs))

	err := s.origin(ctx, componentEsports, func(ctx context.Context) (string, error) {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(maxTeamFetchers)
		for i, slug := range slugs {
			g.Go(func() error {
				team, err := s.riot.Team(gctx, slug)
				if err != nil {
					return fmt.Errorf("team %s: %w", slug, err)
				}
				teams[i] = team
				return nil
			})
		}
		return fmt.Sprintf("%d teams", len(slugs)), g.Wait()
	})
	if err != nil {
		return nil, err
	}

	out := []domain.SummonerRecord{}
	for _, team := range teams {
		for _, p := range team.Players {
			out = append(out, domain.SummonerRecord{
				SummonerName: p.SummonerName,
				FirstName:    p.FirstName,
				LastName:     p.LastName,
				Role:         p.Role,
				Team:         team.Name,
			})
		}
	}
	return out, nil
}

func (s *ProxyService) mastery(ctx context.Context, champion string) ([]domain.MasteryRecord, error) {
	if s.cfg.RiotPUUID == "" {
		return nil, fmt.Errorf("%w: RIOT_PUUID is not set", ErrNotConfigured)
	}

	if champion == "" {
		var top []riot.Mastery
		err := s.origin(ctx, componentRiot, func(ctx context.Context) (string, error) {
			var err error
			top, err = s.riot.TopMasteries(ctx, s.cfg.RiotPUUID, topMasteryCount)
			return fmt.Sprintf("top %d", len(top)), err
		})
		if err != nil {
			return nil, err
		}
		out := make([]domain.MasteryRecord, 0, len(top))
		for _, m := range top {
			out = append(out, masteryRecord(m, s.championName(ctx, m.ChampionID)))
		}
		return out, nil
	}

	resolved, err := s.resolveChampion(ctx, champion)
	if err != nil {
		return nil, err
	}
	var m *riot.Mastery
	err = s.origin(ctx, componentRiot, func(ctx context.Context) (string, error) {
		var err error
		m, err = s.riot.ChampionMastery(ctx, s.cfg.RiotPUUID, resolved.Key)
		return resolved.Name, err
	})
	if err != nil {
		return nil, err
	}
	return []domain.MasteryRecord{masteryRecord(*m, resolved.Name)}, nil
}

func (s *ProxyService) challenger(ctx context.Context) ([]domain.ChallengerRecord, error) {
	var league *riot.League
	err := s.origin(ctx, componentRiot, func(ctx context.Context) (string, error) {
		var err error
		league, err = s.riot.ChallengerLeague(ctx, riot.QueueRankedSolo)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d entries", len(league.Entries)), nil
	})
	if err != nil {
		return nil, err
	}

	entries := league.Entries
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].LeaguePoints > entries[j].LeaguePoints
	})
	entries = entries[:min(challengerLimit, len(entries))]

	out := make([]domain.ChallengerRecord, 0, len(entries))
	for _, e := range entries {
		out = append(out, domain.ChallengerRecord{
			PUUID:        e.PUUID,
			LeaguePoints: e.LeaguePoints,
			Rank:         e.Rank,
			Wins:         e.Wins,
			Losses:       e.Losses,
		})
	}
	return out, nil
}

func (s *ProxyService) rotations(ctx context.Context) ([]domain.RotationRecord, error) {
	var rot *riot.Rotation
	err := s.origin(ctx, componentRiot, func(ctx context.Context) (string, error) {
		var err error
		rot, err = s.riot.ChampionRotations(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d free", len(rot.FreeChampionIDs)), nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.RotationRecord, 0, len(rot.FreeChampionIDs)+len(rot.FreeChampionIDsForNewPlayers))
	for _, id := range rot.FreeChampionIDs {
		out = append(out, domain.RotationRecord{ChampionID: id, ChampionName: s.championName(ctx, id)})
	}
	for _, id := range rot.FreeChampionIDsForNewPlayers {
		out = append(out, domain.RotationRecord{ChampionID: id, ChampionName: s.championName(ctx, id), NewPlayersOnly: true})
	}
	return out, nil
}

// resolveChampion maps a display name such as "Kai'Sa" to its cached row.
func (s *ProxyService) resolveChampion(ctx context.Context, name string) (*domain.Champion, error) {
	if s.champions == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrChampionMissing, name)
	}
	lookup := name
	if opt, ok := domain.LookupChampion(name); ok {
		lookup = opt.ID
	}
	c, err := s.champions.GetByName(ctx, lookup)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", domain.ErrChampionMissing, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve champion: %w", err)
	}
	return c, nil
}

// championName is best effort; an unknown key yields an empty name.
func (s *ProxyService) championName(ctx context.Context, id int) string {
	if s.champions == nil {
		return ""
	}
	c, err := s.champions.GetByKey(ctx, strconv.Itoa(id))
	if err != nil {
		return ""
	}
	return c.Name
}

func masteryRecord(m riot.Mastery, name string) domain.MasteryRecord {
	return domain.MasteryRecord{
		ChampionID:     m.ChampionID,
		ChampionName:   name,
		ChampionLevel:  m.ChampionLevel,
		ChampionPoints: m.ChampionPoints,
		LastPlayTime:   m.LastPlayTime,
	}
}

// TournamentName derives a display name from an esports slug, e.g.
// "msi_2024" becomes "MSI 2024".
func TournamentName(slug string) string {
	caser := cases.Title(language.English)
	words := strings.FieldsFunc(slug, func(r rune) bool { return r == '_' || r == '-' })
	for i, w := range words {
		if acronym, ok := slugAcronyms[strings.ToLower(w)]; ok {
			words[i] = acronym
			continue
		}
		words[i] = caser.String(w)
	}
	return strings.Join(words, " ")
}
