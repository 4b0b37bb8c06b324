package service_test

import (
	"context"
	"strings"
	"sync"

	"github.com/dom/league-rest-explorer/internal/domain"
	"github.com/dom/league-rest-explorer/internal/riot"
	"gorm.io/gorm"
)

type fakeRiot struct {
	mu    sync.Mutex
	calls map[string]int

	tournaments []riot.Tournament
	teams       map[string]*riot.Team
	top         []riot.Mastery
	byChampion  map[string]*riot.Mastery
	league      *riot.League
	rotation    *riot.Rotation
	err         error
}

func (f *fakeRiot) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[name]++
	return f.err
}

func (f *fakeRiot) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeRiot) Tournaments(ctx context.Context, leagueID string) ([]riot.Tournament, error) {
	if err := f.record("tournaments"); err != nil {
		return nil, err
	}
	return f.tournaments, nil
}

func (f *fakeRiot) Team(ctx context.Context, slug string) (*riot.Team, error) {
	if err := f.record("team"); err != nil {
		return nil, err
	}
	t, ok := f.teams[slug]
	if !ok {
		return nil, riot.ErrNotFound
	}
	return t, nil
}

func (f *fakeRiot) TopMasteries(ctx context.Context, puuid string, count int) ([]riot.Mastery, error) {
	if err := f.record("top"); err != nil {
		return nil, err
	}
	return f.top, nil
}

func (f *fakeRiot) ChampionMastery(ctx context.Context, puuid, championKey string) (*riot.Mastery, error) {
	if err := f.record("mastery:" + championKey); err != nil {
		return nil, err
	}
	m, ok := f.byChampion[championKey]
	if !ok {
		return nil, riot.ErrNotFound
	}
	return m, nil
}

func (f *fakeRiot) ChallengerLeague(ctx context.Context, queue string) (*riot.League, error) {
	if err := f.record("challenger"); err != nil {
		return nil, err
	}
	return f.league, nil
}

func (f *fakeRiot) ChampionRotations(ctx context.Context) (*riot.Rotation, error) {
	if err := f.record("rotations"); err != nil {
		return nil, err
	}
	return f.rotation, nil
}

// memChampions is an in-memory ChampionRepository.
type memChampions struct {
	mu   sync.Mutex
	rows map[string]*domain.Champion
}

func newMemChampions(rows ...*domain.Champion) *memChampions {
	m := &memChampions{rows: make(map[string]*domain.Champion)}
	for _, r := range rows {
		m.rows[r.ID] = r
	}
	return m
}

func (m *memChampions) Upsert(ctx context.Context, c *domain.Champion) error {
	return m.UpsertMany(ctx, []*domain.Champion{c})
}

func (m *memChampions) UpsertMany(ctx context.Context, cs []*domain.Champion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range cs {
		m.rows[c.ID] = c
	}
	return nil
}

func (m *memChampions) GetAll(ctx context.Context) ([]*domain.Champion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Champion, 0, len(m.rows))
	for _, c := range m.rows {
		out = append(out, c)
	}
	return out, nil
}

func (m *memChampions) GetByID(ctx context.Context, id string) (*domain.Champion, error) {
	return m.find(func(c *domain.Champion) bool { return c.ID == id })
}

func (m *memChampions) GetByKey(ctx context.Context, key string) (*domain.Champion, error) {
	return m.find(func(c *domain.Champion) bool { return c.Key == key })
}

func (m *memChampions) GetByName(ctx context.Context, name string) (*domain.Champion, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	return m.find(func(c *domain.Champion) bool {
		return strings.ToLower(c.Name) == n || strings.ToLower(c.ID) == n
	})
}

func (m *memChampions) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.rows)), nil
}

func (m *memChampions) find(match func(*domain.Champion) bool) (*domain.Champion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.rows {
		if match(c) {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
