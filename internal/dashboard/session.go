package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/dom/league-rest-explorer/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	bannerNeverFetched = "Showing demo data. Fetch to load live data."
	bannerFallback     = "Showing demo data: live data is unavailable."
)

// View is what the view layer needs to render one section.
type View struct {
	Section     domain.SectionInfo `json:"section"`
	Mode        domain.DataMode    `json:"mode"`
	LastUpdated *time.Time         `json:"lastUpdated,omitempty"`
	Selection   domain.Selection   `json:"selection"`
	Rows        any                `json:"rows"`
	Count       int                `json:"count"`
	Banner      string             `json:"banner,omitempty"`
	Stale       bool               `json:"stale,omitempty"`
}

type sectionRows struct {
	rows   any
	count  int
	failed bool
}

// Session is the client state of one dashboard page session: the mode
// tracker, the selection context and the last rows shown per section.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time

	Bus          *Bus
	Modes        *ModeTracker
	Selection    *SelectionContext
	Orchestrator *Orchestrator

	runners map[domain.Section]Runner
	logger  *zap.Logger

	mu       sync.Mutex
	rows     map[domain.Section]sectionRows
	lastSeen time.Time
}

func NewSession(id uuid.UUID, runners []Runner, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("session", id.String()))

	bus := NewBus()
	modes := NewModeTracker(bus)
	selection := NewSelectionContext(bus)

	s := &Session{
		ID:           id,
		CreatedAt:    time.Now(),
		Bus:          bus,
		Modes:        modes,
		Selection:    selection,
		Orchestrator: NewOrchestrator(modes, selection, bus, logger),
		runners:      make(map[domain.Section]Runner, len(runners)),
		logger:       logger,
		rows:         make(map[domain.Section]sectionRows),
		lastSeen:     time.Now(),
	}
	for _, r := range runners {
		s.runners[r.SectionID()] = r
	}
	return s
}

func (s *Session) runner(section domain.Section) (Runner, error) {
	r, ok := s.runners[section]
	if !ok {
		return nil, domain.ErrUnknownSection
	}
	return r, nil
}

// View returns the rows currently shown for a section: the last fetch
// result, or demo rows for the current selection if nothing was fetched.
func (s *Session) View(section domain.Section) (View, error) {
	r, err := s.runner(section)
	if err != nil {
		return View{}, err
	}
	sel := s.Selection.Selection()

	s.mu.Lock()
	current, ok := s.rows[section]
	s.mu.Unlock()

	if !ok {
		rows, n := r.DemoRows(sel)
		current = sectionRows{rows: rows, count: n}
	}
	v := s.buildView(section, sel, current)
	if !ok {
		v.Banner = bannerNeverFetched
	}
	return v, nil
}

// Views returns every section's view in step order.
func (s *Session) Views() []View {
	out := make([]View, 0, len(s.runners))
	for _, info := range domain.Sections() {
		if v, err := s.View(info.ID); err == nil {
			out = append(out, v)
		}
	}
	return out
}

// Fetch runs the section's source through the orchestrator. Rows are stored
// together with the mode commit, so the stored rows always belong to the
// section's latest fetch or reset. A superseded fetch stores nothing and
// returns the section's current view flagged Stale.
func (s *Session) Fetch(ctx context.Context, section domain.Section) (View, error) {
	r, err := s.runner(section)
	if err != nil {
		return View{}, err
	}

	out := r.Run(ctx, s.Orchestrator, func(out Outcome) {
		s.store(section, sectionRows{rows: out.Rows, count: out.Count, failed: out.Err != nil})
	})

	if out.Stale {
		v, err := s.View(section)
		if err != nil {
			return View{}, err
		}
		v.Stale = true
		return v, nil
	}

	current := sectionRows{rows: out.Rows, count: out.Count, failed: out.Err != nil}
	v := s.buildView(section, out.Selection, current)
	v.Mode = out.Mode
	return v, nil
}

// Reset puts the section back on demo rows for the current selection.
func (s *Session) Reset(section domain.Section) (View, error) {
	r, err := s.runner(section)
	if err != nil {
		return View{}, err
	}
	sel := s.Selection.Selection()
	rows, n := r.DemoRows(sel)
	current := sectionRows{rows: rows, count: n}

	s.Orchestrator.reset(section, func() { s.store(section, current) })

	return s.buildView(section, sel, current), nil
}

func (s *Session) store(section domain.Section, current sectionRows) {
	s.mu.Lock()
	s.rows[section] = current
	s.mu.Unlock()
}

// RefreshAll fetches every section concurrently.
func (s *Session) RefreshAll(ctx context.Context) []View {
	infos := domain.Sections()
	views := make([]View, len(infos))

	g, ctx := errgroup.WithContext(ctx)
	for i, info := range infos {
		g.Go(func() error {
			v, err := s.Fetch(ctx, info.ID)
			if err != nil {
				return err
			}
			views[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error("refresh all failed", zap.Error(err))
	}
	return views
}

// Touch records activity for session expiry.
func (s *Session) Touch(at time.Time) {
	s.mu.Lock()
	s.lastSeen = at
	s.mu.Unlock()
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Close ends the session's event stream.
func (s *Session) Close() {
	s.Bus.Close()
}

func (s *Session) buildView(section domain.Section, sel domain.Selection, current sectionRows) View {
	info, _ := section.Info()
	v := View{
		Section:   info,
		Mode:      s.Modes.Mode(section),
		Selection: sel,
		Rows:      current.rows,
		Count:     current.count,
	}
	if at, ok := s.Modes.LastUpdated(section); ok {
		v.LastUpdated = &at
	}
	if v.Mode == domain.ModeDemo && current.failed {
		v.Banner = bannerFallback
	}
	return v
}

// Store keeps the live sessions of a dashboard server. Sessions idle for
// longer than the TTL are dropped by Sweep.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	factory  func(uuid.UUID) *Session
	ttl      time.Duration
	now      func() time.Time
}

func NewStore(factory func(uuid.UUID) *Session, ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[uuid.UUID]*Session),
		factory:  factory,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (st *Store) Create() *Session {
	s := st.factory(uuid.New())
	s.Touch(st.now())

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

func (st *Store) Get(id uuid.UUID) (*Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	s.Touch(st.now())
	return s, nil
}

func (st *Store) Delete(id uuid.UUID) error {
	st.mu.Lock()
	s, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()

	if !ok {
		return domain.ErrSessionNotFound
	}
	s.Close()
	return nil
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep closes and removes expired sessions and returns how many it removed.
func (st *Store) Sweep() int {
	if st.ttl <= 0 {
		return 0
	}
	cutoff := st.now().Add(-st.ttl)

	st.mu.Lock()
	var expired []*Session
	for id, s := range st.sessions {
		if s.LastSeen().Before(cutoff) {
			expired = append(expired, s)
			delete(st.sessions, id)
		}
	}
	st.mu.Unlock()

	for _, s := range expired {
		s.Close()
	}
	return len(expired)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (st *Store) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st.Sweep()
		}
	}
}

// Close closes every session.
func (st *Store) Close() {
	st.mu.Lock()
	sessions := st.sessions
	st.sessions = make(map[uuid.UUID]*Session)
	st.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
