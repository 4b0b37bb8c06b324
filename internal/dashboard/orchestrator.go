package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dom/league-rest-explorer/internal/domain"
	"go.uber.org/zap"
)

// ErrNoRows is reported when a live load succeeds but yields nothing to show.
var ErrNoRows = errors.New("live source returned no rows")

// Source describes how one section gets its rows: Load fetches live rows for
// the current selection, Demo produces the static fallback.
type Source[T any] struct {
	Section domain.Section
	Load    func(ctx context.Context, sel domain.Selection) ([]T, error)
	Demo    func(sel domain.Selection) []T
}

// Result is the outcome of one fetch attempt. Rows is never empty: on any
// failure it holds the demo fallback and Err records why.
type Result[T any] struct {
	Section   domain.Section
	Rows      []T
	Mode      domain.DataMode
	Selection domain.Selection
	Stale     bool
	Err       error
}

// Orchestrator runs fetch attempts for the sections of one session and
// reconciles their outcome with the mode tracker.
type Orchestrator struct {
	modes     *ModeTracker
	selection *SelectionContext
	notify    Notifier
	logger    *zap.Logger

	mu          sync.Mutex
	generations map[domain.Section]uint64
}

func NewOrchestrator(modes *ModeTracker, selection *SelectionContext, notify Notifier, logger *zap.Logger) *Orchestrator {
	if notify == nil {
		notify = nopNotifier{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		modes:       modes,
		selection:   selection,
		notify:      notify,
		logger:      logger,
		generations: make(map[domain.Section]uint64),
	}
}

// begin starts a new generation for the section, superseding any fetch
// still in flight.
func (o *Orchestrator) begin(section domain.Section) uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.generations[section]++
	return o.generations[section]
}

// commit sets the mode only if gen is still the section's latest fetch.
// apply runs under the same lock, so whatever it stores always matches the
// committed mode.
func (o *Orchestrator) commit(section domain.Section, gen uint64, mode domain.DataMode, apply func()) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.generations[section] != gen {
		return false
	}
	o.modes.SetMode(section, mode)
	if apply != nil {
		apply()
	}
	return true
}

// Reset supersedes any in-flight fetch for the section and puts it back on
// demo data.
func (o *Orchestrator) Reset(section domain.Section) {
	o.reset(section, nil)
}

func (o *Orchestrator) reset(section domain.Section, apply func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.generations[section]++
	o.modes.ResetToDemo(section)
	if apply != nil {
		apply()
	}
}

// Fetch attempts a live load for src and never fails: errors, empty results
// and panics in the loader all resolve to the demo rows with mode demo. A
// fetch superseded by a later one (or by Reset) returns Stale and leaves the
// mode tracker untouched.
func Fetch[T any](ctx context.Context, o *Orchestrator, src Source[T]) Result[T] {
	return fetch(ctx, o, src, nil)
}

// fetch is Fetch with a hook that receives the result while the commit lock
// is held. It is not called for superseded results.
func fetch[T any](ctx context.Context, o *Orchestrator, src Source[T], onCommit func(Result[T])) Result[T] {
	gen := o.begin(src.Section)
	sel := o.selection.Selection()
	started := time.Now()

	rows, err := safeLoad(ctx, src, sel)
	if err == nil && len(rows) == 0 {
		err = ErrNoRows
	}

	res := Result[T]{Section: src.Section, Selection: sel, Err: err}
	if err != nil {
		res.Mode = domain.ModeDemo
		res.Rows = src.Demo(sel)
	} else {
		res.Mode = domain.ModeLive
		res.Rows = rows
	}

	var apply func()
	if onCommit != nil {
		apply = func() { onCommit(res) }
	}
	if !o.commit(src.Section, gen, res.Mode, apply) {
		res.Stale = true
		o.logger.Debug("ignoring superseded fetch",
			zap.String("section", string(src.Section)),
			zap.Uint64("generation", gen))
		return res
	}

	if err != nil {
		o.logger.Warn("live fetch failed, using demo data",
			zap.String("section", string(src.Section)),
			zap.String("year", sel.Year),
			zap.String("champion", sel.Champion),
			zap.Error(err))
	} else {
		o.logger.Debug("live fetch succeeded",
			zap.String("section", string(src.Section)),
			zap.Int("rows", len(rows)),
			zap.Duration("elapsed", time.Since(started)))
	}

	o.notify.Publish(Event{
		Type:         EventSectionFetched,
		Section:      src.Section,
		Mode:         res.Mode,
		Selection:    &sel,
		At:           time.Now(),
		Announcement: fmt.Sprintf("%s updated with %d rows", sectionTitle(src.Section), len(res.Rows)),
	})
	return res
}

func safeLoad[T any](ctx context.Context, src Source[T], sel domain.Selection) (rows []T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("loader panic: %v", r)
		}
	}()
	if src.Load == nil {
		return nil, fmt.Errorf("no live source for %s", src.Section)
	}
	return src.Load(ctx, sel)
}

// Outcome is a Result with its rows type erased, for callers that dispatch
// on section identifiers.
type Outcome struct {
	Section   domain.Section
	Rows      any
	Count     int
	Mode      domain.DataMode
	Selection domain.Selection
	Stale     bool
	Err       error
}

// Runner is implemented by every Source and lets a session hold sources of
// different row types side by side.
type Runner interface {
	SectionID() domain.Section
	Run(ctx context.Context, o *Orchestrator, onCommit func(Outcome)) Outcome
	DemoRows(sel domain.Selection) (any, int)
}

func (s Source[T]) SectionID() domain.Section { return s.Section }

// Run fetches the source. onCommit, when set, receives the outcome under the
// orchestrator's commit lock and only if the fetch was not superseded.
func (s Source[T]) Run(ctx context.Context, o *Orchestrator, onCommit func(Outcome)) Outcome {
	var hook func(Result[T])
	if onCommit != nil {
		hook = func(res Result[T]) { onCommit(outcomeOf(res)) }
	}
	return outcomeOf(fetch(ctx, o, s, hook))
}

func outcomeOf[T any](res Result[T]) Outcome {
	return Outcome{
		Section:   res.Section,
		Rows:      res.Rows,
		Count:     len(res.Rows),
		Mode:      res.Mode,
		Selection: res.Selection,
		Stale:     res.Stale,
		Err:       res.Err,
	}
}

func (s Source[T]) DemoRows(sel domain.Selection) (any, int) {
	rows := s.Demo(sel)
	return rows, len(rows)
}
