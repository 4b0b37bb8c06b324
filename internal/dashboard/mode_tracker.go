package dashboard

import (
	"sync"
	"time"

	"github.com/dom/league-rest-explorer/internal/domain"
)

type modeEntry struct {
	mode        domain.DataMode
	lastUpdated time.Time
}

// ModeTracker records, per section, whether the displayed rows are demo or
// live data and when that last changed. Unset sections read as demo with no
// timestamp.
type ModeTracker struct {
	mu      sync.RWMutex
	entries map[domain.Section]modeEntry
	now     func() time.Time
	notify  Notifier
}

func NewModeTracker(notify Notifier) *ModeTracker {
	if notify == nil {
		notify = nopNotifier{}
	}
	return &ModeTracker{
		entries: make(map[domain.Section]modeEntry),
		now:     time.Now,
		notify:  notify,
	}
}

// SetMode stores mode for the section and stamps it with the current time.
// Concurrent calls resolve last-write-wins.
func (t *ModeTracker) SetMode(section domain.Section, mode domain.DataMode) {
	t.mu.Lock()
	at := t.now()
	t.entries[section] = modeEntry{mode: mode, lastUpdated: at}
	t.mu.Unlock()

	t.notify.Publish(Event{
		Type:         EventModeChanged,
		Section:      section,
		Mode:         mode,
		At:           at,
		Announcement: modeAnnouncement(section, mode),
	})
}

func (t *ModeTracker) Mode(section domain.Section) domain.DataMode {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if e, ok := t.entries[section]; ok {
		return e.mode
	}
	return domain.ModeDemo
}

// LastUpdated returns the time of the last SetMode for the section. The
// boolean is false if the mode was never set.
func (t *ModeTracker) LastUpdated(section domain.Section) (time.Time, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	e, ok := t.entries[section]
	return e.lastUpdated, ok
}

func (t *ModeTracker) ResetToDemo(section domain.Section) {
	t.SetMode(section, domain.ModeDemo)
}
