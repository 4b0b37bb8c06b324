package dashboard

import (
	"fmt"
	"sync"
	"time"

	"github.com/dom/league-rest-explorer/internal/domain"
)

type EventType string

const (
	EventModeChanged      EventType = "MODE_CHANGED"
	EventSelectionChanged EventType = "SELECTION_CHANGED"
	EventSectionFetched   EventType = "SECTION_FETCHED"
)

// Event is an explicit state-change notification. Announcement is a short
// sentence meant for a screen-reader live region.
type Event struct {
	Type         EventType         `json:"type"`
	Section      domain.Section    `json:"section,omitempty"`
	Mode         domain.DataMode   `json:"mode,omitempty"`
	Selection    *domain.Selection `json:"selection,omitempty"`
	At           time.Time         `json:"at"`
	Announcement string            `json:"announcement"`
}

// Notifier receives state-change events.
type Notifier interface {
	Publish(Event)
}

type nopNotifier struct{}

func (nopNotifier) Publish(Event) {}

// Bus fans events out to subscribers. Publish never blocks: a subscriber
// whose buffer is full misses the event.
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]chan Event
	nextID int
	closed bool
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe registers a subscriber. The returned cancel func unregisters it
// and closes the channel; it is safe to call more than once.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, buffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub)
			}
		})
	}
}

func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
			// Buffer full, skip
		}
	}
}

// Close closes every subscriber channel. Later subscriptions get a closed
// channel.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		close(ch)
		delete(b.subs, id)
	}
}

func sectionTitle(s domain.Section) string {
	if info, ok := s.Info(); ok {
		return info.Title
	}
	return string(s)
}

func modeAnnouncement(s domain.Section, mode domain.DataMode) string {
	if mode == domain.ModeLive {
		return fmt.Sprintf("%s now showing live data", sectionTitle(s))
	}
	return fmt.Sprintf("%s now showing demo data", sectionTitle(s))
}

func selectionAnnouncement(sel domain.Selection) string {
	switch {
	case sel.Empty():
		return "Selection cleared"
	case sel.HasChampion():
		return fmt.Sprintf("Selected %s in %s", sel.Champion, sel.Year)
	default:
		return fmt.Sprintf("Selected year %s", sel.Year)
	}
}
