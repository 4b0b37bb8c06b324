package dashboard

import (
	"fmt"
	"sync"
	"time"

	"github.com/dom/league-rest-explorer/internal/domain"
)

// SelectionContext holds the year/champion choice every section reads.
// There is one live copy per session; the last write wins.
type SelectionContext struct {
	mu     sync.RWMutex
	sel    domain.Selection
	now    func() time.Time
	notify Notifier
}

// NewSelectionContext starts on the default year with no champion.
func NewSelectionContext(notify Notifier) *SelectionContext {
	if notify == nil {
		notify = nopNotifier{}
	}
	return &SelectionContext{
		sel:    domain.Selection{Year: domain.DefaultYear},
		now:    time.Now,
		notify: notify,
	}
}

// SetYear replaces the year. An empty year empties the whole selection, so a
// champion never survives without a year.
func (c *SelectionContext) SetYear(year string) {
	c.update(func(sel *domain.Selection) { setYear(sel, year) })
}

// SetChampion replaces the champion; "" clears it. Selecting a champion on
// an empty selection puts the default year back.
func (c *SelectionContext) SetChampion(champion string) {
	c.update(func(sel *domain.Selection) { setChampion(sel, champion) })
}

func setYear(sel *domain.Selection, year string) {
	sel.Year = year
	if year == "" {
		sel.Champion = ""
	}
}

func setChampion(sel *domain.Selection, champion string) {
	sel.Champion = champion
	if champion != "" && sel.Year == "" {
		sel.Year = domain.DefaultYear
	}
}

func (c *SelectionContext) Selection() domain.Selection {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sel
}

func (c *SelectionContext) update(apply func(*domain.Selection)) {
	c.mu.Lock()
	apply(&c.sel)
	sel := c.sel
	at := c.now()
	c.mu.Unlock()

	c.notify.Publish(Event{
		Type:         EventSelectionChanged,
		Selection:    &sel,
		At:           at,
		Announcement: selectionAnnouncement(sel),
	})
}

// SelectionUpdate changes only the fields that are set.
type SelectionUpdate struct {
	Year     *string `json:"year"`
	Champion *string `json:"champion"`
}

// Apply validates an update against the fixed year and champion lists and
// then applies it as a single write. Champions are stored under their
// display name.
func (c *SelectionContext) Apply(u SelectionUpdate) error {
	if u.Year != nil && *u.Year != "" && !domain.ValidYear(*u.Year) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidYear, *u.Year)
	}
	champion := ""
	if u.Champion != nil && *u.Champion != "" {
		opt, ok := domain.LookupChampion(*u.Champion)
		if !ok {
			return fmt.Errorf("%w: %q", domain.ErrUnknownChampion, *u.Champion)
		}
		champion = opt.Name
	}

	if u.Year == nil && u.Champion == nil {
		return nil
	}
	c.update(func(sel *domain.Selection) {
		if u.Year != nil {
			setYear(sel, *u.Year)
		}
		if u.Champion != nil {
			setChampion(sel, champion)
		}
	})
	return nil
}
