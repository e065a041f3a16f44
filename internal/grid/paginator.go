package grid

import (
	"strings"

	"github.com/five82/gallery/internal/photo"
	"github.com/five82/gallery/internal/sortorder"
)

// Phase is the paginator's lifecycle state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseLoadingMore
	PhaseRefreshing
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseLoadingMore:
		return "loading-more"
	case PhaseRefreshing:
		return "refreshing"
	default:
		return "unknown"
	}
}

// Defaults for Config fields left at zero.
const (
	DefaultInitialBatch = 20
	DefaultBatchSize    = 10
)

// Config tunes the progressive reveal.
type Config struct {
	InitialBatch int
	BatchSize    int
	StaffAuthors []string
	Sorter       sortorder.Sorter
}

// Ticket identifies the state generation an asynchronous result belongs to.
// Results carrying an outdated ticket are discarded.
type Ticket struct {
	Generation uint64
}

// Item is one materialised grid entry.
type Item struct {
	Position int
	Photo    photo.Record
	Staff    bool
}

// Paginator owns the sorted view of one manifest snapshot and the size of
// its revealed window. It is not safe for concurrent use; a single owner
// drives it from its event loop.
type Paginator struct {
	cfg Config

	phase       Phase
	generation  uint64
	option      sortorder.Option
	original    []photo.Record
	sorted      []photo.Record
	visible     int
	loadingMore bool
	lastErr     error
}

// New creates an idle paginator sorted by opt.
func New(cfg Config, opt sortorder.Option) *Paginator {
	if cfg.InitialBatch <= 0 {
		cfg.InitialBatch = DefaultInitialBatch
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	return &Paginator{cfg: cfg, option: opt}
}

// Begin starts a manifest load. The first load moves Idle to Loading; any
// later call is a refresh. Rendered items are cleared and any pending batch is
// abandoned.
func (p *Paginator) Begin() Ticket {
	if p.phase == PhaseIdle {
		p.phase = PhaseLoading
	} else {
		p.phase = PhaseRefreshing
	}
	p.generation++
	p.original = nil
	p.sorted = nil
	p.visible = 0
	p.loadingMore = false
	p.lastErr = nil
	return p.ticket()
}

// Apply installs a fetched manifest. It reports false when t is stale.
func (p *Paginator) Apply(t Ticket, photos []photo.Record) bool {
	if !p.current(t) || !p.loading() {
		return false
	}
	p.original = photo.Clone(photos)
	p.resort()
	p.phase = PhaseReady
	return true
}

// Fail records a failed manifest load; the grid renders empty.
func (p *Paginator) Fail(t Ticket, err error) bool {
	if !p.current(t) || !p.loading() {
		return false
	}
	p.original = nil
	p.sorted = nil
	p.visible = 0
	p.lastErr = err
	p.phase = PhaseReady
	return true
}

// RequestMore is the proximity trigger. It returns a ticket to complete after
// the pacing delay, or false when a batch is already pending or nothing is
// left to reveal.
func (p *Paginator) RequestMore() (Ticket, bool) {
	if p.phase != PhaseReady || p.loadingMore || p.visible >= len(p.sorted) {
		return Ticket{}, false
	}
	p.loadingMore = true
	p.phase = PhaseLoadingMore
	return p.ticket(), true
}

// CompleteMore grows the window by one batch, capped at the total. Stale or
// duplicate completions are ignored.
func (p *Paginator) CompleteMore(t Ticket) bool {
	if !p.current(t) || !p.loadingMore {
		return false
	}
	p.visible = min(p.visible+p.cfg.BatchSize, len(p.sorted))
	p.loadingMore = false
	p.phase = PhaseReady
	return true
}

// ChangeSort re-derives the view from the original snapshot and resets the
// window. Pending batches are abandoned.
// While a manifest load is in flight only the option changes, so the pending
// load still lands and is sorted by opt.
func (p *Paginator) ChangeSort(opt sortorder.Option) Ticket {
	p.option = opt
	if p.loading() || p.phase == PhaseIdle {
		return p.ticket()
	}
	p.generation++
	p.loadingMore = false
	if p.phase == PhaseLoadingMore {
		p.phase = PhaseReady
	}
	if p.phase == PhaseReady {
		p.resort()
	}
	return p.ticket()
}

// EnsureVisible widens the window to at least n items. It never shrinks it.
func (p *Paginator) EnsureVisible(n int) {
	p.visible = max(p.visible, min(n, len(p.sorted)))
}

// Items materialises the revealed window. Withheld items are not built.
func (p *Paginator) Items() []Item {
	items := make([]Item, p.visible)
	for i := range items {
		rec := p.sorted[i]
		items[i] = Item{
			Position: i,
			Photo:    rec,
			Staff:    !rec.IsDefault && IsStaff(rec.Author, p.cfg.StaffAuthors),
		}
	}
	return items
}

// Records returns the revealed window as plain records.
func (p *Paginator) Records() []photo.Record {
	return photo.Clone(p.sorted[:p.visible])
}

// Sorted returns the full sorted view, including withheld items.
func (p *Paginator) Sorted() []photo.Record {
	return photo.Clone(p.sorted)
}

func (p *Paginator) Phase() Phase { return p.phase }
func (p *Paginator) Sort() sortorder.Option { return p.option }
func (p *Paginator) VisibleCount() int { return p.visible }
func (p *Paginator) Total() int { return len(p.sorted) }
func (p *Paginator) HasMore() bool { return p.visible < len(p.sorted) }
func (p *Paginator) LoadingMore() bool { return p.loadingMore }
func (p *Paginator) Generation() uint64 { return p.generation }
func (p *Paginator) Err() error { return p.lastErr }
func (p *Paginator) Current(t Ticket) bool { return p.current(t) }
func (p *Paginator) ticket() Ticket { return Ticket{Generation: p.generation} }
func (p *Paginator) current(t Ticket) bool { return t.Generation == p.generation }
func (p *Paginator) loading() bool { return p.phase == PhaseLoading || p.phase == PhaseRefreshing }

func (p *Paginator) resort() {
	p.sorted = p.cfg.Sorter.Sort(p.original, p.option)
	p.visible = min(p.cfg.InitialBatch, len(p.sorted))
}

// IsStaff reports whether author matches any staff entry, ignoring case and
// surrounding whitespace.
func IsStaff(author string, staff []string) bool {
	author = strings.TrimSpace(author)
	if author == "" {
		return false
	}
	for _, s := range staff {
		if strings.EqualFold(author, strings.TrimSpace(s)) {
			return true
		}
	}
	return false
}
