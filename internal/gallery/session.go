package gallery

import (
	"time"

	"github.com/five82/gallery/internal/grid"
	"github.com/five82/gallery/internal/lightbox"
	"github.com/five82/gallery/internal/photo"
	"github.com/five82/gallery/internal/sortorder"
)

// Timing defaults.
const (
	DefaultBatchDelay  = 300 * time.Millisecond
	DefaultSettleDelay = 150 * time.Millisecond
	DefaultNoticeTTL   = 2 * time.Second
	DefaultThumbWidth  = 400
)

// Action is a side effect the owner must perform on the session's behalf.
type Action interface {
	action()
}

// Fetch asks the owner to load the manifest and report back through
// ManifestLoaded with the same ticket.
type Fetch struct {
	Ticket grid.Ticket
}

// ScheduleBatch asks for BatchDue(Ticket) after Delay.
type ScheduleBatch struct {
	Ticket grid.Ticket
	Delay  time.Duration
}

// ScheduleViewerReady asks for ViewerReady(Binding) after Delay.
type ScheduleViewerReady struct {
	Binding uint64
	Delay   time.Duration
}

// ScheduleRetry asks for RetryDue(Retry) after Retry.Delay.
type ScheduleRetry struct {
	Retry grid.Retry
}

// ScheduleNoticeClear asks for NoticeExpired(Seq) after Delay.
type ScheduleNoticeClear struct {
	Seq   uint64
	Delay time.Duration
}

// LoadImage asks the owner to load one thumbnail and report the outcome
// through ImageLoaded or ImageFailed with the same epoch.
type LoadImage struct {
	ID    string
	URL   string
	Epoch uint64
}

func (Fetch) action() {}
func (ScheduleBatch) action() {}
func (ScheduleViewerReady) action() {}
func (ScheduleRetry) action() {}
func (ScheduleNoticeClear) action() {}
func (LoadImage) action() {}

// Config tunes a Session. Zero values take the package defaults.
type Config struct {
	Grid        grid.Config
	Retry       grid.RetryPolicy
	Lightbox    lightbox.Options
	Thumbs      photo.ThumbScheme
	ThumbWidth  int
	BatchDelay  time.Duration
	SettleDelay time.Duration
	NoticeTTL   time.Duration
}

// Session is the headless gallery: one paginator, one viewer and one load
// tracker kept consistent with each other. It is driven from a single event
// loop and is not safe for concurrent use.
type Session struct {
	cfg     Config
	pager   *grid.Paginator
	viewer  *lightbox.Coordinator
	tracker *grid.Tracker
}

// New builds an idle session sorted by opt.
func New(cfg Config, opt sortorder.Option) *Session {
	if cfg.ThumbWidth <= 0 {
		cfg.ThumbWidth = DefaultThumbWidth
	}
	if cfg.BatchDelay <= 0 {
		cfg.BatchDelay = DefaultBatchDelay
	}
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = DefaultSettleDelay
	}
	if cfg.NoticeTTL <= 0 {
		cfg.NoticeTTL = DefaultNoticeTTL
	}
	if cfg.Thumbs.Dir == "" {
		cfg.Thumbs = photo.DefaultThumbScheme()
	}
	return &Session{
		cfg:     cfg,
		pager:   grid.New(cfg.Grid, opt),
		viewer:  lightbox.New(cfg.Lightbox),
		tracker: grid.NewTracker(cfg.Retry),
	}
}

// Start issues the first manifest fetch.
func (s *Session) Start() []Action {
	return s.Refresh()
}

// Refresh clears the grid, tears the viewer down and issues a new fetch.
// Results of earlier fetches and batches become stale.
func (s *Session) Refresh() []Action {
	t := s.pager.Begin()
	s.tracker.Reset()
	s.viewer.Bind(nil)
	return []Action{Fetch{Ticket: t}}
}

// ManifestLoaded applies a fetch result. A failed fetch renders an empty
// grid. A pending deep link widens the window to include its target before
// the viewer is rebound.
func (s *Session) ManifestLoaded(t grid.Ticket, photos []photo.Record, err error) []Action {
	if err != nil {
		s.pager.Fail(t, err)
		return nil
	}
	if !s.pager.Apply(t, photos) {
		return nil
	}
	return s.rebind()
}

func (s *Session) resolveDeepLink() {
	id := s.viewer.PendingDeepLink()
	if id == "" {
		return
	}
	pos := lightbox.Locate(s.pager.Sorted(), id)
	if pos < 0 {
		s.viewer.SetDeepLink("")
		return
	}
	s.pager.EnsureVisible(pos + 1)
}

// rebind rebuilds the viewer over the settled window and starts loading any
// thumbnails not seen before. A pending deep link first widens the window to
// reach its target.
func (s *Session) rebind() []Action {
	s.resolveDeepLink()
	binding := s.viewer.Bind(s.pager.Records())
	actions := []Action{ScheduleViewerReady{Binding: binding, Delay: s.cfg.SettleDelay}}
	epoch := s.tracker.Epoch()
	for _, item := range s.pager.Items() {
		u := s.cfg.Thumbs.URL(item.Photo, s.cfg.ThumbWidth)
		if s.tracker.Begin(item.Photo.ID, u) {
			actions = append(actions, LoadImage{ID: item.Photo.ID, URL: u, Epoch: epoch})
		}
	}
	return actions
}

// NearEnd is the proximity trigger. At most one batch is scheduled at a time.
func (s *Session) NearEnd() []Action {
	t, ok := s.pager.RequestMore()
	if !ok {
		return nil
	}
	return []Action{ScheduleBatch{Ticket: t, Delay: s.cfg.BatchDelay}}
}

// BatchDue grows the window once the pacing delay has elapsed.
func (s *Session) BatchDue(t grid.Ticket) []Action {
	if !s.pager.CompleteMore(t) {
		return nil
	}
	return s.rebind()
}

// ChangeSort re-sorts the manifest snapshot and resets the window. During a
// fetch only the option is recorded. The active option is a no-op in every
// phase, so a repeated event never discards an in-flight batch.
func (s *Session) ChangeSort(opt sortorder.Option) []Action {
	if opt == s.pager.Sort() {
		return nil
	}
	s.pager.ChangeSort(opt)
	if s.pager.Phase() != grid.PhaseReady {
		return nil
	}
	return s.rebind()
}

// Reshuffle draws a fresh random order when Random is already active. It is
// the explicit "shuffle again" gesture and is not driven by sort events.
func (s *Session) Reshuffle() []Action {
	if s.pager.Sort() != sortorder.Random {
		return nil
	}
	s.pager.ChangeSort(sortorder.Random)
	if s.pager.Phase() != grid.PhaseReady {
		return nil
	}
	return s.rebind()
}

// ViewerReady reports that the viewer for binding has settled. It returns
// true when a pending deep link opened the viewer.
func (s *Session) ViewerReady(binding uint64) bool {
	return s.viewer.Ready(binding)
}

// SetDeepLink records the photo to open once the manifest is loaded.
func (s *Session) SetDeepLink(id string) {
	s.viewer.SetDeepLink(id)
}

// ImageLoaded records a successful thumbnail load.
func (s *Session) ImageLoaded(epoch uint64, id string) {
	if epoch != s.tracker.Epoch() {
		return
	}
	s.tracker.Loaded(id)
}

// ImageFailed records a failed thumbnail load and schedules a bounded retry.
func (s *Session) ImageFailed(epoch uint64, id string) []Action {
	if epoch != s.tracker.Epoch() {
		return nil
	}
	r, ok := s.tracker.Failed(id)
	if !ok {
		return nil
	}
	return []Action{ScheduleRetry{Retry: r}}
}

// RetryDue reissues a thumbnail load with its cache-busted URL.
func (s *Session) RetryDue(r grid.Retry) []Action {
	if !s.tracker.Due(r) {
		return nil
	}
	return []Action{LoadImage{ID: r.ID, URL: r.URL, Epoch: s.tracker.Epoch()}}
}

// Open shows the viewer at position i of the rendered window.
func (s *Session) Open(i int) bool { return s.viewer.Open(i) }

// Next moves the viewer forward, wrapping around the rendered window.
func (s *Session) Next() { s.viewer.Next() }

// Prev moves the viewer back, wrapping around the rendered window.
func (s *Session) Prev() { s.viewer.Prev() }

// Close hides the viewer and its notices.
func (s *Session) Close() { s.viewer.Close() }

// Share copies the current deep link and schedules the notice's removal.
func (s *Session) Share() []Action {
	return s.notify(s.viewer.Share())
}

// ViewOriginal opens the current full-resolution asset and schedules the
// notice's removal.
func (s *Session) ViewOriginal() []Action {
	return s.notify(s.viewer.ViewOriginal())
}

func (s *Session) notify(n lightbox.Notice) []Action {
	return []Action{ScheduleNoticeClear{Seq: n.Seq, Delay: s.cfg.NoticeTTL}}
}

// NoticeExpired clears notice seq if it is still displayed.
func (s *Session) NoticeExpired(seq uint64) {
	s.viewer.ClearNotice(seq)
}

// Items returns the rendered window.
func (s *Session) Items() []grid.Item { return s.pager.Items() }

// Sorted returns the full sorted manifest, including withheld items.
func (s *Session) Sorted() []photo.Record { return s.pager.Sorted() }

func (s *Session) Phase() grid.Phase { return s.pager.Phase() }
func (s *Session) Sort() sortorder.Option { return s.pager.Sort() }
func (s *Session) VisibleCount() int { return s.pager.VisibleCount() }
func (s *Session) Total() int { return s.pager.Total() }
func (s *Session) HasMore() bool { return s.pager.HasMore() }
func (s *Session) LoadingMore() bool { return s.pager.LoadingMore() }
func (s *Session) Err() error { return s.pager.Err() }
func (s *Session) LoadState(id string) grid.LoadState { return s.tracker.State(id) }
func (s *Session) Viewer() *lightbox.Coordinator { return s.viewer }
func (s *Session) Thumbs() photo.ThumbScheme { return s.cfg.Thumbs }
