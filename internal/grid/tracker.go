package grid

import (
	"net/url"
	"strconv"
	"time"
)

// LoadState tracks one tile's thumbnail.
type LoadState int

const (
	LoadUnknown LoadState = iota
	LoadLoading
	LoadLoaded
	LoadError
)

func (s LoadState) String() string {
	switch s {
	case LoadLoading:
		return "loading"
	case LoadLoaded:
		return "loaded"
	case LoadError:
		return "error"
	default:
		return "unknown"
	}
}

// Retry policy defaults.
const (
	DefaultMaxRetries = 3
	DefaultRetryDelay = time.Second
)

// RetryPolicy bounds per-image retries. The n-th retry waits n*Delay.
type RetryPolicy struct {
	MaxRetries int
	Delay      time.Duration
}

// Retry is a scheduled reload of one image.
type Retry struct {
	ID      string
	URL     string
	Attempt int
	Delay   time.Duration
	epoch   uint64
}

type loadEntry struct {
	state    LoadState
	url      string
	attempts int
}

// Tracker records thumbnail load state per photo id and schedules bounded,
// cache-busting retries after failures.
type Tracker struct {
	policy  RetryPolicy
	now     func() time.Time
	epoch   uint64
	entries map[string]*loadEntry
}

// NewTracker returns a tracker using policy; zero fields take the defaults.
func NewTracker(policy RetryPolicy) *Tracker {
	if policy.MaxRetries <= 0 {
		policy.MaxRetries = DefaultMaxRetries
	}
	if policy.Delay <= 0 {
		policy.Delay = DefaultRetryDelay
	}
	return &Tracker{policy: policy, now: time.Now, entries: make(map[string]*loadEntry)}
}

// Begin marks id as loading from u. Ids already known keep their state.
func (t *Tracker) Begin(id, u string) bool {
	if _, ok := t.entries[id]; ok {
		return false
	}
	t.entries[id] = &loadEntry{state: LoadLoading, url: u}
	return true
}

// Loaded marks id as loaded.
func (t *Tracker) Loaded(id string) {
	if e, ok := t.entries[id]; ok {
		e.state = LoadLoaded
	}
}

// Failed marks id as errored and returns the retry to schedule, if any
// attempts remain.
func (t *Tracker) Failed(id string) (Retry, bool) {
	e, ok := t.entries[id]
	if !ok {
		return Retry{}, false
	}
	e.state = LoadError
	if e.attempts >= t.policy.MaxRetries {
		return Retry{}, false
	}
	e.attempts++
	return Retry{
		ID:      id,
		URL:     CacheBust(e.url, t.now()),
		Attempt: e.attempts,
		Delay:   time.Duration(e.attempts) * t.policy.Delay,
		epoch:   t.epoch,
	}, true
}

// Due is called when a retry's delay has elapsed. It reports whether the
// retry still applies and, if so, moves the image back to loading.
func (t *Tracker) Due(r Retry) bool {
	if r.epoch != t.epoch {
		return false
	}
	e, ok := t.entries[r.ID]
	if !ok || e.state != LoadError {
		return false
	}
	e.state = LoadLoading
	return true
}

// State returns the load state of id.
func (t *Tracker) State(id string) LoadState {
	if e, ok := t.entries[id]; ok {
		return e.state
	}
	return LoadUnknown
}

// Attempts returns how many retries have been scheduled for id.
func (t *Tracker) Attempts(id string) int {
	if e, ok := t.entries[id]; ok {
		return e.attempts
	}
	return 0
}

// Epoch identifies the current entry set. It changes on every Reset.
func (t *Tracker) Epoch() uint64 { return t.epoch }

// Reset forgets all entries and invalidates scheduled retries.
func (t *Tracker) Reset() {
	t.epoch++
	t.entries = make(map[string]*loadEntry)
}

// CacheBust sets a t=<unix ms> query parameter on u.
func CacheBust(u string, now time.Time) string {
	parsed, err := url.Parse(u)
	if err != nil {
		return u
	}
	q := parsed.Query()
	q.Set("t", strconv.FormatInt(now.UnixMilli(), 10))
	parsed.RawQuery = q.Encode()
	return parsed.String()
}
