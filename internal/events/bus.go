// Package events is the in-process broadcast channel between gallery
// components. Events are fan-out, never targeted, and consumers must tolerate
// duplicates and reordering.
package events

import (
	"sync"

	"github.com/five82/gallery/internal/sortorder"
)

// Kind names an event type.
type Kind int

const (
	// SortChanged carries the newly chosen sort option.
	SortChanged Kind = iota + 1
	// RefreshRequested asks every grid to refetch the manifest.
	RefreshRequested
)

func (k Kind) String() string {
	switch k {
	case SortChanged:
		return "sort-changed"
	case RefreshRequested:
		return "refresh-requested"
	default:
		return "unknown"
	}
}

// Event is one broadcast signal.
type Event struct {
	Kind Kind
	Sort sortorder.Option
}

// SortChange builds a SortChanged event.
func SortChange(opt sortorder.Option) Event {
	return Event{Kind: SortChanged, Sort: opt}
}

// Refresh builds a RefreshRequested event.
func Refresh() Event {
	return Event{Kind: RefreshRequested}
}

// DefaultBuffer is the per-subscriber queue length.
const DefaultBuffer = 16

// Bus fans events out to all current subscribers.
type Bus struct {
	mu     sync.Mutex
	subs   map[*Subscription]struct{}
	buffer int
	closed bool
}

// NewBus returns an empty bus. buffer <= 0 selects DefaultBuffer.
func NewBus(buffer int) *Bus {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Bus{subs: make(map[*Subscription]struct{}), buffer: buffer}
}

// Subscription receives events on C until Close is called or the bus closes.
type Subscription struct {
	C <-chan Event

	bus  *Bus
	ch   chan Event
	once sync.Once
}

// Subscribe registers a new subscriber. On a closed bus the returned
// subscription's channel is already closed.
func (b *Bus) Subscribe() *Subscription {
	ch := make(chan Event, b.buffer)
	s := &Subscription{C: ch, bus: b, ch: ch}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		s.once.Do(func() { close(ch) })
		return s
	}
	b.subs[s] = struct{}{}
	return s
}

// Publish delivers ev to every subscriber without blocking. It returns the
// number of subscribers whose queue was full and missed the event.
func (b *Bus) Publish(ev Event) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return 0
	}
	dropped := 0
	for s := range b.subs {
		select {
		case s.ch <- ev:
		default:
			dropped++
		}
	}
	return dropped
}

// Close closes every subscription. Later publishes are ignored.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for s := range b.subs {
		s.once.Do(func() { close(s.ch) })
	}
	b.subs = nil
}

// Close unregisters the subscription and closes C.
func (s *Subscription) Close() {
	s.bus.mu.Lock()
	delete(s.bus.subs, s)
	s.bus.mu.Unlock()
	s.once.Do(func() { close(s.ch) })
}
