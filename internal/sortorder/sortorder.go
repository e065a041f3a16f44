// Package sortorder orders manifest records for display.
//
// Sort is pure: it never mutates its input and, apart from Random, is fully
// deterministic. Display order is always derived from the complete manifest
// snapshot, never from an already paginated window.
package sortorder

import (
	"math/rand/v2"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/five82/gallery/internal/photo"
)

// Option names a display order.
type Option string

const (
	DateDesc Option = "date-desc"
	DateAsc  Option = "date-asc"
	NameAsc  Option = "name-asc"
	NameDesc Option = "name-desc"
	Random   Option = "random"
)

// Default is used when neither flags, prefs nor config name a valid option.
const Default = DateDesc

// Options lists the recognised options in menu order.
var Options = []Option{DateDesc, DateAsc, NameAsc, NameDesc, Random}

var optionMeta = map[Option]struct{ label, icon string }{
	DateDesc: {"Newest", "↓"},
	DateAsc:  {"Oldest", "↑"},
	NameAsc:  {"A - Z", "A"},
	NameDesc: {"Z - A", "Z"},
	Random:   {"Random", "?"},
}

// Parse normalises s and reports whether it names a recognised option.
func Parse(s string) (Option, bool) {
	opt := Option(strings.ToLower(strings.TrimSpace(s)))
	return opt, opt.Valid()
}

// Valid reports whether o is recognised.
func (o Option) Valid() bool {
	_, ok := optionMeta[o]
	return ok
}

// Label returns the human-readable name of o.
func (o Option) Label() string {
	if meta, ok := optionMeta[o]; ok {
		return meta.label
	}
	return string(o)
}

// Icon returns a one-glyph marker for o.
func (o Option) Icon() string {
	if meta, ok := optionMeta[o]; ok {
		return meta.icon
	}
	return "·"
}

// Next returns the option after o in menu order, wrapping around.
func (o Option) Next() Option {
	idx := slices.Index(Options, o)
	return Options[(idx+1)%len(Options)]
}

// Sort returns photos ordered by opt using the global random source for Random.
func Sort(photos []photo.Record, opt Option) []photo.Record {
	return Sorter{}.Sort(photos, opt)
}

// Sorter carries the index source used by Random. The zero value uses
// math/rand/v2.
type Sorter struct {
	// IntN returns a uniform integer in [0, n).
	IntN func(n int) int
}

// Sort returns a new slice ordered by opt. Unrecognised options yield an
// unchanged copy.
func (s Sorter) Sort(photos []photo.Record, opt Option) []photo.Record {
	out := make([]photo.Record, len(photos))
	copy(out, photos)

	switch opt {
	case DateDesc:
		slices.SortStableFunc(out, func(a, b photo.Record) int {
			return b.Time().Compare(a.Time())
		})
	case DateAsc:
		slices.SortStableFunc(out, func(a, b photo.Record) int {
			return a.Time().Compare(b.Time())
		})
	case NameAsc:
		c := collate.New(language.Und)
		slices.SortStableFunc(out, func(a, b photo.Record) int {
			return c.CompareString(a.Title, b.Title)
		})
	case NameDesc:
		c := collate.New(language.Und)
		slices.SortStableFunc(out, func(a, b photo.Record) int {
			return c.CompareString(b.Title, a.Title)
		})
	case Random:
		s.shuffle(out)
	}
	return out
}

// shuffle is a Fisher-Yates pass from the tail.
func (s Sorter) shuffle(out []photo.Record) {
	intN := s.IntN
	if intN == nil {
		intN = rand.IntN
	}
	for i := len(out) - 1; i > 0; i-- {
		j := intN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
}
