package photo

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultAspectRatio is used when a record carries no usable dimensions.
const DefaultAspectRatio = 1.5

// ErrDuplicateID reports a manifest that repeats an id.
var ErrDuplicateID = errors.New("duplicate photo id")

// Epoch is the sort key for records without a parseable date.
var Epoch = time.Unix(0, 0).UTC()

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Record mirrors one entry of images.json.
type Record struct {
	ID        string `json:"id"`
	ImageURL  string `json:"imageUrl"`
	ThumbBase string `json:"thumbBase,omitempty"`
	MDPath    string `json:"mdPath,omitempty"`
	Title     string `json:"title,omitempty"`
	Caption   string `json:"caption,omitempty"`
	Author    string `json:"author,omitempty"`
	Body      string `json:"body,omitempty"`
	Date      string `json:"date,omitempty"`
	IsDefault bool   `json:"isDefault"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
}

// DisplayText returns the caption, falling back to body, title and finally id.
func (r Record) DisplayText() string {
	for _, candidate := range []string{r.Caption, r.Body, r.Title} {
		if trimmed := strings.TrimSpace(candidate); trimmed != "" {
			return trimmed
		}
	}
	return r.ID
}

// Label is the short name shown on tiles: title, else id.
func (r Record) Label() string {
	if title := strings.TrimSpace(r.Title); title != "" {
		return title
	}
	return r.ID
}

// AspectRatio returns width/height, or DefaultAspectRatio when unknown.
func (r Record) AspectRatio() float64 {
	if r.Width > 0 && r.Height > 0 {
		return float64(r.Width) / float64(r.Height)
	}
	return DefaultAspectRatio
}

// Time parses Date. Missing or invalid dates resolve to Epoch.
func (r Record) Time() time.Time {
	t, ok := ParseDate(r.Date)
	if !ok {
		return Epoch
	}
	return t
}

// ParseDate accepts the date shapes written by ingest and by hand-edited frontmatter.
// Values without a zone are read as UTC.
func ParseDate(value string) (time.Time, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// AspectRatios maps records to their aspect ratios, preserving order.
func AspectRatios(records []Record) []float64 {
	ratios := make([]float64, len(records))
	for i, r := range records {
		ratios[i] = r.AspectRatio()
	}
	return ratios
}

// IndexOf returns the position of id in records, or -1.
func IndexOf(records []Record, id string) int {
	for i, r := range records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// Clone returns an independent copy of records.
func Clone(records []Record) []Record {
	if len(records) == 0 {
		return nil
	}
	dup := make([]Record, len(records))
	copy(dup, records)
	return dup
}

// Validate reports the first repeated or empty id.
func Validate(records []Record) error {
	seen := make(map[string]struct{}, len(records))
	for i, r := range records {
		if strings.TrimSpace(r.ID) == "" {
			return fmt.Errorf("record %d: empty id", i)
		}
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("record %d: %w %q", i, ErrDuplicateID, r.ID)
		}
		seen[r.ID] = struct{}{}
	}
	return nil
}

// Dedupe keeps the first occurrence of every id and drops records without one.
// The returned slice lists the dropped ids.
func Dedupe(records []Record) ([]Record, []string) {
	seen := make(map[string]struct{}, len(records))
	kept := make([]Record, 0, len(records))
	var dropped []string
	for _, r := range records {
		if strings.TrimSpace(r.ID) == "" {
			dropped = append(dropped, "")
			continue
		}
		if _, dup := seen[r.ID]; dup {
			dropped = append(dropped, r.ID)
			continue
		}
		seen[r.ID] = struct{}{}
		kept = append(kept, r)
	}
	return kept, dropped
}
