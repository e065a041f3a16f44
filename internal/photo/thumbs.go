package photo

import (
	"strconv"
	"strings"
)

// DefaultThumbWidths are the fixed breakpoints produced by ingest.
var DefaultThumbWidths = []int{200, 400, 800}

const defaultSuffix = "-default"

// ThumbScheme describes where thumbnails live and how they are named:
// {dir}/{id}[-default]-{width}.{ext}.
type ThumbScheme struct {
	Dir    string
	Ext    string
	Widths []int
}

// DefaultThumbScheme matches the layout written by `gallery ingest`.
func DefaultThumbScheme() ThumbScheme {
	return ThumbScheme{Dir: "/images/thumbs", Ext: "jpg", Widths: DefaultThumbWidths}
}

// FileStem returns {id}[-default], the naming root shared by originals and thumbnails.
func FileStem(id string, isDefault bool) string {
	if isDefault {
		return id + defaultSuffix
	}
	return id
}

// SplitStem reverses FileStem.
func SplitStem(stem string) (id string, isDefault bool) {
	if strings.HasSuffix(stem, defaultSuffix) {
		return strings.TrimSuffix(stem, defaultSuffix), true
	}
	return stem, false
}

// ThumbName returns the bare file name of a thumbnail.
func (s ThumbScheme) ThumbName(id string, isDefault bool, width int) string {
	return FileStem(id, isDefault) + "-" + strconv.Itoa(width) + "." + s.ext()
}

// Base returns the thumbnail base path for a record, without width or extension.
func (s ThumbScheme) Base(r Record) string {
	if r.ThumbBase != "" {
		return r.ThumbBase
	}
	dir := strings.TrimSuffix(s.Dir, "/")
	return dir + "/" + FileStem(r.ID, r.IsDefault)
}

// URL returns the thumbnail URL for r at width.
func (s ThumbScheme) URL(r Record, width int) string {
	return s.Base(r) + "-" + strconv.Itoa(width) + "." + s.ext()
}

// SrcSet returns the 1x URL at width and its 2x counterpart. The 2x URL is
// derived from the 1x one by substitution, never looked up separately.
func (s ThumbScheme) SrcSet(r Record, width int) (oneX, twoX string) {
	oneX = s.URL(r, width)
	return oneX, Retina(oneX, width, s.double(width))
}

// Retina swaps the "-{from}." width marker in u for "-{to}.".
func Retina(u string, from, to int) string {
	marker := "-" + strconv.Itoa(from) + "."
	idx := strings.LastIndex(u, marker)
	if idx < 0 {
		return u
	}
	return u[:idx] + "-" + strconv.Itoa(to) + "." + u[idx+len(marker):]
}

func (s ThumbScheme) ext() string {
	ext := strings.TrimPrefix(strings.TrimSpace(s.Ext), ".")
	if ext == "" {
		return "jpg"
	}
	return ext
}

// double picks the smallest configured width that is at least 2x width,
// falling back to the largest one.
func (s ThumbScheme) double(width int) int {
	widths := s.Widths
	if len(widths) == 0 {
		widths = DefaultThumbWidths
	}
	best := 0
	for _, w := range widths {
		if w >= width*2 && (best == 0 || w < best) {
			best = w
		}
	}
	if best == 0 {
		for _, w := range widths {
			best = max(best, w)
		}
	}
	return best
}
