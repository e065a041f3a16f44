package lightbox

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/five82/gallery/internal/photo"
)

// ErrNoCurrent is reported when an action needs the displayed photo but the
// viewer is closed or its index no longer resolves.
var ErrNoCurrent = errors.New("lightbox: no current photo")

// FragmentPrefix marks a deep-link fragment.
const FragmentPrefix = "img-"

// Clipboard receives share links.
type Clipboard interface {
	WriteText(text string) error
}

// Opener shows a full-resolution asset outside the gallery.
type Opener interface {
	Open(target string) error
}

// NoticeKind classifies a transient notice.
type NoticeKind int

const (
	NoticeSuccess NoticeKind = iota + 1
	NoticeFailure
)

func (k NoticeKind) String() string {
	switch k {
	case NoticeSuccess:
		return "success"
	case NoticeFailure:
		return "failure"
	default:
		return "none"
	}
}

// Notice is a transient message shown while the viewer is open. Seq lets a
// delayed clear recognise the notice it was scheduled for.
type Notice struct {
	Kind NoticeKind
	Text string
	Seq  uint64
}

// Options configures a Coordinator.
type Options struct {
	// SiteURL is the page address share links and relative originals are
	// resolved against.
	SiteURL   string
	Clipboard Clipboard
	Opener    Opener
}

// Coordinator drives the viewer bound to the currently rendered list.
type Coordinator struct {
	opts Options

	items   []photo.Record
	binding uint64
	ready   bool

	open  bool
	index int

	pending string
	notice  *Notice
	seq     uint64
}

// New returns a closed coordinator with nothing bound.
func New(opts Options) *Coordinator {
	return &Coordinator{opts: opts}
}

// Bind tears down the current viewer and binds a new one to items. Open state
// and notices are discarded; the pending deep link survives. The returned
// binding id must be passed to Ready once the list has settled.
func (c *Coordinator) Bind(items []photo.Record) uint64 {
	c.teardown()
	c.items = photo.Clone(items)
	c.ready = false
	c.binding++
	return c.binding
}

// Ready marks the viewer for binding as initialised and opens the pending
// deep link, at most once. It reports whether the viewer was opened. Stale or
// repeated signals are ignored.
func (c *Coordinator) Ready(binding uint64) bool {
	if binding != c.binding || c.ready {
		return false
	}
	c.ready = true
	if c.pending == "" {
		return false
	}
	id := c.pending
	c.pending = ""
	idx := photo.IndexOf(c.items, id)
	if idx < 0 {
		return false
	}
	return c.Open(idx)
}

// Open shows the item at index i of the bound list.
func (c *Coordinator) Open(i int) bool {
	if i < 0 || i >= len(c.items) {
		return false
	}
	c.open = true
	c.index = i
	return true
}

// Next advances to the following item, wrapping to the first.
func (c *Coordinator) Next() {
	if !c.open || len(c.items) == 0 {
		return
	}
	c.index = (c.index + 1) % len(c.items)
	c.notice = nil
}

// Prev steps back to the preceding item, wrapping to the last.
func (c *Coordinator) Prev() {
	if !c.open || len(c.items) == 0 {
		return
	}
	c.index = (c.index - 1 + len(c.items)) % len(c.items)
	c.notice = nil
}

// Close hides the viewer and drops any notice.
func (c *Coordinator) Close() {
	c.teardown()
}

func (c *Coordinator) teardown() {
	c.open = false
	c.index = 0
	c.notice = nil
}

// Current returns the displayed photo.
func (c *Coordinator) Current() (photo.Record, bool) {
	if !c.open || c.index < 0 || c.index >= len(c.items) {
		return photo.Record{}, false
	}
	return c.items[c.index], true
}

func (c *Coordinator) IsOpen() bool { return c.open }
func (c *Coordinator) Index() int { return c.index }
func (c *Coordinator) Len() int { return len(c.items) }
func (c *Coordinator) Binding() uint64 { return c.binding }
func (c *Coordinator) IsReady() bool { return c.ready }
func (c *Coordinator) PendingDeepLink() string { return c.pending }

// SetDeepLink records id as the photo to open once the viewer is ready. An
// empty id clears the intent.
func (c *Coordinator) SetDeepLink(id string) {
	c.pending = strings.TrimSpace(id)
}

// Notice returns the active notice, if any.
func (c *Coordinator) Notice() (Notice, bool) {
	if c.notice == nil {
		return Notice{}, false
	}
	return *c.notice, true
}

// ClearNotice removes the active notice if it is still the one numbered seq.
func (c *Coordinator) ClearNotice(seq uint64) bool {
	if c.notice == nil || c.notice.Seq != seq {
		return false
	}
	c.notice = nil
	return true
}

// Share copies the deep link of the displayed photo to the clipboard.
func (c *Coordinator) Share() Notice {
	rec, ok := c.Current()
	if !ok {
		return c.fail(ErrNoCurrent)
	}
	if c.opts.Clipboard == nil {
		return c.fail(errors.New("clipboard unavailable"))
	}
	link, err := ShareURL(c.opts.SiteURL, rec.ID)
	if err != nil {
		return c.fail(err)
	}
	if err := c.opts.Clipboard.WriteText(link); err != nil {
		return c.fail(fmt.Errorf("copy link: %w", err))
	}
	return c.post(NoticeSuccess, "Link copied")
}

// ViewOriginal opens the full-resolution asset of the displayed photo.
func (c *Coordinator) ViewOriginal() Notice {
	rec, ok := c.Current()
	if !ok {
		return c.fail(ErrNoCurrent)
	}
	if c.opts.Opener == nil {
		return c.fail(errors.New("no opener configured"))
	}
	if strings.TrimSpace(rec.ImageURL) == "" {
		return c.fail(fmt.Errorf("%s has no original", rec.ID))
	}
	target := ResolveURL(c.opts.SiteURL, rec.ImageURL)
	if err := c.opts.Opener.Open(target); err != nil {
		return c.fail(fmt.Errorf("open original: %w", err))
	}
	return c.post(NoticeSuccess, "Opened original")
}

func (c *Coordinator) fail(err error) Notice {
	return c.post(NoticeFailure, err.Error())
}

func (c *Coordinator) post(kind NoticeKind, text string) Notice {
	c.seq++
	n := Notice{Kind: kind, Text: text, Seq: c.seq}
	c.notice = &n
	return n
}

// ParseFragment extracts a photo id from a deep link. It accepts "#img-<id>",
// "img-<id>" or a URL whose fragment has that form. The id is percent-decoded.
func ParseFragment(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if i := strings.IndexByte(s, '#'); i >= 0 {
		s = s[i+1:]
	}
	rest, ok := strings.CutPrefix(s, FragmentPrefix)
	if !ok {
		return "", false
	}
	id, err := url.PathUnescape(rest)
	if err != nil {
		id = rest
	}
	id = strings.TrimSpace(id)
	return id, id != ""
}

// Locate returns the position of id in the sorted manifest, or -1.
func Locate(sorted []photo.Record, id string) int {
	return photo.IndexOf(sorted, id)
}

// ShareURL builds origin + path + "#img-<id>" from siteURL. Query strings and
// existing fragments are dropped.
func ShareURL(siteURL, id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", ErrNoCurrent
	}
	u, err := url.Parse(strings.TrimSpace(siteURL))
	if err != nil {
		return "", fmt.Errorf("parse site url: %w", err)
	}
	u.RawQuery = ""
	u.Fragment = FragmentPrefix + id
	u.RawFragment = ""
	return u.String(), nil
}

// ResolveURL resolves ref against siteURL. Absolute refs, and refs that cannot
// be resolved, are returned unchanged.
func ResolveURL(siteURL, ref string) string {
	r, err := url.Parse(ref)
	if err != nil || r.IsAbs() {
		return ref
	}
	base, err := url.Parse(strings.TrimSpace(siteURL))
	if err != nil || !base.IsAbs() {
		return ref
	}
	return base.ResolveReference(r).String()
}
