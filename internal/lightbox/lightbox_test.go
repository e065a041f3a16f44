package lightbox

import (
	"errors"
	"strings"
	"testing"

	"github.com/five82/gallery/internal/photo"
)

type fakeClipboard struct {
	text string
	err  error
}

func (f *fakeClipboard) WriteText(text string) error {
	if f.err != nil {
		return f.err
	}
	f.text = text
	return nil
}

type fakeOpener struct {
	targets []string
	err     error
}

func (f *fakeOpener) Open(target string) error {
	if f.err != nil {
		return f.err
	}
	f.targets = append(f.targets, target)
	return nil
}

func records(ids ...string) []photo.Record {
	out := make([]photo.Record, len(ids))
	for i, id := range ids {
		out[i] = photo.Record{ID: id, ImageURL: "/images/originals/" + id + ".jpg"}
	}
	return out
}

func TestCoordinator_NavigationWraps(t *testing.T) {
	c := New(Options{})
	c.Bind(records("a", "b", "c"))
	if !c.Open(2) {
		t.Fatalf("Open(2) refused")
	}
	c.Next()
	if c.Index() != 0 {
		t.Fatalf("Next from last = %d, want 0", c.Index())
	}
	c.Prev()
	if c.Index() != 2 {
		t.Fatalf("Prev from first = %d, want 2", c.Index())
	}
	if c.Open(3) || c.Open(-1) {
		t.Fatalf("Open accepted out-of-range index")
	}
}

func TestCoordinator_BindTearsDownButKeepsDeepLink(t *testing.T) {
	c := New(Options{})
	c.Bind(records("a", "b"))
	c.Open(1)
	c.SetDeepLink("b")

	c.Bind(records("b", "a"))
	if c.IsOpen() {
		t.Fatalf("viewer still open after rebind")
	}
	if c.PendingDeepLink() != "b" {
		t.Fatalf("deep link lost across rebind")
	}
}

func TestCoordinator_ReadyOpensDeepLinkOnce(t *testing.T) {
	c := New(Options{})
	c.SetDeepLink("c")
	binding := c.Bind(records("a", "b", "c"))

	if !c.Ready(binding) {
		t.Fatalf("Ready did not open the deep link")
	}
	if !c.IsOpen() || c.Index() != 2 {
		t.Fatalf("open=%v index=%d, want open at 2", c.IsOpen(), c.Index())
	}
	c.Close()
	if c.Ready(binding) {
		t.Fatalf("repeated ready signal reopened the viewer")
	}
	if c.IsOpen() {
		t.Fatalf("viewer reopened")
	}
}

func TestCoordinator_StaleReadyIgnored(t *testing.T) {
	c := New(Options{})
	c.SetDeepLink("a")
	old := c.Bind(records("a"))
	c.Bind(records("a"))
	if c.Ready(old) {
		t.Fatalf("stale binding opened the viewer")
	}
	if c.PendingDeepLink() != "a" {
		t.Fatalf("stale ready consumed the deep link")
	}
}

func TestCoordinator_UnknownDeepLinkIsSilent(t *testing.T) {
	c := New(Options{})
	c.SetDeepLink("zzz")
	b := c.Bind(records("a"))
	if c.Ready(b) || c.IsOpen() {
		t.Fatalf("unknown deep link opened the viewer")
	}
	if _, ok := c.Notice(); ok {
		t.Fatalf("unknown deep link produced a notice")
	}
	if c.PendingDeepLink() != "" {
		t.Fatalf("unresolved deep link was not cleared")
	}
}

func TestCoordinator_Share(t *testing.T) {
	clip := &fakeClipboard{}
	c := New(Options{SiteURL: "https://example.com/gallery/?page=2#top", Clipboard: clip})
	c.Bind(records("a", "b"))
	c.Open(1)

	n := c.Share()
	if n.Kind != NoticeSuccess {
		t.Fatalf("notice = %+v, want success", n)
	}
	if clip.text != "https://example.com/gallery/#img-b" {
		t.Fatalf("copied %q", clip.text)
	}
	if got, ok := c.Notice(); !ok || got.Seq != n.Seq {
		t.Fatalf("active notice = %+v, %v", got, ok)
	}
}

func TestCoordinator_ShareFailuresBecomeNotices(t *testing.T) {
	clip := &fakeClipboard{err: errors.New("no display")}
	c := New(Options{SiteURL: "https://example.com/", Clipboard: clip})
	c.Bind(records("a"))

	if n := c.Share(); n.Kind != NoticeFailure || !strings.Contains(n.Text, "no current photo") {
		t.Fatalf("share while closed = %+v", n)
	}

	c.Open(0)
	if n := c.Share(); n.Kind != NoticeFailure || !strings.Contains(n.Text, "no display") {
		t.Fatalf("share with failing clipboard = %+v", n)
	}
}

func TestCoordinator_ViewOriginal(t *testing.T) {
	op := &fakeOpener{}
	c := New(Options{SiteURL: "http://localhost:8080/", Opener: op})
	c.Bind(records("a"))
	c.Open(0)

	if n := c.ViewOriginal(); n.Kind != NoticeSuccess {
		t.Fatalf("notice = %+v", n)
	}
	if len(op.targets) != 1 || op.targets[0] != "http://localhost:8080/images/originals/a.jpg" {
		t.Fatalf("opened %v", op.targets)
	}

	c.Close()
	if n := c.ViewOriginal(); n.Kind != NoticeFailure {
		t.Fatalf("closed viewer should fail, got %+v", n)
	}
	if len(op.targets) != 1 {
		t.Fatalf("opener called while closed")
	}
}

func TestCoordinator_CloseAndClearNotice(t *testing.T) {
	c := New(Options{})
	c.Bind(records("a"))
	c.Open(0)
	first := c.Share() // no clipboard: failure notice
	second := c.Share()

	if c.ClearNotice(first.Seq) {
		t.Fatalf("outdated clear removed the newer notice")
	}
	if !c.ClearNotice(second.Seq) {
		t.Fatalf("matching clear refused")
	}

	c.Share()
	c.Close()
	if _, ok := c.Notice(); ok {
		t.Fatalf("Close left a notice behind")
	}
}

func TestParseFragment(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"#img-c", "c", true},
		{"img-c", "c", true},
		{"https://example.com/gallery/#img-sunset%20bay", "sunset bay", true},
		{"  #img-a  ", "a", true},
		{"#photo-a", "", false},
		{"#img-", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseFragment(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseFragment(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestShareURL(t *testing.T) {
	got, err := ShareURL("http://localhost:8080/gallery?x=1", "cat")
	if err != nil {
		t.Fatalf("ShareURL: %v", err)
	}
	if got != "http://localhost:8080/gallery#img-cat" {
		t.Fatalf("ShareURL = %q", got)
	}
	if _, err := ShareURL("http://x/", ""); !errors.Is(err, ErrNoCurrent) {
		t.Fatalf("empty id err = %v", err)
	}
}

func TestLocate(t *testing.T) {
	if Locate(records("a", "b", "c"), "c") != 2 || Locate(nil, "a") != -1 {
		t.Fatalf("Locate mismatch")
	}
}
