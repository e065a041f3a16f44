package ui

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/five82/gallery/internal/events"
	"github.com/five82/gallery/internal/gallery"
	"github.com/five82/gallery/internal/grid"
	"github.com/five82/gallery/internal/lightbox"
	"github.com/five82/gallery/internal/photo"
	"github.com/five82/gallery/internal/prefs"
	"github.com/five82/gallery/internal/sortorder"
)

type sliceSource []photo.Record

func (s sliceSource) Fetch(context.Context) ([]photo.Record, error) { return s, nil }

type recordingClipboard struct{ text string }

func (c *recordingClipboard) WriteText(text string) error {
	c.text = text
	return nil
}

func testPhotos(n int) []photo.Record {
	out := make([]photo.Record, n)
	for i := range out {
		out[i] = photo.Record{
			ID:     fmt.Sprintf("p%02d", i),
			Title:  fmt.Sprintf("Photo %02d", i),
			Date:   fmt.Sprintf("2024-01-%02d", i+1),
			Width:  1500,
			Height: 1000,
		}
	}
	return out
}

func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// loadedModel builds a sized model and delivers the first manifest fetch.
func loadedModel(t *testing.T, photos []photo.Record, opts Options) Model {
	t.Helper()
	opts.Source = sliceSource(photos)
	if opts.PrefsPath == "" {
		opts.PrefsPath = filepath.Join(t.TempDir(), "prefs.toml")
	}
	opts.Logger = log.New(io.Discard)
	if opts.Session.Grid.InitialBatch == 0 {
		opts.Session.Grid.InitialBatch = 6
	}

	m := New(opts)
	m = step(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	var fetch gallery.Fetch
	for _, a := range m.session.Start() {
		if f, ok := a.(gallery.Fetch); ok {
			fetch = f
		}
	}
	return step(t, m, manifestMsg{ticket: fetch.Ticket, photos: photos})
}

func TestModel_RendersInitialWindow(t *testing.T) {
	m := loadedModel(t, testPhotos(30), Options{})

	if got := len(m.grid.res.Boxes); got != 6 {
		t.Fatalf("boxes = %d, want 6", got)
	}
	view := m.View()
	for _, want := range []string{"gallery", "6/30", "Photo 29"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "Photo 23") {
		t.Fatalf("withheld photo rendered")
	}
}

func TestModel_KeyboardSelectionAndViewer(t *testing.T) {
	m := loadedModel(t, testPhotos(30), Options{})

	m = step(t, m, keyPress("l"))
	m = step(t, m, keyPress("l"))
	if m.selected != 2 {
		t.Fatalf("selected = %d, want 2", m.selected)
	}

	m = step(t, m, keyPress("enter"))
	v := m.session.Viewer()
	if !v.IsOpen() || v.Index() != 2 {
		t.Fatalf("viewer open=%v index=%d, want open at 2", v.IsOpen(), v.Index())
	}
	if !strings.Contains(m.View(), "3 / 6") {
		t.Fatalf("viewer counter missing:\n%s", m.View())
	}

	m = step(t, m, keyPress("l"))
	if v.Index() != 3 || m.selected != 3 {
		t.Fatalf("after next: index=%d selected=%d, want 3", v.Index(), m.selected)
	}

	m = step(t, m, keyPress("esc"))
	if v.IsOpen() {
		t.Fatalf("esc did not close the viewer")
	}
}

func TestModel_MouseClickOpensTile(t *testing.T) {
	m := loadedModel(t, testPhotos(30), Options{})
	box := m.grid.res.Boxes[1]

	m = step(t, m, tea.MouseMsg{
		X:      box.Left + 1,
		Y:      box.Top + 1 + headerLines,
		Button: tea.MouseButtonLeft,
		Action: tea.MouseActionPress,
	})
	if v := m.session.Viewer(); !v.IsOpen() || v.Index() != 1 {
		t.Fatalf("viewer open=%v index=%d, want open at 1", v.IsOpen(), v.Index())
	}
}

func TestModel_SortChoicePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	m := loadedModel(t, testPhotos(30), Options{PrefsPath: path})

	m = step(t, m, sortChosenMsg{opt: sortorder.NameAsc})
	if m.session.Sort() != sortorder.NameAsc {
		t.Fatalf("sort = %s, want name-asc", m.session.Sort())
	}
	if first := m.session.Items()[0].Photo.ID; first != "p00" {
		t.Fatalf("first item = %s, want p00", first)
	}

	saved, err := prefs.Load(path)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if saved.Sort != "name-asc" || saved.Theme != "Dracula" {
		t.Fatalf("saved prefs = %+v", saved)
	}
}

func TestModel_ChoosingRandomAgainReshuffles(t *testing.T) {
	m := loadedModel(t, testPhotos(30), Options{})

	m = step(t, m, sortChosenMsg{opt: sortorder.Random})
	if m.session.Sort() != sortorder.Random {
		t.Fatalf("sort = %s, want random", m.session.Sort())
	}
	before := m.session.Viewer().Binding()
	m = step(t, m, keyPress("l"))

	m = step(t, m, sortChosenMsg{opt: sortorder.Random})
	if m.session.Viewer().Binding() == before {
		t.Fatalf("second random choice did not reshuffle")
	}
	if m.selected != 0 || m.session.VisibleCount() != 6 {
		t.Fatalf("selected=%d visible=%d, want reset window", m.selected, m.session.VisibleCount())
	}
}

func TestModel_SortAndRefreshGoThroughBus(t *testing.T) {
	bus := events.NewBus(4)
	defer bus.Close()
	m := loadedModel(t, testPhotos(10), Options{Bus: bus})

	receive := func() events.Event {
		t.Helper()
		select {
		case ev := <-m.sub.C:
			return ev
		case <-time.After(time.Second):
			t.Fatalf("no event published")
			return events.Event{}
		}
	}

	m = step(t, m, keyPress("S"))
	if m.session.Sort() != sortorder.DateDesc {
		t.Fatalf("sort applied before the broadcast came back")
	}
	ev := receive()
	if ev.Kind != events.SortChanged || ev.Sort != sortorder.DateAsc {
		t.Fatalf("event = %+v, want sort change to date-asc", ev)
	}
	m = step(t, m, busEventMsg{ev: ev})
	if m.session.Sort() != sortorder.DateAsc {
		t.Fatalf("sort = %s, want date-asc", m.session.Sort())
	}

	m = step(t, m, keyPress("r"))
	ev = receive()
	if ev.Kind != events.RefreshRequested {
		t.Fatalf("event = %v, want refresh", ev.Kind)
	}
	m = step(t, m, busEventMsg{ev: ev})
	if m.session.Phase() != grid.PhaseRefreshing {
		t.Fatalf("phase = %v, want refreshing", m.session.Phase())
	}
}

func TestModel_DeepLinkOpensOnceViewerIsReady(t *testing.T) {
	m := loadedModel(t, testPhotos(30), Options{DeepLink: "p20"})

	// Sorted newest first, p20 sits at position 9: the window grows to 10.
	if got := len(m.session.Items()); got != 10 {
		t.Fatalf("items = %d, want 10", got)
	}
	if m.session.Viewer().IsOpen() {
		t.Fatalf("viewer opened before it was ready")
	}

	m = step(t, m, viewerReadyMsg{binding: m.session.Viewer().Binding()})
	v := m.session.Viewer()
	rec, ok := v.Current()
	if !ok || rec.ID != "p20" || m.selected != 9 {
		t.Fatalf("current=%q ok=%v selected=%d", rec.ID, ok, m.selected)
	}
}

func TestModel_ShareShowsNotice(t *testing.T) {
	clip := &recordingClipboard{}
	m := loadedModel(t, testPhotos(4), Options{Session: gallery.Config{
		Lightbox: lightbox.Options{SiteURL: "https://example.com/", Clipboard: clip},
	}})

	m = step(t, m, keyPress("enter"))
	m = step(t, m, keyPress("c"))

	if clip.text != "https://example.com/#img-p03" {
		t.Fatalf("clipboard = %q", clip.text)
	}
	if !strings.Contains(m.View(), "Link copied") {
		t.Fatalf("notice missing:\n%s", m.View())
	}
}

func TestModel_FailedFetchRendersEmptyGrid(t *testing.T) {
	m := New(Options{Logger: log.New(io.Discard), PrefsPath: filepath.Join(t.TempDir(), "p.toml")})
	m = step(t, m, tea.WindowSizeMsg{Width: 80, Height: 20})
	fetch := m.session.Start()[0].(gallery.Fetch)

	m = step(t, m, manifestMsg{ticket: fetch.Ticket, err: errNoSource})
	if len(m.grid.res.Boxes) != 0 {
		t.Fatalf("boxes = %d, want 0", len(m.grid.res.Boxes))
	}
	if !strings.Contains(m.View(), "Manifest unavailable") {
		t.Fatalf("error line missing:\n%s", m.View())
	}
}

func TestWaitForEvent_ClosedSubscription(t *testing.T) {
	bus := events.NewBus(1)
	sub := bus.Subscribe()
	bus.Close()
	if _, ok := waitForEvent(sub)().(busClosedMsg); !ok {
		t.Fatalf("expected busClosedMsg")
	}
	if waitForEvent(nil) != nil {
		t.Fatalf("nil subscription should yield a nil command")
	}
}
