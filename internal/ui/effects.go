package ui

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/gallery/internal/events"
	"github.com/five82/gallery/internal/gallery"
	"github.com/five82/gallery/internal/grid"
	"github.com/five82/gallery/internal/manifest"
	"github.com/five82/gallery/internal/photo"
	"github.com/five82/gallery/internal/state"
)

var errNoSource = errors.New("no manifest source configured")

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type manifestMsg struct {
	ticket grid.Ticket
	photos []photo.Record
	err    error
}

type batchDueMsg struct{ ticket grid.Ticket }

type viewerReadyMsg struct{ binding uint64 }

type retryDueMsg struct{ retry grid.Retry }

type noticeExpiredMsg struct{ seq uint64 }

type imageLoadedMsg struct {
	epoch uint64
	id    string
}

type imageFailedMsg struct {
	epoch uint64
	id    string
	err   error
}

type busEventMsg struct{ ev events.Event }

type busClosedMsg struct{}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func fetchManifestCmd(ctx context.Context, source manifest.Source, t grid.Ticket) tea.Cmd {
	return func() tea.Msg {
		if source == nil {
			return manifestMsg{ticket: t, err: errNoSource}
		}
		photos, err := source.Fetch(ctx)
		return manifestMsg{ticket: t, photos: photos, err: err}
	}
}

// probeCmd stands in for a thumbnail load: the tile turns loaded when the
// thumbnail URL answers.
func probeCmd(ctx context.Context, prober manifest.Prober, a gallery.LoadImage) tea.Cmd {
	return func() tea.Msg {
		if prober == nil {
			return imageLoadedMsg{epoch: a.Epoch, id: a.ID}
		}
		if err := prober.Probe(ctx, a.URL); err != nil {
			return imageFailedMsg{epoch: a.Epoch, id: a.ID, err: err}
		}
		return imageLoadedMsg{epoch: a.Epoch, id: a.ID}
	}
}

func waitForEvent(sub *events.Subscription) tea.Cmd {
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-sub.C
		if !ok {
			return busClosedMsg{}
		}
		return busEventMsg{ev: ev}
	}
}

// runActions turns session actions into Bubble Tea commands.
func (m Model) runActions(actions []gallery.Action) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(actions))
	for _, a := range actions {
		cmds = append(cmds, m.actionCmd(a))
	}
	return tea.Batch(cmds...)
}

func (m Model) actionCmd(a gallery.Action) tea.Cmd {
	switch a := a.(type) {
	case gallery.Fetch:
		return fetchManifestCmd(m.ctx, m.source, a.Ticket)
	case gallery.ScheduleBatch:
		return tea.Tick(a.Delay, func(time.Time) tea.Msg { return batchDueMsg{ticket: a.Ticket} })
	case gallery.ScheduleViewerReady:
		return tea.Tick(a.Delay, func(time.Time) tea.Msg { return viewerReadyMsg{binding: a.Binding} })
	case gallery.ScheduleRetry:
		return tea.Tick(a.Retry.Delay, func(time.Time) tea.Msg { return retryDueMsg{retry: a.Retry} })
	case gallery.ScheduleNoticeClear:
		return tea.Tick(a.Delay, func(time.Time) tea.Msg { return noticeExpiredMsg{seq: a.Seq} })
	case gallery.LoadImage:
		return probeCmd(m.ctx, m.prober, a)
	default:
		return nil
	}
}

// SystemClipboard writes share links to the OS clipboard.
type SystemClipboard struct{}

func (SystemClipboard) WriteText(text string) error {
	return clipboard.WriteAll(text)
}

// BrowserOpener hands a URL to the platform's default handler.
type BrowserOpener struct{}

func (BrowserOpener) Open(target string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", target)
	case "linux":
		cmd = exec.Command("xdg-open", target)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", target)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
	_, err := startDetached(cmd)
	return err
}

// startDetached starts cmd without blocking and reaps it in the background.
// The returned channel yields the exit result once the process is waited on.
func startDetached(cmd *exec.Cmd) (<-chan error, error) {
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()
	return done, nil
}
