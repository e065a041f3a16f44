package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/gallery/internal/grid"
)

const headerLines = 2

// renderHeader renders the status bar: sort, counts, phase and manifest health.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	sortOpt := m.session.Sort()
	parts := []string{
		bg.Render("gallery", styles.Logo),
		bg.Render(sortOpt.Icon()+" "+sortOpt.Label(), styles.AccentText),
		bg.Render(fmt.Sprintf("%d/%d", m.session.VisibleCount(), m.session.Total()), styles.Text),
	}

	switch m.session.Phase() {
	case grid.PhaseLoading, grid.PhaseRefreshing, grid.PhaseLoadingMore:
		parts = append(parts, bg.Render(m.session.Phase().String(), styles.WarningText))
	}

	if m.snapshot.IsOffline() {
		parts = append(parts,
			bg.Render("MANIFEST "+classifyConnectionError(m.snapshot.LastError), styles.DangerText.Bold(true)),
			bg.Render("Retrying...", styles.WarningText.Bold(true)))
	} else if err := m.session.Err(); err != nil {
		parts = append(parts, bg.Render(classifyConnectionError(err), styles.DangerText))
	}

	if ts := m.formatTimestamp(); ts != "" {
		parts = append(parts, bg.Render(ts, styles.FaintText))
	}

	return styles.Header.Width(m.width).MaxHeight(1).Render(bg.Join(parts, sep))
}

// formatTimestamp formats the last manifest change with a relative indicator.
func (m Model) formatTimestamp() string {
	changed := m.snapshot.LastChanged
	if changed.IsZero() {
		return ""
	}

	since := time.Since(changed)
	out := changed.Format("15:04:05")
	switch {
	case since < time.Minute:
		out += " (now)"
	case since < time.Hour:
		out += fmt.Sprintf(" (%dm ago)", int(since.Minutes()))
	case since < 24*time.Hour:
		out += fmt.Sprintf(" (%dh ago)", int(since.Hours()))
	}
	return out
}

// classifyConnectionError returns a short description of the connection error.
func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIMEOUT"
	case strings.Contains(msg, "no such file"):
		return "MISSING"
	case strings.Contains(msg, "decode"):
		return "INVALID"
	default:
		return "ERROR"
	}
}

// renderCommandBar renders the key hints for the active mode.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	if m.session.Viewer().IsOpen() {
		commands = []cmd{
			{"←/→", "Navigate"},
			{"c", "Copy link"},
			{"o", "Original"},
			{"esc", "Close"},
			{"?", "More"},
		}
	} else {
		commands = []cmd{
			{"hjkl", "Move"},
			{"enter", "View"},
			{"s", "Sort"},
			{"r", "Reload"},
			{"?", "More"},
		}
	}

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).MaxHeight(1).Render(strings.Join(segments, bg.Spaces(2)))
}

// truncate shortens s to max display cells with a trailing ellipsis.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= max {
		return s
	}
	runes := []rune(s)
	if max == 1 {
		return "…"
	}
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > max {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
