package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/gallery/internal/lightbox"
)

// renderViewer draws the lightbox panel for the displayed photo.
func (m Model) renderViewer(width, height int) string {
	styles := m.theme.Styles()
	v := m.session.Viewer()
	rec, ok := v.Current()
	if !ok {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			styles.MutedText.Render("Nothing to show"))
	}

	panelW := min(max(width-8, 20), 100)
	innerW := panelW - 4

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(truncate(rec.Label(), innerW-10)))
	b.WriteString("  ")
	b.WriteString(styles.MutedText.Render(fmt.Sprintf("%d / %d", v.Index()+1, v.Len())))
	b.WriteString("\n\n")

	frameH := min(max(int(float64(innerW)/(rec.AspectRatio()*cellAspect)), 3), max(height-14, 3))
	frame := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(m.theme.Border)).
		Width(innerW-2).
		Height(frameH-2).
		Align(lipgloss.Center, lipgloss.Center)
	dims := "size unknown"
	if rec.Width > 0 && rec.Height > 0 {
		dims = fmt.Sprintf("%d × %d", rec.Width, rec.Height)
	}
	b.WriteString(frame.Render(styles.FaintText.Render(truncate(rec.ImageURL, innerW-4)) + "\n" +
		styles.FaintText.Render(dims)))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().Width(innerW).Render(styles.Text.Render(rec.DisplayText())))
	b.WriteString("\n")

	var meta []string
	if author := strings.TrimSpace(rec.Author); author != "" {
		by := styles.MutedText.Render("by " + author)
		if m.currentIsStaff() {
			by += " " + styles.Badge.Render("staff")
		}
		meta = append(meta, by)
	}
	if rec.Date != "" {
		meta = append(meta, styles.FaintText.Render(rec.Time().Format("2 Jan 2006")))
	}
	if len(meta) > 0 {
		b.WriteString(strings.Join(meta, styles.FaintText.Render(" · ")))
		b.WriteString("\n")
	}

	if n, ok := v.Notice(); ok {
		b.WriteString("\n")
		switch n.Kind {
		case lightbox.NoticeSuccess:
			b.WriteString(styles.SuccessText.Render("✓ " + n.Text))
		default:
			b.WriteString(styles.DangerText.Render("✗ " + truncate(n.Text, innerW-2)))
		}
		b.WriteString("\n")
	}

	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Background(lipgloss.Color(m.theme.SurfaceAlt)).
		Padding(1, 1).
		Width(panelW).
		MaxHeight(height)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, panel.Render(b.String()))
}

func (m Model) currentIsStaff() bool {
	v := m.session.Viewer()
	items := m.session.Items()
	i := v.Index()
	if !v.IsOpen() || i < 0 || i >= len(items) {
		return false
	}
	return items[i].Staff
}
