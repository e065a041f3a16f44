package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/gallery/internal/grid"
	"github.com/five82/gallery/internal/layout"
)

const (
	// Terminal cells are roughly twice as tall as they are wide, so a photo's
	// pixel aspect ratio is doubled when laid out in cells.
	cellAspect = 2.0

	tileSpacing = 1
	minTileRows = 4
	pxPerRow    = 36
)

// gridLayout is the justified layout of the rendered window in cells.
type gridLayout struct {
	res   layout.Result
	rows  [][]int
	width int
}

// tileRows converts the configured pixel row height into terminal rows.
func tileRows(rowHeightPx int) int {
	if rowHeightPx <= 0 {
		rowHeightPx = layout.DefaultTargetRowHeight
	}
	return max(minTileRows, rowHeightPx/pxPerRow)
}

func computeGrid(items []grid.Item, width, rows int) gridLayout {
	if width <= 0 || len(items) == 0 {
		return gridLayout{width: width}
	}
	ratios := make([]float64, len(items))
	for i, it := range items {
		ratios[i] = it.Photo.AspectRatio() * cellAspect
	}
	res := layout.Justify(ratios, width, rows, tileSpacing)
	return gridLayout{res: res, rows: layout.Rows(res), width: width}
}

func (g gridLayout) empty() bool { return len(g.res.Boxes) == 0 }

// rowOf returns the row containing box idx, or -1.
func (g gridLayout) rowOf(idx int) int {
	for r, row := range g.rows {
		for _, i := range row {
			if i == idx {
				return r
			}
		}
	}
	return -1
}

// moveVertical returns the box in the row dir steps away whose horizontal
// centre is closest to cur's. cur is returned when no such row exists.
func (g gridLayout) moveVertical(cur, dir int) int {
	r := g.rowOf(cur)
	if r < 0 {
		return cur
	}
	target := r + dir
	if target < 0 || target >= len(g.rows) {
		return cur
	}
	b := g.res.Boxes[cur]
	center := b.Left + b.Width/2
	best, bestDist := cur, -1
	for _, idx := range g.rows[target] {
		c := g.res.Boxes[idx]
		d := c.Left + c.Width/2 - center
		if d < 0 {
			d = -d
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = idx, d
		}
	}
	return best
}

// renderGrid draws every tile row by row. Line n of the output corresponds to
// y = n in layout coordinates, so layout.HitTest works on viewport offsets.
func (m Model) renderGrid() string {
	items := m.session.Items()
	if m.grid.empty() || len(items) != len(m.grid.res.Boxes) {
		return m.renderGridStatus()
	}

	var b strings.Builder
	clip := lipgloss.NewStyle().MaxWidth(m.grid.width)
	gap := strings.Repeat(" ", tileSpacing)
	for _, row := range m.grid.rows {
		tiles := make([]string, 0, len(row)*2)
		for j, idx := range row {
			if j > 0 {
				tiles = append(tiles, gap)
			}
			tiles = append(tiles, m.renderTile(items[idx], m.grid.res.Boxes[idx], idx == m.selected))
		}
		b.WriteString(clip.Render(lipgloss.JoinHorizontal(lipgloss.Top, tiles...)))
		b.WriteString(strings.Repeat("\n", tileSpacing+1))
	}
	b.WriteString(m.renderGridStatus())
	return b.String()
}

func (m Model) renderTile(item grid.Item, box layout.Box, selected bool) string {
	styles := m.theme.Styles()
	state := m.session.LoadState(item.Photo.ID)
	border := styles.TileBorder(state, selected)

	innerW, innerH := box.Width-2, box.Height-2
	if innerW < 1 || innerH < 1 {
		return lipgloss.NewStyle().
			Width(box.Width).
			Height(box.Height).
			Background(border).
			Render("")
	}

	title := styles.Text
	if selected {
		title = styles.AccentText.Bold(true)
	}
	lines := []string{title.Render(truncate(item.Photo.Label(), innerW))}

	if author := strings.TrimSpace(item.Photo.Author); author != "" {
		by := truncate("by "+author, innerW)
		if item.Staff && lipgloss.Width(by)+2 <= innerW {
			by = styles.MutedText.Render(by) + " " + styles.WarningText.Render("★")
		} else {
			by = styles.MutedText.Render(by)
		}
		lines = append(lines, by)
	}
	if item.Photo.Date != "" {
		lines = append(lines, styles.FaintText.Render(truncate(item.Photo.Time().Format("2006-01-02"), innerW)))
	}

	switch state {
	case grid.LoadError:
		lines = append(lines, styles.DangerText.Render(truncate("✗ unavailable", innerW)))
	case grid.LoadLoading, grid.LoadUnknown:
		lines = append(lines, styles.FaintText.Render(truncate("loading…", innerW)))
	}
	if len(lines) > innerH {
		lines = lines[:innerH]
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(innerW).
		Height(innerH).
		MaxHeight(box.Height)
	if selected {
		style = style.Background(lipgloss.Color(m.theme.FocusBg))
	}
	return style.Render(strings.Join(lines, "\n"))
}

// renderGridStatus is the line below the last row. It doubles as the
// infinite-scroll sentinel.
func (m Model) renderGridStatus() string {
	styles := m.theme.Styles()
	switch {
	case m.session.Phase() == grid.PhaseLoading || m.session.Phase() == grid.PhaseRefreshing:
		return styles.WarningText.Render("Loading gallery…")
	case m.session.Err() != nil:
		return styles.DangerText.Render("Manifest unavailable: " + m.session.Err().Error())
	case m.session.Total() == 0:
		return styles.MutedText.Render("No photos yet")
	case m.session.LoadingMore():
		return styles.WarningText.Render("Loading more…")
	case m.session.HasMore():
		return styles.FaintText.Render("↓ more")
	default:
		return styles.FaintText.Render("End of gallery")
	}
}
