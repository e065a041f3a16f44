package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/gallery/internal/sortorder"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// sortChosenMsg is emitted when the sort menu confirms an option.
type sortChosenMsg struct {
	opt sortorder.Option
}

// sortMenu lists the display orders and highlights the active one.
type sortMenu struct {
	options []sortorder.Option
	active  sortorder.Option
	cursor  int
}

func newSortMenu(active sortorder.Option) *sortMenu {
	m := &sortMenu{options: sortorder.Options, active: active}
	for i, opt := range m.options {
		if opt == active {
			m.cursor = i
		}
	}
	return m
}

func (s *sortMenu) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil, false
	}
	switch {
	case key.Matches(km, keys.Escape), key.Matches(km, keys.SortMenu):
		return s, nil, true
	case key.Matches(km, keys.Up):
		s.cursor = (s.cursor - 1 + len(s.options)) % len(s.options)
	case key.Matches(km, keys.Down):
		s.cursor = (s.cursor + 1) % len(s.options)
	case key.Matches(km, keys.Open):
		opt := s.options[s.cursor]
		return s, func() tea.Msg { return sortChosenMsg{opt: opt} }, true
	}
	return s, nil, false
}

func (s *sortMenu) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Sort by"))
	b.WriteString("\n\n")
	for i, opt := range s.options {
		marker := "  "
		if opt == s.active {
			marker = "● "
		}
		line := marker + opt.Icon() + " " + opt.Label()
		switch {
		case i == s.cursor:
			b.WriteString(lipgloss.NewStyle().
				Background(lipgloss.Color(theme.FocusBg)).
				Foreground(lipgloss.Color(theme.Accent)).
				Width(22).
				Render(line))
		default:
			b.WriteString(styles.Text.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("enter select · esc cancel"))

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, modal.Render(b.String()))
}
