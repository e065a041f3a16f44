package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/gallery/internal/grid"
)

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	if len(names) != 2 {
		t.Fatalf("ThemeNames() returned %d names, want 2", len(names))
	}
	if names[0] != "Dracula" || names[1] != "Slate" {
		t.Fatalf("ThemeNames() = %v, want [Dracula Slate]", names)
	}
}

func TestNextTheme(t *testing.T) {
	if got := NextTheme("Dracula"); got != "Slate" {
		t.Fatalf("NextTheme(Dracula) = %q, want Slate", got)
	}
	if got := NextTheme("Slate"); got != "Dracula" {
		t.Fatalf("NextTheme(Slate) = %q, want Dracula", got)
	}
	if got := NextTheme("Unknown"); got != "Dracula" {
		t.Fatalf("NextTheme(Unknown) = %q, want Dracula", got)
	}
}

func TestGetTheme(t *testing.T) {
	if got := GetTheme("Slate").Name; got != "Slate" {
		t.Fatalf("GetTheme(Slate).Name = %q, want Slate", got)
	}
	if got := GetTheme("Unknown").Name; got != "Dracula" {
		t.Fatalf("GetTheme(Unknown).Name = %q, want Dracula (fallback)", got)
	}
}

func TestTileBorder(t *testing.T) {
	th := GetTheme("Dracula")
	s := th.Styles()

	cases := []struct {
		name     string
		state    grid.LoadState
		selected bool
		want     string
	}{
		{"selected wins", grid.LoadError, true, th.BorderFocus},
		{"error", grid.LoadError, false, th.Danger},
		{"loaded", grid.LoadLoaded, false, th.Border},
		{"loading", grid.LoadLoading, false, th.BorderMuted},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := s.TileBorder(tc.state, tc.selected); got != lipgloss.Color(tc.want) {
				t.Fatalf("TileBorder = %v, want %v", got, tc.want)
			}
		})
	}
}
