package ui

import (
	"errors"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestClassifyConnectionError(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{errors.New("dial tcp: connect: connection refused"), "OFFLINE"},
		{errors.New("lookup x: no such host"), "HOST NOT FOUND"},
		{errors.New("context deadline exceeded"), "TIMEOUT"},
		{errors.New("open images.json: no such file or directory"), "MISSING"},
		{errors.New("decode manifest: bad json"), "INVALID"},
		{errors.New("boom"), "ERROR"},
	}
	for _, tc := range cases {
		if got := classifyConnectionError(tc.err); got != tc.want {
			t.Fatalf("classifyConnectionError(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("truncate short = %q", got)
	}
	if got := truncate("anything", 0); got != "" {
		t.Fatalf("truncate zero = %q", got)
	}
	got := truncate("Cherry blossoms at dusk", 10)
	if lipgloss.Width(got) > 10 || got[len(got)-len("…"):] != "…" {
		t.Fatalf("truncate = %q (%d cells)", got, lipgloss.Width(got))
	}
	if got := truncate("日本語のタイトル", 5); lipgloss.Width(got) > 5 {
		t.Fatalf("wide runes overflow: %q", got)
	}
}
