package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count, idx := 0, 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		count = min(count+1, maxLines)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count < maxLines {
		copy(lines, ring[:count])
		return lines, nil
	}
	for i := range lines {
		lines[i] = ring[(idx+i)%maxLines]
	}
	return lines, nil
}

var linePattern = regexp.MustCompile(`^(\d{2}:\d{2}:\d{2}(?:\.\d+)?)\s+(DEBU|INFO|WARN|ERRO|FATA)\s+(.*)$`)

var levelNames = map[string]log.Level{
	"DEBU": log.DebugLevel,
	"INFO": log.InfoLevel,
	"WARN": log.WarnLevel,
	"ERRO": log.ErrorLevel,
	"FATA": log.FatalLevel,
}

// ParseLevel reports the level of a log line. Continuation and foreign lines
// report false.
func ParseLevel(line string) (log.Level, bool) {
	m := linePattern.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	return levelNames[m[2]], true
}

// Filter keeps lines at or above minLevel. Lines without a level follow the
// decision made for the line before them.
func Filter(lines []string, minLevel log.Level) []string {
	out := make([]string, 0, len(lines))
	keep := true
	for _, line := range lines {
		if lvl, ok := ParseLevel(line); ok {
			keep = lvl >= minLevel
		}
		if keep {
			out = append(out, line)
		}
	}
	return out
}

// Styles colour the parts of a log line.
type Styles struct {
	Timestamp lipgloss.Style
	Key       lipgloss.Style
	Levels    map[log.Level]lipgloss.Style
}

// DefaultStyles suit a dark terminal.
func DefaultStyles() Styles {
	return Styles{
		Timestamp: lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")),
		Key:       lipgloss.NewStyle().Foreground(lipgloss.Color("#6495ED")),
		Levels: map[log.Level]lipgloss.Style{
			log.DebugLevel: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BE9FD")),
			log.InfoLevel:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#50FA7B")),
			log.WarnLevel:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F1FA8C")),
			log.ErrorLevel: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF5555")),
			log.FatalLevel: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF79C6")),
		},
	}
}

var keyPattern = regexp.MustCompile(`(^|\s)([A-Za-z_][\w.-]*)=`)

// Colorize renders one line with s.
func Colorize(line string, s Styles) string {
	m := linePattern.FindStringSubmatch(line)
	if m == nil {
		return line
	}
	level := m[2]
	if style, ok := s.Levels[levelNames[level]]; ok {
		level = style.Render(level)
	}
	rest := keyPattern.ReplaceAllStringFunc(m[3], func(match string) string {
		lead := match[:len(match)-len(strings.TrimLeft(match, " \t"))]
		key := strings.TrimSuffix(strings.TrimLeft(match, " \t"), "=")
		return lead + s.Key.Render(key) + "="
	})
	return s.Timestamp.Render(m[1]) + " " + level + " " + rest
}

// ColorizeLines applies Colorize to every line.
func ColorizeLines(lines []string, s Styles) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = Colorize(line, s)
	}
	return out
}
