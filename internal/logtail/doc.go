// Package logtail reads the tail of the gallery log file and styles it for a
// terminal.
//
// Read keeps a ring buffer of the last n lines, so memory stays O(n) however
// large the file grows. A missing file reads as empty.
//
// Lines are expected in the charmbracelet/log text format the browse command
// writes:
//
//	14:32:15.04 INFO manifest refreshed photos=48 source=http://127.0.0.1:8080/images.json
//
// ParseLevel recovers the level of such a line so callers can filter, and
// Colorize renders timestamp, level and key=value pairs with lipgloss. Lines
// that do not match are passed through unchanged.
package logtail
