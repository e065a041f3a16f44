package ingest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Frontmatter is the YAML header of a photo note.
type Frontmatter struct {
	Title   string `yaml:"title,omitempty"`
	Caption string `yaml:"caption,omitempty"`
	Author  string `yaml:"author,omitempty"`
	Date    string `yaml:"date,omitempty"`
}

// Note is a parsed markdown file.
type Note struct {
	Path string
	Meta Frontmatter
	Body string
}

const fence = "---"

// ParseNote splits data into YAML frontmatter and body. Files without a
// leading fence are all body.
func ParseNote(data []byte) (Frontmatter, string, error) {
	text := string(bytes.TrimPrefix(data, []byte("\ufeff")))
	text = strings.ReplaceAll(text, "\r\n", "\n")

	if !strings.HasPrefix(text, fence+"\n") {
		return Frontmatter{}, strings.TrimSpace(text), nil
	}
	rest := text[len(fence)+1:]

	var header, body string
	switch {
	case strings.HasPrefix(rest, fence+"\n") || rest == fence:
		body = strings.TrimPrefix(strings.TrimPrefix(rest, fence), "\n")
	default:
		end := strings.Index(rest, "\n"+fence)
		if end < 0 {
			return Frontmatter{}, "", fmt.Errorf("unterminated frontmatter")
		}
		header = rest[:end]
		body = rest[end+len(fence)+1:]
		if i := strings.IndexByte(body, '\n'); i >= 0 {
			body = body[i+1:]
		} else {
			body = ""
		}
	}

	var fm Frontmatter
	if strings.TrimSpace(header) != "" {
		if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
			return Frontmatter{}, "", fmt.Errorf("parse frontmatter: %w", err)
		}
	}
	fm.Title = strings.TrimSpace(fm.Title)
	fm.Caption = strings.TrimSpace(fm.Caption)
	fm.Author = strings.TrimSpace(fm.Author)
	fm.Date = strings.TrimSpace(fm.Date)
	return fm, strings.TrimSpace(body), nil
}

// findNote returns the markdown path for a photo, or "" when none exists.
// Default records prefer <id>-default.md.
func findNote(dir, id string, isDefault bool) string {
	if dir == "" {
		return ""
	}
	candidates := []string{id + ".md"}
	if isDefault {
		candidates = []string{id + "-default.md", id + ".md"}
	}
	for _, name := range candidates {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p
		}
	}
	return ""
}

// readNote loads and parses the markdown file at path.
func readNote(path string) (Note, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Note{}, fmt.Errorf("read note: %w", err)
	}
	meta, body, err := ParseNote(data)
	if err != nil {
		return Note{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return Note{Path: path, Meta: meta, Body: body}, nil
}
