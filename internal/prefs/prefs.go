// Package prefs persists what the browser remembers between runs: the colour
// theme and the last chosen sort order. The file lives at
// ~/.config/gallery/prefs.toml unless a path is given.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/gallery/internal/config"
	"github.com/five82/gallery/internal/sortorder"
)

// Prefs is the persisted browser state. Sort is empty when nothing valid has
// been chosen yet.
type Prefs struct {
	Theme string `toml:"theme"`
	Sort  string `toml:"sort,omitempty"`
}

const (
	defaultPrefsPath = "~/.config/gallery/prefs.toml"
	defaultTheme     = "Dracula"
)

// DefaultPath is used when no path is configured.
func DefaultPath() string { return defaultPrefsPath }

// Defaults returns the prefs of a first run.
func Defaults() Prefs { return Prefs{Theme: defaultTheme} }

// Load reads the prefs at path. A missing file is a first run and returns
// Defaults without error. A file that cannot be read or parsed also yields
// Defaults, together with the error so the caller can log it.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Defaults(), err
	}
	data, err := os.ReadFile(resolved)
	if errors.Is(err, os.ErrNotExist) {
		return Defaults(), nil
	}
	if err != nil {
		return Defaults(), fmt.Errorf("read prefs: %w", err)
	}

	var p Prefs
	if err := toml.Unmarshal(data, &p); err != nil {
		return Defaults(), fmt.Errorf("parse prefs %s: %w", resolved, err)
	}
	return p.normalized(), nil
}

func (p Prefs) normalized() Prefs {
	p.Theme = strings.TrimSpace(p.Theme)
	if p.Theme == "" {
		p.Theme = defaultTheme
	}
	if opt, ok := sortorder.Parse(p.Sort); ok {
		p.Sort = string(opt)
	} else {
		p.Sort = ""
	}
	return p
}

// Save replaces the prefs file atomically, creating its directory.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return err
	}
	data, err := toml.Marshal(p.normalized())
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".prefs-*.toml")
	if err != nil {
		return fmt.Errorf("create temp prefs: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmp.Name(), resolved); err != nil {
		return fmt.Errorf("replace prefs: %w", err)
	}
	return nil
}

// ResolveSort picks the starting sort: the runtime override, then the
// persisted choice, then the site default, then sortorder.Default. Values that
// do not parse are skipped.
func ResolveSort(override, persisted, siteDefault string) sortorder.Option {
	for _, candidate := range []string{override, persisted, siteDefault} {
		if opt, ok := sortorder.Parse(candidate); ok {
			return opt
		}
	}
	return sortorder.Default
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultPrefsPath
	}
	resolved, err := config.ExpandPath(path)
	if err != nil {
		return "", fmt.Errorf("prefs path: %w", err)
	}
	return resolved, nil
}
