package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/five82/gallery/internal/sortorder"
)

func noEnv() Env {
	return Env{lookup: func(string) (string, bool) { return "", false }}
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"), noEnv())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Listen != defaultListen {
		t.Fatalf("Listen = %q, want %q", cfg.Listen, defaultListen)
	}
	if cfg.DefaultSort != sortorder.DateDesc {
		t.Fatalf("DefaultSort = %q", cfg.DefaultSort)
	}

	wantLogDir, err := expandPath(defaultLogDir)
	if err != nil {
		t.Fatalf("expandPath(defaultLogDir) returned error: %v", err)
	}
	if cfg.LogPath() != filepath.Join(wantLogDir, "gallery.log") {
		t.Fatalf("LogPath = %q", cfg.LogPath())
	}
	if cfg.ResolvedManifestURL() != "http://127.0.0.1:8080/images.json" {
		t.Fatalf("ResolvedManifestURL = %q", cfg.ResolvedManifestURL())
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
site_url = "  https://gallery.example.com/  "
default_sort = "Name-Asc"
staff_authors = [" inventory69 ", ""]
initial_batch = 12
spacing = 0
poll_interval = "5s"
public_dir = "  ~/site/public  "
thumb_widths = [320, 640]
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path, noEnv())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.SiteURL != "https://gallery.example.com/" {
		t.Fatalf("SiteURL = %q", cfg.SiteURL)
	}
	if cfg.DefaultSort != sortorder.NameAsc {
		t.Fatalf("DefaultSort = %q", cfg.DefaultSort)
	}
	if len(cfg.StaffAuthors) != 1 || cfg.StaffAuthors[0] != "inventory69" {
		t.Fatalf("StaffAuthors = %q", cfg.StaffAuthors)
	}
	if cfg.InitialBatch != 12 || cfg.BatchSize != defaultBatchSize {
		t.Fatalf("batches = %d/%d", cfg.InitialBatch, cfg.BatchSize)
	}
	if cfg.Spacing != 0 {
		t.Fatalf("Spacing = %d, want explicit 0", cfg.Spacing)
	}
	if cfg.PollInterval != 5*time.Second {
		t.Fatalf("PollInterval = %v", cfg.PollInterval)
	}
	if !strings.HasPrefix(cfg.PublicDir, home) {
		t.Fatalf("PublicDir = %q, want it under HOME %q", cfg.PublicDir, home)
	}
	if cfg.ThumbsDir != filepath.Join(cfg.PublicDir, "images", "thumbs") {
		t.Fatalf("ThumbsDir = %q", cfg.ThumbsDir)
	}
	if cfg.ManifestPath() != filepath.Join(cfg.PublicDir, "images.json") {
		t.Fatalf("ManifestPath = %q", cfg.ManifestPath())
	}
	if len(cfg.ThumbWidths) != 2 || cfg.ThumbWidths[1] != 640 {
		t.Fatalf("ThumbWidths = %v", cfg.ThumbWidths)
	}
}

func TestLoad_RejectsUnknownSort(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`default_sort = "by-colour"`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path, noEnv()); err == nil {
		t.Fatalf("expected error for unknown default_sort")
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("listen = "), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path, noEnv()); err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("err = %v, want parse error", err)
	}
}

func TestLoadEnv_ProcessEnvWinsOverDotEnv(t *testing.T) {
	dir := t.TempDir()
	dotenv := filepath.Join(dir, ".env")
	if err := os.WriteFile(dotenv, []byte("GALLERY_LISTEN=0.0.0.0:9000\nGALLERY_DEFAULT_SORT=random\nGALLERY_STAFF_AUTHORS=a, b\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("GALLERY_LISTEN", "127.0.0.1:7000")

	env, err := LoadEnv(filepath.Join(dir, "missing.env"), dotenv)
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	cfg, err := Load(filepath.Join(dir, "none.toml"), env)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Listen != "127.0.0.1:7000" {
		t.Fatalf("Listen = %q, want process env value", cfg.Listen)
	}
	if cfg.DefaultSort != sortorder.Random {
		t.Fatalf("DefaultSort = %q, want .env value", cfg.DefaultSort)
	}
	if len(cfg.StaffAuthors) != 2 || cfg.StaffAuthors[1] != "b" {
		t.Fatalf("StaffAuthors = %q", cfg.StaffAuthors)
	}
}

func TestLoad_InvalidEnvOverride(t *testing.T) {
	t.Setenv("GALLERY_POLL_INTERVAL", "soon")
	env, _ := LoadEnv()
	if _, err := Load(filepath.Join(t.TempDir(), "none.toml"), env); err == nil {
		t.Fatalf("expected error for invalid GALLERY_POLL_INTERVAL")
	}
}
