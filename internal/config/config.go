package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/gallery/internal/sortorder"
)

// Config captures everything the gallery commands need.
type Config struct {
	// Site
	SiteURL      string
	ManifestURL  string
	DefaultSort  sortorder.Option
	StaffAuthors []string

	// Grid
	InitialBatch int
	BatchSize    int
	RowHeight    int
	Spacing      int
	ThumbWidth   int
	MaxRetries   int
	RetryDelay   time.Duration
	PollInterval time.Duration

	// Server
	Listen    string
	PublicDir string

	// Ingest
	OriginalsDir string
	MarkdownDir  string
	ThumbsDir    string
	ThumbWidths  []int
	ThumbQuality int
	Workers      int

	LogDir string
}

const (
	defaultConfigPath   = "~/.config/gallery/config.toml"
	defaultLogDir       = "~/.local/share/gallery"
	defaultListen       = "127.0.0.1:8080"
	defaultSiteURL      = "http://127.0.0.1:8080/"
	defaultPublicDir    = "public"
	defaultOriginals    = "images/originals"
	defaultMarkdown     = "images/markdown"
	defaultRowHeight    = 220
	defaultSpacing      = 10
	defaultThumbWidth   = 400
	defaultThumbQuality = 80
	defaultPollInterval = 30 * time.Second
	defaultRetryDelay   = time.Second
	defaultMaxRetries   = 3
	defaultInitialBatch = 20
	defaultBatchSize    = 10

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "GALLERY_"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		SiteURL:      defaultSiteURL,
		DefaultSort:  sortorder.Default,
		InitialBatch: defaultInitialBatch,
		BatchSize:    defaultBatchSize,
		RowHeight:    defaultRowHeight,
		Spacing:      defaultSpacing,
		ThumbWidth:   defaultThumbWidth,
		MaxRetries:   defaultMaxRetries,
		RetryDelay:   defaultRetryDelay,
		PollInterval: defaultPollInterval,
		Listen:       defaultListen,
		PublicDir:    mustExpand(defaultPublicDir),
		OriginalsDir: mustExpand(defaultOriginals),
		MarkdownDir:  mustExpand(defaultMarkdown),
		ThumbsDir:    filepath.Join(mustExpand(defaultPublicDir), "images", "thumbs"),
		ThumbWidths:  []int{200, 400, 800},
		ThumbQuality: defaultThumbQuality,
		LogDir:       mustExpand(defaultLogDir),
	}
}

type rawConfig struct {
	SiteURL      string   `toml:"site_url"`
	ManifestURL  string   `toml:"manifest_url"`
	DefaultSort  string   `toml:"default_sort"`
	StaffAuthors []string `toml:"staff_authors"`
	InitialBatch int      `toml:"initial_batch"`
	BatchSize    int      `toml:"batch_size"`
	RowHeight    int      `toml:"row_height"`
	Spacing      *int     `toml:"spacing"`
	ThumbWidth   int      `toml:"thumb_width"`
	MaxRetries   int      `toml:"max_retries"`
	RetryDelay   string   `toml:"retry_delay"`
	PollInterval string   `toml:"poll_interval"`
	Listen       string   `toml:"listen"`
	PublicDir    string   `toml:"public_dir"`
	OriginalsDir string   `toml:"originals_dir"`
	MarkdownDir  string   `toml:"markdown_dir"`
	ThumbsDir    string   `toml:"thumbs_dir"`
	ThumbWidths  []int    `toml:"thumb_widths"`
	ThumbQuality int      `toml:"thumb_quality"`
	Workers      int      `toml:"workers"`
	LogDir       string   `toml:"log_dir"`
}

// Load locates and parses the gallery config, falling back to defaults when
// missing, then applies GALLERY_* overrides from env (see LoadEnv).
func Load(path string, env Env) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// defaults
	case err != nil:
		return Config{}, fmt.Errorf("open config: %w", err)
	default:
		defer file.Close()
		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		var raw rawConfig
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
		if err := cfg.apply(raw); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(env); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) apply(raw rawConfig) error {
	setString(&c.SiteURL, raw.SiteURL)
	setString(&c.ManifestURL, raw.ManifestURL)
	setString(&c.Listen, raw.Listen)
	setPath(&c.PublicDir, raw.PublicDir)
	setPath(&c.OriginalsDir, raw.OriginalsDir)
	setPath(&c.MarkdownDir, raw.MarkdownDir)
	setPath(&c.LogDir, raw.LogDir)
	if strings.TrimSpace(raw.ThumbsDir) != "" {
		setPath(&c.ThumbsDir, raw.ThumbsDir)
	} else if strings.TrimSpace(raw.PublicDir) != "" {
		c.ThumbsDir = filepath.Join(c.PublicDir, "images", "thumbs")
	}

	if s := strings.TrimSpace(raw.DefaultSort); s != "" {
		opt, ok := sortorder.Parse(s)
		if !ok {
			return fmt.Errorf("default_sort: unknown option %q", s)
		}
		c.DefaultSort = opt
	}
	if len(raw.StaffAuthors) > 0 {
		c.StaffAuthors = trimAll(raw.StaffAuthors)
	}

	setPositive(&c.InitialBatch, raw.InitialBatch)
	setPositive(&c.BatchSize, raw.BatchSize)
	setPositive(&c.RowHeight, raw.RowHeight)
	setPositive(&c.ThumbWidth, raw.ThumbWidth)
	setPositive(&c.MaxRetries, raw.MaxRetries)
	setPositive(&c.ThumbQuality, raw.ThumbQuality)
	setPositive(&c.Workers, raw.Workers)
	if raw.Spacing != nil && *raw.Spacing >= 0 {
		c.Spacing = *raw.Spacing
	}
	if len(raw.ThumbWidths) > 0 {
		c.ThumbWidths = append([]int(nil), raw.ThumbWidths...)
	}

	var err error
	if c.RetryDelay, err = parseDuration("retry_delay", raw.RetryDelay, c.RetryDelay); err != nil {
		return err
	}
	if c.PollInterval, err = parseDuration("poll_interval", raw.PollInterval, c.PollInterval); err != nil {
		return err
	}
	return nil
}

func (c *Config) applyEnv(env Env) error {
	if v, ok := env.Lookup("SITE_URL"); ok {
		c.SiteURL = v
	}
	if v, ok := env.Lookup("MANIFEST_URL"); ok {
		c.ManifestURL = v
	}
	if v, ok := env.Lookup("LISTEN"); ok {
		c.Listen = v
	}
	if v, ok := env.Lookup("PUBLIC_DIR"); ok {
		c.PublicDir = mustExpand(v)
		c.ThumbsDir = filepath.Join(c.PublicDir, "images", "thumbs")
	}
	if v, ok := env.Lookup("LOG_DIR"); ok {
		c.LogDir = mustExpand(v)
	}
	if v, ok := env.Lookup("DEFAULT_SORT"); ok {
		opt, valid := sortorder.Parse(v)
		if !valid {
			return fmt.Errorf("%sDEFAULT_SORT: unknown option %q", EnvPrefix, v)
		}
		c.DefaultSort = opt
	}
	if v, ok := env.Lookup("STAFF_AUTHORS"); ok {
		c.StaffAuthors = trimAll(strings.Split(v, ","))
	}
	if v, ok := env.Lookup("POLL_INTERVAL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return fmt.Errorf("%sPOLL_INTERVAL: invalid duration %q", EnvPrefix, v)
		}
		c.PollInterval = d
	}
	if v, ok := env.Lookup("WORKERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("%sWORKERS: invalid count %q", EnvPrefix, v)
		}
		c.Workers = n
	}
	return nil
}

// LogPath returns the browse log file.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.LogDir) == "" {
		return mustExpand(defaultLogDir + "/gallery.log")
	}
	return filepath.Join(c.LogDir, "gallery.log")
}

// ManifestPath returns the images.json written by ingest and served by serve.
func (c Config) ManifestPath() string {
	return filepath.Join(c.PublicDir, "images.json")
}

// ResolvedManifestURL returns ManifestURL, or images.json under SiteURL.
func (c Config) ResolvedManifestURL() string {
	if strings.TrimSpace(c.ManifestURL) != "" {
		return c.ManifestURL
	}
	return strings.TrimSuffix(c.SiteURL, "/") + "/images.json"
}

// Env resolves GALLERY_* overrides: the process environment first, then the
// values read from a .env file.
type Env struct {
	file   map[string]string
	lookup func(string) (string, bool)
}

// LoadEnv reads the first existing .env file among paths. Missing files are
// not an error; an unparsable one is.
func LoadEnv(paths ...string) (Env, error) {
	env := Env{lookup: os.LookupEnv}
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			continue
		}
		values, err := godotenv.Read(p)
		if err != nil {
			return env, fmt.Errorf("read %s: %w", p, err)
		}
		env.file = values
		break
	}
	return env, nil
}

// Lookup returns the trimmed, non-empty value of EnvPrefix+key.
func (e Env) Lookup(key string) (string, bool) {
	name := EnvPrefix + key
	if e.lookup != nil {
		if v, ok := e.lookup(name); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), true
		}
	}
	if v, ok := e.file[name]; ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v), true
	}
	return "", false
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func setPath(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = mustExpand(v)
	}
}

func setPositive(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}

func parseDuration(field, v string, fallback time.Duration) (time.Duration, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s: invalid duration %q", field, v)
	}
	return d, nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ExpandPath resolves a leading ~ and makes path absolute.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
