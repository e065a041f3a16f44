package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/five82/gallery/internal/config"
	"github.com/five82/gallery/internal/events"
	"github.com/five82/gallery/internal/gallery"
	"github.com/five82/gallery/internal/grid"
	"github.com/five82/gallery/internal/lightbox"
	"github.com/five82/gallery/internal/manifest"
	"github.com/five82/gallery/internal/photo"
	"github.com/five82/gallery/internal/prefs"
	"github.com/five82/gallery/internal/state"
	"github.com/five82/gallery/internal/ui"
)

// Options configure the gallery browser.
type Options struct {
	Config       config.Config
	PrefsPath    string // empty uses default ~/.config/gallery/prefs.toml
	SortOverride string // --sort flag; wins over prefs and config
	Open         string // deep link: id, #img-<id> or a URL carrying one
	ManifestPath string // read a local images.json instead of the HTTP endpoint
	Logger       *log.Logger
}

// Source picks the manifest source for opts.
func Source(opts Options) (manifest.Source, manifest.Prober, error) {
	if strings.TrimSpace(opts.ManifestPath) != "" {
		path, err := config.ExpandPath(opts.ManifestPath)
		if err != nil {
			return nil, nil, fmt.Errorf("manifest path: %w", err)
		}
		fs := manifest.FileSource{Path: path, Root: opts.Config.PublicDir, Logger: opts.Logger}
		return fs, fs, nil
	}
	client, err := manifest.NewClient(opts.Config.ResolvedManifestURL(), opts.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("init manifest client: %w", err)
	}
	return client, client, nil
}

// SessionConfig maps the loaded configuration onto the headless session.
func SessionConfig(cfg config.Config) gallery.Config {
	return gallery.Config{
		Grid: grid.Config{
			InitialBatch: cfg.InitialBatch,
			BatchSize:    cfg.BatchSize,
			StaffAuthors: cfg.StaffAuthors,
		},
		Retry: grid.RetryPolicy{
			MaxRetries: cfg.MaxRetries,
			Delay:      cfg.RetryDelay,
		},
		Lightbox: lightbox.Options{
			SiteURL:   cfg.SiteURL,
			Clipboard: ui.SystemClipboard{},
			Opener:    ui.BrowserOpener{},
		},
		Thumbs:     photo.DefaultThumbScheme(),
		ThumbWidth: cfg.ThumbWidth,
	}
}

// Run boots the gallery TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
		opts.Logger = logger
	}

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		logger.Warn("using default prefs", "err", err)
	}

	source, prober, err := Source(opts)
	if err != nil {
		return err
	}

	store := &state.Store{}
	bus := events.NewBus(events.DefaultBuffer)
	defer bus.Close()

	// Start background watcher
	StartWatcher(ctx, WatcherOptions{
		Store:    store,
		Source:   source,
		Bus:      bus,
		Interval: opts.Config.PollInterval,
		Logger:   logger,
	})

	deepLink := ""
	if strings.TrimSpace(opts.Open) != "" {
		id, ok := lightbox.ParseFragment(opts.Open)
		if !ok {
			// A bare id is accepted as well.
			id = strings.TrimSpace(opts.Open)
		}
		deepLink = id
	}

	sort := prefs.ResolveSort(opts.SortOverride, userPrefs.Sort, string(opts.Config.DefaultSort))
	logger.Info("starting browser", "sort", sort, "deep_link", deepLink)

	return ui.Run(ui.Options{
		Context:   ctx,
		Source:    source,
		Prober:    prober,
		Store:     store,
		Bus:       bus,
		Session:   SessionConfig(opts.Config),
		Sort:      sort,
		DeepLink:  deepLink,
		RowHeight: opts.Config.RowHeight,
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
		Logger:    logger,
	})
}
