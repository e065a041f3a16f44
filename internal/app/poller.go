package app

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/five82/gallery/internal/events"
	"github.com/five82/gallery/internal/manifest"
	"github.com/five82/gallery/internal/state"
)

const (
	defaultPollInterval = 30 * time.Second
	maxBackoff          = 5 * time.Minute
)

// WatcherOptions configure the background manifest watcher.
type WatcherOptions struct {
	Store    *state.Store
	Source   manifest.Source
	Bus      *events.Bus
	Interval time.Duration
	Logger   *log.Logger
}

// StartWatcher launches a background goroutine that refetches the manifest
// and broadcasts a refresh when its content changes. It returns immediately.
func StartWatcher(ctx context.Context, opts WatcherOptions) {
	go watch(ctx, opts)
}

func watch(ctx context.Context, opts WatcherOptions) {
	interval := opts.Interval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	first := true
	for {
		changed := refresh(ctx, opts.Store, opts.Source, logger)
		if changed && !first && opts.Bus != nil {
			logger.Info("manifest changed, requesting refresh")
			opts.Bus.Publish(events.Refresh())
		}
		if changed {
			first = false
		}

		wait := calculateBackoff(opts.Store.Snapshot().ConsecutiveFailures, interval)
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

func refresh(ctx context.Context, store *state.Store, source manifest.Source, logger *log.Logger) bool {
	photos, err := source.Fetch(ctx)
	if err != nil {
		if ctx.Err() == nil {
			logger.Warn("manifest poll failed", "err", err)
		}
		store.Update(nil, err)
		return false
	}
	return store.Update(photos, nil)
}

// calculateBackoff doubles the poll interval per consecutive failure, capped
// at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	d := base
	for i := 0; i < failures; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}
