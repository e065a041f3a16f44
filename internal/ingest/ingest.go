package ingest

import (
	"context"
	"errors"
	"fmt"
	"path"
	"runtime"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/five82/gallery/internal/manifest"
	"github.com/five82/gallery/internal/photo"
)

// DefaultImageURLPrefix is where originals are served from.
const DefaultImageURLPrefix = "/images/original"

// Options configure one ingest run.
type Options struct {
	OriginalsDir   string
	MarkdownDir    string
	ThumbsDir      string
	ManifestPath   string
	ImageURLPrefix string
	Thumbs         photo.ThumbScheme // Dir is ignored; files go to ThumbsDir
	Quality        int
	Workers        int
	Force          bool
	Logger         *log.Logger
}

// Summary reports what a run did.
type Summary struct {
	Photos        int
	ThumbsWritten int
	ThumbsSkipped int
	Dropped       []string
	Manifest      string
}

// ErrNoOriginals is returned when the originals directory holds no images.
var ErrNoOriginals = errors.New("no original images found")

// Run ingests every original and writes the manifest.
func Run(ctx context.Context, opts Options) (Summary, error) {
	opts = withDefaults(opts)
	logger := opts.Logger

	originals, err := Scan(opts.OriginalsDir)
	if err != nil {
		return Summary{}, err
	}
	if len(originals) == 0 {
		return Summary{}, fmt.Errorf("%w in %s", ErrNoOriginals, opts.OriginalsDir)
	}
	logger.Info("ingesting originals", "count", len(originals), "dir", opts.OriginalsDir, "workers", opts.Workers)

	records := make([]photo.Record, len(originals))
	var written, skipped atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, orig := range originals {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec, thumbs, err := process(orig, opts)
			if err != nil {
				return err
			}
			records[i] = rec
			written.Add(int64(thumbs.written))
			skipped.Add(int64(thumbs.skipped))
			logger.Debug("ingested", "id", rec.ID, "thumbs", thumbs.written, "skipped", thumbs.skipped)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	kept, dropped := photo.Dedupe(records)
	if len(dropped) > 0 {
		logger.Warn("dropped duplicate ids", "ids", dropped)
	}
	if err := manifest.WriteFile(opts.ManifestPath, kept); err != nil {
		return Summary{}, err
	}

	return Summary{
		Photos:        len(kept),
		ThumbsWritten: int(written.Load()),
		ThumbsSkipped: int(skipped.Load()),
		Dropped:       dropped,
		Manifest:      opts.ManifestPath,
	}, nil
}

func withDefaults(opts Options) Options {
	if opts.ImageURLPrefix == "" {
		opts.ImageURLPrefix = DefaultImageURLPrefix
	}
	if len(opts.Thumbs.Widths) == 0 {
		opts.Thumbs.Widths = photo.DefaultThumbWidths
	}
	if opts.Thumbs.Ext == "" {
		opts.Thumbs.Ext = photo.DefaultThumbScheme().Ext
	}
	if opts.Quality <= 0 || opts.Quality > 100 {
		opts.Quality = 80
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return opts
}

// process builds the manifest record and thumbnails for one original.
func process(orig Original, opts Options) (photo.Record, thumbResult, error) {
	rec := photo.Record{
		ID:        orig.ID,
		ImageURL:  path.Join(opts.ImageURLPrefix, orig.Name),
		IsDefault: orig.IsDefault,
	}

	if w, h, err := dimensions(orig.Path); err == nil {
		rec.Width, rec.Height = w, h
	} else {
		opts.Logger.Warn("unknown dimensions", "file", orig.Name, "err", err)
	}

	if p := findNote(opts.MarkdownDir, orig.ID, orig.IsDefault); p != "" {
		note, err := readNote(p)
		if err != nil {
			opts.Logger.Warn("skipping note", "file", p, "err", err)
		} else {
			rec.MDPath = p
			rec.Title = note.Meta.Title
			rec.Caption = note.Meta.Caption
			rec.Author = note.Meta.Author
			rec.Date = note.Meta.Date
			rec.Body = note.Body
		}
	}
	if rec.Date == "" {
		if t, err := exifDate(orig.Path); err == nil && !t.IsZero() {
			rec.Date = t.Format("2006-01-02T15:04:05")
		}
	}

	thumbs, err := writeThumbs(orig, opts.ThumbsDir, opts.Thumbs, opts.Quality, opts.Force)
	if err != nil {
		return photo.Record{}, thumbs, err
	}
	return rec, thumbs, nil
}
