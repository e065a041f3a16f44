package seed

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/gallery/internal/ingest"
	"github.com/five82/gallery/internal/manifest"
	"github.com/five82/gallery/internal/photo"
)

func testOptions(t *testing.T) Options {
	t.Helper()
	root := t.TempDir()
	return Options{
		OriginalsDir: filepath.Join(root, "originals"),
		MarkdownDir:  filepath.Join(root, "markdown"),
		Count:        8,
		Defaults:     2,
		Seed:         42,
		Scale:        40,
		Logger:       log.New(&bytes.Buffer{}),
	}
}

func TestRun_WritesImagesAndNotes(t *testing.T) {
	opts := testOptions(t)
	res, err := Run(opts)
	require.NoError(t, err)

	assert.Len(t, res.IDs, 8)
	assert.Equal(t, res.IDs[:2], res.Defaults)
	assert.Equal(t, 8, res.Images)
	assert.Equal(t, 8, res.Notes)

	for i, id := range res.IDs {
		assert.Len(t, id, 8)
		stem := photo.FileStem(id, i < 2)
		assert.FileExists(t, filepath.Join(opts.OriginalsDir, stem+".png"))
		assert.FileExists(t, filepath.Join(opts.MarkdownDir, stem+".md"))
	}
}

func TestRun_IsDeterministic(t *testing.T) {
	a, err := Run(testOptions(t))
	require.NoError(t, err)
	b, err := Run(testOptions(t))
	require.NoError(t, err)
	assert.Equal(t, a.IDs, b.IDs)

	other := testOptions(t)
	other.Seed = 7
	c, err := Run(other)
	require.NoError(t, err)
	assert.NotEqual(t, a.IDs, c.IDs)
}

func TestRun_NotesParseAndDatesFollowWindow(t *testing.T) {
	opts := testOptions(t)
	res, err := Run(opts)
	require.NoError(t, err)
	start, end := DefaultWindow()

	var prev time.Time
	for i, id := range res.IDs {
		isDefault := i < opts.Defaults
		data, err := os.ReadFile(filepath.Join(opts.MarkdownDir, photo.FileStem(id, isDefault)+".md"))
		require.NoError(t, err)
		meta, _, err := ingest.ParseNote(data)
		require.NoError(t, err)

		assert.NotEmpty(t, meta.Title)
		assert.NotEmpty(t, meta.Caption)
		date, err := time.Parse(dateLayout, meta.Date)
		require.NoError(t, err, "date %q", meta.Date)

		if isDefault {
			assert.Equal(t, Authors[0], meta.Author)
			assert.True(t, date.Before(start), "default dated %s", meta.Date)
			continue
		}
		assert.NotEqual(t, Authors[0], meta.Author)
		assert.Contains(t, Authors, meta.Author)
		assert.False(t, date.Before(start))
		assert.False(t, date.After(end))
		if !prev.IsZero() {
			assert.False(t, date.Before(prev), "regular dates should not go backwards")
		}
		prev = date
	}
}

func TestRun_BadWindow(t *testing.T) {
	opts := testOptions(t)
	opts.Start = time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	opts.End = opts.Start
	_, err := Run(opts)
	assert.ErrorIs(t, err, ErrBadWindow)
}

func TestRun_FeedsIngest(t *testing.T) {
	opts := testOptions(t)
	res, err := Run(opts)
	require.NoError(t, err)

	root := filepath.Dir(opts.OriginalsDir)
	manifestPath := filepath.Join(root, "public", "images.json")
	sum, err := ingest.Run(context.Background(), ingest.Options{
		OriginalsDir: opts.OriginalsDir,
		MarkdownDir:  opts.MarkdownDir,
		ThumbsDir:    filepath.Join(root, "public", "images", "thumbs"),
		ManifestPath: manifestPath,
		Thumbs:       photo.ThumbScheme{Ext: "jpg", Widths: []int{16}},
		Logger:       opts.Logger,
	})
	require.NoError(t, err)
	assert.Equal(t, len(res.IDs), sum.Photos)

	records, err := manifest.ReadFile(manifestPath)
	require.NoError(t, err)
	defaults := 0
	for _, r := range records {
		assert.Positive(t, r.Width)
		assert.Positive(t, r.Height)
		assert.NotEmpty(t, r.Author)
		if r.IsDefault {
			defaults++
		}
	}
	assert.Equal(t, opts.Defaults, defaults)
}

func TestCleanup_KeepsDefaultsAndForeignFiles(t *testing.T) {
	opts := testOptions(t)
	_, err := Run(opts)
	require.NoError(t, err)
	keep := filepath.Join(opts.OriginalsDir, "holiday.png")
	require.NoError(t, os.WriteFile(keep, []byte("x"), 0o644))

	removed, err := Cleanup(opts.OriginalsDir, opts.MarkdownDir)
	require.NoError(t, err)
	assert.Equal(t, 12, removed)
	assert.FileExists(t, keep)

	left, err := os.ReadDir(opts.MarkdownDir)
	require.NoError(t, err)
	assert.Len(t, left, 2)

	removed, err = Cleanup(opts.OriginalsDir, filepath.Join(opts.MarkdownDir, "missing"))
	require.NoError(t, err)
	assert.Zero(t, removed)
}
