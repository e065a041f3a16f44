package ingest

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // decoders for DecodeConfig
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/five82/gallery/internal/photo"
)

// Extensions lists the original formats ingest accepts.
var Extensions = []string{".png", ".jpg", ".jpeg", ".webp", ".bmp"}

// Original is one file found in the originals directory.
type Original struct {
	Path      string
	Name      string
	ID        string
	IsDefault bool
}

// Scan lists originals in dir in file-name order.
func Scan(dir string) ([]Original, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read originals: %w", err)
	}
	var out []Original
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || !supported(e.Name()) {
			continue
		}
		stem := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		id, isDefault := photo.SplitStem(stem)
		if id == "" {
			continue
		}
		out = append(out, Original{
			Path:      filepath.Join(dir, e.Name()),
			Name:      e.Name(),
			ID:        id,
			IsDefault: isDefault,
		})
	}
	return out, nil
}

func supported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// dimensions reads the pixel size from the image header.
func dimensions(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer func() { _ = f.Close() }()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return cfg.Width, cfg.Height, nil
}

// exifDate returns DateTimeOriginal (or DateTime) from the file's EXIF block.
func exifDate(path string) (time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, err
	}
	defer func() { _ = f.Close() }()

	x, err := exif.Decode(f)
	if err != nil {
		return time.Time{}, err
	}
	return x.DateTime()
}

// thumbResult counts thumbnail work for one original.
type thumbResult struct {
	written int
	skipped int
}

// writeThumbs renders every missing width of src into dir.
func writeThumbs(src Original, dir string, scheme photo.ThumbScheme, quality int, force bool) (thumbResult, error) {
	var res thumbResult
	var pending []int
	for _, w := range scheme.Widths {
		out := filepath.Join(dir, scheme.ThumbName(src.ID, src.IsDefault, w))
		if !force && exists(out) {
			res.skipped++
			continue
		}
		pending = append(pending, w)
	}
	if len(pending) == 0 {
		return res, nil
	}

	format, err := imaging.FormatFromExtension(scheme.Ext)
	if err != nil {
		return res, fmt.Errorf("thumbnail format: %w", err)
	}
	img, err := imaging.Open(src.Path, imaging.AutoOrientation(true))
	if err != nil {
		return res, fmt.Errorf("open %s: %w", src.Name, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return res, fmt.Errorf("create thumbs dir: %w", err)
	}

	for _, w := range pending {
		thumb := imaging.Resize(img, w, 0, imaging.Lanczos)
		out := filepath.Join(dir, scheme.ThumbName(src.ID, src.IsDefault, w))
		if err := saveAtomic(out, func(wr io.Writer) error {
			return imaging.Encode(wr, thumb, format, imaging.JPEGQuality(quality))
		}); err != nil {
			return res, fmt.Errorf("write %s: %w", filepath.Base(out), err)
		}
		res.written++
	}
	return res, nil
}

func saveAtomic(path string, encode func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".thumb-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := encode(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, os.ErrNotExist)
}
