package manifest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/five82/gallery/internal/photo"
)

// FileSource reads images.json from disk. Thumbnails are probed relative to
// Root, the served public directory.
type FileSource struct {
	Path   string
	Root   string
	Logger *log.Logger
}

var (
	_ Source = FileSource{}
	_ Prober = FileSource{}
)

// Fetch reads the manifest file fresh on every call.
func (f FileSource) Fetch(ctx context.Context) ([]photo.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	records, err := ReadFile(f.Path)
	if err != nil {
		return nil, err
	}
	logger := f.Logger
	if logger == nil {
		logger = log.Default()
	}
	return clean(records, logger, f.Path), nil
}

// Probe checks that the thumbnail behind a site-relative ref exists under Root.
func (f FileSource) Probe(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	local := LocalPath(f.root(), ref)
	info, err := os.Stat(local)
	if err != nil {
		return fmt.Errorf("thumbnail %s: %w", ref, err)
	}
	if info.IsDir() || info.Size() == 0 {
		return fmt.Errorf("thumbnail %s: not a file", ref)
	}
	return nil
}

func (f FileSource) root() string {
	if f.Root != "" {
		return f.Root
	}
	return filepath.Dir(f.Path)
}

// LocalPath maps a site-relative URL such as /images/thumbs/a-400.jpg?t=1 to a
// file under root.
func LocalPath(root, ref string) string {
	p := ref
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	return filepath.Join(root, filepath.FromSlash(path.Clean("/"+p)))
}

// Decode parses a manifest body. A JSON null decodes to an empty manifest.
func Decode(r io.Reader) ([]photo.Record, error) {
	var records []photo.Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode manifest: empty body")
		}
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return records, nil
}

// ReadFile decodes the manifest at path.
func ReadFile(path string) ([]photo.Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer func() { _ = file.Close() }()
	return Decode(file)
}

// WriteFile validates records and writes them to path atomically.
func WriteFile(path string, records []photo.Record) error {
	if err := photo.Validate(records); err != nil {
		return err
	}
	if records == nil {
		records = []photo.Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create manifest dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".images-*.json")
	if err != nil {
		return fmt.Errorf("create temp manifest: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close manifest: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod manifest: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace manifest: %w", err)
	}
	return nil
}
