// Package seed fills the originals and markdown directories with fake photos
// so the gallery can be exercised without a real collection.
package seed

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"gopkg.in/yaml.v3"

	"github.com/five82/gallery/internal/ingest"
	"github.com/five82/gallery/internal/photo"
)

// Authors credited on generated photos. The first entry is the placeholder
// account used for default records.
var Authors = []string{".inventory", "shinsnowly", "testuser", "photographer", "visualartist"}

var titles = []string{
	"Sunset Over Mountains",
	"City Lights at Night",
	"Forest Path in Autumn",
	"Ocean Waves at Dawn",
	"Desert Dunes Landscape",
	"Snowy Mountain Peaks",
	"Autumn Leaves Close-up",
	"Spring Flowers Bloom",
	"Urban Architecture Study",
	"Wildlife Portrait",
	"Abstract Patterns",
	"Macro Photography",
	"Street Scene Capture",
	"Landscape Vista",
	"Portrait Study",
	"Nature Close-up",
	"Artistic Composition",
	"Candid Moment",
	"Architectural Detail",
	"Twilight Atmosphere",
}

var captions = []string{
	"A beautiful capture of nature's splendor",
	"An artistic representation of urban life",
	"Exploring the wonders of the natural world",
	"A moment frozen in time",
	"Capturing the essence of emotion and light",
	"A study in colors and textures",
	"Documenting the beauty around us",
	"An intimate look at everyday scenes",
	"The interplay of light and shadow",
	"A celebration of visual storytelling",
}

// shapes are the pixel sizes originals are drawn at.
var shapes = [][2]int{
	{1600, 900},
	{900, 1600},
	{1200, 1200},
	{1500, 1000},
	{1000, 1500},
	{2000, 800},
}

const dateLayout = "2006-01-02T15:04:05"

// Options configure a seed run. Zero values take the defaults.
type Options struct {
	OriginalsDir string
	MarkdownDir  string
	Count        int
	Defaults     int
	Start        time.Time
	End          time.Time
	Seed         int64
	// Scale shrinks every shape, 1 draws full size.
	Scale        int
	Logger       *log.Logger
}

// Result lists what was written.
type Result struct {
	IDs      []string
	Defaults []string
	Images   int
	Notes    int
}

// ErrBadWindow is returned when the date window is empty.
var ErrBadWindow = errors.New("seed: end must be after start")

// Default option values.
const (
	DefaultCount    = 50
	DefaultDefaults = 6
	DefaultScale    = 4
)

// DefaultWindow is the spread of regular photo dates.
func DefaultWindow() (time.Time, time.Time) {
	return time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.December, 29, 0, 0, 0, 0, time.UTC)
}

// Run generates opts.Count photos. The first opts.Defaults of them are
// placeholder records dated before the window; the rest are spread over it in
// order, so date sorting and id sorting disagree.
func Run(opts Options) (Result, error) {
	opts = withDefaults(opts)
	if !opts.End.After(opts.Start) {
		return Result{}, ErrBadWindow
	}
	for _, dir := range []string{opts.OriginalsDir, opts.MarkdownDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Result{}, fmt.Errorf("create %s: %w", dir, err)
		}
	}

	faker := gofakeit.New(opts.Seed)
	ids := uniqueIDs(faker, opts.Count)
	regular := opts.Count - opts.Defaults
	span := opts.End.Sub(opts.Start)

	var res Result
	for i, id := range ids {
		isDefault := i < opts.Defaults
		var date time.Time
		if isDefault {
			date = opts.Start.AddDate(0, 0, -faker.Number(1, 28))
		} else {
			slot := span / time.Duration(regular)
			jitter := time.Duration(faker.Number(0, int(slot/time.Second))) * time.Second
			date = opts.Start.Add(slot*time.Duration(i-opts.Defaults) + jitter)
		}
		date = date.Truncate(time.Second)

		author := Authors[0]
		if !isDefault {
			author = faker.RandomString(Authors[1:])
		}
		meta := ingest.Frontmatter{
			Title:   faker.RandomString(titles),
			Caption: faker.RandomString(captions),
			Author:  author,
			Date:    date.Format(dateLayout),
		}
		var body string
		if faker.Bool() {
			body = faker.Sentence(faker.Number(6, 14))
		}

		stem := photo.FileStem(id, isDefault)
		if err := writeImage(faker, filepath.Join(opts.OriginalsDir, stem+".png"), opts.Scale); err != nil {
			return res, err
		}
		res.Images++
		if err := writeNote(filepath.Join(opts.MarkdownDir, stem+".md"), meta, body); err != nil {
			return res, err
		}
		res.Notes++

		res.IDs = append(res.IDs, id)
		if isDefault {
			res.Defaults = append(res.Defaults, id)
		}
		opts.Logger.Debug("seeded photo", "id", id, "default", isDefault, "date", meta.Date)
	}
	opts.Logger.Info("seeded gallery", "photos", len(res.IDs), "defaults", len(res.Defaults))
	return res, nil
}

func withDefaults(opts Options) Options {
	if opts.Count <= 0 {
		opts.Count = DefaultCount
	}
	if opts.Defaults < 0 {
		opts.Defaults = 0
	}
	if opts.Defaults > opts.Count {
		opts.Defaults = opts.Count
	}
	if opts.Start.IsZero() && opts.End.IsZero() {
		opts.Start, opts.End = DefaultWindow()
	}
	if opts.Scale <= 0 {
		opts.Scale = DefaultScale
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return opts
}

// uniqueIDs draws n distinct eight-digit ids.
func uniqueIDs(faker *gofakeit.Faker, n int) []string {
	seen := make(map[string]struct{}, n)
	ids := make([]string, 0, n)
	for len(ids) < n {
		id := strconv.Itoa(faker.Number(10000000, 99999999))
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

func writeImage(faker *gofakeit.Faker, path string, scale int) error {
	shape := shapes[faker.Number(0, len(shapes)-1)]
	fill := color.NRGBA{
		R: uint8(faker.Number(100, 254)),
		G: uint8(faker.Number(100, 254)),
		B: uint8(faker.Number(100, 254)),
		A: 255,
	}
	img := imaging.New(shape[0]/scale, shape[1]/scale, fill)
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func writeNote(path string, meta ingest.Frontmatter, body string) error {
	header, err := yaml.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal frontmatter: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(header)
	buf.WriteString("---\n")
	if body != "" {
		buf.WriteString(body)
		buf.WriteByte('\n')
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

var seededName = regexp.MustCompile(`^\d{8}\.(png|md)$`)

// Cleanup removes regular seeded originals and notes from the two
// directories. Default records and files not named like seed output are kept.
// It returns the number of files removed.
func Cleanup(originalsDir, markdownDir string) (int, error) {
	removed := 0
	for _, dir := range []string{originalsDir, markdownDir} {
		entries, err := os.ReadDir(dir)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return removed, fmt.Errorf("read %s: %w", dir, err)
		}
		for _, e := range entries {
			if e.IsDir() || !seededName.MatchString(e.Name()) {
				continue
			}
			if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
				return removed, err
			}
			removed++
		}
	}
	return removed, nil
}
