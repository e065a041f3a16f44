package manifest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/five82/gallery/internal/photo"
)

// ErrStatus wraps non-2xx responses.
var ErrStatus = errors.New("unexpected status")

// Source yields the current manifest.
type Source interface {
	Fetch(ctx context.Context) ([]photo.Record, error)
}

// Prober checks whether a thumbnail can be loaded.
type Prober interface {
	Probe(ctx context.Context, ref string) error
}

// Ensure Client implements Source and Prober at compile time.
var (
	_ Source = (*Client)(nil)
	_ Prober = (*Client)(nil)
)

// Client fetches images.json over HTTP, bypassing caches on every call.
type Client struct {
	manifestURL *url.URL
	http        *http.Client
	userAgent   string
	logger      *log.Logger
	now         func() time.Time
}

const (
	defaultManifestURL = "http://127.0.0.1:8080/images.json"
	defaultUserAgent   = "gallery/0.1"
	requestTimeout     = 10 * time.Second

	// CacheBusterParam is the query parameter carrying the request time.
	CacheBusterParam = "t"
)

// NewClient builds a Client for manifestURL. A bare host:port gets http:// and
// /images.json added.
func NewClient(manifestURL string, logger *log.Logger) (*Client, error) {
	u, err := parseManifestURL(manifestURL)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		manifestURL: u,
		http:        &http.Client{Timeout: requestTimeout},
		userAgent:   defaultUserAgent,
		logger:      logger,
		now:         time.Now,
	}, nil
}

// URL returns the manifest location without a cache buster.
func (c *Client) URL() string {
	return c.manifestURL.String()
}

// Fetch retrieves and validates the manifest. Duplicate ids are dropped with a
// warning; the first occurrence wins.
func (c *Client) Fetch(ctx context.Context) ([]photo.Record, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	u := *c.manifestURL
	q := u.Query()
	q.Set(CacheBusterParam, strconv.FormatInt(c.now().UnixMilli(), 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("manifest %s: %w %d", c.manifestURL.Path, ErrStatus, resp.StatusCode)
	}

	records, err := Decode(resp.Body)
	if err != nil {
		return nil, err
	}
	return clean(records, c.logger, c.manifestURL.String()), nil
}

// Probe issues a HEAD request for ref, resolved against the manifest URL.
// Servers that reject HEAD are retried with GET.
func (c *Client) Probe(ctx context.Context, ref string) error {
	target, err := c.Resolve(ref)
	if err != nil {
		return err
	}
	status, err := c.request(ctx, http.MethodHead, target)
	if err == nil && status == http.StatusMethodNotAllowed {
		status, err = c.request(ctx, http.MethodGet, target)
	}
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return fmt.Errorf("thumbnail %s: %w %d", ref, ErrStatus, status)
	}
	return nil
}

// Resolve turns a manifest-relative reference into an absolute URL.
func (c *Client) Resolve(ref string) (string, error) {
	rel, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", fmt.Errorf("parse %q: %w", ref, err)
	}
	return c.manifestURL.ResolveReference(rel).String(), nil
}

func (c *Client) request(ctx context.Context, method, target string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("execute request: %w", err)
	}
	_ = resp.Body.Close()
	return resp.StatusCode, nil
}

func clean(records []photo.Record, logger *log.Logger, source string) []photo.Record {
	kept, dropped := photo.Dedupe(records)
	if len(dropped) > 0 {
		logger.Warn("dropped duplicate manifest ids", "source", source, "ids", dropped)
	}
	return kept
}

func parseManifestURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultManifestURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse manifest url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse manifest url %q: missing host", raw)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/images.json"
	}
	u.Fragment = ""
	return u, nil
}
