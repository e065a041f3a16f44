// Package server publishes the gallery over HTTP: the manifest, the original
// and thumbnail images, and a server-side justified layout.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/five82/gallery/internal/layout"
	"github.com/five82/gallery/internal/manifest"
	"github.com/five82/gallery/internal/photo"
	"github.com/five82/gallery/internal/sortorder"
)

const (
	shutdownTimeout   = 5 * time.Second
	defaultThumbWidth = 400
)

// Options configure a Server.
type Options struct {
	Addr         string
	PublicDir    string
	OriginalsDir string
	ManifestPath string
	RowHeight    int
	Spacing      int
	DefaultSort  sortorder.Option
	Thumbs       photo.ThumbScheme
	ThumbWidth   int
	Logger       *log.Logger
}

// Server serves one gallery.
type Server struct {
	opts   Options
	logger *log.Logger
	sorter sortorder.Sorter
	router chi.Router
}

// New builds the router. Nothing is read from disk until a request arrives.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.ManifestPath == "" {
		opts.ManifestPath = filepath.Join(opts.PublicDir, "images.json")
	}
	if opts.Thumbs.Dir == "" {
		opts.Thumbs.Dir = photo.DefaultThumbScheme().Dir
	}
	if opts.ThumbWidth <= 0 {
		opts.ThumbWidth = defaultThumbWidth
	}
	if !opts.DefaultSort.Valid() {
		opts.DefaultSort = sortorder.Default
	}
	s := &Server{opts: opts, logger: opts.Logger}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/images.json", s.handleManifest)
	r.Get("/api/layout", s.handleLayout)

	if s.opts.OriginalsDir != "" {
		r.Handle("/images/original/*", http.StripPrefix("/images/original/", http.FileServer(http.Dir(s.opts.OriginalsDir))))
	}
	r.Handle("/images/*", http.StripPrefix("/images/", http.FileServer(http.Dir(filepath.Join(s.opts.PublicDir, "images")))))
	return r
}

// Handler returns the router.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving gallery", "addr", s.opts.Addr, "public", s.opts.PublicDir)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// handleManifest re-reads the manifest on every request so a fresh ingest
// shows up without a restart.
func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	records, err := manifest.ReadFile(s.opts.ManifestPath)
	if err != nil {
		s.manifestError(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, records)
}

// LayoutBox is one positioned photo in a layout response.
type LayoutBox struct {
	ID      string `json:"id"`
	Thumb   string `json:"thumb"`
	Thumb2x string `json:"thumb2x"`
	layout.Box
}

// LayoutResponse is the body of GET /api/layout.
type LayoutResponse struct {
	Sort        sortorder.Option `json:"sort"`
	Width       int              `json:"width"`
	RowHeight   int              `json:"rowHeight"`
	Spacing     int              `json:"spacing"`
	Boxes       []LayoutBox      `json:"boxes"`
	TotalHeight int              `json:"totalHeight"`
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	width, err := intParam(q.Get("width"), layout.DefaultContainerWidth)
	if err != nil {
		writeError(w, http.StatusBadRequest, "width: "+err.Error())
		return
	}
	rowHeight, err := intParam(q.Get("rowHeight"), s.opts.RowHeight)
	if err != nil {
		writeError(w, http.StatusBadRequest, "rowHeight: "+err.Error())
		return
	}
	spacing, err := intParam(q.Get("spacing"), s.opts.Spacing)
	if err != nil {
		writeError(w, http.StatusBadRequest, "spacing: "+err.Error())
		return
	}
	// Zero means "unset"; echo what the layout was computed with.
	if width == 0 {
		width = layout.DefaultContainerWidth
	}
	if rowHeight == 0 {
		rowHeight = layout.DefaultTargetRowHeight
	}
	opt := s.opts.DefaultSort
	if raw := q.Get("sort"); raw != "" {
		parsed, ok := sortorder.Parse(raw)
		if !ok {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown sort %q", raw))
			return
		}
		opt = parsed
	}

	records, err := manifest.ReadFile(s.opts.ManifestPath)
	if err != nil {
		s.manifestError(w, r, err)
		return
	}
	sorted := s.sorter.Sort(records, opt)
	res := layout.Justify(photo.AspectRatios(sorted), width, rowHeight, spacing)

	boxes := make([]LayoutBox, len(res.Boxes))
	for i, b := range res.Boxes {
		oneX, twoX := s.opts.Thumbs.SrcSet(sorted[i], s.opts.ThumbWidth)
		boxes[i] = LayoutBox{ID: sorted[i].ID, Thumb: oneX, Thumb2x: twoX, Box: b}
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, LayoutResponse{
		Sort:        opt,
		Width:       width,
		RowHeight:   rowHeight,
		Spacing:     spacing,
		Boxes:       boxes,
		TotalHeight: res.TotalHeight,
	})
}

func (s *Server) manifestError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, os.ErrNotExist) {
		writeError(w, http.StatusNotFound, "manifest not found")
		return
	}
	s.logger.Error("read manifest", "path", s.opts.ManifestPath, "err", err, "request_id", middleware.GetReqID(r.Context()))
	writeError(w, http.StatusInternalServerError, "manifest unreadable")
}

// intParam parses a non-negative integer, returning def for an empty value.
func intParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("not an integer: %q", raw)
	}
	if v < 0 {
		return 0, fmt.Errorf("must not be negative: %d", v)
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
