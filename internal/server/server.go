// Package server exposes the drawing viewer over HTTP.
//
// The server loads the metadata document once at startup. Until the load
// finishes, and forever if it fails, every endpoint that needs metadata
// answers 503 with {"status":"loading"}. Each browser tab owns a session
// holding one viewer; the client changes it with PATCH requests or over a
// websocket and receives the recomputed view after every change.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/blueprint/pkg/imageinfo"
	"github.com/matzehuels/blueprint/pkg/metadata"
	"github.com/matzehuels/blueprint/pkg/overlay"
	"github.com/matzehuels/blueprint/pkg/session"
	"github.com/matzehuels/blueprint/pkg/source"
	"github.com/matzehuels/blueprint/pkg/viewer"
)

// Load states.
const (
	StateLoading = "loading"
	StateReady   = "ready"
	StateFailed  = "failed"
)

// Options configures a Server.
type Options struct {
	Source source.Source
	Prober *imageinfo.Prober
	// Sessions defaults to an in-memory store.
	Sessions session.Store
	Logger   *log.Logger

	Anchor           overlay.Anchor
	AssetPrefix      string
	SessionTTL       time.Duration
	CleanupInterval  time.Duration
	ProbeConcurrency int
	// LoadTimeout bounds the metadata load. Zero means no limit.
	LoadTimeout time.Duration
}

// Server serves the viewer API.
type Server struct {
	opts     Options
	logger   *log.Logger
	sessions session.Store
	router   chi.Router

	loadOnce sync.Once
	mu       sync.RWMutex
	state    string
	meta     *metadata.Metadata
	loadErr  error
}

// New creates a server. Call Load, usually in a goroutine, to fetch the
// metadata.
func New(opts Options) *Server {
	if opts.Sessions == nil {
		opts.Sessions = session.NewMemoryStore()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = session.DefaultTTL
	}
	if opts.Anchor == (overlay.Anchor{}) {
		opts.Anchor = overlay.DefaultAnchor
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = time.Minute
	}
	if opts.AssetPrefix == "" {
		opts.AssetPrefix = viewer.DefaultAssetPrefix
	}

	s := &Server{
		opts:     opts,
		logger:   opts.Logger,
		sessions: opts.Sessions,
		state:    StateLoading,
	}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.requireMetadata)

		r.Get("/metadata", s.handleMetadata)
		r.Get("/drawings", s.handleDrawings)

		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Patch("/", s.handleUpdateSession)
			r.Delete("/", s.handleDeleteSession)
			r.Get("/polygon.svg", s.handlePolygonSVG)
			r.Post("/calibrate", s.handleCalibrate)
			r.Get("/ws", s.handleWebsocket)
		})
	})

	r.Get(s.opts.AssetPrefix+"*", s.handleAsset)
	return r
}

// Load fetches the metadata document and warms the image size cache. Only
// the first call does any work; a failed load is final.
func (s *Server) Load(ctx context.Context) error {
	s.loadOnce.Do(func() {
		s.load(ctx)
	})
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

func (s *Server) load(ctx context.Context) {
	if s.opts.LoadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.LoadTimeout)
		defer cancel()
	}

	if s.opts.Source == nil {
		s.fail(errors.New("no metadata source configured"))
		return
	}

	m, err := source.Load(ctx, s.opts.Source)
	if err != nil {
		s.fail(err)
		return
	}

	s.mu.Lock()
	s.meta, s.state = m, StateReady
	s.mu.Unlock()
	s.logger.Info("metadata loaded", "source", s.opts.Source, "drawings", m.Drawings.Len())

	if s.opts.Prober == nil {
		return
	}
	images := m.Images()
	failed, err := s.opts.Prober.Warm(ctx, images, s.opts.ProbeConcurrency)
	if err != nil {
		s.logger.Warn("image probing interrupted", "err", err)
		return
	}
	for _, name := range failed {
		s.logger.Warn("image size unknown", "image", name)
	}
	s.logger.Debug("image sizes probed", "images", len(images), "failed", len(failed))
}

func (s *Server) fail(err error) {
	s.mu.Lock()
	s.state, s.loadErr = StateFailed, err
	s.mu.Unlock()
	s.logger.Error("metadata load failed", "err", err)
}

// Status returns the load state.
func (s *Server) Status() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Metadata returns the loaded document, or nil while not ready.
func (s *Server) Metadata() *metadata.Metadata {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.meta
}

func (s *Server) newViewer(m *metadata.Metadata) *viewer.Viewer {
	opts := viewer.Options{
		Anchor:      s.opts.Anchor,
		AssetPrefix: s.opts.AssetPrefix,
	}
	if s.opts.Prober != nil {
		opts.Sizes = s.opts.Prober
	}
	return viewer.New(m, opts)
}

// ListenAndServe serves on addr until ctx is done, then shuts down within
// shutdownTimeout. Metadata loading starts in the background.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readHeaderTimeout, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() { _ = s.Load(ctx) }()
	go session.Janitor(ctx, s.sessions, s.opts.CleanupInterval, func(n int) {
		s.logger.Debug("expired sessions removed", "count", n)
	})

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
