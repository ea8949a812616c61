// Package preview serves a built site over HTTP and rebuilds it when inputs change.
package preview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/fsnotify/fsnotify"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sitebook/internal/build"
	"git.home.luguber.info/inful/sitebook/internal/config"
	ferrors "git.home.luguber.info/inful/sitebook/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebook/internal/logfields"
	"git.home.luguber.info/inful/sitebook/internal/metrics"
)

const shutdownTimeout = 5 * time.Second

// Options tune the preview server.
type Options struct {
	Port     int
	Watch    bool
	Debounce time.Duration
}

// Server owns the HTTP listener, the watcher and the rebuild worker.
type Server struct {
	cfg      *config.Config
	opts     Options
	status   *buildStatus
	registry *prom.Registry
	recorder *metrics.PrometheusRecorder
	errs     *ferrors.HTTPErrorAdapter
	rebuild  func(ctx context.Context) (*build.BuildReport, error)
}

// New returns a server for cfg. A zero Debounce uses DefaultDebounce.
func New(cfg *config.Config, opts Options) *Server {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	reg := prom.NewRegistry()
	s := &Server{
		cfg:      cfg,
		opts:     opts,
		status:   &buildStatus{},
		registry: reg,
		recorder: metrics.NewPrometheusRecorder(reg),
		errs:     ferrors.NewHTTPErrorAdapter(nil),
	}
	s.rebuild = func(ctx context.Context) (*build.BuildReport, error) {
		return build.Execute(ctx, s.cfg, build.WithRecorder(s.recorder))
	}
	return s
}

// Rebuild runs one build and records its result for /healthz.
func (s *Server) Rebuild(ctx context.Context) error {
	report, err := s.rebuild(ctx)
	s.status.record(report, err)
	if err != nil {
		slog.Error("Rebuild failed", logfields.Error(err))
		return err
	}
	slog.Info("Rebuild complete", logfields.BuildID(report.BuildID), logfields.Count(len(report.Pages)))
	return nil
}

type healthResponse struct {
	Status  string `json:"status"`
	BuildID string `json:"build_id,omitempty"`
	Outcome string `json:"outcome,omitempty"`
}

// Handler routes /metrics, /healthz and the output directory.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(s.registry))
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/", http.FileServer(http.Dir(s.cfg.Paths.Output)))
	return withMiddleware(s.errs, mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report, err, _ := s.status.get()
	if err != nil {
		s.errs.WriteErrorResponse(w, r, err)
		return
	}
	resp := healthResponse{Status: "ok"}
	if report == nil {
		resp.Status = "starting"
	} else {
		resp.BuildID = report.BuildID
		resp.Outcome = string(report.Outcome)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

// watchSet returns the build inputs to observe. The output dir is never included.
func (s *Server) watchSet() watchSet {
	p := s.cfg.Paths
	return watchSet{
		dirs:  []string{filepath.Clean(p.Sources), filepath.Clean(p.Templates), filepath.Clean(p.Public)},
		files: []string{filepath.Clean(p.Manifest)},
	}
}

// Run performs an initial build, serves the output and, when watching, rebuilds
// on input changes until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	// A failed initial build is reported on /healthz; the server still starts.
	_ = s.Rebuild(ctx)

	addr := net.JoinHostPort("", strconv.Itoa(s.opts.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "failed to start preview server").
			WithContext("addr", addr).
			Build()
	}
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()
	slog.Info("Preview server listening", logfields.URL(fmt.Sprintf("http://localhost:%d/", s.opts.Port)))

	if !s.opts.Watch {
		select {
		case <-ctx.Done():
		case err := <-serveErr:
			if err != nil {
				return err
			}
		}
		return shutdown(srv)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		_ = shutdown(srv)
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "failed to create file watcher").Build()
	}
	defer func() { _ = watcher.Close() }()
	ws := s.watchSet()
	ws.add(watcher)

	deb := newDebouncer(s.opts.Debounce)
	defer deb.stop()
	s.startRebuildWorker(ctx, deb.C)

	for {
		select {
		case <-ctx.Done():
			return shutdown(srv)
		case err := <-serveErr:
			if err != nil {
				return err
			}
		case ev, ok := <-watcher.Events:
			if !ok {
				return shutdown(srv)
			}
			if ws.handleEvent(watcher, ev) {
				deb.trigger()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return shutdown(srv)
			}
			slog.Warn("watch error", logfields.Error(err))
		}
	}
}

// startRebuildWorker serializes rebuilds. A request arriving mid-build is
// folded into a single follow-up rebuild.
func (s *Server) startRebuildWorker(ctx context.Context, requests <-chan struct{}) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-requests:
				slog.Info("Change detected; rebuilding site")
				_ = s.Rebuild(ctx)
			}
		}
	}()
}

func shutdown(srv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "preview server shutdown failed").Build()
	}
	slog.Info("Preview server stopped")
	return nil
}
