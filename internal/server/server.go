// Package server implements the fpminer HTTP API.
//
// Routes:
//
//	GET    /healthz            liveness probe
//	POST   /v1/mine            mine the dataset in the request body
//	POST   /v1/tree            render the FP-tree of the dataset in the body
//	GET    /v1/reports         list run reports, newest first (?limit=n)
//	GET    /v1/reports/{id}    fetch one report
//	DELETE /v1/reports/{id}    delete one report
//	GET    /metrics            Prometheus metrics
//
// Mining options are passed as query parameters named like the config keys
// (min_support, must_contain, ...). Errors are returned as JSON objects
// {"code": ..., "message": ...} with a status derived from the error code.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/fpminer/pkg/pipeline"
	"github.com/matzehuels/fpminer/pkg/report"
)

// Defaults for Config.
const (
	DefaultAddr         = ":8080"
	DefaultMaxBodyBytes = 32 << 20
	DefaultMineTimeout  = 2 * time.Minute
	DefaultListLimit    = 50

	shutdownTimeout = 10 * time.Second
)

// Config configures a Server.
type Config struct {
	Addr         string
	MaxBodyBytes int64
	MineTimeout  time.Duration // per request; zero means DefaultMineTimeout
}

// Server serves the API. It is safe for concurrent use; every mining request
// runs its own engine.
type Server struct {
	cfg      Config
	runner   *pipeline.Runner
	reports  report.Store
	gatherer prometheus.Gatherer
	logger   *log.Logger
	router   chi.Router
}

// New creates a server around runner. Reports are served from the runner's
// store. A nil gatherer disables /metrics.
func New(runner *pipeline.Runner, gatherer prometheus.Gatherer, logger *log.Logger, cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.MineTimeout <= 0 {
		cfg.MineTimeout = DefaultMineTimeout
	}
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		cfg:      cfg,
		runner:   runner,
		reports:  runner.Reports,
		gatherer: gatherer,
		logger:   logger,
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler of the API.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/mine", s.handleMine)
		r.Post("/tree", s.handleTree)
		r.Route("/reports", func(r chi.Router) {
			r.Get("/", s.handleListReports)
			r.Get("/{id}", s.handleGetReport)
			r.Delete("/{id}", s.handleDeleteReport)
		})
	})
	return r
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
