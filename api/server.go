package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/VladislavFirsov/staffplan/contracts"
	"github.com/VladislavFirsov/staffplan/internal/log"
	"github.com/VladislavFirsov/staffplan/internal/metrics"
)

// ServerOptions configures the HTTP server. Zero values select defaults.
type ServerOptions struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxBodyBytes int64
	// Gatherer serves /metrics. If nil, /metrics is not registered.
	Gatherer prometheus.Gatherer
	Logger   *log.Logger
}

// Server represents the HTTP server for the scheduling API.
type Server struct {
	httpServer *http.Server
	handlers   *Handlers
	logger     *log.Logger
}

// NewServer creates a new Server instance.
func NewServer(engine contracts.Engine, opts ServerOptions) *Server {
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = 30 * time.Second
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 30 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = log.Nop()
	}

	handlers := NewHandlers(engine, opts.Logger, opts.MaxBodyBytes)

	mux := http.NewServeMux()

	// Register routes using Go 1.22+ method routing
	mux.HandleFunc("POST /api/v1/schedules", handlers.HandleSchedule)
	mux.HandleFunc("POST /api/v1/schedules/compare", handlers.HandleCompare)
	mux.HandleFunc("GET /healthz", handlers.HandleHealth)
	if opts.Gatherer != nil {
		mux.Handle("GET /metrics", metrics.HandlerFor(opts.Gatherer))
	}

	return &Server{
		handlers: handlers,
		logger:   opts.Logger,
		httpServer: &http.Server{
			Addr:         opts.Addr,
			Handler:      mux,
			ReadTimeout:  opts.ReadTimeout,
			WriteTimeout: opts.WriteTimeout,
			IdleTimeout:  60 * time.Second,
			ErrorLog:     slog.NewLogLogger(opts.Logger.Slog().Handler(), slog.LevelError),
		},
	}
}

// Start starts the HTTP server.
// Blocks until the server is stopped or an error occurs.
func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server. Runs are synchronous per
// request, so waiting for in-flight requests waits for their runs.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler returns the root handler for testing purposes.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
