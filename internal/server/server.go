// Package server exposes recommendation queries over HTTP.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/blackwell-systems/cartlift/internal/analyzer"
	"github.com/blackwell-systems/cartlift/internal/logging"
)

// Config controls the HTTP server.
type Config struct {
	Addr            string
	RateLimit       int           // requests per window and client IP; 0 disables
	RateWindow      time.Duration
	ShutdownTimeout time.Duration

	// Defaults for queries that omit top_n or min_lift.
	TopN    int
	MinLift float64
}

// DefaultConfig returns the settings used by "cartlift serve".
func DefaultConfig() Config {
	return Config{
		Addr:            ":8000",
		RateLimit:       100,
		RateWindow:      time.Minute,
		ShutdownTimeout: 10 * time.Second,
		TopN:            analyzer.DefaultTopN,
		MinLift:         analyzer.DefaultMinLift,
	}
}

// Server serves a Model.
type Server struct {
	cfg      Config
	model    *Model
	router   chi.Router
	validate *validator.Validate
}

// New builds the router for model.
func New(cfg Config, model *Model) *Server {
	if cfg.TopN <= 0 {
		cfg.TopN = analyzer.DefaultTopN
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	s := &Server{
		cfg:      cfg,
		model:    model,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)
	if s.cfg.RateLimit > 0 {
		r.Use(httprate.LimitByIP(s.cfg.RateLimit, s.cfg.RateWindow))
	}

	r.Get("/", s.handleWelcome)
	r.Get("/recommend/", s.handleRecommend)
	r.Get("/recommend/{product_name}", s.handleRecommend)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondDetail(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on cfg.Addr until ctx is cancelled, then shuts down
// gracefully within cfg.ShutdownTimeout.
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

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", ln.Addr().String()).Msg("serving recommendations")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logging.Info().Dur("timeout", s.cfg.ShutdownTimeout).Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
