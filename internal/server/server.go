// Package server serves the interactive payoff dashboard and its JSON API.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/rserranon/options-simulator/internal/config"
)

const shutdownTimeout = 5 * time.Second

// Server is the dashboard HTTP server. Each request runs an independent
// simulation; the server holds no per-user state.
type Server struct {
	cfg     *config.Config
	logger  zerolog.Logger
	router  *mux.Router
	limiter *tokenBucket // nil when rate limiting is off
}

// New creates a server with all routes registered.
func New(cfg *config.Config, logger zerolog.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		logger: logger.With().Str("component", "server").Logger(),
		router: mux.NewRouter(),
	}
	if cfg.Server.RateLimit > 0 {
		s.limiter = newTokenBucket(cfg.Server.RateLimit, cfg.Server.Burst, time.Now)
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(s.requestID, s.logRequests, s.recoverPanics, s.throttle)

	s.router.HandleFunc("/", s.DashboardHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/api/payoff", s.PayoffHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/api/strategies", s.StrategiesHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", s.HealthHandler).Methods(http.MethodGet)
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", ln.Addr().String()).Msg("Dashboard listening")
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

	s.logger.Info().Msg("Shutting down dashboard")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
