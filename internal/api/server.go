package api

import (
	"context"
	"database/sql"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/pokedex/internal/config"
)

// Dependencies are the backend handles the health checker probes. Both may be nil.
type Dependencies struct {
	Storage string
	DB      *sql.DB
	Redis   *redis.Client
}

// Server represents the API server
type Server struct {
	config   config.ServerConfig
	handler  http.Handler
	limiter  *RateLimiter
	stop     chan struct{}
	stopOnce sync.Once

	mu     sync.Mutex
	server *http.Server
	closed bool
}

// NewServer creates a new API server
func NewServer(cfg *config.Config, svc PokemonService, deps Dependencies) *Server {
	var limiter *RateLimiter
	if cfg.RateLimit.Enabled() {
		limiter = NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}
	router := SetupRoutes(NewHandlers(svc), NewHealthChecker(deps.Storage, deps.DB, deps.Redis), cfg.CORS, limiter)

	return &Server{
		config:  cfg.Server,
		handler: router,
		limiter: limiter,
		stop:    make(chan struct{}),
	}
}

// ListenAndServe starts the HTTP server. It returns http.ErrServerClosed
// after Shutdown, including when Shutdown ran first.
func (s *Server) ListenAndServe(addr string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return http.ErrServerClosed
	}
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadTimeout:       s.config.ReadTimeout(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      s.config.WriteTimeout(),
		IdleTimeout:       120 * time.Second,
	}
	srv := s.server
	s.mu.Unlock()

	if s.limiter != nil {
		s.limiter.StartCleanup(time.Minute, s.stop)
	}
	return srv.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.stopOnce.Do(func() { close(s.stop) })

	s.mu.Lock()
	s.closed = true
	srv := s.server
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// Handler returns the HTTP handler for testing
func (s *Server) Handler() http.Handler {
	return s.handler
}
