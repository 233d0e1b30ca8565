// Package server exposes the analysis engine over HTTP: JSON analyze and
// batch endpoints, XLSX import, PDF reports and an optional persisted
// history. Authentication and storage are both opt-in so the default
// invocation needs nothing but a port.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"golang.org/x/time/rate"
)

// Config carries everything tunable from the environment.
type Config struct {
	// Addr is the listen address, ":8080" by default.
	Addr string

	// JWTSecret enables bearer-token auth on the analysis endpoints when
	// non-empty.
	JWTSecret string

	// AllowOrigin is the CORS origin, "*" by default.
	AllowOrigin string

	// RateRPS and RateBurst shape the per-IP token bucket.
	RateRPS   float64
	RateBurst int
}

func (c Config) withDefaults() Config {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.AllowOrigin == "" {
		c.AllowOrigin = "*"
	}
	if c.RateRPS <= 0 {
		c.RateRPS = 10
	}
	if c.RateBurst <= 0 {
		c.RateBurst = 20
	}
	return c
}

// Server wires the HTTP surface. Build with New, then Run or mount
// Router in a test server.
type Server struct {
	cfg  Config
	log  *log.Logger
	repo Repository
	auth *authService
}

// New builds a server. repo may be nil, which disables the history
// endpoint; with auth enabled a nil repo is replaced by an in-memory user
// store.
func New(cfg Config, logger *log.Logger, repo Repository) *Server {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{cfg: cfg, log: logger, repo: repo}
	if cfg.JWTSecret != "" {
		authRepo := repo
		if authRepo == nil {
			authRepo = NewMemoryRepository()
		}
		s.auth = &authService{secret: []byte(cfg.JWTSecret), repo: authRepo, log: logger}
	}
	return s
}

// Router assembles the full handler chain.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(requestID)
	r.Use(requestLog(s.log))

	limiter := NewIPRateLimiter(rate.Limit(s.cfg.RateRPS), s.cfg.RateBurst)
	api := r.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	api.HandleFunc("/health", s.handleHealth).Methods("GET")
	if s.auth != nil {
		api.HandleFunc("/register", s.auth.handleRegister).Methods("POST")
		api.HandleFunc("/login", s.auth.handleLogin).Methods("POST")
	}

	tools := api.NewRoute().Subrouter()
	if s.auth != nil {
		tools.Use(s.auth.requireToken)
	}
	tools.HandleFunc("/analyze", s.handleAnalyze).Methods("POST")
	tools.HandleFunc("/batch", s.handleBatch).Methods("POST")
	tools.HandleFunc("/import", s.handleImport).Methods("POST")
	tools.HandleFunc("/report", s.handleReport).Methods("POST")
	if s.repo != nil {
		tools.HandleFunc("/history", s.handleHistory).Methods("GET")
	}

	return cors(s.cfg.AllowOrigin, r)
}

// Run serves until ctx is cancelled, then drains connections for up to
// five seconds.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.cfg.Addr, "auth", s.auth != nil, "history", s.repo != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
