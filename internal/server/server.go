package server

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/edustack/edu-be/internal/auth"
	"github.com/edustack/edu-be/internal/config"
	"github.com/edustack/edu-be/internal/http/handlers"
	"github.com/edustack/edu-be/internal/middleware"
	"github.com/edustack/edu-be/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, store storage.Store) *Server {
	mux := http.NewServeMux()

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	guard := middleware.NewGuard(tokens, store)

	handlers.NewHealthHandler(cfg.ServiceName).Register(mux)
	handlers.NewAuthHandler(store, tokens).Register(mux)
	handlers.NewUsersHandler(store, guard).Register(mux)
	handlers.NewCoursesHandler(store, guard).Register(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	handler := middleware.CORS(cfg.CORSOrigins, middleware.Logging(middleware.Metrics(mux)))

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
