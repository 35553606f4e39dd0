// Package server wires handlers, middleware and routes together and runs the
// HTTP server.
//
// ROUTES:
//
//	GET    /health          liveness, no token
//	GET    /metrics         Prometheus, no token
//	POST   /auth/signup     bearer
//	GET    /snippets        bearer
//	GET    /snippets/{id}   bearer
//	POST   /snippets        bearer
//	PUT    /snippets/{id}   bearer
//	DELETE /snippets/{id}   bearer
//
// With ROUTE_PREFIX set, every route above is served under the prefix
// instead, e.g. /make-server-8768a732/snippets.
//
// MIDDLEWARE ORDER:
// CORS runs first so a preflight OPTIONS is answered before the bearer gate
// could reject it. Request id comes before the access log so the log line
// carries it.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sakif/snippet-library/internal/auth"
	"github.com/sakif/snippet-library/internal/config"
	"github.com/sakif/snippet-library/internal/handler"
	"github.com/sakif/snippet-library/internal/metrics"
	"github.com/sakif/snippet-library/internal/middleware"
	"github.com/sakif/snippet-library/internal/repository"
	"github.com/sakif/snippet-library/internal/service"
)

// shutdownTimeout is how long in-flight requests get to finish on SIGINT/SIGTERM.
const shutdownTimeout = 30 * time.Second

// Server owns the router and the store. The store is closed when Start returns.
type Server struct {
	router  *chi.Mux
	config  *config.Config
	logger  *slog.Logger
	store   repository.Store
	metrics *metrics.Metrics
}

// New builds the dependency graph on top of an opened store and identity
// provider:
//
//	store    → SnippetService → SnippetHandler
//	provider → AuthService    → AuthHandler
func New(cfg *config.Config, logger *slog.Logger, store repository.Store, provider auth.Provider) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		config:  cfg,
		logger:  logger,
		store:   store,
		metrics: metrics.New(),
	}
	s.setupRoutes(provider)
	return s
}

// Handler exposes the router, for tests and for embedding in another server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes(provider auth.Provider) {
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Length"},
		MaxAge:         600,
	}))
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(middleware.Metrics(s.metrics))
	s.router.Use(chimiddleware.Recoverer)

	snippetService := service.NewSnippetService(s.store, s.logger, s.metrics)
	snippetHandler := handler.NewSnippetHandler(snippetService, s.logger)

	authService := service.NewAuthService(provider, s.logger)
	authHandler := handler.NewAuthHandler(authService, s.logger)

	routes := func(r chi.Router) {
		r.Get("/health", handler.HandleHealth)
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireBearer(s.logger))

			r.Post("/auth/signup", authHandler.HandleSignUp)

			r.Get("/snippets", snippetHandler.HandleList)
			r.Get("/snippets/{id}", snippetHandler.HandleGetByID)
			r.Post("/snippets", snippetHandler.HandleCreate)
			r.Put("/snippets/{id}", snippetHandler.HandleUpdate)
			r.Delete("/snippets/{id}", snippetHandler.HandleDelete)
		})
	}

	if s.config.RoutePrefix != "" {
		s.router.Route(s.config.RoutePrefix, routes)
	} else {
		routes(s.router)
	}

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Not found"}` + "\n"))
	})
}

// Start serves until SIGINT or SIGTERM, then drains in-flight requests for up
// to 30 seconds and closes the store.
func (s *Server) Start() error {
	defer func() {
		if err := s.store.Close(); err != nil {
			s.logger.Error("failed to close store", slog.String("error", err.Error()))
		}
	}()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("prefix", s.config.RoutePrefix),
			slog.String("store", s.config.Store.Driver),
			slog.String("identity_provider", s.config.Identity.Provider),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
