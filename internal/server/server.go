// Package server sets up the HTTP server, router, and all route
// definitions.
//
// This package is the composition root: it assembles the dependency chain
//
//	store (sqlite or postgres) → services → handlers → routes
//
// in one place. Each layer only receives what it needs — services get
// repository interfaces, handlers get services, and nothing above the
// repository packages knows which database is behind them.
package server

import (
	"context"
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

	"github.com/arshkhan-pathan/todo-service/internal/auth"
	"github.com/arshkhan-pathan/todo-service/internal/handler"
	"github.com/arshkhan-pathan/todo-service/internal/middleware"
	"github.com/arshkhan-pathan/todo-service/internal/repository"
	"github.com/arshkhan-pathan/todo-service/internal/repository/postgres"
	"github.com/arshkhan-pathan/todo-service/internal/repository/sqlite"
	"github.com/arshkhan-pathan/todo-service/internal/service"
)

// Config holds server configuration, loaded from the environment by
// cmd/server.
type Config struct {
	Port        int
	JWTSecret   string        // HMAC secret shared by token issuer and verifier
	TokenTTL    time.Duration // access-token lifetime
	DBDriver    string        // "sqlite" (default) or "postgres"
	DBPath      string        // sqlite file path (":memory:" for tests)
	PostgresDSN string        // used when DBDriver == "postgres"
	CORSOrigins []string      // allowed origins; empty means same-origin only
}

// Server owns the router and the store. The store is closed during
// graceful shutdown so pending writes are flushed before exit.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	store  repository.Store
}

// New creates a Server: opens the configured store, wires services and
// handlers, and registers all routes.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	store, err := openStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		store:  store,
	}

	if err := s.setupRoutes(); err != nil {
		store.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// openStore picks the storage backend from config. Both implementations
// satisfy repository.Store; nothing else in the server cares which one
// came back.
func openStore(cfg Config) (repository.Store, error) {
	switch cfg.DBDriver {
	case "", "sqlite":
		return sqlite.New(cfg.DBPath)
	case "postgres":
		return postgres.New(context.Background(), cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown DB driver %q", cfg.DBDriver)
	}
}

// setupRoutes configures middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	POST   /auth/       → register            (no auth)
//	POST   /auth/token  → login               (no auth)
//	GET    /todo/       → list own todos      (bearer)
//	GET    /todo/{id}   → get one, if owned   (bearer)
//	POST   /todo        → create              (bearer)
//	PUT    /todo/{id}   → update, if owned    (bearer)
//	DELETE /todo/{id}   → delete, if owned    (bearer)
//
// MIDDLEWARE ORDER MATTERS — they run in registration order:
// RequestID → RealIP → Recoverer → CORS → request logger, then RequireAuth
// on the /todo subtree only.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)

	if len(s.config.CORSOrigins) > 0 {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.config.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.JWTSecret, s.config.TokenTTL)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	authService := service.NewAuthService(s.store, tokens, passwords, s.logger)
	todoService := service.NewTodoService(s.store, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	todoHandler := handler.NewTodoHandler(todoService, s.logger)

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/", authHandler.HandleRegister)
		r.Post("/token", authHandler.HandleLogin)
		r.With(auth.RequireAuth(tokens)).Get("/me", authHandler.HandleMe)
	})

	s.router.Route("/todo", func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))
		r.Get("/", todoHandler.HandleList)
		r.Post("/", todoHandler.HandleCreate)
		r.Get("/{id}", todoHandler.HandleGetByID)
		r.Put("/{id}", todoHandler.HandleUpdate)
		r.Delete("/{id}", todoHandler.HandleDelete)
	})

	return nil
}

// Handler exposes the configured router, mainly for httptest servers.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the store without serving. Start calls this itself;
// callers that only used Handler() should close explicitly.
func (s *Server) Close() error {
	return s.store.Close()
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30
// seconds to finish, close the store.
func (s *Server) Start() error {
	defer s.store.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("driver", s.config.DBDriver),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
