// Package server wires the database, services, handlers, and routes together
// and runs the HTTP server.
//
// WHY SEPARATE FROM main.go?
// main only turns flags and environment into a config.Config. Everything
// that needs that config is assembled here, so tests can build the complete
// server (real router, real SQLite, real middleware) against ":memory:" and
// drive it through httptest without opening a port.
//
// DEPENDENCY INJECTION FLOW:
//
//	config.Config → sqlite.DB → services → handlers → chi routes
//
// sqlite.DB implements all three repository interfaces; each service
// receives only the interface it needs, and handlers only see services.
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
	"github.com/rs/cors"

	"github.com/sakif/food-rotation/internal/config"
	"github.com/sakif/food-rotation/internal/handler"
	"github.com/sakif/food-rotation/internal/middleware"
	sqliteRepo "github.com/sakif/food-rotation/internal/repository/sqlite"
	"github.com/sakif/food-rotation/internal/service"
)

// Server represents the HTTP server and all its dependencies.
//
// RESOURCE MANAGEMENT:
// The Server owns the database connection. Start closes it on the way out
// so the WAL is checkpointed and the file lock released; tests that never
// call Start use Close instead.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
	now    service.Clock
}

// Option customizes a Server.
type Option func(*Server)

// WithClock replaces the wall clock used for every "today" calculation.
//
// WHY INJECT THE CLOCK?
// Availability flips at UTC midnight. Tests pin "now" to either side of
// that boundary instead of sleeping or depending on the day they run.
func WithClock(now service.Clock) Option {
	return func(s *Server) { s.now = now }
}

// New opens the database and builds the router.
func New(cfg config.Config, logger *slog.Logger, opts ...Option) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.setupRoutes()
	return s, nil
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database.
func (s *Server) Close() error {
	return s.db.Close()
}

// setupRoutes configures middleware and route handlers.
//
//	GET    /healthz
//	GET    /api/foods
//	POST   /api/foods
//	GET    /api/foods/next
//	GET    /api/foods/lookup?name=
//	PUT    /api/foods/{id}
//	DELETE /api/foods/{id}?removeEntries=bool
//	GET    /api/available
//	GET    /api/entries?since=
//	POST   /api/entries
//	PUT    /api/entries/{id}
//	DELETE /api/entries/{id}
//	GET    /api/summary
//	GET    /*                  static UI, when StaticDir exists
//
// MIDDLEWARE ORDER MATTERS:
//  1. RequestID: must run before Logger so log lines carry the request id
//  2. RealIP: rewrites RemoteAddr from proxy headers
//  3. Logger: one line per request with status and duration
//  4. Recoverer: turns a handler panic into a 500 that Logger still sees
//
// ROUTE ORDER:
// /api/foods/next and /api/foods/lookup are static segments, and chi's radix
// tree always prefers a static segment over the {id} parameter, so they
// never reach HandleRename or HandleDelete as an id.
func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	// CORS is opt-in. The bundled UI is served from the same origin, so a
	// default install needs no cross-origin access at all; only a separately
	// hosted frontend (a Vite dev server, say) has to be listed.
	//
	// X-Request-Id is both allowed and exposed: a browser client may send its
	// own id for correlation (middleware.RequestID keeps it) and must be able
	// to read the id the server answered with.
	if len(s.config.CORSAllowedOrigins) > 0 {
		s.router.Use(cors.New(cors.Options{
			AllowedOrigins: s.config.CORSAllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", chimiddleware.RequestIDHeader},
			ExposedHeaders: []string{chimiddleware.RequestIDHeader},
			MaxAge:         300,
		}).Handler)
	}

	foodService := service.NewFoodService(s.db, s.logger)
	entryService := service.NewEntryService(s.db, s.db, s.now, s.logger)
	rotationService := service.NewRotationService(s.db, s.now, s.logger)

	foodHandler := handler.NewFoodHandler(foodService, s.logger)
	entryHandler := handler.NewEntryHandler(entryService, s.logger)
	rotationHandler := handler.NewRotationHandler(rotationService, s.logger)

	s.router.Get("/healthz", handler.Health(s.db, s.logger))

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/foods", func(r chi.Router) {
			r.Get("/", foodHandler.HandleList)
			r.Post("/", foodHandler.HandleCreate)
			r.Get("/next", rotationHandler.HandleNext)
			r.Get("/lookup", foodHandler.HandleLookup)
			r.Put("/{id}", foodHandler.HandleRename)
			r.Delete("/{id}", foodHandler.HandleDelete)
		})

		r.Get("/available", rotationHandler.HandleAvailable)
		r.Get("/summary", rotationHandler.HandleSummary)

		r.Route("/entries", func(r chi.Router) {
			r.Get("/", entryHandler.HandleList)
			r.Post("/", entryHandler.HandleCreate)
			r.Put("/{id}", entryHandler.HandleUpdate)
			r.Delete("/{id}", entryHandler.HandleDelete)
		})
	})

	if info, err := os.Stat(s.config.StaticDir); err == nil && info.IsDir() {
		s.router.Handle("/*", http.FileServer(http.Dir(s.config.StaticDir)))
	} else if s.config.StaticDir != "" {
		s.logger.Warn("static directory not found, UI disabled",
			slog.String("dir", s.config.StaticDir),
		)
	}
}

// Start runs the HTTP server until SIGINT or SIGTERM, then drains in-flight
// requests and closes the database.
func (s *Server) Start() error {
	defer s.db.Close()

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
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("database", s.config.DBPath),
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

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
