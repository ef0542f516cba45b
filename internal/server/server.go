// Package server wires the HTTP API together.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/aristath/trading-journal/internal/database"
	"github.com/aristath/trading-journal/internal/modules/fixedops"
	"github.com/aristath/trading-journal/internal/modules/ledger"
	"github.com/aristath/trading-journal/internal/modules/operations"
	"github.com/aristath/trading-journal/internal/modules/settings"
	"github.com/aristath/trading-journal/internal/modules/uploads"
)

// Config holds server configuration and the wired handler set
type Config struct {
	Port           int
	DevMode        bool
	AllowedOrigins []string
	Log            zerolog.Logger

	AuthMiddleware func(http.Handler) http.Handler

	Operations *operations.Handlers
	FixedOps   *fixedops.Handlers
	Ledger     *ledger.Handlers
	Settings   *settings.Handlers
	Uploads    *uploads.Handlers

	Databases []*database.DB // for the system info endpoint
}

// Server represents the HTTP server
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger
	system *SystemHandlers
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router: chi.NewRouter(),
		log:    cfg.Log.With().Str("component", "server").Logger(),
		system: NewSystemHandlers(cfg.Log, cfg.Databases),
	}

	s.setupMiddleware(cfg)
	s.setupRoutes(cfg)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) setupMiddleware(cfg Config) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if !cfg.DevMode {
		s.router.Use(middleware.Compress(5))
	}
}

func (s *Server) setupRoutes(cfg Config) {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(cfg.AuthMiddleware)

		r.Route("/operations", func(r chi.Router) {
			r.Get("/", cfg.Operations.HandleList)
			r.Post("/", cfg.Operations.HandleCreate)
			r.Delete("/", cfg.Operations.HandleDeleteAll)
			r.Put("/{id}", cfg.Operations.HandleUpdate)
			r.Delete("/{id}", cfg.Operations.HandleDelete)
		})

		r.Route("/fixed-operations", func(r chi.Router) {
			r.Get("/", cfg.FixedOps.HandleList)
			r.Post("/", cfg.FixedOps.HandleCreate)
			r.Delete("/", cfg.FixedOps.HandleDeleteAll)
			r.Get("/stats", cfg.FixedOps.HandleSummary)
			r.Put("/{id}", cfg.FixedOps.HandleUpdate)
			r.Delete("/{id}", cfg.FixedOps.HandleDelete)
		})

		r.Get("/ledger", cfg.Ledger.HandleGetLedger)
		r.Get("/stats", cfg.Ledger.HandleGetStats)

		r.Route("/settings", func(r chi.Router) {
			r.Get("/initial-capital", cfg.Settings.HandleGetInitialCapital)
			r.Put("/initial-capital", cfg.Settings.HandleSetInitialCapital)
		})

		r.Post("/uploads", cfg.Uploads.HandleUpload)

		r.Get("/system/info", s.system.HandleInfo)
	})
}

// loggingMiddleware logs each request with duration
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("Request")
	})
}

// Start begins listening for requests
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("HTTP server listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
