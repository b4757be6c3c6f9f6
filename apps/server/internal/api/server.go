// Package api exposes tournament import, browsing and replay over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"wmx-replay/apps/server/internal/archive"
	"wmx-replay/apps/server/internal/store"
	"wmx-replay/reconcile"
	"wmx-replay/winamax"
)

const defaultMaxUploadBytes = 10 << 20

// Config holds server dependencies
type Config struct {
	Addr           string
	Log            zerolog.Logger
	Store          store.Service
	Archive        archive.Archiver
	Parser         *winamax.Parser
	Reconciler     *reconcile.Reconciler
	MaxUploadBytes int64
	CORSOrigins    []string
	// Replay serves /ws/replay when set.
	Replay http.HandlerFunc
}

// Server represents the HTTP server
type Server struct {
	router     *chi.Mux
	server     *http.Server
	log        zerolog.Logger
	store      store.Service
	archive    archive.Archiver
	parser     *winamax.Parser
	reconciler *reconcile.Reconciler
	maxUpload  int64
}

func New(cfg Config) *Server {
	s := &Server{
		router:     chi.NewRouter(),
		log:        cfg.Log.With().Str("component", "api").Logger(),
		store:      cfg.Store,
		archive:    cfg.Archive,
		parser:     cfg.Parser,
		reconciler: cfg.Reconciler,
		maxUpload:  cfg.MaxUploadBytes,
	}
	if s.archive == nil {
		s.archive = archive.Nop()
	}
	if s.parser == nil {
		s.parser = winamax.New(winamax.WithLogger(cfg.Log))
	}
	if s.reconciler == nil {
		s.reconciler = reconcile.New(reconcile.WithLogger(cfg.Log))
	}
	if s.maxUpload <= 0 {
		s.maxUpload = defaultMaxUploadBytes
	}

	s.setupMiddleware(cfg.CORSOrigins)
	s.setupRoutes(cfg.Replay)

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // replay sockets outlive any fixed write timeout
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) setupMiddleware(origins []string) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)

	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

func (s *Server) setupRoutes(replayWS http.HandlerFunc) {
	s.router.Get("/", s.handleRoot)
	s.router.Get("/health", s.handleHealth)
	if replayWS != nil {
		s.router.Get("/ws/replay", replayWS)
	}

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/summaries/parse", s.handleParseSummary)

		r.Route("/tournaments", func(r chi.Router) {
			r.Get("/", s.handleListTournaments)
			r.Post("/upload", s.handleUpload)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetTournament)
				r.Delete("/", s.handleDeleteTournament)
				r.Post("/update-summary", s.handleUpdateSummary)
				r.Get("/hands", s.handleListHands)
				r.Get("/hands/{number}", s.handleGetHand)
				r.Get("/hands/{number}/replay", s.handleReplay)
			})
		})
	})
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Poker Tournament Replay API is running!",
		"status":  "ok",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
