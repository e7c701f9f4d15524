// Package api provides the HTTP API server and handlers for the Shelfmark application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/shelfmark/shelfmark-server/internal/config"
	"github.com/shelfmark/shelfmark-server/internal/http/response"
	"github.com/shelfmark/shelfmark-server/internal/ratelimit"
	"github.com/shelfmark/shelfmark-server/internal/reader"
	"github.com/shelfmark/shelfmark-server/internal/service"
	"github.com/shelfmark/shelfmark-server/internal/sse"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	instanceService *service.InstanceService
	bookService     *service.BookService
	bookmarkService *service.BookmarkService
	noteService     *service.NoteService
	settingsService *service.SettingsService
	bridge          *reader.Bridge
	sseHandler      *sse.Handler
	importLimiter   *ratelimit.KeyedRateLimiter
	router          *chi.Mux
	logger          *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	cfg *config.Config,
	instanceService *service.InstanceService,
	bookService *service.BookService,
	bookmarkService *service.BookmarkService,
	noteService *service.NoteService,
	settingsService *service.SettingsService,
	bridge *reader.Bridge,
	sseHandler *sse.Handler,
	logger *slog.Logger,
) *Server {
	s := &Server{
		instanceService: instanceService,
		bookService:     bookService,
		bookmarkService: bookmarkService,
		noteService:     noteService,
		settingsService: settingsService,
		bridge:          bridge,
		sseHandler:      sseHandler,
		importLimiter:   ratelimit.New(cfg.Import.RatePerSecond, cfg.Import.Burst),
		router:          chi.NewRouter(),
		logger:          logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		// Single-user LAN server; the mobile app talks to it from a
		// webview origin that varies per platform.
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// Renderer bridge pages live outside the API prefix; they are
	// loaded directly into the app's webview.
	s.router.Route("/reader/{id}", func(r chi.Router) {
		r.Get("/", s.handleReaderDocument)
		r.Post("/events", s.handleReaderEvent)
	})

	// API v1.
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/instance", s.handleGetInstance)

		// Event stream.
		r.Get("/events", s.sseHandler.ServeHTTP)

		// Library.
		r.Route("/books", func(r chi.Router) {
			r.Get("/", s.handleListBooks)
			r.With(RateLimitMiddleware(s.importLimiter, s.logger)).
				Post("/", s.handleImportBook)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetBook)
				r.Delete("/", s.handleDeleteBook)
				r.Get("/file", s.handleGetBookFile)
				r.Get("/cover", s.handleGetBookCover)
				r.Get("/progress", s.handleGetProgress)
				r.Put("/progress", s.handleUpdateProgress)

				r.Route("/bookmarks", func(r chi.Router) {
					r.Get("/", s.handleListBookmarks)
					r.Post("/", s.handleAddBookmark)
					r.Delete("/", s.handleClearBookmarks)
					r.Delete("/{bookmarkID}", s.handleDeleteBookmark)
				})

				r.Route("/notes", func(r chi.Router) {
					r.Get("/", s.handleListBookNotes)
					r.Post("/", s.handleAddBookNote)
					r.Put("/{noteID}", s.handleUpdateBookNote)
					r.Delete("/{noteID}", s.handleDeleteBookNote)
				})
			})
		})

		// Standalone notes.
		r.Route("/notes", func(r chi.Router) {
			r.Get("/", s.handleListNotes)
			r.Post("/", s.handleCreateNote)
			r.Get("/{id}", s.handleGetNote)
			r.Put("/{id}", s.handleUpdateNote)
			r.Delete("/{id}", s.handleDeleteNote)
		})

		// Settings.
		r.Get("/settings", s.handleGetSettings)
		r.Patch("/settings", s.handleUpdateSettings)
		r.Get("/theme", s.handleGetTheme)
		r.Put("/theme", s.handleSetTheme)
	})
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	}, s.logger)
}

// handleGetInstance returns the singleton server instance record.
func (s *Server) handleGetInstance(w http.ResponseWriter, r *http.Request) {
	instance, err := s.instanceService.GetInstance(r.Context())
	if err != nil {
		s.logger.Error("Failed to get instance", "error", err)
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, instance, s.logger)
}
