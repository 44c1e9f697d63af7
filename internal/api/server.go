package api

import (
	"context"
	"crypto/tls"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/foxzi/lexdraft/internal/assistant"
	"github.com/foxzi/lexdraft/internal/config"
	"github.com/foxzi/lexdraft/internal/draft"
	"github.com/foxzi/lexdraft/internal/ipfilter"
	"github.com/foxzi/lexdraft/internal/metrics"
	"github.com/foxzi/lexdraft/internal/ratelimit"
)

// Server is the HTTP API server
type Server struct {
	router      *chi.Mux
	httpServer  *http.Server
	assistant   *assistant.Service
	drafts      draft.Store
	rateLimiter *ratelimit.Limiter
	config      *config.APIConfig
	cookieName  string
	tlsConfig   *tls.Config
	logger      *slog.Logger
	startTime   time.Time
	version     string
}

// Options are optional server settings
type Options struct {
	CookieName  string             // session cookie, default lexdraft_session
	TLSConfig   *tls.Config        // serve HTTPS when set
	RateLimiter *ratelimit.Limiter // limits model-backed endpoints when set
	Version     string
}

// NewServer creates a new API server
func NewServer(svc *assistant.Service, drafts draft.Store, cfg *config.APIConfig, opts Options, logger *slog.Logger) *Server {
	if opts.CookieName == "" {
		opts.CookieName = defaultCookieName
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}

	s := &Server{
		router:      chi.NewRouter(),
		assistant:   svc,
		drafts:      drafts,
		rateLimiter: opts.RateLimiter,
		config:      cfg,
		cookieName:  opts.CookieName,
		tlsConfig:   opts.TLSConfig,
		logger:      logger.With("component", "api"),
		startTime:   time.Now(),
		version:     opts.Version,
	}

	s.setupRoutes()
	return s
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures the HTTP routes
func (s *Server) setupRoutes() {
	// Middleware
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Recoverer)
	s.router.Use(metrics.HTTPMiddleware)

	if filter := ipfilter.New(s.config.AllowedIPs, s.logger); filter.Enabled() {
		s.router.Use(filter.HTTPMiddleware)
	}

	// Health check (no auth required)
	s.router.Get("/health", s.handleHealth)

	// API v1 routes (auth required)
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Use(s.sessionMiddleware)

		r.Get("/categories", s.handleCategories)
		r.Get("/templates", s.handleTemplates)
		r.Get("/document", s.handleViewDocument)
		r.Delete("/session", s.handleResetSession)
		r.Get("/drafts/{id}", s.handleDownloadDraft)

		// Endpoints that call the language model
		r.Group(func(r chi.Router) {
			r.Use(s.rateLimitMiddleware)

			r.Post("/classify", s.handleClassify)
			r.Post("/process", s.handleProcess)
			r.Post("/tone", s.handleTone)
			r.Post("/chat", s.handleChat)
			r.Post("/general-chat", s.handleGeneralChat)
			r.Post("/drafts", s.handleCreateDraft)
		})
	})
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	s.httpServer = &http.Server{
		Addr:           s.config.ListenAddr,
		Handler:        s.router,
		TLSConfig:      s.tlsConfig,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
	}

	s.logger.Info("starting HTTP API server", "addr", s.config.ListenAddr, "tls", s.tlsConfig != nil)
	if s.tlsConfig != nil {
		return s.httpServer.ListenAndServeTLS("", "")
	}
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP API server")
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
