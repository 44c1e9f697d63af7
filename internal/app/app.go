package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/foxzi/lexdraft/internal/api"
	"github.com/foxzi/lexdraft/internal/assistant"
	"github.com/foxzi/lexdraft/internal/config"
	"github.com/foxzi/lexdraft/internal/draft"
	"github.com/foxzi/lexdraft/internal/drafting"
	"github.com/foxzi/lexdraft/internal/llm"
	"github.com/foxzi/lexdraft/internal/metrics"
	"github.com/foxzi/lexdraft/internal/ratelimit"
	"github.com/foxzi/lexdraft/internal/session"
	lexTLS "github.com/foxzi/lexdraft/internal/tls"
)

// App is the main application
type App struct {
	config          *config.Config
	drafts          draft.Store
	sessions        session.Store
	rateLimiter     *ratelimit.Limiter
	apiServer       *api.Server
	cleaner         *draft.Cleaner
	watcher         *drafting.Watcher
	metricsServer   *metrics.Server
	systemCollector *metrics.SystemCollector
	acmeManager     *lexTLS.ACMEManager
	acmeServer      *http.Server
	logger          *slog.Logger
}

// New creates a new application
func New(ctx context.Context, cfg *config.Config, version string) (*App, error) {
	// Setup logger
	logger := setupLogger(cfg.Logging)

	a := &App{config: cfg, logger: logger}
	ok := false
	defer func() {
		if !ok {
			a.closeStores()
		}
	}()

	// Metrics
	if cfg.Metrics.Enabled {
		m := metrics.New()
		metrics.SetGlobal(m)
		a.metricsServer = metrics.NewServer(m, cfg.Metrics.ListenAddr, cfg.Metrics.Path,
			cfg.Metrics.AllowedIPs, logger.With("component", "metrics"))
		a.systemCollector = metrics.NewSystemCollector(m, 0)
	}

	// Templates
	var templates drafting.Source = drafting.DefaultRegistry()
	if cfg.Templates.File != "" {
		w, err := drafting.NewWatcher(cfg.Templates.File, logger.With("component", "templates"))
		if err != nil {
			return nil, fmt.Errorf("failed to load templates: %w", err)
		}
		templates = w
		if cfg.Templates.Watch {
			a.watcher = w
		}
		logger.Info("templates loaded", "file", cfg.Templates.File, "templates", w.Current().Names())
	}

	// Draft store
	var boltStore *draft.BoltStore
	switch cfg.Drafts.Backend {
	case "bolt":
		store, err := draft.NewBoltStore(cfg.Drafts.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to create draft store: %w", err)
		}
		boltStore = store
		a.drafts = store
	default:
		a.drafts = draft.NewMemoryStore()
	}
	a.cleaner = draft.NewCleaner(a.drafts, draft.CleanerConfig{
		MaxAge:   cfg.Drafts.MaxAge,
		Interval: cfg.Drafts.CleanupInterval,
	}, logger.With("component", "draft_cleaner"))

	// Session store
	switch cfg.Session.Backend {
	case "redis":
		store, err := session.NewRedisStore(ctx, session.RedisConfig{
			Addr:     cfg.Session.RedisAddr,
			Password: cfg.Session.RedisPassword,
			DB:       cfg.Session.RedisDB,
			TTL:      cfg.Session.TTL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create session store: %w", err)
		}
		a.sessions = store
	default:
		a.sessions = session.NewMemoryStore(cfg.Session.TTL)
	}

	// Rate limiter shares the draft database when there is one
	if cfg.RateLimit.Enabled {
		rlConfig := &ratelimit.Config{
			Global:        limitConfig(cfg.RateLimit.Global),
			PerIP:         limitConfig(cfg.RateLimit.PerIP),
			PerSession:    limitConfig(cfg.RateLimit.PerSession),
			FlushInterval: cfg.RateLimit.FlushInterval,
		}
		var db *bolt.DB
		if boltStore != nil {
			db = boltStore.DB()
		}
		limiter, err := ratelimit.NewLimiter(db, rlConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create rate limiter: %w", err)
		}
		a.rateLimiter = limiter
		logger.Info("rate limiting enabled", "persistent", db != nil)
	}

	// Language model
	client, err := llm.New(llm.Config{
		Provider:    llm.Provider(cfg.LLM.Provider),
		Model:       cfg.LLM.Model,
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Timeout:     cfg.LLM.Timeout,
		Temperature: cfg.LLM.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create llm client: %w", err)
	}
	logger.Info("language model configured", "provider", client.Provider(), "model", client.Model())

	svc := assistant.New(client, templates, a.drafts, a.sessions, assistant.Config{
		DraftDir:   cfg.Drafts.Dir,
		MaxHistory: cfg.Session.MaxHistory,
	}, logger)

	// Setup TLS configuration
	var tlsConfig *tls.Config
	if cfg.API.TLS.ACME.Enabled {
		a.acmeManager = lexTLS.NewACMEManager(
			cfg.API.TLS.ACME.Email,
			cfg.API.TLS.ACME.Domains,
			cfg.API.TLS.ACME.CacheDir,
		)
		tlsConfig = a.acmeManager.TLSConfig()
		logger.Info("ACME (Let's Encrypt) enabled", "domains", cfg.API.TLS.ACME.Domains)
	} else if cfg.HasTLS() {
		tlsConfig, err = lexTLS.LoadCertificate(cfg.API.TLS.CertFile, cfg.API.TLS.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load TLS certificate: %w", err)
		}
		if info, err := lexTLS.GetCertificateInfo(cfg.API.TLS.CertFile); err == nil && info.DaysLeft < 14 {
			logger.Warn("TLS certificate expires soon", "subject", info.Subject, "days_left", info.DaysLeft)
		}
		logger.Info("TLS enabled with manual certificates")
	}

	a.apiServer = api.NewServer(svc, a.drafts, &cfg.API, api.Options{
		CookieName:  cfg.Session.CookieName,
		TLSConfig:   tlsConfig,
		RateLimiter: a.rateLimiter,
		Version:     version,
	}, logger)

	ok = true
	return a, nil
}

// Run starts all components and waits for shutdown
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("starting lexdraft",
		"hostname", a.config.Server.Hostname,
		"api_addr", a.config.API.ListenAddr,
		"drafts_backend", a.config.Drafts.Backend,
		"session_backend", a.config.Session.Backend,
	)

	// Create context that listens for signals
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Background workers
	a.cleaner.Start(ctx)
	if a.watcher != nil {
		if err := a.watcher.Start(ctx); err != nil {
			a.logger.Warn("template watcher disabled", "error", err)
		}
	}
	if a.systemCollector != nil {
		a.systemCollector.Start(ctx)
	}

	// Channel to collect errors
	errCh := make(chan error, 3)

	// Start API server
	go func() {
		if err := a.apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("api server: %w", err)
		}
	}()

	// Start metrics server
	if a.metricsServer != nil {
		go func() {
			if err := a.metricsServer.ListenAndServe(); err != nil {
				errCh <- fmt.Errorf("metrics server: %w", err)
			}
		}()
	}

	// Start ACME HTTP challenge server on port 80 if ACME is enabled
	if a.acmeManager != nil {
		a.acmeServer = &http.Server{
			Addr:              ":80",
			Handler:           a.acmeManager.HTTPHandler(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			a.logger.Info("starting ACME HTTP challenge server", "addr", ":80")
			if err := a.acmeServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				a.logger.Warn("ACME HTTP server error", "error", err)
			}
		}()
	}

	// Wait for shutdown signal or error
	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case runErr = <-errCh:
		a.logger.Error("server error", "error", runErr)
		cancel()
	}

	// Graceful shutdown
	if err := a.Shutdown(context.Background()); err != nil {
		return err
	}
	return runErr
}

// Shutdown gracefully shuts down all components
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down")

	// Create timeout context
	shutdownCtx, cancel := context.WithTimeout(ctx, a.config.Server.ShutdownTimeout)
	defer cancel()

	// Stop accepting requests first
	if err := a.apiServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("api server shutdown error", "error", err)
	}

	// Shutdown ACME server if running
	if a.acmeServer != nil {
		if err := a.acmeServer.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("acme server shutdown error", "error", err)
		}
	}

	// Stop background workers
	a.cleaner.Stop()
	if a.watcher != nil {
		if err := a.watcher.Stop(); err != nil {
			a.logger.Error("template watcher stop error", "error", err)
		}
	}
	if a.systemCollector != nil {
		a.systemCollector.Stop()
	}

	if a.metricsServer != nil {
		if err := a.metricsServer.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("metrics server shutdown error", "error", err)
		}
	}

	a.closeStores()

	a.logger.Info("shutdown complete")
	return nil
}

func (a *App) closeStores() {
	// The limiter flushes into the draft database, so it stops first
	if a.rateLimiter != nil {
		if err := a.rateLimiter.Stop(); err != nil {
			a.logger.Error("rate limiter stop error", "error", err)
		}
	}
	if a.sessions != nil {
		if err := a.sessions.Close(); err != nil {
			a.logger.Error("session store close error", "error", err)
		}
	}
	if a.drafts != nil {
		if err := a.drafts.Close(); err != nil {
			a.logger.Error("draft store close error", "error", err)
		}
	}
}

func limitConfig(v *config.LimitValues) *ratelimit.LimitConfig {
	if v == nil {
		return nil
	}
	return &ratelimit.LimitConfig{
		RequestsPerHour: v.RequestsPerHour,
		RequestsPerDay:  v.RequestsPerDay,
	}
}

// setupLogger creates a logger based on configuration
func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
