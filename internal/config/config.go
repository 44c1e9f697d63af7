package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/foxzi/lexdraft/internal/ipfilter"
	"github.com/foxzi/lexdraft/internal/llm"
)

// Config is the main configuration structure
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	API       APIConfig       `yaml:"api"`
	LLM       LLMConfig       `yaml:"llm"`
	Drafts    DraftsConfig    `yaml:"drafts"`
	Templates TemplatesConfig `yaml:"templates"`
	Session   SessionConfig   `yaml:"session"`
	RateLimit RateLimitConfig `yaml:"rate_limit"` // Limits on text generation requests
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"` // Prometheus metrics configuration
}

// ServerConfig contains server-wide settings
type ServerConfig struct {
	Hostname        string        `yaml:"hostname"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // Default: 30s
}

// APIConfig contains HTTP API settings
type APIConfig struct {
	ListenAddr     string        `yaml:"listen_addr"`
	APIKey         string        `yaml:"api_key"`          // Empty disables authentication
	MaxHeaderBytes int           `yaml:"max_header_bytes"` // Max HTTP header size (default: 1MB)
	MaxUploadBytes int64         `yaml:"max_upload_bytes"` // Max PDF upload size (default: 20MB)
	ReadTimeout    time.Duration `yaml:"read_timeout"`     // HTTP read timeout (default: 60s)
	WriteTimeout   time.Duration `yaml:"write_timeout"`    // HTTP write timeout (default: 180s)
	IdleTimeout    time.Duration `yaml:"idle_timeout"`     // HTTP idle timeout (default: 60s)
	AllowedIPs     []string      `yaml:"allowed_ips"`      // IP addresses/CIDRs allowed to access API (empty = allow all)
	TLS            TLSConfig     `yaml:"tls"`
}

// TLSConfig contains TLS certificate settings
type TLSConfig struct {
	CertFile string     `yaml:"cert_file"`
	KeyFile  string     `yaml:"key_file"`
	ACME     ACMEConfig `yaml:"acme"`
}

// ACMEConfig contains Let's Encrypt ACME settings
type ACMEConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Email    string   `yaml:"email"`
	Domains  []string `yaml:"domains"`
	CacheDir string   `yaml:"cache_dir"`
}

// LLMConfig selects the completion provider
type LLMConfig struct {
	Provider    string        `yaml:"provider"` // worqhat, openai, anthropic, local
	Model       string        `yaml:"model"`
	APIKey      string        `yaml:"api_key"` // Falls back to the provider's environment variable
	BaseURL     string        `yaml:"base_url"`
	Timeout     time.Duration `yaml:"timeout"`
	Temperature float64       `yaml:"temperature"`
}

// DraftsConfig contains generated draft storage settings
type DraftsConfig struct {
	Dir             string        `yaml:"dir"`              // Where .docx files are written
	Backend         string        `yaml:"backend"`          // memory, bolt
	Path            string        `yaml:"path"`             // BoltDB file (backend=bolt)
	MaxAge          time.Duration `yaml:"max_age"`          // Delete drafts older than this (default 24h, negative = keep while running)
	CleanupInterval time.Duration `yaml:"cleanup_interval"` // How often to run cleanup
}

// TemplatesConfig points to an optional template overrides file
type TemplatesConfig struct {
	File  string `yaml:"file"`
	Watch bool   `yaml:"watch"` // Reload on change
}

// SessionConfig contains chat session settings
type SessionConfig struct {
	Backend       string        `yaml:"backend"` // memory, redis
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	TTL           time.Duration `yaml:"ttl"`
	CookieName    string        `yaml:"cookie_name"`
	MaxHistory    int           `yaml:"max_history"` // Chat turns kept per session (0 = unlimited)
}

// RateLimitConfig limits requests that call the language model
type RateLimitConfig struct {
	Enabled bool `yaml:"enabled"`

	// Limits for the whole server
	Global *LimitValues `yaml:"global,omitempty"`

	// Limits for each client IP
	PerIP *LimitValues `yaml:"per_ip,omitempty"`

	// Limits for each session
	PerSession *LimitValues `yaml:"per_session,omitempty"`

	// How often counters are flushed (drafts.backend=bolt only)
	FlushInterval time.Duration `yaml:"flush_interval"`
}

// LimitValues contains rate limit values (0 = unlimited)
type LimitValues struct {
	RequestsPerHour int `yaml:"requests_per_hour"`
	RequestsPerDay  int `yaml:"requests_per_day"`
}

// MetricsConfig contains Prometheus metrics settings
type MetricsConfig struct {
	Enabled    bool     `yaml:"enabled"`
	ListenAddr string   `yaml:"listen_addr"` // Default: :9090
	Path       string   `yaml:"path"`        // Default: /metrics
	AllowedIPs []string `yaml:"allowed_ips"` // IP addresses/CIDRs allowed to access metrics
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// Load loads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Default returns a configuration with every default applied, for running
// without a config file
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// setDefaults sets default values for configuration
func (c *Config) setDefaults() {
	if c.Server.Hostname == "" {
		hostname, _ := os.Hostname()
		c.Server.Hostname = hostname
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 30 * time.Second
	}

	if c.API.ListenAddr == "" {
		c.API.ListenAddr = ":8080"
	}
	if c.API.APIKey == "" {
		c.API.APIKey = os.Getenv("LEXDRAFT_API_KEY")
	}
	if c.API.MaxHeaderBytes == 0 {
		c.API.MaxHeaderBytes = 1 << 20 // 1 MB
	}
	if c.API.MaxUploadBytes == 0 {
		c.API.MaxUploadBytes = 20 << 20 // 20 MB
	}
	if c.API.ReadTimeout == 0 {
		c.API.ReadTimeout = 60 * time.Second
	}
	if c.API.WriteTimeout == 0 {
		// Long enough for draft generation
		c.API.WriteTimeout = 180 * time.Second
	}
	if c.API.IdleTimeout == 0 {
		c.API.IdleTimeout = 60 * time.Second
	}
	if c.API.TLS.ACME.CacheDir == "" {
		c.API.TLS.ACME.CacheDir = "/var/lib/lexdraft/certs"
	}

	if c.LLM.Provider == "" {
		c.LLM.Provider = string(llm.ProviderWorqHat)
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = 2 * time.Minute
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.2
	}

	if c.Drafts.Dir == "" {
		c.Drafts.Dir = "/var/lib/lexdraft/drafts"
	}
	if c.Drafts.Backend == "" {
		c.Drafts.Backend = "memory"
	}
	if c.Drafts.Path == "" {
		c.Drafts.Path = "/var/lib/lexdraft/drafts.db"
	}
	// Zero means unset; a negative max_age disables expiry
	if c.Drafts.MaxAge == 0 {
		c.Drafts.MaxAge = 24 * time.Hour
	}
	if c.Drafts.CleanupInterval == 0 {
		c.Drafts.CleanupInterval = time.Hour
	}

	if c.Session.Backend == "" {
		c.Session.Backend = "memory"
	}
	if c.Session.RedisAddr == "" {
		c.Session.RedisAddr = "localhost:6379"
	}
	if c.Session.TTL == 0 {
		c.Session.TTL = 24 * time.Hour
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = "lexdraft_session"
	}
	if c.Session.MaxHistory == 0 {
		c.Session.MaxHistory = 50
	}

	if c.RateLimit.FlushInterval == 0 {
		c.RateLimit.FlushInterval = 10 * time.Second
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}

	// Metrics defaults
	if c.Metrics.ListenAddr == "" {
		c.Metrics.ListenAddr = ":9090"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("invalid logging.level: %s (must be debug, info, warn, or error)", c.Logging.Level)
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("invalid logging.format: %s (must be json or text)", c.Logging.Format)
	}

	if !isSupportedProvider(c.LLM.Provider) {
		return fmt.Errorf("invalid llm.provider: %s (must be one of %v)", c.LLM.Provider, llm.SupportedProviders())
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("invalid llm.temperature: %v (must be between 0 and 2)", c.LLM.Temperature)
	}

	if c.Drafts.Backend != "memory" && c.Drafts.Backend != "bolt" {
		return fmt.Errorf("invalid drafts.backend: %s (must be memory or bolt)", c.Drafts.Backend)
	}
	if c.Drafts.Dir == "" {
		return fmt.Errorf("drafts.dir is required")
	}

	if c.Session.Backend != "memory" && c.Session.Backend != "redis" {
		return fmt.Errorf("invalid session.backend: %s (must be memory or redis)", c.Session.Backend)
	}
	if c.Session.MaxHistory < 0 {
		return fmt.Errorf("session.max_history must not be negative")
	}

	for name, lv := range map[string]*LimitValues{
		"global":      c.RateLimit.Global,
		"per_ip":      c.RateLimit.PerIP,
		"per_session": c.RateLimit.PerSession,
	} {
		if lv != nil && (lv.RequestsPerHour < 0 || lv.RequestsPerDay < 0) {
			return fmt.Errorf("rate_limit.%s values must not be negative", name)
		}
	}

	if c.API.MaxUploadBytes < 0 {
		return fmt.Errorf("api.max_upload_bytes must not be negative")
	}
	if err := ipfilter.Validate(c.API.AllowedIPs); err != nil {
		return fmt.Errorf("invalid api.allowed_ips: %w", err)
	}
	if err := ipfilter.Validate(c.Metrics.AllowedIPs); err != nil {
		return fmt.Errorf("invalid metrics.allowed_ips: %w", err)
	}

	// Validate TLS configuration
	if err := c.validateTLS(); err != nil {
		return err
	}

	return nil
}

// validateTLS validates TLS configuration
func (c *Config) validateTLS() error {
	tls := c.API.TLS
	hasCerts := tls.CertFile != "" || tls.KeyFile != ""
	hasACME := tls.ACME.Enabled

	if hasCerts && hasACME {
		return fmt.Errorf("cannot use both manual certificates and ACME")
	}

	if hasCerts {
		if tls.CertFile == "" {
			return fmt.Errorf("api.tls.cert_file is required when using manual certificates")
		}
		if tls.KeyFile == "" {
			return fmt.Errorf("api.tls.key_file is required when using manual certificates")
		}
	}

	if hasACME {
		if tls.ACME.Email == "" {
			return fmt.Errorf("api.tls.acme.email is required when ACME is enabled")
		}
		if len(tls.ACME.Domains) == 0 {
			return fmt.Errorf("api.tls.acme.domains must not be empty when ACME is enabled")
		}
	}

	return nil
}

// HasTLS returns true if TLS is configured for the API
func (c *Config) HasTLS() bool {
	return (c.API.TLS.CertFile != "" && c.API.TLS.KeyFile != "") || c.API.TLS.ACME.Enabled
}

func isSupportedProvider(p string) bool {
	for _, s := range llm.SupportedProviders() {
		if s == p {
			return true
		}
	}
	return false
}
