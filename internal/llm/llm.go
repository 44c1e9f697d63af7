// Package llm provides a minimal multi-provider text generation client.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Provider represents an LLM provider.
type Provider string

// Supported LLM providers.
const (
	ProviderWorqHat   Provider = "worqhat"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderLocal     Provider = "local"
)

// ErrEmptyResponse is returned when the provider answers without content.
var ErrEmptyResponse = errors.New("empty response from API")

// APIError is a non-200 answer from the provider.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Body)
}

// Request represents a completion request.
type Request struct {
	System      string  // Context placed before the prompt
	Prompt      string  // User prompt
	Temperature float64 // 0 uses the client default
	MaxTokens   int     // 0 uses the provider default
}

// Response represents a completion response.
type Response struct {
	Content string
	Model   string
}

// Config configures a Client.
type Config struct {
	Provider    Provider
	Model       string
	APIKey      string
	BaseURL     string
	Timeout     time.Duration
	Temperature float64
}

// HTTPDoer defines the HTTP operations required by Client.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPDoer replaces the default HTTP client.
func WithHTTPDoer(d HTTPDoer) Option {
	return func(c *Client) {
		c.httpClient = d
	}
}

// Client is a provider-agnostic LLM client.
type Client struct {
	provider    Provider
	model       string
	apiKey      string
	baseURL     string
	temperature float64
	httpClient  HTTPDoer
}

// New creates a client. Missing model, base URL and API key are filled from
// provider defaults and the environment.
func New(cfg Config, opts ...Option) (*Client, error) {
	provider := cfg.Provider
	if provider == "" {
		provider = ProviderWorqHat
	}

	defaults, ok := providerDefaults[provider]
	if !ok {
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}

	apiKey := cfg.APIKey
	if apiKey == "" && defaults.envVar != "" {
		apiKey = os.Getenv(defaults.envVar)
		if apiKey == "" {
			return nil, fmt.Errorf("%s environment variable not set", defaults.envVar)
		}
	}

	model := cfg.Model
	if model == "" {
		model = defaults.model
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaults.baseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 2 * time.Minute
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.2
	}

	c := &Client{
		provider:    provider,
		model:       model,
		apiKey:      apiKey,
		baseURL:     strings.TrimRight(baseURL, "/"),
		temperature: temperature,
		httpClient:  &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Provider returns the configured provider.
func (c *Client) Provider() Provider {
	return c.provider
}

// Model returns the configured model.
func (c *Client) Model() string {
	return c.model
}

// Complete generates a completion for the given request.
func (c *Client) Complete(ctx context.Context, req Request) (*Response, error) {
	if req.Temperature == 0 {
		req.Temperature = c.temperature
	}

	switch c.provider {
	case ProviderWorqHat:
		return c.completeWorqHat(ctx, req)
	case ProviderOpenAI, ProviderLocal:
		return c.completeChat(ctx, req)
	case ProviderAnthropic:
		return c.completeAnthropic(ctx, req)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", c.provider)
	}
}

type providerDefault struct {
	model   string
	baseURL string
	envVar  string // empty when no key is required
}

var providerDefaults = map[Provider]providerDefault{
	ProviderWorqHat: {
		model:   "aicon-v4-large-160824",
		baseURL: "https://api.worqhat.com/api/ai/content/v4",
		envVar:  "WORQHAT_API_KEY",
	},
	ProviderOpenAI: {
		model:   "gpt-4o-mini",
		baseURL: "https://api.openai.com/v1",
		envVar:  "OPENAI_API_KEY",
	},
	ProviderAnthropic: {
		model:   "claude-3-5-haiku-latest",
		baseURL: "https://api.anthropic.com/v1",
		envVar:  "ANTHROPIC_API_KEY",
	},
	ProviderLocal: {
		model:   "default",
		baseURL: "http://localhost:1234/v1",
	},
}

// SupportedProviders returns the provider names accepted by New.
func SupportedProviders() []string {
	return []string{string(ProviderWorqHat), string(ProviderOpenAI), string(ProviderAnthropic), string(ProviderLocal)}
}

// doRequest performs an HTTP POST request with JSON body.
func (c *Client) doRequest(ctx context.Context, url string, body any, headers map[string]string) ([]byte, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		httpReq.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		errBody := string(respBody)
		if len(errBody) > 500 {
			errBody = errBody[:500]
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Body: errBody}
	}

	return respBody, nil
}
