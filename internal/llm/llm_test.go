//nolint:bodyclose // Test file uses mock responses with NopCloser bodies
package llm

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

// mockHTTPDoer records the last request and returns a canned response.
type mockHTTPDoer struct {
	response *http.Response
	err      error

	req  *http.Request
	body string
}

func (m *mockHTTPDoer) Do(req *http.Request) (*http.Response, error) {
	m.req = req
	if req.Body != nil {
		b, _ := io.ReadAll(req.Body)
		m.body = string(b)
	}
	return m.response, m.err
}

func mockResponse(statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}
}

func TestNewDefaults(t *testing.T) {
	t.Setenv("WORQHAT_API_KEY", "wh-key")

	c, err := New(Config{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if c.Provider() != ProviderWorqHat {
		t.Errorf("Provider() = %s", c.Provider())
	}
	if c.Model() != "aicon-v4-large-160824" {
		t.Errorf("Model() = %s", c.Model())
	}
	if c.apiKey != "wh-key" {
		t.Errorf("apiKey = %s", c.apiKey)
	}
	if c.temperature != 0.2 {
		t.Errorf("temperature = %v", c.temperature)
	}
}

func TestNewErrors(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	if _, err := New(Config{Provider: "bogus", APIKey: "x"}); err == nil {
		t.Error("New() expected error for unknown provider")
	}

	_, err := New(Config{Provider: ProviderOpenAI})
	if err == nil || !strings.Contains(err.Error(), "OPENAI_API_KEY") {
		t.Errorf("New() error = %v, want missing OPENAI_API_KEY", err)
	}

	if _, err := New(Config{Provider: ProviderLocal}); err != nil {
		t.Errorf("local provider should not need a key: %v", err)
	}
}

func TestCompleteUsesClientTemperature(t *testing.T) {
	doer := &mockHTTPDoer{response: mockResponse(200, `{"content":"ok"}`)}
	c, err := New(Config{APIKey: "k", Temperature: 0.4}, WithHTTPDoer(doer))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, err := c.Complete(context.Background(), Request{Prompt: "p"}); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if !strings.Contains(doer.body, `"randomness":0.4`) {
		t.Errorf("body = %s", doer.body)
	}

	doer.response = mockResponse(200, `{"content":"ok"}`)
	if _, err := c.Complete(context.Background(), Request{Prompt: "p", Temperature: 0.1}); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if !strings.Contains(doer.body, `"randomness":0.1`) {
		t.Errorf("body = %s", doer.body)
	}
}

func TestCompleteAPIError(t *testing.T) {
	long := strings.Repeat("x", 600)
	doer := &mockHTTPDoer{response: mockResponse(401, long)}
	c, _ := New(Config{APIKey: "k"}, WithHTTPDoer(doer))

	_, err := c.Complete(context.Background(), Request{Prompt: "p"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Complete() error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != 401 {
		t.Errorf("StatusCode = %d", apiErr.StatusCode)
	}
	if len(apiErr.Body) != 500 {
		t.Errorf("error body should be truncated to 500, got %d", len(apiErr.Body))
	}
}

func TestCompleteTransportError(t *testing.T) {
	doer := &mockHTTPDoer{err: errors.New("connection refused")}
	c, _ := New(Config{APIKey: "k"}, WithHTTPDoer(doer))

	_, err := c.Complete(context.Background(), Request{Prompt: "p"})
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("Complete() error = %v", err)
	}
}
