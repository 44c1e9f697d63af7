//nolint:bodyclose // Test file uses mock responses with NopCloser bodies
package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestCompleteAnthropic(t *testing.T) {
	body := `{"content":[{"type":"text","text":"Part one. "},{"type":"tool_use"},{"type":"text","text":"Part two."}]}`
	doer := &mockHTTPDoer{response: mockResponse(200, body)}
	c, err := New(Config{Provider: ProviderAnthropic, APIKey: "ak"}, WithHTTPDoer(doer))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	resp, err := c.Complete(context.Background(), Request{System: "sys", Prompt: "p"})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if resp.Content != "Part one. Part two." {
		t.Errorf("Content = %q", resp.Content)
	}

	if got := doer.req.Header.Get("x-api-key"); got != "ak" {
		t.Errorf("x-api-key = %s", got)
	}
	if got := doer.req.Header.Get("anthropic-version"); got != "2023-06-01" {
		t.Errorf("anthropic-version = %s", got)
	}
	for _, want := range []string{`"max_tokens":4096`, `"system":"sys"`} {
		if !strings.Contains(doer.body, want) {
			t.Errorf("body missing %s: %s", want, doer.body)
		}
	}
}

func TestCompleteAnthropicNoText(t *testing.T) {
	doer := &mockHTTPDoer{response: mockResponse(200, `{"content":[]}`)}
	c, _ := New(Config{Provider: ProviderAnthropic, APIKey: "ak"}, WithHTTPDoer(doer))

	_, err := c.Complete(context.Background(), Request{Prompt: "p"})
	if !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("Complete() error = %v, want ErrEmptyResponse", err)
	}
}

func TestCompleteAnthropicError(t *testing.T) {
	doer := &mockHTTPDoer{response: mockResponse(200, `{"error":{"type":"overloaded_error","message":"Overloaded"}}`)}
	c, _ := New(Config{Provider: ProviderAnthropic, APIKey: "ak"}, WithHTTPDoer(doer))

	_, err := c.Complete(context.Background(), Request{Prompt: "p"})
	if err == nil || !strings.Contains(err.Error(), "Overloaded") {
		t.Errorf("Complete() error = %v", err)
	}
}
