//nolint:bodyclose // Test file uses mock responses with NopCloser bodies
package llm

import (
	"context"
	"strings"
	"testing"
)

func TestCompleteOpenAI(t *testing.T) {
	doer := &mockHTTPDoer{response: mockResponse(200, `{"choices":[{"message":{"content":"Hello"}}]}`)}
	c, err := New(Config{Provider: ProviderOpenAI, APIKey: "sk-test", Model: "gpt-4o"}, WithHTTPDoer(doer))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	resp, err := c.Complete(context.Background(), Request{System: "Be brief", Prompt: "Hi", MaxTokens: 100})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if resp.Content != "Hello" || resp.Model != "gpt-4o" {
		t.Errorf("Complete() = %+v", resp)
	}

	if got := doer.req.URL.String(); got != "https://api.openai.com/v1/chat/completions" {
		t.Errorf("URL = %s", got)
	}
	if got := doer.req.Header.Get("Authorization"); got != "Bearer sk-test" {
		t.Errorf("Authorization = %s", got)
	}
	for _, want := range []string{`"role":"system"`, `"content":"Be brief"`, `"max_tokens":100`, `"model":"gpt-4o"`} {
		if !strings.Contains(doer.body, want) {
			t.Errorf("body missing %s: %s", want, doer.body)
		}
	}
}

func TestCompleteOpenAIErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"api error", `{"error":{"message":"Invalid API key"}}`, "Invalid API key"},
		{"empty choices", `{"choices":[]}`, "empty response"},
		{"invalid json", "nope", "parse response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doer := &mockHTTPDoer{response: mockResponse(200, tt.body)}
			c, _ := New(Config{Provider: ProviderOpenAI, APIKey: "k"}, WithHTTPDoer(doer))

			_, err := c.Complete(context.Background(), Request{Prompt: "p"})
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Complete() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestCompleteLocal(t *testing.T) {
	doer := &mockHTTPDoer{response: mockResponse(200, `{"choices":[{"message":{"content":"local answer"}}]}`)}
	c, err := New(Config{Provider: ProviderLocal, BaseURL: "http://127.0.0.1:11434/v1/"}, WithHTTPDoer(doer))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	resp, err := c.Complete(context.Background(), Request{Prompt: "p"})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if resp.Model != "local" {
		t.Errorf("Model = %s, want local", resp.Model)
	}
	if got := doer.req.URL.String(); got != "http://127.0.0.1:11434/v1/chat/completions" {
		t.Errorf("URL = %s", got)
	}
	if doer.req.Header.Get("Authorization") != "" {
		t.Error("local provider should not send Authorization")
	}
	if strings.Contains(doer.body, `"model":"default"`) {
		t.Errorf("default model should be omitted: %s", doer.body)
	}
}
