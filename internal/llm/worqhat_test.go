//nolint:bodyclose // Test file uses mock responses with NopCloser bodies
package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestCompleteWorqHat(t *testing.T) {
	doer := &mockHTTPDoer{response: mockResponse(200, `{"content":"Legal Notice"}`)}
	c, err := New(Config{APIKey: "wh-test"}, WithHTTPDoer(doer))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	resp, err := c.Complete(context.Background(), Request{
		System: "Context here",
		Prompt: "Classify",
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if resp.Content != "Legal Notice" {
		t.Errorf("Content = %q", resp.Content)
	}

	if got := doer.req.URL.String(); got != "https://api.worqhat.com/api/ai/content/v4" {
		t.Errorf("URL = %s", got)
	}
	if got := doer.req.Header.Get("Authorization"); got != "Bearer wh-test" {
		t.Errorf("Authorization = %s", got)
	}

	wants := []string{
		`"question":"Context here\n\nClassify"`,
		`"model":"aicon-v4-large-160824"`,
		`"stream_data":false`,
	}
	for _, want := range wants {
		if !strings.Contains(doer.body, want) {
			t.Errorf("body missing %s: %s", want, doer.body)
		}
	}
}

func TestCompleteWorqHatNoSystem(t *testing.T) {
	doer := &mockHTTPDoer{response: mockResponse(200, `{"content":"x"}`)}
	c, _ := New(Config{APIKey: "k"}, WithHTTPDoer(doer))

	if _, err := c.Complete(context.Background(), Request{Prompt: "Just this"}); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if !strings.Contains(doer.body, `"question":"Just this"`) {
		t.Errorf("body = %s", doer.body)
	}
}

func TestCompleteWorqHatEmpty(t *testing.T) {
	doer := &mockHTTPDoer{response: mockResponse(200, `{"content":"  "}`)}
	c, _ := New(Config{APIKey: "k"}, WithHTTPDoer(doer))

	_, err := c.Complete(context.Background(), Request{Prompt: "p"})
	if !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("Complete() error = %v, want ErrEmptyResponse", err)
	}
}

func TestCompleteWorqHatInvalidJSON(t *testing.T) {
	doer := &mockHTTPDoer{response: mockResponse(200, "not json")}
	c, _ := New(Config{APIKey: "k"}, WithHTTPDoer(doer))

	_, err := c.Complete(context.Background(), Request{Prompt: "p"})
	if err == nil || !strings.Contains(err.Error(), "parse response") {
		t.Errorf("Complete() error = %v", err)
	}
}
