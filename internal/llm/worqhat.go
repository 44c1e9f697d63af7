package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

type worqhatRequest struct {
	Question   string  `json:"question"`
	Model      string  `json:"model"`
	Randomness float64 `json:"randomness"`
	StreamData bool    `json:"stream_data"`
}

type worqhatResponse struct {
	Content string `json:"content"`
}

// The content endpoint takes a single question; the system text is
// prepended to it separated by a blank line.
func (c *Client) completeWorqHat(ctx context.Context, req Request) (*Response, error) {
	question := req.Prompt
	if req.System != "" {
		question = req.System + "\n\n" + req.Prompt
	}

	body := worqhatRequest{
		Question:   question,
		Model:      c.model,
		Randomness: req.Temperature,
		StreamData: false,
	}

	respBody, err := c.doRequest(ctx, c.baseURL, body, map[string]string{
		"Authorization": "Bearer " + c.apiKey,
	})
	if err != nil {
		return nil, err
	}

	var result worqhatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if strings.TrimSpace(result.Content) == "" {
		return nil, ErrEmptyResponse
	}

	return &Response{Content: result.Content, Model: c.model}, nil
}
