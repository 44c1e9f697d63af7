package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// Chat completion types, shared by OpenAI and OpenAI-compatible local
// servers (LM Studio, Ollama).
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) completeChat(ctx context.Context, req Request) (*Response, error) {
	messages := []chatMessage{}
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	model := c.model
	var headers map[string]string
	if c.provider == ProviderLocal {
		// Let the server use its loaded model
		if model == "default" || model == "local" {
			model = ""
		}
	} else {
		headers = map[string]string{"Authorization": "Bearer " + c.apiKey}
	}

	body := chatRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}

	respBody, err := c.doRequest(ctx, c.baseURL+"/chat/completions", body, headers)
	if err != nil {
		return nil, err
	}

	var result chatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if result.Error != nil {
		return nil, fmt.Errorf("API error: %s", result.Error.Message)
	}

	if len(result.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	responseModel := c.model
	if responseModel == "" || responseModel == "default" {
		responseModel = "local"
	}

	return &Response{Content: result.Choices[0].Message.Content, Model: responseModel}, nil
}
