// Package openaicompat adapts any OpenAI-compatible chat-completion endpoint
// (OpenAI itself, Groq, Mistral, Together AI) to the plant provider
// interfaces. The providers share the wire shape; only the base URL, model,
// and label differ per instance.
package openaicompat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/ysalama/plantdoc/internal/domain"
	"github.com/ysalama/plantdoc/internal/imageutil"
	"github.com/ysalama/plantdoc/internal/plant"
)

const requestTimeout = 60 * time.Second

type Client struct {
	name   string
	apiKey string
	model  string
	api    *openai.Client
}

// New builds an adapter for one OpenAI-compatible provider. baseURL may be
// empty for api.openai.com; otherwise it is the provider's /v1 root.
func New(name, apiKey, baseURL, model string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: requestTimeout}

	return &Client{
		name:   name,
		apiKey: apiKey,
		model:  model,
		api:    openai.NewClientWithConfig(cfg),
	}
}

func (c *Client) Name() string { return c.name }

func (c *Client) Ready() bool { return c.apiKey != "" }

func (c *Client) Identify(ctx context.Context, img plant.ImageInput, prompt string) (*domain.DetectionResult, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   1500,
		Temperature: 0.3,
		Messages: []openai.ChatCompletionMessage{{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: prompt},
				{
					Type: openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{
						URL: imageutil.DataURL(img.MimeType, img.Data),
					},
				},
			},
		}},
	})
	if err != nil {
		return nil, c.wrapErr(err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%s: no choices in response", c.name)
	}

	return plant.ParseDetection(resp.Choices[0].Message.Content, c.name), nil
}

func (c *Client) Chat(ctx context.Context, system, message string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   1000,
		Temperature: 0.7,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: message},
		},
	})
	if err != nil {
		return "", c.wrapErr(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: no choices in response", c.name)
	}
	return resp.Choices[0].Message.Content, nil
}

// wrapErr tags 503s as the retryable model-loading condition so the
// orchestrator can log them distinctly.
func (c *Client) wrapErr(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusServiceUnavailable {
		return fmt.Errorf("%s: %w: %v", c.name, plant.ErrModelLoading, err)
	}
	return fmt.Errorf("%s: %w", c.name, err)
}
