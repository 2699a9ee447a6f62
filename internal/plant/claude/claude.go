// Package claude adapts the Anthropic Messages API to the plant provider
// interfaces.
package claude

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/ysalama/plantdoc/internal/domain"
	"github.com/ysalama/plantdoc/internal/plant"
)

// requestTimeout bounds each API call so a stalled endpoint fails over to the
// next provider instead of blocking the chain. Variable so tests can shorten it.
var requestTimeout = 60 * time.Second

type Client struct {
	apiKey string
	model  string
	api    *anthropic.Client
}

// New builds a Claude adapter. Extra client options are accepted so tests can
// point the client at a fake server; they are applied after the defaults and
// may override them.
func New(apiKey, model string, opts ...anthropic.ClientOption) *Client {
	opts = append([]anthropic.ClientOption{
		anthropic.WithHTTPClient(&http.Client{Timeout: requestTimeout}),
	}, opts...)

	return &Client{
		apiKey: apiKey,
		model:  model,
		api:    anthropic.NewClient(apiKey, opts...),
	}
}

func (c *Client) Name() string { return "claude" }

func (c *Client) Ready() bool { return c.apiKey != "" }

func (c *Client) Identify(ctx context.Context, img plant.ImageInput, prompt string) (*domain.DetectionResult, error) {
	resp, err := c.api.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(c.model),
		MaxTokens: 1500,
		Messages: []anthropic.Message{{
			Role: anthropic.RoleUser,
			Content: []anthropic.MessageContent{
				anthropic.NewImageMessageContent(anthropic.NewMessageContentSource(
					anthropic.MessagesContentSourceTypeBase64, img.MimeType, img.Data)),
				anthropic.NewTextMessageContent(prompt),
			},
		}},
	})
	if err != nil {
		return nil, c.wrapErr(err)
	}

	text := resp.GetFirstContentText()
	if text == "" {
		return nil, errors.New("claude: empty response")
	}
	return plant.ParseDetection(text, c.Name()), nil
}

func (c *Client) Chat(ctx context.Context, system, message string) (string, error) {
	resp, err := c.api.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(c.model),
		MaxTokens: 1000,
		System:    system,
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(message),
		},
	})
	if err != nil {
		return "", c.wrapErr(err)
	}
	return resp.GetFirstContentText(), nil
}

// wrapErr tags overloaded/503 responses as the retryable model-loading
// condition. The SDK reports decodable error bodies as *APIError and
// everything else as *RequestError.
func (c *Client) wrapErr(err error) error {
	var apiErr *anthropic.APIError
	if errors.As(err, &apiErr) && apiErr.IsOverloadedErr() {
		return fmt.Errorf("claude: %w: %v", plant.ErrModelLoading, err)
	}
	var reqErr *anthropic.RequestError
	if errors.As(err, &reqErr) && reqErr.StatusCode == http.StatusServiceUnavailable {
		return fmt.Errorf("claude: %w: %v", plant.ErrModelLoading, err)
	}
	return fmt.Errorf("claude: %w", err)
}
