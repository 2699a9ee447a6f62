// Package gemini adapts Google's Gemini API to the plant provider interfaces.
package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/ysalama/plantdoc/internal/domain"
	"github.com/ysalama/plantdoc/internal/plant"
)

const requestTimeout = 60 * time.Second

type Client struct {
	apiKey string
	model  string
	opts   []option.ClientOption
}

// New builds a Gemini adapter. Extra client options are accepted so tests can
// redirect the endpoint.
func New(apiKey, model string, opts ...option.ClientOption) *Client {
	return &Client{
		apiKey: strings.TrimSpace(apiKey),
		model:  model,
		opts:   opts,
	}
}

func (c *Client) Name() string { return "gemini" }

func (c *Client) Ready() bool { return c.apiKey != "" }

func (c *Client) Identify(ctx context.Context, img plant.ImageInput, prompt string) (*domain.DetectionResult, error) {
	text, err := c.generate(ctx, "", []genai.Part{
		genai.Text(prompt),
		&genai.Blob{MIMEType: img.MimeType, Data: img.Data},
	}, 0.3)
	if err != nil {
		return nil, err
	}
	return plant.ParseDetection(text, c.Name()), nil
}

func (c *Client) Chat(ctx context.Context, system, message string) (string, error) {
	return c.generate(ctx, system, []genai.Part{genai.Text(message)}, 0.7)
}

func (c *Client) generate(ctx context.Context, system string, parts []genai.Part, temperature float32) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	opts := append([]option.ClientOption{option.WithAPIKey(c.apiKey)}, c.opts...)
	cl, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	defer cl.Close()

	m := cl.GenerativeModel(c.model)
	m.GenerationConfig = genai.GenerationConfig{Temperature: &temperature}
	if system != "" {
		m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}

	resp, err := m.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}

	text := firstText(resp)
	if text == "" {
		return "", fmt.Errorf("gemini: empty response")
	}
	return text, nil
}

// firstText concatenates the text parts of the first candidate.
func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String()
}
