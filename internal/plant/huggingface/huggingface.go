// Package huggingface adapts the Hugging Face Inference API
// image-classification task to the plant Identifier interface. The API
// returns a label+score list rather than model prose, so no text extraction
// is involved; the top labels are normalized into a DetectionResult directly.
package huggingface

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ysalama/plantdoc/internal/domain"
	"github.com/ysalama/plantdoc/internal/plant"
)

const defaultBaseURL = "https://api-inference.huggingface.co"

// DefaultModels are the classification models tried in order. A model that is
// still loading (503) is skipped for the next one in the list.
var DefaultModels = []string{
	"google/vit-base-patch16-224",
	"microsoft/resnet-50",
}

type classification struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type Client struct {
	apiKey string
	models []string
	http   *resty.Client
}

func New(apiKey string, models []string) *Client {
	if len(models) == 0 {
		models = DefaultModels
	}
	httpClient := resty.New().
		SetBaseURL(defaultBaseURL).
		SetTimeout(45 * time.Second)

	return &Client{
		apiKey: apiKey,
		models: models,
		http:   httpClient,
	}
}

// SetBaseURL redirects requests, for tests against a fake server.
func (c *Client) SetBaseURL(u string) { c.http.SetBaseURL(u) }

func (c *Client) Name() string { return "huggingface" }

func (c *Client) Ready() bool { return c.apiKey != "" }

// Identify posts the raw image to each candidate model in turn. The prompt is
// ignored: classification models take no instructions. All candidates still
// loading is reported as ErrModelLoading so the orchestrator logs it as
// transient before moving on.
func (c *Client) Identify(ctx context.Context, img plant.ImageInput, _ string) (*domain.DetectionResult, error) {
	var lastErr error

	for _, model := range c.models {
		var labels []classification
		resp, err := c.http.R().
			SetContext(ctx).
			SetHeader("Authorization", "Bearer "+c.apiKey).
			SetHeader("Content-Type", "application/octet-stream").
			SetBody(img.Data).
			SetResult(&labels).
			Post("/models/" + model)
		if err != nil {
			lastErr = fmt.Errorf("huggingface %s: %w", model, err)
			continue
		}
		if resp.StatusCode() == http.StatusServiceUnavailable {
			lastErr = fmt.Errorf("huggingface %s: %w", model, plant.ErrModelLoading)
			continue
		}
		if !resp.IsSuccess() {
			lastErr = fmt.Errorf("huggingface %s: status %d: %s", model, resp.StatusCode(), resp.String())
			continue
		}
		if len(labels) == 0 {
			lastErr = fmt.Errorf("huggingface %s: empty classification", model)
			continue
		}

		return c.toResult(labels), nil
	}

	return nil, lastErr
}

func (c *Client) toResult(labels []classification) *domain.DetectionResult {
	top := labels[0]

	names := make([]string, 0, len(labels))
	for i, l := range labels {
		if i >= 3 {
			break
		}
		names = append(names, fmt.Sprintf("%s (%.0f%%)", cleanLabel(l.Label), l.Score*100))
	}

	confidence := int(top.Score * 100)
	if confidence <= 0 {
		confidence = plant.DefaultConfidence
	}

	return &domain.DetectionResult{
		Success:        true,
		PlantName:      cleanLabel(top.Label),
		Confidence:     confidence,
		Description:    "Image classification matches: " + strings.Join(names, ", "),
		SourceProvider: c.Name(),
	}
}

// cleanLabel tidies ImageNet-style labels ("daisy, Bellis perennis" or
// "pot_plant") into a display name.
func cleanLabel(label string) string {
	if idx := strings.IndexByte(label, ','); idx >= 0 {
		label = label[:idx]
	}
	label = strings.ReplaceAll(label, "_", " ")
	label = strings.TrimSpace(label)
	if label == "" {
		return plant.DefaultPlantName
	}
	return strings.ToUpper(label[:1]) + label[1:]
}
