// Package plantid adapts the Plant.id v2 identification API to the plant
// Identifier interface. Plant.id is a purpose-built botany service that
// returns structured suggestions, so no prompt or text extraction is needed.
package plantid

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ysalama/plantdoc/internal/domain"
	"github.com/ysalama/plantdoc/internal/plant"
)

const defaultBaseURL = "https://api.plant.id"

type identifyRequest struct {
	Images       []string `json:"images"`
	PlantDetails []string `json:"plant_details"`
}

type identifyResponse struct {
	IsPlant     bool `json:"is_plant"`
	Suggestions []struct {
		PlantName    string  `json:"plant_name"`
		Probability  float64 `json:"probability"`
		PlantDetails struct {
			CommonNames    []string `json:"common_names"`
			ScientificName string   `json:"scientific_name"`
			Taxonomy       struct {
				Family string `json:"family"`
			} `json:"taxonomy"`
			WikiDescription struct {
				Value string `json:"value"`
			} `json:"wiki_description"`
		} `json:"plant_details"`
	} `json:"suggestions"`
}

type Client struct {
	apiKey string
	http   *resty.Client
}

func New(apiKey string) *Client {
	httpClient := resty.New().
		SetBaseURL(defaultBaseURL).
		SetTimeout(30 * time.Second)

	return &Client{apiKey: apiKey, http: httpClient}
}

// SetBaseURL redirects requests, for tests against a fake server.
func (c *Client) SetBaseURL(u string) { c.http.SetBaseURL(u) }

func (c *Client) Name() string { return "plantid" }

func (c *Client) Ready() bool { return c.apiKey != "" }

// Identify sends the base64 image to /v2/identify. The prompt is ignored:
// Plant.id takes no instructions.
func (c *Client) Identify(ctx context.Context, img plant.ImageInput, _ string) (*domain.DetectionResult, error) {
	var out identifyResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Api-Key", c.apiKey).
		SetBody(identifyRequest{
			Images:       []string{base64.StdEncoding.EncodeToString(img.Data)},
			PlantDetails: []string{"common_names", "taxonomy", "wiki_description"},
		}).
		SetResult(&out).
		Post("/v2/identify")
	if err != nil {
		return nil, fmt.Errorf("plantid: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("plantid: status %d: %s", resp.StatusCode(), resp.String())
	}
	if len(out.Suggestions) == 0 {
		return nil, fmt.Errorf("plantid: no suggestions returned")
	}

	top := out.Suggestions[0]
	name := top.PlantName
	if len(top.PlantDetails.CommonNames) > 0 {
		name = top.PlantDetails.CommonNames[0]
	}
	if strings.TrimSpace(name) == "" {
		name = plant.DefaultPlantName
	}

	confidence := int(top.Probability * 100)
	if confidence <= 0 {
		confidence = plant.DefaultConfidence
	}

	return &domain.DetectionResult{
		Success:        true,
		PlantName:      name,
		ScientificName: top.PlantDetails.ScientificName,
		Family:         top.PlantDetails.Taxonomy.Family,
		Confidence:     confidence,
		Description:    top.PlantDetails.WikiDescription.Value,
		SourceProvider: c.Name(),
	}, nil
}
