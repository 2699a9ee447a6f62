package domain

import "time"

// DetectionResult is the normalized output of a plant identification or
// health-check call, whatever provider produced it.
type DetectionResult struct {
	Success          bool     `json:"success"`
	PlantName        string   `json:"plant_name"`
	ScientificName   string   `json:"scientific_name"`
	Family           string   `json:"family"`
	Confidence       int      `json:"confidence"`
	Description      string   `json:"description"`
	CareTips         []string `json:"care_tips,omitempty"`
	InterestingFacts string   `json:"interesting_facts,omitempty"`
	CommonIssues     []string `json:"common_issues,omitempty"`
	IsEdible         *bool    `json:"is_edible,omitempty"`
	NativeRegion     string   `json:"native_region,omitempty"`

	// Health-check fields, populated only by a diagnose call.
	IsHealthy  *bool  `json:"is_healthy,omitempty"`
	Disease    string `json:"disease,omitempty"`
	Severity   string `json:"severity,omitempty"`
	Treatment  string `json:"treatment,omitempty"`
	Prevention string `json:"prevention,omitempty"`

	SourceProvider string `json:"source_provider"`
	ErrorMessage   string `json:"error_message,omitempty"`
}

// PlantContext is the stable subset of the most recent successful detection
// that gets injected into chat prompts. One per session; a new identification
// replaces the previous context.
type PlantContext struct {
	PlantName      string `json:"plant_name"`
	ScientificName string `json:"scientific_name"`
	Family         string `json:"family"`
	Confidence     int    `json:"confidence"`
	HealthStatus   string `json:"health_status,omitempty"`
	Disease        string `json:"disease,omitempty"`
}

// ChatMessage is one turn of the locally kept conversation.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Detection kinds recorded in history.
const (
	KindIdentification = "identification"
	KindDisease        = "disease"
)

// DetectionRecord is one row of the per-session detection history,
// listed most-recent-first.
type DetectionRecord struct {
	ID             int64     `json:"id"`
	SessionID      string    `json:"-"`
	PlantName      string    `json:"plant_name"`
	ScientificName string    `json:"scientific_name"`
	Kind           string    `json:"kind"`
	Disease        string    `json:"disease,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
