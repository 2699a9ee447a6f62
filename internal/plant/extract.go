package plant

import (
	"encoding/json"
	"strings"

	"github.com/ysalama/plantdoc/internal/domain"
)

// degradedDescriptionLimit caps how much raw model text is carried into a
// degraded result's description.
const degradedDescriptionLimit = 500

// StripCodeFences removes markdown code-fence markers around model output.
// Models frequently wrap their JSON in ```json ... ``` even when told not to.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop a language tag like "json" on the opening fence.
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		firstLine := strings.TrimSpace(s[:idx])
		if len(firstLine) <= 10 && !strings.ContainsAny(firstLine, "{}") {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ExtractJSON returns the first balanced {...} object substring in s, or
// ("", false) when none exists. Braces inside JSON strings are ignored.
// Models often embed their JSON in surrounding prose; this isolates it.
func ExtractJSON(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// detectionPayload mirrors the JSON field set the instruction prompts request.
// Confidence is a json.Number because models emit both 92 and 92.5.
type detectionPayload struct {
	PlantName        string      `json:"plant_name"`
	ScientificName   string      `json:"scientific_name"`
	Family           string      `json:"family"`
	Confidence       json.Number `json:"confidence"`
	Description      string      `json:"description"`
	CareTips         []string    `json:"care_tips"`
	InterestingFacts string      `json:"interesting_facts"`
	CommonIssues     []string    `json:"common_issues"`
	IsEdible         *bool       `json:"is_edible"`
	NativeRegion     string      `json:"native_region"`
	IsHealthy        *bool       `json:"is_healthy"`
	Disease          string      `json:"disease"`
	Severity         string      `json:"severity"`
	Treatment        string      `json:"treatment"`
	Prevention       string      `json:"prevention"`
}

// ParseDetection turns free-form model text into a DetectionResult. It strips
// code fences, extracts the first JSON object, and parses it with defaults for
// missing fields. When no parseable JSON is present it degrades to a
// description-only result rather than failing: the caller always gets a
// renderable record from a 2xx response.
func ParseDetection(raw, provider string) *domain.DetectionResult {
	text := StripCodeFences(raw)

	obj, found := ExtractJSON(text)
	if found {
		var p detectionPayload
		if err := json.Unmarshal([]byte(obj), &p); err == nil {
			return &domain.DetectionResult{
				Success:          true,
				PlantName:        valueOr(p.PlantName, DefaultPlantName),
				ScientificName:   p.ScientificName,
				Family:           p.Family,
				Confidence:       confidenceOrDefault(p.Confidence),
				Description:      p.Description,
				CareTips:         p.CareTips,
				InterestingFacts: p.InterestingFacts,
				CommonIssues:     p.CommonIssues,
				IsEdible:         p.IsEdible,
				NativeRegion:     p.NativeRegion,
				IsHealthy:        p.IsHealthy,
				Disease:          p.Disease,
				Severity:         p.Severity,
				Treatment:        p.Treatment,
				Prevention:       p.Prevention,
				SourceProvider:   provider,
			}
		}
	}

	return &domain.DetectionResult{
		Success:        true,
		PlantName:      DefaultPlantName,
		Description:    truncate(text, degradedDescriptionLimit),
		Confidence:     DefaultConfidence,
		SourceProvider: provider,
	}
}

func confidenceOrDefault(n json.Number) int {
	if n.String() == "" {
		return DefaultConfidence
	}
	f, err := n.Float64()
	if err != nil {
		return DefaultConfidence
	}
	c := int(f)
	switch {
	case c < 0:
		return 0
	case c > 100:
		return 100
	}
	return c
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
