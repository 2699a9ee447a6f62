package plant

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{
			name:     "json fence",
			in:       "```json\n{\"a\":1}\n```",
			expected: "{\"a\":1}",
		},
		{
			name:     "bare fence",
			in:       "```\n{\"a\":1}\n```",
			expected: "{\"a\":1}",
		},
		{
			name:     "no fence",
			in:       "{\"a\":1}",
			expected: "{\"a\":1}",
		},
		{
			name:     "fence on same line as content",
			in:       "```{\"a\":1}```",
			expected: "{\"a\":1}",
		},
		{
			name:     "plain prose untouched",
			in:       "This is a tomato plant.",
			expected: "This is a tomato plant.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripCodeFences(tt.in))
		})
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
		found    bool
	}{
		{
			name:     "bare object",
			in:       `{"plant_name":"Rose"}`,
			expected: `{"plant_name":"Rose"}`,
			found:    true,
		},
		{
			name:     "object in prose",
			in:       `Sure! Here is the data: {"plant_name":"Rose"} hope that helps.`,
			expected: `{"plant_name":"Rose"}`,
			found:    true,
		},
		{
			name:     "nested objects",
			in:       `{"a":{"b":2},"c":3} trailing`,
			expected: `{"a":{"b":2},"c":3}`,
			found:    true,
		},
		{
			name:     "braces inside strings ignored",
			in:       `{"description":"use {curly} braces"} done`,
			expected: `{"description":"use {curly} braces"}`,
			found:    true,
		},
		{
			name:  "no object",
			in:    "I cannot identify this plant.",
			found: false,
		},
		{
			name:  "unbalanced object",
			in:    `{"plant_name":"Rose"`,
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := ExtractJSON(tt.in)
			assert.Equal(t, tt.found, found)
			if tt.found {
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}

func TestParseDetectionFencedJSONInProse(t *testing.T) {
	raw := "Here is what I found:\n```json\n{\"plant_name\":\"Aloe Vera\",\"confidence\":92}\n```\nLet me know if you need more."

	result := ParseDetection(raw, "openai")

	require.True(t, result.Success)
	assert.Equal(t, "Aloe Vera", result.PlantName)
	assert.Equal(t, 92, result.Confidence)
	assert.Equal(t, "openai", result.SourceProvider)
}

func TestParseDetectionFullFieldSet(t *testing.T) {
	raw := `{
		"plant_name": "Tomato",
		"scientific_name": "Solanum lycopersicum",
		"family": "Solanaceae",
		"confidence": 97,
		"description": "A widely cultivated vegetable.",
		"care_tips": ["Watering: keep soil moist", "Sunlight: full sun"],
		"interesting_facts": "Botanically a fruit.",
		"common_issues": ["Blight", "Aphids"],
		"is_edible": true,
		"native_region": "South America"
	}`

	result := ParseDetection(raw, "gemini")

	require.True(t, result.Success)
	assert.Equal(t, "Tomato", result.PlantName)
	assert.Equal(t, "Solanum lycopersicum", result.ScientificName)
	assert.Equal(t, "Solanaceae", result.Family)
	assert.Equal(t, 97, result.Confidence)
	assert.Equal(t, []string{"Watering: keep soil moist", "Sunlight: full sun"}, result.CareTips)
	assert.Equal(t, []string{"Blight", "Aphids"}, result.CommonIssues)
	require.NotNil(t, result.IsEdible)
	assert.True(t, *result.IsEdible)
	assert.Equal(t, "South America", result.NativeRegion)
}

func TestParseDetectionDegradesToText(t *testing.T) {
	raw := strings.Repeat("This looks like some kind of succulent. ", 20)

	result := ParseDetection(raw, "groq")

	require.True(t, result.Success)
	assert.Equal(t, DefaultPlantName, result.PlantName)
	assert.Equal(t, DefaultConfidence, result.Confidence)
	assert.Len(t, []rune(result.Description), 500)
	assert.Equal(t, string([]rune(raw)[:500]), result.Description)
}

func TestParseDetectionShortTextKeptWhole(t *testing.T) {
	result := ParseDetection("A small cactus.", "claude")

	assert.Equal(t, DefaultPlantName, result.PlantName)
	assert.Equal(t, "A small cactus.", result.Description)
	assert.Equal(t, DefaultConfidence, result.Confidence)
}

func TestParseDetectionDefaults(t *testing.T) {
	tests := []struct {
		name           string
		raw            string
		wantName       string
		wantConfidence int
	}{
		{
			name:           "missing plant name",
			raw:            `{"confidence": 60}`,
			wantName:       DefaultPlantName,
			wantConfidence: 60,
		},
		{
			name:           "missing confidence",
			raw:            `{"plant_name":"Basil"}`,
			wantName:       "Basil",
			wantConfidence: DefaultConfidence,
		},
		{
			name:           "float confidence truncated",
			raw:            `{"plant_name":"Basil","confidence":91.7}`,
			wantName:       "Basil",
			wantConfidence: 91,
		},
		{
			name:           "confidence clamped high",
			raw:            `{"plant_name":"Basil","confidence":150}`,
			wantName:       "Basil",
			wantConfidence: 100,
		},
		{
			name:           "malformed json degrades",
			raw:            `{"plant_name": Basil}`,
			wantName:       DefaultPlantName,
			wantConfidence: DefaultConfidence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseDetection(tt.raw, "test")
			assert.Equal(t, tt.wantName, result.PlantName)
			assert.Equal(t, tt.wantConfidence, result.Confidence)
		})
	}
}

func TestParseDetectionHealthFields(t *testing.T) {
	raw := `{"plant_name":"Tomato","is_healthy":false,"disease":"Early blight","severity":"moderate","treatment":"Remove affected leaves","prevention":"Water at the base"}`

	result := ParseDetection(raw, "openai")

	require.NotNil(t, result.IsHealthy)
	assert.False(t, *result.IsHealthy)
	assert.Equal(t, "Early blight", result.Disease)
	assert.Equal(t, "moderate", result.Severity)
	assert.Equal(t, "Remove affected leaves", result.Treatment)
	assert.Equal(t, "Water at the base", result.Prevention)
}
