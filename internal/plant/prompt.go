package plant

import (
	"fmt"
	"strings"

	"github.com/ysalama/plantdoc/internal/domain"
)

// IdentifyPrompt asks a vision model for the fixed identification field set.
// Every identify adapter sends this same instruction; only the surrounding
// wire shape differs per provider.
const IdentifyPrompt = `Analyze this plant image and provide detailed identification.

Please provide your response in this EXACT JSON format (make sure it's valid JSON):
{
    "plant_name": "Common name of the plant",
    "scientific_name": "Genus species",
    "family": "Plant family",
    "confidence": 95,
    "description": "Brief 2-3 sentence description of the plant",
    "care_tips": ["Watering: tip here", "Sunlight: tip here", "Soil: tip here"],
    "interesting_facts": "One interesting fact about this plant",
    "common_issues": ["Common disease or problem", "Another issue"],
    "is_edible": true,
    "native_region": "Geographic region"
}

Be specific and accurate. If you're not certain about the exact species, provide
your best identification with appropriate confidence level (0-100).`

// DiagnosePrompt asks a vision model for a plant health assessment.
const DiagnosePrompt = `Examine this plant photo for signs of disease, pests, or stress.

Please provide your response in this EXACT JSON format (make sure it's valid JSON):
{
    "plant_name": "Common name of the plant",
    "scientific_name": "Genus species",
    "confidence": 90,
    "is_healthy": false,
    "disease": "Name of the disease or problem, empty if healthy",
    "severity": "mild | moderate | severe",
    "description": "What you observe on the plant",
    "treatment": "Recommended treatment steps",
    "prevention": "How to prevent recurrence"
}

If the plant looks healthy, set is_healthy to true and leave disease empty.`

const chatBasePrompt = `You are a helpful plant expert assistant with extensive knowledge of botany, horticulture, and plant care.

Provide accurate, practical advice about plant identification, care, diseases, and gardening. Be friendly, conversational, and concise. Focus on actionable tips.`

// ChatSystemPrompt builds the instruction prompt for a chat turn. When pctx is
// non-nil the current plant's identity (and health findings, when present) are
// injected so advice is contextualized.
func ChatSystemPrompt(pctx *domain.PlantContext) string {
	if pctx == nil {
		return chatBasePrompt
	}

	var b strings.Builder
	b.WriteString(chatBasePrompt)
	b.WriteString("\n\nCurrent plant context:\n")
	fmt.Fprintf(&b, "- Plant: %s\n", valueOr(pctx.PlantName, "Unknown"))
	fmt.Fprintf(&b, "- Scientific Name: %s\n", valueOr(pctx.ScientificName, "N/A"))
	fmt.Fprintf(&b, "- Family: %s\n", valueOr(pctx.Family, "N/A"))
	if pctx.HealthStatus != "" {
		fmt.Fprintf(&b, "- Health: %s\n", pctx.HealthStatus)
	}
	if pctx.Disease != "" {
		fmt.Fprintf(&b, "- Diagnosed issue: %s\n", pctx.Disease)
	}
	b.WriteString("\nTailor your advice to this plant.")
	return b.String()
}

func valueOr(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
