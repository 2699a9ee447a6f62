package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "/data/plantdoc.db", cfg.DBPath)
	assert.Equal(t, "/data/photos", cfg.PhotoPath)
	assert.Equal(t, "info", cfg.LogLevel)

	assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
	assert.Equal(t, "gemini-1.5-flash", cfg.GeminiModel)
	assert.Equal(t, "claude-3-5-haiku-20241022", cfg.ClaudeModel)

	assert.Equal(t,
		[]string{"openai", "gemini", "claude", "groq", "mistral", "together", "plantid", "huggingface"},
		cfg.IdentifyOrder)
	assert.Equal(t,
		[]string{"openai", "groq", "mistral", "gemini", "claude", "together"},
		cfg.ChatOrder)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9090")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_MODEL", "gpt-4o")
	t.Setenv("IDENTIFY_PROVIDERS", "gemini, openai")
	t.Setenv("HUGGINGFACE_MODELS", "google/vit-base-patch16-224 , microsoft/resnet-50")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
	assert.Equal(t, "gpt-4o", cfg.OpenAIModel)
	assert.Equal(t, []string{"gemini", "openai"}, cfg.IdentifyOrder)
	assert.Equal(t, []string{"google/vit-base-patch16-224", "microsoft/resnet-50"}, cfg.HuggingFaceModels)
}

func TestSplitList(t *testing.T) {
	assert.Empty(t, splitList(""))
	assert.Equal(t, []string{"a"}, splitList("a"))
	assert.Equal(t, []string{"a", "b"}, splitList("a, ,b,"))
}
