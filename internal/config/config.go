package config

import (
	"os"
	"strings"
)

// Config is loaded once at process start from the environment and treated as
// read-only afterwards. Every provider key is optional; a provider without a
// key is excluded from the fallback candidate lists.
type Config struct {
	ListenAddr string
	DBPath     string
	PhotoPath  string
	LogLevel   string
	LogFile    string

	OpenAIAPIKey string
	OpenAIModel  string

	GroqAPIKey string
	GroqModel  string

	MistralAPIKey string
	MistralModel  string

	TogetherAPIKey string
	TogetherModel  string

	GeminiAPIKey string
	GeminiModel  string

	ClaudeAPIKey string
	ClaudeModel  string

	HuggingFaceAPIKey string
	HuggingFaceModels []string

	PlantIDAPIKey string

	// Provider priority orders, comma-separated names. Sequential by design:
	// preferred providers go first and only the minimum necessary external
	// calls are made.
	IdentifyOrder []string
	ChatOrder     []string
}

func Load() *Config {
	return &Config{
		ListenAddr: getEnv("LISTEN_ADDR", ":8080"),
		DBPath:     getEnv("DB_PATH", "/data/plantdoc.db"),
		PhotoPath:  getEnv("PHOTO_PATH", "/data/photos"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFile:    getEnv("LOG_FILE", ""),

		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		GroqAPIKey: getEnv("GROQ_API_KEY", ""),
		GroqModel:  getEnv("GROQ_MODEL", "llama-3.2-11b-vision-preview"),

		MistralAPIKey: getEnv("MISTRAL_API_KEY", ""),
		MistralModel:  getEnv("MISTRAL_MODEL", "pixtral-12b-2409"),

		TogetherAPIKey: getEnv("TOGETHER_API_KEY", ""),
		TogetherModel:  getEnv("TOGETHER_MODEL", "meta-llama/Llama-Vision-Free"),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-1.5-flash"),

		ClaudeAPIKey: getEnv("CLAUDE_API_KEY", ""),
		ClaudeModel:  getEnv("CLAUDE_MODEL", "claude-3-5-haiku-20241022"),

		HuggingFaceAPIKey: getEnv("HUGGINGFACE_API_KEY", ""),
		HuggingFaceModels: splitList(getEnv("HUGGINGFACE_MODELS", "")),

		PlantIDAPIKey: getEnv("PLANTID_API_KEY", ""),

		IdentifyOrder: splitList(getEnv("IDENTIFY_PROVIDERS",
			"openai,gemini,claude,groq,mistral,together,plantid,huggingface")),
		ChatOrder: splitList(getEnv("CHAT_PROVIDERS",
			"openai,groq,mistral,gemini,claude,together")),
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
