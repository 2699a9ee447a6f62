package main

import (
	"log"
	"log/slog"

	"github.com/ysalama/plantdoc/internal/config"
	"github.com/ysalama/plantdoc/internal/db"
	"github.com/ysalama/plantdoc/internal/logging"
	"github.com/ysalama/plantdoc/internal/photostore/local"
	"github.com/ysalama/plantdoc/internal/plant"
	claudeprovider "github.com/ysalama/plantdoc/internal/plant/claude"
	geminiprovider "github.com/ysalama/plantdoc/internal/plant/gemini"
	"github.com/ysalama/plantdoc/internal/plant/huggingface"
	"github.com/ysalama/plantdoc/internal/plant/openaicompat"
	"github.com/ysalama/plantdoc/internal/plant/plantid"
	"github.com/ysalama/plantdoc/internal/service"
	"github.com/ysalama/plantdoc/internal/session"
	"github.com/ysalama/plantdoc/internal/store"
	"github.com/ysalama/plantdoc/internal/web"
)

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	photoStg, err := local.NewLocalPhotoStore(cfg.PhotoPath)
	if err != nil {
		logger.Error("failed to initialize photo store", "error", err)
		return
	}

	fallback := buildFallback(cfg, logger)
	if ids := fallback.IdentifierNames(); len(ids) == 0 {
		logger.Warn("no identification provider configured, uploads will fail until an API key is set")
	} else {
		logger.Info("identification providers ready", "providers", ids)
	}
	if chs := fallback.ChatterNames(); len(chs) == 0 {
		logger.Warn("no chat provider configured, chat will return guidance only")
	} else {
		logger.Info("chat providers ready", "providers", chs)
	}

	historyStore := store.NewHistoryStore(database)
	plantService := service.NewPlantService(fallback, historyStore, photoStg, logger)
	server := web.NewServer(plantService, session.NewManager(), logger)

	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}

// buildFallback assembles the provider adapters in the configured priority
// orders. Every adapter is constructed; ones without credentials report
// themselves not ready and are skipped by the orchestrator.
func buildFallback(cfg *config.Config, logger *slog.Logger) *plant.Fallback {
	openaiClient := openaicompat.New("openai", cfg.OpenAIAPIKey, "", cfg.OpenAIModel)
	groqClient := openaicompat.New("groq", cfg.GroqAPIKey, "https://api.groq.com/openai/v1", cfg.GroqModel)
	mistralClient := openaicompat.New("mistral", cfg.MistralAPIKey, "https://api.mistral.ai/v1", cfg.MistralModel)
	togetherClient := openaicompat.New("together", cfg.TogetherAPIKey, "https://api.together.xyz/v1", cfg.TogetherModel)
	geminiClient := geminiprovider.New(cfg.GeminiAPIKey, cfg.GeminiModel)
	claudeClient := claudeprovider.New(cfg.ClaudeAPIKey, cfg.ClaudeModel)
	hfClient := huggingface.New(cfg.HuggingFaceAPIKey, cfg.HuggingFaceModels)
	plantidClient := plantid.New(cfg.PlantIDAPIKey)

	identifierByName := map[string]plant.Identifier{
		"openai":      openaiClient,
		"groq":        groqClient,
		"mistral":     mistralClient,
		"together":    togetherClient,
		"gemini":      geminiClient,
		"claude":      claudeClient,
		"huggingface": hfClient,
		"plantid":     plantidClient,
	}
	chatterByName := map[string]plant.Chatter{
		"openai":   openaiClient,
		"groq":     groqClient,
		"mistral":  mistralClient,
		"together": togetherClient,
		"gemini":   geminiClient,
		"claude":   claudeClient,
	}

	var identifiers []plant.Identifier
	for _, name := range cfg.IdentifyOrder {
		p, ok := identifierByName[name]
		if !ok {
			logger.Warn("unknown identify provider in configuration", "provider", name)
			continue
		}
		identifiers = append(identifiers, p)
	}

	var chatters []plant.Chatter
	for _, name := range cfg.ChatOrder {
		p, ok := chatterByName[name]
		if !ok {
			logger.Warn("unknown chat provider in configuration", "provider", name)
			continue
		}
		chatters = append(chatters, p)
	}

	return plant.NewFallback(identifiers, chatters, logger)
}
