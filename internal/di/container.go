package di

import (
	"log/slog"
	"time"

	"noon-assistant/internal/adapter/assistant_http"
	"noon-assistant/internal/adapter/catalog"
	"noon-assistant/internal/adapter/llm"
	"noon-assistant/internal/adapter/transcribe"
	"noon-assistant/internal/domain"
	"noon-assistant/internal/infra/config"
	"noon-assistant/internal/infra/httpclient"
	"noon-assistant/internal/usecase"
)

// ApplicationComponents holds all wired dependencies for the application.
type ApplicationComponents struct {
	Planner          domain.LLMClient
	JudgeLLM         domain.LLMClient
	CatalogClient    domain.CatalogClient
	Transcriber      domain.Transcriber
	RecommendUsecase usecase.RecommendProductsUsecase
	Handler          *assistant_http.Handler
}

// NewApplicationComponents wires all dependencies from config.
func NewApplicationComponents(cfg *config.Config, log *slog.Logger) *ApplicationComponents {
	// Shared HTTP clients with connection pooling
	llmHTTP := httpclient.NewPooledClient(time.Duration(cfg.LLM.Timeout) * time.Second)
	catalogHTTP := httpclient.NewPooledClient(time.Duration(cfg.Catalog.Timeout) * time.Second)
	whisperHTTP := httpclient.NewPooledClient(time.Duration(cfg.Whisper.Timeout) * time.Second)

	// External clients. Planner and judge hit the same endpoint with
	// different models: the planner needs the stronger model, judging is a
	// cheap binary classification.
	planner := llm.NewChatClient(cfg.LLM.URL, cfg.LLM.PlannerModel, cfg.LLM.APIKey,
		time.Duration(cfg.LLM.Timeout)*time.Second, log, llmHTTP)
	judgeLLM := llm.NewChatClient(cfg.LLM.URL, cfg.LLM.JudgeModel, cfg.LLM.APIKey,
		time.Duration(cfg.LLM.Timeout)*time.Second, log, llmHTTP)

	catalogClient := catalog.NewClient(catalog.Config{
		BaseURL:   cfg.Catalog.URL,
		Country:   cfg.Catalog.Country,
		Limit:     cfg.Catalog.Limit,
		CacheSize: cfg.Catalog.CacheSize,
		CacheTTL:  time.Duration(cfg.Catalog.CacheTTL) * time.Minute,
	}, time.Duration(cfg.Catalog.Timeout)*time.Second, log, catalogHTTP)

	// Constructed once at startup and injected, never lazily initialized.
	transcriber := transcribe.NewWhisperClient(cfg.Whisper.URL,
		time.Duration(cfg.Whisper.Timeout)*time.Second, log, whisperHTTP)

	// Pipeline
	parser := usecase.NewPlanParser(log)
	judge := usecase.NewRelevanceJudge(judgeLLM, cfg.LLM.JudgeMaxTokens, log)
	recommendUsecase := usecase.NewRecommendProductsUsecase(
		planner, usecase.NewPlanPromptBuilder(), parser, catalogClient, judge,
		cfg.LLM.PlanMaxTokens, log,
	)

	handler := assistant_http.NewHandler(recommendUsecase, transcriber, log)

	return &ApplicationComponents{
		Planner:          planner,
		JudgeLLM:         judgeLLM,
		CatalogClient:    catalogClient,
		Transcriber:      transcriber,
		RecommendUsecase: recommendUsecase,
		Handler:          handler,
	}
}
