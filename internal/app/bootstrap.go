package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"companion-chat/internal/config"
	"companion-chat/internal/domain"
	"companion-chat/internal/llm"
	"companion-chat/internal/repository"
	"companion-chat/internal/service"
	"companion-chat/internal/support"
	"companion-chat/internal/util"
)

// Deps son las piezas armadas a partir de la configuracion.
type Deps struct {
	Sessions *repository.MemorySessionStore
	LLM      llm.LLMClient
	Composer *service.ResponseComposer
	Redis    *redis.Client
}

// Close libera las conexiones abiertas.
func (d *Deps) Close() {
	if d.Redis != nil {
		_ = d.Redis.Close()
	}
}

// NewLLMClient elige el generador segun LLM_PROVIDER.
func NewLLMClient(ctx context.Context, cfg *config.Config, logger *zap.Logger) (llm.LLMClient, error) {
	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		if cfg.LLMAPIKey == "" {
			return nil, fmt.Errorf("LLM_API_KEY is required for provider %s", cfg.LLMProvider)
		}
		return llm.NewOpenAIClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel), nil
	case config.ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for provider %s", cfg.LLMProvider)
		}
		return llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	default:
		if cfg.HFAPIKey == "" {
			logger.Warn("HF_API_KEY not configured, generation requests will likely fail")
		}
		return llm.NewHFClient(cfg.HFChatModelURL, cfg.HFAPIKey, logger), nil
	}
}

// NewRedisClient devuelve nil si REDIS_ADDR no esta configurado o no responde.
func NewRedisClient(ctx context.Context, cfg *config.Config, logger *zap.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctxPing).Err(); err != nil {
		logger.Warn("redis ping failed, quote cache disabled", zap.Error(err))
		_ = client.Close()
		return nil
	}
	return client
}

// Build arma el pipeline completo. llmClient nil usa NewLLMClient.
func Build(ctx context.Context, cfg *config.Config, llmClient llm.LLMClient, logger *zap.Logger) (*Deps, error) {
	if llmClient == nil {
		c, err := NewLLMClient(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("llm client: %w", err)
		}
		llmClient = c
	}

	deps := &Deps{
		Sessions: repository.NewMemorySessionStore(),
		LLM:      llmClient,
		Redis:    NewRedisClient(ctx, cfg, logger),
	}

	var emotions llm.EmotionClassifier
	if cfg.EmotionAware {
		emotions = llm.NewHFEmotionClassifier(cfg.HFEmotionModelURL, cfg.HFAPIKey)
	}

	content := cfg.Content
	rnd := util.NewRandomRand()

	var router *service.SupportToolRouter
	if cfg.SupportToolsEnabled {
		cache := support.NewRedisQuoteCache(deps.Redis, 24*time.Hour)
		affirmations := newSupportProvider(domain.SupportAffirmation,
			support.NewAffirmationClient(cfg.AffirmationURL), orDefault(content.Affirmations, support.DefaultAffirmations),
			rnd, cache, cfg.QuoteMinInterval, logger)
		motivations := newSupportProvider(domain.SupportMotivation,
			support.NewZenQuotesClient(cfg.MotivationURL), orDefault(content.Motivations, support.DefaultMotivations),
			rnd, cache, cfg.QuoteMinInterval, logger)
		router = service.NewSupportToolRouter(content.AffirmationKeywords, content.MotivationKeywords, content.MotivationPhrases, affirmations, motivations)
	}

	deps.Composer = service.NewResponseComposer(
		deps.Sessions,
		llmClient,
		emotions,
		service.NewCrisisFilter(content.CrisisKeywords),
		service.NewOnboardingCollector(cfg.Fields, content.Greetings),
		router,
		service.NewRepetitionFilter(cfg.RepetitionThreshold),
		service.NewPromptComposer(cfg.Fields, content.Persona, cfg.EmotionAware),
		service.NewReplyPostProcessor(rnd, cfg.NameInsertionProbability, cfg.EmotionAware, content.FallbackReplies, content.FollowUps),
		service.ComposerSettings{
			HistoryLimit:      cfg.HistoryLimit,
			ProviderTimeout:   cfg.ProviderTimeout,
			CrisisMessage:     content.CrisisMessage,
			RepetitionMessage: content.RepetitionMessage,
		},
		logger,
	)
	return deps, nil
}

func newSupportProvider(kind domain.SupportKind, fetcher support.Fetcher, fallbacks []string, rnd util.Rand, cache support.QuoteCache, every time.Duration, logger *zap.Logger) support.Provider {
	opts := []support.Option{
		support.WithLogger(logger),
		support.WithFallbackHook(service.RecordSupportFallback),
	}
	if every > 0 {
		opts = append(opts, support.WithLimiter(rate.NewLimiter(rate.Every(every), 1)))
	}
	if cache != nil {
		opts = append(opts, support.WithCache(cache))
	}
	return support.NewFallbackProvider(kind, fetcher, fallbacks, rnd, opts...)
}

func orDefault(list, def []string) []string {
	if len(list) == 0 {
		return def
	}
	return list
}
