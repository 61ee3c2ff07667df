package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"

	"companion-chat/internal/domain"
)

const (
	ProviderHuggingFace = "huggingface"
	ProviderOpenAI      = "openai"
	ProviderGemini      = "gemini"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8000"`

	LLMProvider              string        `env:"LLM_PROVIDER" envDefault:"huggingface"`
	HFAPIKey                 string        `env:"HF_API_KEY"`
	HFChatModelURL           string        `env:"HF_CHAT_MODEL_URL" envDefault:"https://api-inference.huggingface.co/models/HuggingFaceH4/zephyr-7b-beta"`
	HFEmotionModelURL        string        `env:"HF_EMOTION_MODEL_URL" envDefault:"https://api-inference.huggingface.co/models/j-hartmann/emotion-english-distilroberta-base"`
	LLMAPIKey                string        `env:"LLM_API_KEY"`
	LLMBaseURL               string        `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMModel                 string        `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	GeminiAPIKey             string        `env:"GEMINI_API_KEY"`
	GeminiModel              string        `env:"GEMINI_MODEL" envDefault:"gemini-2.0-flash"`
	OnboardingFields         []string      `env:"ONBOARDING_FIELDS" envSeparator:"," envDefault:"name,age,reason"`
	EmotionAware             bool          `env:"EMOTION_AWARE" envDefault:"true"`
	SupportToolsEnabled      bool          `env:"SUPPORT_TOOLS_ENABLED" envDefault:"true"`
	HistoryLimit             int           `env:"HISTORY_LIMIT" envDefault:"5"`
	RepetitionThreshold      float64       `env:"REPETITION_THRESHOLD" envDefault:"0.9"`
	NameInsertionProbability float64       `env:"NAME_INSERTION_PROBABILITY" envDefault:"0.3"`
	ProviderTimeout          time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"10s"`

	AffirmationURL   string        `env:"AFFIRMATION_URL" envDefault:"https://www.affirmations.dev/"`
	MotivationURL    string        `env:"MOTIVATION_URL" envDefault:"https://zenquotes.io/api/random"`
	QuoteMinInterval time.Duration `env:"QUOTE_MIN_INTERVAL" envDefault:"6s"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	ContentFile string `env:"CONTENT_FILE"`

	// Campos derivados.
	Fields  []domain.OnboardingField
	Content Content
}

// Content reemplaza los textos y listas de keywords por defecto. Las listas vacias
// mantienen los valores incorporados.
type Content struct {
	CrisisKeywords      []string `yaml:"crisis_keywords"`
	CrisisMessage       string   `yaml:"crisis_message"`
	RepetitionMessage   string   `yaml:"repetition_message"`
	AffirmationKeywords []string `yaml:"affirmation_keywords"`
	MotivationKeywords  []string `yaml:"motivation_keywords"`
	MotivationPhrases   []string `yaml:"motivation_phrases"`
	Greetings           []string `yaml:"greetings"`
	FallbackReplies     []string `yaml:"fallback_replies"`
	FollowUps           []string `yaml:"follow_ups"`
	Affirmations        []string `yaml:"affirmations"`
	Motivations         []string `yaml:"motivations"`
	Persona             string   `yaml:"persona"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) finish() error {
	c.LLMProvider = strings.ToLower(strings.TrimSpace(c.LLMProvider))
	switch c.LLMProvider {
	case ProviderHuggingFace, ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("LLM_PROVIDER: unsupported provider %q", c.LLMProvider)
	}

	fields, err := domain.ParseOnboardingFields(c.OnboardingFields)
	if err != nil {
		return fmt.Errorf("ONBOARDING_FIELDS: %w", err)
	}
	c.Fields = fields

	if c.RepetitionThreshold <= 0 || c.RepetitionThreshold > 1 {
		return fmt.Errorf("REPETITION_THRESHOLD must be in (0, 1], got %v", c.RepetitionThreshold)
	}
	if c.NameInsertionProbability < 0 || c.NameInsertionProbability > 1 {
		return fmt.Errorf("NAME_INSERTION_PROBABILITY must be in [0, 1], got %v", c.NameInsertionProbability)
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("HISTORY_LIMIT must be positive, got %d", c.HistoryLimit)
	}

	if c.ContentFile != "" {
		content, err := LoadContent(c.ContentFile)
		if err != nil {
			return err
		}
		c.Content = content
	}
	return nil
}

// LoadContent lee el archivo YAML de contenido.
func LoadContent(path string) (Content, error) {
	var content Content
	data, err := os.ReadFile(path)
	if err != nil {
		return content, fmt.Errorf("read content file: %w", err)
	}
	if err := yaml.Unmarshal(data, &content); err != nil {
		return content, fmt.Errorf("parse content file %s: %w", path, err)
	}
	return content, nil
}
