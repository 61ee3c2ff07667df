package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"companion-chat/internal/domain"
	"companion-chat/internal/llm"
	"companion-chat/internal/repository"
)

// ErrEmptyMessage es un error del cliente: el mensaje esta vacio.
var ErrEmptyMessage = errors.New("message is required")

const DefaultProviderTimeout = 10 * time.Second

// ComposerSettings agrupa los parametros de ejecucion del pipeline.
type ComposerSettings struct {
	HistoryLimit      int
	ProviderTimeout   time.Duration
	Params            llm.GenerationParams
	CrisisMessage     string
	RepetitionMessage string
}

// Turn describe como se resolvio un mensaje.
type Turn struct {
	Reply   string
	Outcome string
	Emotion domain.Emotion
}

// ResponseComposer orquesta crisis -> onboarding -> apoyo -> repeticion -> generacion.
type ResponseComposer struct {
	sessions   repository.SessionStore
	llmClient  llm.LLMClient
	emotions   llm.EmotionClassifier
	crisis     CrisisFilter
	onboarding OnboardingCollector
	router     *SupportToolRouter
	repetition RepetitionFilter
	prompts    PromptComposer
	post       ReplyPostProcessor
	settings   ComposerSettings
	logger     *zap.Logger
}

// NewResponseComposer construye el pipeline. router nil desactiva las herramientas de
// apoyo; emotions nil usa siempre "neutral" cuando el prompt es emotion-aware.
func NewResponseComposer(
	sessions repository.SessionStore,
	llmClient llm.LLMClient,
	emotions llm.EmotionClassifier,
	crisis CrisisFilter,
	onboarding OnboardingCollector,
	router *SupportToolRouter,
	repetition RepetitionFilter,
	prompts PromptComposer,
	post ReplyPostProcessor,
	settings ComposerSettings,
	logger *zap.Logger,
) *ResponseComposer {
	if settings.HistoryLimit <= 0 {
		settings.HistoryLimit = domain.HistoryLimit
	}
	if settings.ProviderTimeout <= 0 {
		settings.ProviderTimeout = DefaultProviderTimeout
	}
	if settings.Params == (llm.GenerationParams{}) {
		settings.Params = llm.DefaultGenerationParams()
	}
	if settings.CrisisMessage == "" {
		settings.CrisisMessage = DefaultCrisisMessage
	}
	if settings.RepetitionMessage == "" {
		settings.RepetitionMessage = DefaultRepetitionMessage
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResponseComposer{
		sessions:   sessions,
		llmClient:  llmClient,
		emotions:   emotions,
		crisis:     crisis,
		onboarding: onboarding,
		router:     router,
		repetition: repetition,
		prompts:    prompts,
		post:       post,
		settings:   settings,
		logger:     logger,
	}
}

// Respond devuelve el texto de respuesta. Solo falla con ErrEmptyMessage o si el
// contexto ya fue cancelado antes de tomar la sesion.
func (c *ResponseComposer) Respond(ctx context.Context, userID, message string) (string, error) {
	turn, err := c.Handle(ctx, userID, message)
	if err != nil {
		return "", err
	}
	return turn.Reply, nil
}

// Handle ejecuta el pipeline completo y devuelve el detalle del turno.
func (c *ResponseComposer) Handle(ctx context.Context, userID, message string) (Turn, error) {
	text := strings.TrimSpace(message)
	if text == "" {
		return Turn{}, ErrEmptyMessage
	}

	// Crisis: no toca la sesion, ni historial ni onboarding.
	if c.crisis.IsCrisis(text) {
		c.logger.Warn("crisis language detected", zap.String("user_id", userID))
		return c.finish(Turn{Reply: c.settings.CrisisMessage, Outcome: OutcomeCrisis}), nil
	}

	plan, err := c.plan(ctx, userID, text)
	if err != nil {
		return Turn{}, err
	}

	switch {
	case plan.reply != "":
		return c.finish(Turn{Reply: plan.reply, Outcome: plan.outcome}), nil
	case plan.support != domain.SupportNone:
		return c.finish(c.supportTurn(ctx, plan.support)), nil
	}
	return c.finish(c.generate(ctx, plan.snapshot, text)), nil
}

// turnPlan es la decision tomada dentro de la seccion critica.
type turnPlan struct {
	reply    string
	outcome  string
	support  domain.SupportKind
	snapshot domain.Session
}

// plan lee y muta la sesion con el lock del usuario tomado; no hace llamadas externas.
func (c *ResponseComposer) plan(ctx context.Context, userID, text string) (turnPlan, error) {
	var plan turnPlan
	err := c.sessions.WithSession(ctx, userID, func(s *domain.Session) error {
		if !c.onboarding.Done(s) {
			reply, err := c.onboarding.Handle(s, text)
			if err != nil {
				return err
			}
			plan = turnPlan{reply: reply, outcome: OutcomeOnboarding}
			return nil
		}

		if c.router != nil {
			if kind := c.router.Classify(text); kind != domain.SupportNone {
				s.AppendHistory(text, c.settings.HistoryLimit)
				plan = turnPlan{support: kind}
				return nil
			}
		}

		previous := append([]string(nil), s.History...)
		s.AppendHistory(text, c.settings.HistoryLimit)
		if c.repetition.IsRepetitive(text, previous) {
			plan = turnPlan{reply: c.settings.RepetitionMessage, outcome: OutcomeRepetition}
			return nil
		}

		plan = turnPlan{snapshot: s.Snapshot()}
		plan.snapshot.History = previous
		return nil
	})
	if errors.Is(err, ErrOnboardingComplete) {
		c.logger.Error("onboarding state out of range", zap.String("user_id", userID), zap.Error(err))
		return turnPlan{reply: c.post.Fallback(), outcome: OutcomeGenerationFallback}, nil
	}
	if err != nil {
		return turnPlan{}, fmt.Errorf("session %s: %w", userID, err)
	}
	return plan, nil
}

func (c *ResponseComposer) supportTurn(ctx context.Context, kind domain.SupportKind) Turn {
	callCtx, cancel := context.WithTimeout(ctx, c.settings.ProviderTimeout)
	defer cancel()

	reply := c.router.Fetch(callCtx, kind)
	if reply == "" {
		reply = c.post.Fallback()
	}
	return Turn{Reply: reply, Outcome: supportOutcome(kind)}
}

// generate corre fuera del lock de la sesion, con timeout por llamada externa.
func (c *ResponseComposer) generate(ctx context.Context, snapshot domain.Session, text string) Turn {
	emotion := c.detectEmotion(ctx, text)

	prompt := c.prompts.Compose(PromptInput{
		Profile: snapshot.Profile,
		Emotion: emotion,
		History: snapshot.History,
		Message: text,
	})

	callCtx, cancel := context.WithTimeout(ctx, c.settings.ProviderTimeout)
	defer cancel()

	start := time.Now()
	raw, err := c.llmClient.Generate(callCtx, prompt, c.settings.Params)
	generationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		reason := "provider_error"
		if errors.Is(err, context.DeadlineExceeded) {
			reason = "timeout"
		} else if errors.Is(err, llm.ErrBlocked) {
			reason = "blocked"
		}
		providerFallbacksTotal.WithLabelValues("generation", reason).Inc()
		c.logger.Warn("generation failed", zap.String("user_id", snapshot.UserID), zap.String("reason", reason), zap.Error(err))
		return Turn{Reply: c.post.Fallback(), Outcome: OutcomeGenerationFallback, Emotion: emotion}
	}

	reply := c.post.Process(raw, snapshot.Profile.Get(domain.FieldName), emotion)
	outcome := OutcomeGenerated
	if c.post.IsFallback(reply) {
		outcome = OutcomeGenerationFallback
	}
	return Turn{Reply: reply, Outcome: outcome, Emotion: emotion}
}

func (c *ResponseComposer) detectEmotion(ctx context.Context, text string) domain.Emotion {
	if !c.prompts.EmotionAware() || c.emotions == nil {
		return domain.EmotionNeutral
	}
	callCtx, cancel := context.WithTimeout(ctx, c.settings.ProviderTimeout)
	defer cancel()

	emotion, err := c.emotions.Classify(callCtx, text)
	if err != nil {
		providerFallbacksTotal.WithLabelValues("emotion", "provider_error").Inc()
		c.logger.Warn("emotion detection failed", zap.Error(err))
		return domain.EmotionNeutral
	}
	if emotion == "" {
		return domain.EmotionNeutral
	}
	return emotion
}

// FallbackReply devuelve una respuesta de respaldo para errores fuera del pipeline.
func (c *ResponseComposer) FallbackReply() string {
	return c.post.Fallback()
}

// Fields devuelve los campos de onboarding configurados.
func (c *ResponseComposer) Fields() []domain.OnboardingField {
	return c.onboarding.Fields()
}

func (c *ResponseComposer) finish(t Turn) Turn {
	turnsTotal.WithLabelValues(t.Outcome).Inc()
	return t
}
