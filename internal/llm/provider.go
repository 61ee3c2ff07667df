package llm

import (
	"context"
	"errors"
	"strings"

	"companion-chat/internal/domain"
)

var (
	// ErrEmptyResponse indica que el proveedor respondio sin texto utilizable.
	ErrEmptyResponse = errors.New("llm empty response")
	// ErrBlocked indica que el proveedor bloqueo la generacion (safety).
	ErrBlocked = errors.New("llm response blocked")
)

// Prompt separa las instrucciones de sistema del turno del usuario.
type Prompt struct {
	System string
	User   string
}

// Render arma el prompt en formato de chat template (zephyr) para modelos de texto plano.
func (p Prompt) Render() string {
	var sb strings.Builder
	if p.System != "" {
		sb.WriteString("<|system|>")
		sb.WriteString(p.System)
		sb.WriteString("\n")
	}
	sb.WriteString("<|user|>")
	sb.WriteString(p.User)
	sb.WriteString("\n<|assistant|>")
	return sb.String()
}

// GenerationParams son los parametros de muestreo enviados al proveedor.
type GenerationParams struct {
	Temperature       float64
	TopP              float64
	MaxNewTokens      int
	DoSample          bool
	RepetitionPenalty float64
}

// DefaultGenerationParams replica los valores usados en produccion.
func DefaultGenerationParams() GenerationParams {
	return GenerationParams{
		Temperature:       0.7,
		TopP:              0.9,
		MaxNewTokens:      150,
		DoSample:          true,
		RepetitionPenalty: 1.1,
	}
}

// LLMClient define la interfaz para generar respuestas con un LLM.
type LLMClient interface {
	Generate(ctx context.Context, prompt Prompt, params GenerationParams) (string, error)
}

// EmotionClassifier detecta la emocion dominante de un mensaje.
type EmotionClassifier interface {
	Classify(ctx context.Context, text string) (domain.Emotion, error)
}
