package service

import (
	"fmt"
	"strings"

	"companion-chat/internal/domain"
	"companion-chat/internal/llm"
)

// DefaultPersona define tono y limites del acompanante.
const DefaultPersona = "You are a caring and emotionally intelligent companion trained to provide support. " +
	"Always respond briefly, empathetically, and ask gentle questions to help users express themselves. " +
	"Never diagnose, never give medical or professional advice, and never lecture. " +
	"Use short, validating sentences (two at most) and end with an open question when it feels natural."

// PromptInput es lo que el composer necesita de la sesion para un turno.
type PromptInput struct {
	Profile domain.Profile
	Emotion domain.Emotion
	History []string
	Message string
}

// PromptComposer arma el prompt en orden fijo: persona, perfil, emocion, historial, mensaje.
type PromptComposer struct {
	fields       []domain.OnboardingField
	persona      string
	emotionAware bool
}

func NewPromptComposer(fields []domain.OnboardingField, persona string, emotionAware bool) PromptComposer {
	if persona == "" {
		persona = DefaultPersona
	}
	if len(fields) == 0 {
		fields = domain.DefaultOnboardingFields
	}
	return PromptComposer{fields: fields, persona: persona, emotionAware: emotionAware}
}

// EmotionAware indica si el prompt incluye la emocion detectada.
func (c PromptComposer) EmotionAware() bool {
	return c.emotionAware
}

func (c PromptComposer) Compose(in PromptInput) llm.Prompt {
	var sb strings.Builder

	if profile := describeProfile(c.fields, in.Profile); profile != "" {
		sb.WriteString(profile)
		sb.WriteString("\n")
	}

	if c.emotionAware {
		emotion := in.Emotion
		if emotion == "" {
			emotion = domain.EmotionNeutral
		}
		sb.WriteString(fmt.Sprintf("Their current emotion is: %s.\n", emotion))
	}

	if len(in.History) > 0 {
		sb.WriteString("Recent messages from the user:\n")
		for i, h := range in.History {
			sb.WriteString(fmt.Sprintf("Turn %d: %s\n", i+1, h))
		}
	}

	sb.WriteString(fmt.Sprintf("They said: %q", in.Message))

	return llm.Prompt{
		System: c.persona,
		User:   sb.String(),
	}
}

// describeProfile arma una oracion con los campos cargados, en el orden del onboarding.
func describeProfile(fields []domain.OnboardingField, p domain.Profile) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		v := strings.TrimSpace(p.Get(f))
		if v == "" {
			continue
		}
		switch f {
		case domain.FieldName:
			parts = append(parts, "The user's name is "+v)
		case domain.FieldAge:
			parts = append(parts, "age "+v)
		case domain.FieldReason:
			parts = append(parts, "here for "+v)
		case domain.FieldConcern:
			parts = append(parts, "main concern: "+v)
		case domain.FieldDuration:
			parts = append(parts, "feeling this way for "+v)
		case domain.FieldFeeling:
			parts = append(parts, "currently feeling "+v)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, ", ") + "."
}
