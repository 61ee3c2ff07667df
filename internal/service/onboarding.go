package service

import (
	"errors"
	"fmt"
	"strings"

	"companion-chat/internal/domain"
)

const (
	GreetingReply            = "Hi there! Before we begin, what's your name?"
	OnboardingCompleteReply  = "Thanks! Let's get started. How can I support you today?"
	onboardingNamePrompt     = "What's your name?"
	onboardingFieldPromptFmt = "Please tell me your %s:"
)

// ErrOnboardingComplete indica un intento de cargar campos con el onboarding terminado.
var ErrOnboardingComplete = errors.New("onboarding already complete")

var DefaultGreetings = []string{"hi", "hello", "hey", "hey there", "hi there", "hello there", "good morning", "good afternoon", "good evening", "hiya", "yo"}

// OnboardingCollector recolecta los campos de perfil en orden fijo.
type OnboardingCollector struct {
	fields    []domain.OnboardingField
	greetings map[string]struct{}
}

func NewOnboardingCollector(fields []domain.OnboardingField, greetings []string) OnboardingCollector {
	if len(fields) == 0 {
		fields = domain.DefaultOnboardingFields
	}
	if len(greetings) == 0 {
		greetings = DefaultGreetings
	}
	g := make(map[string]struct{}, len(greetings))
	for _, w := range greetings {
		g[normalizeGreeting(w)] = struct{}{}
	}
	return OnboardingCollector{fields: fields, greetings: g}
}

// Fields devuelve la lista de campos configurada.
func (c OnboardingCollector) Fields() []domain.OnboardingField {
	return c.fields
}

// Done indica si la sesion ya completo el onboarding.
func (c OnboardingCollector) Done(s *domain.Session) bool {
	return s.OnboardingDone(c.fields)
}

// Handle consume un turno de onboarding y devuelve el siguiente prompt.
// Un saludo en el paso 0 no ocupa el campo name.
func (c OnboardingCollector) Handle(s *domain.Session, input string) (string, error) {
	if s.Step < 0 || s.Step >= len(c.fields) {
		return "", fmt.Errorf("step %d of %d: %w", s.Step, len(c.fields), ErrOnboardingComplete)
	}
	if s.Step == 0 && c.IsGreeting(input) {
		return GreetingReply, nil
	}

	s.Profile.Set(c.fields[s.Step], strings.TrimSpace(input))
	s.Step++

	if s.Step < len(c.fields) {
		return c.Prompt(c.fields[s.Step]), nil
	}
	return OnboardingCompleteReply, nil
}

// Prompt devuelve la pregunta para un campo.
func (c OnboardingCollector) Prompt(f domain.OnboardingField) string {
	if f == domain.FieldName {
		return onboardingNamePrompt
	}
	return fmt.Sprintf(onboardingFieldPromptFmt, f.Label())
}

// IsGreeting compara sin mayusculas ni puntuacion final.
func (c OnboardingCollector) IsGreeting(input string) bool {
	_, ok := c.greetings[normalizeGreeting(input)]
	return ok
}

func normalizeGreeting(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimRight(s, "!.?, ")
	return strings.Join(strings.Fields(s), " ")
}
