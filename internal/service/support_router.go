package service

import (
	"context"
	"strings"
	"unicode"

	"companion-chat/internal/domain"
	"companion-chat/internal/support"
)

var DefaultAffirmationKeywords = []string{
	"affirmation", "affirm", "encouragement", "encourage", "confidence",
	"self-esteem", "uplift", "reassure", "positivity", "positive", "worthy", "enough",
}

var DefaultMotivationKeywords = []string{
	"motivate", "motivation", "inspire", "inspiration", "tired", "hopeless",
	"give up", "burnout", "overwhelmed", "keep going", "determination", "drive", "push", "lost",
}

var DefaultMotivationPhrases = []string{"give up", "keep going", "burn out", "feel lost"}

// SupportToolRouter decide si un turno se resuelve con una afirmacion o una frase motivacional.
type SupportToolRouter struct {
	affirmationWords map[string]struct{}
	motivationWords  map[string]struct{}
	phrases          []string
	affirmations     support.Provider
	motivations      support.Provider
}

// NewSupportToolRouter normaliza los keywords igual que el texto de entrada; los
// keywords de varias palabras pasan a la lista de frases.
func NewSupportToolRouter(affirmationKeywords, motivationKeywords, phrases []string, affirmations, motivations support.Provider) *SupportToolRouter {
	if len(affirmationKeywords) == 0 {
		affirmationKeywords = DefaultAffirmationKeywords
	}
	if len(motivationKeywords) == 0 {
		motivationKeywords = DefaultMotivationKeywords
	}
	if len(phrases) == 0 {
		phrases = DefaultMotivationPhrases
	}

	r := &SupportToolRouter{
		affirmationWords: make(map[string]struct{}),
		motivationWords:  make(map[string]struct{}),
		affirmations:     affirmations,
		motivations:      motivations,
	}
	for _, k := range affirmationKeywords {
		if n := normalizeSupportText(k); n != "" && !strings.Contains(n, " ") {
			r.affirmationWords[n] = struct{}{}
		}
	}
	seen := make(map[string]bool)
	addPhrase := func(p string) {
		if p != "" && !seen[p] {
			seen[p] = true
			r.phrases = append(r.phrases, p)
		}
	}
	for _, k := range motivationKeywords {
		n := normalizeSupportText(k)
		if strings.Contains(n, " ") {
			addPhrase(n)
			continue
		}
		if n != "" {
			r.motivationWords[n] = struct{}{}
		}
	}
	for _, p := range phrases {
		addPhrase(normalizeSupportText(p))
	}
	return r
}

// Classify aplica: token de afirmacion, token de motivacion, frase de motivacion.
func (r *SupportToolRouter) Classify(text string) domain.SupportKind {
	cleaned := normalizeSupportText(text)
	tokens := strings.Fields(cleaned)

	for _, tok := range tokens {
		if _, ok := r.affirmationWords[tok]; ok {
			return domain.SupportAffirmation
		}
	}
	for _, tok := range tokens {
		if _, ok := r.motivationWords[tok]; ok {
			return domain.SupportMotivation
		}
	}
	for _, p := range r.phrases {
		if strings.Contains(cleaned, p) {
			return domain.SupportMotivation
		}
	}
	return domain.SupportNone
}

// Fetch devuelve el texto del proveedor correspondiente; "" si kind es SupportNone
// o no hay proveedor configurado.
func (r *SupportToolRouter) Fetch(ctx context.Context, kind domain.SupportKind) string {
	switch kind {
	case domain.SupportAffirmation:
		if r.affirmations != nil {
			return r.affirmations.Get(ctx)
		}
	case domain.SupportMotivation:
		if r.motivations != nil {
			return r.motivations.Get(ctx)
		}
	}
	return ""
}

// normalizeSupportText pasa a minusculas y quita todo lo que no sea letra, digito, '_' o espacio.
func normalizeSupportText(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			sb.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

// Route clasifica y resuelve en un solo paso. ok es false si el turno no es de apoyo.
func (r *SupportToolRouter) Route(ctx context.Context, text string) (reply string, ok bool) {
	kind := r.Classify(text)
	if kind == domain.SupportNone {
		return "", false
	}
	reply = r.Fetch(ctx, kind)
	return reply, reply != ""
}
