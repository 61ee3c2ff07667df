package service

import (
	"regexp"
	"strings"
)

var (
	// el modelo a veces sigue escribiendo el turno siguiente del template
	reTrailingTurn   = regexp.MustCompile(`(?s)<\|(?:user|system)\|>.*$`)
	reSpecialTokens  = regexp.MustCompile(`</?s>|<\|endoftext\|>|<\|assistant\|>`)
	reWrappingQuotes = regexp.MustCompile(`^["“']+|["”']+$`)
)

// cleanGeneratedReply deja solo el texto del asistente: corta lo anterior al ultimo
// <|assistant|>, quita turnos extra, tokens especiales, BOM y comillas envolventes.
func cleanGeneratedReply(raw string) string {
	s := strings.TrimPrefix(strings.TrimSpace(raw), "\uFEFF")
	if s == "" {
		return ""
	}

	if idx := strings.LastIndex(s, "<|assistant|>"); idx >= 0 {
		s = s[idx+len("<|assistant|>"):]
	}
	s = reTrailingTurn.ReplaceAllString(s, "")
	s = reSpecialTokens.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = reWrappingQuotes.ReplaceAllString(s, "")

	return strings.Join(strings.Fields(s), " ")
}
