package service

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

const (
	DefaultRepetitionThreshold = 0.90
	DefaultRepetitionMessage   = "It sounds like you've already shared that. Could you tell me a bit more, or say it another way?"
)

// RepetitionFilter detecta mensajes casi identicos a los recientes.
type RepetitionFilter struct {
	threshold float64
}

func NewRepetitionFilter(threshold float64) RepetitionFilter {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultRepetitionThreshold
	}
	return RepetitionFilter{threshold: threshold}
}

// IsRepetitive compara contra el historial previo (sin el turno actual).
func (f RepetitionFilter) IsRepetitive(text string, history []string) bool {
	for _, h := range history {
		if Similarity(text, h) > f.threshold {
			return true
		}
	}
	return false
}

// Similarity es 1 - distancia de edicion normalizada por la longitud mayor.
// Es simetrica y Similarity(x, x) == 1.
func Similarity(a, b string) float64 {
	a, b = normalizeForSimilarity(a), normalizeForSimilarity(b)
	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	if longest == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}

func normalizeForSimilarity(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
