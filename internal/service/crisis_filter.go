package service

import "strings"

// DefaultCrisisKeywords son frases de riesgo; se comparan como substring sobre el texto en minusculas.
var DefaultCrisisKeywords = []string{
	"suicide",
	"suicidal",
	"kill myself",
	"end my life",
	"take my own life",
	"want to die",
	"wanna die",
	"better off dead",
	"no reason to live",
	"end it all",
	"self harm",
	"self-harm",
	"hurt myself",
	"cut myself",
	"overdose",
}

// DefaultCrisisMessage es la respuesta fija del camino de crisis.
const DefaultCrisisMessage = "It sounds like you're going through something really painful, and you don't have to face it alone. " +
	"Please reach out to someone who can help right now:\n" +
	"- Call or text 988 (Suicide & Crisis Lifeline, US)\n" +
	"- Text HOME to 741741 (Crisis Text Line)\n" +
	"- Find a local helpline at https://findahelpline.com\n" +
	"If you are in immediate danger, call your local emergency number. " +
	"I'm still here with you. Would you like to keep talking?"

// CrisisFilter detecta lenguaje de autolesion por coincidencia de substrings.
// No respeta limites de palabra: "overdosed" tambien dispara.
type CrisisFilter struct {
	keywords []string
}

func NewCrisisFilter(keywords []string) CrisisFilter {
	if len(keywords) == 0 {
		keywords = DefaultCrisisKeywords
	}
	normalized := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			normalized = append(normalized, k)
		}
	}
	return CrisisFilter{keywords: normalized}
}

// IsCrisis indica si algun keyword aparece en el texto.
func (f CrisisFilter) IsCrisis(text string) bool {
	l := strings.ToLower(text)
	for _, k := range f.keywords {
		if strings.Contains(l, k) {
			return true
		}
	}
	return false
}
