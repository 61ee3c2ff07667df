package service

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"companion-chat/internal/domain"
	"companion-chat/internal/util"
)

const (
	DefaultNameInsertionProbability = 0.3
	maxReplySentences               = 2
	defaultEmoji                    = "💭"
)

// DefaultFallbackReplies se usan cuando el proveedor no devuelve texto utilizable.
var DefaultFallbackReplies = []string{
	"I'm having some trouble responding right now. Can you try again later? 🤔",
	"I'm here with you. Could you tell me a little more about how you're feeling?",
	"Thank you for sharing that with me. What's been on your mind the most?",
	"I'm here if you want to talk more.",
}

// DefaultFollowUps cierran una respuesta que quedo sin puntuacion final.
var DefaultFollowUps = []string{
	"How does that make you feel?",
	"Would you like to tell me more about that?",
	"What's been on your mind lately?",
	"How have you been coping with it?",
}

var emotionFollowUps = map[domain.Emotion]string{
	domain.EmotionSadness:  "Do you want to talk about what's been making you feel this way?",
	domain.EmotionAnger:    "Would you like to share what's been bothering you lately?",
	domain.EmotionFear:     "Is there anything in particular you're worried about right now?",
	domain.EmotionJoy:      "That's wonderful! What's been bringing you joy recently?",
	domain.EmotionSurprise: "That sounds unexpected! Want to talk more about it?",
	domain.EmotionDisgust:  "That sounds unpleasant. Want to tell me more?",
	domain.EmotionNeutral:  "Would you like to talk about how your day has been so far?",
}

var emotionEmojis = map[domain.Emotion]string{
	domain.EmotionJoy:      "😊",
	domain.EmotionSadness:  "🤗",
	domain.EmotionAnger:    "😌",
	domain.EmotionFear:     "🌟",
	domain.EmotionSurprise: "😮",
	domain.EmotionNeutral:  "💭",
	domain.EmotionDisgust:  "💝",
}

// ReplyPostProcessor recorta y ajusta el texto generado.
type ReplyPostProcessor struct {
	rnd             util.Rand
	nameProbability float64
	emotionAware    bool
	fallbacks       []string
	followUps       []string
}

func NewReplyPostProcessor(rnd util.Rand, nameProbability float64, emotionAware bool, fallbacks, followUps []string) ReplyPostProcessor {
	if rnd == nil {
		rnd = util.NewRandomRand()
	}
	if nameProbability < 0 || nameProbability > 1 {
		nameProbability = DefaultNameInsertionProbability
	}
	if len(fallbacks) == 0 {
		fallbacks = DefaultFallbackReplies
	}
	if len(followUps) == 0 {
		followUps = DefaultFollowUps
	}
	return ReplyPostProcessor{
		rnd:             rnd,
		nameProbability: nameProbability,
		emotionAware:    emotionAware,
		fallbacks:       fallbacks,
		followUps:       followUps,
	}
}

// Fallback elige una respuesta de respaldo.
func (p ReplyPostProcessor) Fallback() string {
	return util.Pick(p.rnd, p.fallbacks)
}

// IsFallback indica si el texto pertenece al set de respaldo.
func (p ReplyPostProcessor) IsFallback(text string) bool {
	for _, f := range p.fallbacks {
		if f == text {
			return true
		}
	}
	return false
}

// Process aplica, en orden: limpieza, tope de oraciones, nombre casual, pregunta de
// seguimiento y emoji. Un texto vacio devuelve una respuesta de respaldo.
func (p ReplyPostProcessor) Process(raw, name string, emotion domain.Emotion) string {
	text := cleanGeneratedReply(raw)
	if text == "" {
		return p.Fallback()
	}

	text = capSentences(text, maxReplySentences)
	text = p.insertName(text, name)

	switch {
	case !endsWithTerminal(text):
		text = strings.TrimRight(text, ",;:- ") + ". " + p.followUp(emotion)
	case p.emotionAware && !strings.HasSuffix(text, "?"):
		text += " " + p.followUp(emotion)
	}

	if p.emotionAware {
		emoji, ok := emotionEmojis[emotion]
		if !ok {
			emoji = defaultEmoji
		}
		text += " " + emoji
	}
	return text
}

func (p ReplyPostProcessor) followUp(emotion domain.Emotion) string {
	if p.emotionAware {
		if f, ok := emotionFollowUps[emotion]; ok {
			return f
		}
		return emotionFollowUps[domain.EmotionNeutral]
	}
	return util.Pick(p.rnd, p.followUps)
}

// insertName antepone el primer nombre con probabilidad nameProbability.
func (p ReplyPostProcessor) insertName(text, name string) string {
	first := firstName(name)
	if first == "" {
		return text
	}
	if p.rnd.Float64() >= p.nameProbability {
		return text
	}
	if strings.Contains(strings.ToLower(text), strings.ToLower(first)) {
		return text
	}
	return first + ", " + lowerFirst(text)
}

func firstName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return strings.Trim(fields[0], ".,!?")
}

// lowerFirst baja la primera letra salvo que la oracion empiece con "I" o un acronimo.
func lowerFirst(s string) string {
	word := s
	if i := strings.IndexFunc(s, unicode.IsSpace); i >= 0 {
		word = s[:i]
	}
	if word == "I" || strings.HasPrefix(word, "I'") || strings.HasPrefix(word, "I’") {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	if size > 1 || (len(word) > 1 && strings.ToUpper(word) == word) {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// splitSentences corta despues de cada grupo de . ! ? seguido de espacio o fin de texto.
func splitSentences(text string) []string {
	var sentences []string
	runes := []rune(text)
	start := 0
	for i := 0; i < len(runes); i++ {
		if !isTerminal(runes[i]) {
			continue
		}
		j := i
		for j+1 < len(runes) && isTerminal(runes[j+1]) {
			j++
		}
		if j+1 == len(runes) || unicode.IsSpace(runes[j+1]) {
			if s := strings.TrimSpace(string(runes[start : j+1])); s != "" {
				sentences = append(sentences, s)
			}
			start = j + 1
		}
		i = j
	}
	if start < len(runes) {
		if s := strings.TrimSpace(string(runes[start:])); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// capSentences deja como maximo n oraciones y asegura puntuacion final si recorto.
func capSentences(text string, n int) string {
	sentences := splitSentences(text)
	if len(sentences) <= n {
		return strings.Join(sentences, " ")
	}
	out := strings.Join(sentences[:n], " ")
	if !endsWithTerminal(out) {
		out += "."
	}
	return out
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func endsWithTerminal(text string) bool {
	r, _ := utf8.DecodeLastRuneInString(text)
	return isTerminal(r)
}
