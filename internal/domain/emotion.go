package domain

import "strings"

// Emotion es una etiqueta del clasificador de emociones.
type Emotion string

const (
	EmotionJoy      Emotion = "joy"
	EmotionSadness  Emotion = "sadness"
	EmotionAnger    Emotion = "anger"
	EmotionFear     Emotion = "fear"
	EmotionSurprise Emotion = "surprise"
	EmotionDisgust  Emotion = "disgust"
	EmotionNeutral  Emotion = "neutral"
)

var knownEmotions = map[Emotion]struct{}{
	EmotionJoy:      {},
	EmotionSadness:  {},
	EmotionAnger:    {},
	EmotionFear:     {},
	EmotionSurprise: {},
	EmotionDisgust:  {},
	EmotionNeutral:  {},
}

// ParseEmotion normaliza la etiqueta; cualquier valor desconocido es neutral.
func ParseEmotion(label string) Emotion {
	e := Emotion(strings.ToLower(strings.TrimSpace(label)))
	if _, ok := knownEmotions[e]; ok {
		return e
	}
	return EmotionNeutral
}

// SupportKind es el tipo de herramienta de apoyo que resuelve un turno.
type SupportKind int

const (
	SupportNone SupportKind = iota
	SupportAffirmation
	SupportMotivation
)

func (k SupportKind) String() string {
	switch k {
	case SupportAffirmation:
		return "affirmation"
	case SupportMotivation:
		return "motivation"
	}
	return "none"
}
