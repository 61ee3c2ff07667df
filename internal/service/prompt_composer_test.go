package service

import (
	"strings"
	"testing"

	"companion-chat/internal/domain"
)

func TestPromptComposer_ComposeOrder(t *testing.T) {
	c := NewPromptComposer(nil, "", true)
	p := c.Compose(PromptInput{
		Profile: domain.Profile{Name: "Maria", Age: "29", Reason: "stress at work"},
		Emotion: domain.EmotionSadness,
		History: []string{"work is a lot", "my boss yelled"},
		Message: "I can't sleep",
	})

	if p.System != DefaultPersona {
		t.Fatalf("expected default persona as system prompt")
	}
	for _, rule := range []string{"Never diagnose", "advice", "validating", "question"} {
		if !strings.Contains(p.System, rule) {
			t.Fatalf("persona missing %q rule", rule)
		}
	}

	ordered := []string{
		"The user's name is Maria, age 29, here for stress at work.",
		"Their current emotion is: sadness.",
		"Turn 1: work is a lot",
		"Turn 2: my boss yelled",
		`They said: "I can't sleep"`,
	}
	if !containsAllInOrder(p.User, ordered) {
		t.Fatalf("expected profile -> emotion -> history -> message order, got:\n%s", p.User)
	}

	rendered := p.Render()
	if !strings.HasPrefix(rendered, "<|system|>"+DefaultPersona) || !strings.HasSuffix(rendered, "<|assistant|>") {
		t.Fatalf("unexpected rendered prompt: %q", rendered)
	}
}

func TestPromptComposer_WithoutEmotion(t *testing.T) {
	fields := []domain.OnboardingField{domain.FieldName, domain.FieldConcern, domain.FieldDuration}
	c := NewPromptComposer(fields, "be gentle", false)
	p := c.Compose(PromptInput{
		Profile: domain.Profile{Name: "Leo", Concern: "loneliness", Duration: "two months", Age: "ignored"},
		Emotion: domain.EmotionAnger,
		Message: "hi again",
	})

	if strings.Contains(p.User, "emotion") {
		t.Fatalf("emotion must be omitted when not emotion-aware: %q", p.User)
	}
	if strings.Contains(p.User, "ignored") {
		t.Fatalf("only configured fields belong in the profile line: %q", p.User)
	}
	if !strings.Contains(p.User, "The user's name is Leo, main concern: loneliness, feeling this way for two months.") {
		t.Fatalf("unexpected profile line: %q", p.User)
	}
	if strings.Contains(p.User, "Recent messages") {
		t.Fatalf("history section must be omitted when empty")
	}
	if p.System != "be gentle" {
		t.Fatalf("expected custom persona, got %q", p.System)
	}
}

func TestPromptComposer_DefaultsEmotionToNeutral(t *testing.T) {
	c := NewPromptComposer(nil, "", true)
	p := c.Compose(PromptInput{Message: "ok"})
	if !strings.Contains(p.User, "Their current emotion is: neutral.") {
		t.Fatalf("expected neutral emotion, got %q", p.User)
	}
}

func containsAllInOrder(text string, parts []string) bool {
	idx := 0
	for _, p := range parts {
		pos := strings.Index(text[idx:], p)
		if pos == -1 {
			return false
		}
		idx += pos + len(p)
	}
	return true
}
