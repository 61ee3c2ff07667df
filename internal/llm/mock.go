package llm

import (
	"context"
	"sync"

	"companion-chat/internal/domain"
)

// MockClient permite tests sin llamar a un LLM real.
type MockClient struct {
	Response string
	Err      error

	mu      sync.Mutex
	calls   int
	prompts []Prompt
}

func (m *MockClient) Generate(ctx context.Context, prompt Prompt, _ GenerationParams) (string, error) {
	m.mu.Lock()
	m.calls++
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()
	return m.Response, m.Err
}

// Calls devuelve la cantidad de llamadas a Generate.
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LastPrompt devuelve el ultimo prompt recibido.
func (m *MockClient) LastPrompt() Prompt {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return Prompt{}
	}
	return m.prompts[len(m.prompts)-1]
}

// MockEmotionClassifier devuelve siempre la misma emocion.
type MockEmotionClassifier struct {
	Emotion domain.Emotion
	Err     error
}

func (m *MockEmotionClassifier) Classify(context.Context, string) (domain.Emotion, error) {
	return m.Emotion, m.Err
}
