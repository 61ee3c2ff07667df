package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"companion-chat/internal/domain"
	"companion-chat/internal/llm"
	"companion-chat/internal/repository"
)

type composerFixture struct {
	store    *repository.MemorySessionStore
	llm      *llm.MockClient
	emotions *llm.MockEmotionClassifier
	aff      *stubProvider
	mot      *stubProvider
	composer *ResponseComposer
}

func newComposerFixture(emotionAware, supportTools bool) *composerFixture {
	f := &composerFixture{
		store:    repository.NewMemorySessionStore(),
		llm:      &llm.MockClient{Response: "That sounds really hard. I'm here with you. Tell me more."},
		emotions: &llm.MockEmotionClassifier{Emotion: domain.EmotionSadness},
		aff:      &stubProvider{text: "You're enough, just as you are."},
		mot:      &stubProvider{text: "Keep going."},
	}
	fields := domain.DefaultOnboardingFields
	var router *SupportToolRouter
	if supportTools {
		router = NewSupportToolRouter(nil, nil, nil, f.aff, f.mot)
	}
	f.composer = NewResponseComposer(
		f.store,
		f.llm,
		f.emotions,
		NewCrisisFilter(nil),
		NewOnboardingCollector(fields, nil),
		router,
		NewRepetitionFilter(0),
		NewPromptComposer(fields, "", emotionAware),
		NewReplyPostProcessor(fixedRand{f: 0.99}, 0.3, emotionAware, nil, nil),
		ComposerSettings{ProviderTimeout: time.Second},
		nil,
	)
	return f
}

func (f *composerFixture) say(t *testing.T, userID, msg string) string {
	t.Helper()
	reply, err := f.composer.Respond(context.Background(), userID, msg)
	if err != nil {
		t.Fatalf("Respond(%q): unexpected error: %v", msg, err)
	}
	if reply == "" {
		t.Fatalf("Respond(%q): empty reply", msg)
	}
	return reply
}

func (f *composerFixture) onboard(t *testing.T, userID string) {
	t.Helper()
	f.say(t, userID, "Maria")
	f.say(t, userID, "29")
	if got := f.say(t, userID, "stress at work"); got != OnboardingCompleteReply {
		t.Fatalf("expected onboarding completion, got %q", got)
	}
}

func TestResponseComposer_EmptyMessage(t *testing.T) {
	f := newComposerFixture(false, true)
	for _, msg := range []string{"", "   ", "\n\t"} {
		if _, err := f.composer.Respond(context.Background(), "u", msg); !errors.Is(err, ErrEmptyMessage) {
			t.Fatalf("expected ErrEmptyMessage for %q, got %v", msg, err)
		}
	}
	if f.store.Len() != 0 {
		t.Fatalf("empty messages must not create sessions")
	}
}

func TestResponseComposer_OnboardingOrderAndMonotonicStep(t *testing.T) {
	f := newComposerFixture(false, true)

	if got := f.say(t, "u", "hey"); got != GreetingReply {
		t.Fatalf("expected greeting reply, got %q", got)
	}

	// Respuestas con keywords de apoyo o repetidas no alteran el onboarding.
	inputs := []string{"encouragement", "encouragement", "I'm tired"}
	want := []string{"Please tell me your age:", "Please tell me your reason for reaching out:", OnboardingCompleteReply}
	prev := 0
	for i, in := range inputs {
		if got := f.say(t, "u", in); got != want[i] {
			t.Fatalf("turn %d: got %q want %q", i, got, want[i])
		}
		s := f.store.GetOrCreate("u")
		if s.Step != prev+1 || s.Step > len(domain.DefaultOnboardingFields) || s.Profile.Len() != s.Step {
			t.Fatalf("turn %d: bad step %d (prev %d), profile %d", i, s.Step, prev, s.Profile.Len())
		}
		prev = s.Step
	}
	if f.llm.Calls() != 0 || f.aff.calls != 0 || f.mot.calls != 0 {
		t.Fatalf("onboarding must not call external providers")
	}
	if len(f.store.GetOrCreate("u").History) != 0 {
		t.Fatalf("onboarding turns are not recorded in history")
	}

	f.say(t, "u", "hello again, how are you")
	if s := f.store.GetOrCreate("u"); s.Step != len(domain.DefaultOnboardingFields) {
		t.Fatalf("step must stay at the end after onboarding, got %d", s.Step)
	}
}

func TestResponseComposer_CrisisShortCircuits(t *testing.T) {
	f := newComposerFixture(true, true)

	// Durante el onboarding no consume el slot.
	if got := f.say(t, "u", "I want to end my life"); got != DefaultCrisisMessage {
		t.Fatalf("expected crisis message, got %q", got)
	}
	if s := f.store.GetOrCreate("u"); s.Step != 0 || s.Profile.Len() != 0 {
		t.Fatalf("crisis turn must not consume onboarding, got step=%d", s.Step)
	}

	f.onboard(t, "u")
	got := f.say(t, "u", "Honestly sometimes I WANT TO END MY LIFE because of work")
	if got != DefaultCrisisMessage {
		t.Fatalf("expected crisis message, got %q", got)
	}
	if len(f.store.GetOrCreate("u").History) != 0 {
		t.Fatalf("crisis turns are not recorded in history")
	}
	if f.llm.Calls() != 0 {
		t.Fatalf("crisis must bypass generation")
	}
}

func TestResponseComposer_RepetitionSkipsGeneration(t *testing.T) {
	f := newComposerFixture(false, true)
	f.onboard(t, "u")

	first := f.say(t, "u", "My boss yelled at me today")
	if first == DefaultRepetitionMessage || f.llm.Calls() != 1 {
		t.Fatalf("expected first message to be generated, got %q calls=%d", first, f.llm.Calls())
	}
	second := f.say(t, "u", "My boss yelled at me today")
	if second != DefaultRepetitionMessage {
		t.Fatalf("expected repetition reply, got %q", second)
	}
	if f.llm.Calls() != 1 {
		t.Fatalf("repetition must not call generation, calls=%d", f.llm.Calls())
	}
	if h := f.store.GetOrCreate("u").History; len(h) != 2 {
		t.Fatalf("expected both turns recorded, got %v", h)
	}
}

func TestResponseComposer_SupportToolBypassesGeneration(t *testing.T) {
	f := newComposerFixture(false, true)
	f.llm.Err = errors.New("provider down")
	f.onboard(t, "u")

	got := f.say(t, "u", "I need some encouragement")
	if got != f.aff.text {
		t.Fatalf("expected affirmation, got %q", got)
	}
	got = f.say(t, "u", "I feel like I want to give up")
	if got != f.mot.text {
		t.Fatalf("expected motivation, got %q", got)
	}
	if f.llm.Calls() != 0 {
		t.Fatalf("support tools must bypass generation")
	}

	// Herramientas antes que repeticion: repetir el pedido vuelve a la herramienta.
	if got := f.say(t, "u", "I need some encouragement"); got != f.aff.text {
		t.Fatalf("expected support tool to win over repetition, got %q", got)
	}
	if len(f.store.GetOrCreate("u").History) != 3 {
		t.Fatalf("support turns are recorded in history")
	}
}

func TestResponseComposer_SupportToolsDisabled(t *testing.T) {
	f := newComposerFixture(false, false)
	f.onboard(t, "u")
	f.say(t, "u", "I need some encouragement")
	if f.llm.Calls() != 1 || f.aff.calls != 0 {
		t.Fatalf("expected generation when support tools are disabled")
	}
}

func TestResponseComposer_GenerationFailureFallsBack(t *testing.T) {
	errs := []error{
		errors.New("network down"),
		llm.ErrBlocked,
		llm.ErrEmptyResponse,
		context.DeadlineExceeded,
	}
	for _, genErr := range errs {
		t.Run(genErr.Error(), func(t *testing.T) {
			f := newComposerFixture(true, true)
			f.llm.Err = genErr
			f.onboard(t, "u")

			got := f.say(t, "u", "I had a weird day")
			if !contains(DefaultFallbackReplies, got) {
				t.Fatalf("expected fallback reply, got %q", got)
			}
		})
	}

	t.Run("texto vacio", func(t *testing.T) {
		f := newComposerFixture(false, true)
		f.llm.Response = "  "
		f.onboard(t, "u")
		turn, err := f.composer.Handle(context.Background(), "u", "I had a weird day")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if turn.Outcome != OutcomeGenerationFallback || !contains(DefaultFallbackReplies, turn.Reply) {
			t.Fatalf("expected fallback turn, got %+v", turn)
		}
	})
}

type slowClient struct{}

func (slowClient) Generate(ctx context.Context, _ llm.Prompt, _ llm.GenerationParams) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestResponseComposer_GenerationTimeout(t *testing.T) {
	store := repository.NewMemorySessionStore()
	composer := NewResponseComposer(
		store, slowClient{}, nil,
		NewCrisisFilter(nil),
		NewOnboardingCollector(nil, nil),
		nil,
		NewRepetitionFilter(0),
		NewPromptComposer(nil, "", false),
		NewReplyPostProcessor(fixedRand{}, 0.3, false, nil, nil),
		ComposerSettings{ProviderTimeout: 20 * time.Millisecond},
		nil,
	)
	for _, msg := range []string{"Maria", "29", "work"} {
		if _, err := composer.Respond(context.Background(), "u", msg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		// Mientras la generacion espera, la sesion del mismo usuario no queda bloqueada.
		_ = store.WithSession(context.Background(), "u", func(*domain.Session) error { return nil })
	}()

	got, err := composer.Respond(context.Background(), "u", "I can't sleep")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != DefaultFallbackReplies[0] {
		t.Fatalf("expected fallback after timeout, got %q", got)
	}
	<-done
}

func TestResponseComposer_PromptUsesProfileEmotionAndHistory(t *testing.T) {
	f := newComposerFixture(true, true)
	f.onboard(t, "u")

	f.say(t, "u", "Work has been rough")
	reply := f.say(t, "u", "I can't sleep at night")

	prompt := f.llm.LastPrompt()
	if !containsAllInOrder(prompt.User, []string{
		"The user's name is Maria, age 29, here for stress at work.",
		"Their current emotion is: sadness.",
		"Turn 1: Work has been rough",
		`They said: "I can't sleep at night"`,
	}) {
		t.Fatalf("unexpected prompt:\n%s", prompt.User)
	}
	if strings.Contains(prompt.User, "Turn 2:") {
		t.Fatalf("current message must not be repeated in history: %s", prompt.User)
	}
	want := "That sounds really hard. I'm here with you. Do you want to talk about what's been making you feel this way? 🤗"
	if reply != want {
		t.Fatalf("got %q want %q", reply, want)
	}
}

func TestResponseComposer_EmotionFailureDefaultsToNeutral(t *testing.T) {
	f := newComposerFixture(true, true)
	f.emotions.Err = errors.New("classifier down")
	f.onboard(t, "u")

	reply := f.say(t, "u", "so-so day")
	if !strings.Contains(f.llm.LastPrompt().User, "Their current emotion is: neutral.") {
		t.Fatalf("expected neutral emotion in prompt")
	}
	if !strings.HasSuffix(reply, "💭") {
		t.Fatalf("expected neutral emoji, got %q", reply)
	}
}

func TestResponseComposer_HistoryBounded(t *testing.T) {
	f := newComposerFixture(false, true)
	f.onboard(t, "u")
	for _, msg := range []string{"one apple", "two bananas", "three cherries", "four dates", "five elderberries", "six figs", "seven grapes"} {
		f.say(t, "u", msg)
	}
	h := f.store.GetOrCreate("u").History
	if len(h) != domain.HistoryLimit || h[0] != "three cherries" || h[len(h)-1] != "seven grapes" {
		t.Fatalf("unexpected history window %v", h)
	}
}

func TestResponseComposer_SessionIsolation(t *testing.T) {
	f := newComposerFixture(false, true)

	f.say(t, "b", "Leo")
	f.onboard(t, "a")

	a, b := f.store.GetOrCreate("a"), f.store.GetOrCreate("b")
	if a.Step != 3 || a.Profile.Name != "Maria" {
		t.Fatalf("unexpected session a %+v", a)
	}
	if b.Step != 1 || b.Profile.Name != "Leo" || b.Profile.Age != "" {
		t.Fatalf("session b was modified by a: %+v", b)
	}
	if got := f.say(t, "b", "31"); got != "Please tell me your reason for reaching out:" {
		t.Fatalf("expected b to continue its own onboarding, got %q", got)
	}
}

func TestResponseComposer_ConcurrentTurnsSameUser(t *testing.T) {
	f := newComposerFixture(false, true)
	const turns = 50

	var wg sync.WaitGroup
	for i := 0; i < turns; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.composer.Respond(context.Background(), "u", "some answer")
		}()
	}
	wg.Wait()

	s := f.store.GetOrCreate("u")
	if s.Step != len(domain.DefaultOnboardingFields) || s.Profile.Len() != s.Step {
		t.Fatalf("expected a consistent completed onboarding, got step=%d profile=%d", s.Step, s.Profile.Len())
	}
	if len(s.History) > domain.HistoryLimit {
		t.Fatalf("history exceeded limit: %d", len(s.History))
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
