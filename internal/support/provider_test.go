package support

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"companion-chat/internal/domain"
	"companion-chat/internal/util"
)

type stubFetcher struct {
	text  string
	err   error
	calls int
}

func (s *stubFetcher) Fetch(context.Context) (string, error) {
	s.calls++
	return s.text, s.err
}

type memoryQuoteCache struct {
	items map[domain.SupportKind][]string
	err   error
}

func newMemoryQuoteCache() *memoryQuoteCache {
	return &memoryQuoteCache{items: make(map[domain.SupportKind][]string)}
}

func (m *memoryQuoteCache) Remember(_ context.Context, kind domain.SupportKind, text string) error {
	if m.err != nil {
		return m.err
	}
	m.items[kind] = append(m.items[kind], text)
	return nil
}

func (m *memoryQuoteCache) Random(_ context.Context, kind domain.SupportKind) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if len(m.items[kind]) == 0 {
		return "", nil
	}
	return m.items[kind][0], nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestFallbackProvider_Get(t *testing.T) {
	t.Run("remoto ok se cachea", func(t *testing.T) {
		f := &stubFetcher{text: "  You are enough.  "}
		cache := newMemoryQuoteCache()
		p := NewFallbackProvider(domain.SupportAffirmation, f, DefaultAffirmations, util.NewRand(1), WithCache(cache))

		if got := p.Get(context.Background()); got != "You are enough." {
			t.Fatalf("unexpected text %q", got)
		}
		if len(cache.items[domain.SupportAffirmation]) != 1 {
			t.Fatalf("expected remote text cached")
		}
	})

	t.Run("error remoto usa lista local", func(t *testing.T) {
		var reasons []string
		f := &stubFetcher{err: errors.New("network down")}
		p := NewFallbackProvider(domain.SupportMotivation, f, DefaultMotivations, util.NewRand(1),
			WithFallbackHook(func(_ domain.SupportKind, reason string) { reasons = append(reasons, reason) }))

		got := p.Get(context.Background())
		if !contains(DefaultMotivations, got) {
			t.Fatalf("expected local fallback, got %q", got)
		}
		if len(reasons) != 1 || reasons[0] != "provider_error" {
			t.Fatalf("expected provider_error hook, got %v", reasons)
		}
	})

	t.Run("error remoto prefiere cache", func(t *testing.T) {
		cache := newMemoryQuoteCache()
		_ = cache.Remember(context.Background(), domain.SupportMotivation, "Cached quote — Someone")
		f := &stubFetcher{err: errors.New("boom")}
		p := NewFallbackProvider(domain.SupportMotivation, f, DefaultMotivations, util.NewRand(1), WithCache(cache))

		if got := p.Get(context.Background()); got != "Cached quote — Someone" {
			t.Fatalf("expected cached quote, got %q", got)
		}
	})

	t.Run("cache con error cae a lista local", func(t *testing.T) {
		cache := &memoryQuoteCache{err: errors.New("redis down")}
		f := &stubFetcher{err: errors.New("boom")}
		p := NewFallbackProvider(domain.SupportAffirmation, f, DefaultAffirmations, util.NewRand(3), WithCache(cache))

		if got := p.Get(context.Background()); !contains(DefaultAffirmations, got) {
			t.Fatalf("expected local fallback, got %q", got)
		}
	})

	t.Run("limitador evita llamadas", func(t *testing.T) {
		f := &stubFetcher{text: "remote"}
		limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
		p := NewFallbackProvider(domain.SupportMotivation, f, DefaultMotivations, util.NewRand(1), WithLimiter(limiter))

		if got := p.Get(context.Background()); got != "remote" {
			t.Fatalf("expected first call to go remote, got %q", got)
		}
		if got := p.Get(context.Background()); !contains(DefaultMotivations, got) {
			t.Fatalf("expected throttled call to use fallback, got %q", got)
		}
		if f.calls != 1 {
			t.Fatalf("expected exactly one remote call, got %d", f.calls)
		}
	})

	t.Run("sin fetcher", func(t *testing.T) {
		p := NewFallbackProvider(domain.SupportAffirmation, nil, DefaultAffirmations, util.NewRand(1))
		if got := p.Get(context.Background()); !contains(DefaultAffirmations, got) {
			t.Fatalf("expected local fallback, got %q", got)
		}
	})
}
