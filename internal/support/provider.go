// Package support resuelve afirmaciones y frases motivacionales con proveedores externos
// y listas locales de respaldo.
package support

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"companion-chat/internal/domain"
	"companion-chat/internal/util"
)

// Fetcher obtiene un texto de un servicio remoto.
type Fetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// Provider devuelve siempre un texto: remoto, cacheado o local.
type Provider interface {
	Get(ctx context.Context) string
}

// DefaultAffirmations se usan cuando el proveedor de afirmaciones falla.
var DefaultAffirmations = []string{
	"You're doing better than you think.",
	"You're enough, just as you are.",
	"Every day is a fresh start.",
	"Your presence is a gift to the world.",
	"You are worthy of love and respect.",
}

// DefaultMotivations se usan cuando el proveedor de frases falla.
var DefaultMotivations = []string{
	"Keep going. Everything you need will come to you at the perfect time.",
	"Difficult roads often lead to beautiful destinations.",
	"Push yourself, because no one else is going to do it for you.",
	"Success is what comes after you stop making excuses.",
	"You were not born to quit.",
}

// FallbackProvider combina fetcher remoto, limitador de salida, cache y lista local.
type FallbackProvider struct {
	kind       domain.SupportKind
	fetcher    Fetcher
	limiter    *rate.Limiter
	cache      QuoteCache
	fallbacks  []string
	rnd        util.Rand
	logger     *zap.Logger
	onFallback func(kind domain.SupportKind, reason string)
}

// Option configura un FallbackProvider.
type Option func(*FallbackProvider)

// WithLimiter limita las llamadas salientes; si no hay token se usa cache/fallback.
func WithLimiter(l *rate.Limiter) Option {
	return func(p *FallbackProvider) { p.limiter = l }
}

// WithCache guarda los textos remotos para reutilizarlos cuando el proveedor falla.
func WithCache(c QuoteCache) Option {
	return func(p *FallbackProvider) { p.cache = c }
}

// WithLogger asigna el logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *FallbackProvider) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithFallbackHook se invoca cada vez que no se usa el proveedor remoto.
func WithFallbackHook(fn func(kind domain.SupportKind, reason string)) Option {
	return func(p *FallbackProvider) { p.onFallback = fn }
}

func NewFallbackProvider(kind domain.SupportKind, fetcher Fetcher, fallbacks []string, rnd util.Rand, opts ...Option) *FallbackProvider {
	p := &FallbackProvider{
		kind:      kind,
		fetcher:   fetcher,
		fallbacks: fallbacks,
		rnd:       rnd,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *FallbackProvider) Get(ctx context.Context) string {
	reason := "disabled"
	if p.fetcher != nil {
		if p.limiter == nil || p.limiter.Allow() {
			text, err := p.fetcher.Fetch(ctx)
			text = strings.TrimSpace(text)
			if err == nil && text != "" {
				p.remember(ctx, text)
				return text
			}
			reason = "provider_error"
			p.logger.Warn("support provider failed", zap.String("kind", p.kind.String()), zap.Error(err))
		} else {
			reason = "throttled"
		}
	}

	if p.onFallback != nil {
		p.onFallback(p.kind, reason)
	}
	if p.cache != nil {
		if cached, err := p.cache.Random(ctx, p.kind); err == nil && cached != "" {
			return cached
		}
	}
	return util.Pick(p.rnd, p.fallbacks)
}

func (p *FallbackProvider) remember(ctx context.Context, text string) {
	if p.cache == nil {
		return
	}
	if err := p.cache.Remember(ctx, p.kind, text); err != nil {
		p.logger.Debug("quote cache write failed", zap.Error(err))
	}
}
