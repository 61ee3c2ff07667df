package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"companion-chat/internal/domain"
)

// Resultados posibles de un turno.
const (
	OutcomeCrisis             = "crisis"
	OutcomeOnboarding         = "onboarding"
	OutcomeAffirmation        = "support_affirmation"
	OutcomeMotivation         = "support_motivation"
	OutcomeRepetition         = "repetition"
	OutcomeGenerated          = "generated"
	OutcomeGenerationFallback = "generation_fallback"
)

var (
	turnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "companion_chat_turns_total",
		Help: "Chat turns by pipeline outcome",
	}, []string{"outcome"})

	providerFallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "companion_chat_provider_fallbacks_total",
		Help: "External provider calls replaced by a local fallback",
	}, []string{"provider", "reason"})

	generationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "companion_chat_generation_duration_seconds",
		Help:    "Latency of generative model calls",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms a ~25s
	})
)

// RecordSupportFallback se usa como hook de los providers de apoyo.
func RecordSupportFallback(kind domain.SupportKind, reason string) {
	providerFallbacksTotal.WithLabelValues(kind.String(), reason).Inc()
}

func supportOutcome(kind domain.SupportKind) string {
	if kind == domain.SupportAffirmation {
		return OutcomeAffirmation
	}
	return OutcomeMotivation
}
