package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PricingMetrics records checkout estimate outcomes.
type PricingMetrics struct {
	duration    *prometheus.HistogramVec
	outcomes    *prometheus.CounterVec
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
}

// NewPricingMetrics registers the pricing metrics on the provided registerer.
func NewPricingMetrics(reg prometheus.Registerer) *PricingMetrics {
	if reg == nil {
		return &PricingMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_estimate_duration_seconds",
		Help:    "Duration of checkout estimates in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"path"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_estimate_outcomes_total",
		Help: "Checkout estimate outcomes by path and result.",
	}, []string{"path", "outcome"})
	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pricing_config_cache_hits_total",
		Help: "Shipping/tax configuration snapshot cache hits.",
	})
	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pricing_config_cache_misses_total",
		Help: "Shipping/tax configuration snapshot cache misses.",
	})
	reg.MustRegister(duration, outcomes, cacheHits, cacheMisses)
	return &PricingMetrics{
		duration:    duration,
		outcomes:    outcomes,
		cacheHits:   cacheHits,
		cacheMisses: cacheMisses,
	}
}

// ObserveDuration records how long an estimate took on the named path.
func (p *PricingMetrics) ObserveDuration(path string, duration time.Duration) {
	if p == nil || p.duration == nil {
		return
	}
	p.duration.WithLabelValues(normalizeLabel(path)).Observe(duration.Seconds())
}

// IncOutcome counts one estimate outcome ("ok", "degraded", "coupon_rejected").
func (p *PricingMetrics) IncOutcome(path, outcome string) {
	if p == nil || p.outcomes == nil {
		return
	}
	p.outcomes.WithLabelValues(normalizeLabel(path), normalizeLabel(outcome)).Inc()
}

// IncCacheHit counts a config snapshot served from cache.
func (p *PricingMetrics) IncCacheHit() {
	if p == nil || p.cacheHits == nil {
		return
	}
	p.cacheHits.Inc()
}

// IncCacheMiss counts a config snapshot fetched from the backend.
func (p *PricingMetrics) IncCacheMiss() {
	if p == nil || p.cacheMisses == nil {
		return
	}
	p.cacheMisses.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
