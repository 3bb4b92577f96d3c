package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPricingMetricsRecord(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewPricingMetrics(reg)

	m.ObserveDuration("authoritative", 120*time.Millisecond)
	m.IncOutcome("authoritative", "ok")
	m.IncOutcome("authoritative", "ok")
	m.IncOutcome("instant", "")
	m.IncCacheHit()
	m.IncCacheMiss()
	m.IncCacheMiss()

	if got := testutil.ToFloat64(m.outcomes.WithLabelValues("authoritative", "ok")); got != 2 {
		t.Fatalf("expected 2 ok outcomes, got %f", got)
	}
	if got := testutil.ToFloat64(m.outcomes.WithLabelValues("instant", "unknown")); got != 1 {
		t.Fatalf("expected empty outcome to normalize, got %f", got)
	}
	if got := testutil.ToFloat64(m.cacheMisses); got != 2 {
		t.Fatalf("expected 2 cache misses, got %f", got)
	}
}

func TestPricingMetricsNilSafe(t *testing.T) {
	t.Parallel()

	var m *PricingMetrics
	m.ObserveDuration("authoritative", time.Second)
	m.IncOutcome("authoritative", "ok")
	m.IncCacheHit()
	m.IncCacheMiss()

	unregistered := NewPricingMetrics(nil)
	unregistered.IncOutcome("instant", "ok")
}
