package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounterIsLazilyCreatedAndReused(t *testing.T) {
	r := New()
	c1 := r.counter("widget_total", "widgets seen", "kind")
	c2 := r.counter("widget_total", "widgets seen", "kind")
	assert.Same(t, c1, c2)
}

func TestCDVVSetMetricsObserveSync(t *testing.T) {
	r := New()
	m := NewCDVVSetMetrics(r)

	m.ObserveSync(SyncConcurrent, 0.01)
	m.ObserveSync(SyncConcurrent, 0.02)
	m.ObserveSync(SyncEqual, 0.01)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.SyncTotal.WithLabelValues(string(SyncConcurrent))))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.SyncTotal.WithLabelValues(string(SyncEqual))))
}

func TestCDVVSetMetricsObserveUpdate(t *testing.T) {
	r := New()
	m := NewCDVVSetMetrics(r)

	m.ObserveUpdate("2")
	m.ObserveUpdate("3")
	m.ObserveUpdate("3")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.UpdateTotal.WithLabelValues("2")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.UpdateTotal.WithLabelValues("3")))
}

func TestCDVVSetMetricsObserveResolver(t *testing.T) {
	r := New()
	m := NewCDVVSetMetrics(r)

	m.ObserveResolver(ResolverLWW, OriginEntry)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.ResolverTotal.WithLabelValues(string(ResolverLWW), string(OriginEntry))))
}

func TestCDVVSetMetricsSetClockSize(t *testing.T) {
	r := New()
	m := NewCDVVSetMetrics(r)

	m.SetClockSize("key-a", 3)
	m.SetClockSize("key-a", 5)

	assert.Equal(t, float64(5), testutil.ToFloat64(m.ClockSize.WithLabelValues("key-a")))
}

func TestHandlerExposesRegisteredMetrics(t *testing.T) {
	r := New()
	m := NewCDVVSetMetrics(r)
	m.ObserveUpdate("2")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	r.Handler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "cdvvset_update_total")
}
