package prometheus

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MathioLucas/Molecular-expolrer/internal/infrastructure/monitoring/logging"
)

func newTestCollector(t *testing.T) MetricsCollector {
	t.Helper()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "test", Subsystem: "unit"}, logging.NewNopLogger())
	require.NoError(t, err)
	return c
}

func scrapeMetrics(t *testing.T, collector MetricsCollector) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	collector.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestNewMetricsCollector_EmptyNamespace(t *testing.T) {
	_, err := NewMetricsCollector(CollectorConfig{Subsystem: "unit"}, logging.NewNopLogger())
	assert.Error(t, err)
}

func TestNewMetricsCollector_WithRuntimeMetrics(t *testing.T) {
	c, err := NewMetricsCollector(CollectorConfig{
		Namespace:            "test",
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, logging.NewNopLogger())
	require.NoError(t, err)
	output := scrapeMetrics(t, c)
	assert.Contains(t, output, "go_goroutines")
}

func TestRegisterCounter_WithLabels(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterCounter("http_requests", "HTTP requests", "method").WithLabelValues("GET").Add(5)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_http_requests{method="GET"} 5`)
}

func TestRegisterCounter_DuplicateSharesVector(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterCounter("dup", "help").WithLabelValues().Inc()
	c.RegisterCounter("dup", "help").WithLabelValues().Inc()

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, "test_unit_dup 2")
}

func TestRegisterGauge(t *testing.T) {
	c := newTestCollector(t)
	g := c.RegisterGauge("inflight", "In flight")
	g.WithLabelValues().Set(3)
	g.WithLabelValues().Dec()

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, "test_unit_inflight 2")
}

func TestRegisterHistogram_DefaultBuckets(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterHistogram("latency", "Latency", nil).WithLabelValues().Observe(0.1)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_latency_bucket{le="0.1"} 1`)
}

func TestTypeConflictReturnsNoop(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterCounter("conflict", "help").WithLabelValues().Inc()

	gauge := c.RegisterGauge("conflict", "help")
	assert.IsType(t, noopGaugeVec{}, gauge)
	gauge.WithLabelValues().Set(10)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, "# TYPE test_unit_conflict counter")
}

func TestTimer_ObservesDuration(t *testing.T) {
	c := newTestCollector(t)
	hist := c.RegisterHistogram("timer_test", "Timer test", nil)
	timer := NewTimer(hist.WithLabelValues())
	time.Sleep(5 * time.Millisecond)
	assert.GreaterOrEqual(t, timer.ObserveDuration(), 5*time.Millisecond)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, "test_unit_timer_test_count 1")
	assert.NotPanics(t, func() { NewTimer(nil).ObserveDuration() })
}

func TestConcurrentRegistration(t *testing.T) {
	c := newTestCollector(t)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.RegisterCounter("concurrent", "help", "id").WithLabelValues("1").Inc()
		}()
	}
	wg.Wait()

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_concurrent{id="1"} 50`)
}

//Personal.AI order the ending
