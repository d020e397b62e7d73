package prometheus

import (
	"strconv"
	"time"
)

// AppMetrics holds every metric the service records.
type AppMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Molecule pipeline
	MoleculeRequestsTotal CounterVec
	StageDuration         HistogramVec
	EmbeddingAttempts     HistogramVec
	MoleculeAtoms         HistogramVec
	ActiveComputations    GaugeVec

	// Infrastructure
	CacheHitsTotal    CounterVec
	CacheMissesTotal  CounterVec
	EventsPublished   CounterVec
	ArtifactUploads   CounterVec
	HealthCheckStatus GaugeVec
}

var (
	DefaultHTTPDurationBuckets  = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 20}
	DefaultStageDurationBuckets = []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5, 20}
	DefaultAtomCountBuckets     = []float64{5, 10, 25, 50, 100, 200, 400}
	DefaultAttemptBuckets       = []float64{1, 2, 3, 5, 10}
)

// NewAppMetrics registers all metrics on collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method")

	m.MoleculeRequestsTotal = collector.RegisterCounter("molecule_requests_total", "Molecule pipeline runs by operation and outcome", "operation", "outcome")
	m.StageDuration = collector.RegisterHistogram("molecule_stage_duration_seconds", "Duration of each pipeline stage", DefaultStageDurationBuckets, "stage")
	m.EmbeddingAttempts = collector.RegisterHistogram("molecule_embedding_attempts", "Distance-geometry attempts per embedded molecule", DefaultAttemptBuckets)
	m.MoleculeAtoms = collector.RegisterHistogram("molecule_atoms", "Atom count of processed molecules, hydrogens included", DefaultAtomCountBuckets)
	m.ActiveComputations = collector.RegisterGauge("molecule_active_computations", "Computations holding a compute slot")

	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")
	m.EventsPublished = collector.RegisterCounter("events_published_total", "Domain events published", "topic", "status")
	m.ArtifactUploads = collector.RegisterCounter("artifact_uploads_total", "Artifact uploads to object storage", "kind", "status")
	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Health check status (1=up, 0=down)", "component")

	return m
}

// NewNoopAppMetrics returns metrics that record nothing.
func NewNoopAppMetrics() *AppMetrics {
	return &AppMetrics{
		HTTPRequestsTotal:     noopCounterVec{},
		HTTPRequestDuration:   noopHistogramVec{},
		HTTPActiveRequests:    noopGaugeVec{},
		MoleculeRequestsTotal: noopCounterVec{},
		StageDuration:         noopHistogramVec{},
		EmbeddingAttempts:     noopHistogramVec{},
		MoleculeAtoms:         noopHistogramVec{},
		ActiveComputations:    noopGaugeVec{},
		CacheHitsTotal:        noopCounterVec{},
		CacheMissesTotal:      noopCounterVec{},
		EventsPublished:       noopCounterVec{},
		ArtifactUploads:       noopCounterVec{},
		HealthCheckStatus:     noopGaugeVec{},
	}
}

// Helpers

func RecordHTTPRequest(metrics *AppMetrics, method, path string, statusCode int, duration time.Duration) {
	metrics.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func RecordStage(metrics *AppMetrics, stage string, duration time.Duration) {
	metrics.StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

func RecordOutcome(metrics *AppMetrics, operation, outcome string) {
	metrics.MoleculeRequestsTotal.WithLabelValues(operation, outcome).Inc()
}

func RecordCacheAccess(metrics *AppMetrics, cache string, hit bool) {
	if hit {
		metrics.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		metrics.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

func RecordPublish(metrics *AppMetrics, topic string, err error) {
	metrics.EventsPublished.WithLabelValues(topic, status(err)).Inc()
}

func RecordUpload(metrics *AppMetrics, kind string, err error) {
	metrics.ArtifactUploads.WithLabelValues(kind, status(err)).Inc()
}

func SetHealth(metrics *AppMetrics, component string, up bool) {
	v := 0.0
	if up {
		v = 1
	}
	metrics.HealthCheckStatus.WithLabelValues(component).Set(v)
}

func status(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

//Personal.AI order the ending
