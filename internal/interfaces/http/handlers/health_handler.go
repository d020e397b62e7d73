package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MathioLucas/Molecular-expolrer/internal/infrastructure/monitoring/prometheus"
)

// HealthChecker is a component that can report its health.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}

// CheckerFunc adapts a function to HealthChecker.
type CheckerFunc struct {
	ComponentName string
	Fn            func(ctx context.Context) error
}

func (f CheckerFunc) Name() string                    { return f.ComponentName }
func (f CheckerFunc) Check(ctx context.Context) error { return f.Fn(ctx) }

// HealthHandler handles health check HTTP requests.
type HealthHandler struct {
	checkers []HealthChecker
	version  string
	startAt  time.Time
	metrics  *prometheus.AppMetrics
	timeout  time.Duration
}

// NewHealthHandler creates a HealthHandler. Readiness fails when any checker
// fails; liveness never consults them.
func NewHealthHandler(version string, metrics *prometheus.AppMetrics, checkers ...HealthChecker) *HealthHandler {
	if metrics == nil {
		metrics = prometheus.NewNoopAppMetrics()
	}
	return &HealthHandler{
		checkers: checkers,
		version:  version,
		startAt:  time.Now(),
		metrics:  metrics,
		timeout:  5 * time.Second,
	}
}

// RegisterRoutes registers the health routes.
func (h *HealthHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/healthz", h.Liveness)
	r.GET("/readyz", h.Readiness)
}

// LivenessResponse is the response for the liveness check.
type LivenessResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// ReadinessResponse is the response for the readiness check.
type ReadinessResponse struct {
	Status     string                    `json:"status"`
	Components map[string]ComponentCheck `json:"components,omitempty"`
}

// ComponentCheck represents the health status of a single component.
type ComponentCheck struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Liveness handles GET /healthz.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, LivenessResponse{
		Status:  "alive",
		Version: h.version,
		Uptime:  time.Since(h.startAt).Truncate(time.Second).String(),
	})
}

// Readiness handles GET /readyz: 200 if every dependency is healthy, 503
// otherwise.
func (h *HealthHandler) Readiness(c *gin.Context) {
	if len(h.checkers) == 0 {
		c.JSON(http.StatusOK, ReadinessResponse{Status: "ready"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	components := h.checkAll(ctx)
	allHealthy := true
	for _, cc := range components {
		if cc.Status != "healthy" {
			allHealthy = false
			break
		}
	}

	resp := ReadinessResponse{Components: components}
	if allHealthy {
		resp.Status = "ready"
		c.JSON(http.StatusOK, resp)
		return
	}
	resp.Status = "not_ready"
	c.JSON(http.StatusServiceUnavailable, resp)
}

// checkAll runs all health checkers concurrently.
func (h *HealthHandler) checkAll(ctx context.Context) map[string]ComponentCheck {
	results := make(map[string]ComponentCheck, len(h.checkers))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, checker := range h.checkers {
		wg.Add(1)
		go func(hc HealthChecker) {
			defer wg.Done()

			start := time.Now()
			err := hc.Check(ctx)
			cc := ComponentCheck{
				Status:  "healthy",
				Latency: time.Since(start).Truncate(time.Microsecond).String(),
			}
			if err != nil {
				cc.Status = "unhealthy"
				cc.Error = err.Error()
			}
			prometheus.SetHealth(h.metrics, hc.Name(), err == nil)

			mu.Lock()
			results[hc.Name()] = cc
			mu.Unlock()
		}(checker)
	}

	wg.Wait()
	return results
}

//Personal.AI order the ending
