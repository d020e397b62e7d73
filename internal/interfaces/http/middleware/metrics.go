package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MathioLucas/Molecular-expolrer/internal/infrastructure/monitoring/prometheus"
)

// Metrics records request counts, latencies and in-flight requests. The path
// label is the route template, never the raw URL; unmatched requests share
// the label "unmatched".
func Metrics(m *prometheus.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		active := m.HTTPActiveRequests.WithLabelValues(method)
		active.Inc()
		start := time.Now()

		c.Next()

		active.Dec()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		prometheus.RecordHTTPRequest(m, method, path, c.Writer.Status(), time.Since(start))
	}
}

//Personal.AI order the ending
