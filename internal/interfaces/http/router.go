package http

import (
	"github.com/gin-gonic/gin"

	"github.com/MathioLucas/Molecular-expolrer/internal/infrastructure/monitoring/logging"
	"github.com/MathioLucas/Molecular-expolrer/internal/infrastructure/monitoring/prometheus"
	"github.com/MathioLucas/Molecular-expolrer/internal/interfaces/http/handlers"
	"github.com/MathioLucas/Molecular-expolrer/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handlers and middleware settings needed to
// build the route tree.
type RouterConfig struct {
	// Handlers
	MoleculeHandler *handlers.MoleculeHandler
	HealthHandler   *handlers.HealthHandler

	// Middleware
	CORS        *middleware.CORSConfig
	Logging     *middleware.LoggingConfig
	MaxBodySize int64

	// Infrastructure
	Logger           logging.Logger
	MetricsCollector prometheus.MetricsCollector
	AppMetrics       *prometheus.AppMetrics
	MetricsPath      string
}

// NewRouter builds the gin engine: global middleware, health checks, metrics and
// the molecule API at the root path.
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	r := gin.New()

	// --- Global middleware (applied to every request) ---
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(logger))

	cors := middleware.DefaultCORSConfig()
	if cfg.CORS != nil {
		cors = *cfg.CORS
	}
	r.Use(middleware.CORS(cors))

	logCfg := middleware.DefaultLoggingConfig()
	if cfg.Logging != nil {
		logCfg = *cfg.Logging
	}
	r.Use(middleware.RequestLogging(logger.Named("http"), logCfg))

	if cfg.AppMetrics != nil {
		r.Use(middleware.Metrics(cfg.AppMetrics))
	}
	r.Use(middleware.BodyLimit(cfg.MaxBodySize))

	// --- Health and metrics ---
	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterRoutes(r)
	}
	if cfg.MetricsCollector != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(cfg.MetricsCollector.Handler()))
	}

	// --- Molecule API ---
	if cfg.MoleculeHandler != nil {
		cfg.MoleculeHandler.RegisterRoutes(r)
	}

	r.NoRoute(handlers.NoRoute)
	return r
}

//Personal.AI order the ending
