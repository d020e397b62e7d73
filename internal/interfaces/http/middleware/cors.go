// Package middleware holds the gin middleware of the HTTP API.
package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORSConfig holds configuration for CORS middleware.
type CORSConfig struct {
	// AllowedOrigins lists origins allowed to make cross-origin requests.
	// ["*"] allows every origin; with AllowCredentials the request origin is
	// echoed back instead of "*".
	AllowedOrigins []string

	AllowedMethods []string
	AllowedHeaders []string
	ExposedHeaders []string

	AllowCredentials bool

	// MaxAge is how long, in seconds, preflight results may be cached.
	MaxAge int

	// AllowWildcard enables subdomain patterns such as *.example.com.
	AllowWildcard bool
}

// DefaultCORSConfig allows every origin, method and header with
// credentials, which is what the browser viewer needs.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           86400,
	}
}

// CORS returns middleware that handles Cross-Origin Resource Sharing.
func CORS(config CORSConfig) gin.HandlerFunc {
	allowedMethodsStr := strings.Join(config.AllowedMethods, ", ")
	exposedHeadersStr := strings.Join(config.ExposedHeaders, ", ")
	maxAgeStr := strconv.Itoa(config.MaxAge)

	allowAnyHeader := false
	for _, h := range config.AllowedHeaders {
		if h == "*" {
			allowAnyHeader = true
		}
	}
	allowedHeadersStr := strings.Join(config.AllowedHeaders, ", ")

	originSet := make(map[string]bool, len(config.AllowedOrigins))
	var wildcardPatterns []string
	allowAll := false
	for _, origin := range config.AllowedOrigins {
		switch {
		case origin == "*":
			allowAll = true
		case config.AllowWildcard && strings.HasPrefix(origin, "*."):
			wildcardPatterns = append(wildcardPatterns, origin[1:])
		default:
			originSet[strings.ToLower(origin)] = true
		}
	}

	isOriginAllowed := func(origin string) bool {
		if allowAll || originSet[strings.ToLower(origin)] {
			return true
		}
		for _, pattern := range wildcardPatterns {
			if strings.HasSuffix(strings.ToLower(origin), pattern) {
				return true
			}
		}
		return false
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" || !isOriginAllowed(origin) {
			c.Next()
			return
		}

		h := c.Writer.Header()
		h.Add("Vary", "Origin")
		h.Add("Vary", "Access-Control-Request-Method")
		h.Add("Vary", "Access-Control-Request-Headers")

		if allowAll && !config.AllowCredentials {
			h.Set("Access-Control-Allow-Origin", "*")
		} else {
			h.Set("Access-Control-Allow-Origin", origin)
		}
		if config.AllowCredentials {
			h.Set("Access-Control-Allow-Credentials", "true")
		}

		if c.Request.Method == http.MethodOptions {
			h.Set("Access-Control-Allow-Methods", allowedMethodsStr)
			if allowAnyHeader {
				// Credentialed requests ignore "*": mirror the requested headers.
				if req := c.GetHeader("Access-Control-Request-Headers"); req != "" {
					h.Set("Access-Control-Allow-Headers", req)
				}
			} else if allowedHeadersStr != "" {
				h.Set("Access-Control-Allow-Headers", allowedHeadersStr)
			}
			if config.MaxAge > 0 {
				h.Set("Access-Control-Max-Age", maxAgeStr)
			}
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		if exposedHeadersStr != "" {
			h.Set("Access-Control-Expose-Headers", exposedHeadersStr)
		}
		c.Next()
	}
}

//Personal.AI order the ending
