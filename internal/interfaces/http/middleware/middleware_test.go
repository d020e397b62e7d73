package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MathioLucas/Molecular-expolrer/internal/testutil"
)

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.POST("/echo", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.String(http.StatusRequestEntityTooLarge, err.Error())
			return
		}
		c.String(http.StatusOK, string(body))
	})
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })
	r.GET("/fail", func(c *gin.Context) { c.Status(http.StatusBadGateway) })
	return r
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ─────────────────────────────────────────────────────────────────────────────
// CORS
// ─────────────────────────────────────────────────────────────────────────────

func TestCORS_EchoesOriginWithCredentials(t *testing.T) {
	r := newEngine(CORS(DefaultCORSConfig()))
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("Origin", "http://localhost:3000")

	w := serve(r, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, RequestIDHeader, w.Header().Get("Access-Control-Expose-Headers"))
}

func TestCORS_Preflight(t *testing.T) {
	r := newEngine(CORS(DefaultCORSConfig()))
	req := httptest.NewRequest(http.MethodOptions, "/molecule", nil)
	req.Header.Set("Origin", "https://viewer.example.org")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "content-type, x-custom")

	w := serve(r, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://viewer.example.org", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
	assert.Equal(t, "content-type, x-custom", w.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "86400", w.Header().Get("Access-Control-Max-Age"))
}

func TestCORS_NoOrigin(t *testing.T) {
	r := newEngine(CORS(DefaultCORSConfig()))

	w := serve(r, httptest.NewRequest(http.MethodGet, "/ok", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_RestrictedOrigins(t *testing.T) {
	cfg := CORSConfig{
		AllowedOrigins: []string{"https://app.example.com", "*.example.org"},
		AllowedMethods: []string{http.MethodGet},
		AllowWildcard:  true,
	}
	r := newEngine(CORS(cfg))

	for origin, allowed := range map[string]bool{
		"https://app.example.com":  true,
		"https://lab.example.org":  true,
		"https://evil.example.net": false,
	} {
		req := httptest.NewRequest(http.MethodGet, "/ok", nil)
		req.Header.Set("Origin", origin)
		w := serve(r, req)
		if allowed {
			assert.Equal(t, origin, w.Header().Get("Access-Control-Allow-Origin"), origin)
		} else {
			assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"), origin)
		}
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	}
}

func TestCORS_WildcardWithoutCredentials(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowCredentials = false
	r := newEngine(CORS(cfg))
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("Origin", "http://localhost:5173")

	w := serve(r, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

// ─────────────────────────────────────────────────────────────────────────────
// Request id
// ─────────────────────────────────────────────────────────────────────────────

func TestRequestID_Generated(t *testing.T) {
	var seen string
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/id", func(c *gin.Context) {
		seen = ContextGetRequestID(c.Request.Context())
		assert.Equal(t, seen, GetRequestID(c))
		c.Status(http.StatusOK)
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/id", nil))

	id := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, seen)
}

func TestRequestID_Propagated(t *testing.T) {
	r := newEngine(RequestID())
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(RequestIDHeader, "req-123")

	w := serve(r, req)

	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
}

func TestRequestID_OversizedIsReplaced(t *testing.T) {
	r := newEngine(RequestID())
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", 200))

	w := serve(r, req)

	_, err := uuid.Parse(w.Header().Get(RequestIDHeader))
	assert.NoError(t, err)
}

// ─────────────────────────────────────────────────────────────────────────────
// Logging
// ─────────────────────────────────────────────────────────────────────────────

func TestRequestLogging_Levels(t *testing.T) {
	logger := testutil.NewMockLogger()
	r := newEngine(RequestID(), RequestLogging(logger, DefaultLoggingConfig()))

	serve(r, httptest.NewRequest(http.MethodGet, "/ok?x=1", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/fail", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.True(t, logger.HasMessage("info", "HTTP request completed"))
	assert.True(t, logger.HasMessage("error", "HTTP request completed with server error"))
	assert.True(t, logger.HasMessage("warn", "HTTP request completed with client error"))

	path, ok := logger.Field("HTTP request completed", "path")
	require.True(t, ok)
	assert.Equal(t, "/ok?x=1", path)
	id, ok := logger.Field("HTTP request completed", "request_id")
	require.True(t, ok)
	assert.NotEmpty(t, id)
}

func TestRequestLogging_SkipPaths(t *testing.T) {
	logger := testutil.NewMockLogger()
	r := newEngine(RequestLogging(logger, LoggingConfig{SkipPaths: []string{"/ok"}}))

	serve(r, httptest.NewRequest(http.MethodGet, "/ok", nil))

	assert.Empty(t, logger.GetMessages())
}

// ─────────────────────────────────────────────────────────────────────────────
// Recovery and body limit
// ─────────────────────────────────────────────────────────────────────────────

func TestRecovery(t *testing.T) {
	logger := testutil.NewMockLogger()
	r := newEngine(Recovery(logger))

	w := serve(r, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"internal server error"}`, w.Body.String())
	v, ok := logger.Field("Panic while serving request", "panic")
	require.True(t, ok)
	assert.Equal(t, "kaboom", v)
}

func TestBodyLimit(t *testing.T) {
	r := newEngine(BodyLimit(8))

	w := serve(r, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("short")))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "short", w.Body.String())

	w = serve(r, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("far too long a body")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

//Personal.AI order the ending
