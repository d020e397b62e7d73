package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/MathioLucas/Molecular-expolrer/internal/infrastructure/monitoring/logging"
)

// Recovery turns a panic in a handler into a logged 500 with a JSON body.
func Recovery(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			logger.Error("Panic while serving request",
				logging.String("panic", fmt.Sprint(rec)),
				logging.String("path", c.Request.URL.Path),
				logging.String("request_id", GetRequestID(c)),
				logging.String("stack", string(debug.Stack())))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "internal server error",
			})
		}()
		c.Next()
	}
}

// BodyLimit caps request bodies at n bytes. Reads past the limit fail,
// which the handlers report as an invalid body.
func BodyLimit(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if n > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}

//Personal.AI order the ending
