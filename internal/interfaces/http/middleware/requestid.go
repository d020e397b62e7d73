package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

type requestIDCtxKey struct{}

// RequestID reuses an incoming X-Request-ID or assigns a new UUID, echoes it
// on the response and stores it on both the gin and request contexts.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), requestIDCtxKey{}, id))
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Next()
	}
}

// ContextGetRequestID returns the request id stored by RequestID.
func ContextGetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDCtxKey{}).(string)
	return id
}

// GetRequestID returns the request id of c.
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

//Personal.AI order the ending
