package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CtxRequestID is the context key holding the id assigned to the request.
const CtxRequestID = "request_id"

const maxRequestIDLength = 128

// RequestTracingMiddleware tags every request with an id and echoes it back
// in the X-Request-ID response header. An id supplied by the caller (or an
// upstream proxy) is reused so traces stay continuous across services;
// otherwise a fresh uuid is assigned.
func RequestTracingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = uuid.New().String()
		}
		c.Set(CtxRequestID, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// RequestID returns the id assigned by RequestTracingMiddleware, or "" when
// the middleware did not run.
func RequestID(c *gin.Context) string {
	return c.GetString(CtxRequestID)
}
