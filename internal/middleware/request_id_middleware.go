package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"checkit-dashboard/pkg/logger"
)

const (
	RequestIDHeader     = "X-Request-ID"
	RequestIDContextKey = "request_id"

	maxRequestIDLength = 64
)

// RequestIDMiddleware propagates a caller supplied request id when it looks
// sane and otherwise issues a fresh one. The id is echoed in the response
// and attached to the request logger.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if !validRequestID(requestID) {
			requestID = uuid.NewString()
		}

		c.Set(RequestIDContextKey, requestID)
		c.Header(RequestIDHeader, requestID)

		ctx := logger.ContextWithFields(c.Request.Context(), map[string]interface{}{"request_id": requestID})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// validRequestID keeps ids printable and short so they are safe in log lines.
func validRequestID(value string) bool {
	if value == "" || len(value) > maxRequestIDLength {
		return false
	}
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.':
		default:
			return false
		}
	}
	return true
}
