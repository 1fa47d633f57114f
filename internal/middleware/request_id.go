package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"peerlink_backend/internal/logger"
)

const requestIDHeader = "X-Request-ID"

// RequestIDMiddleware assigns every request an id, reusing the
// client-provided one when present.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Header(requestIDHeader, requestID)

		ctx := logger.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
