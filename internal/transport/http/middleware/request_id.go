package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/FrancoTaaber/photos-api/internal/infra/logger"
)

// RequestIDHeader carries the correlation identifier between services.
const RequestIDHeader = "X-Request-ID"

// RequestID propagates an inbound correlation identifier, minting one when
// absent, and stores it where the logger helpers can find it.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)

		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey{}, id)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
