package middleware

import (
	"io"
	"log/slog"

	"anoa.com/mediannsp/pkg/response"
	"github.com/gin-gonic/gin"
)

// Recovery turns a panic into a 500 with the generic error body.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, err any) {
		logger.ErrorContext(c.Request.Context(), "panic recovered",
			slog.Any("error", err),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
		)
		response.InternalError(c)
	})
}
