package response

import (
	"errors"
	"log/slog"
	"net/http"

	"anoa.com/mediannsp/pkg/apperror"
	"anoa.com/mediannsp/pkg/validator"
	"github.com/gin-gonic/gin"
	playground "github.com/go-playground/validator/v10"
)

const internalMessage = "Something went wrong!"

// Error writes the standardized {"error": msg} body for err.
func Error(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	// Log internal errors
	if code >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "internal error",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
	}

	c.JSON(code, gin.H{"error": err.Error()})
}

// BindError writes a 400 for a failed gin binding, formatting validator errors.
func BindError(c *gin.Context, err error) {
	var verrs playground.ValidationErrors
	if errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(verrs)})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// Abort writes an error body and stops the handler chain.
func Abort(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// Message writes {"message": msg} with status 200.
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// InternalError is the catch-all body used by recovery.
func InternalError(c *gin.Context) {
	Abort(c, http.StatusInternalServerError, internalMessage)
}
