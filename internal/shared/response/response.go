package response

import (
	"time"

	"github.com/gin-gonic/gin"

	"library-backend/internal/shared/apperr"
)

// Response is the envelope of single-resource and action responses.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorBody is the envelope of every failed request.
type ErrorBody struct {
	Success   bool        `json:"success"`
	Status    string      `json:"status"`
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// Success writes {success: true, message?, data?}.
func Success(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// JSON writes body as is. Paginated lists use it so the body is exactly
// {data, pagination}.
func JSON(c *gin.Context, statusCode int, body interface{}) {
	c.JSON(statusCode, body)
}

// Error writes the error envelope for e. debug, when non-empty, is exposed
// in the "error" field and is only set in development.
func Error(c *gin.Context, e *apperr.AppError, debug string) {
	c.AbortWithStatusJSON(e.Status, ErrorBody{
		Success:   false,
		Status:    "error",
		Code:      e.Code,
		Message:   e.Message,
		Details:   e.Details,
		Error:     debug,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	})
}
