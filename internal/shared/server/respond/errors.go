package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/shared/validation"
)

// Error codes shared across handlers.
const (
	CodeValidation         = "validation_error"
	CodeNotFound           = "not_found"
	CodeUnauthorized       = "unauthorized"
	CodeLLMUnavailable     = "llm_unavailable"
	CodeLLMInvalidResponse = "llm_invalid_response"
	CodeUpstream           = "upstream_error"
	CodeLimitReached       = "limit_reached"
	CodeConflict           = "conflict"
	CodeInternal           = "internal_error"
)

// ErrorBody defines the standardized error object.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorResponse wraps the error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// Error sends a standardized error response.
func Error(c *gin.Context, status int, code, message string, details any) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if userID := c.GetString("userId"); userID != "" {
		fields["user_id"] = userID
	}
	if isGuest, ok := c.Get("isGuest"); ok {
		fields["is_guest"] = isGuest
	}
	if status >= http.StatusInternalServerError {
		telemetry.Error("http.error", fields)
	} else {
		telemetry.Warn("http.error", fields)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// Validation responds 400 with validator field errors flattened into details.
func Validation(c *gin.Context, message string, fieldErrs []validation.FieldError) {
	var details any
	if len(fieldErrs) > 0 {
		details = fieldErrs
	}
	Error(c, http.StatusBadRequest, CodeValidation, message, details)
}

// BadRequest responds 400 validation_error without details.
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, CodeValidation, message, nil)
}

// NotFound responds 404.
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, CodeNotFound, message, nil)
}

// Internal responds 500 and hides err from the client.
func Internal(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	Error(c, http.StatusInternalServerError, CodeInternal, "Unexpected server error", nil)
}
