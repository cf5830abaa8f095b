package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Unified response structure for all API endpoints. Success responses wrap
// the payload in "data"; error responses carry a machine-readable code, a
// human-readable message, and optional per-field details.

// ErrorCode defines standard error codes for programmatic handling
type ErrorCode string

const (
	// Client errors (4xx)
	ErrCodeBadRequest   ErrorCode = "BAD_REQUEST"      // 400 - Malformed request
	ErrCodeValidation   ErrorCode = "VALIDATION_ERROR" // 400 - Validation failed
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"     // 401 - Not authenticated
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"        // 403 - Not authorized
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"        // 404 - Resource not found
	ErrCodeConflict     ErrorCode = "CONFLICT"         // 409 - Resource conflict
	ErrCodeInvalidType  ErrorCode = "INVALID_TYPE"     // 400 - Unsupported file type
	ErrCodeTooLarge     ErrorCode = "TOO_LARGE"        // 413 - File exceeds size ceiling

	// Server errors (5xx)
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR" // 500 - Unexpected error
	ErrCodeFetch    ErrorCode = "FETCH_ERROR"    // 502 - External service failed
)

// ErrorDetail provides additional context for validation errors
type ErrorDetail struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ErrorResponse is the standard error response structure
type ErrorResponse struct {
	Error struct {
		Code    ErrorCode     `json:"code"`
		Message string        `json:"message"`
		Details []ErrorDetail `json:"details,omitempty"`
	} `json:"error"`
}

// DataResponse wraps a single resource or object response
type DataResponse[T any] struct {
	Data T `json:"data"`
}

// ListResponse wraps a collection of resources
type ListResponse[T any] struct {
	Data []T `json:"data"`
}

// RespondData sends a successful response with a single data object
func RespondData[T any](c *gin.Context, data T) {
	c.JSON(http.StatusOK, DataResponse[T]{Data: data})
}

// RespondCreated sends a 201 Created response with the created resource
func RespondCreated[T any](c *gin.Context, data T) {
	c.JSON(http.StatusCreated, DataResponse[T]{Data: data})
}

// RespondList sends a successful response with a list of items
func RespondList[T any](c *gin.Context, data []T) {
	// Ensure empty array instead of null
	if data == nil {
		data = []T{}
	}
	c.JSON(http.StatusOK, ListResponse[T]{Data: data})
}

// RespondNoContent sends a 204 No Content response
func RespondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// respondError is the internal helper for error responses
func respondError(c *gin.Context, status int, code ErrorCode, message string, details []ErrorDetail) {
	resp := ErrorResponse{}
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	c.JSON(status, resp)
}

// RespondBadRequest sends a 400 Bad Request error
func RespondBadRequest(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, ErrCodeBadRequest, message, nil)
}

// RespondValidationError sends a 400 Bad Request with validation details
func RespondValidationError(c *gin.Context, message string, details []ErrorDetail) {
	respondError(c, http.StatusBadRequest, ErrCodeValidation, message, details)
}

// RespondUnauthorized sends a 401 Unauthorized error
func RespondUnauthorized(c *gin.Context, message string) {
	respondError(c, http.StatusUnauthorized, ErrCodeUnauthorized, message, nil)
}

// RespondNotFound sends a 404 Not Found error
func RespondNotFound(c *gin.Context, message string) {
	respondError(c, http.StatusNotFound, ErrCodeNotFound, message, nil)
}

// RespondConflict sends a 409 Conflict error
func RespondConflict(c *gin.Context, message string) {
	respondError(c, http.StatusConflict, ErrCodeConflict, message, nil)
}

// RespondInvalidType sends a 400 for an unsupported file type
func RespondInvalidType(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, ErrCodeInvalidType, message, nil)
}

// RespondTooLarge sends a 413 for a file over the size ceiling
func RespondTooLarge(c *gin.Context, message string) {
	respondError(c, http.StatusRequestEntityTooLarge, ErrCodeTooLarge, message, nil)
}

// RespondFetchError sends a 502 for an external service failure
func RespondFetchError(c *gin.Context, message string) {
	respondError(c, http.StatusBadGateway, ErrCodeFetch, message, nil)
}

// RespondInternalError sends a 500 Internal Server Error
func RespondInternalError(c *gin.Context, message string) {
	respondError(c, http.StatusInternalServerError, ErrCodeInternal, message, nil)
}
