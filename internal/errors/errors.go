// Package errors defines the structured API error responses shared by every
// HTTP handler.
package errors

import (
	"net/http"

	"github.com/go-chi/render"
)

// APIError is the JSON error body returned by the query surface.
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// Render implements render.Renderer.
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// New creates an APIError.
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates an APIError carrying extra context.
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Predefined errors for common scenarios.
var (
	ErrInvalidRequest   = New(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format")
	ErrInvalidParameter = New(http.StatusBadRequest, "INVALID_PARAMETER", "Invalid parameter value")

	ErrMissingAPIKey = New(http.StatusUnauthorized, "MISSING_API_KEY", "Missing X-API-Key header")
	ErrInvalidAPIKey = New(http.StatusUnauthorized, "INVALID_API_KEY", "Invalid API key")

	ErrNotFound      = New(http.StatusNotFound, "NOT_FOUND", "Resource not found")
	ErrStockNotFound = New(http.StatusNotFound, "STOCK_NOT_FOUND", "Stock not found")

	ErrRateLimitExceeded = New(http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Rate limit exceeded")

	ErrInternalServer = New(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
)

// StockNotFound builds a 404 naming the missing ticker.
func StockNotFound(ticker string) *APIError {
	return NewWithDetails(http.StatusNotFound, "STOCK_NOT_FOUND", "Stock not found", map[string]string{"ticker": ticker})
}

// InvalidParameter builds a 400 naming the offending parameter.
func InvalidParameter(name, reason string) *APIError {
	return NewWithDetails(http.StatusBadRequest, "INVALID_PARAMETER", "Invalid parameter value",
		map[string]string{"parameter": name, "reason": reason})
}
