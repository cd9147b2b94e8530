package dto

import (
	"net/http"
	"strings"
)

// Transport-level error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL"
)

// Domain error codes surfaced by the application layer. The strings match
// shared.DomainError codes so handlers can pass them through unchanged.
const (
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeAlreadyExists      = "ALREADY_EXISTS"
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodeFetchFailed        = "FETCH_FAILED"
	ErrCodeWriteConflict      = "WRITE_CONFLICT"
	ErrCodeInvalidState       = "INVALID_STATE"
	ErrCodeInsufficientPoints = "INSUFFICIENT_POINTS"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeInternal:   http.StatusInternalServerError,

	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeAlreadyExists:      http.StatusConflict,
	ErrCodeValidationFailed:   http.StatusBadRequest,
	ErrCodeFetchFailed:        http.StatusServiceUnavailable,
	ErrCodeWriteConflict:      http.StatusConflict,
	ErrCodeInvalidState:       http.StatusUnprocessableEntity,
	ErrCodeInsufficientPoints: http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Aggregate validation codes (INVALID_CODE, INVALID_NAME, ...) map to 400;
// anything else unmapped is a 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
