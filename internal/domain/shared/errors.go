package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound      = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrValidation    = NewDomainError("VALIDATION_FAILED", "A required field is missing or invalid")
	ErrFetchFailed   = NewDomainError("FETCH_FAILED", "Event source temporarily unavailable")
	ErrWriteConflict = NewDomainError("WRITE_CONFLICT", "Aggregate was modified by a concurrent reconciliation")
	ErrInvalidState  = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// ErrorCode extracts the domain error code from an error chain.
// Returns an empty string when the error is not a DomainError.
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// IsRetryable reports whether the error represents a transient source
// failure that a bounded retry may recover from.
func IsRetryable(err error) bool {
	return ErrorCode(err) == ErrFetchFailed.Code
}
