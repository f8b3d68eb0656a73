package domain

import "fmt"

// DomainError represents a business domain error with a structured error code.
// Codes have the form VR-<AREA>-<NNNN>; the leading three digits of the
// numeric part mirror the HTTP status the error maps to.
type DomainError struct {
	Code    string // Error code (e.g., "VR-VAULT-4030")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// PublicMessage returns the text safe to show to clients: the details when
// present, otherwise the message.
func (e *DomainError) PublicMessage() string {
	if e.Details != "" {
		return e.Details
	}
	return e.Message
}

// ============================================================================
// Vault Errors (VAULT)
// ============================================================================

var (
	// ErrVaultFull indicates a private vault already has two other participants.
	ErrVaultFull = NewDomainError("VR-VAULT-4030", "Private vault is full (max 2 participants).")
)

// ============================================================================
// Message Errors (MSG)
// ============================================================================

var (
	// ErrBlobTooLarge indicates a message blob exceeds MaxBlobLength.
	ErrBlobTooLarge = NewDomainError("VR-MSG-4130", "blob too large")

	// ErrAckBatchTooLarge indicates an ack named more than MaxAckBatch ids.
	ErrAckBatchTooLarge = NewDomainError("VR-MSG-4001", "too many messageIds (max 500)")
)

// ============================================================================
// System Errors (SYS)
// ============================================================================

var (
	// ErrInternalServer indicates an internal server error.
	ErrInternalServer = NewDomainError("VR-SYS-5000", "internal server error")

	// ErrBadRequest indicates a malformed request.
	ErrBadRequest = NewDomainError("VR-SYS-4000", "bad request")

	// ErrUnauthorized indicates a missing or wrong admin token.
	ErrUnauthorized = NewDomainError("VR-SYS-4010", "unauthorized")

	// ErrNotFound indicates an unknown route or request type.
	ErrNotFound = NewDomainError("VR-SYS-4040", "not found")

	// ErrPayloadTooLarge indicates the request body exceeded the server limit.
	ErrPayloadTooLarge = NewDomainError("VR-SYS-4130", "payload too large")

	// ErrRateLimited indicates too many requests.
	ErrRateLimited = NewDomainError("VR-SYS-4290", "too many requests")
)

// ============================================================================
// Argument Errors (ARG)
// ============================================================================

var (
	// ErrInvalidArgument indicates an invalid argument.
	ErrInvalidArgument = NewDomainError("VR-ARG-1001", "invalid argument")

	// ErrMissingArgument indicates a required argument is missing.
	ErrMissingArgument = NewDomainError("VR-ARG-1002", "missing required argument")
)
