package apperrors

import "fmt"

// ValidationError reports input rejected before any network call, or stored
// state that failed to parse and was reset to a safe default.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidation creates a ValidationError with the given user-facing message.
func NewValidation(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// AuthenticationError is returned when the login endpoint answers with a
// non-success status. Message carries the server-supplied text.
type AuthenticationError struct {
	StatusCode int
	Message    string
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

// RegistrationError is the registration counterpart of AuthenticationError.
type RegistrationError struct {
	StatusCode int
	Message    string
}

func (e *RegistrationError) Error() string {
	return e.Message
}

// TransportError wraps a network-level failure reaching the storefront API.
// It carries the operation name for logs and the underlying error for
// errors.Is/As chains.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransport wraps err as a TransportError for the named operation.
func NewTransport(op string, err error) *TransportError {
	return &TransportError{Op: op, Err: err}
}
