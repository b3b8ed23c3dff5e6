package brewerydb

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid brewerydb configuration")
	// ErrValidation indicates the caller supplied an invalid argument combination
	ErrValidation = errors.New("invalid request arguments")
	// ErrTransport indicates the HTTP call itself failed
	ErrTransport = errors.New("brewerydb request failed")
	// ErrService indicates the API answered with an error envelope
	ErrService = errors.New("brewerydb service error")
	// ErrNoResponse indicates there is no decodable response from the last call
	ErrNoResponse = errors.New("no decodable response")
)

// ValidationError is returned before any request is built when the arguments
// of an endpoint method do not make sense together.
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is reports whether target is ErrValidation
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// TransportError is returned when the GET request could not be completed.
// URI has the API key redacted.
type TransportError struct {
	URI string
	Err error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	return fmt.Sprintf("brewerydb transport error: %v", e.Err)
}

// Unwrap returns the underlying transport error
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrTransport
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// ServiceError carries the message of an {"error":{"message":...}} envelope.
type ServiceError struct {
	Message string
}

// Error implements the error interface
func (e *ServiceError) Error() string {
	return "brewerydb service error: " + e.Message
}

// Is reports whether target is ErrService
func (e *ServiceError) Is(target error) bool {
	return target == ErrService
}
