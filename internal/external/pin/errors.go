package pin

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidCard is matched by every *CardValidationError.
	ErrInvalidCard = errors.New("invalid card")

	// ErrTransport is matched by every *TransportError (HTTP 5xx, network failure).
	ErrTransport = errors.New("gateway transport failure")
)

// ValidationError reports required request fields that were missing
// before anything was sent.
type ValidationError struct {
	Fields []string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", ErrValidation, e.Reason)
	}
	return fmt.Sprintf("%s: the %s parameter is required", ErrValidation, strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func missing(fields ...string) error {
	return &ValidationError{Fields: fields}
}

// CardValidationError is returned when raw card details fail format rules.
type CardValidationError struct {
	Field  string
	Reason string
}

func (e *CardValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidCard, e.Field, e.Reason)
}

func (e *CardValidationError) Is(target error) bool {
	return target == ErrInvalidCard
}

// TransportError covers HTTP 5xx responses and network-level failures.
// Exactly one of StatusCode or Err is set.
type TransportError struct {
	StatusCode int
	Body       []byte
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", ErrTransport, e.Err)
	}
	return fmt.Sprintf("%s: status %d, body: %s", ErrTransport, e.StatusCode, string(e.Body))
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
