package core

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports bad input caught before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// GenerationError reports a model answer that could not be decoded into
// backlog items. Raw carries the full answer text for inspection.
type GenerationError struct {
	Raw string
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("could not decode model answer: %v (raw: %s)", e.Err, truncate(e.Raw, 120))
}

func (e *GenerationError) Unwrap() error { return e.Err }

// TransportError reports a failed exchange with an external service and
// preserves the provider's status code.
type TransportError struct {
	Service string
	Status  int
	Err     error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s request failed with status %d: %v", e.Service, e.Status, e.Err)
	}
	return fmt.Sprintf("%s request failed: %v", e.Service, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ItemFailure is one failed element of a batch operation that kept going.
type ItemFailure struct {
	Position int
	Name     string
	Err      error
}

// PartialError reports a batch operation where some elements failed while
// the rest completed.
type PartialError struct {
	Op       string
	Failures []ItemFailure
}

func (e *PartialError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s completed with %d failure(s):", e.Op, len(e.Failures))
	for _, f := range e.Failures {
		fmt.Fprintf(&b, "\n  #%d %s: %v", f.Position, f.Name, f.Err)
	}
	return b.String()
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsGeneration reports whether err is a GenerationError.
func IsGeneration(err error) bool {
	var ge *GenerationError
	return errors.As(err, &ge)
}

// IsTransport reports whether err is a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
