package registry

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels matched by errors.Is on the typed errors below.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found in registry")
)

// ValidationError reports malformed input (bad version syntax, bad package
// name). It is never retried.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is makes errors.Is(err, ErrValidation) true.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NotFoundError reports a registry miss or a failed lookup for name@version.
type NotFoundError struct {
	Name    string
	Version string
	Err     error
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("version %s of %s not found", e.Version, e.Name)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrNotFound) true.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// DependencyValidationError aggregates every unresolved dependency of a batch.
type DependencyValidationError struct {
	Errors []string
}

func (e *DependencyValidationError) Error() string {
	return fmt.Sprintf("%d invalid dependencies: %s", len(e.Errors), strings.Join(e.Errors, "; "))
}
