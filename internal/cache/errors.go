package cache

import (
	"errors"
	"fmt"
)

// Sentinels matched by errors.Is on the typed errors below.
var (
	ErrUnavailable = errors.New("cache unavailable")
	ErrPopulation  = errors.New("cache population failed")
)

// UnavailableError reports a cache root that cannot be created or locked.
// Callers treat it as fatal to caching only.
type UnavailableError struct {
	Path string
	Err  error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("cache directory %s is unavailable: %v", e.Path, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrUnavailable) true.
func (e *UnavailableError) Is(target error) bool {
	return target == ErrUnavailable
}

// PopulationError reports a failed copy or metadata commit during Populate.
type PopulationError struct {
	Step string
	Err  error
}

func (e *PopulationError) Error() string {
	return fmt.Sprintf("caching template (%s): %v", e.Step, e.Err)
}

func (e *PopulationError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrPopulation) true.
func (e *PopulationError) Is(target error) bool {
	return target == ErrPopulation
}
