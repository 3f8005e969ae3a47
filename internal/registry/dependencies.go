package registry

import (
	"context"

	"github.com/ba86work/create-next-shadcn-pwa/internal/manifest"
)

// DependencyValidationResult is the outcome of validating a dependency set.
type DependencyValidationResult struct {
	Valid bool
	// Errors holds one message per unresolved dependency, in input order.
	Errors []string
}

// Err returns nil for a valid result and a *DependencyValidationError otherwise.
func (r *DependencyValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return &DependencyValidationError{Errors: r.Errors}
}

// DependencyValidator checks that every dependency of a set is published.
type DependencyValidator struct {
	registry Registry
}

// NewDependencyValidator creates a validator that checks entries against r.
func NewDependencyValidator(r Registry) *DependencyValidator {
	return &DependencyValidator{registry: r}
}

// ValidateAll looks up every entry independently. A failing entry is
// recorded and the batch continues, so every problem is reported at once.
func (v *DependencyValidator) ValidateAll(ctx context.Context, deps manifest.Dependencies) *DependencyValidationResult {
	result := &DependencyValidationResult{Errors: []string{}}

	for _, dep := range deps {
		if _, err := v.registry.Resolve(ctx, dep.Name, dep.Version); err != nil {
			result.Errors = append(result.Errors, "Invalid dependency: "+dep.String())
		}
	}

	result.Valid = len(result.Errors) == 0
	return result
}
