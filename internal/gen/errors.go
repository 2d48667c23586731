package gen

import "fmt"

// MissingProviderError reports a requirement discovered in a sampled
// attribute mapping for which the generator has no registered provider.
// It is a fatal configuration error, never silently skipped.
type MissingProviderError struct {
	// Generator is the name of the generator whose run failed.
	Generator string
	// Requirement is the unresolved attribute name.
	Requirement string
}

func (e *MissingProviderError) Error() string {
	return fmt.Sprintf("gen: generator %q has no provider registered for requirement %q", e.Generator, e.Requirement)
}
