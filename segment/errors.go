package segment

import "fmt"

// ValidationError names the offending parameter and why it was rejected.
// Every driver validates before allocating any max-flow graph, so a
// ValidationError never leaks graph memory.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("segment: invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
