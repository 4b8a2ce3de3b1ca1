package posts

import (
	"errors"
	"fmt"
)

// Sentinel errors for post operations
var (
	// ErrNotFound is returned when no resolution strategy matches a reference
	ErrNotFound = errors.New("post not found")

	// ErrActorNotFound is returned when an engagement references an actor
	// that does not exist
	ErrActorNotFound = errors.New("actor not found")

	// ErrURITaken is returned when a post URI collides on creation
	ErrURITaken = errors.New("post URI already exists")
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error (%s): %s", e.Field, e.Message)
}

// IsValidationError checks if error is a validation error
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}
