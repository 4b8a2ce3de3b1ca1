package identity

import (
	"errors"
	"fmt"
)

// NotFoundError is returned when every resolution strategy misses.
type NotFoundError struct {
	Kind      string // e.g. "actor", "post"
	Reference string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Reference)
}

// BadReferenceError is returned when a reference is syntactically unusable by
// any strategy. Distinct from NotFoundError so callers can tell "malformed"
// from "absent".
type BadReferenceError struct {
	Reference string
	Reason    string
}

func (e *BadReferenceError) Error() string {
	return fmt.Sprintf("bad reference %q: %s", e.Reference, e.Reason)
}

// IsNotFound checks if error is a resolution miss
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}

// IsBadReference checks if error is a malformed-reference error
func IsBadReference(err error) bool {
	var bad *BadReferenceError
	return errors.As(err, &bad)
}
