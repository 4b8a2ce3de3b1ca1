package actors

import "errors"

// Sentinel errors for actor operations
var (
	// ErrNotFound is returned when no resolution strategy matches a reference
	ErrNotFound = errors.New("actor not found")

	// ErrHandleTaken is returned when registering with a handle that exists
	ErrHandleTaken = errors.New("handle already taken")

	// ErrURITaken is returned when importing a remote actor whose URI is
	// already stored
	ErrURITaken = errors.New("actor URI already exists")

	// ErrInvalidHandle is returned for handles that fail format validation
	ErrInvalidHandle = errors.New("invalid handle format")

	// ErrCredentialRequired is returned when registering a local actor
	// without a credential hash
	ErrCredentialRequired = errors.New("credential hash required")

	// ErrInvalidURI is returned when importing a remote actor whose URI is
	// not scheme-prefixed
	ErrInvalidURI = errors.New("invalid actor URI")
)
