package authz

import (
	"errors"

	"github.com/google/uuid"
)

// ErrForbidden is returned when a principal may not mutate an entity
var ErrForbidden = errors.New("principal is not allowed to modify this resource")

// Principal is the verified identity attached to an authorized request.
// It is supplied by the authentication collaborator; this package trusts it
// without re-verifying credentials.
type Principal struct {
	ActorID uuid.UUID
	Handle  string
	Admin   bool
}

// Authorize decides whether p may mutate an entity owned by ownerID.
// A principal may mutate an entity it owns, or anything if it holds the
// administrative flag. There is no other bypass. This check must run
// strictly before any write.
func Authorize(p Principal, ownerID uuid.UUID) error {
	if p.Admin {
		return nil
	}
	if p.ActorID == ownerID {
		return nil
	}
	return ErrForbidden
}

// IsForbidden checks if error is an ownership failure
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}
