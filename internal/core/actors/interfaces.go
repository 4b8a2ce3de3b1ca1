package actors

import (
	"context"

	"github.com/google/uuid"

	"github.com/ForYouPage-Org/saturn-api-sub000/internal/core/authz"
)

// Service defines the business logic interface for actors
type Service interface {
	// Register creates a local actor. Returns ErrHandleTaken if the handle
	// is already in use.
	Register(ctx context.Context, req RegisterRequest) (*Actor, error)

	// CreateRemote imports a remote actor on first fetch
	CreateRemote(ctx context.Context, req CreateRemoteRequest) (*Actor, error)

	// Resolve turns a reference in any supported identifier space into the
	// canonical actor. Returns ErrNotFound if nothing matches.
	Resolve(ctx context.Context, ref string) (*Actor, error)

	// UpdateProfile applies a partial profile patch after the ownership check
	UpdateProfile(ctx context.Context, ref string, principal authz.Principal, input UpdateProfileInput) (*Actor, error)

	// Delete detaches an actor: the record is anonymized in place so posts
	// keep a valid placeholder author
	Delete(ctx context.Context, ref string, principal authz.Principal) error

	// Search finds actors by handle or display name
	Search(ctx context.Context, query string, limit, offset int) ([]*Actor, error)
}

// Repository defines the data access interface for actors.
// The Find* lookups return (nil, nil) on a miss; errors are store faults.
type Repository interface {
	Create(ctx context.Context, actor *Actor) (*Actor, error)

	// FindByID looks up by the store-native identifier
	FindByID(ctx context.Context, id uuid.UUID) (*Actor, error)

	// FindByLegacyID looks up by the alternate identifier field kept for
	// records created before identifier normalization
	FindByLegacyID(ctx context.Context, legacyID string) (*Actor, error)

	// FindByURI looks up by the canonical federated URI
	FindByURI(ctx context.Context, uri string) (*Actor, error)

	// FindByIDText compares against the serialized text form of the store
	// identifier, covering identifiers stored as embedded documents
	FindByIDText(ctx context.Context, ref string) (*Actor, error)

	FindByHandle(ctx context.Context, handle string) (*Actor, error)

	// UpdateProfile applies only the non-nil fields of input atomically
	UpdateProfile(ctx context.Context, id uuid.UUID, input UpdateProfileInput) (*Actor, error)

	// Detach anonymizes the actor in place and clears credentials
	Detach(ctx context.Context, id uuid.UUID) error

	Search(ctx context.Context, query string, limit, offset int) ([]*Actor, error)
}
