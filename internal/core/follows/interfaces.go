package follows

import (
	"context"

	"github.com/google/uuid"

	"github.com/ForYouPage-Org/saturn-api-sub000/internal/core/actors"
	"github.com/ForYouPage-Org/saturn-api-sub000/internal/core/authz"
)

// Service orchestrates follow operations: reference resolution, the
// self-follow check, delegation to the graph manager, and the notification
// trigger.
type Service interface {
	// Follow creates the edge from the principal to the target. The returned
	// bool reports whether the store changed (false = edge already existed,
	// still a success).
	Follow(ctx context.Context, principal authz.Principal, targetRef string) (bool, error)

	// Unfollow removes the edge. Unfollowing when no edge exists returns
	// (false, nil), not an error.
	Unfollow(ctx context.Context, principal authz.Principal, targetRef string) (bool, error)

	// Followers lists the actors following the referenced actor, paginated
	Followers(ctx context.Context, ref string, page, limit int) ([]*actors.Actor, error)

	// Following lists the actors the referenced actor follows, paginated
	Following(ctx context.Context, ref string, page, limit int) ([]*actors.Actor, error)
}

// ActorResolver is the slice of the actor service the follow layer needs.
type ActorResolver interface {
	Resolve(ctx context.Context, ref string) (*actors.Actor, error)
}

// Repository defines the data access interface for the follow graph.
//
// AddEdge and RemoveEdge must apply the edge change and both actors' counter
// updates in one atomic store operation, with the counter deltas gated on
// whether the edge actually changed. An edge either fully exists or not at
// all; partial states are a bug.
type Repository interface {
	// AddEdge inserts the follower→followee edge. Returns false when the
	// edge already existed.
	AddEdge(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error)

	// RemoveEdge deletes the edge. Returns false when no edge existed.
	RemoveEdge(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error)

	EdgeExists(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error)

	// ActorExists reports whether an actor row exists and is not detached
	ActorExists(ctx context.Context, id uuid.UUID) (bool, error)

	ListFollowers(ctx context.Context, actorID uuid.UUID, limit, offset int) ([]*actors.Actor, error)
	ListFollowing(ctx context.Context, actorID uuid.UUID, limit, offset int) ([]*actors.Actor, error)
}
