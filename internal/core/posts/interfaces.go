package posts

import (
	"context"

	"github.com/google/uuid"

	"github.com/ForYouPage-Org/saturn-api-sub000/internal/core/authz"
)

// Service defines the business logic interface for posts, including the
// engagement operations.
type Service interface {
	// Create authors a post. A reply (InReplyTo set) bumps the parent's
	// reply count in the same atomic store call that inserts the post.
	Create(ctx context.Context, req CreatePostRequest) (*Post, error)

	// Resolve turns a reference in any supported identifier space into the
	// canonical post. Returns ErrNotFound if nothing matches.
	Resolve(ctx context.Context, ref string) (*Post, error)

	// Update applies a partial patch after the ownership check
	Update(ctx context.Context, ref string, principal authz.Principal, input UpdatePostInput) (*Post, error)

	// Delete removes a post after the ownership check
	Delete(ctx context.Context, ref string, principal authz.Principal) error

	// Like adds actorID to the post's liker set, idempotently; the like
	// count moves only when the set does. Anyone may like any visible post.
	Like(ctx context.Context, ref string, actorID uuid.UUID) (*Post, error)

	// Unlike removes actorID from the liker set. Unliking a post that was
	// never liked is a successful no-op.
	Unlike(ctx context.Context, ref string, actorID uuid.UUID) (*Post, error)

	// Share and Unshare have identical semantics over the sharer set.
	Share(ctx context.Context, ref string, actorID uuid.UUID) (*Post, error)
	Unshare(ctx context.Context, ref string, actorID uuid.UUID) (*Post, error)

	// Search finds posts by content
	Search(ctx context.Context, query string, limit, offset int) ([]*Post, error)

	// ListByAuthor returns an author's posts, newest first
	ListByAuthor(ctx context.Context, authorID uuid.UUID, publicOnly bool, limit, offset int) ([]*Post, error)
}

// Repository defines the data access interface for posts.
// The Find* lookups return (nil, nil) on a miss; errors are store faults.
//
// The engagement primitives must apply the set mutation and the counter
// change in one atomic store operation: the counter delta is gated on the
// set-mutation outcome, never issued unconditionally.
type Repository interface {
	// Create inserts the post; when parentID is non-nil the parent's reply
	// count is incremented in the same atomic operation
	Create(ctx context.Context, post *Post) (*Post, error)

	FindByID(ctx context.Context, id uuid.UUID) (*Post, error)
	FindByLegacyID(ctx context.Context, legacyID string) (*Post, error)
	FindByURI(ctx context.Context, uri string) (*Post, error)
	FindByIDText(ctx context.Context, ref string) (*Post, error)

	// Update applies only the non-nil fields of input atomically
	Update(ctx context.Context, id uuid.UUID, input UpdatePostInput) (*Post, error)

	// Delete removes the post; a reply decrements its parent's reply count
	// in the same atomic operation
	Delete(ctx context.Context, id uuid.UUID) error

	// AddLiker/RemoveLiker return the updated post and whether the liker set
	// actually changed. (nil, false, nil) means the post does not exist.
	AddLiker(ctx context.Context, postID, actorID uuid.UUID) (*Post, bool, error)
	RemoveLiker(ctx context.Context, postID, actorID uuid.UUID) (*Post, bool, error)

	// AddSharer/RemoveSharer are identical over the sharer set
	AddSharer(ctx context.Context, postID, actorID uuid.UUID) (*Post, bool, error)
	RemoveSharer(ctx context.Context, postID, actorID uuid.UUID) (*Post, bool, error)

	// HasLiked/HasShared report current set membership
	HasLiked(ctx context.Context, postID, actorID uuid.UUID) (bool, error)
	HasShared(ctx context.Context, postID, actorID uuid.UUID) (bool, error)

	Search(ctx context.Context, query string, limit, offset int) ([]*Post, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID, publicOnly bool, limit, offset int) ([]*Post, error)
}
