package posts

import (
	"time"

	"github.com/google/uuid"
)

// Visibility controls who can see a post
type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityFollowers Visibility = "followers"
	VisibilityUnlisted  Visibility = "unlisted"
	VisibilityDirect    Visibility = "direct"
)

// Valid reports whether v is one of the four visibility values.
func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPublic, VisibilityFollowers, VisibilityUnlisted, VisibilityDirect:
		return true
	}
	return false
}

// Post represents a unit of authored content.
//
// LikeCount and ShareCount are denormalized and must always equal the
// cardinality of the liker and sharer sets; every mutation path that changes
// a set changes the matching counter in the same atomic store operation.
type Post struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	LegacyID   *string    `json:"legacyId,omitempty" db:"legacy_id"`
	URI        string     `json:"uri" db:"uri"`
	AuthorID   uuid.UUID  `json:"authorId" db:"author_id"`
	Content    string     `json:"content" db:"content"`
	Visibility Visibility `json:"visibility" db:"visibility"`
	Sensitive  bool       `json:"sensitive" db:"sensitive"`
	InReplyTo  *uuid.UUID `json:"inReplyTo,omitempty" db:"in_reply_to"`
	LikeCount  int        `json:"likeCount" db:"like_count"`
	ShareCount int        `json:"shareCount" db:"share_count"`
	ReplyCount int        `json:"replyCount" db:"reply_count"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time  `json:"updatedAt" db:"updated_at"`
}

// CreatePostRequest is the input for authoring a post. InReplyTo, when set,
// is a reference to the parent post in any supported identifier space.
type CreatePostRequest struct {
	AuthorID   uuid.UUID  `json:"authorId"`
	Content    string     `json:"content"`
	Visibility Visibility `json:"visibility"`
	Sensitive  bool       `json:"sensitive"`
	InReplyTo  *string    `json:"inReplyTo,omitempty"`
}

// UpdatePostInput carries a partial post patch. Nil means "don't change this
// field".
type UpdatePostInput struct {
	Content    *string     `json:"content,omitempty"`
	Visibility *Visibility `json:"visibility,omitempty"`
	Sensitive  *bool       `json:"sensitive,omitempty"`
}
