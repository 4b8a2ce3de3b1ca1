package actors

import (
	"time"

	"github.com/google/uuid"
)

// Actor represents a local or remote account.
//
// An actor is local when CredentialHash is set (registered here) and remote
// when it is nil (imported on first fetch). Handle and URI are each unique
// across all actors.
type Actor struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	LegacyID       *string    `json:"legacyId,omitempty" db:"legacy_id"`
	URI            string     `json:"uri" db:"uri"`
	Handle         string     `json:"handle" db:"handle"`
	DisplayName    string     `json:"displayName" db:"display_name"`
	Summary        string     `json:"summary" db:"summary"`
	FollowersURI   string     `json:"followersUri" db:"followers_uri"`
	CredentialHash *string    `json:"-" db:"credential_hash"`
	Admin          bool       `json:"admin" db:"admin"`
	Verified       bool       `json:"verified" db:"verified"`
	FollowerCount  int        `json:"followerCount" db:"follower_count"`
	FollowingCount int        `json:"followingCount" db:"following_count"`
	CreatedAt      time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt      *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`
}

// IsLocal reports whether the actor was registered on this instance.
func (a *Actor) IsLocal() bool {
	return a.CredentialHash != nil
}

// RegisterRequest is the input for registering a local actor.
// CredentialHash is produced by the authentication collaborator; this layer
// only stores it.
type RegisterRequest struct {
	Handle         string `json:"handle"`
	DisplayName    string `json:"displayName"`
	Summary        string `json:"summary"`
	CredentialHash string `json:"-"`
}

// CreateRemoteRequest is the input for importing a remote actor on first
// fetch. URI and handle come from the remote instance.
type CreateRemoteRequest struct {
	URI          string `json:"uri"`
	Handle       string `json:"handle"`
	DisplayName  string `json:"displayName"`
	Summary      string `json:"summary"`
	FollowersURI string `json:"followersUri"`
}

// UpdateProfileInput carries a partial profile patch. Nil means "don't change
// this field"; empty string clears it.
type UpdateProfileInput struct {
	DisplayName *string `json:"displayName,omitempty"`
	Summary     *string `json:"summary,omitempty"`
}
