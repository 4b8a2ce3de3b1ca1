package follows

import "errors"

// Sentinel errors for follow-graph operations. The three failure modes are
// checked in this order: follower, followee, self-follow.
var (
	// ErrFollowerNotFound is returned when the follower does not resolve to
	// an existing actor
	ErrFollowerNotFound = errors.New("follower not found")

	// ErrFolloweeNotFound is returned when the followee reference does not
	// resolve to an existing actor
	ErrFolloweeNotFound = errors.New("followee not found")

	// ErrSelfFollow is returned when an actor attempts to follow itself
	ErrSelfFollow = errors.New("cannot follow self")
)
