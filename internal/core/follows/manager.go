package follows

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Manager applies follow/unfollow as atomic edge operations between two
// actors. It checks that the follower exists, then the followee, and leaves
// the self-follow rule to the orchestrating service.
type Manager struct {
	repo   Repository
	logger *slog.Logger
}

// NewManager creates a new follow graph manager
func NewManager(repo Repository, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{repo: repo, logger: logger}
}

// Follow adds the follower→followee edge. Returns whether the store reports
// the edge as changed; false means it was already present, which is a
// successful outcome.
func (m *Manager) Follow(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	if err := m.checkEndpoints(ctx, followerID, followeeID); err != nil {
		return false, err
	}

	changed, err := m.repo.AddEdge(ctx, followerID, followeeID)
	if err != nil {
		return false, err
	}

	if changed {
		m.logger.Info("follow edge created", "follower", followerID, "followee", followeeID)
	}
	return changed, nil
}

// Unfollow removes the edge. Returns false when no edge existed; that is a
// no-op, not an error.
func (m *Manager) Unfollow(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	if err := m.checkEndpoints(ctx, followerID, followeeID); err != nil {
		return false, err
	}

	changed, err := m.repo.RemoveEdge(ctx, followerID, followeeID)
	if err != nil {
		return false, err
	}

	if changed {
		m.logger.Info("follow edge removed", "follower", followerID, "followee", followeeID)
	}
	return changed, nil
}

// IsFollowing reports whether the edge currently exists.
func (m *Manager) IsFollowing(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	return m.repo.EdgeExists(ctx, followerID, followeeID)
}

func (m *Manager) checkEndpoints(ctx context.Context, followerID, followeeID uuid.UUID) error {
	exists, err := m.repo.ActorExists(ctx, followerID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrFollowerNotFound
	}

	exists, err = m.repo.ActorExists(ctx, followeeID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrFolloweeNotFound
	}

	return nil
}
