package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ForYouPage-Org/saturn-api-sub000/internal/core/actors"
	"github.com/ForYouPage-Org/saturn-api-sub000/internal/core/follows"
)

type postgresFollowRepo struct {
	db *sql.DB
}

// NewFollowRepository creates a new PostgreSQL follow-graph repository
func NewFollowRepository(db *sql.DB) follows.Repository {
	return &postgresFollowRepo{db: db}
}

// AddEdge inserts the follower→followee edge and moves both actors' counters
// in one transaction. The two actor rows are locked in id order before any
// write so that concurrent reciprocal follows (A→B and B→A) cannot acquire
// the locks in opposite orders and deadlock. A replayed follow inserts
// nothing and therefore moves nothing.
func (r *postgresFollowRepo) AddEdge(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin follow transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := lockActorPair(ctx, tx, followerID, followeeID); err != nil {
		return false, err
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO follows (follower_id, followee_id)
		VALUES ($1, $2)
		ON CONFLICT (follower_id, followee_id) DO NOTHING`,
		followerID, followeeID)
	if err != nil {
		if strings.Contains(err.Error(), "follows_follower_id_fkey") {
			return false, follows.ErrFollowerNotFound
		}
		if strings.Contains(err.Error(), "follows_followee_id_fkey") {
			return false, follows.ErrFolloweeNotFound
		}
		return false, fmt.Errorf("failed to add follow edge: %w", err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check follow insert outcome: %w", err)
	}

	// Counter moves only when the edge actually changed
	if inserted > 0 {
		if err := bumpFollowCounters(ctx, tx, followerID, followeeID, +1); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit follow edge: %w", err)
	}

	return inserted > 0, nil
}

// RemoveEdge deletes the edge with the same lock ordering and gated counter
// maintenance. Removing a non-existent edge deletes nothing and moves
// nothing.
func (r *postgresFollowRepo) RemoveEdge(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin unfollow transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := lockActorPair(ctx, tx, followerID, followeeID); err != nil {
		return false, err
	}

	result, err := tx.ExecContext(ctx, `
		DELETE FROM follows
		WHERE follower_id = $1 AND followee_id = $2`,
		followerID, followeeID)
	if err != nil {
		return false, fmt.Errorf("failed to remove follow edge: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check follow delete outcome: %w", err)
	}

	if removed > 0 {
		if err := bumpFollowCounters(ctx, tx, followerID, followeeID, -1); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit follow edge removal: %w", err)
	}

	return removed > 0, nil
}

// lockActorPair takes row locks on both actor rows in id order. Every edge
// mutation goes through this before writing, which gives all transactions
// touching the same pair a single global lock order.
func lockActorPair(ctx context.Context, tx *sql.Tx, a, b uuid.UUID) error {
	var locked int
	err := tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM (
			SELECT id FROM actors WHERE id IN ($1, $2) ORDER BY id FOR UPDATE
		) pair`, a, b).Scan(&locked)
	if err != nil {
		return fmt.Errorf("failed to lock actor rows: %w", err)
	}
	return nil
}

// bumpFollowCounters moves the follower's following count and the followee's
// follower count by delta. Both rows are already locked by lockActorPair.
func bumpFollowCounters(ctx context.Context, tx *sql.Tx, followerID, followeeID uuid.UUID, delta int) error {
	if _, err := tx.ExecContext(ctx,
		`UPDATE actors SET following_count = following_count + $2 WHERE id = $1`,
		followerID, delta); err != nil {
		return fmt.Errorf("failed to update following count: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE actors SET follower_count = follower_count + $2 WHERE id = $1`,
		followeeID, delta); err != nil {
		return fmt.Errorf("failed to update follower count: %w", err)
	}
	return nil
}

// EdgeExists reports whether the directed edge currently exists
func (r *postgresFollowRepo) EdgeExists(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id = $1 AND followee_id = $2)`,
		followerID, followeeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check follow edge: %w", err)
	}
	return exists, nil
}

// ActorExists reports whether an actor row exists and is not detached
func (r *postgresFollowRepo) ActorExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM actors WHERE id = $1 AND deleted_at IS NULL)`,
		id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check actor existence: %w", err)
	}
	return exists, nil
}

// ListFollowers returns the actors following actorID, most recent first
func (r *postgresFollowRepo) ListFollowers(ctx context.Context, actorID uuid.UUID, limit, offset int) ([]*actors.Actor, error) {
	query := `
		SELECT ` + aliasedActorColumns("a") + `
		FROM actors a
		JOIN follows f ON f.follower_id = a.id
		WHERE f.followee_id = $1
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3`

	return r.listActors(ctx, query, actorID, limit, offset)
}

// ListFollowing returns the actors actorID follows, most recent first
func (r *postgresFollowRepo) ListFollowing(ctx context.Context, actorID uuid.UUID, limit, offset int) ([]*actors.Actor, error) {
	query := `
		SELECT ` + aliasedActorColumns("a") + `
		FROM actors a
		JOIN follows f ON f.followee_id = a.id
		WHERE f.follower_id = $1
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3`

	return r.listActors(ctx, query, actorID, limit, offset)
}

func (r *postgresFollowRepo) listActors(ctx context.Context, query string, args ...interface{}) ([]*actors.Actor, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list follow edges: %w", err)
	}
	defer closeRows(rows)

	return collectActors(rows)
}

// aliasedActorColumns qualifies the shared actor column list with a table alias
func aliasedActorColumns(alias string) string {
	cols := []string{
		"id", "legacy_id", "uri", "handle", "display_name", "summary",
		"followers_uri", "credential_hash", "admin", "verified",
		"follower_count", "following_count", "created_at", "updated_at", "deleted_at",
	}
	qualified := make([]string, len(cols))
	for i, c := range cols {
		qualified[i] = alias + "." + c
	}
	return strings.Join(qualified, ", ")
}
