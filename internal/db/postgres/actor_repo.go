package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ForYouPage-Org/saturn-api-sub000/internal/core/actors"
)

const actorColumns = `id, legacy_id, uri, handle, display_name, summary, followers_uri,
		credential_hash, admin, verified, follower_count, following_count,
		created_at, updated_at, deleted_at`

type postgresActorRepo struct {
	db *sql.DB
}

// NewActorRepository creates a new PostgreSQL actor repository
func NewActorRepository(db *sql.DB) actors.Repository {
	return &postgresActorRepo{db: db}
}

// Create inserts a new actor row
func (r *postgresActorRepo) Create(ctx context.Context, actor *actors.Actor) (*actors.Actor, error) {
	query := `
		INSERT INTO actors (uri, handle, display_name, summary, followers_uri, credential_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + actorColumns

	row := r.db.QueryRowContext(ctx, query,
		actor.URI,
		actor.Handle,
		actor.DisplayName,
		actor.Summary,
		actor.FollowersURI,
		nullString(actor.CredentialHash),
	)

	created, err := scanActor(row)
	if err != nil {
		// Check for unique constraint violations
		if strings.Contains(err.Error(), "duplicate key") {
			if strings.Contains(err.Error(), "actors_handle_key") {
				return nil, actors.ErrHandleTaken
			}
			if strings.Contains(err.Error(), "actors_uri_key") {
				return nil, actors.ErrURITaken
			}
		}
		return nil, fmt.Errorf("failed to create actor: %w", err)
	}

	return created, nil
}

// FindByID looks up by the store-native identifier. Returns (nil, nil) on a miss.
func (r *postgresActorRepo) FindByID(ctx context.Context, id uuid.UUID) (*actors.Actor, error) {
	return r.findOne(ctx, `SELECT `+actorColumns+` FROM actors WHERE id = $1`, id)
}

// FindByLegacyID looks up by the alternate identifier kept for records
// created before identifier normalization.
func (r *postgresActorRepo) FindByLegacyID(ctx context.Context, legacyID string) (*actors.Actor, error) {
	return r.findOne(ctx, `SELECT `+actorColumns+` FROM actors WHERE legacy_id = $1`, legacyID)
}

// FindByURI looks up by the canonical federated URI
func (r *postgresActorRepo) FindByURI(ctx context.Context, uri string) (*actors.Actor, error) {
	return r.findOne(ctx, `SELECT `+actorColumns+` FROM actors WHERE uri = $1`, uri)
}

// FindByIDText compares against the serialized text form of the store
// identifier.
func (r *postgresActorRepo) FindByIDText(ctx context.Context, ref string) (*actors.Actor, error) {
	return r.findOne(ctx, `SELECT `+actorColumns+` FROM actors WHERE id::text = $1`, ref)
}

// FindByHandle looks up by the unique handle
func (r *postgresActorRepo) FindByHandle(ctx context.Context, handle string) (*actors.Actor, error) {
	return r.findOne(ctx, `SELECT `+actorColumns+` FROM actors WHERE handle = $1`, handle)
}

func (r *postgresActorRepo) findOne(ctx context.Context, query string, arg interface{}) (*actors.Actor, error) {
	actor, err := scanActor(r.db.QueryRowContext(ctx, query, arg))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find actor: %w", err)
	}
	return actor, nil
}

// UpdateProfile applies only the non-nil fields of input in one statement
func (r *postgresActorRepo) UpdateProfile(ctx context.Context, id uuid.UUID, input actors.UpdateProfileInput) (*actors.Actor, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	argNum := 1

	if input.DisplayName != nil {
		setClauses = append(setClauses, fmt.Sprintf("display_name = $%d", argNum))
		args = append(args, *input.DisplayName)
		argNum++
	}
	if input.Summary != nil {
		setClauses = append(setClauses, fmt.Sprintf("summary = $%d", argNum))
		args = append(args, *input.Summary)
		argNum++
	}

	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE actors
		SET %s
		WHERE id = $%d
		RETURNING %s`,
		strings.Join(setClauses, ", "), argNum, actorColumns)

	actor, err := scanActor(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, actors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return actor, nil
}

// Detach anonymizes the actor in place. The row survives so historical posts
// keep a valid placeholder author.
func (r *postgresActorRepo) Detach(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE actors
		SET handle = 'deleted_' || replace(id::text, '-', ''),
		    display_name = '',
		    summary = '',
		    legacy_id = NULL,
		    credential_hash = NULL,
		    admin = FALSE,
		    verified = FALSE,
		    deleted_at = NOW(),
		    updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to detach actor: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return actors.ErrNotFound
	}

	return nil
}

// Search finds non-detached actors by handle or display name
func (r *postgresActorRepo) Search(ctx context.Context, query string, limit, offset int) ([]*actors.Actor, error) {
	sqlQuery := `
		SELECT ` + actorColumns + `
		FROM actors
		WHERE deleted_at IS NULL
		  AND (handle ILIKE '%' || $1 || '%' OR display_name ILIKE '%' || $1 || '%')
		ORDER BY handle
		LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, sqlQuery, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to search actors: %w", err)
	}
	defer closeRows(rows)

	return collectActors(rows)
}

func scanActor(row interface{ Scan(...interface{}) error }) (*actors.Actor, error) {
	actor := &actors.Actor{}
	var legacyID, credentialHash sql.NullString
	var deletedAt sql.NullTime

	err := row.Scan(
		&actor.ID, &legacyID, &actor.URI, &actor.Handle,
		&actor.DisplayName, &actor.Summary, &actor.FollowersURI,
		&credentialHash, &actor.Admin, &actor.Verified,
		&actor.FollowerCount, &actor.FollowingCount,
		&actor.CreatedAt, &actor.UpdatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	if legacyID.Valid {
		actor.LegacyID = &legacyID.String
	}
	if credentialHash.Valid {
		actor.CredentialHash = &credentialHash.String
	}
	if deletedAt.Valid {
		actor.DeletedAt = &deletedAt.Time
	}

	return actor, nil
}

func collectActors(rows *sql.Rows) ([]*actors.Actor, error) {
	result := []*actors.Actor{}
	for rows.Next() {
		actor, err := scanActor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan actor row: %w", err)
		}
		result = append(result, actor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating actor rows: %w", err)
	}
	return result, nil
}
