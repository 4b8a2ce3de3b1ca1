package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ForYouPage-Org/saturn-api-sub000/internal/core/posts"
)

const postColumns = `id, legacy_id, uri, author_id, content, visibility, sensitive,
		in_reply_to, like_count, share_count, reply_count, created_at, updated_at`

type postgresPostRepo struct {
	db *sql.DB
}

// NewPostRepository creates a new PostgreSQL post repository
func NewPostRepository(db *sql.DB) posts.Repository {
	return &postgresPostRepo{db: db}
}

// Create inserts the post. When the post is a reply, the parent's reply
// count is incremented in the same statement, so the insert and the counter
// move together or not at all.
func (r *postgresPostRepo) Create(ctx context.Context, post *posts.Post) (*posts.Post, error) {
	query := `
		WITH new_post AS (
			INSERT INTO posts (id, uri, author_id, content, visibility, sensitive, in_reply_to)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING ` + postColumns + `
		), parent_bump AS (
			UPDATE posts
			SET reply_count = reply_count + 1, updated_at = NOW()
			WHERE id = $7
		)
		SELECT ` + postColumns + ` FROM new_post`

	var parentID interface{}
	if post.InReplyTo != nil {
		parentID = *post.InReplyTo
	}

	created, err := scanPost(r.db.QueryRowContext(ctx, query,
		post.ID, post.URI, post.AuthorID, post.Content,
		string(post.Visibility), post.Sensitive, parentID,
	))
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") && strings.Contains(err.Error(), "posts_uri_key") {
			return nil, posts.ErrURITaken
		}
		if strings.Contains(err.Error(), "posts_author_id_fkey") {
			return nil, posts.ErrActorNotFound
		}
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	return created, nil
}

// FindByID looks up by the store-native identifier. Returns (nil, nil) on a miss.
func (r *postgresPostRepo) FindByID(ctx context.Context, id uuid.UUID) (*posts.Post, error) {
	return r.findOne(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
}

// FindByLegacyID looks up by the alternate identifier field
func (r *postgresPostRepo) FindByLegacyID(ctx context.Context, legacyID string) (*posts.Post, error) {
	return r.findOne(ctx, `SELECT `+postColumns+` FROM posts WHERE legacy_id = $1`, legacyID)
}

// FindByURI looks up by the federated URI
func (r *postgresPostRepo) FindByURI(ctx context.Context, uri string) (*posts.Post, error) {
	return r.findOne(ctx, `SELECT `+postColumns+` FROM posts WHERE uri = $1`, uri)
}

// FindByIDText compares against the serialized text form of the store identifier
func (r *postgresPostRepo) FindByIDText(ctx context.Context, ref string) (*posts.Post, error) {
	return r.findOne(ctx, `SELECT `+postColumns+` FROM posts WHERE id::text = $1`, ref)
}

func (r *postgresPostRepo) findOne(ctx context.Context, query string, arg interface{}) (*posts.Post, error) {
	post, err := scanPost(r.db.QueryRowContext(ctx, query, arg))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find post: %w", err)
	}
	return post, nil
}

// Update applies only the non-nil fields of input in one statement
func (r *postgresPostRepo) Update(ctx context.Context, id uuid.UUID, input posts.UpdatePostInput) (*posts.Post, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	argNum := 1

	if input.Content != nil {
		setClauses = append(setClauses, fmt.Sprintf("content = $%d", argNum))
		args = append(args, *input.Content)
		argNum++
	}
	if input.Visibility != nil {
		setClauses = append(setClauses, fmt.Sprintf("visibility = $%d", argNum))
		args = append(args, string(*input.Visibility))
		argNum++
	}
	if input.Sensitive != nil {
		setClauses = append(setClauses, fmt.Sprintf("sensitive = $%d", argNum))
		args = append(args, *input.Sensitive)
		argNum++
	}

	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE posts
		SET %s
		WHERE id = $%d
		RETURNING %s`,
		strings.Join(setClauses, ", "), argNum, postColumns)

	post, err := scanPost(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, posts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	return post, nil
}

// Delete removes the post. A reply decrements its parent's reply count in
// the same statement.
func (r *postgresPostRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		WITH removed AS (
			DELETE FROM posts WHERE id = $1
			RETURNING in_reply_to
		), parent_drop AS (
			UPDATE posts p
			SET reply_count = GREATEST(reply_count - 1, 0), updated_at = NOW()
			FROM removed r
			WHERE p.id = r.in_reply_to
		)
		SELECT COUNT(*) FROM removed`

	var removed int
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&removed); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if removed == 0 {
		return posts.ErrNotFound
	}

	return nil
}

// AddLiker atomically adds the actor to the liker set and moves the like
// count by the number of rows actually inserted. Re-liking is a no-op for
// both the set and the counter, so retried requests cannot drift the count.
func (r *postgresPostRepo) AddLiker(ctx context.Context, postID, actorID uuid.UUID) (*posts.Post, bool, error) {
	query := `
		WITH added AS (
			INSERT INTO post_likes (post_id, actor_id)
			VALUES ($1, $2)
			ON CONFLICT (post_id, actor_id) DO NOTHING
			RETURNING 1
		)
		UPDATE posts
		SET like_count = like_count + (SELECT COUNT(*) FROM added)
		WHERE id = $1
		RETURNING ` + postColumns + `, (SELECT COUNT(*) FROM added) > 0`

	return r.mutateEngagement(ctx, query, postID, actorID)
}

// RemoveLiker atomically removes the actor from the liker set; the decrement
// is conditioned on the membership having existed, so the counter can never
// go negative on a double-unlike.
func (r *postgresPostRepo) RemoveLiker(ctx context.Context, postID, actorID uuid.UUID) (*posts.Post, bool, error) {
	query := `
		WITH removed AS (
			DELETE FROM post_likes
			WHERE post_id = $1 AND actor_id = $2
			RETURNING 1
		)
		UPDATE posts
		SET like_count = like_count - (SELECT COUNT(*) FROM removed)
		WHERE id = $1
		RETURNING ` + postColumns + `, (SELECT COUNT(*) FROM removed) > 0`

	return r.mutateEngagement(ctx, query, postID, actorID)
}

// AddSharer mirrors AddLiker over the sharer set
func (r *postgresPostRepo) AddSharer(ctx context.Context, postID, actorID uuid.UUID) (*posts.Post, bool, error) {
	query := `
		WITH added AS (
			INSERT INTO post_shares (post_id, actor_id)
			VALUES ($1, $2)
			ON CONFLICT (post_id, actor_id) DO NOTHING
			RETURNING 1
		)
		UPDATE posts
		SET share_count = share_count + (SELECT COUNT(*) FROM added)
		WHERE id = $1
		RETURNING ` + postColumns + `, (SELECT COUNT(*) FROM added) > 0`

	return r.mutateEngagement(ctx, query, postID, actorID)
}

// RemoveSharer mirrors RemoveLiker over the sharer set
func (r *postgresPostRepo) RemoveSharer(ctx context.Context, postID, actorID uuid.UUID) (*posts.Post, bool, error) {
	query := `
		WITH removed AS (
			DELETE FROM post_shares
			WHERE post_id = $1 AND actor_id = $2
			RETURNING 1
		)
		UPDATE posts
		SET share_count = share_count - (SELECT COUNT(*) FROM removed)
		WHERE id = $1
		RETURNING ` + postColumns + `, (SELECT COUNT(*) FROM removed) > 0`

	return r.mutateEngagement(ctx, query, postID, actorID)
}

func (r *postgresPostRepo) mutateEngagement(ctx context.Context, query string, postID, actorID uuid.UUID) (*posts.Post, bool, error) {
	post := &posts.Post{}
	var legacyID sql.NullString
	var inReplyTo sql.NullString
	var changed bool

	err := r.db.QueryRowContext(ctx, query, postID, actorID).Scan(
		&post.ID, &legacyID, &post.URI, &post.AuthorID, &post.Content,
		&post.Visibility, &post.Sensitive, &inReplyTo,
		&post.LikeCount, &post.ShareCount, &post.ReplyCount,
		&post.CreatedAt, &post.UpdatedAt,
		&changed,
	)
	if err == sql.ErrNoRows {
		// Post does not exist
		return nil, false, nil
	}
	if err != nil {
		// The membership insert hits the post FK before the counter update
		// when the post is gone, and the actor FK when the actor is
		if strings.Contains(err.Error(), "post_id_fkey") {
			return nil, false, nil
		}
		if strings.Contains(err.Error(), "actor_id_fkey") {
			return nil, false, posts.ErrActorNotFound
		}
		return nil, false, fmt.Errorf("failed to apply engagement: %w", err)
	}

	applyNullablePostFields(post, legacyID, inReplyTo)
	return post, changed, nil
}

// HasLiked reports current liker-set membership
func (r *postgresPostRepo) HasLiked(ctx context.Context, postID, actorID uuid.UUID) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM post_likes WHERE post_id = $1 AND actor_id = $2)`, postID, actorID)
}

// HasShared reports current sharer-set membership
func (r *postgresPostRepo) HasShared(ctx context.Context, postID, actorID uuid.UUID) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM post_shares WHERE post_id = $1 AND actor_id = $2)`, postID, actorID)
}

func (r *postgresPostRepo) exists(ctx context.Context, query string, args ...interface{}) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return exists, nil
}

// Search finds public posts by content
func (r *postgresPostRepo) Search(ctx context.Context, query string, limit, offset int) ([]*posts.Post, error) {
	sqlQuery := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE visibility = 'public' AND content ILIKE '%' || $1 || '%'
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, sqlQuery, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to search posts: %w", err)
	}
	defer closeRows(rows)

	return collectPosts(rows)
}

// ListByAuthor returns an author's posts, newest first
func (r *postgresPostRepo) ListByAuthor(ctx context.Context, authorID uuid.UUID, publicOnly bool, limit, offset int) ([]*posts.Post, error) {
	sqlQuery := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE author_id = $1 AND ($2 = FALSE OR visibility = 'public')
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`

	rows, err := r.db.QueryContext(ctx, sqlQuery, authorID, publicOnly, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts by author: %w", err)
	}
	defer closeRows(rows)

	return collectPosts(rows)
}

func scanPost(row interface{ Scan(...interface{}) error }) (*posts.Post, error) {
	post := &posts.Post{}
	var legacyID sql.NullString
	var inReplyTo sql.NullString

	err := row.Scan(
		&post.ID, &legacyID, &post.URI, &post.AuthorID, &post.Content,
		&post.Visibility, &post.Sensitive, &inReplyTo,
		&post.LikeCount, &post.ShareCount, &post.ReplyCount,
		&post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	applyNullablePostFields(post, legacyID, inReplyTo)
	return post, nil
}

func applyNullablePostFields(post *posts.Post, legacyID, inReplyTo sql.NullString) {
	if legacyID.Valid {
		post.LegacyID = &legacyID.String
	}
	if inReplyTo.Valid {
		if parentID, err := uuid.Parse(inReplyTo.String); err == nil {
			post.InReplyTo = &parentID
		}
	}
}

func collectPosts(rows *sql.Rows) ([]*posts.Post, error) {
	result := []*posts.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		result = append(result, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post rows: %w", err)
	}
	return result, nil
}
