// Copyright (c) 2026 Inkgate. All rights reserved.
// Author: minh.ngo.dev@gmail.com

/*
Package blog (Postgres) implements the storage layer for posts and reactions.

# Schema Table Mapping
  - blog.post: Post content, authorship, and image metadata.
  - blog.reaction: One row per (post, user) holding the reaction side.
*/
package blog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minhngo/inkgate/internal/platform/apperr"
	"github.com/minhngo/inkgate/internal/platform/dberr"
)

// postColumns is the canonical SELECT list for hydrating a [Post], including
// reaction tallies aggregated from blog.reaction.
const postColumns = `
	p.id, p.title, p.slug, p.content, p.imageurl, p.imagekey,
	p.authorid, a.username,
	COALESCE(r.likes, 0), COALESCE(r.dislikes, 0),
	p.createdat, p.updatedat`

// postJoins attaches authorship and the tally sub-query to blog.post.
const postJoins = `
	FROM blog.post p
	JOIN users.account a ON a.id = p.authorid
	LEFT JOIN (
		SELECT postid,
			COUNT(*) FILTER (WHERE islike) AS likes,
			COUNT(*) FILTER (WHERE NOT islike) AS dislikes
		FROM blog.reaction
		GROUP BY postid
	) r ON r.postid = p.id`

// PostgresPostRepository implements [PostRepository] using pgx.
type PostgresPostRepository struct {
	pool *pgxpool.Pool
}

// NewPostRepository creates a new Postgres implementation for post storage.
func NewPostRepository(pool *pgxpool.Pool) *PostgresPostRepository {
	return &PostgresPostRepository{pool: pool}
}

/*
List retrieves posts ordered newest-first.

Parameters:
  - context: context.Context
  - limit: int
  - offset: int

Returns:
  - []*Post: Hydrated post entities with tallies
  - int: Total number of posts (for pagination metadata)
  - error: Database execution failure
*/
func (repository *PostgresPostRepository) List(context context.Context, limit, offset int) ([]*Post, int, error) {
	query := `SELECT ` + postColumns + postJoins + ` ORDER BY p.createdat DESC LIMIT $1 OFFSET $2`

	posts, err := repository.scanMany(context, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := repository.pool.QueryRow(context, `SELECT COUNT(*) FROM blog.post`).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(fmt.Errorf("postgres_post_repo_count_failed: %w", err), "Post")
	}

	return posts, total, nil
}

/*
ListByAuthor retrieves the posts written by one author, newest-first.

Parameters:
  - context: context.Context
  - authorID: string
  - limit: int
  - offset: int

Returns:
  - []*Post: Hydrated post entities with tallies
  - int: Total number of posts by this author
  - error: Database execution failure
*/
func (repository *PostgresPostRepository) ListByAuthor(context context.Context, authorID string, limit, offset int) ([]*Post, int, error) {
	query := `SELECT ` + postColumns + postJoins + ` WHERE p.authorid = $1 ORDER BY p.createdat DESC LIMIT $2 OFFSET $3`

	posts, err := repository.scanMany(context, query, authorID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM blog.post WHERE authorid = $1`
	if err := repository.pool.QueryRow(context, countQuery, authorID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(fmt.Errorf("postgres_post_repo_count_by_author_failed: %w", err), "Post")
	}

	return posts, total, nil
}

/*
FindByID retrieves a single post with its reaction tallies.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - *Post: Hydrated post entity
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresPostRepository) FindByID(context context.Context, id string) (*Post, error) {
	query := `SELECT ` + postColumns + postJoins + ` WHERE p.id = $1`

	post := &Post{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&post.ID, &post.Title, &post.Slug, &post.Content, &post.ImageURL, &post.ImageKey,
		&post.AuthorID, &post.AuthorName,
		&post.Likes, &post.Dislikes,
		&post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "Post")
	}

	return post, nil
}

/*
Create persists a new post.

Parameters:
  - context: context.Context
  - post: *Post (ID, slug, and timestamps must be pre-populated)

Returns:
  - error: apperr.Conflict on duplicate slug, or execution failure
*/
func (repository *PostgresPostRepository) Create(context context.Context, post *Post) error {
	query := `
		INSERT INTO blog.post (id, title, slug, content, imageurl, imagekey, authorid, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := repository.pool.Exec(context, query,
		post.ID, post.Title, post.Slug, post.Content,
		post.ImageURL, post.ImageKey, post.AuthorID,
		post.CreatedAt, post.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_post_repo_create_failed: %w", err), "Post")
	}

	return nil
}

/*
Update persists changes to the mutable fields of a post.

Parameters:
  - context: context.Context
  - post: *Post

Returns:
  - error: apperr.NotFound if the post does not exist, or execution failure
*/
func (repository *PostgresPostRepository) Update(context context.Context, post *Post) error {
	query := `
		UPDATE blog.post
		SET title = $2, slug = $3, content = $4, imageurl = $5, imagekey = $6, updatedat = $7
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query,
		post.ID, post.Title, post.Slug, post.Content,
		post.ImageURL, post.ImageKey, post.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_post_repo_update_failed: %w", err), "Post")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Post")
	}

	return nil
}

/*
Delete removes a post. Reactions and comments are removed by cascade.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: apperr.NotFound if the post does not exist, or execution failure
*/
func (repository *PostgresPostRepository) Delete(context context.Context, id string) error {
	tag, err := repository.pool.Exec(context, `DELETE FROM blog.post WHERE id = $1`, id)
	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_post_repo_delete_failed: %w", err), "Post")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Post")
	}

	return nil
}

/*
React records a like or dislike by a user, atomically.

Description: The whole one-vote-per-user rule lives in a single upsert. The
INSERT covers a first reaction, the conditional DO UPDATE covers switching
sides, and a no-op (same side twice) affects zero rows, which surfaces as a
Conflict. Concurrent reactions by the same user serialize on the primary key.

Parameters:
  - context: context.Context
  - postID: string
  - userID: string
  - like: bool (true for like, false for dislike)

Returns:
  - *Tally: Fresh tallies after the reaction is recorded
  - error: apperr.Conflict if the same reaction is already held,
    apperr.NotFound if the post does not exist, or execution failure
*/
func (repository *PostgresPostRepository) React(context context.Context, postID, userID string, like bool) (*Tally, error) {
	// Verify the post exists first so a missing post reads as 404, not as a
	// foreign key violation.
	var exists bool
	existsQuery := `SELECT EXISTS (SELECT 1 FROM blog.post WHERE id = $1)`
	if err := repository.pool.QueryRow(context, existsQuery, postID).Scan(&exists); err != nil {
		return nil, dberr.Wrap(fmt.Errorf("postgres_post_repo_react_lookup_failed: %w", err), "Post")
	}
	if !exists {
		return nil, apperr.NotFound("Post")
	}

	query := `
		INSERT INTO blog.reaction (postid, userid, islike, reactedat)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (postid, userid) DO UPDATE
			SET islike = EXCLUDED.islike, reactedat = NOW()
			WHERE blog.reaction.islike <> EXCLUDED.islike`

	tag, err := repository.pool.Exec(context, query, postID, userID, like)
	if err != nil {
		return nil, dberr.Wrap(fmt.Errorf("postgres_post_repo_react_failed: %w", err), "Reaction")
	}

	// Zero rows means the user already holds this exact reaction.
	if tag.RowsAffected() == 0 {
		if like {
			return nil, apperr.Conflict("You already liked this post")
		}
		return nil, apperr.Conflict("You already disliked this post")
	}

	return repository.CountReactions(context, postID)
}

/*
CountReactions returns the current tallies for a post.

Parameters:
  - context: context.Context
  - postID: string

Returns:
  - *Tally: Aggregated like and dislike counts
  - error: Database execution failure
*/
func (repository *PostgresPostRepository) CountReactions(context context.Context, postID string) (*Tally, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE islike),
			COUNT(*) FILTER (WHERE NOT islike)
		FROM blog.reaction
		WHERE postid = $1`

	tally := &Tally{}
	if err := repository.pool.QueryRow(context, query, postID).Scan(&tally.Likes, &tally.Dislikes); err != nil {
		return nil, dberr.Wrap(fmt.Errorf("postgres_post_repo_tally_failed: %w", err), "Reaction")
	}

	return tally, nil
}

// scanMany executes a multi-row post query and hydrates the entities.
func (repository *PostgresPostRepository) scanMany(context context.Context, query string, arguments ...any) ([]*Post, error) {
	rows, err := repository.pool.Query(context, query, arguments...)
	if err != nil {
		return nil, dberr.Wrap(fmt.Errorf("postgres_post_repo_list_failed: %w", err), "Post")
	}
	defer rows.Close()

	var posts []*Post
	for rows.Next() {
		post := &Post{}
		err := rows.Scan(
			&post.ID, &post.Title, &post.Slug, &post.Content, &post.ImageURL, &post.ImageKey,
			&post.AuthorID, &post.AuthorName,
			&post.Likes, &post.Dislikes,
			&post.CreatedAt, &post.UpdatedAt,
		)
		if err != nil {
			return nil, dberr.Wrap(fmt.Errorf("postgres_post_repo_scan_failed: %w", err), "Post")
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(fmt.Errorf("postgres_post_repo_rows_failed: %w", err), "Post")
	}

	return posts, nil
}
