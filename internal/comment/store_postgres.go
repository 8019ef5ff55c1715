// Copyright (c) 2026 Inkgate. All rights reserved.
// Author: minh.ngo.dev@gmail.com

/*
Package comment (Postgres) implements the storage layer for discussions.

# Schema Table Mapping
  - blog.comment: Comment body, authorship, and post linkage.
*/
package comment

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minhngo/inkgate/internal/platform/apperr"
	"github.com/minhngo/inkgate/internal/platform/dberr"
)

// PostgresCommentRepository implements [CommentRepository] using pgx.
type PostgresCommentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository creates a new Postgres implementation for comments.
func NewCommentRepository(pool *pgxpool.Pool) *PostgresCommentRepository {
	return &PostgresCommentRepository{pool: pool}
}

/*
ListByPost retrieves the comments on a post, oldest-first.

Parameters:
  - context: context.Context
  - postID: string
  - limit: int
  - offset: int

Returns:
  - []*Comment: Hydrated comments with author names
  - int: Total comment count on the post
  - error: Database execution failure
*/
func (repository *PostgresCommentRepository) ListByPost(context context.Context, postID string, limit, offset int) ([]*Comment, int, error) {
	query := `
		SELECT c.id, c.postid, c.authorid, a.username, c.body, c.createdat
		FROM blog.comment c
		JOIN users.account a ON a.id = c.authorid
		WHERE c.postid = $1
		ORDER BY c.createdat ASC
		LIMIT $2 OFFSET $3`

	rows, err := repository.pool.Query(context, query, postID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(fmt.Errorf("postgres_comment_repo_list_failed: %w", err), "Comment")
	}
	defer rows.Close()

	var comments []*Comment
	for rows.Next() {
		comment := &Comment{}
		err := rows.Scan(
			&comment.ID, &comment.PostID,
			&comment.AuthorID, &comment.AuthorName,
			&comment.Body, &comment.CreatedAt,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(fmt.Errorf("postgres_comment_repo_scan_failed: %w", err), "Comment")
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(fmt.Errorf("postgres_comment_repo_rows_failed: %w", err), "Comment")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM blog.comment WHERE postid = $1`
	if err := repository.pool.QueryRow(context, countQuery, postID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(fmt.Errorf("postgres_comment_repo_count_failed: %w", err), "Comment")
	}

	return comments, total, nil
}

/*
Create persists a new comment.

Parameters:
  - context: context.Context
  - comment: *Comment (ID and CreatedAt must be pre-populated)

Returns:
  - error: Execution failure
*/
func (repository *PostgresCommentRepository) Create(context context.Context, comment *Comment) error {
	query := `
		INSERT INTO blog.comment (id, postid, authorid, body, createdat)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := repository.pool.Exec(context, query,
		comment.ID, comment.PostID, comment.AuthorID, comment.Body, comment.CreatedAt,
	)
	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_comment_repo_create_failed: %w", err), "Comment")
	}

	return nil
}

/*
Delete removes a comment by ID.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: apperr.NotFound if the comment does not exist, or execution failure
*/
func (repository *PostgresCommentRepository) Delete(context context.Context, id string) error {
	tag, err := repository.pool.Exec(context, `DELETE FROM blog.comment WHERE id = $1`, id)
	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_comment_repo_delete_failed: %w", err), "Comment")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}

	return nil
}
