// Copyright (c) 2026 Inkgate. All rights reserved.
// Author: minh.ngo.dev@gmail.com

package comment

import (
	"context"
)

// CommentRepository defines the persistence contract for comments.
type CommentRepository interface {
	// ListByPost retrieves the comments on a post, oldest-first, with total.
	ListByPost(ctx context.Context, postID string, limit, offset int) ([]*Comment, int, error)

	// Create persists a new comment.
	Create(ctx context.Context, comment *Comment) error

	// Delete removes a comment by ID.
	Delete(ctx context.Context, id string) error
}

// PostChecker verifies that a post exists before a comment is attached.
//
// The blog service satisfies this; the narrow interface keeps the comment
// domain from depending on the whole post catalog.
type PostChecker interface {
	PostExists(ctx context.Context, postID string) (bool, error)
}
