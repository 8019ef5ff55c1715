// Copyright (c) 2026 Inkgate. All rights reserved.
// Author: minh.ngo.dev@gmail.com

package blog

import (
	"context"
)

// PostRepository defines the persistence contract for posts and reactions.
type PostRepository interface {
	// List retrieves posts ordered newest-first, with total count.
	List(ctx context.Context, limit, offset int) ([]*Post, int, error)

	// ListByAuthor retrieves the posts written by one author, newest-first.
	ListByAuthor(ctx context.Context, authorID string, limit, offset int) ([]*Post, int, error)

	// FindByID retrieves a single post with its reaction tallies.
	FindByID(ctx context.Context, id string) (*Post, error)

	// Create persists a new post.
	Create(ctx context.Context, post *Post) error

	// Update persists changes to title, content, slug, and image fields.
	Update(ctx context.Context, post *Post) error

	// Delete removes a post and, via cascade, its reactions and comments.
	Delete(ctx context.Context, id string) error

	// React records a like (like=true) or dislike (like=false) by a user.
	//
	// A user holds at most one reaction per post. Switching sides replaces
	// the previous reaction atomically. Repeating the currently held
	// reaction returns [apperr.Conflict].
	React(ctx context.Context, postID, userID string, like bool) (*Tally, error)

	// CountReactions returns the current tallies for a post.
	CountReactions(ctx context.Context, postID string) (*Tally, error)
}
