// Copyright (c) 2026 Inkgate. All rights reserved.
// Author: minh.ngo.dev@gmail.com

/*
Package comment implements reader discussion attached to blog posts.

# Access Model

Writing a comment requires the same entitlement as reading full content
(author role or a live subscription). Reading the comment thread is open to
any authenticated user, matching the visible part of the catalog. Deletion
is an author-level moderation action.
*/
package comment

import (
	"time"
)

// Comment represents a single discussion entry on a post.
type Comment struct {
	ID     string `json:"id"`
	PostID string `json:"postId"`

	AuthorID   string `json:"authorId"`
	AuthorName string `json:"authorName,omitempty"`

	Body string `json:"body"`

	CreatedAt time.Time `json:"createdAt"`
}
