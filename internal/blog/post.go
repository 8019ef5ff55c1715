// Copyright (c) 2026 Inkgate. All rights reserved.
// Author: minh.ngo.dev@gmail.com

/*
Package blog implements the post catalog and the reaction ledger.

# Architecture

The package follows the standard domain layout:

  - post.go: Entity definitions and domain rules.
  - store.go: Repository contracts.
  - store_postgres.go: PostgreSQL repository implementation.
  - cache_redis.go: Volatile reaction-count cache.
  - service.go: Business logic (catalog, access gating, reactions).
  - http.go: HTTP transport layer.

# Access Model

Post summaries are visible to every authenticated user. Full content is
reserved for authors and readers holding a live subscription. Reactions
follow a one-vote-per-user ledger: a user holds at most one reaction per
post, switching sides replaces it, and repeating the same reaction is a
conflict.
*/
package blog

import (
	"time"
)

// Post represents a published blog entry.
type Post struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Slug     string `json:"slug"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl,omitempty"`
	// ImageKey is the object storage key backing ImageURL. Internal only.
	ImageKey string `json:"-"`

	AuthorID   string `json:"authorId"`
	AuthorName string `json:"authorName,omitempty"`

	Likes    int `json:"likes"`
	Dislikes int `json:"dislikes"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Summary returns a copy of the post with the content truncated for
// catalog listings. Truncation respects rune boundaries.
func (p *Post) Summary(maxContentLength int) *Post {
	summary := *p
	runes := []rune(summary.Content)
	if len(runes) > maxContentLength {
		summary.Content = string(runes[:maxContentLength]) + "..."
	}
	return &summary
}

// Tally is the aggregated reaction count for a post.
type Tally struct {
	Likes    int `json:"likes"`
	Dislikes int `json:"dislikes"`
}
