// Copyright (c) 2026 Inkgate. All rights reserved.
// Author: minh.ngo.dev@gmail.com

package comment

import (
	"context"
	"time"

	"github.com/minhngo/inkgate/internal/platform/apperr"
	"github.com/minhngo/inkgate/internal/platform/sec"
	"github.com/minhngo/inkgate/pkg/uuidv7"
)

// Service implements comment use cases.
type Service struct {
	commentRepository CommentRepository
	postChecker       PostChecker
	now               func() time.Time
}

// NewService constructs a new comment [Service] with necessary dependencies.
func NewService(commentRepo CommentRepository, postChecker PostChecker) *Service {
	return &Service{
		commentRepository: commentRepo,
		postChecker:       postChecker,
		now:               time.Now,
	}
}

/*
ListComments retrieves the discussion thread on a post, oldest-first.

Description: The thread is publicly readable; no account is required. Only
writing is gated, matching the catalog where summaries are open and full
content is reserved.

Parameters:
  - context: Context for the database operation.
  - postID: Post ID.
  - limit: Page size.
  - offset: Page start.

Returns:
  - []*Comment: The thread page.
  - int: Total comment count for pagination metadata.
  - Returns [apperr.NotFound] when the post does not exist.
*/
func (service *Service) ListComments(context context.Context, postID string, limit, offset int) ([]*Comment, int, error) {
	exists, err := service.postChecker.PostExists(context, postID)
	if err != nil {
		return nil, 0, err
	}
	if !exists {
		return nil, 0, apperr.NotFound("Post")
	}

	return service.commentRepository.ListByPost(context, postID, limit, offset)
}

/*
CreateComment attaches a new comment to a post.

Parameters:
  - context: Context for the database operation.
  - actor: The authenticated requester.
  - postID: Post ID.
  - body: Comment text.

Returns:
  - *Comment: The stored comment.
  - Returns [apperr.SubscriptionRequired] when the actor is a reader
    without a live subscription.
  - Returns [apperr.NotFound] when the post does not exist.

# Business Rules
  - Commenting requires the same entitlement as reading full content. A
    user who cannot read the post cannot discuss it either.
*/
func (service *Service) CreateComment(context context.Context, actor *sec.Actor, postID, body string) (*Comment, error) {
	// ── 1. Entitlement Gate ───────────────────────────────────────────────

	if !actor.Entitled(service.now()) {
		return nil, apperr.SubscriptionRequired("You need to subscribe to join the discussion")
	}

	// ── 2. Reference Validation ───────────────────────────────────────────

	exists, err := service.postChecker.PostExists(context, postID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("Post")
	}

	// ── 3. Persistence ────────────────────────────────────────────────────

	comment := &Comment{
		ID:         uuidv7.New(),
		PostID:     postID,
		AuthorID:   actor.ID,
		AuthorName: actor.Username,
		Body:       body,
		CreatedAt:  service.now(),
	}

	if err := service.commentRepository.Create(context, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

/*
DeleteComment removes a comment as a moderation action.

Description: Deletion rights are granted per role. Any author may remove any
comment; the route guard enforces the role before this method runs.

Parameters:
  - context: Context for the database operation.
  - commentID: Comment ID.

Returns:
  - Returns [apperr.NotFound] when the comment does not exist.
*/
func (service *Service) DeleteComment(context context.Context, commentID string) error {
	return service.commentRepository.Delete(context, commentID)
}
