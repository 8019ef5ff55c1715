// Copyright (c) 2026 Inkgate. All rights reserved.
// Author: minh.ngo.dev@gmail.com

package blog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/minhngo/inkgate/internal/platform/apperr"
	"github.com/minhngo/inkgate/internal/platform/constants"
	"github.com/minhngo/inkgate/internal/platform/objstore"
	"github.com/minhngo/inkgate/internal/platform/sec"
	"github.com/minhngo/inkgate/pkg/slug"
	"github.com/minhngo/inkgate/pkg/uuidv7"
)

// Service implements the post catalog and reaction use cases.
type Service struct {
	postRepository PostRepository
	tallyCache     *TallyCache
	imageStore     objstore.ImageStore // nil when object storage is not configured
	now            func() time.Time
}

// NewService constructs a new blog [Service] with necessary dependencies.
//
// The tally cache and image store are optional; passing nil disables the
// corresponding feature without affecting the rest of the catalog.
func NewService(postRepo PostRepository, tallyCache *TallyCache, imageStore objstore.ImageStore) *Service {
	return &Service{
		postRepository: postRepo,
		tallyCache:     tallyCache,
		imageStore:     imageStore,
		now:            time.Now,
	}
}

/*
ListPosts retrieves the post catalog as summaries.

Description: Summaries truncate the content so the catalog itself never
leaks gated material. Any authenticated user may browse summaries; the
subscription gate applies only to full content.

Parameters:
  - context: Context for the database operation.
  - limit: Page size.
  - offset: Page start.

Returns:
  - []*Post: Summaries with truncated content.
  - int: Total post count for pagination metadata.
*/
func (service *Service) ListPosts(context context.Context, limit, offset int) ([]*Post, int, error) {
	posts, total, err := service.postRepository.List(context, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	summaries := make([]*Post, len(posts))
	for index, post := range posts {
		summaries[index] = post.Summary(constants.SummaryContentLength)
	}

	return summaries, total, nil
}

/*
ListOwnPosts retrieves the full posts written by the requesting author.

Parameters:
  - context: Context for the database operation.
  - authorID: The requesting author's account ID.
  - limit: Page size.
  - offset: Page start.

Returns:
  - []*Post: Full posts, untruncated. Authors always see their own content.
  - int: Total count of the author's posts.
*/
func (service *Service) ListOwnPosts(context context.Context, authorID string, limit, offset int) ([]*Post, int, error) {
	return service.postRepository.ListByAuthor(context, authorID, limit, offset)
}

/*
GetPost retrieves a single post with full content, enforcing the
subscription gate.

Parameters:
  - context: Context for the database operation.
  - actor: The authenticated requester.
  - id: Post ID.

Returns:
  - *Post: The full post with fresh tallies.
  - Returns [apperr.NotFound] when the post does not exist.
  - Returns [apperr.SubscriptionRequired] when the actor is a reader
    without a live subscription.

# Business Rules
  - A missing post reads as missing to everyone; the gate only guards
    content that exists.
  - Authors always have access, whether or not they wrote the post.
  - Readers need a subscription window covering the current instant.
    Access ends exactly at the expiry timestamp.
*/
func (service *Service) GetPost(context context.Context, actor *sec.Actor, id string) (*Post, error) {
	// ── 1. Fetch Post ─────────────────────────────────────────────────────

	post, err := service.postRepository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	// ── 2. Entitlement Gate ───────────────────────────────────────────────

	if !actor.Entitled(service.now()) {
		return nil, apperr.SubscriptionRequired("You need to subscribe to read the full content")
	}

	// ── 3. Tally Refresh ──────────────────────────────────────────────────

	if tally := service.cachedTally(context, id); tally != nil {
		post.Likes = tally.Likes
		post.Dislikes = tally.Dislikes
	}

	return post, nil
}

// ImageUpload carries an uploaded cover image through the service layer.
type ImageUpload struct {
	Content     io.Reader
	ContentType string
}

// CreateInput holds the data required to publish a new post.
type CreateInput struct {
	Title   string
	Content string
	Image   *ImageUpload // optional cover image
}

/*
CreatePost publishes a new post on behalf of an author.

Parameters:
  - context: Context for the database and storage operations.
  - actor: The authenticated author.
  - input: Title, content, and optional cover image.

Returns:
  - *Post: The newly published post.
  - Returns [apperr.ServiceUnavailable] if an image is supplied while
    object storage is not configured.
*/
func (service *Service) CreatePost(context context.Context, actor *sec.Actor, input CreateInput) (*Post, error) {
	// ── 1. Entity Construction ────────────────────────────────────────────

	createdAt := service.now()
	post := &Post{
		ID:         uuidv7.New(),
		Title:      input.Title,
		Slug:       slug.From(input.Title),
		Content:    input.Content,
		AuthorID:   actor.ID,
		AuthorName: actor.Username,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}

	// ── 2. Image Upload ───────────────────────────────────────────────────

	if input.Image != nil {
		imageURL, imageKey, err := service.uploadImage(context, post.ID, input.Image)
		if err != nil {
			return nil, err
		}
		post.ImageURL = imageURL
		post.ImageKey = imageKey
	}

	// ── 3. Persistence ────────────────────────────────────────────────────

	if err := service.postRepository.Create(context, post); err != nil {
		return nil, err
	}

	return post, nil
}

// UpdateInput holds the mutable fields of a post.
type UpdateInput struct {
	Title   string
	Content string
	Image   *ImageUpload // optional replacement cover image
}

/*
UpdatePost modifies an existing post.

Description: Editing rights are granted per role, not per record. Any author
may edit any post; ownership is recorded for attribution, not enforcement.

Parameters:
  - context: Context for the database and storage operations.
  - id: Post ID.
  - input: Replacement title, content, and optional new cover image.

Returns:
  - *Post: The updated post.
  - Returns [apperr.NotFound] when the post does not exist.
*/
func (service *Service) UpdatePost(context context.Context, id string, input UpdateInput) (*Post, error) {
	// ── 1. Fetch Current State ────────────────────────────────────────────

	post, err := service.postRepository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	// ── 2. Apply Changes ──────────────────────────────────────────────────

	post.Title = input.Title
	post.Slug = slug.From(input.Title)
	post.Content = input.Content
	post.UpdatedAt = service.now()

	if input.Image != nil {
		previousKey := post.ImageKey

		imageURL, imageKey, err := service.uploadImage(context, post.ID, input.Image)
		if err != nil {
			return nil, err
		}
		post.ImageURL = imageURL
		post.ImageKey = imageKey

		// Old image cleanup is best-effort. Orphaned objects cost storage,
		// not correctness.
		if previousKey != "" && previousKey != imageKey {
			_ = service.imageStore.Remove(context, previousKey)
		}
	}

	// ── 3. Persistence ────────────────────────────────────────────────────

	if err := service.postRepository.Update(context, post); err != nil {
		return nil, err
	}

	return post, nil
}

/*
DeletePost removes a post and its stored cover image.

Parameters:
  - context: Context for the database and storage operations.
  - id: Post ID.

Returns:
  - Returns [apperr.NotFound] when the post does not exist.
*/
func (service *Service) DeletePost(context context.Context, id string) error {
	post, err := service.postRepository.FindByID(context, id)
	if err != nil {
		return err
	}

	if err := service.postRepository.Delete(context, post.ID); err != nil {
		return err
	}

	// Image cleanup is best-effort after the row is gone.
	if post.ImageKey != "" && service.imageStore != nil {
		_ = service.imageStore.Remove(context, post.ImageKey)
	}

	if service.tallyCache != nil {
		service.tallyCache.Invalidate(context, post.ID)
	}

	return nil
}

/*
React records a like or dislike by the acting user.

Parameters:
  - context: Context for the database operation.
  - actor: The authenticated requester.
  - postID: Post ID.
  - like: true for a like, false for a dislike.

Returns:
  - *Tally: The fresh tallies after recording the reaction.
  - Returns [apperr.Conflict] if the actor already holds this reaction.
  - Returns [apperr.NotFound] if the post does not exist.

# Business Rules
  - One reaction per user per post. Switching sides replaces the previous
    reaction in the same atomic step.
  - Reacting requires authentication only; the subscription gate covers
    content, not reactions.
*/
func (service *Service) React(context context.Context, actor *sec.Actor, postID string, like bool) (*Tally, error) {
	tally, err := service.postRepository.React(context, postID, actor.ID, like)
	if err != nil {
		return nil, err
	}

	// Replace the cached tally with the fresh one.
	if service.tallyCache != nil {
		service.tallyCache.Set(context, postID, tally)
	}

	return tally, nil
}

/*
PostExists reports whether a post exists. Other domains (comments) use this
to validate references without importing the whole catalog.
*/
func (service *Service) PostExists(context context.Context, postID string) (bool, error) {
	_, err := service.postRepository.FindByID(context, postID)
	if err != nil {
		var appError *apperr.AppError
		if errors.As(err, &appError) && appError.HTTPStatus == http.StatusNotFound {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// cachedTally reads the tally through the cache, falling back to the
// repository and repopulating on a miss.
func (service *Service) cachedTally(context context.Context, postID string) *Tally {
	if service.tallyCache == nil {
		return nil
	}

	if tally := service.tallyCache.Get(context, postID); tally != nil {
		return tally
	}

	tally, err := service.postRepository.CountReactions(context, postID)
	if err != nil {
		return nil
	}

	service.tallyCache.Set(context, postID, tally)
	return tally
}

// uploadImage stores a cover image and returns its public URL and key.
func (service *Service) uploadImage(context context.Context, postID string, image *ImageUpload) (string, string, error) {
	if service.imageStore == nil {
		return "", "", apperr.ServiceUnavailable("Image storage is not configured")
	}

	key := fmt.Sprintf("posts/%s/%s", postID, uuidv7.New())
	imageURL, err := service.imageStore.Upload(context, key, image.ContentType, image.Content)
	if err != nil {
		return "", "", fmt.Errorf("blog_service_image_upload_failed: %w", err)
	}

	return imageURL, key, nil
}
