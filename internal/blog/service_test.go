// Copyright (c) 2026 Inkgate. All rights reserved.
// Author: minh.ngo.dev@gmail.com

package blog_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhngo/inkgate/internal/blog"
	"github.com/minhngo/inkgate/internal/platform/apperr"
	"github.com/minhngo/inkgate/internal/platform/constants"
	"github.com/minhngo/inkgate/internal/platform/sec"
)

// fakePostRepository is an in-memory PostRepository mirroring the reaction
// semantics of the SQL implementation.
type fakePostRepository struct {
	posts     map[string]*blog.Post
	order     []string                   // insertion order, newest last
	reactions map[string]map[string]bool // postID -> userID -> islike
}

func newFakePostRepository() *fakePostRepository {
	return &fakePostRepository{
		posts:     map[string]*blog.Post{},
		reactions: map[string]map[string]bool{},
	}
}

func (repository *fakePostRepository) List(_ context.Context, limit, offset int) ([]*blog.Post, int, error) {
	var posts []*blog.Post
	// Newest-first ordering
	for index := len(repository.order) - 1; index >= 0; index-- {
		posts = append(posts, repository.hydrate(repository.order[index]))
	}

	total := len(posts)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	return posts[offset:end], total, nil
}

func (repository *fakePostRepository) ListByAuthor(_ context.Context, authorID string, limit, offset int) ([]*blog.Post, int, error) {
	var posts []*blog.Post
	for index := len(repository.order) - 1; index >= 0; index-- {
		post := repository.hydrate(repository.order[index])
		if post.AuthorID == authorID {
			posts = append(posts, post)
		}
	}

	total := len(posts)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	return posts[offset:end], total, nil
}

func (repository *fakePostRepository) FindByID(_ context.Context, id string) (*blog.Post, error) {
	if _, ok := repository.posts[id]; !ok {
		return nil, apperr.NotFound("Post")
	}
	return repository.hydrate(id), nil
}

func (repository *fakePostRepository) Create(_ context.Context, post *blog.Post) error {
	clone := *post
	repository.posts[post.ID] = &clone
	repository.order = append(repository.order, post.ID)
	return nil
}

func (repository *fakePostRepository) Update(_ context.Context, post *blog.Post) error {
	if _, ok := repository.posts[post.ID]; !ok {
		return apperr.NotFound("Post")
	}
	clone := *post
	repository.posts[post.ID] = &clone
	return nil
}

func (repository *fakePostRepository) Delete(_ context.Context, id string) error {
	if _, ok := repository.posts[id]; !ok {
		return apperr.NotFound("Post")
	}
	delete(repository.posts, id)
	delete(repository.reactions, id)
	for index, orderedID := range repository.order {
		if orderedID == id {
			repository.order = append(repository.order[:index], repository.order[index+1:]...)
			break
		}
	}
	return nil
}

func (repository *fakePostRepository) React(_ context.Context, postID, userID string, like bool) (*blog.Tally, error) {
	if _, ok := repository.posts[postID]; !ok {
		return nil, apperr.NotFound("Post")
	}

	if repository.reactions[postID] == nil {
		repository.reactions[postID] = map[string]bool{}
	}

	current, held := repository.reactions[postID][userID]
	if held && current == like {
		if like {
			return nil, apperr.Conflict("You already liked this post")
		}
		return nil, apperr.Conflict("You already disliked this post")
	}

	repository.reactions[postID][userID] = like
	return repository.CountReactions(context.Background(), postID)
}

func (repository *fakePostRepository) CountReactions(_ context.Context, postID string) (*blog.Tally, error) {
	tally := &blog.Tally{}
	for _, isLike := range repository.reactions[postID] {
		if isLike {
			tally.Likes++
		} else {
			tally.Dislikes++
		}
	}
	return tally, nil
}

// hydrate copies a stored post and attaches its tallies, like the SQL joins do.
func (repository *fakePostRepository) hydrate(id string) *blog.Post {
	clone := *repository.posts[id]
	tally, _ := repository.CountReactions(context.Background(), id)
	clone.Likes = tally.Likes
	clone.Dislikes = tally.Dislikes
	return &clone
}

func authorActor() *sec.Actor {
	return &sec.Actor{ID: "author-1", Username: "writer", Role: sec.RoleAuthor}
}

func subscribedReader(expiry time.Time) *sec.Actor {
	return &sec.Actor{ID: "reader-1", Username: "reader", Role: sec.RoleReader, IsSubscribed: true, SubscriptionExpiry: &expiry}
}

func unsubscribedReader() *sec.Actor {
	return &sec.Actor{ID: "reader-2", Username: "freerider", Role: sec.RoleReader}
}

func newTestService(t *testing.T) (*blog.Service, *fakePostRepository) {
	t.Helper()
	repository := newFakePostRepository()
	return blog.NewService(repository, nil, nil), repository
}

func publish(t *testing.T, service *blog.Service, title, content string) *blog.Post {
	t.Helper()
	post, err := service.CreatePost(context.Background(), authorActor(), blog.CreateInput{
		Title:   title,
		Content: content,
	})
	require.NoError(t, err)
	return post
}

/*
TestService_ListPosts verifies that the catalog returns summaries with the
content truncated, regardless of subscription state.
*/
func TestService_ListPosts(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	longContent := strings.Repeat("x", constants.SummaryContentLength+50)
	publish(t, service, "Long read", longContent)
	publish(t, service, "Short note", "brief")

	posts, total, err := service.ListPosts(ctx, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, posts, 2)

	// 1. Newest-first ordering
	assert.Equal(t, "Short note", posts[0].Title)

	// 2. Long content is truncated with an ellipsis marker
	assert.Equal(t, longContent[:constants.SummaryContentLength]+"...", posts[1].Content)

	// 3. Short content passes through untouched
	assert.Equal(t, "brief", posts[0].Content)
}

/*
TestService_GetPost_Entitlement verifies the subscription gate on full
content for every actor class.
*/
func TestService_GetPost_Entitlement(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	post := publish(t, service, "Gated", "full secret content")

	testCases := []struct {
		name    string
		actor   *sec.Actor
		allowed bool
	}{
		{"author always allowed", authorActor(), true},
		{"subscribed reader allowed", subscribedReader(time.Now().Add(10 * time.Minute)), true},
		{"unsubscribed reader blocked", unsubscribedReader(), false},
		{"expired subscription blocked", subscribedReader(time.Now().Add(-time.Second)), false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			fetched, err := service.GetPost(ctx, testCase.actor, post.ID)

			if testCase.allowed {
				require.NoError(t, err)
				assert.Equal(t, "full secret content", fetched.Content)
				return
			}

			var appError *apperr.AppError
			require.True(t, errors.As(err, &appError))
			assert.Equal(t, "SUBSCRIPTION_REQUIRED", appError.Code)
		})
	}
}

/*
TestService_GetPost_NotFound verifies that an unknown post reads as missing
to every actor: the existence check runs before the subscription gate.
*/
func TestService_GetPost_NotFound(t *testing.T) {
	service, _ := newTestService(t)

	testCases := []struct {
		name  string
		actor *sec.Actor
	}{
		{"entitled author", authorActor()},
		{"unsubscribed reader", unsubscribedReader()},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := service.GetPost(context.Background(), testCase.actor, "missing-id")

			var appError *apperr.AppError
			require.True(t, errors.As(err, &appError))
			assert.Equal(t, "NOT_FOUND", appError.Code)
		})
	}
}

/*
TestService_React verifies the one-vote-per-user ledger: first reactions
count, duplicates conflict, and switching sides moves the vote.
*/
func TestService_React(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	post := publish(t, service, "Reactive", "content")
	voter := unsubscribedReader() // reacting needs no subscription

	// 1. First like is recorded
	tally, err := service.React(ctx, voter, post.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 1, tally.Likes)
	assert.Equal(t, 0, tally.Dislikes)

	// 2. Repeating the same reaction is a conflict
	_, err = service.React(ctx, voter, post.ID, true)
	var appError *apperr.AppError
	require.True(t, errors.As(err, &appError))
	assert.Equal(t, "CONFLICT", appError.Code)
	assert.Equal(t, "You already liked this post", appError.Message)

	// 3. Switching sides replaces the vote, never duplicates it
	tally, err = service.React(ctx, voter, post.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 0, tally.Likes)
	assert.Equal(t, 1, tally.Dislikes)

	// 4. Repeating the dislike is again a conflict
	_, err = service.React(ctx, voter, post.ID, false)
	require.True(t, errors.As(err, &appError))
	assert.Equal(t, "You already disliked this post", appError.Message)

	// 5. A second voter tallies independently
	other := subscribedReader(time.Now().Add(time.Minute))
	tally, err = service.React(ctx, other, post.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 1, tally.Likes)
	assert.Equal(t, 1, tally.Dislikes)
}

/*
TestService_React_UnknownPost verifies that reacting to a missing post
yields Not Found, not a silent insert.
*/
func TestService_React_UnknownPost(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.React(context.Background(), unsubscribedReader(), "missing-id", true)
	var appError *apperr.AppError
	require.True(t, errors.As(err, &appError))
	assert.Equal(t, "NOT_FOUND", appError.Code)
}

/*
TestService_CreatePost verifies slug derivation and authorship attribution.
*/
func TestService_CreatePost(t *testing.T) {
	service, repository := newTestService(t)

	post := publish(t, service, "Hello Wörld, Go!", "content")

	assert.Equal(t, "hello-world-go", post.Slug)
	assert.Equal(t, "author-1", post.AuthorID)
	assert.Equal(t, "writer", post.AuthorName)
	assert.NotEmpty(t, post.ID)

	stored, err := repository.FindByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.Slug, stored.Slug)
}

/*
TestService_CreatePost_ImageWithoutStorage verifies that supplying an image
without configured object storage fails loudly instead of dropping the file.
*/
func TestService_CreatePost_ImageWithoutStorage(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.CreatePost(context.Background(), authorActor(), blog.CreateInput{
		Title:   "With image",
		Content: "content",
		Image:   &blog.ImageUpload{Content: strings.NewReader("bytes"), ContentType: "image/png"},
	})

	var appError *apperr.AppError
	require.True(t, errors.As(err, &appError))
	assert.Equal(t, "SERVICE_UNAVAILABLE", appError.Code)
}

/*
TestService_UpdatePost verifies the role-scoped edit policy and slug refresh.
*/
func TestService_UpdatePost(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	post := publish(t, service, "Original Title", "original content")

	// Editing rights are per role. The service takes no actor here; any
	// caller that passed the author route guard may edit any post.
	updated, err := service.UpdatePost(ctx, post.ID, blog.UpdateInput{
		Title:   "Revised Title",
		Content: "revised content",
	})
	require.NoError(t, err)

	assert.Equal(t, "Revised Title", updated.Title)
	assert.Equal(t, "revised-title", updated.Slug)
	assert.Equal(t, "revised content", updated.Content)
	// Attribution is untouched by edits
	assert.Equal(t, "author-1", updated.AuthorID)
}

/*
TestService_DeletePost verifies removal and that reactions disappear with
the post.
*/
func TestService_DeletePost(t *testing.T) {
	service, repository := newTestService(t)
	ctx := context.Background()

	post := publish(t, service, "Doomed", "content")
	_, err := service.React(ctx, unsubscribedReader(), post.ID, true)
	require.NoError(t, err)

	require.NoError(t, service.DeletePost(ctx, post.ID))

	_, err = repository.FindByID(ctx, post.ID)
	assert.Error(t, err)

	// Deleting twice is a 404
	err = service.DeletePost(ctx, post.ID)
	var appError *apperr.AppError
	require.True(t, errors.As(err, &appError))
	assert.Equal(t, "NOT_FOUND", appError.Code)
}

/*
TestService_ListOwnPosts verifies the author dashboard listing.
*/
func TestService_ListOwnPosts(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	publish(t, service, "Mine", "content")

	other := &sec.Actor{ID: "author-2", Username: "colleague", Role: sec.RoleAuthor}
	_, err := service.CreatePost(ctx, other, blog.CreateInput{Title: "Theirs", Content: "content"})
	require.NoError(t, err)

	posts, total, err := service.ListOwnPosts(ctx, "author-1", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, posts, 1)
	assert.Equal(t, "Mine", posts[0].Title)
	// Dashboard entries are full posts, not summaries
	assert.Equal(t, "content", posts[0].Content)
}
