// Copyright (c) 2026 Inkgate. All rights reserved.
// Author: minh.ngo.dev@gmail.com

/*
Package api provides a typed HTTP client for the Inkgate REST API.

# Architecture

The client is transport only: it attaches the bearer token, speaks the
standard response envelopes, and surfaces API failures as [*APIError].
Session bookkeeping (storing tokens, reacting to expiry) belongs to the
session and guard packages.
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"
)

// defaultTimeout bounds every API call that carries no body stream.
const defaultTimeout = 15 * time.Second

// TokenSource yields the current bearer token, or "" when logged out.
type TokenSource func() string

// Client is a typed client for the Inkgate REST API.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	tokenSource TokenSource
}

// New constructs a client for the API at baseURL.
//
// tokenSource may be nil for a client that only calls public endpoints.
func New(baseURL string, tokenSource TokenSource) *Client {
	return &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/") + "/api/v1",
		httpClient:  &http.Client{Timeout: defaultTimeout},
		tokenSource: tokenSource,
	}
}

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("api: %s (%d %s)", e.Message, e.Status, e.Code)
}

// IsSubscriptionRequired reports whether the error is the subscription gate.
func IsSubscriptionRequired(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.Code == "SUBSCRIPTION_REQUIRED"
}

// IsConflict reports whether the error is a conflict, such as repeating a
// reaction the user already holds.
func IsConflict(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.Status == http.StatusConflict
}

// User mirrors the account resource returned by the API.
type User struct {
	ID                 string     `json:"id"`
	Username           string     `json:"username"`
	Email              string     `json:"email"`
	Role               string     `json:"role"`
	IsSubscribed       bool       `json:"isSubscribed"`
	SubscriptionExpiry *time.Time `json:"subscriptionExpiry,omitempty"`
}

// Post mirrors the post resource returned by the API.
type Post struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	Content    string    `json:"content"`
	ImageURL   string    `json:"imageUrl,omitempty"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName,omitempty"`
	Likes      int       `json:"likes"`
	Dislikes   int       `json:"dislikes"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Comment mirrors the comment resource returned by the API.
type Comment struct {
	ID         string    `json:"id"`
	PostID     string    `json:"postId"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName,omitempty"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Tally mirrors the reaction counts returned by the reaction endpoints.
type Tally struct {
	Likes    int `json:"likes"`
	Dislikes int `json:"dislikes"`
}

// Meta mirrors the pagination metadata block.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// Session carries a token plus the user it belongs to.
type Session struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// ── Auth endpoints ──

// RegisterInput is the payload for account creation.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// Register creates a new account.
func (client *Client) Register(ctx context.Context, input RegisterInput) (*User, error) {
	user := &User{}
	if err := client.doJSON(ctx, http.MethodPost, "/auth/register", input, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates and returns the issued token with the user profile.
func (client *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	payload := map[string]string{"email": email, "password": password}

	session := &Session{}
	if err := client.doJSON(ctx, http.MethodPost, "/auth/login", payload, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Subscribe activates a subscription window and returns the reissued token.
func (client *Client) Subscribe(ctx context.Context) (*Session, error) {
	session := &Session{}
	if err := client.doJSON(ctx, http.MethodPost, "/auth/subscribe", nil, session); err != nil {
		return nil, err
	}
	return session, nil
}

// ── Blog endpoints ──

// ListPosts retrieves a page of post summaries.
func (client *Client) ListPosts(ctx context.Context, page, limit int) ([]Post, *Meta, error) {
	return client.listPosts(ctx, "/blogs", page, limit)
}

// ListOwnPosts retrieves a page of the caller's own posts (author only).
func (client *Client) ListOwnPosts(ctx context.Context, page, limit int) ([]Post, *Meta, error) {
	return client.listPosts(ctx, "/blogs/admin", page, limit)
}

func (client *Client) listPosts(ctx context.Context, path string, page, limit int) ([]Post, *Meta, error) {
	var posts []Post
	meta, err := client.doPaginated(ctx, fmt.Sprintf("%s?page=%d&limit=%d", path, page, limit), &posts)
	if err != nil {
		return nil, nil, err
	}
	return posts, meta, nil
}

// GetPost retrieves the full content of a post. Fails with the
// SUBSCRIPTION_REQUIRED code for readers without a live subscription.
func (client *Client) GetPost(ctx context.Context, id string) (*Post, error) {
	post := &Post{}
	if err := client.doJSON(ctx, http.MethodGet, "/blogs/"+id, nil, post); err != nil {
		return nil, err
	}
	return post, nil
}

// CreatePostInput is the payload for publishing a post.
type CreatePostInput struct {
	Title   string
	Content string

	// Optional cover image. ImageName and ImageType describe the file for
	// the multipart part header.
	Image     io.Reader
	ImageName string
	ImageType string
}

// CreatePost publishes a new post (author only). Posts with an image are
// sent as multipart form data, plain posts as JSON.
func (client *Client) CreatePost(ctx context.Context, input CreatePostInput) (*Post, error) {
	post := &Post{}

	if input.Image == nil {
		payload := map[string]string{"title": input.Title, "content": input.Content}
		if err := client.doJSON(ctx, http.MethodPost, "/blogs", payload, post); err != nil {
			return nil, err
		}
		return post, nil
	}

	body, contentType, err := encodeMultipart(input)
	if err != nil {
		return nil, err
	}

	if err := client.do(ctx, http.MethodPost, "/blogs", body, contentType, post); err != nil {
		return nil, err
	}
	return post, nil
}

// UpdatePost edits an existing post (author only).
func (client *Client) UpdatePost(ctx context.Context, id, title, content string) (*Post, error) {
	payload := map[string]string{"title": title, "content": content}

	post := &Post{}
	if err := client.doJSON(ctx, http.MethodPut, "/blogs/"+id, payload, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes a post (author only).
func (client *Client) DeletePost(ctx context.Context, id string) error {
	return client.doJSON(ctx, http.MethodDelete, "/blogs/"+id, nil, nil)
}

// Like records a like on a post. Repeating a held like is a conflict.
func (client *Client) Like(ctx context.Context, postID string) (*Tally, error) {
	return client.react(ctx, postID, "like")
}

// Dislike records a dislike on a post. Repeating a held dislike is a conflict.
func (client *Client) Dislike(ctx context.Context, postID string) (*Tally, error) {
	return client.react(ctx, postID, "dislike")
}

func (client *Client) react(ctx context.Context, postID, side string) (*Tally, error) {
	tally := &Tally{}
	if err := client.doJSON(ctx, http.MethodPost, fmt.Sprintf("/blogs/%s/%s", postID, side), nil, tally); err != nil {
		return nil, err
	}
	return tally, nil
}

// ── Comment endpoints ──

// ListComments retrieves a page of the discussion thread on a post.
func (client *Client) ListComments(ctx context.Context, blogID string, page, limit int) ([]Comment, *Meta, error) {
	var comments []Comment
	meta, err := client.doPaginated(ctx, fmt.Sprintf("/comments/%s?page=%d&limit=%d", blogID, page, limit), &comments)
	if err != nil {
		return nil, nil, err
	}
	return comments, meta, nil
}

// CreateComment adds a comment to a post. Gated like full content.
func (client *Client) CreateComment(ctx context.Context, blogID, body string) (*Comment, error) {
	payload := map[string]string{"body": body}

	comment := &Comment{}
	if err := client.doJSON(ctx, http.MethodPost, "/comments/"+blogID, payload, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment removes a comment (author only).
func (client *Client) DeleteComment(ctx context.Context, commentID string) error {
	return client.doJSON(ctx, http.MethodDelete, "/comments/"+commentID, nil, nil)
}

// ── Transport plumbing ──

// successEnvelope mirrors the API's single-resource envelope.
type successEnvelope struct {
	Data json.RawMessage `json:"data"`
}

// paginatedEnvelope mirrors the API's list envelope.
type paginatedEnvelope struct {
	Data json.RawMessage `json:"data"`
	Meta Meta            `json:"meta"`
}

// errorEnvelope mirrors the API's error envelope.
type errorEnvelope struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// doJSON sends a request with an optional JSON body and decodes the success
// envelope into target (which may be nil for 204 responses).
func (client *Client) doJSON(ctx context.Context, method, path string, payload, target any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("api: encode failed: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	return client.do(ctx, method, path, body, "application/json", target)
}

// doPaginated sends a GET and decodes the paginated envelope.
func (client *Client) doPaginated(ctx context.Context, path string, target any) (*Meta, error) {
	response, err := client.send(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if err := checkStatus(response); err != nil {
		return nil, err
	}

	envelope := &paginatedEnvelope{}
	if err := json.NewDecoder(response.Body).Decode(envelope); err != nil {
		return nil, fmt.Errorf("api: decode failed: %w", err)
	}

	if len(envelope.Data) > 0 && string(envelope.Data) != "null" {
		if err := json.Unmarshal(envelope.Data, target); err != nil {
			return nil, fmt.Errorf("api: decode failed: %w", err)
		}
	}

	return &envelope.Meta, nil
}

// do sends a request and decodes the success envelope into target.
func (client *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, target any) error {
	response, err := client.send(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if err := checkStatus(response); err != nil {
		return err
	}

	if target == nil || response.StatusCode == http.StatusNoContent {
		return nil
	}

	envelope := &successEnvelope{}
	if err := json.NewDecoder(response.Body).Decode(envelope); err != nil {
		return fmt.Errorf("api: decode failed: %w", err)
	}

	if err := json.Unmarshal(envelope.Data, target); err != nil {
		return fmt.Errorf("api: decode failed: %w", err)
	}

	return nil
}

// send builds and executes the HTTP request with auth headers attached.
func (client *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	request, err := http.NewRequestWithContext(ctx, method, client.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("api: build request failed: %w", err)
	}

	if contentType != "" && body != nil {
		request.Header.Set("Content-Type", contentType)
	}

	if client.tokenSource != nil {
		if token := client.tokenSource(); token != "" {
			request.Header.Set("Authorization", "Bearer "+token)
		}
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("api: request failed: %w", err)
	}

	return response, nil
}

// checkStatus converts non-2xx responses into [*APIError].
func checkStatus(response *http.Response) error {
	if response.StatusCode < 300 {
		return nil
	}

	apiError := &APIError{Status: response.StatusCode, Message: http.StatusText(response.StatusCode)}

	envelope := &errorEnvelope{}
	if err := json.NewDecoder(response.Body).Decode(envelope); err == nil && envelope.Error != "" {
		apiError.Message = envelope.Error
		apiError.Code = envelope.Code
	}

	return apiError
}

// encodeMultipart builds the multipart body for a post with a cover image.
func encodeMultipart(input CreatePostInput) (io.Reader, string, error) {
	buffer := &bytes.Buffer{}
	form := multipart.NewWriter(buffer)

	if err := form.WriteField("title", input.Title); err != nil {
		return nil, "", fmt.Errorf("api: multipart encode failed: %w", err)
	}
	if err := form.WriteField("content", input.Content); err != nil {
		return nil, "", fmt.Errorf("api: multipart encode failed: %w", err)
	}

	imageName := input.ImageName
	if imageName == "" {
		imageName = "image"
	}
	imageType := input.ImageType
	if imageType == "" {
		imageType = "application/octet-stream"
	}

	partHeader := textproto.MIMEHeader{}
	partHeader.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, imageName))
	partHeader.Set("Content-Type", imageType)

	part, err := form.CreatePart(partHeader)
	if err != nil {
		return nil, "", fmt.Errorf("api: multipart encode failed: %w", err)
	}
	if _, err := io.Copy(part, input.Image); err != nil {
		return nil, "", fmt.Errorf("api: multipart encode failed: %w", err)
	}

	if err := form.Close(); err != nil {
		return nil, "", fmt.Errorf("api: multipart encode failed: %w", err)
	}

	return buffer, form.FormDataContentType(), nil
}
