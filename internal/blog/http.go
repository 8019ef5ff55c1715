// Copyright (c) 2026 Inkgate. All rights reserved.
// Author: minh.ngo.dev@gmail.com

package blog

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/minhngo/inkgate/internal/platform/constants"
	"github.com/minhngo/inkgate/internal/platform/middleware"
	requestutil "github.com/minhngo/inkgate/internal/platform/request"
	"github.com/minhngo/inkgate/internal/platform/respond"
	"github.com/minhngo/inkgate/internal/platform/sec"
	"github.com/minhngo/inkgate/internal/platform/validate"
	"github.com/minhngo/inkgate/pkg/pagination"
)

// Handler implements post catalog and reaction HTTP endpoints.
type Handler struct {
	blogService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{blogService: service}
}

// Routes returns a [chi.Router] configured with blog routes.
//
// # Endpoints
//   - GET    /             : Catalog of post summaries (authenticated).
//   - GET    /{id}         : Full post, subscription-gated (authenticated).
//   - POST   /{id}/like    : Record a like (authenticated).
//   - POST   /{id}/dislike : Record a dislike (authenticated).
//   - GET    /admin        : The requesting author's own posts (author).
//   - POST   /             : Publish a post (author).
//   - PUT    /{id}         : Edit a post (author).
//   - DELETE /{id}         : Remove a post (author).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(authenticated chi.Router) {
		authenticated.Use(middleware.RequireAuth)

		authenticated.Get("/", handler.list)
		authenticated.Get("/{id}", handler.get)
		authenticated.Post("/{id}/like", handler.like)
		authenticated.Post("/{id}/dislike", handler.dislike)
	})

	router.Group(func(authors chi.Router) {
		authors.Use(middleware.RequireRole(sec.RoleAuthor))

		authors.Get("/admin", handler.listOwn)
		authors.Post("/", handler.create)
		authors.Put("/{id}", handler.update)
		authors.Delete("/{id}", handler.remove)
	})

	return router
}

// list handles GET /api/v1/blogs requests.
//
// # Returns
//   - 200: Paginated post summaries with truncated content.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	// Pagination extraction using pkg/pagination
	paginationParams := pagination.FromRequest(request)

	posts, total, err := handler.blogService.ListPosts(request.Context(), paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, posts, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

// get handles GET /api/v1/blogs/{id} requests.
//
// # Returns
//   - 200: The full post.
//   - 403: SUBSCRIPTION_REQUIRED for readers without a live subscription.
//   - 404: Unknown post.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	post, err := handler.blogService.GetPost(request.Context(), actor, requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, post)
}

// like handles POST /api/v1/blogs/{id}/like requests.
//
// # Returns
//   - 200: Fresh reaction tallies.
//   - 409: The user already likes this post.
func (handler *Handler) like(writer http.ResponseWriter, request *http.Request) {
	handler.react(writer, request, true)
}

// dislike handles POST /api/v1/blogs/{id}/dislike requests.
//
// # Returns
//   - 200: Fresh reaction tallies.
//   - 409: The user already dislikes this post.
func (handler *Handler) dislike(writer http.ResponseWriter, request *http.Request) {
	handler.react(writer, request, false)
}

// react is the shared implementation for both reaction endpoints.
func (handler *Handler) react(writer http.ResponseWriter, request *http.Request, like bool) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	tally, err := handler.blogService.React(request.Context(), actor, requestutil.Param(request, "id"), like)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, tally)
}

// listOwn handles GET /api/v1/blogs/admin requests.
//
// # Returns
//   - 200: Paginated full posts written by the requesting author.
func (handler *Handler) listOwn(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	paginationParams := pagination.FromRequest(request)

	posts, total, err := handler.blogService.ListOwnPosts(request.Context(), actor.ID, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, posts, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

// postPayload is the decoded body of a create or update request.
type postPayload struct {
	Title   string
	Content string
	Image   *ImageUpload
}

// create handles POST /api/v1/blogs requests.
//
// # Request
//   - multipart/form-data with fields title, content, and optional image.
//   - application/json with fields title and content.
//
// # Returns
//   - 201: The published post.
//   - 400: Validation failure.
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Actor Resolution ───────────────────────────────────────────────

	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 2. Payload Extraction ─────────────────────────────────────────────

	payload, err := handler.decodePayload(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 3. Boundary Validation ────────────────────────────────────────────

	validator := (&validate.Validator{}).
		Required("title", payload.Title).
		MaxLen("title", payload.Title, 200).
		Required("content", payload.Content)

	if validator.HasErrors() {
		respond.Error(writer, request, validator.Err())
		return
	}

	// ── 4. Application Execution ──────────────────────────────────────────

	post, err := handler.blogService.CreatePost(request.Context(), actor, CreateInput{
		Title:   payload.Title,
		Content: payload.Content,
		Image:   payload.Image,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, post)
}

// update handles PUT /api/v1/blogs/{id} requests.
//
// # Returns
//   - 200: The updated post.
//   - 404: Unknown post.
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	payload, err := handler.decodePayload(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := (&validate.Validator{}).
		Required("title", payload.Title).
		MaxLen("title", payload.Title, 200).
		Required("content", payload.Content)

	if validator.HasErrors() {
		respond.Error(writer, request, validator.Err())
		return
	}

	post, err := handler.blogService.UpdatePost(request.Context(), requestutil.Param(request, "id"), UpdateInput{
		Title:   payload.Title,
		Content: payload.Content,
		Image:   payload.Image,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, post)
}

// remove handles DELETE /api/v1/blogs/{id} requests.
//
// # Returns
//   - 204: The post was removed.
//   - 404: Unknown post.
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	if err := handler.blogService.DeletePost(request.Context(), requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// decodePayload reads a post payload from either multipart form data (the
// path that carries an image) or a plain JSON body.
func (handler *Handler) decodePayload(request *http.Request) (*postPayload, error) {
	contentType := request.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := request.ParseMultipartForm(constants.MaxImageUploadBytes); err != nil {
			return nil, validate.ErrInvalidJSON
		}

		payload := &postPayload{
			Title:   request.FormValue("title"),
			Content: request.FormValue("content"),
		}

		file, header, err := request.FormFile("image")
		if err == nil {
			payload.Image = &ImageUpload{
				Content:     file,
				ContentType: imageContentType(header),
			}
		}

		return payload, nil
	}

	var body struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		return nil, err
	}

	return &postPayload{Title: body.Title, Content: body.Content}, nil
}

// imageContentType extracts the declared content type of an uploaded file,
// defaulting to a generic binary type.
func imageContentType(header *multipart.FileHeader) string {
	if contentType := header.Header.Get("Content-Type"); contentType != "" {
		return contentType
	}
	return "application/octet-stream"
}
