// Copyright (c) 2026 Inkgate. All rights reserved.
// Author: minh.ngo.dev@gmail.com

package comment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/minhngo/inkgate/internal/platform/middleware"
	requestutil "github.com/minhngo/inkgate/internal/platform/request"
	"github.com/minhngo/inkgate/internal/platform/respond"
	"github.com/minhngo/inkgate/internal/platform/sec"
	"github.com/minhngo/inkgate/internal/platform/validate"
	"github.com/minhngo/inkgate/pkg/pagination"
)

// Handler implements comment HTTP endpoints.
type Handler struct {
	commentService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{commentService: service}
}

// Routes returns a [chi.Router] configured with comment routes.
//
// # Endpoints
//   - GET    /{blogID}    : The discussion thread on a post (public).
//   - POST   /{blogID}    : Add a comment, subscription-gated (authenticated).
//   - DELETE /{commentID} : Remove a comment (author).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Reading a thread requires no account; writing to it does.
	router.Get("/{blogID}", handler.list)

	router.Group(func(authenticated chi.Router) {
		authenticated.Use(middleware.RequireAuth)

		authenticated.Post("/{blogID}", handler.create)
	})

	router.Group(func(authors chi.Router) {
		authors.Use(middleware.RequireRole(sec.RoleAuthor))

		authors.Delete("/{commentID}", handler.remove)
	})

	return router
}

// list handles GET /api/v1/comments/{blogID} requests.
//
// # Returns
//   - 200: Paginated comments, oldest-first.
//   - 404: Unknown post.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	comments, total, err := handler.commentService.ListComments(
		request.Context(),
		requestutil.Param(request, "blogID"),
		paginationParams.Limit,
		paginationParams.Offset(),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, comments, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

// commentRequest represents the JSON payload for a new comment.
type commentRequest struct {
	Body string `json:"body"`
}

// create handles POST /api/v1/comments/{blogID} requests.
//
// # Returns
//   - 201: The stored comment.
//   - 403: SUBSCRIPTION_REQUIRED for readers without a live subscription.
//   - 404: Unknown post.
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Actor Resolution ───────────────────────────────────────────────

	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 2. Payload Extraction ─────────────────────────────────────────────

	var input commentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 3. Boundary Validation ────────────────────────────────────────────

	validator := (&validate.Validator{}).
		Required("body", input.Body).
		MaxLen("body", input.Body, 2000)

	if validator.HasErrors() {
		respond.Error(writer, request, validator.Err())
		return
	}

	// ── 4. Application Execution ──────────────────────────────────────────

	comment, err := handler.commentService.CreateComment(
		request.Context(), actor, requestutil.Param(request, "blogID"), input.Body,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, comment)
}

// remove handles DELETE /api/v1/comments/{commentID} requests.
//
// # Returns
//   - 204: The comment was removed.
//   - 404: Unknown comment.
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	if err := handler.commentService.DeleteComment(request.Context(), requestutil.Param(request, "commentID")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
