// Copyright (c) 2026 Inkgate. All rights reserved.
// Author: minh.ngo.dev@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/minhngo/inkgate/internal/platform/middleware"
	requestutil "github.com/minhngo/inkgate/internal/platform/request"
	"github.com/minhngo/inkgate/internal/platform/respond"
	"github.com/minhngo/inkgate/internal/platform/sec"
	"github.com/minhngo/inkgate/internal/platform/validate"
)

// Handler implements authentication and subscription HTTP endpoints.
//
// # Scope
//
// This handler manages the user lifecycle entry points (Registration, Login)
// plus the subscription activation endpoint.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /register  : Creates a new account.
//   - POST /login     : Authenticates and returns a JWT.
//   - POST /subscribe : Activates a subscription window (authenticated).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.register)
	router.Post("/login", handler.login)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Post("/subscribe", handler.subscribe)
	})

	return router
}

// registerRequest represents the JSON payload expected for account creation.
type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// register handles POST /api/v1/auth/register requests.
//
// # Parameters
//   - writer: The HTTP response constructor.
//   - request: The incoming HTTP request payload.
//
// # Returns
//   - Writes HTTP 201 Created on success with the User profile.
//   - Writes HTTP 400 Bad Request if validation rules fail.
//   - Writes HTTP 409 Conflict if email/username is taken.
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	var input registerRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 2. Boundary Validation ────────────────────────────────────────────

	validator := (&validate.Validator{}).
		Required("username", input.Username).
		MinLen("username", input.Username, 3).
		MaxLen("username", input.Username, 50).
		Required("email", input.Email).
		Email("email", input.Email).
		Required("password", input.Password).
		MinLen("password", input.Password, 6)

	// Role is optional and defaults to reader inside the service.
	if input.Role != "" {
		validator.OneOf("role", input.Role, string(sec.RoleReader), string(sec.RoleAuthor))
	}

	if validator.HasErrors() {
		respond.Error(writer, request, validator.Err())
		return
	}

	// ── 3. Application Execution ──────────────────────────────────────────

	user, err := handler.authService.Register(request.Context(), RegisterInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
		Role:     sec.UserRole(input.Role),
	})

	// Service handles uniqueness checks and Bcrypt hashing. Domain errors
	// are mapped to HTTP status codes by the respond helper.
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 4. Presentation Output ────────────────────────────────────────────

	respond.Created(writer, user)
}

// loginRequest represents the JSON payload expected for authentication.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// login handles POST /api/v1/auth/login requests.
//
// # Parameters
//   - writer: The HTTP response constructor.
//   - request: The incoming HTTP request payload.
//
// # Returns
//   - Writes HTTP 200 OK on success with the token and User profile.
//   - Writes HTTP 404 Not Found for an unknown email.
//   - Writes HTTP 401 Unauthorized for a wrong password.
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 2. Boundary Validation ────────────────────────────────────────────

	if input.Email == "" || input.Password == "" {
		respond.Error(writer, request, validate.RequiredError("email/password", "are required"))
		return
	}

	// ── 3. Application Execution ──────────────────────────────────────────

	result, err := handler.authService.Login(request.Context(), LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 4. Presentation Output ────────────────────────────────────────────

	respond.OK(writer, map[string]any{
		"token": result.AccessToken,
		"user":  result.User,
	})
}

// subscribe handles POST /api/v1/auth/subscribe requests.
//
// # Parameters
//   - writer: The HTTP response constructor.
//   - request: The incoming HTTP request (must be authenticated).
//
// # Returns
//   - Writes HTTP 200 OK with a confirmation message and a fresh token
//     carrying the new subscription claims.
//   - Writes HTTP 401 Unauthorized if the request is anonymous.
func (handler *Handler) subscribe(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Actor Resolution ───────────────────────────────────────────────

	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 2. Application Execution ──────────────────────────────────────────

	result, err := handler.authService.Subscribe(request.Context(), actor.ID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 3. Presentation Output ────────────────────────────────────────────

	respond.OK(writer, map[string]any{
		"message": "Subscription activated",
		"token":   result.AccessToken,
		"user":    result.User,
	})
}
