// Copyright (c) 2026 Inkgate. All rights reserved.
// Author: minh.ngo.dev@gmail.com

package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/minhngo/inkgate/internal/platform/apperr"
	"github.com/minhngo/inkgate/internal/platform/ctxutil"
	"github.com/minhngo/inkgate/internal/platform/respond"
	"github.com/minhngo/inkgate/internal/platform/sec"
)

// TokenVerifier defines the interface needed to decode session tokens.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the [sec]
// TokenService implementation, allowing mocks during unit testing.
type TokenVerifier interface {
	Decode(tokenStr string) (*sec.AuthClaims, error)
}

// ActorResolver resolves the identity behind verified claims from the record
// store.
//
// # Why re-resolve?
//
// The token is self-describing, but subscription state must be read fresh on
// every request — a signed claim can outlive the subscription it describes,
// and a deleted account must lose access immediately.
type ActorResolver interface {
	ResolveActor(ctx context.Context, userID string) (*sec.Actor, error)
}

// Authenticate extracts and verifies the session token from the Authorization
// header, then resolves the actor behind it.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header.
//  2. If absent, request proceeds as anonymous.
//  3. If present, decode the token and enforce its lifetime.
//  4. Resolve the actor from the record store; a missing identity is 401.
//  5. Inject [*sec.Actor] into the request context for downstream use.
func Authenticate(verifier TokenVerifier, resolver ActorResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get("Authorization")

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			tokenStr := parts[1]
			claims, err := verifier.Decode(tokenStr)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid token"))
				return
			}

			// Decode is structural only; the lifetime policy is enforced here.
			if claims.Expired(time.Now()) {
				respond.Error(writer, request, apperr.Unauthorized("Token has expired"))
				return
			}

			// ── 4. Actor Resolution ───────────────────────────────────────────
			actor, err := resolver.ResolveActor(request.Context(), claims.UserID)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Unauthorized"))
				return
			}

			// ── 5. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithActor(request.Context(), actor)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		actor := ctxutil.GetActor(request.Context())
		if actor == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks requests if the authenticated actor doesn't have the
// required role.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. It automatically
// implies [RequireAuth] so you don't need to mount both.
func RequireRole(role sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			actor := ctxutil.GetActor(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if actor == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if !actor.Role.AtLeast(role) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
