// Copyright (c) 2026 Inkgate. All rights reserved.
// Author: minh.ngo.dev@gmail.com

package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhngo/inkgate/internal/platform/apperr"
	"github.com/minhngo/inkgate/internal/platform/ctxutil"
	"github.com/minhngo/inkgate/internal/platform/middleware"
	"github.com/minhngo/inkgate/internal/platform/sec"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// staticResolver serves actors from a fixed map, standing in for the user store.
type staticResolver struct {
	actors map[string]*sec.Actor
}

func (r *staticResolver) ResolveActor(_ context.Context, userID string) (*sec.Actor, error) {
	actor, ok := r.actors[userID]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return actor, nil
}

func newAuthFixture(t *testing.T) (*sec.TokenService, *staticResolver) {
	t.Helper()

	tokens, err := sec.NewTokenService(testSecret, "inkgate.test")
	require.NoError(t, err)

	resolver := &staticResolver{actors: map[string]*sec.Actor{
		"user-1": {ID: "user-1", Username: "mai", Role: sec.RoleReader},
		"user-2": {ID: "user-2", Username: "quan", Role: sec.RoleAuthor},
	}}

	return tokens, resolver
}

// echoActor writes the resolved actor ID, or "anonymous".
func echoActor(writer http.ResponseWriter, request *http.Request) {
	actor := ctxutil.GetActor(request.Context())
	if actor == nil {
		_, _ = writer.Write([]byte("anonymous"))
		return
	}
	_, _ = writer.Write([]byte(actor.ID))
}

/*
TestAuthenticate_Anonymous lets requests without a header pass through
unauthenticated — public routes decide for themselves.
*/
func TestAuthenticate_Anonymous(t *testing.T) {
	tokens, resolver := newAuthFixture(t)
	handler := middleware.Authenticate(tokens, resolver)(http.HandlerFunc(echoActor))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "anonymous", recorder.Body.String())
}

/*
TestAuthenticate_ValidToken resolves the actor and injects it into context.
*/
func TestAuthenticate_ValidToken(t *testing.T) {
	tokens, resolver := newAuthFixture(t)
	handler := middleware.Authenticate(tokens, resolver)(http.HandlerFunc(echoActor))

	token, err := tokens.Issue(sec.IssueInput{UserID: "user-1", Username: "mai", Role: sec.RoleReader}, time.Hour)
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Bearer "+token)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "user-1", recorder.Body.String())
}

/*
TestAuthenticate_Rejections covers the 401 paths: bad format, bad signature,
expired lifetime, and identities missing from the record store.
*/
func TestAuthenticate_Rejections(t *testing.T) {
	tokens, resolver := newAuthFixture(t)
	handler := middleware.Authenticate(tokens, resolver)(http.HandlerFunc(echoActor))

	expired, err := tokens.Issue(sec.IssueInput{UserID: "user-1", Role: sec.RoleReader}, -time.Minute)
	require.NoError(t, err)

	ghost, err := tokens.Issue(sec.IssueInput{UserID: "deleted-user", Role: sec.RoleReader}, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"not_bearer", "Basic abc"},
		{"garbage_token", "Bearer not-a-token"},
		{"expired_token", "Bearer " + expired},
		{"unknown_identity", "Bearer " + ghost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			request.Header.Set("Authorization", tt.header)

			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		})
	}
}

/*
TestRequireRole enforces the author gate on top of Authenticate.
*/
func TestRequireRole(t *testing.T) {
	tokens, resolver := newAuthFixture(t)

	chain := middleware.Authenticate(tokens, resolver)(
		middleware.RequireRole(sec.RoleAuthor)(http.HandlerFunc(echoActor)),
	)

	readerToken, err := tokens.Issue(sec.IssueInput{UserID: "user-1", Role: sec.RoleReader}, time.Hour)
	require.NoError(t, err)
	authorToken, err := tokens.Issue(sec.IssueInput{UserID: "user-2", Role: sec.RoleAuthor}, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"anonymous", "", http.StatusUnauthorized},
		{"reader_forbidden", "Bearer " + readerToken, http.StatusForbidden},
		{"author_allowed", "Bearer " + authorToken, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}

			recorder := httptest.NewRecorder()
			chain.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
		})
	}
}
