// Copyright (c) 2026 Inkgate. All rights reserved.
// Author: minh.ngo.dev@gmail.com

package session_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhngo/inkgate/internal/client/session"
	"github.com/minhngo/inkgate/internal/platform/constants"
	"github.com/minhngo/inkgate/internal/platform/sec"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// issueToken signs a token the way the API does, so client-side decoding is
// exercised against real material.
func issueToken(t *testing.T, input sec.IssueInput, ttl time.Duration) string {
	t.Helper()

	tokens, err := sec.NewTokenService(testSecret, constants.AuthIssuer)
	require.NoError(t, err)

	token, err := tokens.Issue(input, ttl)
	require.NoError(t, err)
	return token
}

func newTestStore(t *testing.T) *session.Store {
	t.Helper()

	fileStore, err := session.NewFileTokenStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)
	return session.NewStore(fileStore)
}

/*
TestStore_SetCredentials verifies that installing a token exposes its
identity claims in snapshots.
*/
func TestStore_SetCredentials(t *testing.T) {
	store := newTestStore(t)

	expiry := time.Now().Add(20 * time.Minute).Truncate(time.Second)
	token := issueToken(t, sec.IssueInput{
		UserID:             "user-1",
		Username:           "nguyen",
		Role:               sec.RoleReader,
		IsSubscribed:       true,
		SubscriptionExpiry: &expiry,
	}, time.Hour)

	// 1. Fresh store is logged out
	assert.False(t, store.Snapshot().IsAuthenticated)

	// 2. Installing a token authenticates the session
	require.NoError(t, store.SetCredentials(token))

	state := store.Snapshot()
	assert.True(t, state.IsAuthenticated)
	assert.Equal(t, "user-1", state.UserID)
	assert.Equal(t, "nguyen", state.Username)
	assert.Equal(t, sec.RoleReader, state.Role)
	assert.True(t, state.IsSubscribed)
	require.NotNil(t, state.SubscriptionExpiry)
	assert.Equal(t, token, state.Token)
}

/*
TestStore_SetCredentials_Malformed verifies that a bad token leaves the
existing session untouched.
*/
func TestStore_SetCredentials_Malformed(t *testing.T) {
	store := newTestStore(t)

	good := issueToken(t, sec.IssueInput{UserID: "user-1", Username: "nguyen", Role: sec.RoleReader}, time.Hour)
	require.NoError(t, store.SetCredentials(good))

	// A garbage token is rejected and the prior session survives
	err := store.SetCredentials("not.a.token")
	assert.Error(t, err)

	state := store.Snapshot()
	assert.True(t, state.IsAuthenticated)
	assert.Equal(t, "user-1", state.UserID)
}

/*
TestStore_Hydrate verifies persistence across store instances.
*/
func TestStore_Hydrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	fileStore, err := session.NewFileTokenStore(path)
	require.NoError(t, err)

	token := issueToken(t, sec.IssueInput{UserID: "user-1", Username: "nguyen", Role: sec.RoleAuthor}, time.Hour)

	first := session.NewStore(fileStore)
	require.NoError(t, first.SetCredentials(token))

	// A second store over the same file restores the session
	second := session.NewStore(fileStore)
	require.NoError(t, second.Hydrate())

	state := second.Snapshot()
	assert.True(t, state.IsAuthenticated)
	assert.Equal(t, "nguyen", state.Username)
	assert.Equal(t, sec.RoleAuthor, state.Role)
}

/*
TestStore_Hydrate_Missing verifies that hydrating without a persisted token
leaves the store logged out.
*/
func TestStore_Hydrate_Missing(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Hydrate())
	assert.False(t, store.Snapshot().IsAuthenticated)
}

/*
TestStore_Clear verifies full wipe of memory and persistence, including
idempotency.
*/
func TestStore_Clear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	fileStore, err := session.NewFileTokenStore(path)
	require.NoError(t, err)

	store := session.NewStore(fileStore)
	token := issueToken(t, sec.IssueInput{UserID: "user-1", Username: "nguyen", Role: sec.RoleReader}, time.Hour)
	require.NoError(t, store.SetCredentials(token))

	require.NoError(t, store.Clear())
	assert.False(t, store.Snapshot().IsAuthenticated)

	// Clearing again is fine
	require.NoError(t, store.Clear())

	// Nothing survives to hydrate
	fresh := session.NewStore(fileStore)
	require.NoError(t, fresh.Hydrate())
	assert.False(t, fresh.Snapshot().IsAuthenticated)
}

/*
TestStore_SubscriptionActive verifies the expiry boundary on snapshots.
*/
func TestStore_SubscriptionActive(t *testing.T) {
	store := newTestStore(t)

	expiry := time.Now().Add(time.Minute).Truncate(time.Second)
	token := issueToken(t, sec.IssueInput{
		UserID:             "user-1",
		Username:           "nguyen",
		Role:               sec.RoleReader,
		IsSubscribed:       true,
		SubscriptionExpiry: &expiry,
	}, time.Hour)
	require.NoError(t, store.SetCredentials(token))

	state := store.Snapshot()

	// Before the boundary the subscription is live
	assert.True(t, state.SubscriptionActive(expiry.Add(-time.Second)))

	// At and after the boundary it is not
	assert.False(t, state.SubscriptionActive(expiry))
	assert.False(t, state.SubscriptionActive(expiry.Add(time.Second)))
}

/*
TestStore_TokenExpired verifies expired tokens still snapshot but report
expiry.
*/
func TestStore_TokenExpired(t *testing.T) {
	store := newTestStore(t)

	token := issueToken(t, sec.IssueInput{UserID: "user-1", Username: "nguyen", Role: sec.RoleReader}, -time.Minute)
	require.NoError(t, store.SetCredentials(token))

	// Claims remain readable after expiry; the guard decides what to do
	state := store.Snapshot()
	assert.True(t, state.IsAuthenticated)
	assert.Equal(t, "nguyen", state.Username)

	assert.True(t, store.TokenExpired(time.Now()))
	assert.False(t, store.TokenExpired(time.Now().Add(-2*time.Minute)))
}
