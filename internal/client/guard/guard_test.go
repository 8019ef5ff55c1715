// Copyright (c) 2026 Inkgate. All rights reserved.
// Author: minh.ngo.dev@gmail.com

package guard_test

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhngo/inkgate/internal/client/guard"
	"github.com/minhngo/inkgate/internal/client/session"
	"github.com/minhngo/inkgate/internal/platform/constants"
	"github.com/minhngo/inkgate/internal/platform/sec"
)

const testSecret = "0123456789abcdef0123456789abcdef"

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
TestCanAccess verifies the role gate across session states.
*/
func TestCanAccess(t *testing.T) {
	reader := session.State{IsAuthenticated: true, Role: sec.RoleReader}
	author := session.State{IsAuthenticated: true, Role: sec.RoleAuthor}
	anonymous := session.State{}

	testCases := []struct {
		name     string
		required sec.UserRole
		state    session.State
		allowed  bool
	}{
		{"anonymous never passes", "", anonymous, false},
		{"anonymous fails role gates", sec.RoleReader, anonymous, false},
		{"no requirement admits any session", "", reader, true},
		{"reader meets reader gate", sec.RoleReader, reader, true},
		{"reader fails author gate", sec.RoleAuthor, reader, false},
		{"author meets author gate", sec.RoleAuthor, author, true},
		{"author outranks reader gate", sec.RoleReader, author, true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.allowed, guard.CanAccess(testCase.required, testCase.state))
		})
	}
}

/*
TestWatcher_Expiry verifies that the watcher clears the whole session at
token expiry and notifies exactly once.
*/
func TestWatcher_Expiry(t *testing.T) {
	store := newTestStore(t)

	// Token that lapses almost immediately
	token := issueToken(t, sec.IssueInput{UserID: "user-1", Username: "nguyen", Role: sec.RoleReader}, 50*time.Millisecond)
	require.NoError(t, store.SetCredentials(token))

	var fired atomic.Int32
	watcher := guard.NewWatcher(store, 10*time.Millisecond, func() {
		fired.Add(1)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	done := make(chan struct{})
	go func() {
		watcher.Start(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		t.Fatal("watcher did not react to token expiry")
	}

	// 1. The whole session is gone, not just the subscription flag
	assert.False(t, store.Snapshot().IsAuthenticated)

	// 2. The callback fired exactly once
	assert.Equal(t, int32(1), fired.Load())
}

/*
TestWatcher_SubscriptionExpiry verifies that the watcher logs out at the end
of the subscription window even while the token itself is still valid.
*/
func TestWatcher_SubscriptionExpiry(t *testing.T) {
	store := newTestStore(t)

	// Long-lived token carrying a subscription window that lapses almost
	// immediately: the window, not the token, must end the session.
	windowEnd := time.Now().Add(80 * time.Millisecond)
	token := issueToken(t, sec.IssueInput{
		UserID:             "user-1",
		Username:           "nguyen",
		Role:               sec.RoleReader,
		IsSubscribed:       true,
		SubscriptionExpiry: &windowEnd,
	}, time.Hour)
	require.NoError(t, store.SetCredentials(token))

	var fired atomic.Int32
	watcher := guard.NewWatcher(store, 10*time.Millisecond, func() {
		fired.Add(1)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	done := make(chan struct{})
	go func() {
		watcher.Start(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		t.Fatal("watcher did not react to subscription expiry")
	}

	// 1. The session must be cleared once the subscription window lapses
	assert.False(t, store.Snapshot().IsAuthenticated)

	// 2. onExpire must fire at subscription expiry, exactly once
	assert.Equal(t, int32(1), fired.Load())
}

/*
TestWatcher_CancelledContext verifies a clean stop with the session intact.
*/
func TestWatcher_CancelledContext(t *testing.T) {
	store := newTestStore(t)

	token := issueToken(t, sec.IssueInput{UserID: "user-1", Username: "nguyen", Role: sec.RoleReader}, time.Hour)
	require.NoError(t, store.SetCredentials(token))

	watcher := guard.NewWatcher(store, 10*time.Millisecond, func() {
		t.Error("onExpire must not fire for a live token")
	})

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		watcher.Start(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop on context cancellation")
	}

	// The live session survives a watcher shutdown
	assert.True(t, store.Snapshot().IsAuthenticated)
}

/*
TestWatcher_LoggedOut verifies that an empty session keeps the watcher idle.
*/
func TestWatcher_LoggedOut(t *testing.T) {
	store := newTestStore(t)

	watcher := guard.NewWatcher(store, 10*time.Millisecond, func() {
		t.Error("onExpire must not fire while logged out")
	})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	watcher.Start(ctx) // returns via context timeout
}
