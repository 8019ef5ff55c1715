// Copyright (c) 2026 Inkgate. All rights reserved.
// Author: minh.ngo.dev@gmail.com

/*
Package guard makes client-side access decisions from session state.

# Scope

Client-side checks are a user experience tool: they decide what to render
and when to log the user out. They are never a security boundary; every
request is re-authorized by the server against the database.
*/
package guard

import (
	"context"
	"time"

	"github.com/minhngo/inkgate/internal/client/session"
	"github.com/minhngo/inkgate/internal/platform/sec"
)

// CanAccess reports whether the session state satisfies a role requirement.
//
// An unauthenticated session can access nothing. An empty requirement means
// any authenticated session passes. Otherwise the session's role must rank
// at or above the required role.
func CanAccess(required sec.UserRole, state session.State) bool {
	if !state.IsAuthenticated {
		return false
	}
	if required == "" {
		return true
	}
	return state.Role.AtLeast(required)
}

// Watcher logs the session out when it expires.
//
// It mirrors the familiar web client pattern of a polling logout hook: a
// ticker re-reads the session and, at the instant of expiry, clears the
// whole session and fires a single notification. Two clocks end a session:
// the token's own lifetime, and the subscription window for subscribed
// sessions, whichever lapses first.
type Watcher struct {
	store    *session.Store
	interval time.Duration
	onExpire func()
}

// NewWatcher constructs a watcher over the given session store.
//
// onExpire runs at most once per Start, after the session is cleared. A nil
// callback is allowed.
func NewWatcher(store *session.Store, interval time.Duration, onExpire func()) *Watcher {
	return &Watcher{
		store:    store,
		interval: interval,
		onExpire: onExpire,
	}
}

// Start runs the watch loop until the context is cancelled or the session
// expires. Expiry clears the full session state, not only the subscription
// part: claims are a package deal with the token carrying them.
func (watcher *Watcher) Start(ctx context.Context) {
	ticker := time.NewTicker(watcher.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Re-read fresh state every tick; credentials may have been
			// swapped since the last one.
			state := watcher.store.Snapshot()
			if !state.IsAuthenticated {
				continue
			}

			if watcher.expired(state, time.Now()) {
				_ = watcher.store.Clear()
				if watcher.onExpire != nil {
					watcher.onExpire()
				}
				return
			}
		}
	}
}

// expired reports whether the session has reached either of its deadlines.
//
// The token lifetime always applies. The subscription window applies only to
// subscribed sessions: the token routinely outlives the window it was issued
// with, and access must end at the window, not at the token.
func (watcher *Watcher) expired(state session.State, now time.Time) bool {
	if watcher.store.TokenExpired(now) {
		return true
	}
	return state.IsSubscribed && !state.SubscriptionActive(now)
}
