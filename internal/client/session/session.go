// Copyright (c) 2026 Inkgate. All rights reserved.
// Author: minh.ngo.dev@gmail.com

/*
Package session holds the client-side authentication state.

# Architecture

The [Store] keeps the current token and its decoded claims in memory, backed
by a [TokenStore] for persistence across process restarts. Claims are decoded
without signature verification: the client does not hold the signing secret,
and the server re-verifies everything anyway. The local copy only drives UI
decisions (what to render, when to log out).
*/
package session

import (
	"sync"
	"time"

	"github.com/minhngo/inkgate/internal/platform/sec"
)

// TokenStore persists the raw token string between runs.
type TokenStore interface {
	// Load returns the persisted token, or "" when none is stored.
	Load() (string, error)

	// Save persists the token.
	Save(token string) error

	// Clear removes the persisted token. Clearing an empty store is a no-op.
	Clear() error
}

// State is an immutable snapshot of the session at one instant.
type State struct {
	IsAuthenticated bool
	UserID          string
	Username        string
	Role            sec.UserRole

	// IsSubscribed is the raw claim from the token. Whether the
	// subscription is currently live is answered by [State.SubscriptionActive].
	IsSubscribed       bool
	SubscriptionExpiry *time.Time

	Token string
}

// SubscriptionActive reports whether the snapshot's subscription covers the
// given instant. Access ends exactly at the expiry timestamp.
func (s State) SubscriptionActive(now time.Time) bool {
	return s.IsSubscribed && s.SubscriptionExpiry != nil && s.SubscriptionExpiry.After(now)
}

// Store is the client's in-memory session holder.
//
// # Concurrency
//
// All methods are safe for concurrent use. UI code and the expiry watcher
// read snapshots while command handlers swap credentials.
type Store struct {
	mu         sync.RWMutex
	token      string
	claims     *sec.AuthClaims
	tokenStore TokenStore
}

// NewStore constructs a session store backed by the given persistence.
func NewStore(tokenStore TokenStore) *Store {
	return &Store{tokenStore: tokenStore}
}

// Hydrate restores the session from persisted state.
//
// A missing token leaves the store logged out. A token that no longer
// decodes is discarded from persistence and the store stays logged out;
// stale bytes on disk never wedge the client.
func (store *Store) Hydrate() error {
	token, err := store.tokenStore.Load()
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}

	claims, err := sec.DecodeInsecure(token)
	if err != nil {
		// Unreadable persisted token: drop it and start logged out.
		return store.tokenStore.Clear()
	}

	store.mu.Lock()
	store.token = token
	store.claims = claims
	store.mu.Unlock()

	return nil
}

// SetCredentials installs a fresh token, replacing any current session.
//
// The token is decoded before the swap; a malformed token leaves the
// previous session untouched and returns the decode error.
func (store *Store) SetCredentials(token string) error {
	claims, err := sec.DecodeInsecure(token)
	if err != nil {
		return err
	}

	if err := store.tokenStore.Save(token); err != nil {
		return err
	}

	store.mu.Lock()
	store.token = token
	store.claims = claims
	store.mu.Unlock()

	return nil
}

// Clear wipes the session, both in memory and persisted. Idempotent.
func (store *Store) Clear() error {
	store.mu.Lock()
	store.token = ""
	store.claims = nil
	store.mu.Unlock()

	return store.tokenStore.Clear()
}

// Snapshot returns the current session state evaluated at time.Now().
func (store *Store) Snapshot() State {
	return store.SnapshotAt(time.Now())
}

// SnapshotAt returns the session state as of the given instant.
//
// A session whose token has expired still reports its claims; deciding what
// an expired session means (forced logout, re-login prompt) is the caller's
// policy, handled by the guard package.
func (store *Store) SnapshotAt(now time.Time) State {
	store.mu.RLock()
	defer store.mu.RUnlock()

	if store.claims == nil {
		return State{}
	}

	return State{
		IsAuthenticated:    true,
		UserID:             store.claims.UserID,
		Username:           store.claims.Username,
		Role:               sec.UserRole(store.claims.Role),
		IsSubscribed:       store.claims.IsSubscribed,
		SubscriptionExpiry: store.claims.SubscriptionExpiry,
		Token:              store.token,
	}
}

// TokenExpired reports whether the held token itself has lapsed at the
// given instant. Returns false for a logged-out store.
func (store *Store) TokenExpired(now time.Time) bool {
	store.mu.RLock()
	defer store.mu.RUnlock()

	if store.claims == nil {
		return false
	}

	return store.claims.Expired(now)
}
