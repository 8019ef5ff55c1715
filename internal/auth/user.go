// Copyright (c) 2026 Inkgate. All rights reserved.
// Author: minh.ngo.dev@gmail.com

/*
Package auth implements identity, authentication, and the subscription
lifecycle for the Inkgate platform.

# Architecture

The package follows the standard domain layout:

  - user.go: Entity definitions and domain rules.
  - store.go: Repository contract.
  - store_postgres.go: PostgreSQL repository implementation.
  - service.go: Business logic (registration, login, subscription).
  - http.go: HTTP transport layer.

# Subscription Model

A user account carries a subscription flag and an expiry timestamp. Activating
a subscription grants a fixed access window; when the window lapses the flag
becomes stale and access decisions fall back to the expiry timestamp, which is
the single source of truth.
*/
package auth

import (
	"time"

	"github.com/minhngo/inkgate/internal/platform/sec"
)

// User represents a registered account.
type User struct {
	ID           string       `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	Role         sec.UserRole `json:"role"`

	// IsSubscribed records that a subscription was activated. The expiry
	// timestamp, not this flag, decides whether access is currently granted.
	IsSubscribed       bool       `json:"isSubscribed"`
	SubscriptionExpiry *time.Time `json:"subscriptionExpiry,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SubscriptionActive reports whether the user holds a live subscription at
// the given instant. Access ends exactly at the expiry timestamp.
func (u *User) SubscriptionActive(now time.Time) bool {
	return u.IsSubscribed && u.SubscriptionExpiry != nil && u.SubscriptionExpiry.After(now)
}

// Actor converts the user into the request-scoped identity consumed by the
// authorization layer.
func (u *User) Actor() *sec.Actor {
	return &sec.Actor{
		ID:                 u.ID,
		Username:           u.Username,
		Role:               u.Role,
		IsSubscribed:       u.IsSubscribed,
		SubscriptionExpiry: u.SubscriptionExpiry,
	}
}
