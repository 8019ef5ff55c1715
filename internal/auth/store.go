// Copyright (c) 2026 Inkgate. All rights reserved.
// Author: minh.ngo.dev@gmail.com

package auth

import (
	"context"
	"time"
)

// UserRepository defines the persistence contract for user accounts.
type UserRepository interface {
	// FindByID retrieves a user by primary key.
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByEmail retrieves a user by email address (case-insensitive).
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByUsername retrieves a user by username (case-insensitive).
	FindByUsername(ctx context.Context, username string) (*User, error)

	// Create persists a new user account.
	Create(ctx context.Context, user *User) error

	// UpdateSubscription stores the subscription flag and expiry for a user.
	UpdateSubscription(ctx context.Context, id string, isSubscribed bool, expiry *time.Time) error
}
