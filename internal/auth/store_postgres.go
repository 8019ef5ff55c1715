// Copyright (c) 2026 Inkgate. All rights reserved.
// Author: minh.ngo.dev@gmail.com

/*
Package auth (Postgres) implements the storage layer for user accounts.

# Schema Table Mapping
  - users.account: Master identity, credentials, and subscription state.
*/
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minhngo/inkgate/internal/platform/apperr"
	"github.com/minhngo/inkgate/internal/platform/dberr"
)

// userColumns is the canonical SELECT list for hydrating a [User].
const userColumns = `id, username, email, passwordhash, role, issubscribed, subscriptionexpiry, createdat, updatedat`

// PostgresUserRepository implements [UserRepository] using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new Postgres implementation for account storage.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

/*
FindByID retrieves a user record from the users.account table.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - *User: Hydrated identity entity
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users.account WHERE id = $1`
	return repository.scanOne(context, query, id)
}

/*
FindByEmail retrieves a user by email address, case-insensitive.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated identity entity
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users.account WHERE lower(email) = lower($1)`
	return repository.scanOne(context, query, email)
}

/*
FindByUsername retrieves a user by username, case-insensitive.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *User: Hydrated identity entity
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users.account WHERE lower(username) = lower($1)`
	return repository.scanOne(context, query, username)
}

/*
Create persists a new user account.

Parameters:
  - context: context.Context
  - user: *User (ID and timestamps must be pre-populated by the service)

Returns:
  - error: apperr.Conflict on duplicate username or email, or execution failure
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	query := `
		INSERT INTO users.account (
			id, username, email, passwordhash, role, issubscribed, subscriptionexpiry, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.IsSubscribed,
		user.SubscriptionExpiry,
		user.CreatedAt,
		user.UpdatedAt,
	)

	// If the insert fails, classify the error
	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_user_repo_create_failed: %w", err), "Account")
	}

	return nil
}

/*
UpdateSubscription stores the subscription flag and expiry for a user.

Parameters:
  - context: context.Context
  - id: string
  - isSubscribed: bool
  - expiry: *time.Time

Returns:
  - error: apperr.NotFound if the account does not exist, or update failure
*/
func (repository *PostgresUserRepository) UpdateSubscription(context context.Context, id string, isSubscribed bool, expiry *time.Time) error {
	query := `
		UPDATE users.account
		SET issubscribed = $2, subscriptionexpiry = $3, updatedat = $4
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, id, isSubscribed, expiry, time.Now())
	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_user_repo_update_subscription_failed: %w", err), "Account")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Account")
	}

	return nil
}

// scanOne executes a single-row user query and hydrates the entity.
func (repository *PostgresUserRepository) scanOne(context context.Context, query string, argument any) (*User, error) {
	user := &User{}
	err := repository.pool.QueryRow(context, query, argument).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.IsSubscribed,
		&user.SubscriptionExpiry,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "Account")
	}

	return user, nil
}
