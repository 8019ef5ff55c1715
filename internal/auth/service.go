// Copyright (c) 2026 Inkgate. All rights reserved.
// Author: minh.ngo.dev@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/minhngo/inkgate/internal/platform/apperr"
	"github.com/minhngo/inkgate/internal/platform/constants"
	"github.com/minhngo/inkgate/internal/platform/sec"
	"github.com/minhngo/inkgate/pkg/uuidv7"
)

// TokenIssuer defines the contract for generating access tokens.
type TokenIssuer interface {
	// Issue creates a signed token embedding the user's identity, role, and
	// subscription state.
	Issue(input sec.IssueInput, timeToLive time.Duration) (string, error)
}

// Service implements identity and subscription use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or token issuance logic must be reviewed carefully.
type Service struct {
	userRepository UserRepository
	tokenIssuer    TokenIssuer
	now            func() time.Time
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(userRepo UserRepository, tokenIssuer TokenIssuer) *Service {
	return &Service{
		userRepository: userRepo,
		tokenIssuer:    tokenIssuer,
		now:            time.Now,
	}
}

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     sec.UserRole
}

// Register validates, hashes, and persists a brand new user account.
//
// # Parameters
//   - context: Context for the database operation.
//   - input: The user-provided registration details.
//
// # Returns
//   - A pointer to the newly created [*User].
//   - Returns [apperr.Conflict] if email or username already exists.
//
// # Business Rules
//   - Emails must be unique.
//   - Usernames must be unique.
//   - The registrant chooses their own role (reader or author). Author
//     status is a capability claimed at signup, not an admin-granted grade.
//   - New accounts start unsubscribed.
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {
	// ── 1. Uniqueness Checks ──────────────────────────────────────────────

	// Verify email uniqueness. Return a client-safe Conflict error.
	_, err := service.userRepository.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Verify username uniqueness. Return a client-safe Conflict error.
	_, err = service.userRepository.FindByUsername(context, input.Username)
	if err == nil {
		return nil, apperr.Conflict("Username is already taken")
	}

	// ── 2. Security ───────────────────────────────────────────────────────

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// ── 3. Entity Construction ────────────────────────────────────────────

	role := input.Role
	if !role.Valid() {
		role = sec.RoleReader
	}

	createdAt := service.now()
	user := &User{
		ID:           uuidv7.New(), // Time-sortable ID to prevent PG index fragmentation.
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Role:         role,
		IsSubscribed: false,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}

	// ── 4. Persistence ────────────────────────────────────────────────────

	if err := service.userRepository.Create(context, user); err != nil {
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	return user, nil
}

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult represents a successfully authenticated user.
type LoginResult struct {
	AccessToken string
	User        *User
}

// Login validates user credentials and issues an access token.
//
// # Parameters
//   - context: Context for the database operation.
//   - input: Contains Email and plain-text Password.
//
// # Returns
//   - A pointer to [LoginResult] containing the AccessToken and user.
//   - Returns [apperr.NotFound] if no account exists for the email.
//   - Returns [apperr.Unauthorized] if the password does not match.
//
// # Flow
//  1. Lookup user by email.
//  2. Verify password hash using Bcrypt.
//  3. Issue a signed access token carrying the subscription snapshot.
func (service *Service) Login(context context.Context, input LoginInput) (*LoginResult, error) {
	// ── 1. Fetch User Profile ─────────────────────────────────────────────

	user, err := service.userRepository.FindByEmail(context, input.Email)
	if err != nil {
		return nil, apperr.NotFound("User")
	}

	// ── 2. Security Verification ──────────────────────────────────────────

	// Bcrypt comparison is constant-time by construction.
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid credentials")
	}

	// ── 3. Token Issuance ─────────────────────────────────────────────────

	accessToken, err := service.issueToken(user)
	if err != nil {
		return nil, err
	}

	return &LoginResult{AccessToken: accessToken, User: user}, nil
}

// SubscribeResult carries the refreshed state after activating a subscription.
type SubscribeResult struct {
	AccessToken string
	User        *User
}

// Subscribe activates a fixed-length subscription window for a user and
// reissues the access token so the client immediately carries the new
// subscription claims.
//
// # Parameters
//   - context: Context for the database operation.
//   - userID: The account activating the subscription.
//
// # Returns
//   - A pointer to [SubscribeResult] with the fresh token and user snapshot.
//   - Returns [apperr.NotFound] if the account does not exist.
//
// # Business Rules
//   - The window always restarts from the moment of activation, even when a
//     previous window is still running. Re-subscribing extends access.
func (service *Service) Subscribe(context context.Context, userID string) (*SubscribeResult, error) {
	// ── 1. Fetch Account ──────────────────────────────────────────────────

	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	// ── 2. Open Subscription Window ───────────────────────────────────────

	expiry := service.now().Add(constants.SubscriptionWindow)
	if err := service.userRepository.UpdateSubscription(context, user.ID, true, &expiry); err != nil {
		return nil, fmt.Errorf("auth_service_subscribe_failed: %w", err)
	}

	user.IsSubscribed = true
	user.SubscriptionExpiry = &expiry

	// ── 3. Token Reissue ──────────────────────────────────────────────────

	// The old token stays valid until its own expiry but carries stale
	// subscription claims. Server-side checks always consult the database,
	// so the reissue only improves the client's local view.
	accessToken, err := service.issueToken(user)
	if err != nil {
		return nil, err
	}

	return &SubscribeResult{AccessToken: accessToken, User: user}, nil
}

// ResolveActor loads the current identity snapshot for an authenticated
// request. Token claims are never trusted for authorization decisions; the
// database row is the single source of truth for role and subscription state.
//
// # Parameters
//   - context: Context for the database operation.
//   - userID: The subject claim of a verified token.
//
// # Returns
//   - The request-scoped [*sec.Actor].
//   - Returns [apperr.NotFound] if the account no longer exists.
func (service *Service) ResolveActor(context context.Context, userID string) (*sec.Actor, error) {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	return user.Actor(), nil
}

// issueToken signs a fresh access token from the user's current state.
func (service *Service) issueToken(user *User) (string, error) {
	token, err := service.tokenIssuer.Issue(sec.IssueInput{
		UserID:             user.ID,
		Username:           user.Username,
		Role:               user.Role,
		IsSubscribed:       user.IsSubscribed,
		SubscriptionExpiry: user.SubscriptionExpiry,
	}, constants.AccessTokenTTL)
	if err != nil {
		return "", fmt.Errorf("auth_service_token_issuance_failed: %w", err)
	}

	return token, nil
}
