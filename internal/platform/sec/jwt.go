// Copyright (c) 2026 Inkgate. All rights reserved.
// Author: minh.ngo.dev@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Decode failure kinds. Callers branch on these with [errors.Is].
var (
	// ErrTokenMalformed means the string is not a structurally valid token.
	ErrTokenMalformed = errors.New("sec: token malformed")

	// ErrTokenSignature means the token parsed but its signature does not
	// verify against the server secret.
	ErrTokenSignature = errors.New("sec: token signature invalid")
)

// minSecretLength is the minimum accepted HMAC secret size in bytes.
const minSecretLength = 32

// AuthClaims is the payload embedded inside a session token.
//
// # Why custom claims?
//
// The token is self-describing: identity, role, and subscription state travel
// inside the signed payload, so both the API server and the client can
// reconstruct the active session WITHOUT a shared session store. Claim names
// are abbreviated to keep the token small.
type AuthClaims struct {
	jwt.RegisteredClaims

	UserID       string `json:"uid"`
	Username     string `json:"unm"`
	Role         string `json:"rol"`
	IsSubscribed bool   `json:"subd"`

	// SubscriptionExpiry is the end of the paid-access window. It is
	// independent of the token's own exp: a token routinely outlives the
	// subscription baked into it.
	SubscriptionExpiry *time.Time `json:"sexp,omitempty"`
}

// Expired reports whether the token's own lifetime (iat + TTL) has passed.
//
// [TokenService.Decode] deliberately does NOT enforce this: expiry is a policy
// decision made by each consumer, so a client can still read metadata out of a
// just-expired token for display purposes.
func (c *AuthClaims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return true
	}
	return !now.Before(c.ExpiresAt.Time)
}

// SubscriptionActive reports whether the subscription claim grants access at
// the given instant. The flag alone is never enough: the expiry must be in
// the future.
func (c *AuthClaims) SubscriptionActive(now time.Time) bool {
	return c.IsSubscribed && c.SubscriptionExpiry != nil && c.SubscriptionExpiry.After(now)
}

// IssueInput is the identity snapshot embedded into a new token.
type IssueInput struct {
	UserID             string
	Username           string
	Role               UserRole
	IsSubscribed       bool
	SubscriptionExpiry *time.Time
}

// TokenService signs and verifies session tokens using HMAC-SHA256.
//
// The signing secret never leaves the server; clients treat tokens as opaque
// strings and may only inspect the payload via [DecodeInsecure].
type TokenService struct {
	secret []byte
	issuer string
}

// NewTokenService creates a TokenService from a shared secret.
func NewTokenService(secret, issuer string) (*TokenService, error) {
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("sec: token secret must be at least %d bytes", minSecretLength)
	}

	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
	}, nil
}

// Issue creates a signed session token embedding the identity snapshot.
//
// # Failure
//
// Issue fails only on signing infrastructure failure, never on input: the
// claims are accepted verbatim.
func (service *TokenService) Issue(input IssueInput, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   input.UserID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		UserID:             input.UserID,
		Username:           input.Username,
		Role:               string(input.Role),
		IsSubscribed:       input.IsSubscribed,
		SubscriptionExpiry: input.SubscriptionExpiry,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Decode verifies the signature and structural validity of a token string.
//
// # Expiry Policy
//
// Decode does NOT reject expired tokens. Callers own the expiry decision via
// [AuthClaims.Expired] — the API middleware rejects, while the client session
// store still reads the metadata.
func (service *TokenService) Decode(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&AuthClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
			}
			return service.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, fmt.Errorf("%w: %w", ErrTokenSignature, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrTokenMalformed, err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}

// DecodeInsecure parses the token payload WITHOUT verifying the signature.
//
// # Usage
//
// Only the client session store uses this: it has no signing secret and the
// server re-verifies every request anyway. Server-side code must always go
// through [TokenService.Decode].
func DecodeInsecure(tokenString string) (*AuthClaims, error) {
	claims := &AuthClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenMalformed, err)
	}

	return claims, nil
}
