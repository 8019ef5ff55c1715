// Copyright (c) 2026 Inkgate. All rights reserved.
// Author: minh.ngo.dev@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Security: JWT issuer and token lifetimes.
  - Subscription: The fixed access window granted on activation.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "inkgate-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication & Subscription

const (
	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "inkgate.app"

	// AccessTokenTTL is the fixed lifetime of every issued session token.
	// The token is self-describing: validity is signature + iat + this lifetime,
	// with no server-side session table.
	AccessTokenTTL = 1 * time.Hour

	// SubscriptionWindow is the fixed duration of content access granted by a
	// subscription activation. Deliberately much shorter than the token
	// lifetime: a token can outlive the subscription baked into it, so every
	// consumer re-checks the subscription expiry against the clock.
	SubscriptionWindow = 20 * time.Minute

	// SubscriptionWatchInterval is how often the client-side guard compares
	// the subscription expiry against the wall clock.
	SubscriptionWatchInterval = 1 * time.Second
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderAuthorization = "Authorization"
)

// # Response Fields

const (
	FieldCode  = "code"
	FieldError = "error"
)

// # Content

const (
	// SummaryContentLength is how many runes of post content are exposed on
	// unrestricted listing endpoints. Full content stays behind the
	// subscription gate.
	SummaryContentLength = 200

	// MaxImageUploadBytes caps the multipart image size on post create/update.
	MaxImageUploadBytes = 10 << 20
)
