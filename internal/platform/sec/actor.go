// Copyright (c) 2026 Inkgate. All rights reserved.
// Author: minh.ngo.dev@gmail.com

package sec

import "time"

// Actor is the server-side view of the authenticated identity for the current
// request.
//
// # Why not the token claims?
//
// The middleware re-resolves the identity from the record store on every
// request: a token is proof of WHO, but subscription state is read fresh so a
// client can never ride a stale claim past the window. If the identity no
// longer exists, the request is unauthorized regardless of the token.
type Actor struct {
	ID                 string
	Username           string
	Role               UserRole
	IsSubscribed       bool
	SubscriptionExpiry *time.Time
}

// HasActiveSubscription reports whether the paid-access window covers the
// given instant. The subscription flag alone is never sufficient.
func (a *Actor) HasActiveSubscription(now time.Time) bool {
	return a.IsSubscribed && a.SubscriptionExpiry != nil && a.SubscriptionExpiry.After(now)
}

// Entitled reports whether the actor may read full post content or comment:
// authors always, everyone else only inside an active subscription window.
func (a *Actor) Entitled(now time.Time) bool {
	return a.Role == RoleAuthor || a.HasActiveSubscription(now)
}
