// Copyright (c) 2026 Inkgate. All rights reserved.
// Author: minh.ngo.dev@gmail.com

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// Can publish and manage posts, moderate comments, and read everything.
	RoleAuthor UserRole = "author"

	// Default tier: browses summaries; full content requires a subscription.
	RoleReader UserRole = "reader"
)

// Valid reports whether the role is one of the accepted account tiers.
//
// The registrant picks the role at signup. That self-assignment is a
// preserved policy decision, so the accepted set is exactly the public tiers.
func (r UserRole) Valid() bool {
	return r == RoleAuthor || r == RoleReader
}

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {

	// Linear scale (10-20) allows for future intermediate roles
	switch r {
	case RoleAuthor:
		return 20
	case RoleReader:
		return 10
	default:
		return 0
	}
}
