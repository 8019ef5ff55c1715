// Copyright (c) 2026 Inkgate. All rights reserved.
// Author: minh.ngo.dev@gmail.com

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/minhngo/inkgate/internal/platform/sec"
)

/*
TestActor_Entitled covers the full-content access matrix: authors always pass,
readers only inside an active subscription window.
*/
func TestActor_Entitled(t *testing.T) {
	now := time.Now()
	future := now.Add(10 * time.Minute)
	past := now.Add(-10 * time.Minute)

	tests := []struct {
		name     string
		role     sec.UserRole
		sub      bool
		expiry   *time.Time
		entitled bool
	}{
		{"author_without_subscription", sec.RoleAuthor, false, nil, true},
		{"author_with_expired_subscription", sec.RoleAuthor, true, &past, true},
		{"reader_unsubscribed", sec.RoleReader, false, nil, false},
		{"reader_active_subscription", sec.RoleReader, true, &future, true},
		{"reader_expired_subscription", sec.RoleReader, true, &past, false},
		{"reader_flag_without_expiry", sec.RoleReader, true, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actor := &sec.Actor{
				ID:                 "u1",
				Role:               tt.role,
				IsSubscribed:       tt.sub,
				SubscriptionExpiry: tt.expiry,
			}
			assert.Equal(t, tt.entitled, actor.Entitled(now))
		})
	}
}

/*
TestActor_SubscriptionExpiryBoundary pins the boundary: access ends the
instant now reaches the expiry, not a tick later.
*/
func TestActor_SubscriptionExpiryBoundary(t *testing.T) {
	expiry := time.Now()
	actor := &sec.Actor{Role: sec.RoleReader, IsSubscribed: true, SubscriptionExpiry: &expiry}

	assert.True(t, actor.HasActiveSubscription(expiry.Add(-time.Millisecond)))
	assert.False(t, actor.HasActiveSubscription(expiry))
	assert.False(t, actor.HasActiveSubscription(expiry.Add(time.Millisecond)))
}

/*
TestUserRole_AtLeast covers the role hierarchy.
*/
func TestUserRole_AtLeast(t *testing.T) {
	assert.True(t, sec.RoleAuthor.AtLeast(sec.RoleReader))
	assert.True(t, sec.RoleAuthor.AtLeast(sec.RoleAuthor))
	assert.False(t, sec.RoleReader.AtLeast(sec.RoleAuthor))
	assert.False(t, sec.UserRole("unknown").AtLeast(sec.RoleReader))
}

/*
TestUserRole_Valid pins the accepted signup tiers.
*/
func TestUserRole_Valid(t *testing.T) {
	assert.True(t, sec.RoleReader.Valid())
	assert.True(t, sec.RoleAuthor.Valid())
	assert.False(t, sec.UserRole("admin").Valid())
	assert.False(t, sec.UserRole("").Valid())
}
