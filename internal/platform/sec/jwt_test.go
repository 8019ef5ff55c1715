// Copyright (c) 2026 Inkgate. All rights reserved.
// Author: minh.ngo.dev@gmail.com

package sec_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhngo/inkgate/internal/platform/sec"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestService(t *testing.T) *sec.TokenService {
	t.Helper()

	service, err := sec.NewTokenService(testSecret, "inkgate.test")
	require.NoError(t, err)
	return service
}

/*
TestTokenService_RoundTrip verifies that Decode(Issue(claims)) returns the
original identity snapshot.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := newTestService(t)

	expiry := time.Now().Add(20 * time.Minute).Truncate(time.Second)
	token, err := service.Issue(sec.IssueInput{
		UserID:             "user-123",
		Username:           "mai",
		Role:               sec.RoleReader,
		IsSubscribed:       true,
		SubscriptionExpiry: &expiry,
	}, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.Decode(token)
	require.NoError(t, err)

	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "mai", claims.Username)
	assert.Equal(t, string(sec.RoleReader), claims.Role)
	assert.True(t, claims.IsSubscribed)
	require.NotNil(t, claims.SubscriptionExpiry)
	assert.True(t, expiry.Equal(*claims.SubscriptionExpiry))
	assert.False(t, claims.Expired(time.Now()))
}

/*
TestTokenService_ShortSecret rejects secrets below the minimum length.
*/
func TestTokenService_ShortSecret(t *testing.T) {
	_, err := sec.NewTokenService("too-short", "inkgate.test")
	assert.Error(t, err)
}

/*
TestTokenService_ExpiredTokenStillDecodes confirms the deliberate split
between structural decoding and expiry policy: a token past its lifetime
decodes fine, but every consumer must treat it as expired.
*/
func TestTokenService_ExpiredTokenStillDecodes(t *testing.T) {
	service := newTestService(t)

	token, err := service.Issue(sec.IssueInput{
		UserID:   "user-123",
		Username: "mai",
		Role:     sec.RoleReader,
	}, -time.Minute)
	require.NoError(t, err)

	claims, err := service.Decode(token)
	require.NoError(t, err)

	assert.True(t, claims.Expired(time.Now()))
}

/*
TestTokenService_TamperedSignature verifies the signature failure kind.
*/
func TestTokenService_TamperedSignature(t *testing.T) {
	service := newTestService(t)

	token, err := service.Issue(sec.IssueInput{
		UserID:   "user-123",
		Username: "mai",
		Role:     sec.RoleReader,
	}, time.Hour)
	require.NoError(t, err)

	// Flip characters in the signature segment only.
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	parts[2] = "AAAA" + parts[2][4:]

	_, err = service.Decode(strings.Join(parts, "."))
	require.Error(t, err)
	assert.ErrorIs(t, err, sec.ErrTokenSignature)
}

/*
TestTokenService_Malformed verifies the malformed failure kind.
*/
func TestTokenService_Malformed(t *testing.T) {
	service := newTestService(t)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"two_segments", "aaaa.bbbb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Decode(tt.token)
			require.Error(t, err)
			assert.ErrorIs(t, err, sec.ErrTokenMalformed)
		})
	}
}

/*
TestDecodeInsecure verifies the client-side payload parse: no secret needed,
claims readable, garbage rejected as malformed.
*/
func TestDecodeInsecure(t *testing.T) {
	service := newTestService(t)

	expiry := time.Now().Add(20 * time.Minute).Truncate(time.Second)
	token, err := service.Issue(sec.IssueInput{
		UserID:             "user-9",
		Username:           "quan",
		Role:               sec.RoleAuthor,
		IsSubscribed:       true,
		SubscriptionExpiry: &expiry,
	}, time.Hour)
	require.NoError(t, err)

	claims, err := sec.DecodeInsecure(token)
	require.NoError(t, err)
	assert.Equal(t, "user-9", claims.UserID)
	assert.Equal(t, string(sec.RoleAuthor), claims.Role)
	assert.True(t, claims.SubscriptionActive(time.Now()))

	_, err = sec.DecodeInsecure("broken")
	assert.ErrorIs(t, err, sec.ErrTokenMalformed)
}
