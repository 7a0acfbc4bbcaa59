//go:build !integration

package service

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShareService_IssueAndResolve(t *testing.T) {
	svc := NewShareService(ShareConfig{SecretKey: "secret", TTL: time.Hour, BaseURL: "https://pack.example.com"})

	link, err := svc.Issue("alloc-42")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link.URL, "https://pack.example.com/api/shared/"))
	assert.True(t, strings.HasSuffix(link.URL, link.Token))
	assert.WithinDuration(t, time.Now().Add(time.Hour), link.ExpiresAt, 5*time.Second)

	id, err := svc.Resolve(link.Token)
	require.NoError(t, err)
	assert.Equal(t, "alloc-42", id)
}

func TestShareService_DefaultTTL(t *testing.T) {
	svc := NewShareService(ShareConfig{SecretKey: "secret"})
	assert.Equal(t, 7*24*time.Hour, svc.ttl)
}

func TestShareService_Issue_RequiresID(t *testing.T) {
	_, err := NewShareService(ShareConfig{SecretKey: "secret"}).Issue("")
	assert.Error(t, err)
}

func TestShareService_Resolve_Rejects(t *testing.T) {
	svc := NewShareService(ShareConfig{SecretKey: "secret", TTL: time.Hour})
	valid, err := svc.Issue("alloc-1")
	require.NoError(t, err)
	sibling, err := svc.Issue("alloc-2")
	require.NoError(t, err)
	tampered := valid.Token[:strings.LastIndex(valid.Token, ".")] + sibling.Token[strings.LastIndex(sibling.Token, "."):]

	expired := NewShareService(ShareConfig{SecretKey: "secret", TTL: time.Minute})
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredLink, err := expired.Issue("alloc-1")
	require.NoError(t, err)

	otherKey, err := NewShareService(ShareConfig{SecretKey: "other", TTL: time.Hour}).Issue("alloc-1")
	require.NoError(t, err)

	wrongAudience, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "alloc-1",
		Issuer:    shareIssuer,
		Audience:  jwt.ClaimStrings{"api"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "alloc-1",
		Issuer:    shareIssuer,
		Audience:  jwt.ClaimStrings{shareAudience},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "empty", token: ""},
		{name: "signature from another token", token: tampered},
		{name: "expired", token: expiredLink.Token},
		{name: "signed with another key", token: otherKey.Token},
		{name: "wrong audience", token: wrongAudience},
		{name: "unsigned", token: noneAlg},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := svc.Resolve(tt.token)
			assert.ErrorIs(t, err, ErrInvalidShareToken)
			assert.Empty(t, id)
		})
	}
}
