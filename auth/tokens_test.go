package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/eduflow-go/config"
)

func newTestTokenService(accessTTL, refreshTTL time.Duration) *TokenService {
	return NewTokenService(config.AuthConfig{
		JWTSecret:            "test-secret-at-least-32-characters!!",
		AccessTokenDuration:  accessTTL,
		RefreshTokenDuration: refreshTTL,
	})
}

func TestTokenServiceIssueAndVerify(t *testing.T) {
	ts := newTestTokenService(time.Minute, time.Hour)

	pair, err := ts.Issue("user-1")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.Greater(t, pair.ExpiresAt, time.Now().Unix())

	userID, err := ts.Verify(pair.AccessToken, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	userID, err = ts.Verify(pair.RefreshToken, TokenTypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestTokenServiceRejectsWrongType(t *testing.T) {
	ts := newTestTokenService(time.Minute, time.Hour)

	pair, err := ts.Issue("user-1")
	require.NoError(t, err)

	_, err = ts.Verify(pair.RefreshToken, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ts.Verify(pair.AccessToken, TokenTypeRefresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenServiceRejectsExpired(t *testing.T) {
	ts := newTestTokenService(-time.Minute, -time.Minute)

	pair, err := ts.Issue("user-1")
	require.NoError(t, err)

	_, err = ts.Verify(pair.AccessToken, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenServiceRejectsWrongSecret(t *testing.T) {
	ts := newTestTokenService(time.Minute, time.Hour)
	other := NewTokenService(config.AuthConfig{
		JWTSecret:            "a-completely-different-signing-key!!",
		AccessTokenDuration:  time.Minute,
		RefreshTokenDuration: time.Hour,
	})

	pair, err := ts.Issue("user-1")
	require.NoError(t, err)

	_, err = other.Verify(pair.AccessToken, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenServiceRejectsMalformed(t *testing.T) {
	ts := newTestTokenService(time.Minute, time.Hour)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := ts.Verify(token, TokenTypeAccess)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", token)
	}
}
