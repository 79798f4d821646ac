package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/user/eduflow-go/config"
)

// Token type claim values. A refresh token is never accepted where an
// access token is expected and vice versa.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Sentinel token errors. The HTTP layer collapses both into the same
// generic 401 so clients cannot tell a forged token from a stale one.
var (
	ErrInvalidToken = errors.New("token is invalid")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims is the JWT payload: the standard registered claims plus the token
// type. The subject carries the user id.
type Claims struct {
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenPair bundles a short-lived access token and a longer-lived refresh
// token, both minted for the same subject.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	// ExpiresAt is the access token expiry, seconds since epoch.
	ExpiresAt int64 `json:"expiresAt"`
}

// TokenService signs and verifies the stateless bearer tokens. Validity is
// determined purely by signature and expiry; there is no server-side token
// registry.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenService creates a TokenService from the auth configuration. The
// secret's presence is a startup precondition enforced by config.LoadConfig.
func NewTokenService(cfg config.AuthConfig) *TokenService {
	return &TokenService{
		secret:     []byte(cfg.JWTSecret),
		accessTTL:  cfg.AccessTokenDuration,
		refreshTTL: cfg.RefreshTokenDuration,
	}
}

// RefreshTTL returns the configured refresh token lifetime. The handlers
// use it for the refresh cookie Max-Age.
func (ts *TokenService) RefreshTTL() time.Duration {
	return ts.refreshTTL
}

// Issue mints an access/refresh token pair for the given user id.
func (ts *TokenService) Issue(userID string) (*TokenPair, error) {
	accessToken, accessExpiry, err := ts.sign(userID, TokenTypeAccess, ts.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	refreshToken, _, err := ts.sign(userID, TokenTypeRefresh, ts.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    accessExpiry.Unix(),
	}, nil
}

func (ts *TokenService) sign(userID, tokenType string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiry := now.Add(ttl)
	claims := &Claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiry),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "eduflow",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ts.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiry, nil
}

// Verify parses tokenString and returns the subject user id. It fails with
// ErrExpiredToken when the token is past its expiry and ErrInvalidToken for
// every other defect (bad signature, malformed payload, wrong token type).
func (ts *TokenService) Verify(tokenString, wantType string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.TokenType != wantType {
		return "", fmt.Errorf("%w: wrong token type %q", ErrInvalidToken, claims.TokenType)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims.Subject, nil
}
