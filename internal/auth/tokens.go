package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"tourney/internal/account"
)

// TokenKind separates the two credential flavors. A refresh token is never
// accepted where an access token is required, and vice versa.
type TokenKind string

const (
	TokenAccess  TokenKind = "access"
	TokenRefresh TokenKind = "refresh"
)

// TokenClaims is the signed payload of both token kinds. Subject carries the
// account id; CSRF is present on access tokens only.
type TokenClaims struct {
	Role account.Role `json:"role"`
	Kind TokenKind    `json:"type"`
	CSRF string       `json:"csrf,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager issues and validates the signed access and refresh tokens.
// The secret and TTLs come from config; there is no package-level state.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenManager(secret []byte, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// IssueAccess mints a short-lived access token with a fresh CSRF nonce and
// returns both. The nonce must be echoed in a request header on protected
// state-changing requests.
func (m *TokenManager) IssueAccess(id uuid.UUID, role account.Role) (token, csrf string, err error) {
	csrf = uuid.NewString()
	token, err = m.sign(&TokenClaims{
		Role: role,
		Kind: TokenAccess,
		CSRF: csrf,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.accessTTL)),
		},
	})
	return token, csrf, err
}

// IssueRefresh mints a long-lived refresh token. It carries no CSRF nonce;
// it is only ever read from the refresh-scoped cookie.
func (m *TokenManager) IssueRefresh(id uuid.UUID, role account.Role) (string, error) {
	return m.sign(&TokenClaims{
		Role: role,
		Kind: TokenRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.refreshTTL)),
		},
	})
}

func (m *TokenManager) sign(claims *TokenClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies a token, then enforces the expected kind.
func (m *TokenManager) Validate(tokenString string, kind TokenKind) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Kind != kind {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

// TimeLeft returns whole seconds until the token expires, clamped to zero.
// Clients use it to refresh pre-emptively.
func (m *TokenManager) TimeLeft(claims *TokenClaims) int64 {
	if claims.ExpiresAt == nil {
		return 0
	}
	left := time.Until(claims.ExpiresAt.Time)
	if left < 0 {
		return 0
	}
	return int64(left.Seconds())
}
