package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mindpath-app/mindpath/db"
)

// ErrInvalidToken is returned for malformed, tampered, expired, or
// revoked session tokens.
var ErrInvalidToken = errors.New("auth: invalid session token")

// SessionStore is the subset of storage the token layer needs
type SessionStore interface {
	CreateSession(id, userID string, ttl time.Duration) (*db.Session, error)
	GetSession(id string) (*db.Session, error)
	TouchSession(id string) error
	DeleteSession(id string) error
}

// sessionClaims are the custom JWT claims carried by a session token
type sessionClaims struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer issues and verifies HS256 session tokens. Each token has a
// matching session row keyed by its token id, so sign-out and the expiry
// sweep revoke tokens server-side.
type TokenIssuer struct {
	secret   []byte
	ttl      time.Duration
	sessions SessionStore
}

// NewTokenIssuer creates a token issuer with the shared signing secret
func NewTokenIssuer(secret string, ttl time.Duration, sessions SessionStore) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, sessions: sessions}
}

// Issue signs a session token for the identity and persists its session row
func (t *TokenIssuer) Issue(identity Identity) (string, error) {
	tokenID := uuid.NewString()
	now := time.Now()

	claims := sessionClaims{
		Name:     identity.Name,
		Email:    identity.Email,
		Username: identity.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	if _, err := t.sessions.CreateSession(tokenID, identity.ID, t.ttl); err != nil {
		return "", fmt.Errorf("persisting session: %w", err)
	}

	return signed, nil
}

// Verify parses and validates a session token and checks that its session
// row still exists. A valid token whose session was deleted (sign-out or
// expiry sweep) is rejected.
func (t *TokenIssuer) Verify(token string) (Identity, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !parsed.Valid {
		return Identity{}, ErrInvalidToken
	}

	session, err := t.sessions.GetSession(claims.ID)
	if err != nil {
		return Identity{}, fmt.Errorf("loading session: %w", err)
	}
	if session == nil {
		return Identity{}, ErrInvalidToken
	}

	if err := t.sessions.TouchSession(claims.ID); err != nil {
		return Identity{}, fmt.Errorf("touching session: %w", err)
	}

	return Identity{
		ID:       claims.Subject,
		Name:     claims.Name,
		Email:    claims.Email,
		Username: claims.Username,
	}, nil
}

// Revoke deletes the session row backing the token. Invalid tokens are a
// no-op so logout is idempotent.
func (t *TokenIssuer) Revoke(token string) error {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(tok *jwt.Token) (interface{}, error) {
		return t.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil
	}
	return t.sessions.DeleteSession(claims.ID)
}
