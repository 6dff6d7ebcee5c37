package utils // package utils provides helper functions for token creation and hashing

import (
	"crypto/rand"  // secure random number generation
	"encoding/hex" // hex encoding for session identifiers
	"errors"       // sentinel errors for token validation
	"time"         // expiration handling

	"github.com/golang-jwt/jwt/v5" // JWT library for signing the session cookie
)

// ErrInvalidToken is returned when a session cookie fails signature or
// claim validation.
var ErrInvalidToken = errors.New("invalid session token")

// NewSessionID returns a random 64 character hex string used as the
// server-side session key. The underlying call to crypto/rand ensures
// cryptographically secure random bytes.
func NewSessionID() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// NewSessionToken wraps a session id in a signed HS256 token suitable
// for use as a cookie value. Signing makes the cookie tamper-proof:
// the server only honours session ids it issued itself. The token
// carries the session id as the sid claim plus exp and iat.
func NewSessionToken(secret, sessionID string, ttlMin int) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sid": sessionID,
		"exp": now.Add(time.Duration(ttlMin) * time.Minute).Unix(),
		"iat": now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// ParseSessionToken verifies the cookie's signature and expiry and
// returns the embedded session id. Tokens signed with a different
// method or secret, expired tokens and tokens without a sid claim all
// yield ErrInvalidToken.
func ParseSessionToken(secret, raw string) (string, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens using a different signing algorithm.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", ErrInvalidToken
	}
	return sid, nil
}
