// Package token signs and verifies the session cookie value and the
// anti-forgery tokens embedded in forms.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any cookie value that does not verify.
var ErrInvalidToken = errors.New("invalid session token")

// claims carries the session reference. Subject holds the user ID.
type claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// csrfClaims binds a form token to the nonce held in the browser's csrf cookie.
type csrfClaims struct {
	Nonce string `json:"csrf"`
	jwt.RegisteredClaims
}

// Signer issues HS256 tokens that bind a session ID to a user ID.
type Signer struct {
	secret []byte
	now    func() time.Time
}

// NewSigner creates a Signer using secret as the HMAC key.
func NewSigner(secret string) *Signer {
	return &Signer{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// Sign creates a signed token for the given session.
func (s *Signer) Sign(sessionID string, userID uint, expiresAt time.Time) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("signing key is empty")
	}
	c := claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(s.now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies the signature and expiry of tokenStr and returns the
// session and user it refers to.
func (s *Signer) Parse(tokenStr string) (string, uint, error) {
	var c claims
	if err := s.parse(tokenStr, &c); err != nil {
		return "", 0, err
	}

	if c.SessionID == "" {
		return "", 0, fmt.Errorf("%w: missing session id", ErrInvalidToken)
	}
	userID, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil || userID == 0 {
		return "", 0, fmt.Errorf("%w: bad subject %q", ErrInvalidToken, c.Subject)
	}
	return c.SessionID, uint(userID), nil
}

// SignCSRF creates a form token for the given csrf cookie nonce.
func (s *Signer) SignCSRF(nonce string, expiresAt time.Time) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("signing key is empty")
	}
	c := csrfClaims{
		Nonce: nonce,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(s.now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign csrf token: %w", err)
	}
	return signed, nil
}

// ParseCSRF verifies a form token and returns the nonce it was issued for.
// Session tokens are rejected.
func (s *Signer) ParseCSRF(tokenStr string) (string, error) {
	var c csrfClaims
	if err := s.parse(tokenStr, &c); err != nil {
		return "", err
	}
	if c.Nonce == "" {
		return "", fmt.Errorf("%w: missing csrf nonce", ErrInvalidToken)
	}
	return c.Nonce, nil
}

func (s *Signer) parse(tokenStr string, c jwt.Claims) error {
	_, err := jwt.ParseWithClaims(tokenStr, c, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		// Only HMAC-SHA256 is accepted; this also rules out "none".
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return nil
}
