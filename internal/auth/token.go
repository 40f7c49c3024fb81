// Package auth issues and validates the signed links sent to subscribers.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	PurposeUnsubscribe = "unsubscribe"
	UnsubscribeTTL     = 365 * 24 * time.Hour
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrNoSecret     = errors.New("token secret is not configured")
)

type Claims struct {
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

type Signer struct {
	secret []byte
	now    func() time.Time
}

func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret), now: time.Now}
}

// Enabled reports whether a secret was configured.
func (s *Signer) Enabled() bool {
	return s != nil && len(s.secret) > 0
}

// GenerateToken signs an unsubscribe token for email.
func (s *Signer) GenerateToken(email string) (string, error) {
	if !s.Enabled() {
		return "", ErrNoSecret
	}
	now := s.now()
	claims := Claims{
		Email:   strings.ToLower(strings.TrimSpace(email)),
		Purpose: PurposeUnsubscribe,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(UnsubscribeTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// ValidateToken returns the subscriber email carried by an unsubscribe token.
func (s *Signer) ValidateToken(tokenString string) (string, error) {
	if !s.Enabled() {
		return "", ErrNoSecret
	}
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Purpose != PurposeUnsubscribe || claims.Email == "" {
		return "", ErrInvalidToken
	}
	return claims.Email, nil
}
