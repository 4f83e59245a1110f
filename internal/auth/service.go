// Package auth issues and verifies the admin API's bearer tokens.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 12 * time.Hour

var (
	// ErrInvalidCredentials is returned by Login for a wrong username or password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	// ErrNotConfigured means no admin password hash or JWT secret was provided.
	ErrNotConfigured = errors.New("admin login is not configured")
)

type Service interface {
	Login(ctx context.Context, username, password string) (string, error)
	ValidateToken(ctx context.Context, token string) (string, error)
}

type service struct {
	username     string
	passwordHash []byte
	secret       []byte
	now          func() time.Time
}

// NewService checks logins against a single admin account whose password is
// stored as a bcrypt hash.
func NewService(username, passwordHash, secret string) *service {
	return &service{
		username:     username,
		passwordHash: []byte(passwordHash),
		secret:       []byte(secret),
		now:          time.Now,
	}
}

// Ensure service implements Service at compile time.
var _ Service = (*service)(nil)

func (s *service) configured() bool {
	return len(s.passwordHash) > 0 && len(s.secret) > 0
}

func (s *service) Login(_ context.Context, username, password string) (string, error) {
	if !s.configured() {
		return "", ErrNotConfigured
	}
	if username != s.username {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	now := s.now()
	c := jwt.RegisteredClaims{
		Subject:   username,
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
}

// ValidateToken returns the token's subject.
func (s *service) ValidateToken(_ context.Context, token string) (string, error) {
	if !s.configured() {
		return "", ErrNotConfigured
	}
	tok, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", errors.Join(ErrInvalidToken, err)
	}
	c, ok := tok.Claims.(*jwt.RegisteredClaims)
	if !ok || !tok.Valid || c.Subject != s.username {
		return "", ErrInvalidToken
	}
	return c.Subject, nil
}
