// Copyright (c) 2025 Shopcore Authors
// Shopcore - e-commerce storefront API
// This source code is licensed under the MIT license found in the LICENSE file.

// Package auth implements password hashing and the HS256 bearer-token scheme
// used by the API: short-lived access tokens and long-lived refresh tokens,
// both carrying the subject email, role and user id.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/shopcore/shopcore/internal/model"
)

// Token types carried in the token_type claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// ErrInvalidToken is returned for any token that fails validation:
// bad signature, expired, malformed, or wrong token type.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the JWT payload for both access and refresh tokens.
type Claims struct {
	Role      string `json:"role"`
	UserID    int    `json:"id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// Manager mints and verifies tokens with a shared HS256 secret.
type Manager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewManager creates a token manager. Zero TTLs fall back to 30 minutes for
// access tokens and 7 days for refresh tokens.
func NewManager(secret string, accessTTL, refreshTTL time.Duration) (*Manager, error) {
	if secret == "" {
		return nil, errors.New("auth secret key must not be empty")
	}
	if accessTTL <= 0 {
		accessTTL = 30 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &Manager{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}, nil
}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(b), nil
}

// VerifyPassword reports whether the plaintext password matches the hash.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// CreateAccessToken mints a short-lived access token for the user.
func (m *Manager) CreateAccessToken(u model.User) (string, error) {
	return m.createToken(u, TokenTypeAccess, m.accessTTL)
}

// CreateRefreshToken mints a long-lived refresh token for the user.
func (m *Manager) CreateRefreshToken(u model.User) (string, error) {
	return m.createToken(u, TokenTypeRefresh, m.refreshTTL)
}

func (m *Manager) createToken(u model.User, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role:      u.Role,
		UserID:    u.ID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseAccessToken validates an access token and returns its claims.
func (m *Manager) ParseAccessToken(raw string) (*Claims, error) {
	return m.parseToken(raw, TokenTypeAccess)
}

// ParseRefreshToken validates a refresh token and returns its claims.
// An access token presented here is rejected.
func (m *Manager) ParseRefreshToken(raw string) (*Claims, error) {
	return m.parseToken(raw, TokenTypeRefresh)
}

func (m *Manager) parseToken(raw, wantType string) (*Claims, error) {
	var claims Claims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || claims.TokenType != wantType {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}
