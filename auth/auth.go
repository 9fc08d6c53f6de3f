// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-elect/models"
)

var (
	ErrInvalidToken = errors.New("invalid token format")
	ErrBadSignature = errors.New("invalid token signature")
	ErrExpiredToken = errors.New("token expired")
	ErrInvalidRole  = errors.New("invalid role")
)

// Identity is the verified caller of a request
type Identity struct {
	UserID string `json:"sub"`
	Role   string `json:"role"`
}

func (id Identity) IsAdmin() bool {
	return id.Role == models.RoleAdmin
}

type claims struct {
	Identity
	ExpiresAt int64 `json:"exp"`
}

var encoding = base64.RawURLEncoding

// IssueToken signs an identity that is valid for ttl
func IssueToken(id Identity, secret string, ttl time.Duration, now time.Time) (string, error) {
	if id.UserID == "" {
		return "", fmt.Errorf("user id is required")
	}
	if id.Role != models.RoleVoter && id.Role != models.RoleAdmin {
		return "", ErrInvalidRole
	}

	payload, err := json.Marshal(claims{Identity: id, ExpiresAt: now.Add(ttl).Unix()})
	if err != nil {
		return "", fmt.Errorf("failed to encode claims: %w", err)
	}

	body := encoding.EncodeToString(payload)
	return body + "." + sign(body, secret), nil
}

// VerifyToken checks the signature and expiry and returns the identity
func VerifyToken(token, secret string, now time.Time) (Identity, error) {
	body, sig, ok := strings.Cut(token, ".")
	if !ok || body == "" || sig == "" {
		return Identity{}, ErrInvalidToken
	}

	if !hmac.Equal([]byte(sig), []byte(sign(body, secret))) {
		return Identity{}, ErrBadSignature
	}

	payload, err := encoding.DecodeString(body)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}

	var c claims
	if err := json.Unmarshal(payload, &c); err != nil {
		return Identity{}, ErrInvalidToken
	}
	if c.UserID == "" {
		return Identity{}, ErrInvalidToken
	}
	if c.Role != models.RoleVoter && c.Role != models.RoleAdmin {
		return Identity{}, ErrInvalidRole
	}
	if now.Unix() >= c.ExpiresAt {
		return Identity{}, ErrExpiredToken
	}

	return c.Identity, nil
}

// sign computes the URL-safe HMAC-SHA256 of body
func sign(body, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(body))
	return encoding.EncodeToString(h.Sum(nil))
}
