// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-elect/auth"
)

type identityKey struct{}

// IdentityFrom returns the identity attached by one of the identity wrappers
func IdentityFrom(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(auth.Identity)
	return id, ok
}

// ContextWithIdentity attaches an identity to ctx
func ContextWithIdentity(ctx context.Context, id auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// OptionalIdentity attaches the caller's identity when a bearer token is
// present. A present but invalid token is rejected.
func OptionalIdentity(secret string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			next(w, r)
			return
		}

		id, err := auth.VerifyToken(token, secret, time.Now())
		if err != nil {
			ErrorResponse(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		next(w, r.WithContext(ContextWithIdentity(r.Context(), id)))
	}
}

// RequireIdentity rejects requests without a valid bearer token
func RequireIdentity(secret string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			ErrorResponse(w, http.StatusUnauthorized, "Access denied. No token provided.")
			return
		}

		id, err := auth.VerifyToken(token, secret, time.Now())
		if errors.Is(err, auth.ErrExpiredToken) {
			ErrorResponse(w, http.StatusUnauthorized, "Token expired.")
			return
		}
		if err != nil {
			ErrorResponse(w, http.StatusUnauthorized, "Invalid token.")
			return
		}
		next(w, r.WithContext(ContextWithIdentity(r.Context(), id)))
	}
}

// RequireAdmin rejects requests whose identity is not an admin
func RequireAdmin(secret string, next http.HandlerFunc) http.HandlerFunc {
	return RequireIdentity(secret, func(w http.ResponseWriter, r *http.Request) {
		id, _ := IdentityFrom(r.Context())
		if !id.IsAdmin() {
			ErrorResponse(w, http.StatusForbidden, "Access denied. Admin privileges required.")
			return
		}
		next(w, r)
	})
}
