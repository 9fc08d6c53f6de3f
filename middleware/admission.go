// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"log/slog"
	"net/http"
)

// Admission decides whether a request may be served at all. Rate limiting
// and similar policies plug in here and keep their own state.
type Admission interface {
	Admit(r *http.Request) bool
}

// AdmissionFunc adapts a function to Admission
type AdmissionFunc func(r *http.Request) bool

func (f AdmissionFunc) Admit(r *http.Request) bool {
	return f(r)
}

// AdmitAll is the default policy
type AdmitAll struct{}

func (AdmitAll) Admit(*http.Request) bool {
	return true
}

// WithAdmission answers 429 when the policy refuses a request
func WithAdmission(policy Admission, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !policy.Admit(r) {
			slog.Warn("request refused by admission policy", "path", r.URL.Path, "remote", GetClientIP(r))
			ErrorResponse(w, http.StatusTooManyRequests, "Too many requests, please try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}
