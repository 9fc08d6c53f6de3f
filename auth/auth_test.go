// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-elect/models"
)

var epoch = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestIssueAndVerify(t *testing.T) {
	tests := []struct {
		name string
		id   Identity
	}{
		{"voter", Identity{UserID: "user-1", Role: models.RoleVoter}},
		{"admin", Identity{UserID: "root", Role: models.RoleAdmin}},
		{"id with separators", Identity{UserID: "a.b:c", Role: models.RoleVoter}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := IssueToken(tt.id, "secret", time.Hour, epoch)
			if err != nil {
				t.Fatalf("IssueToken() error = %v", err)
			}
			if strings.Count(token, ".") != 1 {
				t.Errorf("IssueToken() = %q, want exactly one separator", token)
			}

			got, err := VerifyToken(token, "secret", epoch.Add(time.Minute))
			if err != nil {
				t.Fatalf("VerifyToken() error = %v", err)
			}
			if got != tt.id {
				t.Errorf("VerifyToken() = %+v, want %+v", got, tt.id)
			}
		})
	}
}

func TestIssueTokenRejectsBadIdentity(t *testing.T) {
	tests := []struct {
		name string
		id   Identity
	}{
		{"empty user", Identity{Role: models.RoleVoter}},
		{"unknown role", Identity{UserID: "user-1", Role: "superuser"}},
		{"empty role", Identity{UserID: "user-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := IssueToken(tt.id, "secret", time.Hour, epoch); err == nil {
				t.Error("IssueToken() should fail")
			}
		})
	}
}

func TestVerifyTokenFailures(t *testing.T) {
	valid, err := IssueToken(Identity{UserID: "user-1", Role: models.RoleVoter}, "secret", time.Hour, epoch)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}
	body, sig, _ := strings.Cut(valid, ".")

	tests := []struct {
		name    string
		token   string
		secret  string
		now     time.Time
		wantErr error
	}{
		{"wrong secret", valid, "other", epoch, ErrBadSignature},
		{"tampered body", body + "x." + sig, "secret", epoch, ErrBadSignature},
		{"no separator", body, "secret", epoch, ErrInvalidToken},
		{"empty signature", body + ".", "secret", epoch, ErrInvalidToken},
		{"empty", "", "secret", epoch, ErrInvalidToken},
		{"expired at boundary", valid, "secret", epoch.Add(time.Hour), ErrExpiredToken},
		{"expired later", valid, "secret", epoch.Add(2 * time.Hour), ErrExpiredToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := VerifyToken(tt.token, tt.secret, tt.now)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("VerifyToken() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestVerifyTokenRejectsForgedRole(t *testing.T) {
	// A correctly signed body carrying a role that was never issuable
	body := encoding.EncodeToString([]byte(`{"sub":"user-1","role":"owner","exp":9999999999}`))
	token := body + "." + sign(body, "secret")

	if _, err := VerifyToken(token, "secret", epoch); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("VerifyToken() error = %v, want %v", err, ErrInvalidRole)
	}
}

func TestIsAdmin(t *testing.T) {
	if !(Identity{UserID: "root", Role: models.RoleAdmin}).IsAdmin() {
		t.Error("admin identity should be admin")
	}
	if (Identity{UserID: "user-1", Role: models.RoleVoter}).IsAdmin() {
		t.Error("voter identity should not be admin")
	}
}
