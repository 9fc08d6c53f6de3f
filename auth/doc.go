// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth issues and verifies identity tokens.

Accounts, passwords and login live outside this service. Whatever performs
login mints a token for the user; this service only checks it.

# Tokens

A token is two URL-safe base64 segments joined by a dot:

	base64(claims JSON) "." base64(HMAC-SHA256(secret, first segment))

Claims carry the user id, the role (voter or admin) and an expiry:

	{"sub": "user-42", "role": "voter", "exp": 1767225600}

# Usage

	token, err := auth.IssueToken(auth.Identity{UserID: "user-42", Role: models.RoleVoter}, secret, 24*time.Hour, time.Now())
	id, err := auth.VerifyToken(token, secret, time.Now())

Signatures are compared with hmac.Equal. Tokens signed with a different
secret fail with ErrBadSignature, expired tokens with ErrExpiredToken.
*/
package auth
