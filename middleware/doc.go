// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs one line per request (method, path, status, client, duration_ms).
5xx responses log at error level.

# Identity

Bearer tokens from package auth are checked per route:

	middleware.RequireIdentity(secret, h)  // 401 without a valid token
	middleware.RequireAdmin(secret, h)     // 401 without a token, 403 for voters
	middleware.OptionalIdentity(secret, h) // anonymous allowed, bad tokens rejected

Handlers read the caller with IdentityFrom(r.Context()).

# Admission

WithAdmission consults an Admission policy before any route runs and
answers 429 when it refuses. AdmitAll is the default.

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows any origin with methods GET, POST, PUT, PATCH, DELETE, OPTIONS and
headers Content-Type, Authorization. Tokens travel in the Authorization
header, so credentialed CORS is never enabled.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")
	middleware.CodedErrorResponse(w, http.StatusConflict, "ALREADY_VOTED", "message")

ParseJSONBody caps bodies at MaxBodyBytes; BodyErrorResponse maps its
errors to 413 or 400.

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Recorded verbatim on each vote as audit metadata.
*/
package middleware
