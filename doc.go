// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Elect API server.

Quickly Elect runs single-choice elections: admins define elections and
candidates, identified voters cast one vote per election, and results are
tallied from counters kept in step with the vote ledger.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=elect.db TOKEN_SECRET=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -token-secret ...

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - TOKEN_SECRET (-token-secret): Secret for identity token HMAC

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - STATUS_SWEEP_INTERVAL (-sweep): status sweep period (default: 30s)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (elections, candidates, voting, results)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, identity, admission, JSON helpers
  - voting: Eligibility gate, casting, tallies, lifecycle
  - store: SQL repository and the vote ledger
  - models: Domain, request and response types
  - auth: Identity token signing and verification
  - db: Connection and schema creation
  - cliparse: Configuration parsing

The electionctl command (cmd/electionctl) runs the same operations from a
shell: schema migration, token minting, tallies, audits and sweeps.

See package documentation for each component.
*/
package main
