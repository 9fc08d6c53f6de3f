// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Elect API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Health:

	GET /health

Elections (reads public, writes admin):

	GET    /elections                 - List elections (?status=)
	GET    /elections/{id}            - Election details
	POST   /elections                 - Create election
	PUT    /elections/{id}            - Edit upcoming election
	DELETE /elections/{id}            - Delete upcoming election
	POST   /elections/{id}/status     - Move status forward
	GET    /elections/{id}/audit      - Compare counters with the ledger
	POST   /elections/{id}/reconcile  - Rebuild counters from the ledger
	GET    /elections/{id}/results    - Ranked results (visibility rule applies)

Candidates:

	GET    /elections/{id}/candidates - List (?all=true for admins)
	POST   /elections/{id}/candidates - Add candidate (admin)
	GET    /candidates/{id}           - Candidate details
	PUT    /candidates/{id}           - Edit (admin)
	DELETE /candidates/{id}           - Remove (admin)

Voting (any identity):

	POST /votes/cast                          - Cast a vote
	GET  /votes/check/{electionId}            - Has the caller voted
	GET  /votes/results/{electionId}/realtime - Ranked results

Vote administration (admin):

	GET    /votes/election/{electionId} - Ledger, newest first
	GET    /votes/stats/{electionId}    - Turnout and tallies
	GET    /votes/timeline/{electionId} - Votes per UTC hour
	GET    /votes/{voteId}              - Vote details
	PATCH  /votes/{voteId}/verify       - Set audit flag
	DELETE /votes/{voteId}              - Remove vote, decrement counters

# Identity

Routes are wrapped with middleware.RequireIdentity, middleware.RequireAdmin
or middleware.OptionalIdentity using cfg.TokenSecret.
*/
package router
