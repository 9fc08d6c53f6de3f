// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Elect API.

# Handler Types

Each handler is a struct over the voting services:

  - ElectionHandler: Election CRUD, status transitions, counter audit
  - CandidateHandler: Candidate CRUD
  - VotingHandler: Vote casting and has-voted checks
  - ResultsHandler: Results, statistics and timeline
  - VoteAdminHandler: Vote ledger reads, verification and deletion

Handlers are created via constructor functions that accept *sql.DB:

	votingHandler := handlers.NewVotingHandler(db)

# Election Lifecycle

Elections move forward only: upcoming → active → ended

	POST /elections              → CreateElection
	POST /elections/{id}/status  → TransitionElection
	PUT  /elections/{id}         → UpdateElection (upcoming, no votes)

Elections and candidates can only be edited while upcoming.

# Voting Flow

	POST /votes/cast                  → CastVote
	GET  /votes/check/{electionId}    → CheckVote

The caller's identity comes from the bearer token attached by package
middleware. Rejections are answered with a stable code:

	{"error": "Conflict", "code": "ALREADY_VOTED", "message": "..."}

Storage failures are logged and answered with 500 "Database error".

# Results

	GET /elections/{id}/results → GetResults

Results are public once the election has ended or when real-time results
are enabled; admins always see them.
*/
package handlers
