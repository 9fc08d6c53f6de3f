// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Domain Types

  - Election: election definition, lifecycle status and denormalized totals
  - Candidate: candidate per election with a denormalized vote count
  - Vote: one ledger entry per (user, election)

Election.TotalVotesCast and Candidate.VoteCount are caches of the vote
ledger. They are only written by the store's apply/remove vote units.

# Request Types

  - CreateElectionRequest, UpdateElectionRequest, TransitionRequest
  - CreateCandidateRequest, UpdateCandidateRequest
  - CastVoteRequest, VerifyVoteRequest

Update requests use pointer fields; nil means "leave unchanged".

# View Types

  - ResultsView: ranked tallies with percentages
  - VotingStats: turnout, verification counts, party totals, hourly timeline
  - TimelineBucket: date+hour vote counts
  - CounterDrift: counter/ledger mismatch found by an audit

# Constants

Status values:

	StatusUpcoming = "upcoming"
	StatusActive   = "active"
	StatusEnded    = "ended"

Election types:

	TypeGeneral = "general"
	TypeLocal   = "local"
	TypeSpecial = "special"

Roles:

	RoleVoter = "voter"
	RoleAdmin = "admin"
*/
package models
