// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package voting implements vote casting, tallying and election lifecycle.

# Eligibility Gate

Gate is a pure predicate over a Snapshot. Checks run in order and stop at
the first failure:

 1. election exists             → ErrElectionNotFound
 2. election is active          → ErrElectionNotActive
 3. now within [start, end]     → ErrVotingNotStarted / ErrVotingEnded
 4. candidate active in election → ErrCandidateUnavailable
 5. voter has not voted         → ErrAlreadyVoted

# Casting

Service.CastVote runs the gate and then store.ApplyVote, which inserts the
ledger row and increments both counters in one transaction. The ledger's
unique (user_id, election_id) constraint closes the race between the gate's
read and the write; a losing concurrent submission is reported as
ErrAlreadyVoted.

	svc := voting.NewService(store.New(conn))
	vote, err := svc.CastVote(ctx, voting.Ballot{UserID: uid, ElectionID: eid, CandidateID: cid})
	if rej, ok := voting.AsRejection(err); ok {
		// rej.Kind, rej.Code, rej.Message
	}

DeleteVote decrements both counters in the same transaction as the delete.
SetVoteVerified only changes the audit flag.

# Results

Aggregator.Results applies the visibility rule (ended, or real-time results
enabled, or admin). Percentages are strings with two decimals, "0.00" when
nothing has been cast. Ranking is by vote count, ties broken by candidate
creation time and then id.

# Lifecycle

Status only moves forward: upcoming → active → ended (upcoming → ended is
allowed). Lifecycle.Sweep applies time-driven transitions; Lifecycle.Run
sweeps on a ticker.
*/
package voting
