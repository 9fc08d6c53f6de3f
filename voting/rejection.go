// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import "errors"

// Kind classifies a rejection for transport mapping
type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindState      Kind = "state"
	KindConflict   Kind = "conflict"
	KindForbidden  Kind = "forbidden"
)

// Stable machine-readable rejection codes
const (
	CodeValidation           = "VALIDATION_FAILED"
	CodeElectionNotFound     = "ELECTION_NOT_FOUND"
	CodeElectionNotActive    = "ELECTION_NOT_ACTIVE"
	CodeVotingNotStarted     = "VOTING_NOT_STARTED"
	CodeVotingEnded          = "VOTING_ENDED"
	CodeCandidateUnavailable = "CANDIDATE_UNAVAILABLE"
	CodeAlreadyVoted         = "ALREADY_VOTED"
	CodeResultsHidden        = "RESULTS_HIDDEN"
	CodeVoteNotFound         = "VOTE_NOT_FOUND"
	CodeInvalidTransition    = "INVALID_TRANSITION"
	CodeStatusConflict       = "STATUS_CONFLICT"
	CodeElectionLocked       = "ELECTION_LOCKED"
	CodeDuplicateCandidate   = "DUPLICATE_CANDIDATE"
	CodeCandidateNotFound    = "CANDIDATE_NOT_FOUND"
)

// Rejection is an expected business outcome, not a fault. Storage failures
// are returned as ordinary errors.
type Rejection struct {
	Kind    Kind
	Code    string
	Message string
}

func (r *Rejection) Error() string {
	return r.Code + ": " + r.Message
}

var (
	ErrElectionNotFound     = &Rejection{KindNotFound, CodeElectionNotFound, "Election not found"}
	ErrElectionNotActive    = &Rejection{KindState, CodeElectionNotActive, "Election is not active for voting"}
	ErrVotingNotStarted     = &Rejection{KindState, CodeVotingNotStarted, "Voting has not started yet"}
	ErrVotingEnded          = &Rejection{KindState, CodeVotingEnded, "Voting has ended"}
	ErrCandidateUnavailable = &Rejection{KindState, CodeCandidateUnavailable, "Candidate not found or not active"}
	ErrAlreadyVoted         = &Rejection{KindConflict, CodeAlreadyVoted, "You have already voted in this election"}
	ErrResultsHidden        = &Rejection{KindForbidden, CodeResultsHidden, "Real-time results are not enabled for this election"}
	ErrVoteNotFound         = &Rejection{KindNotFound, CodeVoteNotFound, "Vote not found"}
	ErrStatusConflict       = &Rejection{KindConflict, CodeStatusConflict, "Election status changed, retry"}
	ErrElectionLocked       = &Rejection{KindState, CodeElectionLocked, "Election can only be changed while upcoming and without votes"}
	ErrDuplicateCandidate   = &Rejection{KindConflict, CodeDuplicateCandidate, "A candidate with this name already exists in the election"}
	ErrCandidateNotFound    = &Rejection{KindNotFound, CodeCandidateNotFound, "Candidate not found"}
)

// Invalid builds a validation rejection with a specific message
func Invalid(message string) *Rejection {
	return &Rejection{Kind: KindValidation, Code: CodeValidation, Message: message}
}

// AsRejection unwraps err into a Rejection if it is one
func AsRejection(err error) (*Rejection, bool) {
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}
