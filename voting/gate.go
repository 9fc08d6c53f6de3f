// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"time"

	"github.com/danielhkuo/quickly-elect/models"
)

// Snapshot is the state the eligibility gate decides on. Nil pointers mean
// the record does not exist.
type Snapshot struct {
	Election  *models.Election
	Candidate *models.Candidate
	HasVoted  bool
}

// Gate decides whether a vote may proceed. It returns nil to admit, or the
// first failing check. The voting window is inclusive at both ends.
func Gate(s Snapshot, now time.Time) *Rejection {
	e := s.Election
	if e == nil {
		return ErrElectionNotFound
	}

	if e.Status != models.StatusActive {
		return ErrElectionNotActive
	}

	if now.Before(e.StartTime) {
		return ErrVotingNotStarted
	}
	if now.After(e.EndTime) {
		return ErrVotingEnded
	}

	c := s.Candidate
	if c == nil || c.ElectionID != e.ID || !c.IsActive {
		return ErrCandidateUnavailable
	}

	if s.HasVoted {
		return ErrAlreadyVoted
	}

	return nil
}
