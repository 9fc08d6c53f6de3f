// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-elect/models"
	"github.com/danielhkuo/quickly-elect/store"
)

// Repository is the storage the voting core needs. *store.Store implements it.
type Repository interface {
	GetElection(ctx context.Context, id string) (models.Election, error)
	ListElections(ctx context.Context, status string) ([]models.Election, error)
	TransitionStatus(ctx context.Context, id, from, to string) error

	GetCandidate(ctx context.Context, id string) (models.Candidate, error)
	ListCandidates(ctx context.Context, electionID string, activeOnly bool) ([]models.Candidate, error)

	FindVote(ctx context.Context, userID, electionID string) (models.Vote, error)
	GetVote(ctx context.Context, id string) (models.Vote, error)
	ApplyVote(ctx context.Context, v models.Vote) error
	RemoveVote(ctx context.Context, id string) (models.Vote, error)
	SetVerified(ctx context.Context, id string, verified bool) error
	ListVotes(ctx context.Context, electionID string) ([]models.Vote, error)
	VoteTimes(ctx context.Context, electionID string) ([]time.Time, error)
	CountVerification(ctx context.Context, electionID string) (verified, unverified int, err error)

	AuditCounters(ctx context.Context, electionID string) ([]models.CounterDrift, error)
	ReconcileCounters(ctx context.Context, electionID string) ([]models.CounterDrift, error)
}

// Ballot is a cast-vote attempt with its audit metadata
type Ballot struct {
	UserID      string
	ElectionID  string
	CandidateID string
	IPAddress   string
	UserAgent   string
}

// Service is the vote casting write path and the vote administration
// operations.
type Service struct {
	repo  Repository
	now   func() time.Time
	newID func() string
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now, newID: uuid.NewString}
}

// WithClock replaces the time source used for the voting window and votedAt
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CastVote records one vote and increments both counters atomically.
// Business outcomes are returned as *Rejection; anything else is a storage
// fault.
func (s *Service) CastVote(ctx context.Context, b Ballot) (models.Vote, error) {
	b.UserID = strings.TrimSpace(b.UserID)
	b.ElectionID = strings.TrimSpace(b.ElectionID)
	b.CandidateID = strings.TrimSpace(b.CandidateID)

	if b.UserID == "" {
		return models.Vote{}, Invalid("user id is required")
	}
	if b.ElectionID == "" || b.CandidateID == "" {
		return models.Vote{}, Invalid("Election ID and candidate ID are required")
	}

	snap, err := s.snapshot(ctx, b)
	if err != nil {
		return models.Vote{}, err
	}

	now := s.now()
	if rej := Gate(snap, now); rej != nil {
		slog.Info("vote rejected", "election_id", b.ElectionID, "user_id", b.UserID, "code", rej.Code)
		return models.Vote{}, rej
	}

	vote := models.Vote{
		ID:          s.newID(),
		ElectionID:  b.ElectionID,
		CandidateID: b.CandidateID,
		UserID:      b.UserID,
		VotedAt:     now.UTC(),
		IPAddress:   b.IPAddress,
		UserAgent:   b.UserAgent,
		IsVerified:  true,
	}

	err = s.repo.ApplyVote(ctx, vote)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrDuplicateVote):
		// Lost a race with a concurrent submission from the same voter
		slog.Warn("duplicate vote blocked by ledger constraint", "election_id", b.ElectionID, "user_id", b.UserID)
		return models.Vote{}, ErrAlreadyVoted
	case errors.Is(err, store.ErrCandidateUnavailable):
		return models.Vote{}, ErrCandidateUnavailable
	case errors.Is(err, store.ErrElectionNotActive):
		return models.Vote{}, ErrElectionNotActive
	default:
		return models.Vote{}, fmt.Errorf("failed to record vote: %w", err)
	}

	slog.Info("vote cast", "election_id", vote.ElectionID, "vote_id", vote.ID)
	return vote, nil
}

func (s *Service) snapshot(ctx context.Context, b Ballot) (Snapshot, error) {
	var snap Snapshot

	e, err := s.repo.GetElection(ctx, b.ElectionID)
	if errors.Is(err, store.ErrNotFound) {
		return snap, nil
	}
	if err != nil {
		return snap, err
	}
	snap.Election = &e

	c, err := s.repo.GetCandidate(ctx, b.CandidateID)
	switch {
	case err == nil:
		snap.Candidate = &c
	case !errors.Is(err, store.ErrNotFound):
		return snap, err
	}

	_, err = s.repo.FindVote(ctx, b.UserID, b.ElectionID)
	switch {
	case err == nil:
		snap.HasVoted = true
	case !errors.Is(err, store.ErrNotFound):
		return snap, err
	}

	return snap, nil
}

// HasVoted reports the voter's ballot in an election, if any
func (s *Service) HasVoted(ctx context.Context, userID, electionID string) (models.Vote, bool, error) {
	if _, err := s.election(ctx, electionID); err != nil {
		return models.Vote{}, false, err
	}

	v, err := s.repo.FindVote(ctx, userID, electionID)
	if errors.Is(err, store.ErrNotFound) {
		return models.Vote{}, false, nil
	}
	if err != nil {
		return models.Vote{}, false, err
	}
	return v, true, nil
}

// DeleteVote removes a vote and decrements both counters in one unit
func (s *Service) DeleteVote(ctx context.Context, voteID string) (models.Vote, error) {
	v, err := s.repo.RemoveVote(ctx, voteID)
	if errors.Is(err, store.ErrNotFound) {
		return models.Vote{}, ErrVoteNotFound
	}
	if err != nil {
		return models.Vote{}, fmt.Errorf("failed to delete vote: %w", err)
	}

	slog.Info("vote deleted", "vote_id", v.ID, "election_id", v.ElectionID, "candidate_id", v.CandidateID)
	return v, nil
}

// SetVoteVerified toggles the audit flag; totals are not affected
func (s *Service) SetVoteVerified(ctx context.Context, voteID string, verified bool) error {
	err := s.repo.SetVerified(ctx, voteID, verified)
	if errors.Is(err, store.ErrNotFound) {
		return ErrVoteNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to verify vote: %w", err)
	}

	slog.Info("vote verification changed", "vote_id", voteID, "is_verified", verified)
	return nil
}

// VoteDetail returns a vote with its candidate and election
func (s *Service) VoteDetail(ctx context.Context, voteID string) (models.VoteDetail, error) {
	v, err := s.repo.GetVote(ctx, voteID)
	if errors.Is(err, store.ErrNotFound) {
		return models.VoteDetail{}, ErrVoteNotFound
	}
	if err != nil {
		return models.VoteDetail{}, err
	}

	e, err := s.election(ctx, v.ElectionID)
	if err != nil {
		return models.VoteDetail{}, err
	}

	c, err := s.repo.GetCandidate(ctx, v.CandidateID)
	if err != nil {
		return models.VoteDetail{}, fmt.Errorf("failed to load candidate for vote: %w", err)
	}

	return models.VoteDetail{
		Vote:      v,
		Candidate: models.CandidateBrief{ID: c.ID, Name: c.Name, Party: c.Party},
		Election:  e.Summary(),
	}, nil
}

// ElectionVotes lists an election's ledger with candidate details, newest first
func (s *Service) ElectionVotes(ctx context.Context, electionID string) (models.ElectionVotesResponse, error) {
	e, err := s.election(ctx, electionID)
	if err != nil {
		return models.ElectionVotesResponse{}, err
	}

	candidates, err := s.repo.ListCandidates(ctx, electionID, false)
	if err != nil {
		return models.ElectionVotesResponse{}, err
	}
	byID := make(map[string]models.CandidateBrief, len(candidates))
	for _, c := range candidates {
		byID[c.ID] = models.CandidateBrief{ID: c.ID, Name: c.Name, Party: c.Party}
	}

	votes, err := s.repo.ListVotes(ctx, electionID)
	if err != nil {
		return models.ElectionVotesResponse{}, err
	}

	summary := e.Summary()
	details := make([]models.VoteDetail, 0, len(votes))
	for _, v := range votes {
		details = append(details, models.VoteDetail{
			Vote:      v,
			Candidate: byID[v.CandidateID],
			Election:  summary,
		})
	}

	return models.ElectionVotesResponse{
		Election: summary,
		Votes:    details,
		Count:    len(details),
	}, nil
}

// AuditCounters reports counter drift against the ledger
func (s *Service) AuditCounters(ctx context.Context, electionID string) ([]models.CounterDrift, error) {
	drift, err := s.repo.AuditCounters(ctx, electionID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrElectionNotFound
	}
	return drift, err
}

// ReconcileCounters rebuilds counters from the ledger
func (s *Service) ReconcileCounters(ctx context.Context, electionID string) ([]models.CounterDrift, error) {
	drift, err := s.repo.ReconcileCounters(ctx, electionID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrElectionNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(drift) > 0 {
		slog.Warn("counters reconciled", "election_id", electionID, "drift_rows", len(drift))
	}
	return drift, nil
}

func (s *Service) election(ctx context.Context, id string) (models.Election, error) {
	e, err := s.repo.GetElection(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return models.Election{}, ErrElectionNotFound
	}
	return e, err
}
