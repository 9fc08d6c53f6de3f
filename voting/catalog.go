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

// CatalogRepository is the storage for election and candidate records
type CatalogRepository interface {
	CreateElection(ctx context.Context, e models.Election) error
	GetElection(ctx context.Context, id string) (models.Election, error)
	ListElections(ctx context.Context, status string) ([]models.Election, error)
	UpdateElection(ctx context.Context, e models.Election) error
	DeleteElection(ctx context.Context, id string) error

	CreateCandidate(ctx context.Context, c models.Candidate) error
	GetCandidate(ctx context.Context, id string) (models.Candidate, error)
	ListCandidates(ctx context.Context, electionID string, activeOnly bool) ([]models.Candidate, error)
	UpdateCandidate(ctx context.Context, c models.Candidate) error
	DeleteCandidate(ctx context.Context, id string) error
}

// Catalog manages elections and their candidates. Counters are never
// written here.
type Catalog struct {
	repo  CatalogRepository
	now   func() time.Time
	newID func() string
}

func NewCatalog(repo CatalogRepository) *Catalog {
	return &Catalog{repo: repo, now: time.Now, newID: uuid.NewString}
}

// WithClock replaces the time source used to pick the initial status
func (c *Catalog) WithClock(now func() time.Time) *Catalog {
	c.now = now
	return c
}

func validType(t string) bool {
	switch t {
	case models.TypeGeneral, models.TypeLocal, models.TypeSpecial:
		return true
	}
	return false
}

func validateElection(e models.Election) error {
	if strings.TrimSpace(e.Title) == "" {
		return Invalid("Title is required")
	}
	if !validType(e.Type) {
		return Invalid("Type must be one of: general, local, special")
	}
	if e.StartTime.IsZero() || e.EndTime.IsZero() {
		return Invalid("Start time and end time are required")
	}
	if !e.StartTime.Before(e.EndTime) {
		return Invalid("End time must be after start time")
	}
	if e.MaxVotesPerVoter < 1 {
		return Invalid("max_votes_per_voter must be at least 1")
	}
	if e.TotalVoters < 0 {
		return Invalid("total_voters cannot be negative")
	}
	return nil
}

// CreateElection validates and stores a new election. It starts upcoming,
// or active when its start time has already passed.
func (c *Catalog) CreateElection(ctx context.Context, req models.CreateElectionRequest) (models.Election, error) {
	now := c.now()
	e := models.Election{
		ID:                         c.newID(),
		Title:                      strings.TrimSpace(req.Title),
		Description:                req.Description,
		Type:                       req.Type,
		Status:                     models.StatusUpcoming,
		StartTime:                  req.StartTime.UTC(),
		EndTime:                    req.EndTime.UTC(),
		MaxVotesPerVoter:           req.MaxVotesPerVoter,
		AllowCandidateRegistration: req.AllowCandidateRegistration,
		ShowRealTimeResults:        true,
		TotalVoters:                req.TotalVoters,
		CreatedAt:                  now.UTC(),
	}
	if e.Type == "" {
		e.Type = models.TypeGeneral
	}
	if e.MaxVotesPerVoter == 0 {
		e.MaxVotesPerVoter = 1
	}
	if req.ShowRealTimeResults != nil {
		e.ShowRealTimeResults = *req.ShowRealTimeResults
	}
	if err := validateElection(e); err != nil {
		return models.Election{}, err
	}
	if !now.Before(e.StartTime) {
		e.Status = models.StatusActive
	}

	if err := c.repo.CreateElection(ctx, e); err != nil {
		return models.Election{}, err
	}

	slog.Info("election created", "election_id", e.ID, "status", e.Status)
	return e, nil
}

func (c *Catalog) GetElection(ctx context.Context, id string) (models.Election, error) {
	e, err := c.repo.GetElection(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return models.Election{}, ErrElectionNotFound
	}
	return e, err
}

// ListElections filters by status when one is given
func (c *Catalog) ListElections(ctx context.Context, status string) ([]models.Election, error) {
	if status != "" {
		if _, ok := statusOrder[status]; !ok {
			return nil, Invalid("status must be one of: upcoming, active, ended")
		}
	}
	return c.repo.ListElections(ctx, status)
}

// UpdateElection applies the non-nil fields of req
func (c *Catalog) UpdateElection(ctx context.Context, id string, req models.UpdateElectionRequest) (models.Election, error) {
	e, err := c.GetElection(ctx, id)
	if err != nil {
		return models.Election{}, err
	}

	if req.Title != nil {
		e.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.Type != nil {
		e.Type = *req.Type
	}
	if req.StartTime != nil {
		e.StartTime = req.StartTime.UTC()
	}
	if req.EndTime != nil {
		e.EndTime = req.EndTime.UTC()
	}
	if req.MaxVotesPerVoter != nil {
		e.MaxVotesPerVoter = *req.MaxVotesPerVoter
	}
	if req.AllowCandidateRegistration != nil {
		e.AllowCandidateRegistration = *req.AllowCandidateRegistration
	}
	if req.ShowRealTimeResults != nil {
		e.ShowRealTimeResults = *req.ShowRealTimeResults
	}
	if req.TotalVoters != nil {
		e.TotalVoters = *req.TotalVoters
	}
	if err := validateElection(e); err != nil {
		return models.Election{}, err
	}

	if err := catalogErr(c.repo.UpdateElection(ctx, e), ErrElectionNotFound); err != nil {
		return models.Election{}, err
	}

	slog.Info("election updated", "election_id", e.ID)
	return e, nil
}

// DeleteElection removes an upcoming election that has no votes
func (c *Catalog) DeleteElection(ctx context.Context, id string) error {
	if err := catalogErr(c.repo.DeleteElection(ctx, id), ErrElectionNotFound); err != nil {
		return err
	}
	slog.Info("election deleted", "election_id", id)
	return nil
}

// CreateCandidate adds a candidate to an upcoming election
func (c *Catalog) CreateCandidate(ctx context.Context, electionID string, req models.CreateCandidateRequest) (models.Candidate, error) {
	cand := models.Candidate{
		ID:          c.newID(),
		ElectionID:  electionID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Party:       strings.TrimSpace(req.Party),
		Platform:    req.Platform,
		PhotoURL:    req.PhotoURL,
		IsActive:    true,
		CreatedAt:   c.now().UTC(),
	}
	if cand.Name == "" {
		return models.Candidate{}, Invalid("Candidate name is required")
	}

	if err := catalogErr(c.repo.CreateCandidate(ctx, cand), ErrElectionNotFound); err != nil {
		return models.Candidate{}, err
	}

	slog.Info("candidate created", "election_id", electionID, "candidate_id", cand.ID)
	return cand, nil
}

func (c *Catalog) GetCandidate(ctx context.Context, id string) (models.Candidate, error) {
	cand, err := c.repo.GetCandidate(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return models.Candidate{}, ErrCandidateNotFound
	}
	return cand, err
}

// ListCandidates returns active candidates unless all is set
func (c *Catalog) ListCandidates(ctx context.Context, electionID string, all bool) ([]models.Candidate, error) {
	if _, err := c.GetElection(ctx, electionID); err != nil {
		return nil, err
	}
	return c.repo.ListCandidates(ctx, electionID, !all)
}

// UpdateCandidate applies the non-nil fields of req
func (c *Catalog) UpdateCandidate(ctx context.Context, id string, req models.UpdateCandidateRequest) (models.Candidate, error) {
	cand, err := c.GetCandidate(ctx, id)
	if err != nil {
		return models.Candidate{}, err
	}

	if req.Name != nil {
		cand.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		cand.Description = *req.Description
	}
	if req.Party != nil {
		cand.Party = strings.TrimSpace(*req.Party)
	}
	if req.Platform != nil {
		cand.Platform = *req.Platform
	}
	if req.PhotoURL != nil {
		cand.PhotoURL = *req.PhotoURL
	}
	if req.IsActive != nil {
		cand.IsActive = *req.IsActive
	}
	if cand.Name == "" {
		return models.Candidate{}, Invalid("Candidate name is required")
	}

	if err := catalogErr(c.repo.UpdateCandidate(ctx, cand), ErrCandidateNotFound); err != nil {
		return models.Candidate{}, err
	}

	slog.Info("candidate updated", "candidate_id", cand.ID)
	return cand, nil
}

// DeleteCandidate removes a candidate from an upcoming election
func (c *Catalog) DeleteCandidate(ctx context.Context, id string) error {
	if err := catalogErr(c.repo.DeleteCandidate(ctx, id), ErrCandidateNotFound); err != nil {
		return err
	}
	slog.Info("candidate deleted", "candidate_id", id)
	return nil
}

// catalogErr maps store sentinels to rejections; notFound names the missing record
func catalogErr(err error, notFound *Rejection) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return notFound
	case errors.Is(err, store.ErrElectionLocked):
		return ErrElectionLocked
	case errors.Is(err, store.ErrDuplicateName):
		return ErrDuplicateCandidate
	default:
		return fmt.Errorf("catalog write failed: %w", err)
	}
}
