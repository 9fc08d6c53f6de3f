// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/danielhkuo/quickly-elect/models"
)

const electionColumns = `
	id, title, description, type, status, start_time, end_time,
	max_votes_per_voter, allow_candidate_registration, show_real_time_results,
	total_votes_cast, total_voters, created_at`

func scanElection(row rowScanner) (models.Election, error) {
	var e models.Election
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.Type, &e.Status, &e.StartTime, &e.EndTime,
		&e.MaxVotesPerVoter, &e.AllowCandidateRegistration, &e.ShowRealTimeResults,
		&e.TotalVotesCast, &e.TotalVoters, &e.CreatedAt,
	)
	return e, err
}

// CreateElection inserts a new election with zeroed counters
func (s *Store) CreateElection(ctx context.Context, e models.Election) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO election (id, title, description, type, status, start_time, end_time,
			max_votes_per_voter, allow_candidate_registration, show_real_time_results,
			total_votes_cast, total_voters, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 0, $11, $12)
	`, e.ID, e.Title, e.Description, e.Type, e.Status, e.StartTime.UTC(), e.EndTime.UTC(),
		e.MaxVotesPerVoter, e.AllowCandidateRegistration, e.ShowRealTimeResults,
		e.TotalVoters, e.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert election: %w", err)
	}
	return nil
}

// GetElection returns ErrNotFound if no election has the given id
func (s *Store) GetElection(ctx context.Context, id string) (models.Election, error) {
	return getElection(ctx, s.db, id)
}

func getElection(ctx context.Context, q queryer, id string) (models.Election, error) {
	e, err := scanElection(q.QueryRowContext(ctx, `SELECT `+electionColumns+` FROM election WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Election{}, ErrNotFound
	}
	if err != nil {
		return models.Election{}, fmt.Errorf("failed to query election: %w", err)
	}
	return e, nil
}

// ListElections returns elections with the given status, or all elections
// when status is empty. Ended elections list most recent first.
func (s *Store) ListElections(ctx context.Context, status string) ([]models.Election, error) {
	var rows *sql.Rows
	var err error
	switch status {
	case "":
		rows, err = s.db.QueryContext(ctx, `SELECT `+electionColumns+` FROM election ORDER BY start_time, id`)
	case models.StatusEnded:
		rows, err = s.db.QueryContext(ctx, `SELECT `+electionColumns+` FROM election WHERE status = $1 ORDER BY end_time DESC, id`, status)
	default:
		rows, err = s.db.QueryContext(ctx, `SELECT `+electionColumns+` FROM election WHERE status = $1 ORDER BY start_time, id`, status)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query elections: %w", err)
	}
	defer rows.Close()

	elections := []models.Election{}
	for rows.Next() {
		e, err := scanElection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan election: %w", err)
		}
		elections = append(elections, e)
	}
	return elections, rows.Err()
}

// UpdateElection rewrites the editable fields of an upcoming election that
// has no votes. Counters and status are never touched.
func (s *Store) UpdateElection(ctx context.Context, e models.Election) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE election
		SET title = $1, description = $2, type = $3, start_time = $4, end_time = $5,
			max_votes_per_voter = $6, allow_candidate_registration = $7,
			show_real_time_results = $8, total_voters = $9
		WHERE id = $10 AND status = $11 AND total_votes_cast = 0
	`, e.Title, e.Description, e.Type, e.StartTime.UTC(), e.EndTime.UTC(),
		e.MaxVotesPerVoter, e.AllowCandidateRegistration, e.ShowRealTimeResults,
		e.TotalVoters, e.ID, models.StatusUpcoming)
	if err != nil {
		return fmt.Errorf("failed to update election: %w", err)
	}
	return s.lockedOrMissing(ctx, res, e.ID)
}

// DeleteElection removes an upcoming election without votes and its candidates
func (s *Store) DeleteElection(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM election
		WHERE id = $1 AND status = $2 AND total_votes_cast = 0
	`, id, models.StatusUpcoming)
	if err != nil {
		return fmt.Errorf("failed to delete election: %w", err)
	}
	return s.lockedOrMissing(ctx, res, id)
}

func (s *Store) lockedOrMissing(ctx context.Context, res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 1 {
		return nil
	}
	if _, err := s.GetElection(ctx, id); err != nil {
		return err
	}
	return ErrElectionLocked
}

// TransitionStatus moves an election from one status to another only if it
// is still in the expected status.
func (s *Store) TransitionStatus(ctx context.Context, id, from, to string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE election SET status = $1 WHERE id = $2 AND status = $3
	`, to, id, from)
	if err != nil {
		return fmt.Errorf("failed to update election status: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 1 {
		return nil
	}
	if _, err := s.GetElection(ctx, id); err != nil {
		return err
	}
	return ErrStatusConflict
}
