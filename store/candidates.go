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

const candidateColumns = `
	id, election_id, name, description, party, platform, photo_url,
	vote_count, is_active, created_at`

func scanCandidate(row rowScanner) (models.Candidate, error) {
	var c models.Candidate
	err := row.Scan(
		&c.ID, &c.ElectionID, &c.Name, &c.Description, &c.Party, &c.Platform, &c.PhotoURL,
		&c.VoteCount, &c.IsActive, &c.CreatedAt,
	)
	return c, err
}

// lockUpcoming takes the election row inside tx with a guarded no-op
// update. The row lock holds until commit, so a concurrent TransitionStatus
// either waits for the candidate write or makes this update match nothing.
func lockUpcoming(ctx context.Context, tx *sql.Tx, electionID string) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE election SET status = status WHERE id = $1 AND status = $2
	`, electionID, models.StatusUpcoming)
	if err != nil {
		return fmt.Errorf("failed to lock election: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 1 {
		return nil
	}
	if _, err := getElection(ctx, tx, electionID); err != nil {
		return err
	}
	return ErrElectionLocked
}

// CreateCandidate adds a candidate to an upcoming election
func (s *Store) CreateCandidate(ctx context.Context, c models.Candidate) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := lockUpcoming(ctx, tx, c.ElectionID); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO candidate (id, election_id, name, description, party, platform,
				photo_url, vote_count, is_active, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8, $9)
		`, c.ID, c.ElectionID, c.Name, c.Description, c.Party, c.Platform,
			c.PhotoURL, c.IsActive, c.CreatedAt.UTC())
		if isUniqueViolation(err) {
			return ErrDuplicateName
		}
		if err != nil {
			return fmt.Errorf("failed to insert candidate: %w", err)
		}
		return nil
	})
}

// GetCandidate returns ErrNotFound if no candidate has the given id
func (s *Store) GetCandidate(ctx context.Context, id string) (models.Candidate, error) {
	c, err := scanCandidate(s.db.QueryRowContext(ctx, `SELECT `+candidateColumns+` FROM candidate WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Candidate{}, ErrNotFound
	}
	if err != nil {
		return models.Candidate{}, fmt.Errorf("failed to query candidate: %w", err)
	}
	return c, nil
}

// ListCandidates returns an election's candidates in creation order
func (s *Store) ListCandidates(ctx context.Context, electionID string, activeOnly bool) ([]models.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidate WHERE election_id = $1`
	args := []any{electionID}
	if activeOnly {
		query += ` AND is_active = $2`
		args = append(args, true)
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// UpdateCandidate rewrites a candidate's editable fields. The vote count is
// not editable.
func (s *Store) UpdateCandidate(ctx context.Context, c models.Candidate) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := lockUpcoming(ctx, tx, c.ElectionID); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE candidate
			SET name = $1, description = $2, party = $3, platform = $4,
				photo_url = $5, is_active = $6
			WHERE id = $7 AND election_id = $8
		`, c.Name, c.Description, c.Party, c.Platform, c.PhotoURL, c.IsActive, c.ID, c.ElectionID)
		if isUniqueViolation(err) {
			return ErrDuplicateName
		}
		if err != nil {
			return fmt.Errorf("failed to update candidate: %w", err)
		}
		return expectOne(res, ErrNotFound)
	})
}

// DeleteCandidate removes a candidate from an upcoming election
func (s *Store) DeleteCandidate(ctx context.Context, id string) error {
	c, err := s.GetCandidate(ctx, id)
	if err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := lockUpcoming(ctx, tx, c.ElectionID); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM candidate WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete candidate: %w", err)
		}
		return expectOne(res, ErrNotFound)
	})
}
