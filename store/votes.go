// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/quickly-elect/models"
)

const voteColumns = `
	id, election_id, candidate_id, user_id, voted_at, ip_address, user_agent, is_verified`

func scanVote(row rowScanner) (models.Vote, error) {
	var v models.Vote
	err := row.Scan(
		&v.ID, &v.ElectionID, &v.CandidateID, &v.UserID, &v.VotedAt,
		&v.IPAddress, &v.UserAgent, &v.IsVerified,
	)
	return v, err
}

func getVote(ctx context.Context, q queryer, id string) (models.Vote, error) {
	v, err := scanVote(q.QueryRowContext(ctx, `SELECT `+voteColumns+` FROM vote WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Vote{}, ErrNotFound
	}
	if err != nil {
		return models.Vote{}, fmt.Errorf("failed to query vote: %w", err)
	}
	return v, nil
}

// GetVote returns ErrNotFound if no vote has the given id
func (s *Store) GetVote(ctx context.Context, id string) (models.Vote, error) {
	return getVote(ctx, s.db, id)
}

// FindVote returns the voter's ballot in an election, or ErrNotFound
func (s *Store) FindVote(ctx context.Context, userID, electionID string) (models.Vote, error) {
	v, err := scanVote(s.db.QueryRowContext(ctx, `
		SELECT `+voteColumns+` FROM vote WHERE user_id = $1 AND election_id = $2
	`, userID, electionID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Vote{}, ErrNotFound
	}
	if err != nil {
		return models.Vote{}, fmt.Errorf("failed to query vote: %w", err)
	}
	return v, nil
}

// ApplyVote inserts a ledger row and increments the candidate and election
// counters as one transaction. The unique (user_id, election_id) constraint
// surfaces as ErrDuplicateVote. The candidate must still be active in the
// election and the election must still be active, otherwise nothing is
// written.
func (s *Store) ApplyVote(ctx context.Context, v models.Vote) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO vote (id, election_id, candidate_id, user_id, voted_at, ip_address, user_agent, is_verified)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, v.ID, v.ElectionID, v.CandidateID, v.UserID, v.VotedAt.UTC(), v.IPAddress, v.UserAgent, v.IsVerified)
		if isUniqueViolation(err) {
			return ErrDuplicateVote
		}
		if err != nil {
			return fmt.Errorf("failed to insert vote: %w", err)
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE candidate SET vote_count = vote_count + 1
			WHERE id = $1 AND election_id = $2 AND is_active = $3
		`, v.CandidateID, v.ElectionID, true)
		if err != nil {
			return fmt.Errorf("failed to increment candidate count: %w", err)
		}
		if err := expectOne(res, ErrCandidateUnavailable); err != nil {
			return err
		}

		res, err = tx.ExecContext(ctx, `
			UPDATE election SET total_votes_cast = total_votes_cast + 1
			WHERE id = $1 AND status = $2
		`, v.ElectionID, models.StatusActive)
		if err != nil {
			return fmt.Errorf("failed to increment election total: %w", err)
		}
		return expectOne(res, ErrElectionNotActive)
	})
}

// RemoveVote deletes a ledger row and decrements both counters in the same
// transaction. Returns the removed vote.
func (s *Store) RemoveVote(ctx context.Context, id string) (models.Vote, error) {
	var removed models.Vote
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		v, err := getVote(ctx, tx, id)
		if err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM vote WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete vote: %w", err)
		}
		if err := expectOne(res, ErrNotFound); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE candidate SET vote_count = vote_count - 1 WHERE id = $1
		`, v.CandidateID)
		if err != nil {
			return fmt.Errorf("failed to decrement candidate count: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE election SET total_votes_cast = total_votes_cast - 1 WHERE id = $1
		`, v.ElectionID)
		if err != nil {
			return fmt.Errorf("failed to decrement election total: %w", err)
		}

		removed = v
		return nil
	})
	if err != nil {
		return models.Vote{}, err
	}
	return removed, nil
}

// SetVerified toggles the audit flag. Counters are unaffected.
func (s *Store) SetVerified(ctx context.Context, id string, verified bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE vote SET is_verified = $1 WHERE id = $2`, verified, id)
	if err != nil {
		return fmt.Errorf("failed to update vote: %w", err)
	}
	return expectOne(res, ErrNotFound)
}

// ListVotes returns an election's ledger, newest first
func (s *Store) ListVotes(ctx context.Context, electionID string) ([]models.Vote, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+voteColumns+` FROM vote WHERE election_id = $1 ORDER BY voted_at DESC, id
	`, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}
	defer rows.Close()

	votes := []models.Vote{}
	for rows.Next() {
		v, err := scanVote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, v)
	}
	return votes, rows.Err()
}

// VoteTimes returns the timestamps of every vote in an election, oldest first
func (s *Store) VoteTimes(ctx context.Context, electionID string) ([]time.Time, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT voted_at FROM vote WHERE election_id = $1 ORDER BY voted_at
	`, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query vote times: %w", err)
	}
	defer rows.Close()

	times := []time.Time{}
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("failed to scan vote time: %w", err)
		}
		times = append(times, t)
	}
	return times, rows.Err()
}

// CountVerification returns the number of verified and unverified votes
func (s *Store) CountVerification(ctx context.Context, electionID string) (verified, unverified int, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN is_verified THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN is_verified THEN 0 ELSE 1 END), 0)
		FROM vote WHERE election_id = $1
	`, electionID).Scan(&verified, &unverified)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count verification: %w", err)
	}
	return verified, unverified, nil
}
