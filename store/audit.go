// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/danielhkuo/quickly-elect/models"
)

// AuditCounters compares the denormalized counters of an election and its
// candidates with COUNT(*) over the ledger. An empty result means consistent.
func (s *Store) AuditCounters(ctx context.Context, electionID string) ([]models.CounterDrift, error) {
	return auditCounters(ctx, s.db, electionID)
}

// ReconcileCounters rewrites the counters of an election from the ledger
// and returns the drift that was corrected.
func (s *Store) ReconcileCounters(ctx context.Context, electionID string) ([]models.CounterDrift, error) {
	var drift []models.CounterDrift
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		drift, err = auditCounters(ctx, tx, electionID)
		if err != nil {
			return err
		}
		if len(drift) == 0 {
			return nil
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE candidate
			SET vote_count = (SELECT COUNT(*) FROM vote WHERE vote.candidate_id = candidate.id)
			WHERE election_id = $1
		`, electionID)
		if err != nil {
			return fmt.Errorf("failed to reconcile candidate counts: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE election
			SET total_votes_cast = (SELECT COUNT(*) FROM vote WHERE vote.election_id = election.id)
			WHERE id = $1
		`, electionID)
		if err != nil {
			return fmt.Errorf("failed to reconcile election total: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return drift, nil
}

func auditCounters(ctx context.Context, q queryer, electionID string) ([]models.CounterDrift, error) {
	e, err := getElection(ctx, q, electionID)
	if err != nil {
		return nil, err
	}

	drift := []models.CounterDrift{}

	var ledgerTotal int
	err = q.QueryRowContext(ctx, `SELECT COUNT(*) FROM vote WHERE election_id = $1`, electionID).Scan(&ledgerTotal)
	if err != nil {
		return nil, fmt.Errorf("failed to count votes: %w", err)
	}
	if ledgerTotal != e.TotalVotesCast {
		drift = append(drift, models.CounterDrift{
			ElectionID: electionID,
			Stored:     e.TotalVotesCast,
			Ledger:     ledgerTotal,
		})
	}

	rows, err := q.QueryContext(ctx, `
		SELECT c.id, c.vote_count, COUNT(v.id)
		FROM candidate c
		LEFT JOIN vote v ON v.candidate_id = c.id
		WHERE c.election_id = $1
		GROUP BY c.id, c.vote_count, c.created_at
		ORDER BY c.created_at, c.id
	`, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to count candidate votes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d models.CounterDrift
		if err := rows.Scan(&d.CandidateID, &d.Stored, &d.Ledger); err != nil {
			return nil, fmt.Errorf("failed to scan candidate count: %w", err)
		}
		if d.Stored != d.Ledger {
			d.ElectionID = electionID
			drift = append(drift, d)
		}
	}
	return drift, rows.Err()
}
