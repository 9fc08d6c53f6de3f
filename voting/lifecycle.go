// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielhkuo/quickly-elect/models"
	"github.com/danielhkuo/quickly-elect/store"
)

var statusOrder = map[string]int{
	models.StatusUpcoming: 0,
	models.StatusActive:   1,
	models.StatusEnded:    2,
}

// CanTransition reports whether moving from one status to another is a
// forward move. Status never moves backward.
func CanTransition(from, to string) bool {
	f, ok := statusOrder[from]
	if !ok {
		return false
	}
	t, ok := statusOrder[to]
	if !ok {
		return false
	}
	return t > f
}

// DueStatus is the status an election's time window calls for at now
func DueStatus(e models.Election, now time.Time) string {
	switch {
	case e.Status == models.StatusEnded:
		return models.StatusEnded
	case now.After(e.EndTime):
		return models.StatusEnded
	case e.Status == models.StatusUpcoming && !now.Before(e.StartTime):
		return models.StatusActive
	default:
		return e.Status
	}
}

// Lifecycle drives election status transitions, by admin action or by time
type Lifecycle struct {
	repo Repository
	now  func() time.Time
}

func NewLifecycle(repo Repository) *Lifecycle {
	return &Lifecycle{repo: repo, now: time.Now}
}

// WithClock replaces the time source used by Sweep
func (l *Lifecycle) WithClock(now func() time.Time) *Lifecycle {
	l.now = now
	return l
}

// Transition moves an election forward to the given status
func (l *Lifecycle) Transition(ctx context.Context, electionID, to string) (models.Election, error) {
	if _, ok := statusOrder[to]; !ok {
		return models.Election{}, Invalid("status must be one of: upcoming, active, ended")
	}

	e, err := l.repo.GetElection(ctx, electionID)
	if errors.Is(err, store.ErrNotFound) {
		return models.Election{}, ErrElectionNotFound
	}
	if err != nil {
		return models.Election{}, err
	}

	if !CanTransition(e.Status, to) {
		return models.Election{}, &Rejection{
			Kind:    KindState,
			Code:    CodeInvalidTransition,
			Message: fmt.Sprintf("Cannot move election from %s to %s", e.Status, to),
		}
	}

	err = l.repo.TransitionStatus(ctx, e.ID, e.Status, to)
	if errors.Is(err, store.ErrStatusConflict) {
		return models.Election{}, ErrStatusConflict
	}
	if err != nil {
		return models.Election{}, fmt.Errorf("failed to transition election: %w", err)
	}

	slog.Info("election status changed", "election_id", e.ID, "from", e.Status, "to", to)
	e.Status = to
	return e, nil
}

// Sweep applies time-driven transitions to every election that is not
// ended and returns how many changed.
func (l *Lifecycle) Sweep(ctx context.Context) (int, error) {
	now := l.now()
	changed := 0

	for _, status := range []string{models.StatusUpcoming, models.StatusActive} {
		elections, err := l.repo.ListElections(ctx, status)
		if err != nil {
			return changed, err
		}

		for _, e := range elections {
			due := DueStatus(e, now)
			if due == e.Status {
				continue
			}

			err := l.repo.TransitionStatus(ctx, e.ID, e.Status, due)
			if errors.Is(err, store.ErrStatusConflict) {
				// Moved by someone else since the list
				continue
			}
			if err != nil {
				return changed, fmt.Errorf("failed to transition election %s: %w", e.ID, err)
			}

			slog.Info("election status advanced", "election_id", e.ID, "from", e.Status, "to", due)
			changed++
		}
	}

	return changed, nil
}

// Run sweeps every interval until ctx is cancelled
func (l *Lifecycle) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := l.Sweep(ctx); err != nil && ctx.Err() == nil {
			slog.Error("status sweep failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
