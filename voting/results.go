// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"golang.org/x/exp/constraints"

	"github.com/danielhkuo/quickly-elect/models"
	"github.com/danielhkuo/quickly-elect/store"
)

// Aggregator computes tallies, turnout and timelines. It only reads.
type Aggregator struct {
	repo Repository
	now  func() time.Time
}

func NewAggregator(repo Repository) *Aggregator {
	return &Aggregator{repo: repo, now: time.Now}
}

// ResultsVisible applies the results visibility rule: ended elections and
// elections with real-time results are public, everything else is admin-only.
func ResultsVisible(e models.Election, isAdmin bool) bool {
	return isAdmin || e.Status == models.StatusEnded || e.ShowRealTimeResults
}

// Results returns ranked tallies for the active candidates of an election
func (a *Aggregator) Results(ctx context.Context, electionID string, isAdmin bool) (models.ResultsView, error) {
	e, err := a.election(ctx, electionID)
	if err != nil {
		return models.ResultsView{}, err
	}

	if !ResultsVisible(e, isAdmin) {
		return models.ResultsView{}, ErrResultsHidden
	}

	candidates, err := a.repo.ListCandidates(ctx, electionID, true)
	if err != nil {
		return models.ResultsView{}, err
	}

	return models.ResultsView{
		Election:    e.Summary(),
		Candidates:  RankCandidates(candidates, e.TotalVotesCast),
		LastUpdated: a.now().UTC(),
	}, nil
}

// Stats returns the admin statistics view: turnout, per-candidate tallies,
// party totals, verification counts and the hour-of-day timeline.
func (a *Aggregator) Stats(ctx context.Context, electionID string) (models.VotingStats, error) {
	e, err := a.election(ctx, electionID)
	if err != nil {
		return models.VotingStats{}, err
	}

	candidates, err := a.repo.ListCandidates(ctx, electionID, true)
	if err != nil {
		return models.VotingStats{}, err
	}

	verified, unverified, err := a.repo.CountVerification(ctx, electionID)
	if err != nil {
		return models.VotingStats{}, err
	}

	times, err := a.repo.VoteTimes(ctx, electionID)
	if err != nil {
		return models.VotingStats{}, err
	}

	return models.VotingStats{
		Election:          e.Summary(),
		TotalVoters:       e.TotalVoters,
		TotalVotesCast:    e.TotalVotesCast,
		TurnoutPercentage: Percentage(e.TotalVotesCast, e.TotalVoters),
		VerifiedVotes:     verified,
		UnverifiedVotes:   unverified,
		Candidates:        RankCandidates(candidates, e.TotalVotesCast),
		Parties:           PartyTallies(candidates),
		Timeline:          HourlyCounts(times),
	}, nil
}

// Timeline returns vote counts bucketed by UTC date and hour
func (a *Aggregator) Timeline(ctx context.Context, electionID string) ([]models.TimelineBucket, error) {
	if _, err := a.election(ctx, electionID); err != nil {
		return nil, err
	}

	times, err := a.repo.VoteTimes(ctx, electionID)
	if err != nil {
		return nil, err
	}
	return DateHourBuckets(times), nil
}

func (a *Aggregator) election(ctx context.Context, id string) (models.Election, error) {
	e, err := a.repo.GetElection(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return models.Election{}, ErrElectionNotFound
	}
	return e, err
}

// RankCandidates orders candidates by vote count descending. Ties go to the
// earlier-created candidate, then the lower id.
func RankCandidates(candidates []models.Candidate, totalVotes int) []models.CandidateResult {
	sorted := slices.Clone(candidates)
	slices.SortStableFunc(sorted, func(a, b models.Candidate) int {
		if c := cmp.Compare(b.VoteCount, a.VoteCount); c != 0 {
			return c
		}
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	results := make([]models.CandidateResult, len(sorted))
	for i, c := range sorted {
		results[i] = models.CandidateResult{
			CandidateID:    c.ID,
			Name:           c.Name,
			Party:          c.Party,
			VoteCount:      c.VoteCount,
			VotePercentage: Percentage(c.VoteCount, totalVotes),
			Rank:           i + 1,
		}
	}
	return results
}

// Percentage formats part/whole*100 with two decimals, "0.00" when whole is zero
func Percentage[T constraints.Integer](part, whole T) string {
	if whole <= 0 {
		return "0.00"
	}
	return fmt.Sprintf("%.2f", float64(part)/float64(whole)*100)
}

// PartyTallies sums candidate votes per party, most votes first
func PartyTallies(candidates []models.Candidate) []models.PartyTally {
	index := make(map[string]int)
	tallies := []models.PartyTally{}
	for _, c := range candidates {
		party := c.Party
		if party == "" {
			party = models.PartyIndependent
		}
		i, ok := index[party]
		if !ok {
			i = len(tallies)
			index[party] = i
			tallies = append(tallies, models.PartyTally{Party: party})
		}
		tallies[i].Count++
		tallies[i].VoteCount += c.VoteCount
	}

	slices.SortFunc(tallies, func(a, b models.PartyTally) int {
		if c := cmp.Compare(b.VoteCount, a.VoteCount); c != 0 {
			return c
		}
		return cmp.Compare(a.Party, b.Party)
	})
	return tallies
}

// HourlyCounts buckets vote times by UTC hour of day. Hours without votes
// are omitted.
func HourlyCounts(times []time.Time) []models.HourCount {
	var counts [24]int
	for _, t := range times {
		counts[t.UTC().Hour()]++
	}

	out := []models.HourCount{}
	for hour, n := range counts {
		if n > 0 {
			out = append(out, models.HourCount{Hour: hour, VoteCount: n})
		}
	}
	return out
}

// DateHourBuckets buckets vote times by UTC date and hour, ascending
func DateHourBuckets(times []time.Time) []models.TimelineBucket {
	type key struct {
		date string
		hour int
	}

	counts := make(map[key]int)
	for _, t := range times {
		t = t.UTC()
		counts[key{t.Format(time.DateOnly), t.Hour()}]++
	}

	out := make([]models.TimelineBucket, 0, len(counts))
	for k, n := range counts {
		out = append(out, models.TimelineBucket{Date: k.date, Hour: k.hour, VoteCount: n})
	}
	slices.SortFunc(out, func(a, b models.TimelineBucket) int {
		if c := cmp.Compare(a.Date, b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.Hour, b.Hour)
	})
	return out
}
