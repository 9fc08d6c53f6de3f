// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"testing"
	"time"

	"github.com/danielhkuo/quickly-elect/models"
)

func TestPercentage(t *testing.T) {
	tests := []struct {
		part, whole int
		want        string
	}{
		{11, 16, "68.75"},
		{5, 16, "31.25"},
		{1, 3, "33.33"},
		{2, 3, "66.67"},
		{0, 10, "0.00"},
		{3, 0, "0.00"},
		{10, 10, "100.00"},
	}

	for _, tt := range tests {
		if got := Percentage(tt.part, tt.whole); got != tt.want {
			t.Errorf("Percentage(%d, %d) = %s, want %s", tt.part, tt.whole, got, tt.want)
		}
	}

	if got := Percentage[int64](1, 8); got != "12.50" {
		t.Errorf("Percentage[int64](1, 8) = %s, want 12.50", got)
	}
}

func TestRankCandidates(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	candidates := []models.Candidate{
		{ID: "c-late", Name: "Late", VoteCount: 5, CreatedAt: base.Add(2 * time.Hour)},
		{ID: "c-top", Name: "Top", VoteCount: 9, CreatedAt: base.Add(3 * time.Hour)},
		{ID: "c-early", Name: "Early", VoteCount: 5, CreatedAt: base},
		{ID: "c-b", Name: "B", VoteCount: 1, CreatedAt: base},
		{ID: "c-a", Name: "A", VoteCount: 1, CreatedAt: base},
	}

	results := RankCandidates(candidates, 21)

	wantOrder := []string{"c-top", "c-early", "c-late", "c-a", "c-b"}
	for i, id := range wantOrder {
		if results[i].CandidateID != id {
			t.Errorf("rank %d = %s, want %s", i+1, results[i].CandidateID, id)
		}
		if results[i].Rank != i+1 {
			t.Errorf("%s rank = %d, want %d", id, results[i].Rank, i+1)
		}
	}
	if results[0].VotePercentage != "42.86" {
		t.Errorf("top percentage = %s, want 42.86", results[0].VotePercentage)
	}

	// Input order is left alone
	if candidates[0].ID != "c-late" {
		t.Error("RankCandidates() reordered its input")
	}

	if got := RankCandidates(nil, 0); len(got) != 0 {
		t.Errorf("RankCandidates(nil) = %v, want empty", got)
	}
}

func TestResultsVisible(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		realtime bool
		admin    bool
		want     bool
	}{
		{"active hidden public", models.StatusActive, false, false, false},
		{"active hidden admin", models.StatusActive, false, true, true},
		{"active realtime public", models.StatusActive, true, false, true},
		{"upcoming hidden public", models.StatusUpcoming, false, false, false},
		{"ended public", models.StatusEnded, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := models.Election{Status: tt.status, ShowRealTimeResults: tt.realtime}
			if got := ResultsVisible(e, tt.admin); got != tt.want {
				t.Errorf("ResultsVisible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPartyTallies(t *testing.T) {
	candidates := []models.Candidate{
		{Name: "A", Party: "Blue", VoteCount: 4},
		{Name: "B", Party: "", VoteCount: 3},
		{Name: "C", Party: "Blue", VoteCount: 2},
		{Name: "D", Party: "Green", VoteCount: 3},
		{Name: "E", Party: "", VoteCount: 0},
	}

	got := PartyTallies(candidates)
	want := []models.PartyTally{
		{Party: "Blue", Count: 2, VoteCount: 6},
		{Party: "Green", Count: 1, VoteCount: 3},
		{Party: models.PartyIndependent, Count: 2, VoteCount: 3},
	}

	if len(got) != len(want) {
		t.Fatalf("PartyTallies() = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tally %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestHourlyCounts(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	times := []time.Time{
		time.Date(2025, 6, 1, 9, 15, 0, 0, time.UTC),
		time.Date(2025, 6, 2, 9, 45, 0, 0, time.UTC),
		time.Date(2025, 6, 1, 4, 0, 0, 0, est), // 09:00 UTC
		time.Date(2025, 6, 1, 23, 59, 0, 0, time.UTC),
	}

	got := HourlyCounts(times)
	want := []models.HourCount{{Hour: 9, VoteCount: 3}, {Hour: 23, VoteCount: 1}}

	if len(got) != len(want) {
		t.Fatalf("HourlyCounts() = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("bucket %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	if got := HourlyCounts(nil); len(got) != 0 {
		t.Errorf("HourlyCounts(nil) = %+v, want empty", got)
	}
}

func TestDateHourBuckets(t *testing.T) {
	times := []time.Time{
		time.Date(2025, 6, 2, 1, 5, 0, 0, time.UTC),
		time.Date(2025, 6, 1, 23, 10, 0, 0, time.UTC),
		time.Date(2025, 6, 1, 23, 50, 0, 0, time.UTC),
		time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC),
	}

	got := DateHourBuckets(times)
	want := []models.TimelineBucket{
		{Date: "2025-06-01", Hour: 8, VoteCount: 1},
		{Date: "2025-06-01", Hour: 23, VoteCount: 2},
		{Date: "2025-06-02", Hour: 1, VoteCount: 1},
	}

	if len(got) != len(want) {
		t.Fatalf("DateHourBuckets() = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("bucket %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
