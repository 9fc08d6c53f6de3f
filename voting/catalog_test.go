// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-elect/models"
	"github.com/danielhkuo/quickly-elect/store"
	"github.com/danielhkuo/quickly-elect/testutil"
)

var catalogNow = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestCatalog(t *testing.T) (*Catalog, *store.Store) {
	t.Helper()
	conn := testutil.SetupTestDB(t)
	t.Cleanup(func() { conn.Close() })
	s := store.New(conn)
	return NewCatalog(s).WithClock(func() time.Time { return catalogNow }), s
}

func upcomingRequest() models.CreateElectionRequest {
	return models.CreateElectionRequest{
		Title:     "City Council",
		StartTime: catalogNow.Add(24 * time.Hour),
		EndTime:   catalogNow.Add(48 * time.Hour),
	}
}

func TestCreateElection(t *testing.T) {
	cat, _ := newTestCatalog(t)
	ctx := context.Background()

	e, err := cat.CreateElection(ctx, upcomingRequest())
	if err != nil {
		t.Fatalf("CreateElection() error = %v", err)
	}
	if e.Status != models.StatusUpcoming || e.Type != models.TypeGeneral || e.MaxVotesPerVoter != 1 {
		t.Errorf("unexpected defaults: %+v", e)
	}

	got, err := cat.GetElection(ctx, e.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "City Council" || got.TotalVotesCast != 0 {
		t.Errorf("stored election = %+v", got)
	}

	// A window already open starts active
	req := upcomingRequest()
	req.StartTime = catalogNow
	running, err := cat.CreateElection(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	if running.Status != models.StatusActive {
		t.Errorf("status = %s, want active", running.Status)
	}
}

func TestCreateElectionRealTimeResults(t *testing.T) {
	cat, s := newTestCatalog(t)
	ctx := context.Background()
	sealed := false

	tests := []struct {
		name     string
		setting  *bool
		want     bool
		visible  bool
	}{
		{"omitted shows results", nil, true, true},
		{"explicitly sealed", &sealed, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := upcomingRequest()
			req.StartTime = catalogNow.Add(-time.Hour)
			req.ShowRealTimeResults = tt.setting

			e, err := cat.CreateElection(ctx, req)
			if err != nil {
				t.Fatal(err)
			}
			stored, err := cat.GetElection(ctx, e.ID)
			if err != nil {
				t.Fatal(err)
			}
			if stored.ShowRealTimeResults != tt.want {
				t.Errorf("show_real_time_results = %v, want %v", stored.ShowRealTimeResults, tt.want)
			}

			_, err = NewAggregator(s).Results(ctx, e.ID, false)
			if visible := err == nil; visible != tt.visible {
				t.Errorf("public Results() error = %v, want visible %v", err, tt.visible)
			}
		})
	}
}

func TestCreateElectionValidation(t *testing.T) {
	cat, _ := newTestCatalog(t)

	tests := []struct {
		name   string
		modify func(*models.CreateElectionRequest)
	}{
		{"blank title", func(r *models.CreateElectionRequest) { r.Title = "   " }},
		{"unknown type", func(r *models.CreateElectionRequest) { r.Type = "national" }},
		{"missing start", func(r *models.CreateElectionRequest) { r.StartTime = time.Time{} }},
		{"end before start", func(r *models.CreateElectionRequest) { r.EndTime = r.StartTime.Add(-time.Hour) }},
		{"end equals start", func(r *models.CreateElectionRequest) { r.EndTime = r.StartTime }},
		{"negative max votes", func(r *models.CreateElectionRequest) { r.MaxVotesPerVoter = -1 }},
		{"negative voters", func(r *models.CreateElectionRequest) { r.TotalVoters = -5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := upcomingRequest()
			tt.modify(&req)

			_, err := cat.CreateElection(context.Background(), req)
			rej, ok := AsRejection(err)
			if !ok || rej.Kind != KindValidation {
				t.Errorf("CreateElection() error = %v, want validation rejection", err)
			}
		})
	}
}

func TestListElectionsFilter(t *testing.T) {
	cat, _ := newTestCatalog(t)
	ctx := context.Background()

	if _, err := cat.CreateElection(ctx, upcomingRequest()); err != nil {
		t.Fatal(err)
	}

	upcoming, err := cat.ListElections(ctx, models.StatusUpcoming)
	if err != nil || len(upcoming) != 1 {
		t.Errorf("ListElections(upcoming) = %d, %v", len(upcoming), err)
	}
	ended, err := cat.ListElections(ctx, models.StatusEnded)
	if err != nil || len(ended) != 0 {
		t.Errorf("ListElections(ended) = %d, %v", len(ended), err)
	}
	if _, err := cat.ListElections(ctx, "paused"); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestUpdateElection(t *testing.T) {
	cat, s := newTestCatalog(t)
	ctx := context.Background()

	e, err := cat.CreateElection(ctx, upcomingRequest())
	if err != nil {
		t.Fatal(err)
	}

	title := "County Council"
	realtime := true
	updated, err := cat.UpdateElection(ctx, e.ID, models.UpdateElectionRequest{Title: &title, ShowRealTimeResults: &realtime})
	if err != nil {
		t.Fatalf("UpdateElection() error = %v", err)
	}
	if updated.Title != title || !updated.ShowRealTimeResults || !updated.EndTime.Equal(e.EndTime) {
		t.Errorf("unexpected update: %+v", updated)
	}

	bad := e.StartTime.Add(-time.Hour)
	if _, err := cat.UpdateElection(ctx, e.ID, models.UpdateElectionRequest{EndTime: &bad}); err == nil {
		t.Error("expected validation error when end moves before start")
	}

	if _, err := cat.UpdateElection(ctx, "missing", models.UpdateElectionRequest{Title: &title}); !errors.Is(err, ErrElectionNotFound) {
		t.Errorf("UpdateElection(missing) error = %v, want ErrElectionNotFound", err)
	}

	if err := s.TransitionStatus(ctx, e.ID, models.StatusUpcoming, models.StatusActive); err != nil {
		t.Fatal(err)
	}
	if _, err := cat.UpdateElection(ctx, e.ID, models.UpdateElectionRequest{Title: &title}); !errors.Is(err, ErrElectionLocked) {
		t.Errorf("UpdateElection(active) error = %v, want ErrElectionLocked", err)
	}
	if err := cat.DeleteElection(ctx, e.ID); !errors.Is(err, ErrElectionLocked) {
		t.Errorf("DeleteElection(active) error = %v, want ErrElectionLocked", err)
	}
}

func TestDeleteElection(t *testing.T) {
	cat, _ := newTestCatalog(t)
	ctx := context.Background()

	e, err := cat.CreateElection(ctx, upcomingRequest())
	if err != nil {
		t.Fatal(err)
	}
	c, err := cat.CreateCandidate(ctx, e.ID, models.CreateCandidateRequest{Name: "Alice"})
	if err != nil {
		t.Fatal(err)
	}

	if err := cat.DeleteElection(ctx, e.ID); err != nil {
		t.Fatalf("DeleteElection() error = %v", err)
	}
	if _, err := cat.GetElection(ctx, e.ID); !errors.Is(err, ErrElectionNotFound) {
		t.Errorf("GetElection() after delete error = %v", err)
	}
	if _, err := cat.GetCandidate(ctx, c.ID); !errors.Is(err, ErrCandidateNotFound) {
		t.Errorf("candidate survived election delete: %v", err)
	}
	if err := cat.DeleteElection(ctx, e.ID); !errors.Is(err, ErrElectionNotFound) {
		t.Errorf("second DeleteElection() error = %v", err)
	}
}

func TestCandidateCatalog(t *testing.T) {
	cat, s := newTestCatalog(t)
	ctx := context.Background()

	e, err := cat.CreateElection(ctx, upcomingRequest())
	if err != nil {
		t.Fatal(err)
	}

	alice, err := cat.CreateCandidate(ctx, e.ID, models.CreateCandidateRequest{Name: " Alice ", Party: "Blue"})
	if err != nil {
		t.Fatalf("CreateCandidate() error = %v", err)
	}
	if alice.Name != "Alice" || !alice.IsActive || alice.VoteCount != 0 {
		t.Errorf("unexpected candidate %+v", alice)
	}

	if _, err := cat.CreateCandidate(ctx, e.ID, models.CreateCandidateRequest{Name: ""}); err == nil {
		t.Error("expected validation error for blank name")
	}
	if _, err := cat.CreateCandidate(ctx, e.ID, models.CreateCandidateRequest{Name: "Alice"}); !errors.Is(err, ErrDuplicateCandidate) {
		t.Errorf("duplicate CreateCandidate() error = %v, want ErrDuplicateCandidate", err)
	}
	if _, err := cat.CreateCandidate(ctx, "missing", models.CreateCandidateRequest{Name: "Bob"}); !errors.Is(err, ErrElectionNotFound) {
		t.Errorf("CreateCandidate(missing election) error = %v, want ErrElectionNotFound", err)
	}

	bob, err := cat.CreateCandidate(ctx, e.ID, models.CreateCandidateRequest{Name: "Bob"})
	if err != nil {
		t.Fatal(err)
	}

	inactive := false
	if _, err := cat.UpdateCandidate(ctx, bob.ID, models.UpdateCandidateRequest{IsActive: &inactive}); err != nil {
		t.Fatalf("UpdateCandidate() error = %v", err)
	}

	active, err := cat.ListCandidates(ctx, e.ID, false)
	if err != nil || len(active) != 1 || active[0].ID != alice.ID {
		t.Errorf("ListCandidates(active) = %+v, %v", active, err)
	}
	all, err := cat.ListCandidates(ctx, e.ID, true)
	if err != nil || len(all) != 2 {
		t.Errorf("ListCandidates(all) = %d, %v", len(all), err)
	}
	if _, err := cat.ListCandidates(ctx, "missing", true); !errors.Is(err, ErrElectionNotFound) {
		t.Errorf("ListCandidates(missing) error = %v", err)
	}

	rename := "Alice"
	if _, err := cat.UpdateCandidate(ctx, bob.ID, models.UpdateCandidateRequest{Name: &rename}); !errors.Is(err, ErrDuplicateCandidate) {
		t.Errorf("rename to taken name error = %v, want ErrDuplicateCandidate", err)
	}
	if _, err := cat.UpdateCandidate(ctx, "missing", models.UpdateCandidateRequest{Name: &rename}); !errors.Is(err, ErrCandidateNotFound) {
		t.Errorf("UpdateCandidate(missing) error = %v", err)
	}

	if err := cat.DeleteCandidate(ctx, bob.ID); err != nil {
		t.Fatalf("DeleteCandidate() error = %v", err)
	}
	if err := cat.DeleteCandidate(ctx, bob.ID); !errors.Is(err, ErrCandidateNotFound) {
		t.Errorf("second DeleteCandidate() error = %v", err)
	}

	// Candidates freeze once voting opens
	if err := s.TransitionStatus(ctx, e.ID, models.StatusUpcoming, models.StatusActive); err != nil {
		t.Fatal(err)
	}
	if _, err := cat.CreateCandidate(ctx, e.ID, models.CreateCandidateRequest{Name: "Carol"}); !errors.Is(err, ErrElectionLocked) {
		t.Errorf("CreateCandidate(active) error = %v, want ErrElectionLocked", err)
	}
	if err := cat.DeleteCandidate(ctx, alice.ID); !errors.Is(err, ErrElectionLocked) {
		t.Errorf("DeleteCandidate(active) error = %v, want ErrElectionLocked", err)
	}
}
