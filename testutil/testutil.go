// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-elect/auth"
	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/db"
	"github.com/danielhkuo/quickly-elect/middleware"
	"github.com/danielhkuo/quickly-elect/models"
	"github.com/danielhkuo/quickly-elect/store"
)

// TestDBURL is an in-memory SQLite database, fresh per connection pool
const TestDBURL = ":memory:"

// TestTokenSecret signs identity tokens in tests
const TestTokenSecret = "test-token-secret"

// SetupTestDB creates a fresh test database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, TestDBURL)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.CreateSchema(conn); err != nil {
		conn.Close()
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  TestDBURL,
		DatabaseType: db.TypeSQLite,
		TokenSecret:  TestTokenSecret,
	}
}

// ElectionOptions tweaks a test election
type ElectionOptions struct {
	Status              string
	StartTime           time.Time
	EndTime             time.Time
	ShowRealTimeResults bool
	TotalVoters         int
}

// CreateTestElection inserts an election and returns it. By default it is
// active with a window of an hour either side of now.
func CreateTestElection(t *testing.T, conn *sql.DB, opts ElectionOptions) models.Election {
	t.Helper()

	now := time.Now().UTC()
	e := models.Election{
		ID:                  uuid.NewString(),
		Title:               "Test Election",
		Description:         "A test election",
		Type:                models.TypeGeneral,
		Status:              opts.Status,
		StartTime:           opts.StartTime,
		EndTime:             opts.EndTime,
		MaxVotesPerVoter:    1,
		ShowRealTimeResults: opts.ShowRealTimeResults,
		TotalVoters:         opts.TotalVoters,
		CreatedAt:           now,
	}
	if e.Status == "" {
		e.Status = models.StatusActive
	}
	if e.StartTime.IsZero() {
		e.StartTime = now.Add(-time.Hour)
	}
	if e.EndTime.IsZero() {
		e.EndTime = now.Add(time.Hour)
	}

	if err := store.New(conn).CreateElection(context.Background(), e); err != nil {
		t.Fatalf("Failed to create test election: %v", err)
	}
	return e
}

// AddTestCandidate adds an active candidate and seeds its vote count. The
// election total is raised by the same amount so the counters stay
// consistent with each other, though not with the ledger.
func AddTestCandidate(t *testing.T, conn *sql.DB, electionID, name, party string, votes int) models.Candidate {
	t.Helper()

	c := models.Candidate{
		ID:         uuid.NewString(),
		ElectionID: electionID,
		Name:       name,
		Party:      party,
		VoteCount:  votes,
		IsActive:   true,
		CreatedAt:  time.Now().UTC(),
	}

	_, err := conn.Exec(`
		INSERT INTO candidate (id, election_id, name, description, party, platform,
			photo_url, vote_count, is_active, created_at)
		VALUES ($1, $2, $3, '', $4, '', '', $5, $6, $7)
	`, c.ID, c.ElectionID, c.Name, c.Party, c.VoteCount, c.IsActive, c.CreatedAt)
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}

	if votes > 0 {
		_, err = conn.Exec(`
			UPDATE election SET total_votes_cast = total_votes_cast + $1 WHERE id = $2
		`, votes, electionID)
		if err != nil {
			t.Fatalf("Failed to seed election total: %v", err)
		}
	}

	return c
}

// CastTestVote records a vote through the store so counters move with it
func CastTestVote(t *testing.T, conn *sql.DB, electionID, candidateID, userID string) models.Vote {
	t.Helper()

	v := models.Vote{
		ID:          uuid.NewString(),
		ElectionID:  electionID,
		CandidateID: candidateID,
		UserID:      userID,
		VotedAt:     time.Now().UTC(),
		IsVerified:  true,
	}
	if err := store.New(conn).ApplyVote(context.Background(), v); err != nil {
		t.Fatalf("Failed to cast test vote: %v", err)
	}
	return v
}

// Token returns a bearer token for the given user and role
func Token(t *testing.T, userID, role string) string {
	t.Helper()

	token, err := auth.IssueToken(auth.Identity{UserID: userID, Role: role}, TestTokenSecret, time.Hour, time.Now())
	if err != nil {
		t.Fatalf("Failed to issue test token: %v", err)
	}
	return token
}

// AuthHeader returns the Authorization header for the given user and role
func AuthHeader(t *testing.T, userID, role string) map[string]string {
	t.Helper()
	return map[string]string{"Authorization": "Bearer " + Token(t, userID, role)}
}

// WithIdentity attaches an identity to the request as the identity
// middleware would
func WithIdentity(req *http.Request, userID, role string) *http.Request {
	ctx := middleware.ContextWithIdentity(req.Context(), auth.Identity{UserID: userID, Role: role})
	return req.WithContext(ctx)
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// AssertCode checks the machine-readable code of an error response
func AssertCode(t *testing.T, w *httptest.ResponseRecorder, code string) {
	t.Helper()
	var resp models.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if resp.Code != code {
		t.Errorf("Expected code %s, got %q (%s)", code, resp.Code, resp.Message)
	}
}

// Counters reads the stored counters of an election and one candidate
func Counters(t *testing.T, conn *sql.DB, electionID, candidateID string) (total, candidate int) {
	t.Helper()
	if err := conn.QueryRow(`SELECT total_votes_cast FROM election WHERE id = $1`, electionID).Scan(&total); err != nil {
		t.Fatalf("Failed to read election total: %v", err)
	}
	if err := conn.QueryRow(`SELECT vote_count FROM candidate WHERE id = $1`, candidateID).Scan(&candidate); err != nil {
		t.Fatalf("Failed to read candidate count: %v", err)
	}
	return total, candidate
}
