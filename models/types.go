package models

import "time"

// Election status constants
const (
	StatusUpcoming = "upcoming"
	StatusActive   = "active"
	StatusEnded    = "ended"
)

// Election type constants
const (
	TypeGeneral = "general"
	TypeLocal   = "local"
	TypeSpecial = "special"
)

// Identity roles
const (
	RoleVoter = "voter"
	RoleAdmin = "admin"
)

// PartyIndependent labels candidates without a party in party tallies
const PartyIndependent = "Independent"

// Domain types

type Election struct {
	ID                         string    `json:"id"`
	Title                      string    `json:"title"`
	Description                string    `json:"description"`
	Type                       string    `json:"type"`
	Status                     string    `json:"status"`
	StartTime                  time.Time `json:"start_time"`
	EndTime                    time.Time `json:"end_time"`
	MaxVotesPerVoter           int       `json:"max_votes_per_voter"`
	AllowCandidateRegistration bool      `json:"allow_candidate_registration"`
	ShowRealTimeResults        bool      `json:"show_real_time_results"`
	TotalVotesCast             int       `json:"total_votes_cast"`
	TotalVoters                int       `json:"total_voters"`
	CreatedAt                  time.Time `json:"created_at"`
}

type Candidate struct {
	ID          string    `json:"id"`
	ElectionID  string    `json:"election_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Party       string    `json:"party"`
	Platform    string    `json:"platform"`
	PhotoURL    string    `json:"photo_url"`
	VoteCount   int       `json:"vote_count"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

type Vote struct {
	ID          string    `json:"id"`
	ElectionID  string    `json:"election_id"`
	CandidateID string    `json:"candidate_id"`
	UserID      string    `json:"user_id"`
	VotedAt     time.Time `json:"voted_at"`
	IPAddress   string    `json:"ip_address"`
	UserAgent   string    `json:"user_agent"`
	IsVerified  bool      `json:"is_verified"`
}

// Request types

type CreateElectionRequest struct {
	Title                      string    `json:"title"`
	Description                string    `json:"description"`
	Type                       string    `json:"type"`
	StartTime                  time.Time `json:"start_time"`
	EndTime                    time.Time `json:"end_time"`
	MaxVotesPerVoter           int       `json:"max_votes_per_voter"`
	AllowCandidateRegistration bool      `json:"allow_candidate_registration"`
	ShowRealTimeResults        *bool     `json:"show_real_time_results"` // nil means true
	TotalVoters                int       `json:"total_voters"`
}

// Nil fields are left unchanged
type UpdateElectionRequest struct {
	Title                      *string    `json:"title"`
	Description                *string    `json:"description"`
	Type                       *string    `json:"type"`
	StartTime                  *time.Time `json:"start_time"`
	EndTime                    *time.Time `json:"end_time"`
	MaxVotesPerVoter           *int       `json:"max_votes_per_voter"`
	AllowCandidateRegistration *bool      `json:"allow_candidate_registration"`
	ShowRealTimeResults        *bool      `json:"show_real_time_results"`
	TotalVoters                *int       `json:"total_voters"`
}

type TransitionRequest struct {
	Status string `json:"status"`
}

type CreateCandidateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Party       string `json:"party"`
	Platform    string `json:"platform"`
	PhotoURL    string `json:"photo_url"`
}

// Nil fields are left unchanged
type UpdateCandidateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Party       *string `json:"party"`
	Platform    *string `json:"platform"`
	PhotoURL    *string `json:"photo_url"`
	IsActive    *bool   `json:"is_active"`
}

type CastVoteRequest struct {
	ElectionID  string `json:"election_id"`
	CandidateID string `json:"candidate_id"`
}

type VerifyVoteRequest struct {
	IsVerified bool `json:"is_verified"`
}

// Response types

type CastVoteResponse struct {
	VoteID      string    `json:"vote_id"`
	ElectionID  string    `json:"election_id"`
	CandidateID string    `json:"candidate_id"`
	VotedAt     time.Time `json:"voted_at"`
	Message     string    `json:"message"`
}

type VoteStatusResponse struct {
	ElectionID string     `json:"election_id"`
	HasVoted   bool       `json:"has_voted"`
	VoteID     string     `json:"vote_id,omitempty"`
	VotedAt    *time.Time `json:"voted_at,omitempty"`
}

type ElectionVotesResponse struct {
	Election ElectionSummary `json:"election"`
	Votes    []VoteDetail    `json:"votes"`
	Count    int             `json:"count"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// View types

type ElectionSummary struct {
	ID                  string `json:"id"`
	Title               string `json:"title"`
	Type                string `json:"type,omitempty"`
	Status              string `json:"status"`
	TotalVotesCast      int    `json:"total_votes_cast"`
	TotalVoters         int    `json:"total_voters"`
	ShowRealTimeResults bool   `json:"show_real_time_results"`
}

type CandidateResult struct {
	CandidateID    string `json:"candidate_id"`
	Name           string `json:"name"`
	Party          string `json:"party"`
	VoteCount      int    `json:"vote_count"`
	VotePercentage string `json:"vote_percentage"`
	Rank           int    `json:"rank"` // 1-indexed ranking
}

type ResultsView struct {
	Election    ElectionSummary   `json:"election"`
	Candidates  []CandidateResult `json:"candidates"`
	LastUpdated time.Time         `json:"last_updated"`
}

type HourCount struct {
	Hour      int `json:"hour"`
	VoteCount int `json:"vote_count"`
}

type TimelineBucket struct {
	Date      string `json:"date"` // YYYY-MM-DD, UTC
	Hour      int    `json:"hour"`
	VoteCount int    `json:"vote_count"`
}

type PartyTally struct {
	Party     string `json:"party"`
	Count     int    `json:"candidate_count"`
	VoteCount int    `json:"vote_count"`
}

type VotingStats struct {
	Election          ElectionSummary   `json:"election"`
	TotalVoters       int               `json:"total_voters"`
	TotalVotesCast    int               `json:"total_votes_cast"`
	TurnoutPercentage string            `json:"turnout_percentage"`
	VerifiedVotes     int               `json:"verified_votes"`
	UnverifiedVotes   int               `json:"unverified_votes"`
	Candidates        []CandidateResult `json:"candidates"`
	Parties           []PartyTally      `json:"parties"`
	Timeline          []HourCount       `json:"timeline"`
}

type VoteDetail struct {
	Vote      Vote            `json:"vote"`
	Candidate CandidateBrief  `json:"candidate"`
	Election  ElectionSummary `json:"election"`
}

type CandidateBrief struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Party string `json:"party"`
}

// CounterDrift reports a denormalized counter that disagrees with the ledger.
// CandidateID is empty for the election total.
type CounterDrift struct {
	ElectionID  string `json:"election_id"`
	CandidateID string `json:"candidate_id,omitempty"`
	Stored      int    `json:"stored"`
	Ledger      int    `json:"ledger"`
}

type AuditResponse struct {
	ElectionID string         `json:"election_id"`
	Consistent bool           `json:"consistent"`
	Drift      []CounterDrift `json:"drift"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// Summary projects the fields of an election shown alongside tallies
func (e Election) Summary() ElectionSummary {
	return ElectionSummary{
		ID:                  e.ID,
		Title:               e.Title,
		Type:                e.Type,
		Status:              e.Status,
		TotalVotesCast:      e.TotalVotesCast,
		TotalVoters:         e.TotalVoters,
		ShowRealTimeResults: e.ShowRealTimeResults,
	}
}
