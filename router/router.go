// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/handlers"
	"github.com/danielhkuo/quickly-elect/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	electionHandler := handlers.NewElectionHandler(db)
	candidateHandler := handlers.NewCandidateHandler(db)
	votingHandler := handlers.NewVotingHandler(db)
	resultsHandler := handlers.NewResultsHandler(db)
	voteAdminHandler := handlers.NewVoteAdminHandler(db)

	secret := cfg.TokenSecret
	public := middleware.WithLogging
	optional := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.OptionalIdentity(secret, h))
	}
	voter := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireIdentity(secret, h))
	}
	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireAdmin(secret, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Elections
	mux.HandleFunc("GET /elections", public(electionHandler.ListElections))
	mux.HandleFunc("GET /elections/{id}", public(electionHandler.GetElection))
	mux.HandleFunc("POST /elections", admin(electionHandler.CreateElection))
	mux.HandleFunc("PUT /elections/{id}", admin(electionHandler.UpdateElection))
	mux.HandleFunc("DELETE /elections/{id}", admin(electionHandler.DeleteElection))
	mux.HandleFunc("POST /elections/{id}/status", admin(electionHandler.TransitionElection))
	mux.HandleFunc("GET /elections/{id}/audit", admin(electionHandler.AuditCounters))
	mux.HandleFunc("POST /elections/{id}/reconcile", admin(electionHandler.ReconcileCounters))
	mux.HandleFunc("GET /elections/{id}/results", optional(resultsHandler.GetResults))

	// Candidates
	mux.HandleFunc("GET /elections/{id}/candidates", optional(candidateHandler.ListCandidates))
	mux.HandleFunc("POST /elections/{id}/candidates", admin(candidateHandler.CreateCandidate))
	mux.HandleFunc("GET /candidates/{id}", public(candidateHandler.GetCandidate))
	mux.HandleFunc("PUT /candidates/{id}", admin(candidateHandler.UpdateCandidate))
	mux.HandleFunc("DELETE /candidates/{id}", admin(candidateHandler.DeleteCandidate))

	// Voting (any verified identity)
	mux.HandleFunc("POST /votes/cast", voter(votingHandler.CastVote))
	mux.HandleFunc("GET /votes/check/{electionId}", voter(votingHandler.CheckVote))
	mux.HandleFunc("GET /votes/results/{electionId}/realtime", voter(resultsHandler.GetResults))

	// Vote administration
	mux.HandleFunc("GET /votes/election/{electionId}", admin(voteAdminHandler.ListElectionVotes))
	mux.HandleFunc("GET /votes/stats/{electionId}", admin(resultsHandler.GetStats))
	mux.HandleFunc("GET /votes/timeline/{electionId}", admin(resultsHandler.GetTimeline))
	mux.HandleFunc("GET /votes/{voteId}", admin(voteAdminHandler.GetVote))
	mux.HandleFunc("PATCH /votes/{voteId}/verify", admin(voteAdminHandler.VerifyVote))
	mux.HandleFunc("DELETE /votes/{voteId}", admin(voteAdminHandler.DeleteVote))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-elect API v1"))
	})

	return mux
}
