// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/quickly-elect/middleware"
	"github.com/danielhkuo/quickly-elect/models"
	"github.com/danielhkuo/quickly-elect/store"
	"github.com/danielhkuo/quickly-elect/voting"
)

type VotingHandler struct {
	svc *voting.Service
}

func NewVotingHandler(db *sql.DB) *VotingHandler {
	return &VotingHandler{svc: voting.NewService(store.New(db))}
}

// CastVote handles POST /votes/cast
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Access denied. No token provided.")
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		middleware.BodyErrorResponse(w, err)
		return
	}

	vote, err := h.svc.CastVote(r.Context(), voting.Ballot{
		UserID:      id.UserID,
		ElectionID:  req.ElectionID,
		CandidateID: req.CandidateID,
		IPAddress:   middleware.GetClientIP(r),
		UserAgent:   r.UserAgent(),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{
		VoteID:      vote.ID,
		ElectionID:  vote.ElectionID,
		CandidateID: vote.CandidateID,
		VotedAt:     vote.VotedAt,
		Message:     "Vote cast successfully",
	})
}

// CheckVote handles GET /votes/check/{electionId}
func (h *VotingHandler) CheckVote(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Access denied. No token provided.")
		return
	}

	electionID := r.PathValue("electionId")
	vote, voted, err := h.svc.HasVoted(r.Context(), id.UserID, electionID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := models.VoteStatusResponse{ElectionID: electionID, HasVoted: voted}
	if voted {
		resp.VoteID = vote.ID
		resp.VotedAt = &vote.VotedAt
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}
