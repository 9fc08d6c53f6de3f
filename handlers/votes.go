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

// VoteAdminHandler serves the admin-only ledger operations
type VoteAdminHandler struct {
	svc *voting.Service
}

func NewVoteAdminHandler(db *sql.DB) *VoteAdminHandler {
	return &VoteAdminHandler{svc: voting.NewService(store.New(db))}
}

// ListElectionVotes handles GET /votes/election/{electionId}
func (h *VoteAdminHandler) ListElectionVotes(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.ElectionVotes(r.Context(), r.PathValue("electionId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// GetVote handles GET /votes/{voteId}
func (h *VoteAdminHandler) GetVote(w http.ResponseWriter, r *http.Request) {
	detail, err := h.svc.VoteDetail(r.Context(), r.PathValue("voteId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, detail)
}

// VerifyVote handles PATCH /votes/{voteId}/verify
func (h *VoteAdminHandler) VerifyVote(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyVoteRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		middleware.BodyErrorResponse(w, err)
		return
	}

	if err := h.svc.SetVoteVerified(r.Context(), r.PathValue("voteId"), req.IsVerified); err != nil {
		writeError(w, r, err)
		return
	}

	msg := "Vote verified successfully"
	if !req.IsVerified {
		msg = "Vote marked as unverified"
	}
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: msg})
}

// DeleteVote handles DELETE /votes/{voteId}
func (h *VoteAdminHandler) DeleteVote(w http.ResponseWriter, r *http.Request) {
	if _, err := h.svc.DeleteVote(r.Context(), r.PathValue("voteId")); err != nil {
		writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Vote deleted successfully"})
}
