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

type CandidateHandler struct {
	catalog *voting.Catalog
}

func NewCandidateHandler(db *sql.DB) *CandidateHandler {
	return &CandidateHandler{catalog: voting.NewCatalog(store.New(db))}
}

// ListCandidates handles GET /elections/{id}/candidates
// Inactive candidates are included only for admins passing ?all=true
func (h *CandidateHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	all := r.URL.Query().Get("all") == "true"
	if all {
		id, _ := middleware.IdentityFrom(r.Context())
		if !id.IsAdmin() {
			middleware.ErrorResponse(w, http.StatusForbidden, "Access denied. Admin privileges required.")
			return
		}
	}

	candidates, err := h.catalog.ListCandidates(r.Context(), r.PathValue("id"), all)
	if err != nil {
		writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, candidates)
}

// CreateCandidate handles POST /elections/{id}/candidates
func (h *CandidateHandler) CreateCandidate(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCandidateRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		middleware.BodyErrorResponse(w, err)
		return
	}

	c, err := h.catalog.CreateCandidate(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, c)
}

// GetCandidate handles GET /candidates/{id}
func (h *CandidateHandler) GetCandidate(w http.ResponseWriter, r *http.Request) {
	c, err := h.catalog.GetCandidate(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, c)
}

// UpdateCandidate handles PUT /candidates/{id}
func (h *CandidateHandler) UpdateCandidate(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateCandidateRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		middleware.BodyErrorResponse(w, err)
		return
	}

	c, err := h.catalog.UpdateCandidate(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, c)
}

// DeleteCandidate handles DELETE /candidates/{id}
func (h *CandidateHandler) DeleteCandidate(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteCandidate(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Candidate deleted successfully"})
}
