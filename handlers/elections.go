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

type ElectionHandler struct {
	catalog   *voting.Catalog
	lifecycle *voting.Lifecycle
	votes     *voting.Service
}

func NewElectionHandler(db *sql.DB) *ElectionHandler {
	s := store.New(db)
	return &ElectionHandler{
		catalog:   voting.NewCatalog(s),
		lifecycle: voting.NewLifecycle(s),
		votes:     voting.NewService(s),
	}
}

// ListElections handles GET /elections?status=
func (h *ElectionHandler) ListElections(w http.ResponseWriter, r *http.Request) {
	elections, err := h.catalog.ListElections(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, elections)
}

// GetElection handles GET /elections/{id}
func (h *ElectionHandler) GetElection(w http.ResponseWriter, r *http.Request) {
	e, err := h.catalog.GetElection(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, e)
}

// CreateElection handles POST /elections
func (h *ElectionHandler) CreateElection(w http.ResponseWriter, r *http.Request) {
	var req models.CreateElectionRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		middleware.BodyErrorResponse(w, err)
		return
	}

	e, err := h.catalog.CreateElection(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, e)
}

// UpdateElection handles PUT /elections/{id}
func (h *ElectionHandler) UpdateElection(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateElectionRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		middleware.BodyErrorResponse(w, err)
		return
	}

	e, err := h.catalog.UpdateElection(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, e)
}

// DeleteElection handles DELETE /elections/{id}
func (h *ElectionHandler) DeleteElection(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteElection(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Election deleted successfully"})
}

// TransitionElection handles POST /elections/{id}/status
func (h *ElectionHandler) TransitionElection(w http.ResponseWriter, r *http.Request) {
	var req models.TransitionRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		middleware.BodyErrorResponse(w, err)
		return
	}

	e, err := h.lifecycle.Transition(r.Context(), r.PathValue("id"), req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, e)
}

// AuditCounters handles GET /elections/{id}/audit
func (h *ElectionHandler) AuditCounters(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	drift, err := h.votes.AuditCounters(r.Context(), electionID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.AuditResponse{
		ElectionID: electionID,
		Consistent: len(drift) == 0,
		Drift:      drift,
	})
}

// ReconcileCounters handles POST /elections/{id}/reconcile
// Counters match the ledger afterwards; Drift lists what was corrected
func (h *ElectionHandler) ReconcileCounters(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	drift, err := h.votes.ReconcileCounters(r.Context(), electionID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.AuditResponse{
		ElectionID: electionID,
		Consistent: true,
		Drift:      drift,
	})
}
