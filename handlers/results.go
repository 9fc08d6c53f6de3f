// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/quickly-elect/middleware"
	"github.com/danielhkuo/quickly-elect/store"
	"github.com/danielhkuo/quickly-elect/voting"
)

type ResultsHandler struct {
	agg *voting.Aggregator
}

func NewResultsHandler(db *sql.DB) *ResultsHandler {
	return &ResultsHandler{agg: voting.NewAggregator(store.New(db))}
}

// electionID reads the election path parameter under either route naming
func electionID(r *http.Request) string {
	if id := r.PathValue("electionId"); id != "" {
		return id
	}
	return r.PathValue("id")
}

// GetResults handles GET /elections/{id}/results and
// GET /votes/results/{electionId}/realtime.
// Hidden results are only returned to admins.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFrom(r.Context())

	view, err := h.agg.Results(r.Context(), electionID(r), id.IsAdmin())
	if err != nil {
		writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, view)
}

// GetStats handles GET /votes/stats/{electionId}
func (h *ResultsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.agg.Stats(r.Context(), electionID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, stats)
}

// GetTimeline handles GET /votes/timeline/{electionId}
func (h *ResultsHandler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	timeline, err := h.agg.Timeline(r.Context(), electionID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, timeline)
}
