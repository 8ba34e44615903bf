package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/preethiayinampudi/LexiGuard/internal/analysis"
	"github.com/preethiayinampudi/LexiGuard/internal/app"
	"github.com/preethiayinampudi/LexiGuard/internal/history"
	"github.com/preethiayinampudi/LexiGuard/internal/types"
)

type analyzeResponse struct {
	Analysis types.AnalysisResult `json:"analysis"`
	History  []types.HistoryItem  `json:"history"`
}

// Analyze handles POST /api/analyze: one submission through the full
// lifecycle, returning the result and the refreshed history on success.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var in types.DocumentInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	res, err := h.app.Submit(r.Context(), in)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, analyzeResponse{Analysis: res, History: h.app.History()})
	case errors.Is(err, analysis.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, app.ErrSubmissionInFlight):
		writeError(w, http.StatusConflict, "busy", err.Error())
	default:
		// Analysis failure: the message carries the underlying cause text.
		writeError(w, http.StatusBadGateway, "analysis_failed", h.app.ErrorMessage())
	}
}

// History handles GET /api/history.
func (h *Handler) History(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"items": h.app.History()})
}

// HistoryItem handles GET /api/history/{id}: restores a past analysis into
// the active document context without a remote call.
func (h *Handler) HistoryItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.app.SelectHistory(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, history.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// ResetHistory handles DELETE /api/history: whole-store reset.
func (h *Handler) ResetHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.app.ResetHistory(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Profile handles GET /api/profile: the usage counter derived from history.
func (h *Handler) Profile(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.app.Profile())
}
