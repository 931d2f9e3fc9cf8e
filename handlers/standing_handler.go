package handlers

import (
	"net/http"

	"github.com/Dosada05/league-system/services"
)

type StandingHandler struct {
	standingService   services.StandingService
	reconcilerService services.ReconcilerService
}

func NewStandingHandler(standingService services.StandingService, reconcilerService services.ReconcilerService) *StandingHandler {
	return &StandingHandler{
		standingService:   standingService,
		reconcilerService: reconcilerService,
	}
}

func (h *StandingHandler) GetStandings(w http.ResponseWriter, r *http.Request) {
	division := r.URL.Query().Get("division")

	standings, err := h.standingService.ComputeStandings(r.Context(), division)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StandingHandler) ListInconsistencies(w http.ResponseWriter, r *http.Request) {
	matches, err := h.reconcilerService.FindInconsistencies(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"inconsistent_matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StandingHandler) ReconcileAll(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconcilerService.ReconcileAll(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"report": report}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
