package handlers

import (
	"errors"
	"net/http"

	"github.com/ecell-auctions/auction-system/middleware"
	"github.com/ecell-auctions/auction-system/services"
	"github.com/go-chi/chi/v5"
)

// teamSecretHeader carries the per-team roster secret for callers without
// an admin token.
const teamSecretHeader = "X-Team-Secret"

type TeamHandler struct {
	teamService   services.TeamService
	ledgerService services.LedgerService
}

func NewTeamHandler(ts services.TeamService, ls services.LedgerService) *TeamHandler {
	return &TeamHandler{
		teamService:   ts,
		ledgerService: ls,
	}
}

func (h *TeamHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var input services.CreateTeamInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.CreateTeam(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"team": team,
	}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.teamService.ListTeams(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"teams": teams,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetRoster returns a team's squad. Admin tokens bypass the per-team secret;
// everyone else must present a matching X-Team-Secret header (teams created
// without a secret are open).
func (h *TeamHandler) GetRoster(w http.ResponseWriter, r *http.Request) {
	teamName := chi.URLParam(r, "teamName")
	if teamName == "" {
		badRequestResponse(w, r, errors.New("missing teamName parameter"))
		return
	}

	if !middleware.IsAdmin(r.Context()) {
		if err := h.teamService.VerifyTeamSecret(r.Context(), teamName, r.Header.Get(teamSecretHeader)); err != nil {
			mapServiceErrorToHTTP(w, r, err)
			return
		}
	}

	roster, err := h.ledgerService.Roster(r.Context(), teamName)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"team":   teamName,
		"roster": roster,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamHandler) GetSquadSummary(w http.ResponseWriter, r *http.Request) {
	teamName := chi.URLParam(r, "teamName")
	if teamName == "" {
		badRequestResponse(w, r, errors.New("missing teamName parameter"))
		return
	}

	if !middleware.IsAdmin(r.Context()) {
		if err := h.teamService.VerifyTeamSecret(r.Context(), teamName, r.Header.Get(teamSecretHeader)); err != nil {
			mapServiceErrorToHTTP(w, r, err)
			return
		}
	}

	summary, err := h.ledgerService.SquadSummary(r.Context(), teamName)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"summary": summary,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamHandler) WipeAll(w http.ResponseWriter, r *http.Request) {
	if err := h.teamService.WipeAll(r.Context()); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"message": "all auction data has been deleted",
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
