package handlers

import (
	"net/http"

	"github.com/ecell-auctions/auction-system/services"
)

// DashboardHandler serves the aggregate read-only views: rankings, the
// unsold pool, and the sale ticker.
type DashboardHandler struct {
	ledgerService services.LedgerService
	playerService services.PlayerService
}

func NewDashboardHandler(ls services.LedgerService, ps services.PlayerService) *DashboardHandler {
	return &DashboardHandler{
		ledgerService: ls,
		playerService: ps,
	}
}

func (h *DashboardHandler) GetRankings(w http.ResponseWriter, r *http.Request) {
	standings, err := h.ledgerService.RankTeams(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"rankings": standings,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *DashboardHandler) GetUnsoldPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.ledgerService.UnsoldPlayers(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"players": players,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *DashboardHandler) GetTicker(w http.ResponseWriter, r *http.Request) {
	items, err := h.playerService.TickerItems(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"items": items,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
