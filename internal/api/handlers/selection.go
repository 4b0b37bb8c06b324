package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dom/league-rest-explorer/internal/api/middleware"
	"github.com/dom/league-rest-explorer/internal/dashboard"
	"github.com/dom/league-rest-explorer/internal/ddragon"
	"github.com/dom/league-rest-explorer/internal/domain"
)

type SelectionHandler struct {
	dd *ddragon.Client
}

func NewSelectionHandler(dd *ddragon.Client) *SelectionHandler {
	return &SelectionHandler{dd: dd}
}

type SelectionResponse struct {
	Selection domain.Selection `json:"selection"`
	Years     []string         `json:"years"`
}

type ChampionOptionResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

type ChampionOptionsResponse struct {
	Champions []ChampionOptionResponse `json:"champions"`
	Version   string                   `json:"version"`
}

func (h *SelectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, SelectionResponse{
		Selection: session.Selection.Selection(),
		Years:     domain.Years,
	})
}

func (h *SelectionHandler) Update(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req dashboard.SelectionUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := session.Selection.Apply(req)
	switch {
	case errors.Is(err, domain.ErrInvalidYear):
		writeError(w, http.StatusBadRequest, "Year must be one of the listed seasons")
		return
	case errors.Is(err, domain.ErrUnknownChampion):
		writeError(w, http.StatusBadRequest, "Champion must be one of the listed champions")
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, SelectionResponse{
		Selection: session.Selection.Selection(),
		Years:     domain.Years,
	})
}

// Champions lists the fixed champion choices with their portraits.
func (h *SelectionHandler) Champions(w http.ResponseWriter, r *http.Request) {
	options := domain.ChampionOptions()
	resp := ChampionOptionsResponse{
		Champions: make([]ChampionOptionResponse, len(options)),
		Version:   h.dd.Version(),
	}
	for i, c := range options {
		resp.Champions[i] = ChampionOptionResponse{
			ID:       c.ID,
			Name:     c.Name,
			ImageURL: h.dd.ImageURL(c.ID),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
