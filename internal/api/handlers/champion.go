package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dom/league-rest-explorer/internal/domain"
	"github.com/dom/league-rest-explorer/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ChampionHandler struct {
	championService *service.ChampionService
	logger          *zap.Logger
}

func NewChampionHandler(championService *service.ChampionService, logger *zap.Logger) *ChampionHandler {
	return &ChampionHandler{championService: championService, logger: logger}
}

type ChampionResponse struct {
	ID       string   `json:"id"`
	Key      string   `json:"key"`
	Name     string   `json:"name"`
	Title    string   `json:"title"`
	ImageURL string   `json:"imageUrl"`
	Tags     []string `json:"tags"`
	Version  string   `json:"version"`
}

type ChampionsResponse struct {
	Champions []ChampionResponse `json:"champions"`
	Version   string             `json:"version"`
}

type SyncResponse struct {
	Synced  int    `json:"synced"`
	Version string `json:"version"`
}

func toChampionResponse(c *domain.Champion) ChampionResponse {
	var tags []string
	json.Unmarshal(c.Tags, &tags)

	return ChampionResponse{
		ID:       c.ID,
		Key:      c.Key,
		Name:     c.Name,
		Title:    c.Title,
		ImageURL: c.ImageURL,
		Tags:     tags,
		Version:  c.Version,
	}
}

func (h *ChampionHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	champions, err := h.championService.GetAllChampions(r.Context())
	if err != nil {
		h.logger.Error("failed to get champions", zap.String("handler", "champion.GetAll"), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to get champions")
		return
	}

	resp := ChampionsResponse{
		Champions: make([]ChampionResponse, len(champions)),
	}
	for i, c := range champions {
		resp.Champions[i] = toChampionResponse(c)
		if resp.Version == "" {
			resp.Version = c.Version
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *ChampionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	champion, err := h.championService.GetChampion(r.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeError(w, http.StatusNotFound, "Champion not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to get champion", zap.String("handler", "champion.Get"), zap.String("championID", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to get champion")
		return
	}

	writeJSON(w, http.StatusOK, toChampionResponse(champion))
}

func (h *ChampionHandler) Sync(w http.ResponseWriter, r *http.Request) {
	count, version, err := h.championService.SyncFromDataDragon(r.Context())
	if err != nil {
		h.logger.Error("failed to sync champions", zap.String("handler", "champion.Sync"), zap.Error(err))
		writeError(w, http.StatusBadGateway, "Failed to sync champions")
		return
	}

	h.logger.Info("synced champions", zap.Int("count", count), zap.String("version", version))
	writeJSON(w, http.StatusOK, SyncResponse{
		Synced:  count,
		Version: version,
	})
}
