package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/dom/league-rest-explorer/internal/preferences"
	"go.uber.org/zap"
)

type ThemeHandler struct {
	store  *preferences.Store
	logger *zap.Logger
}

func NewThemeHandler(store *preferences.Store, logger *zap.Logger) *ThemeHandler {
	return &ThemeHandler{store: store, logger: logger}
}

type ThemeRequest struct {
	Theme string `json:"theme"`
}

type ThemeResponse struct {
	Theme preferences.Theme `json:"theme"`
}

func (h *ThemeHandler) Get(w http.ResponseWriter, r *http.Request) {
	theme, err := h.store.Theme()
	if err != nil {
		// An unreadable file still yields the default theme.
		h.logger.Warn("failed to read theme", zap.Error(err))
	}
	writeJSON(w, http.StatusOK, ThemeResponse{Theme: theme})
}

func (h *ThemeHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req ThemeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	theme, err := preferences.ParseTheme(req.Theme)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Theme must be light or dark")
		return
	}

	if err := h.store.SetTheme(theme); err != nil {
		h.logger.Error("failed to save theme", zap.String("handler", "theme.Update"), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to save theme")
		return
	}
	writeJSON(w, http.StatusOK, ThemeResponse{Theme: theme})
}
