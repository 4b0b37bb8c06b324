package handlers

import (
	"net/http"

	"github.com/dom/league-rest-explorer/internal/api/middleware"
	"github.com/dom/league-rest-explorer/internal/dashboard"
	"github.com/dom/league-rest-explorer/internal/domain"
	"github.com/dom/league-rest-explorer/internal/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SessionHandler struct {
	store  *dashboard.Store
	tokens *service.TokenService
	logger *zap.Logger
}

func NewSessionHandler(store *dashboard.Store, tokens *service.TokenService, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{store: store, tokens: tokens, logger: logger}
}

type SessionResponse struct {
	ID        uuid.UUID        `json:"id"`
	Token     string           `json:"token"`
	Selection domain.Selection `json:"selection"`
	Sections  []dashboard.View `json:"sections"`
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	session := h.store.Create()

	token, err := h.tokens.Issue(session.ID)
	if err != nil {
		h.logger.Error("failed to issue session token", zap.String("handler", "session.Create"), zap.Error(err))
		h.store.Delete(session.ID)
		writeError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	writeJSON(w, http.StatusCreated, SessionResponse{
		ID:        session.ID,
		Token:     token,
		Selection: session.Selection.Selection(),
		Sections:  session.Views(),
	})
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.store.Delete(session.ID); err != nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
