package handlers

import (
	"net/http"

	"github.com/dom/league-rest-explorer/internal/dashboard"
	"github.com/dom/league-rest-explorer/internal/service"
	"github.com/dom/league-rest-explorer/internal/websocket"
	ws "github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = ws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

type WebSocketHandler struct {
	store  *dashboard.Store
	tokens *service.TokenService
	logger *zap.Logger
}

func NewWebSocketHandler(store *dashboard.Store, tokens *service.TokenService, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		store:  store,
		tokens: tokens,
		logger: logger,
	}
}

func (h *WebSocketHandler) Handle(w http.ResponseWriter, r *http.Request) {
	// Browsers cannot set headers on a websocket handshake.
	token := r.URL.Query().Get("token")
	if token == "" {
		writeError(w, http.StatusUnauthorized, "Token required")
		return
	}

	sessionID, err := h.tokens.Validate(token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	session, err := h.store.Get(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := websocket.NewClient(session, conn, h.logger)
	client.SyncState()

	go client.WritePump()
	go client.ReadPump()
}
