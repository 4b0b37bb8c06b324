package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dom/league-rest-explorer/internal/dashboard"
	"github.com/dom/league-rest-explorer/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type contextKey string

const (
	SessionKey contextKey = "session"
)

// Session authenticates the bearer token, checks it was issued for the
// {id} in the path and loads that session into the request context.
func Session(tokens *service.TokenService, store *dashboard.Store, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "Authorization header required")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				writeError(w, http.StatusUnauthorized, "Invalid authorization header")
				return
			}

			sessionID, err := tokens.Validate(parts[1])
			if err != nil {
				logger.Debug("token validation failed", zap.Error(err))
				writeError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			if id := chi.URLParam(r, "id"); id != "" && id != sessionID.String() {
				writeError(w, http.StatusForbidden, "Token does not belong to this session")
				return
			}

			session, err := store.Get(sessionID)
			if err != nil {
				writeError(w, http.StatusNotFound, "Session not found")
				return
			}

			ctx := context.WithValue(r.Context(), SessionKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetSession(ctx context.Context) (*dashboard.Session, bool) {
	session, ok := ctx.Value(SessionKey).(*dashboard.Session)
	return session, ok
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
