package handlers

import (
	"errors"
	"net/http"

	"github.com/dom/league-rest-explorer/internal/api/middleware"
	"github.com/dom/league-rest-explorer/internal/dashboard"
	"github.com/dom/league-rest-explorer/internal/domain"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SectionHandler exposes the per-section views of a session. Fetch failures
// never surface as errors; the view carries the demo rows and a banner.
type SectionHandler struct {
	logger *zap.Logger
}

func NewSectionHandler(logger *zap.Logger) *SectionHandler {
	return &SectionHandler{logger: logger}
}

type SectionsResponse struct {
	Sections []dashboard.View `json:"sections"`
}

func (h *SectionHandler) List(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, SectionsResponse{Sections: session.Views()})
}

func (h *SectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.withSection(w, r, func(s *dashboard.Session, section domain.Section) (dashboard.View, error) {
		return s.View(section)
	})
}

func (h *SectionHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	h.withSection(w, r, func(s *dashboard.Session, section domain.Section) (dashboard.View, error) {
		return s.Fetch(r.Context(), section)
	})
}

func (h *SectionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.withSection(w, r, func(s *dashboard.Session, section domain.Section) (dashboard.View, error) {
		return s.Reset(section)
	})
}

func (h *SectionHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, SectionsResponse{Sections: session.RefreshAll(r.Context())})
}

func (h *SectionHandler) withSection(w http.ResponseWriter, r *http.Request, do func(*dashboard.Session, domain.Section) (dashboard.View, error)) {
	session, ok := middleware.GetSession(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	section, err := domain.ParseSection(chi.URLParam(r, "section"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Unknown section")
		return
	}

	view, err := do(session, section)
	if errors.Is(err, domain.ErrUnknownSection) {
		writeError(w, http.StatusNotFound, "Unknown section")
		return
	}
	if err != nil {
		h.logger.Error("section request failed", zap.String("section", string(section)), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Something went wrong. Please reload the page.")
		return
	}
	writeJSON(w, http.StatusOK, view)
}
