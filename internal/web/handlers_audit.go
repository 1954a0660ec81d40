package web

import (
	"net/http"

	"github.com/JonMunkholm/clinic/internal/store"
	mw "github.com/JonMunkholm/clinic/internal/web/middleware"
)

const maxAuditLimit = 1000

// handleAuditLog returns the most recent audit entries, newest first.
// Query: limit (default 100, at most 1000).
func (s *Server) handleAuditLog(w http.ResponseWriter, r *http.Request) {
	limit := min(parseIntParam(r, "limit", store.DefaultAuditLimit), maxAuditLimit)

	entries, err := s.service.AuditLog(r.Context(), mw.ViewerFrom(r.Context()), limit)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
