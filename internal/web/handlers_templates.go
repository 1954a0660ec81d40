package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	mw "github.com/JonMunkholm/clinic/internal/web/middleware"
)

// handleDownloadTemplate serves the header-only file for an import type.
func (s *Server) handleDownloadTemplate(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	text, err := s.service.Template(mw.ViewerFrom(r.Context()), key)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeCSV(w, key+"-template.csv", text)
}

// handleExport serves every stored record of an import type in its
// import format.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	text, err := s.service.Export(r.Context(), mw.ViewerFrom(r.Context()), key)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeCSV(w, key+".csv", text)
}
