package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/clinic/internal/core"
	"github.com/JonMunkholm/clinic/internal/i18n"
	mw "github.com/JonMunkholm/clinic/internal/web/middleware"
	"github.com/JonMunkholm/clinic/internal/web/templates"
)

type columnResponse struct {
	Column   string   `json:"column"`
	Label    string   `json:"label"`
	Type     string   `json:"type"`
	Required bool     `json:"required"`
	Values   []string `json:"values,omitempty"`
}

type importResponse struct {
	Key        string           `json:"key"`
	Label      string           `json:"label"`
	Columns    []columnResponse `json:"columns"`
	Exportable bool             `json:"exportable"`
}

// outcomeResponse is the body of an import or preview. Message is the
// localized summary shown above the error list or as the success banner.
type outcomeResponse struct {
	core.Outcome
	Message string `json:"message"`
}

// handleListImports lists the registered import types with their columns.
func (s *Server) handleListImports(w http.ResponseWriter, r *http.Request) {
	defs, err := s.service.ImportDefinitions(mw.ViewerFrom(r.Context()))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	out := make([]importResponse, len(defs))
	for i, d := range defs {
		cols := make([]columnResponse, len(d.Columns.Fields))
		for j, f := range d.Columns.Fields {
			cols[j] = columnResponse{
				Column:   f.Column,
				Label:    f.DisplayLabel(),
				Type:     f.Type.String(),
				Required: f.Required,
				Values:   f.EnumValues,
			}
		}
		out[i] = importResponse{Key: d.Key, Label: d.Label, Columns: cols, Exportable: d.Exportable()}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleImportStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.ImportStatus())
}

// handleImport validates and stores an uploaded file. The whole file is
// rejected with 422 and its row errors when any line is invalid.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	up, body, err := s.readUpload(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer body.Close()

	out, err := s.service.ImportFile(r.Context(), mw.ViewerFrom(r.Context()), chi.URLParam(r, "key"), up)
	var batch *core.BatchError
	switch {
	case errors.As(err, &batch):
		s.respondOutcome(w, r, out, false, http.StatusUnprocessableEntity)
	case err != nil:
		s.respondError(w, r, err)
	default:
		s.respondOutcome(w, r, out, false, http.StatusOK)
	}
}

// handlePreview validates an uploaded file without storing it.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	up, body, err := s.readUpload(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer body.Close()

	out, err := s.service.PreviewImport(r.Context(), mw.ViewerFrom(r.Context()), chi.URLParam(r, "key"), up)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondOutcome(w, r, out, true, http.StatusOK)
}

// respondOutcome writes an import result as JSON or, for HTMX, as the
// success banner or error list fragment.
func (s *Server) respondOutcome(w http.ResponseWriter, r *http.Request, out core.Outcome, preview bool, status int) {
	p := i18n.Printer(core.LocaleFrom(r.Context()))

	var msg string
	switch {
	case !out.OK():
		msg = p.Sprintf("import.errors_header", strconv.Itoa(out.TotalErrors), strconv.Itoa(len(out.Errors)))
	case preview:
		msg = p.Sprintf("import.preview_ok", strconv.Itoa(out.Imported))
	default:
		msg = p.Sprintf("import.success", strconv.Itoa(out.Imported))
	}

	if !isHTMX(r) {
		writeJSON(w, status, outcomeResponse{Outcome: out, Message: msg})
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if out.OK() {
		_ = templates.ImportSuccess(msg).Render(r.Context(), w)
		return
	}
	_ = templates.ImportErrors(msg, out.Messages()).Render(r.Context(), w)
}
