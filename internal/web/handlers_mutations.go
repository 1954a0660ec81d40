package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	mw "github.com/JonMunkholm/clinic/internal/web/middleware"
)

// assignRequest is the body of an assignment; a null or empty therapistId
// clears the assignment.
type assignRequest struct {
	TherapistID *string `json:"therapistId"`
}

func (s *Server) handleAssignPatient(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	p, err := s.service.AssignPatientTherapist(r.Context(), mw.ViewerFrom(r.Context()), chi.URLParam(r, "id"), req.TherapistID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleAssignPayment(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	p, err := s.service.AssignPaymentTherapist(r.Context(), mw.ViewerFrom(r.Context()), chi.URLParam(r, "id"), req.TherapistID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
