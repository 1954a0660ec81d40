package web

import (
	"net/http"

	"github.com/JonMunkholm/clinic/internal/clinic"
	mw "github.com/JonMunkholm/clinic/internal/web/middleware"
)

// handleListPatients serves the patients visible to the caller.
// Query: q, treatment, payment, page, pageSize.
func (s *Server) handleListPatients(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := s.service.ListPatients(r.Context(), mw.ViewerFrom(r.Context()), clinic.PatientQuery{
		Search:    q.Get("q"),
		Treatment: clinic.TreatmentStatus(q.Get("treatment")),
		Payment:   clinic.PaymentStatus(q.Get("payment")),
		Page:      parseIntParam(r, "page", 1),
		PageSize:  parseIntParam(r, "pageSize", s.cfg.PageSize),
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// handleListPayments serves the payments visible to the caller.
// Query: q, status, patientStatus, page, pageSize.
func (s *Server) handleListPayments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := s.service.ListPayments(r.Context(), mw.ViewerFrom(r.Context()), clinic.PaymentQuery{
		Search:        q.Get("q"),
		Status:        clinic.InvoiceStatus(q.Get("status")),
		PatientStatus: clinic.TreatmentStatus(q.Get("patientStatus")),
		Page:          parseIntParam(r, "page", 1),
		PageSize:      parseIntParam(r, "pageSize", s.cfg.PageSize),
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleListTherapists(w http.ResponseWriter, r *http.Request) {
	therapists, err := s.service.ListTherapists(r.Context(), mw.ViewerFrom(r.Context()))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, therapists)
}
