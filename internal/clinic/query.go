package clinic

import (
	"errors"
	"strings"
)

// DefaultPageSize is the number of rows per page in list views.
const DefaultPageSize = 10

// MaxPageSize caps caller-supplied page sizes.
const MaxPageSize = 100

// Lookup failures shared by every store implementation.
var (
	ErrPatientNotFound   = errors.New("patient not found")
	ErrPaymentNotFound   = errors.New("payment not found")
	ErrTherapistNotFound = errors.New("therapist not found")
)

// PatientQuery filters the patient list. Empty fields match everything.
type PatientQuery struct {
	Search    string          // substring of "first last", case-insensitive
	Treatment TreatmentStatus // exact match
	Payment   PaymentStatus   // exact match
	Page      int             // 1-based
	PageSize  int
}

// PaymentQuery filters the payments list. Empty fields match everything.
type PaymentQuery struct {
	Search        string // substring of patient name, case-insensitive
	Status        InvoiceStatus
	PatientStatus TreatmentStatus
	Page          int
	PageSize      int
}

// Page is one page of a filtered list.
type Page[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
}

// Matches reports whether p satisfies the query filters (paging aside).
func (q PatientQuery) Matches(p Patient) bool {
	if q.Treatment != "" && p.TreatmentStatus != q.Treatment {
		return false
	}
	if q.Payment != "" && p.PaymentStatus != q.Payment {
		return false
	}
	return containsFold(p.FullName(), q.Search)
}

// Matches reports whether p satisfies the query filters (paging aside).
func (q PaymentQuery) Matches(p Payment) bool {
	if q.Status != "" && p.Status != q.Status {
		return false
	}
	if q.PatientStatus != "" && p.PatientStatus != q.PatientStatus {
		return false
	}
	return containsFold(p.PatientName, q.Search)
}

// FilterPatients applies viewer scope, then the query, then paging.
func FilterPatients(all []Patient, v Viewer, q PatientQuery) Page[Patient] {
	var matched []Patient
	for _, p := range all {
		if v.Sees(p.TherapistID) && q.Matches(p) {
			matched = append(matched, p)
		}
	}
	return Paginate(matched, q.Page, q.PageSize)
}

// FilterPayments applies viewer scope, then the query, then paging.
func FilterPayments(all []Payment, v Viewer, q PaymentQuery) Page[Payment] {
	var matched []Payment
	for _, p := range all {
		if v.Sees(p.TherapistID) && q.Matches(p) {
			matched = append(matched, p)
		}
	}
	return Paginate(matched, q.Page, q.PageSize)
}

// Paginate slices items into the requested 1-based page.
// Out-of-range pages return an empty item list with the correct totals.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	pageSize = NormalizePageSize(pageSize)
	if page < 1 {
		page = 1
	}

	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	out := make([]T, end-start)
	copy(out, items[start:end])

	return Page[T]{
		Items:      out,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// NormalizePageSize clamps a requested page size into [1, MaxPageSize].
func NormalizePageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// AssignPatient sets or clears the therapist of a patient.
//
// Assigning moves the patient into active treatment and stamps the start date
// with today when none was recorded. Clearing moves the patient back to waiting.
func AssignPatient(p Patient, therapistID *string, today string) Patient {
	p.TherapistID = therapistID
	if therapistID != nil {
		p.TreatmentStatus = TreatmentActive
		if p.StartDate == nil || *p.StartDate == "" {
			p.StartDate = StringPtr(today)
		}
	} else {
		p.TreatmentStatus = TreatmentWaiting
	}
	return p
}

// AssignPayment sets or clears the therapist of a payment.
func AssignPayment(p Payment, therapistID *string) Payment {
	p.TherapistID = therapistID
	return p
}

func containsFold(haystack, needle string) bool {
	needle = strings.TrimSpace(needle)
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
