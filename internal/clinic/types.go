// Package clinic holds the clinic domain: patients, payments, therapists,
// the users who sign in, and the rules that decide what each of them may see.
package clinic

import "slices"

// TreatmentStatus is the closed set of treatment states of a patient.
type TreatmentStatus string

const (
	TreatmentWaiting  TreatmentStatus = "בהמתנה"
	TreatmentActive   TreatmentStatus = "בטיפול"
	TreatmentFinished TreatmentStatus = "סיום טיפול"
)

// TreatmentStatuses returns the allowed treatment status values in display order.
func TreatmentStatuses() []string {
	return []string{string(TreatmentWaiting), string(TreatmentActive), string(TreatmentFinished)}
}

// PaymentStatus is the closed set of billing states of a patient.
type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "שולם"
	PaymentPending PaymentStatus = "בהמתנה"
	PaymentLate    PaymentStatus = "באיחור"
	PaymentExempt  PaymentStatus = "פטור"
)

// PaymentStatuses returns the allowed patient payment status values.
func PaymentStatuses() []string {
	return []string{string(PaymentPaid), string(PaymentPending), string(PaymentLate), string(PaymentExempt)}
}

// InvoiceStatus is the closed set of states of a single payment (invoice).
// Unlike PaymentStatus it has no exempt state.
type InvoiceStatus string

const (
	InvoicePaid    InvoiceStatus = "שולם"
	InvoicePending InvoiceStatus = "בהמתנה"
	InvoiceLate    InvoiceStatus = "באיחור"
)

// InvoiceStatuses returns the allowed invoice status values.
func InvoiceStatuses() []string {
	return []string{string(InvoicePaid), string(InvoicePending), string(InvoiceLate)}
}

// Valid reports whether s is one of the declared treatment states.
func (s TreatmentStatus) Valid() bool { return slices.Contains(TreatmentStatuses(), string(s)) }

// Valid reports whether s is one of the declared payment states.
func (s PaymentStatus) Valid() bool { return slices.Contains(PaymentStatuses(), string(s)) }

// Valid reports whether s is one of the declared invoice states.
func (s InvoiceStatus) Valid() bool { return slices.Contains(InvoiceStatuses(), string(s)) }

// Patient is a person receiving treatment at the clinic.
type Patient struct {
	ID              string          `json:"id"`
	FirstName       string          `json:"firstName"`
	LastName        string          `json:"lastName"`
	IDNumber        string          `json:"idNumber"`
	Phone           string          `json:"phone"`
	Email           string          `json:"email"`
	TreatmentStatus TreatmentStatus `json:"treatmentStatus"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus"`
	StartDate       *string         `json:"startDate"`
	EndDate         *string         `json:"endDate"`
	TherapistID     *string         `json:"therapistId"`
}

// FullName returns "first last".
func (p Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}

// Payment is a single invoice issued for a patient.
type Payment struct {
	ID            string          `json:"id"`
	PatientName   string          `json:"patientName"`
	Amount        float64         `json:"amount"`
	Date          string          `json:"date"`
	Status        InvoiceStatus   `json:"status"`
	InvoiceNumber string          `json:"invoiceNumber"`
	PatientStatus TreatmentStatus `json:"patientStatus"`
	TherapistID   *string         `json:"therapistId"`
}

// Therapist is a clinician patients can be assigned to.
type Therapist struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Role is the closed set of account roles.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleTherapist Role = "therapist"
)

// User is an account that can sign in to the dashboard.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
	TherapistID  string `json:"therapistId,omitempty"`
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
