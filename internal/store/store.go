// Package store persists clinic records.
//
// Two implementations exist: Memory, which keeps everything in process and
// is the default, and Postgres, backed by a pgx connection pool. Both are
// injected into the service layer through the Store interface.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/JonMunkholm/clinic/internal/clinic"
)

// ErrUserNotFound is returned by user lookups that match nothing.
var ErrUserNotFound = errors.New("user not found")

// Store is the repository used by the service layer.
//
// Append methods are all-or-nothing: either every record is stored, after
// all existing records, or none is.
type Store interface {
	ListPatients(ctx context.Context) ([]clinic.Patient, error)
	QueryPatients(ctx context.Context, v clinic.Viewer, q clinic.PatientQuery) (clinic.Page[clinic.Patient], error)
	GetPatient(ctx context.Context, id string) (clinic.Patient, error)
	AppendPatients(ctx context.Context, patients []clinic.Patient) error
	UpdatePatient(ctx context.Context, p clinic.Patient) error

	ListPayments(ctx context.Context) ([]clinic.Payment, error)
	QueryPayments(ctx context.Context, v clinic.Viewer, q clinic.PaymentQuery) (clinic.Page[clinic.Payment], error)
	GetPayment(ctx context.Context, id string) (clinic.Payment, error)
	AppendPayments(ctx context.Context, payments []clinic.Payment) error
	UpdatePayment(ctx context.Context, p clinic.Payment) error

	ListTherapists(ctx context.Context) ([]clinic.Therapist, error)
	GetTherapist(ctx context.Context, id string) (clinic.Therapist, error)
	AddTherapists(ctx context.Context, therapists []clinic.Therapist) error

	FindUserByEmail(ctx context.Context, email string) (clinic.User, error)
	GetUser(ctx context.Context, id string) (clinic.User, error)
	AddUsers(ctx context.Context, users []clinic.User) error

	RecordAudit(ctx context.Context, e AuditEntry) error
	ListAudit(ctx context.Context, limit int) ([]AuditEntry, error)
	// PruneAudit deletes entries created before cutoff and returns how many.
	PruneAudit(ctx context.Context, cutoff time.Time) (int64, error)

	Ping(ctx context.Context) error
	Close()
}

// AuditEntry is one recorded change.
type AuditEntry struct {
	ID           string    `json:"id"`
	Action       string    `json:"action"`
	Severity     string    `json:"severity"`
	ActorID      string    `json:"actorId,omitempty"`
	ActorEmail   string    `json:"actorEmail,omitempty"`
	IPAddress    string    `json:"ipAddress,omitempty"`
	UserAgent    string    `json:"userAgent,omitempty"`
	Subject      string    `json:"subject,omitempty"`
	Detail       string    `json:"detail,omitempty"`
	RowsAffected int       `json:"rowsAffected,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// DefaultAuditLimit is used when ListAudit is called with a non-positive limit.
const DefaultAuditLimit = 100
