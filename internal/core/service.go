package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/text/encoding"

	"github.com/JonMunkholm/clinic/internal/auth"
	"github.com/JonMunkholm/clinic/internal/clinic"
	"github.com/JonMunkholm/clinic/internal/logging"
	"github.com/JonMunkholm/clinic/internal/store"
)

// ErrSessionRequired is returned when an operation is called without a viewer.
var ErrSessionRequired = errors.New("session required")

// DefaultMaxFileSize applies when Options.MaxFileSize is zero.
const DefaultMaxFileSize = 10 << 20

// DefaultImportTimeout applies when Options.ImportTimeout is zero.
const DefaultImportTimeout = 2 * time.Minute

// Options tunes a Service.
type Options struct {
	MaxFileSize   int64             // bytes accepted per upload
	Fallback      encoding.Encoding // decoder for non-UTF-8 uploads; nil replaces bad bytes
	ImportTimeout time.Duration     // deadline of one import, counted once it holds a slot
	Now           func() time.Time
}

// Service is the entry point for every clinic operation. It owns no data;
// records live in the injected store.
type Service struct {
	store   store.Store
	auth    *auth.Authenticator
	limiter *ImportLimiter
	opts    Options
}

// NewService wires a Service. A nil limiter gets the default limits.
func NewService(st store.Store, authn *auth.Authenticator, limiter *ImportLimiter, opts Options) *Service {
	if limiter == nil {
		limiter = NewImportLimiter(DefaultMaxConcurrentImports, DefaultMaxWaitTime)
	}
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = DefaultMaxFileSize
	}
	if opts.ImportTimeout <= 0 {
		opts.ImportTimeout = DefaultImportTimeout
	}
	return &Service{store: st, auth: authn, limiter: limiter, opts: opts}
}

func (s *Service) now() time.Time {
	if s.opts.Now != nil {
		return s.opts.Now()
	}
	return time.Now()
}

// Ping checks that the store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// ============================================================================
// Sessions
// ============================================================================

// Login verifies credentials and opens a session.
func (s *Service) Login(ctx context.Context, email, password string) (auth.Session, error) {
	sess, err := s.auth.Login(ctx, email, password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		s.audit(ctx, auditParams{Action: ActionLoginFailed, Actor: clinic.User{Email: email}})
		return auth.Session{}, err
	}
	if err != nil {
		return auth.Session{}, err
	}
	s.audit(ctx, auditParams{Action: ActionLogin, Actor: sess.Viewer.User()})
	return sess, nil
}

// Resolve turns a session token into the viewer it belongs to.
func (s *Service) Resolve(ctx context.Context, token string) (clinic.Viewer, error) {
	return s.auth.Resolve(ctx, token)
}

// ============================================================================
// Lists
// ============================================================================

// ListPatients returns the page of patients visible to v.
func (s *Service) ListPatients(ctx context.Context, v clinic.Viewer, q clinic.PatientQuery) (clinic.Page[clinic.Patient], error) {
	if v == nil {
		return clinic.Page[clinic.Patient]{}, ErrSessionRequired
	}
	return s.store.QueryPatients(ctx, v, q)
}

// ListPayments returns the page of payments visible to v.
func (s *Service) ListPayments(ctx context.Context, v clinic.Viewer, q clinic.PaymentQuery) (clinic.Page[clinic.Payment], error) {
	if v == nil {
		return clinic.Page[clinic.Payment]{}, ErrSessionRequired
	}
	return s.store.QueryPayments(ctx, v, q)
}

// ListTherapists returns every therapist. Admin only.
func (s *Service) ListTherapists(ctx context.Context, v clinic.Viewer) ([]clinic.Therapist, error) {
	if err := requireManage(v); err != nil {
		return nil, err
	}
	return s.store.ListTherapists(ctx)
}

// AuditLog returns the most recent audit entries, newest first. Admin only.
func (s *Service) AuditLog(ctx context.Context, v clinic.Viewer, limit int) ([]store.AuditEntry, error) {
	if err := requireManage(v); err != nil {
		return nil, err
	}
	return s.store.ListAudit(ctx, limit)
}

// ============================================================================
// Assignment
// ============================================================================

// AssignPatientTherapist sets or, with a nil or empty id, clears the
// therapist of a patient. Admin only.
func (s *Service) AssignPatientTherapist(ctx context.Context, v clinic.Viewer, patientID string, therapistID *string) (clinic.Patient, error) {
	if err := requireManage(v); err != nil {
		return clinic.Patient{}, err
	}
	therapistID = clinic.StringPtr(clinic.Deref(therapistID))
	if err := s.checkTherapist(ctx, therapistID); err != nil {
		return clinic.Patient{}, err
	}

	p, err := s.store.GetPatient(ctx, patientID)
	if err != nil {
		return clinic.Patient{}, err
	}
	before := clinic.Deref(p.TherapistID)
	p = clinic.AssignPatient(p, therapistID, s.now().Format(time.DateOnly))
	if err := s.store.UpdatePatient(ctx, p); err != nil {
		return clinic.Patient{}, err
	}

	s.audit(ctx, auditParams{
		Action:  ActionAssignPatient,
		Actor:   v.User(),
		Subject: p.ID,
		Detail:  fmt.Sprintf("therapist %q -> %q", before, clinic.Deref(therapistID)),
	})
	logging.FromContext(ctx).Info("patient therapist assigned",
		"patient_id", p.ID, "therapist_id", clinic.Deref(therapistID))
	return p, nil
}

// AssignPaymentTherapist sets or clears the therapist of a payment. Admin only.
func (s *Service) AssignPaymentTherapist(ctx context.Context, v clinic.Viewer, paymentID string, therapistID *string) (clinic.Payment, error) {
	if err := requireManage(v); err != nil {
		return clinic.Payment{}, err
	}
	therapistID = clinic.StringPtr(clinic.Deref(therapistID))
	if err := s.checkTherapist(ctx, therapistID); err != nil {
		return clinic.Payment{}, err
	}

	p, err := s.store.GetPayment(ctx, paymentID)
	if err != nil {
		return clinic.Payment{}, err
	}
	before := clinic.Deref(p.TherapistID)
	p = clinic.AssignPayment(p, therapistID)
	if err := s.store.UpdatePayment(ctx, p); err != nil {
		return clinic.Payment{}, err
	}

	s.audit(ctx, auditParams{
		Action:  ActionAssignPayment,
		Actor:   v.User(),
		Subject: p.ID,
		Detail:  fmt.Sprintf("therapist %q -> %q", before, clinic.Deref(therapistID)),
	})
	return p, nil
}

func (s *Service) checkTherapist(ctx context.Context, id *string) error {
	if id == nil {
		return nil
	}
	_, err := s.store.GetTherapist(ctx, *id)
	return err
}

func requireManage(v clinic.Viewer) error {
	if v == nil {
		return ErrSessionRequired
	}
	return clinic.RequireManage(v)
}
