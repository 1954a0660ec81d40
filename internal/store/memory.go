package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/JonMunkholm/clinic/internal/clinic"
)

// Memory is a process-local Store. Its contents live as long as the value.
type Memory struct {
	mu         sync.RWMutex
	patients   []clinic.Patient
	payments   []clinic.Payment
	therapists []clinic.Therapist
	users      []clinic.User
	audit      []AuditEntry
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

var _ Store = (*Memory)(nil)

func (m *Memory) ListPatients(ctx context.Context) ([]clinic.Patient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.patients), nil
}

func (m *Memory) QueryPatients(ctx context.Context, v clinic.Viewer, q clinic.PatientQuery) (clinic.Page[clinic.Patient], error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return clinic.FilterPatients(m.patients, v, q), nil
}

func (m *Memory) GetPatient(ctx context.Context, id string) (clinic.Patient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := slices.IndexFunc(m.patients, func(p clinic.Patient) bool { return p.ID == id })
	if i < 0 {
		return clinic.Patient{}, fmt.Errorf("get patient %s: %w", id, clinic.ErrPatientNotFound)
	}
	return m.patients[i], nil
}

// AppendPatients adds patients after the existing ones. Identifiers must be
// new; a clash rejects the whole batch.
func (m *Memory) AppendPatients(ctx context.Context, patients []clinic.Patient) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[string]bool, len(m.patients)+len(patients))
	for _, p := range m.patients {
		seen[p.ID] = true
	}
	for _, p := range patients {
		if seen[p.ID] {
			return fmt.Errorf("append patients: duplicate key %s", p.ID)
		}
		seen[p.ID] = true
	}
	m.patients = append(m.patients, patients...)
	return nil
}

func (m *Memory) UpdatePatient(ctx context.Context, p clinic.Patient) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.IndexFunc(m.patients, func(x clinic.Patient) bool { return x.ID == p.ID })
	if i < 0 {
		return fmt.Errorf("update patient %s: %w", p.ID, clinic.ErrPatientNotFound)
	}
	m.patients[i] = p
	return nil
}

func (m *Memory) ListPayments(ctx context.Context) ([]clinic.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.payments), nil
}

func (m *Memory) QueryPayments(ctx context.Context, v clinic.Viewer, q clinic.PaymentQuery) (clinic.Page[clinic.Payment], error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return clinic.FilterPayments(m.payments, v, q), nil
}

func (m *Memory) GetPayment(ctx context.Context, id string) (clinic.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := slices.IndexFunc(m.payments, func(p clinic.Payment) bool { return p.ID == id })
	if i < 0 {
		return clinic.Payment{}, fmt.Errorf("get payment %s: %w", id, clinic.ErrPaymentNotFound)
	}
	return m.payments[i], nil
}

func (m *Memory) AppendPayments(ctx context.Context, payments []clinic.Payment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[string]bool, len(m.payments)+len(payments))
	for _, p := range m.payments {
		seen[p.ID] = true
	}
	for _, p := range payments {
		if seen[p.ID] {
			return fmt.Errorf("append payments: duplicate key %s", p.ID)
		}
		seen[p.ID] = true
	}
	m.payments = append(m.payments, payments...)
	return nil
}

func (m *Memory) UpdatePayment(ctx context.Context, p clinic.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.IndexFunc(m.payments, func(x clinic.Payment) bool { return x.ID == p.ID })
	if i < 0 {
		return fmt.Errorf("update payment %s: %w", p.ID, clinic.ErrPaymentNotFound)
	}
	m.payments[i] = p
	return nil
}

func (m *Memory) ListTherapists(ctx context.Context) ([]clinic.Therapist, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.therapists), nil
}

func (m *Memory) GetTherapist(ctx context.Context, id string) (clinic.Therapist, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := slices.IndexFunc(m.therapists, func(t clinic.Therapist) bool { return t.ID == id })
	if i < 0 {
		return clinic.Therapist{}, fmt.Errorf("get therapist %s: %w", id, clinic.ErrTherapistNotFound)
	}
	return m.therapists[i], nil
}

func (m *Memory) AddTherapists(ctx context.Context, therapists []clinic.Therapist) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.therapists = append(m.therapists, therapists...)
	return nil
}

func (m *Memory) FindUserByEmail(ctx context.Context, email string) (clinic.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	email = strings.TrimSpace(email)
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return clinic.User{}, ErrUserNotFound
}

func (m *Memory) GetUser(ctx context.Context, id string) (clinic.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := slices.IndexFunc(m.users, func(u clinic.User) bool { return u.ID == id })
	if i < 0 {
		return clinic.User{}, ErrUserNotFound
	}
	return m.users[i], nil
}

func (m *Memory) AddUsers(ctx context.Context, users []clinic.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = append(m.users, users...)
	return nil
}

func (m *Memory) RecordAudit(ctx context.Context, e AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.audit = append(m.audit, e)
	return nil
}

// ListAudit returns the newest entries first.
func (m *Memory) ListAudit(ctx context.Context, limit int) ([]AuditEntry, error) {
	if limit <= 0 {
		limit = DefaultAuditLimit
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := min(limit, len(m.audit))
	out := make([]AuditEntry, 0, n)
	for i := len(m.audit) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, m.audit[i])
	}
	return out, nil
}

func (m *Memory) PruneAudit(ctx context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	before := len(m.audit)
	m.audit = slices.DeleteFunc(m.audit, func(e AuditEntry) bool {
		return e.CreatedAt.Before(cutoff)
	})
	return int64(before - len(m.audit)), nil
}

func (m *Memory) Ping(ctx context.Context) error {
	return nil
}

func (m *Memory) Close() {}
