package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/JonMunkholm/clinic/internal/clinic"
)

func seeded(t *testing.T) *Memory {
	t.Helper()
	m := NewMemory()
	require.NoError(t, Seed(context.Background(), m, "password", bcrypt.MinCost))
	return m
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	m := seeded(t)

	patients, err := m.ListPatients(ctx)
	require.NoError(t, err)
	assert.Len(t, patients, 8)

	payments, err := m.ListPayments(ctx)
	require.NoError(t, err)
	assert.Len(t, payments, 7)

	u, err := m.FindUserByEmail(ctx, "admin@clinic.com")
	require.NoError(t, err)
	assert.Equal(t, clinic.RoleAdmin, u.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("password")))

	// second run is a no-op
	require.NoError(t, Seed(ctx, m, "other", bcrypt.MinCost))
	therapists, err := m.ListTherapists(ctx)
	require.NoError(t, err)
	assert.Len(t, therapists, 3)
}

func TestMemory_AppendPatients(t *testing.T) {
	ctx := context.Background()
	m := seeded(t)

	added := []clinic.Patient{
		{ID: "a", FirstName: "נועה", LastName: "כהן", TreatmentStatus: clinic.TreatmentWaiting},
		{ID: "b", FirstName: "דן", LastName: "לוי", TreatmentStatus: clinic.TreatmentWaiting},
	}
	require.NoError(t, m.AppendPatients(ctx, added))

	all, err := m.ListPatients(ctx)
	require.NoError(t, err)
	require.Len(t, all, 10)
	assert.Equal(t, "1", all[0].ID, "existing records keep their place")
	assert.Equal(t, "a", all[8].ID)
	assert.Equal(t, "b", all[9].ID)
}

func TestMemory_AppendPatients_DuplicateRejectsBatch(t *testing.T) {
	ctx := context.Background()
	m := seeded(t)

	err := m.AppendPatients(ctx, []clinic.Patient{{ID: "new"}, {ID: "1"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate key")

	all, err := m.ListPatients(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 8)
}

func TestMemory_AppendPayments_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewMemory()
	err := m.AppendPayments(ctx, []clinic.Payment{{ID: "x"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemory_ListReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := seeded(t)

	all, err := m.ListPatients(ctx)
	require.NoError(t, err)
	all[0].FirstName = "changed"

	p, err := m.GetPatient(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "אברהם", p.FirstName)
}

func TestMemory_QueryPatients_Scoped(t *testing.T) {
	ctx := context.Background()
	m := seeded(t)

	v := clinic.TherapistViewer{TherapistID: "1"}
	page, err := m.QueryPatients(ctx, v, clinic.PatientQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)

	page, err = m.QueryPatients(ctx, clinic.AdminViewer{}, clinic.PatientQuery{PageSize: 5})
	require.NoError(t, err)
	assert.Equal(t, 8, page.Total)
	assert.Len(t, page.Items, 5)
	assert.Equal(t, 2, page.TotalPages)
}

func TestMemory_QueryPayments_Scoped(t *testing.T) {
	ctx := context.Background()
	m := seeded(t)

	page, err := m.QueryPayments(ctx, clinic.TherapistViewer{TherapistID: "1"}, clinic.PaymentQuery{})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
}

func TestMemory_Update(t *testing.T) {
	ctx := context.Background()
	m := seeded(t)

	p, err := m.GetPatient(ctx, "3")
	require.NoError(t, err)
	p = clinic.AssignPatient(p, clinic.StringPtr("2"), "2024-06-01")
	require.NoError(t, m.UpdatePatient(ctx, p))

	got, err := m.GetPatient(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, "2", clinic.Deref(got.TherapistID))
	assert.Equal(t, clinic.TreatmentActive, got.TreatmentStatus)

	err = m.UpdatePatient(ctx, clinic.Patient{ID: "missing"})
	assert.ErrorIs(t, err, clinic.ErrPatientNotFound)

	err = m.UpdatePayment(ctx, clinic.Payment{ID: "missing"})
	assert.ErrorIs(t, err, clinic.ErrPaymentNotFound)
}

func TestMemory_Lookups(t *testing.T) {
	ctx := context.Background()
	m := seeded(t)

	_, err := m.GetPatient(ctx, "nope")
	assert.ErrorIs(t, err, clinic.ErrPatientNotFound)
	_, err = m.GetPayment(ctx, "nope")
	assert.ErrorIs(t, err, clinic.ErrPaymentNotFound)
	_, err = m.GetTherapist(ctx, "nope")
	assert.ErrorIs(t, err, clinic.ErrTherapistNotFound)
	_, err = m.GetUser(ctx, "nope")
	assert.ErrorIs(t, err, ErrUserNotFound)

	u, err := m.FindUserByEmail(ctx, "  MOSHE@clinic.com ")
	require.NoError(t, err)
	assert.Equal(t, "2", u.TherapistID)
}

func TestMemory_Audit(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	for _, action := range []string{"login", "import", "assign"} {
		require.NoError(t, m.RecordAudit(ctx, AuditEntry{ID: action, Action: action, CreatedAt: time.Now()}))
	}

	entries, err := m.ListAudit(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "assign", entries[0].Action)
	assert.Equal(t, "import", entries[1].Action)

	entries, err = m.ListAudit(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestMemory_PruneAudit(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	base := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, m.RecordAudit(ctx, AuditEntry{ID: fmt.Sprint(i), CreatedAt: base.AddDate(0, 0, i)}))
	}

	n, err := m.PruneAudit(ctx, base.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	left, err := m.ListAudit(ctx, 0)
	require.NoError(t, err)
	require.Len(t, left, 3)
	assert.Equal(t, "2", left[2].ID)
}
