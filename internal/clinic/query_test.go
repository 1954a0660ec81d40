package clinic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminViewer() Viewer {
	return AdminViewer{Account: User{ID: "101", Role: RoleAdmin}}
}

func therapistViewer(id string) Viewer {
	return TherapistViewer{Account: User{ID: id, Role: RoleTherapist, TherapistID: id}, TherapistID: id}
}

func TestFilterPatients_Scope(t *testing.T) {
	all := SeedPatients()

	page := FilterPatients(all, adminViewer(), PatientQuery{})
	assert.Equal(t, 8, page.Total)

	page = FilterPatients(all, therapistViewer("1"), PatientQuery{})
	require.Equal(t, 2, page.Total)
	for _, p := range page.Items {
		assert.Equal(t, "1", Deref(p.TherapistID))
	}

	page = FilterPatients(all, therapistViewer("9"), PatientQuery{})
	assert.Equal(t, 0, page.Total)
	assert.Empty(t, page.Items)
}

func TestFilterPatients_Filters(t *testing.T) {
	all := SeedPatients()

	tests := []struct {
		name  string
		query PatientQuery
		want  []string
	}{
		{name: "search on last name", query: PatientQuery{Search: "כהן"}, want: []string{"2"}},
		{name: "search spans first and last", query: PatientQuery{Search: "משה דיין"}, want: []string{"7"}},
		{name: "treatment filter", query: PatientQuery{Treatment: TreatmentWaiting}, want: []string{"3", "6"}},
		{name: "payment filter", query: PatientQuery{Payment: PaymentLate}, want: []string{"5"}},
		{name: "combined filters", query: PatientQuery{Treatment: TreatmentActive, Payment: PaymentPending}, want: []string{"2"}},
		{name: "blank search matches all", query: PatientQuery{Search: "  "}, want: []string{"1", "2", "3", "4", "5", "6", "7", "8"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := FilterPatients(all, adminViewer(), tt.query)
			var ids []string
			for _, p := range page.Items {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestFilterPayments(t *testing.T) {
	all := SeedPayments()

	page := FilterPayments(all, adminViewer(), PaymentQuery{Status: InvoiceLate})
	assert.Equal(t, 2, page.Total)

	page = FilterPayments(all, therapistViewer("2"), PaymentQuery{})
	assert.Equal(t, 2, page.Total)

	page = FilterPayments(all, adminViewer(), PaymentQuery{PatientStatus: TreatmentWaiting, Search: "רותם"})
	require.Len(t, page.Items, 1)
	assert.Equal(t, "INV-006", page.Items[0].InvoiceNumber)
}

func TestPaginate(t *testing.T) {
	items := make([]int, 23)
	for i := range items {
		items[i] = i
	}

	tests := []struct {
		name       string
		page, size int
		wantLen    int
		wantFirst  int
		wantPages  int
	}{
		{name: "first page default size", page: 1, size: 0, wantLen: 10, wantFirst: 0, wantPages: 3},
		{name: "last partial page", page: 3, size: 10, wantLen: 3, wantFirst: 20, wantPages: 3},
		{name: "page past end", page: 9, size: 10, wantLen: 0, wantPages: 3},
		{name: "page below one clamps", page: -2, size: 5, wantLen: 5, wantFirst: 0, wantPages: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Paginate(items, tt.page, tt.size)
			assert.Len(t, got.Items, tt.wantLen)
			assert.Equal(t, 23, got.Total)
			assert.Equal(t, tt.wantPages, got.TotalPages)
			if tt.wantLen > 0 {
				assert.Equal(t, tt.wantFirst, got.Items[0])
			}
		})
	}
}

func TestAssignPatient(t *testing.T) {
	waiting := SeedPatients()[2] // no therapist, no start date

	assigned := AssignPatient(waiting, StringPtr("2"), "2024-06-01")
	assert.Equal(t, "2", Deref(assigned.TherapistID))
	assert.Equal(t, TreatmentActive, assigned.TreatmentStatus)
	assert.Equal(t, "2024-06-01", Deref(assigned.StartDate))

	started := SeedPatients()[0]
	reassigned := AssignPatient(started, StringPtr("3"), "2024-06-01")
	assert.Equal(t, "2023-01-15", Deref(reassigned.StartDate), "existing start date kept")

	cleared := AssignPatient(assigned, nil, "2024-06-02")
	assert.Nil(t, cleared.TherapistID)
	assert.Equal(t, TreatmentWaiting, cleared.TreatmentStatus)
	assert.Equal(t, "2024-06-01", Deref(cleared.StartDate))
}

func TestViewerFor(t *testing.T) {
	v, err := ViewerFor(User{ID: "101", Role: RoleAdmin})
	require.NoError(t, err)
	assert.IsType(t, AdminViewer{}, v)
	assert.NoError(t, RequireManage(v))

	v, err = ViewerFor(User{ID: "1", Role: RoleTherapist, TherapistID: "1"})
	require.NoError(t, err)
	assert.IsType(t, TherapistViewer{}, v)
	assert.ErrorIs(t, RequireManage(v), ErrForbidden)
	assert.True(t, v.Sees(StringPtr("1")))
	assert.False(t, v.Sees(StringPtr("2")))
	assert.False(t, v.Sees(nil))

	_, err = ViewerFor(User{ID: "4", Role: RoleTherapist})
	assert.Error(t, err)

	_, err = ViewerFor(User{ID: "5", Role: "owner"})
	assert.Error(t, err)
}

func TestStatusValid(t *testing.T) {
	assert.True(t, TreatmentFinished.Valid())
	assert.False(t, TreatmentStatus("done").Valid())
	assert.True(t, PaymentExempt.Valid())
	assert.False(t, InvoiceStatus(PaymentExempt).Valid())
}
