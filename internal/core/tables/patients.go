package tables

import (
	"context"

	"github.com/JonMunkholm/clinic/internal/clinic"
	"github.com/JonMunkholm/clinic/internal/core"
	"github.com/JonMunkholm/clinic/internal/store"
)

// PatientsKey identifies the patient import.
const PatientsKey = "patients"

func init() {
	core.Register(core.NewDefinition(PatientsKey, "מטופלים", PatientSchema(), core.Sink[clinic.Patient]{
		Append: func(ctx context.Context, st store.Store, recs []clinic.Patient) error {
			return st.AppendPatients(ctx, recs)
		},
		List: func(ctx context.Context, st store.Store) ([]clinic.Patient, error) {
			return st.ListPatients(ctx)
		},
		Row: patientRow,
	}))
}

// PatientColumns are the columns of a patient file, required ones first.
var PatientColumns = core.ColumnSchema{Fields: []core.FieldSpec{
	{Column: "שם פרטי", Field: "firstName", Type: core.FieldText, Required: true},
	{Column: "שם משפחה", Field: "lastName", Type: core.FieldText, Required: true},
	{Column: "טלפון", Field: "phone", Type: core.FieldText, Required: true},
	{Column: "אימייל", Field: "email", Type: core.FieldEmail, Required: true},
	{Column: "סטטוס טיפול", Field: "treatmentStatus", Type: core.FieldEnum, Required: true, EnumValues: clinic.TreatmentStatuses()},
	{Column: "סטטוס תשלום", Field: "paymentStatus", Type: core.FieldEnum, Required: true, EnumValues: clinic.PaymentStatuses()},
	{Column: "תעודת זהות", Field: "idNumber", Type: core.FieldText},
	{Column: "תאריך התחלה", Field: "startDate", Type: core.FieldDate},
	{Column: "תאריך סיום", Field: "endDate", Type: core.FieldDate},
}}

// PatientSchema returns the typed patient import schema. Imported patients
// are never assigned to a therapist.
func PatientSchema() core.Schema[clinic.Patient] {
	return core.Schema[clinic.Patient]{
		Columns: PatientColumns,
		Build:   buildPatient,
	}
}

func buildPatient(r core.Row) (clinic.Patient, error) {
	return clinic.Patient{
		ID:              r.ID,
		FirstName:       r.Get("firstName"),
		LastName:        r.Get("lastName"),
		IDNumber:        r.Get("idNumber"),
		Phone:           r.Get("phone"),
		Email:           r.Get("email"),
		TreatmentStatus: clinic.TreatmentStatus(r.Get("treatmentStatus")),
		PaymentStatus:   clinic.PaymentStatus(r.Get("paymentStatus")),
		StartDate:       r.Optional("startDate"),
		EndDate:         r.Optional("endDate"),
		TherapistID:     nil,
	}, nil
}

func patientRow(p clinic.Patient) []string {
	return []string{
		p.FirstName,
		p.LastName,
		p.Phone,
		p.Email,
		string(p.TreatmentStatus),
		string(p.PaymentStatus),
		p.IDNumber,
		clinic.Deref(p.StartDate),
		clinic.Deref(p.EndDate),
	}
}
