package tables

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/clinic/internal/clinic"
	"github.com/JonMunkholm/clinic/internal/core"
	"github.com/JonMunkholm/clinic/internal/store"
)

// PaymentsKey identifies the payment import.
const PaymentsKey = "payments"

func init() {
	core.Register(core.NewDefinition(PaymentsKey, "תשלומים", PaymentSchema(), core.Sink[clinic.Payment]{
		Append: func(ctx context.Context, st store.Store, recs []clinic.Payment) error {
			return st.AppendPayments(ctx, recs)
		},
		List: func(ctx context.Context, st store.Store) ([]clinic.Payment, error) {
			return st.ListPayments(ctx)
		},
		Row: paymentRow,
	}))
}

// PaymentColumns keeps the English headers of the billing export, with
// Hebrew labels for messages. A therapist column, if present, is ignored.
var PaymentColumns = core.ColumnSchema{Fields: []core.FieldSpec{
	{Column: "patientName", Field: "patientName", Label: "שם המטופל", Type: core.FieldText, Required: true},
	{Column: "amount", Field: "amount", Label: "סכום", Type: core.FieldNumeric, Required: true},
	{Column: "date", Field: "date", Label: "תאריך", Type: core.FieldDate, Required: true},
	{Column: "status", Field: "status", Label: "סטטוס תשלום", Type: core.FieldEnum, Required: true, EnumValues: clinic.InvoiceStatuses()},
	{Column: "patientStatus", Field: "patientStatus", Label: "סטטוס מטופל", Type: core.FieldEnum, Required: true, EnumValues: clinic.TreatmentStatuses()},
}}

// PaymentSchema returns the typed payment import schema. Invoice numbers are
// IMP-<batch unix ms>-<row>, unique within a batch.
func PaymentSchema() core.Schema[clinic.Payment] {
	return core.Schema[clinic.Payment]{
		Columns: PaymentColumns,
		Build:   buildPayment,
	}
}

func buildPayment(r core.Row) (clinic.Payment, error) {
	return clinic.Payment{
		ID:            r.ID,
		PatientName:   r.Get("patientName"),
		Amount:        r.Number("amount"),
		Date:          r.Get("date"),
		Status:        clinic.InvoiceStatus(r.Get("status")),
		InvoiceNumber: fmt.Sprintf("IMP-%d-%d", r.Batch.UnixMilli(), r.Index+1),
		PatientStatus: clinic.TreatmentStatus(r.Get("patientStatus")),
		TherapistID:   nil,
	}, nil
}

func paymentRow(p clinic.Payment) []string {
	return []string{
		p.PatientName,
		core.FormatNumber(p.Amount),
		p.Date,
		string(p.Status),
		string(p.PatientStatus),
	}
}
