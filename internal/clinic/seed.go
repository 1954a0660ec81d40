package clinic

// Demo data loaded into a fresh store. Every call returns new slices so
// callers can mutate them freely.

// SeedTherapists returns the clinic's therapists.
func SeedTherapists() []Therapist {
	return []Therapist{
		{ID: "1", Name: `ד"ר ישראלה ישראלי`, Email: "israela@clinic.com"},
		{ID: "2", Name: `ד"ר משה כהן`, Email: "moshe@clinic.com"},
		{ID: "3", Name: "גב' אביגיל לוי", Email: "avigail@clinic.com"},
	}
}

// SeedUsers returns the accounts able to sign in, without password hashes.
func SeedUsers() []User {
	return []User{
		{ID: "101", Name: "מנהל מערכת", Email: "admin@clinic.com", Role: RoleAdmin},
		{ID: "1", Name: `ד"ר ישראלה ישראלי`, Email: "israela@clinic.com", Role: RoleTherapist, TherapistID: "1"},
		{ID: "2", Name: `ד"ר משה כהן`, Email: "moshe@clinic.com", Role: RoleTherapist, TherapistID: "2"},
		{ID: "3", Name: "גב' אביגיל לוי", Email: "avigail@clinic.com", Role: RoleTherapist, TherapistID: "3"},
	}
}

// SeedPatients returns the demo patient list.
func SeedPatients() []Patient {
	return []Patient{
		seedPatient("1", "אברהם", "יוסף", "123456789", "050-1234567", "avi@email.com", TreatmentActive, PaymentPaid, "2023-01-15", "", "1"),
		seedPatient("2", "שרה", "כהן", "234567890", "052-2345678", "sara.c@email.com", TreatmentActive, PaymentPending, "2023-02-20", "", "1"),
		seedPatient("3", "יצחק", "לוי", "345678901", "053-3456789", "itzik@email.com", TreatmentWaiting, PaymentExempt, "", "", ""),
		seedPatient("4", "רבקה", "מזרחי", "456789012", "054-4567890", "rivka.m@email.com", TreatmentFinished, PaymentPaid, "2022-11-10", "2023-05-10", "2"),
		seedPatient("5", "יעקב", "פרץ", "567890123", "055-5678901", "yakov@email.com", TreatmentActive, PaymentLate, "2023-03-01", "", "2"),
		seedPatient("6", "לאה", "ביטון", "678901234", "058-6789012", "leab@email.com", TreatmentWaiting, PaymentPending, "", "", ""),
		seedPatient("7", "משה", "דיין", "789012345", "050-7890123", "moshed@email.com", TreatmentActive, PaymentPaid, "2023-04-12", "", "3"),
		seedPatient("8", "רחל", "אברהם", "890123456", "052-8901234", "rachel.a@email.com", TreatmentActive, PaymentPaid, "2023-05-18", "", "3"),
	}
}

// SeedPayments returns the demo invoice list.
func SeedPayments() []Payment {
	return []Payment{
		{ID: "1", PatientName: "ישראל ישראלי", Amount: 350, Date: "2024-05-20", Status: InvoicePaid, InvoiceNumber: "INV-001", PatientStatus: TreatmentFinished, TherapistID: StringPtr("1")},
		{ID: "2", PatientName: "יעל כהן", Amount: 400, Date: "2024-05-22", Status: InvoicePending, InvoiceNumber: "INV-002", PatientStatus: TreatmentActive, TherapistID: StringPtr("1")},
		{ID: "3", PatientName: "משה לוי", Amount: 350, Date: "2024-04-15", Status: InvoiceLate, InvoiceNumber: "INV-003", PatientStatus: TreatmentActive, TherapistID: StringPtr("2")},
		{ID: "4", PatientName: "דנה שפירא", Amount: 500, Date: "2024-05-18", Status: InvoicePaid, InvoiceNumber: "INV-004", PatientStatus: TreatmentFinished, TherapistID: StringPtr("2")},
		{ID: "5", PatientName: "אביב גורן", Amount: 400, Date: "2024-05-23", Status: InvoicePending, InvoiceNumber: "INV-005", PatientStatus: TreatmentWaiting},
		{ID: "6", PatientName: "רותם חזן", Amount: 350, Date: "2024-03-30", Status: InvoiceLate, InvoiceNumber: "INV-006", PatientStatus: TreatmentWaiting},
		{ID: "7", PatientName: "שירי מיימון", Amount: 450, Date: "2024-05-25", Status: InvoicePending, InvoiceNumber: "INV-007", PatientStatus: TreatmentActive, TherapistID: StringPtr("1")},
	}
}

func seedPatient(id, first, last, idNumber, phone, email string, ts TreatmentStatus, ps PaymentStatus, start, end, therapist string) Patient {
	return Patient{
		ID:              id,
		FirstName:       first,
		LastName:        last,
		IDNumber:        idNumber,
		Phone:           phone,
		Email:           email,
		TreatmentStatus: ts,
		PaymentStatus:   ps,
		StartDate:       StringPtr(start),
		EndDate:         StringPtr(end),
		TherapistID:     StringPtr(therapist),
	}
}
