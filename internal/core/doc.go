// Package core holds the clinic's business logic: the CSV import pipeline
// and the Service that every transport calls into.
//
// # Import pipeline
//
// An import type is described by a [Schema]: the columns a file must carry,
// how each cell is checked, and a Build function that turns a valid row
// into a record. [Import] runs a file through the schema and either returns
// every record or, when anything is wrong, only errors:
//
//  1. Lines are split, trimmed and blank lines dropped.
//  2. The header is matched against the schema; missing required columns
//     reject the file before any row is read.
//  3. Each row is projected by column name, so column order is free.
//  4. Required cells are checked first, then types (email, enum, number).
//     A row reports only its first problem.
//  5. At most [MaxReportedErrors] messages are kept, along with the total.
//
// Messages are rendered through the i18n catalog in the locale carried by
// the request context. Line numbers count the header as line 1.
//
// # Definitions and the registry
//
// A [Definition] binds a schema to the store methods that persist and list
// its records. Definitions are registered at init time from the tables
// package:
//
//	core.Register(core.NewDefinition(PatientsKey, "מטופלים", PatientSchema(), core.Sink[clinic.Patient]{
//	    Append: func(ctx context.Context, st store.Store, recs []clinic.Patient) error {
//	        return st.AppendPatients(ctx, recs)
//	    },
//	}))
//
// # Errors
//
// Rejected files return a [*BatchError]; store failures a
// [*DownstreamError]. [MapError] turns either, or any other failure, into a
// coded [UserMessage] for display:
//
//   - IMP001-IMP004: file content (empty, missing columns, invalid rows)
//   - FILE001-FILE004: upload format and size
//   - AUTH001-AUTH003: sessions and permissions
//   - CLN001-CLN004: clinic records
//   - STORE001-STORE003: persistence
//   - UPL001-UPL003, RATE001: capacity and timeouts
//
// # Audit
//
// Logins, imports, exports and assignments are recorded in the audit log.
// Entries older than the retention period are pruned by
// [Service.StartRetentionScheduler].
package core
