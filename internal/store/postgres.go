package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/clinic/internal/clinic"
)

//go:embed schema.sql
var schemaSQL string

// Postgres is a Store backed by a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

var _ Store = (*Postgres)(nil)

// NewPostgres wraps an open pool. The pool is closed by Close.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Migrate creates the tables if they do not exist.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *Postgres) Close() {
	p.pool.Close()
}

// ============================================================================
// Patients
// ============================================================================

var patientColumns = []string{
	"id", "first_name", "last_name", "id_number", "phone", "email",
	"treatment_status", "payment_status", "start_date", "end_date", "therapist_id",
}

func (p *Postgres) ListPatients(ctx context.Context) ([]clinic.Patient, error) {
	sql := fmt.Sprintf("SELECT %s FROM patients ORDER BY seq", columnList(patientColumns))
	rows, err := p.pool.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	return pgx.CollectRows(rows, scanPatient)
}

func (p *Postgres) QueryPatients(ctx context.Context, v clinic.Viewer, q clinic.PatientQuery) (clinic.Page[clinic.Patient], error) {
	wb := NewWhereBuilder()
	scopeTo(wb, v)
	wb.Add("treatment_status", string(q.Treatment))
	wb.Add("payment_status", string(q.Payment))
	wb.AddSearch(q.Search, "(first_name || ' ' || last_name)")
	where, args := wb.Build()

	page, size := pageBounds(q.Page, q.PageSize)

	var total int
	if err := p.pool.QueryRow(ctx, "SELECT count(*) FROM patients"+where, args...).Scan(&total); err != nil {
		return clinic.Page[clinic.Patient]{}, fmt.Errorf("count patients: %w", err)
	}

	sql := fmt.Sprintf("SELECT %s FROM patients%s ORDER BY seq LIMIT $%d OFFSET $%d",
		columnList(patientColumns), where, wb.NextArgIndex(), wb.NextArgIndex()+1)
	rows, err := p.pool.Query(ctx, sql, append(args, size, (page-1)*size)...)
	if err != nil {
		return clinic.Page[clinic.Patient]{}, fmt.Errorf("query patients: %w", err)
	}
	items, err := pgx.CollectRows(rows, scanPatient)
	if err != nil {
		return clinic.Page[clinic.Patient]{}, fmt.Errorf("query patients: %w", err)
	}
	return pageOf(items, total, page, size), nil
}

func (p *Postgres) GetPatient(ctx context.Context, id string) (clinic.Patient, error) {
	sql := fmt.Sprintf("SELECT %s FROM patients WHERE id = $1", columnList(patientColumns))
	rows, err := p.pool.Query(ctx, sql, id)
	if err != nil {
		return clinic.Patient{}, fmt.Errorf("get patient %s: %w", id, err)
	}
	pat, err := pgx.CollectExactlyOneRow(rows, scanPatient)
	if errors.Is(err, pgx.ErrNoRows) {
		return clinic.Patient{}, fmt.Errorf("get patient %s: %w", id, clinic.ErrPatientNotFound)
	}
	return pat, err
}

// AppendPatients copies the batch inside one transaction.
func (p *Postgres) AppendPatients(ctx context.Context, patients []clinic.Patient) error {
	rows := make([][]any, len(patients))
	for i, pat := range patients {
		rows[i] = []any{
			pat.ID, pat.FirstName, pat.LastName, pat.IDNumber, pat.Phone, pat.Email,
			string(pat.TreatmentStatus), string(pat.PaymentStatus),
			pat.StartDate, pat.EndDate, pat.TherapistID,
		}
	}
	return p.copyIn(ctx, "patients", patientColumns, rows)
}

func (p *Postgres) UpdatePatient(ctx context.Context, pat clinic.Patient) error {
	tag, err := p.pool.Exec(ctx, `
		UPDATE patients SET first_name = $2, last_name = $3, id_number = $4, phone = $5,
			email = $6, treatment_status = $7, payment_status = $8, start_date = $9,
			end_date = $10, therapist_id = $11
		WHERE id = $1`,
		pat.ID, pat.FirstName, pat.LastName, pat.IDNumber, pat.Phone, pat.Email,
		string(pat.TreatmentStatus), string(pat.PaymentStatus),
		pat.StartDate, pat.EndDate, pat.TherapistID,
	)
	if err != nil {
		return fmt.Errorf("update patient %s: %w", pat.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update patient %s: %w", pat.ID, clinic.ErrPatientNotFound)
	}
	return nil
}

func scanPatient(row pgx.CollectableRow) (clinic.Patient, error) {
	var (
		pat                         clinic.Patient
		treatment, payment          string
		startDate, endDate, therapy pgtype.Text
	)
	err := row.Scan(
		&pat.ID, &pat.FirstName, &pat.LastName, &pat.IDNumber, &pat.Phone, &pat.Email,
		&treatment, &payment, &startDate, &endDate, &therapy,
	)
	if err != nil {
		return clinic.Patient{}, err
	}
	pat.TreatmentStatus = clinic.TreatmentStatus(treatment)
	pat.PaymentStatus = clinic.PaymentStatus(payment)
	pat.StartDate = textPtr(startDate)
	pat.EndDate = textPtr(endDate)
	pat.TherapistID = textPtr(therapy)
	return pat, nil
}

// ============================================================================
// Payments
// ============================================================================

var paymentColumns = []string{
	"id", "patient_name", "amount", "date", "status", "invoice_number",
	"patient_status", "therapist_id",
}

func (p *Postgres) ListPayments(ctx context.Context) ([]clinic.Payment, error) {
	sql := fmt.Sprintf("SELECT %s FROM payments ORDER BY seq", columnList(paymentColumns))
	rows, err := p.pool.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return pgx.CollectRows(rows, scanPayment)
}

func (p *Postgres) QueryPayments(ctx context.Context, v clinic.Viewer, q clinic.PaymentQuery) (clinic.Page[clinic.Payment], error) {
	wb := NewWhereBuilder()
	scopeTo(wb, v)
	wb.Add("status", string(q.Status))
	wb.Add("patient_status", string(q.PatientStatus))
	wb.AddSearch(q.Search, "patient_name")
	where, args := wb.Build()

	page, size := pageBounds(q.Page, q.PageSize)

	var total int
	if err := p.pool.QueryRow(ctx, "SELECT count(*) FROM payments"+where, args...).Scan(&total); err != nil {
		return clinic.Page[clinic.Payment]{}, fmt.Errorf("count payments: %w", err)
	}

	sql := fmt.Sprintf("SELECT %s FROM payments%s ORDER BY seq LIMIT $%d OFFSET $%d",
		columnList(paymentColumns), where, wb.NextArgIndex(), wb.NextArgIndex()+1)
	rows, err := p.pool.Query(ctx, sql, append(args, size, (page-1)*size)...)
	if err != nil {
		return clinic.Page[clinic.Payment]{}, fmt.Errorf("query payments: %w", err)
	}
	items, err := pgx.CollectRows(rows, scanPayment)
	if err != nil {
		return clinic.Page[clinic.Payment]{}, fmt.Errorf("query payments: %w", err)
	}
	return pageOf(items, total, page, size), nil
}

func (p *Postgres) GetPayment(ctx context.Context, id string) (clinic.Payment, error) {
	sql := fmt.Sprintf("SELECT %s FROM payments WHERE id = $1", columnList(paymentColumns))
	rows, err := p.pool.Query(ctx, sql, id)
	if err != nil {
		return clinic.Payment{}, fmt.Errorf("get payment %s: %w", id, err)
	}
	pay, err := pgx.CollectExactlyOneRow(rows, scanPayment)
	if errors.Is(err, pgx.ErrNoRows) {
		return clinic.Payment{}, fmt.Errorf("get payment %s: %w", id, clinic.ErrPaymentNotFound)
	}
	return pay, err
}

func (p *Postgres) AppendPayments(ctx context.Context, payments []clinic.Payment) error {
	rows := make([][]any, len(payments))
	for i, pay := range payments {
		rows[i] = []any{
			pay.ID, pay.PatientName, pay.Amount, pay.Date, string(pay.Status),
			pay.InvoiceNumber, string(pay.PatientStatus), pay.TherapistID,
		}
	}
	return p.copyIn(ctx, "payments", paymentColumns, rows)
}

func (p *Postgres) UpdatePayment(ctx context.Context, pay clinic.Payment) error {
	tag, err := p.pool.Exec(ctx, `
		UPDATE payments SET patient_name = $2, amount = $3, date = $4, status = $5,
			invoice_number = $6, patient_status = $7, therapist_id = $8
		WHERE id = $1`,
		pay.ID, pay.PatientName, pay.Amount, pay.Date, string(pay.Status),
		pay.InvoiceNumber, string(pay.PatientStatus), pay.TherapistID,
	)
	if err != nil {
		return fmt.Errorf("update payment %s: %w", pay.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update payment %s: %w", pay.ID, clinic.ErrPaymentNotFound)
	}
	return nil
}

func scanPayment(row pgx.CollectableRow) (clinic.Payment, error) {
	var (
		pay                   clinic.Payment
		status, patientStatus string
		therapist             pgtype.Text
	)
	err := row.Scan(
		&pay.ID, &pay.PatientName, &pay.Amount, &pay.Date, &status,
		&pay.InvoiceNumber, &patientStatus, &therapist,
	)
	if err != nil {
		return clinic.Payment{}, err
	}
	pay.Status = clinic.InvoiceStatus(status)
	pay.PatientStatus = clinic.TreatmentStatus(patientStatus)
	pay.TherapistID = textPtr(therapist)
	return pay, nil
}

// ============================================================================
// Therapists and users
// ============================================================================

func (p *Postgres) ListTherapists(ctx context.Context) ([]clinic.Therapist, error) {
	rows, err := p.pool.Query(ctx, "SELECT id, name, email FROM therapists ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("list therapists: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[clinic.Therapist])
}

func (p *Postgres) GetTherapist(ctx context.Context, id string) (clinic.Therapist, error) {
	rows, err := p.pool.Query(ctx, "SELECT id, name, email FROM therapists WHERE id = $1", id)
	if err != nil {
		return clinic.Therapist{}, fmt.Errorf("get therapist %s: %w", id, err)
	}
	t, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[clinic.Therapist])
	if errors.Is(err, pgx.ErrNoRows) {
		return clinic.Therapist{}, fmt.Errorf("get therapist %s: %w", id, clinic.ErrTherapistNotFound)
	}
	return t, err
}

func (p *Postgres) AddTherapists(ctx context.Context, therapists []clinic.Therapist) error {
	rows := make([][]any, len(therapists))
	for i, t := range therapists {
		rows[i] = []any{t.ID, t.Name, t.Email}
	}
	return p.copyIn(ctx, "therapists", []string{"id", "name", "email"}, rows)
}

const userSelect = "SELECT id, name, email, password_hash, role, therapist_id FROM users"

func (p *Postgres) FindUserByEmail(ctx context.Context, email string) (clinic.User, error) {
	return p.oneUser(ctx, userSelect+" WHERE lower(email) = lower($1)", strings.TrimSpace(email))
}

func (p *Postgres) GetUser(ctx context.Context, id string) (clinic.User, error) {
	return p.oneUser(ctx, userSelect+" WHERE id = $1", id)
}

func (p *Postgres) oneUser(ctx context.Context, sql string, arg string) (clinic.User, error) {
	rows, err := p.pool.Query(ctx, sql, arg)
	if err != nil {
		return clinic.User{}, fmt.Errorf("find user: %w", err)
	}
	u, err := pgx.CollectExactlyOneRow(rows, scanUser)
	if errors.Is(err, pgx.ErrNoRows) {
		return clinic.User{}, ErrUserNotFound
	}
	return u, err
}

func (p *Postgres) AddUsers(ctx context.Context, users []clinic.User) error {
	rows := make([][]any, len(users))
	for i, u := range users {
		rows[i] = []any{u.ID, u.Name, u.Email, u.PasswordHash, string(u.Role), clinic.StringPtr(u.TherapistID)}
	}
	cols := []string{"id", "name", "email", "password_hash", "role", "therapist_id"}
	return p.copyIn(ctx, "users", cols, rows)
}

func scanUser(row pgx.CollectableRow) (clinic.User, error) {
	var (
		u         clinic.User
		role      string
		therapist pgtype.Text
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &therapist); err != nil {
		return clinic.User{}, err
	}
	u.Role = clinic.Role(role)
	u.TherapistID = therapist.String
	return u, nil
}

// ============================================================================
// Audit
// ============================================================================

func (p *Postgres) RecordAudit(ctx context.Context, e AuditEntry) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO audit_log (id, action, severity, actor_id, actor_email, ip_address,
			user_agent, subject, detail, rows_affected, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		e.ID, e.Action, e.Severity, e.ActorID, e.ActorEmail, e.IPAddress,
		e.UserAgent, e.Subject, e.Detail, e.RowsAffected, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record audit: %w", err)
	}
	return nil
}

func (p *Postgres) ListAudit(ctx context.Context, limit int) ([]AuditEntry, error) {
	if limit <= 0 {
		limit = DefaultAuditLimit
	}
	rows, err := p.pool.Query(ctx, `
		SELECT id, action, severity, actor_id, actor_email, ip_address, user_agent,
			subject, detail, rows_affected, created_at
		FROM audit_log ORDER BY seq DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[AuditEntry])
}

func (p *Postgres) PruneAudit(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := p.pool.Exec(ctx, "DELETE FROM audit_log WHERE created_at < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune audit: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ============================================================================
// Helpers
// ============================================================================

// copyIn bulk-loads rows with COPY inside a transaction so a failure part way
// through leaves the table untouched.
func (p *Postgres) copyIn(ctx context.Context, table string, columns []string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin %s copy: %w", table, err)
	}
	defer tx.Rollback(ctx) // no-op after commit

	n, err := tx.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("copy into %s: %w", table, err)
	}
	if int(n) != len(rows) {
		return fmt.Errorf("copy into %s: wrote %d of %d rows", table, n, len(rows))
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit %s copy: %w", table, err)
	}
	return nil
}

// scopeTo restricts a query to the rows a therapist may see.
func scopeTo(wb *WhereBuilder, v clinic.Viewer) {
	if tv, ok := v.(clinic.TherapistViewer); ok {
		wb.Add("therapist_id", tv.TherapistID)
	}
}

func columnList(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quoteIdentifier(c)
	}
	return strings.Join(quoted, ", ")
}

func pageBounds(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	return page, clinic.NormalizePageSize(size)
}

func pageOf[T any](items []T, total, page, size int) clinic.Page[T] {
	if items == nil {
		items = []T{}
	}
	return clinic.Page[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   size,
		TotalPages: (total + size - 1) / size,
	}
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}
