package core

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/clinic/internal/clinic"
	"github.com/JonMunkholm/clinic/internal/logging"
	"github.com/JonMunkholm/clinic/internal/store"
)

// AuditAction represents the type of action being audited.
type AuditAction string

const (
	ActionLogin          AuditAction = "login"
	ActionLoginFailed    AuditAction = "login_failed"
	ActionImport         AuditAction = "import"
	ActionImportRejected AuditAction = "import_rejected"
	ActionAssignPatient  AuditAction = "assign_patient"
	ActionAssignPayment  AuditAction = "assign_payment"
	ActionExport         AuditAction = "export"
)

// AuditSeverity represents the severity level of an audit entry.
type AuditSeverity string

const (
	SeverityLow    AuditSeverity = "low"
	SeverityMedium AuditSeverity = "medium"
	SeverityHigh   AuditSeverity = "high"
)

// determineSeverity returns the appropriate severity for an action.
func determineSeverity(action AuditAction) AuditSeverity {
	switch action {
	case ActionImport, ActionLoginFailed:
		return SeverityHigh
	case ActionLogin, ActionImportRejected:
		return SeverityLow
	default:
		return SeverityMedium
	}
}

// auditParams contains the variable part of an audit entry.
type auditParams struct {
	Action       AuditAction
	Actor        clinic.User
	Subject      string
	Detail       string
	RowsAffected int
}

// audit records an entry. Failures are logged, not returned.
func (s *Service) audit(ctx context.Context, p auditParams) {
	meta := RequestMetaFrom(ctx)
	entry := store.AuditEntry{
		ID:           uuid.NewString(),
		Action:       string(p.Action),
		Severity:     string(determineSeverity(p.Action)),
		ActorID:      p.Actor.ID,
		ActorEmail:   p.Actor.Email,
		IPAddress:    meta.IPAddress,
		UserAgent:    meta.UserAgent,
		Subject:      p.Subject,
		Detail:       p.Detail,
		RowsAffected: p.RowsAffected,
		CreatedAt:    s.now().UTC().Truncate(time.Microsecond),
	}
	if err := s.store.RecordAudit(ctx, entry); err != nil {
		logging.FromContext(ctx).Error("failed to record audit entry",
			slog.String("action", entry.Action),
			slog.String("error", err.Error()),
		)
	}
}
