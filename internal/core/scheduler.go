package core

// scheduler.go runs background maintenance for the service.
//
// The only job today is audit retention: entries older than the configured
// number of days are deleted on startup and then once per interval. Failures
// are logged and retried on the next tick.

import (
	"context"
	"log/slog"
	"time"
)

// RetentionConfig controls audit log pruning. Zero values get defaults.
type RetentionConfig struct {
	RetentionDays int           // Days of audit history to keep (default: 365)
	CheckInterval time.Duration // How often to prune (default: 24h)
}

func (c RetentionConfig) withDefaults() RetentionConfig {
	if c.RetentionDays <= 0 {
		c.RetentionDays = 365
	}
	if c.CheckInterval <= 0 {
		c.CheckInterval = 24 * time.Hour
	}
	return c
}

// StartRetentionScheduler prunes the audit log immediately and then every
// CheckInterval until ctx is cancelled. It blocks; run it in a goroutine.
func (s *Service) StartRetentionScheduler(ctx context.Context, cfg RetentionConfig) {
	cfg = cfg.withDefaults()
	slog.Info("audit retention scheduler started",
		"retention_days", cfg.RetentionDays,
		"interval", cfg.CheckInterval.String(),
	)

	s.PruneAudit(ctx, cfg.RetentionDays)

	ticker := time.NewTicker(cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("audit retention scheduler stopped")
			return
		case <-ticker.C:
			s.PruneAudit(ctx, cfg.RetentionDays)
		}
	}
}

// PruneAudit deletes audit entries older than days and returns the count.
func (s *Service) PruneAudit(ctx context.Context, days int) int64 {
	start := time.Now()
	cutoff := s.now().AddDate(0, 0, -days)

	n, err := s.store.PruneAudit(ctx, cutoff)
	if err != nil {
		slog.Error("audit prune failed", "error", err)
		return 0
	}
	slog.Info("pruned audit log",
		"entries_pruned", n,
		"cutoff", cutoff.Format(time.RFC3339),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return n
}
