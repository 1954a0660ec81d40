// Package logging configures log/slog for the clinic server.
//
// Loggers taken from a request context carry the chi request id and, once
// the session middleware has run, the signed-in user.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
)

type ctxKey struct{}

type actor struct {
	id   string
	role string
}

// Setup installs the process-wide logger and returns it.
//
// Level is one of debug, info, warn or error (default info). Format is
// "json" or "text" (default text). A nil w writes to stdout.
func Setup(level, format string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// ParseLevel converts a level name to slog.Level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithActor records the signed-in user in ctx for later log lines.
func WithActor(ctx context.Context, userID, role string) context.Context {
	return context.WithValue(ctx, ctxKey{}, actor{id: userID, role: role})
}

// FromContext returns the default logger with request_id and the actor
// attached when ctx carries them.
func FromContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()

	if reqID := middleware.GetReqID(ctx); reqID != "" {
		logger = logger.With("request_id", reqID)
	}
	if a, ok := ctx.Value(ctxKey{}).(actor); ok {
		logger = logger.With("user_id", a.id, "role", a.role)
	}
	return logger
}

// WithFields returns a request logger with extra attributes, for operations
// that log several steps:
//
//	log := logging.WithFields(ctx, "import", key)
//	log.Info("import started")
//	log.Info("import completed", "rows", n)
func WithFields(ctx context.Context, args ...any) *slog.Logger {
	return FromContext(ctx).With(args...)
}
