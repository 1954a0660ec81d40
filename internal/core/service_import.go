package core

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/JonMunkholm/clinic/internal/clinic"
	"github.com/JonMunkholm/clinic/internal/logging"
)

// Upload is a file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// ImportDefinitions lists the registered import types. Admin only.
func (s *Service) ImportDefinitions(v clinic.Viewer) ([]Definition, error) {
	if err := requireManage(v); err != nil {
		return nil, err
	}
	return All(), nil
}

// ImportFile validates an uploaded file and, when every row is valid, appends
// its records to the store. Admin only.
//
// The file is read only after an import slot is free, and reading, validating
// and storing share the Options.ImportTimeout deadline.
//
// The returned Outcome carries the row errors of a rejected file; the error
// is then a *BatchError. Store failures return a *DownstreamError.
func (s *Service) ImportFile(ctx context.Context, v clinic.Viewer, key string, up Upload) (Outcome, error) {
	def, err := s.checkUpload(v, key, up)
	if err != nil {
		return Outcome{}, err
	}

	log := logging.WithFields(ctx, "import", key, "file", up.Filename)

	if err := s.limiter.Acquire(ctx); err != nil {
		log.Warn("import rejected by limiter", "error", err)
		return Outcome{}, err
	}
	defer s.limiter.Release()

	ctx, cancel := context.WithTimeout(ctx, s.opts.ImportTimeout)
	defer cancel()

	raw, err := s.decode(ctx, up)
	if err != nil {
		log.Warn("import file unreadable", "error", err)
		return Outcome{}, err
	}

	log.Info("import started")
	out, err := def.Apply(ctx, s.store, raw, LocaleFrom(ctx))

	var batch *BatchError
	switch {
	case errors.As(err, &batch):
		log.Info("import rejected", "errors", batch.Total)
		s.audit(ctx, auditParams{
			Action:  ActionImportRejected,
			Actor:   v.User(),
			Subject: key,
			Detail:  fmt.Sprintf("%s: %d errors", up.Filename, batch.Total),
		})
		return out, err
	case err != nil:
		log.Error("import failed", "error", err)
		return Outcome{}, err
	}

	log.Info("import completed", "rows", out.Imported)
	s.audit(ctx, auditParams{
		Action:       ActionImport,
		Actor:        v.User(),
		Subject:      key,
		Detail:       up.Filename,
		RowsAffected: out.Imported,
	})
	return out, nil
}

// PreviewImport validates an uploaded file without storing anything. Admin only.
func (s *Service) PreviewImport(ctx context.Context, v clinic.Viewer, key string, up Upload) (Outcome, error) {
	def, err := s.checkUpload(v, key, up)
	if err != nil {
		return Outcome{}, err
	}
	raw, err := s.decode(ctx, up)
	if err != nil {
		return Outcome{}, err
	}
	return def.Preview(raw, LocaleFrom(ctx)), nil
}

// Template returns the header-only file for an import type. Admin only.
func (s *Service) Template(v clinic.Viewer, key string) (string, error) {
	if err := requireManage(v); err != nil {
		return "", err
	}
	def, err := lookup(key)
	if err != nil {
		return "", err
	}
	return def.Template(), nil
}

// Export renders every stored record of an import type in its import
// format. Admin only.
func (s *Service) Export(ctx context.Context, v clinic.Viewer, key string) (string, error) {
	if err := requireManage(v); err != nil {
		return "", err
	}
	def, err := lookup(key)
	if err != nil {
		return "", err
	}
	text, err := def.Export(ctx, s.store)
	if err != nil {
		return "", fmt.Errorf("export %s: %w", key, err)
	}
	s.audit(ctx, auditParams{Action: ActionExport, Actor: v.User(), Subject: key})
	return text, nil
}

// ImportStatus reports limiter occupancy.
func (s *Service) ImportStatus() ImportLimiterStatus {
	return s.limiter.Status()
}

// WaitForImports blocks until running imports finish or ctx is done.
func (s *Service) WaitForImports(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// checkUpload runs the checks shared by import and preview. The body is not
// read.
func (s *Service) checkUpload(v clinic.Viewer, key string, up Upload) (Definition, error) {
	if err := requireManage(v); err != nil {
		return Definition{}, err
	}
	def, err := lookup(key)
	if err != nil {
		return Definition{}, err
	}
	if up.Body == nil {
		return Definition{}, ErrNoFile
	}
	if !IsCSVUpload(up.Filename, up.ContentType) {
		return Definition{}, fmt.Errorf("%w: %s", ErrNotCSV, up.Filename)
	}
	return def, nil
}

// decode reads the upload into text. A deadline that passes while reading
// wins over the decoded text.
func (s *Service) decode(ctx context.Context, up Upload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	raw, err := DecodeText(up.Body, s.opts.MaxFileSize, s.opts.Fallback)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return raw, nil
}

func lookup(key string) (Definition, error) {
	def, ok := Get(key)
	if !ok {
		return Definition{}, fmt.Errorf("%w: %s", ErrUnknownImport, key)
	}
	return def, nil
}
