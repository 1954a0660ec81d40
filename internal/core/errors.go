package core

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for errors.Is checks against import failures.
var (
	ErrEmptyFile      = errors.New("import: empty file or header only")
	ErrMissingColumns = errors.New("import: missing required columns")
	ErrRowsInvalid    = errors.New("import: invalid rows")
	ErrUnknownImport  = errors.New("import: unknown import type")
	ErrNotCSV         = errors.New("import: not a csv file")
	ErrFileTooLarge   = errors.New("import: file too large")
	ErrNoFile         = errors.New("import: no file provided")
)

// BatchError is returned when an import is rejected as a whole.
type BatchError struct {
	Errors []ImportError
	Total  int
	cause  error
}

func newBatchError(errs []ImportError, total int) *BatchError {
	cause := ErrRowsInvalid
	if len(errs) > 0 && errs[0].Kind == KindStructural {
		cause = ErrMissingColumns
		if errs[0].Rule == ruleEmpty {
			cause = ErrEmptyFile
		}
	}
	return &BatchError{Errors: errs, Total: total, cause: cause}
}

func (e *BatchError) Error() string {
	if len(e.Errors) == 1 && e.Total == 1 {
		return fmt.Sprintf("%v: %s", e.cause, e.Errors[0].Message)
	}
	return fmt.Sprintf("%v (%d total): %s", e.cause, e.Total, strings.Join(errorMessages(e.Errors), "; "))
}

func errorMessages(errs []ImportError) []string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Message
	}
	return msgs
}

func (e *BatchError) Unwrap() error {
	return e.cause
}

// DownstreamError wraps a failure of the store that receives imported
// records. It is reported with its own generic message and never mixed
// with row errors.
type DownstreamError struct {
	Op  string
	Err error
}

func (e *DownstreamError) Error() string {
	return fmt.Sprintf("import store failure during %s: %v", e.Op, e.Err)
}

func (e *DownstreamError) Unwrap() error {
	return e.Err
}
