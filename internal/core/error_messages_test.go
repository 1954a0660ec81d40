package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"golang.org/x/text/language"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "empty file sentinel",
			err:         ErrEmptyFile,
			wantCode:    "IMP001",
			wantMessage: "The file is empty or contains only a header",
		},
		{
			name:        "missing columns batch",
			err:         &BatchError{Errors: []ImportError{{Message: "x"}}, Total: 1, cause: ErrMissingColumns},
			wantCode:    "IMP002",
			wantMessage: "The CSV file is missing required columns",
		},
		{
			name:        "invalid rows wrapped",
			err:         fmt.Errorf("import patients: %w", ErrRowsInvalid),
			wantCode:    "IMP003",
			wantMessage: "Some rows in the file are invalid",
		},
		{
			name:        "downstream failure hides cause",
			err:         &DownstreamError{Op: "append patients", Err: errors.New("dial tcp: connection refused")},
			wantCode:    "STORE001",
			wantMessage: "The server failed to import the data",
		},
		{
			name:        "connection refused outside import",
			err:         errors.New("dial tcp: connection refused"),
			wantCode:    "STORE002",
			wantMessage: "Unable to connect to database",
		},
		{
			name:        "not a csv file",
			err:         ErrNotCSV,
			wantCode:    "FILE002",
			wantMessage: "Only CSV files can be imported",
		},
		{
			name:        "too many imports",
			err:         ErrTooManyImports,
			wantCode:    "UPL001",
			wantMessage: "System is busy processing other imports",
		},
		{
			name:        "deadline",
			err:         context.DeadlineExceeded,
			wantCode:    "UPL003",
			wantMessage: "Request timed out",
		},
		{
			name:        "rate limit maps correctly",
			err:         errors.New("rate limit exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("INVALID CREDENTIALS"),
			wantCode:    "AUTH001",
			wantMessage: "Wrong email or password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestMapErrorIn_Hebrew(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "store failure", err: &DownstreamError{Op: "append", Err: errors.New("boom")}, want: "שגיאה בעת ייבוא הנתונים לשרת."},
		{name: "bad login", err: errors.New("invalid credentials"), want: "אימייל או סיסמה שגויים"},
		{name: "wrong file type", err: ErrNotCSV, want: "יש לבחור קובץ מסוג CSV בלבד."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapErrorIn(tt.err, language.Hebrew)
			if got.Message != tt.want {
				t.Errorf("MapErrorIn() message = %q, want %q", got.Message, tt.want)
			}
		})
	}
}

func TestMapErrorIn_EnglishKeepsBuiltIn(t *testing.T) {
	got := MapErrorIn(ErrNotCSV, language.English)
	if got.Message != "Only CSV files can be imported" {
		t.Errorf("MapErrorIn() message = %q", got.Message)
	}
}
