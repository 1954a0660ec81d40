package core

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// AssignmentField is the record field that holds the assigned therapist.
// It is never settable from an imported file.
const AssignmentField = "therapistId"

// FieldType represents the expected data type for a CSV field.
type FieldType int

const (
	FieldText FieldType = iota
	FieldEnum
	FieldDate
	FieldNumeric
	FieldEmail
)

func (t FieldType) String() string {
	switch t {
	case FieldText:
		return "text"
	case FieldEnum:
		return "enum"
	case FieldDate:
		return "date"
	case FieldNumeric:
		return "numeric"
	case FieldEmail:
		return "email"
	default:
		return fmt.Sprintf("FieldType(%d)", int(t))
	}
}

// FieldSpec pairs one CSV column with the record field it fills.
type FieldSpec struct {
	Column     string    // Header name as it appears in the file
	Field      string    // Target record field
	Label      string    // Name used in messages; defaults to Column
	Type       FieldType // Expected data type
	Required   bool      // Column must exist in the header and the cell must be non-empty
	EnumValues []string  // Closed value set for FieldEnum
}

// DisplayLabel returns the label used in user-facing messages.
func (f FieldSpec) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Column
}

// ColumnSchema is the ordered list of columns an import understands.
// Validation runs in this order, so it also decides which rule fails first.
type ColumnSchema struct {
	Fields []FieldSpec
}

// RequiredColumns returns the names of all required columns in schema order.
func (s ColumnSchema) RequiredColumns() []string {
	var cols []string
	for _, f := range s.Fields {
		if f.Required {
			cols = append(cols, f.Column)
		}
	}
	return cols
}

// Columns returns every column name in schema order.
func (s ColumnSchema) Columns() []string {
	cols := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		cols[i] = f.Column
	}
	return cols
}

// FieldFor returns the spec for a header name, matched after normalization.
func (s ColumnSchema) FieldFor(column string) (FieldSpec, bool) {
	key := NormalizeHeader(column)
	for _, f := range s.Fields {
		if NormalizeHeader(f.Column) == key {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// Validate checks the schema itself for configuration mistakes.
func (s ColumnSchema) Validate() error {
	if len(s.Fields) == 0 {
		return fmt.Errorf("schema has no fields")
	}

	columns := make(map[string]bool, len(s.Fields))
	fields := make(map[string]bool, len(s.Fields))
	var problems []string

	for _, f := range s.Fields {
		col := NormalizeHeader(f.Column)
		switch {
		case col == "":
			problems = append(problems, "field "+f.Field+" has no column")
		case columns[col]:
			problems = append(problems, "duplicate column "+f.Column)
		}
		columns[col] = true

		switch {
		case f.Field == "":
			problems = append(problems, "column "+f.Column+" has no target field")
		case f.Field == AssignmentField:
			problems = append(problems, "column "+f.Column+" targets the assignment field")
		case fields[f.Field]:
			problems = append(problems, "duplicate field "+f.Field)
		}
		fields[f.Field] = true

		if f.Type == FieldEnum && len(f.EnumValues) == 0 {
			problems = append(problems, "enum column "+f.Column+" has no values")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid schema: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Row is one validated data line, handed to a Schema's Build function.
type Row struct {
	ID      string    // Freshly generated record identifier
	Line    int       // 1-based display line (header is line 1)
	Index   int       // 0-based position among data rows
	Batch   time.Time // Time the batch started; shared by all rows
	values  map[string]string
	numbers map[string]float64
}

// Get returns the trimmed value projected onto field.
func (r Row) Get(field string) string {
	return r.values[field]
}

// Optional returns a pointer to the value of field, or nil when empty.
func (r Row) Optional(field string) *string {
	v := r.values[field]
	if v == "" {
		return nil
	}
	return &v
}

// Number returns the coerced value of a FieldNumeric field.
func (r Row) Number(field string) float64 {
	return r.numbers[field]
}

// Schema is a ColumnSchema plus the typed projection that builds records.
type Schema[T any] struct {
	Columns ColumnSchema

	// Build turns a validated row into a record. The assignment field must be
	// left unset. A returned error rejects the row like a validation failure.
	Build func(Row) (T, error)

	// Locale selects the language of messages. The zero value uses the default.
	Locale language.Tag

	// Now overrides the batch clock in tests.
	Now func() time.Time

	// NewID overrides identifier generation in tests.
	NewID func() (string, error)
}

// ErrorKind separates whole-file failures from per-row failures.
type ErrorKind string

const (
	KindStructural ErrorKind = "structural"
	KindRow        ErrorKind = "row"
)

// ImportError is one user-facing problem found while importing.
type ImportError struct {
	Kind    ErrorKind `json:"kind"`
	Line    int       `json:"line,omitempty"`
	Column  string    `json:"column,omitempty"`
	Value   string    `json:"value,omitempty"`
	Rule    string    `json:"rule,omitempty"`
	Message string    `json:"message"`
}

func (e ImportError) Error() string {
	return e.Message
}

// MaxReportedErrors is the number of errors returned from a failed import.
const MaxReportedErrors = 10

// Result is the outcome of one import call. Exactly one of Records and
// Errors is populated.
type Result[T any] struct {
	Records     []T
	Errors      []ImportError // at most MaxReportedErrors
	TotalErrors int           // true number of errors found
}

// OK reports whether the import produced records.
func (r Result[T]) OK() bool {
	return r.TotalErrors == 0
}

// Err returns the failure as a *BatchError, or nil when the import succeeded.
func (r Result[T]) Err() error {
	if r.OK() {
		return nil
	}
	return newBatchError(r.Errors, r.TotalErrors)
}
