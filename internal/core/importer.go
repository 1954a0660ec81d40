package core

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/message"

	"github.com/JonMunkholm/clinic/internal/i18n"
)

// Import parses raw CSV text into records described by schema.
//
// The import is all-or-nothing. A file with fewer than two non-blank lines,
// or whose header lacks required columns, fails with a single structural
// error. Otherwise every data line is validated independently and the first
// broken rule of each line is reported with its display line number. If any
// line fails, no records are returned; the first MaxReportedErrors errors are
// returned together with the true total.
//
// Import performs no I/O and holds no state between calls.
func Import[T any](raw string, schema Schema[T]) Result[T] {
	if schema.Build == nil {
		panic("core: schema has no Build function")
	}
	p := i18n.Printer(schema.Locale)

	lines := SplitLines(raw)
	if len(lines) < 2 {
		return failed[T](ImportError{
			Kind:    KindStructural,
			Rule:    ruleEmpty,
			Message: p.Sprintf("import.empty_file"),
		})
	}

	idx, missing := ValidateHeaders(SplitCells(lines[0]), schema.Columns)
	if len(missing) > 0 {
		names := strings.Join(missing, ", ")
		return failed[T](ImportError{
			Kind:    KindStructural,
			Rule:    ruleMissingColumns,
			Value:   names,
			Message: p.Sprintf("import.missing_columns", names),
		})
	}

	batch := time.Now()
	if schema.Now != nil {
		batch = schema.Now()
	}
	newID := schema.NewID
	if newID == nil {
		newID = newRecordID
	}

	var (
		records []T
		errs    []ImportError
		total   int
	)
	report := func(e ImportError) {
		total++
		if len(errs) < MaxReportedErrors {
			errs = append(errs, e)
		}
	}

	for i, line := range lines[1:] {
		// Line 1 is the header, so the first data line displays as 2.
		lineNo := i + 2
		values := Project(SplitCells(line), idx)

		if ve := ValidateRow(values, schema.Columns); ve != nil {
			report(rowError(p, lineNo, ve))
			continue
		}

		id, err := newID()
		if err != nil {
			report(ImportError{Kind: KindRow, Line: lineNo, Rule: ruleBuild, Message: p.Sprintf("import.row.invalid", strconv.Itoa(lineNo), err.Error())})
			continue
		}

		row := Row{
			ID:      id,
			Line:    lineNo,
			Index:   i,
			Batch:   batch,
			values:  values,
			numbers: numericValues(values, schema.Columns),
		}
		rec, err := schema.Build(row)
		if err != nil {
			report(ImportError{Kind: KindRow, Line: lineNo, Rule: ruleBuild, Message: p.Sprintf("import.row.invalid", strconv.Itoa(lineNo), err.Error())})
			continue
		}
		records = append(records, rec)
	}

	if total > 0 {
		return Result[T]{Errors: errs, TotalErrors: total}
	}
	return Result[T]{Records: records}
}

func failed[T any](e ImportError) Result[T] {
	return Result[T]{Errors: []ImportError{e}, TotalErrors: 1}
}

// rowError formats a failed row. Line numbers are passed as text so the
// printer does not group their digits.
func rowError(p *message.Printer, line int, ve *ValidationError) ImportError {
	label := ve.Spec.DisplayLabel()
	n := strconv.Itoa(line)
	var msg string
	switch ve.Rule {
	case ruleRequired:
		msg = p.Sprintf("import.row.required", n, label)
	case ruleEnum:
		msg = p.Sprintf("import.row.enum", n, label, ve.Value)
	case ruleEmail:
		msg = p.Sprintf("import.row.email", n, label, ve.Value)
	case ruleNumber:
		msg = p.Sprintf("import.row.number", n, label, ve.Value)
	default:
		msg = p.Sprintf("import.row.invalid", n, ve.Value)
	}
	return ImportError{
		Kind:    KindRow,
		Line:    line,
		Column:  ve.Spec.Column,
		Value:   ve.Value,
		Rule:    ve.Rule,
		Message: msg,
	}
}

func numericValues(values map[string]string, schema ColumnSchema) map[string]float64 {
	var nums map[string]float64
	for _, f := range schema.Fields {
		if f.Type != FieldNumeric {
			continue
		}
		if n, ok := ParseNumber(values[f.Field]); ok {
			if nums == nil {
				nums = make(map[string]float64)
			}
			nums[f.Field] = n
		}
	}
	return nums
}

// newRecordID returns a time-ordered UUIDv7, unique across batches.
func newRecordID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
