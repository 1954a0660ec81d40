package core

import (
	"context"
	"strings"

	"golang.org/x/text/language"

	"github.com/JonMunkholm/clinic/internal/store"
)

// Outcome summarizes one import attempt for callers that do not need the
// records themselves.
type Outcome struct {
	Imported    int           `json:"imported"`
	Errors      []ImportError `json:"errors,omitempty"`
	TotalErrors int           `json:"totalErrors"`
}

// OK reports whether the file was accepted.
func (o Outcome) OK() bool {
	return o.TotalErrors == 0
}

// Messages returns the reported error messages in order.
func (o Outcome) Messages() []string {
	return errorMessages(o.Errors)
}

// Sink connects the records of one import type to the store.
type Sink[T any] struct {
	// Append stores a validated batch after the existing records.
	Append func(ctx context.Context, st store.Store, records []T) error

	// List returns every stored record, used by Export.
	List func(ctx context.Context, st store.Store) ([]T, error)

	// Row renders a record as cells in schema column order.
	Row func(T) []string
}

// Definition is a registered import type. It hides the record type behind
// closures so definitions of different types can share one registry.
type Definition struct {
	Key     string
	Label   string
	Columns ColumnSchema

	apply   func(ctx context.Context, st store.Store, raw string, tag language.Tag) (Outcome, error)
	preview func(raw string, tag language.Tag) Outcome
	export  func(ctx context.Context, st store.Store) ([][]string, error)
}

// NewDefinition binds a typed schema and sink into a Definition.
// It panics when the schema is misconfigured.
func NewDefinition[T any](key, label string, schema Schema[T], sink Sink[T]) Definition {
	if err := schema.Columns.Validate(); err != nil {
		panic("core: definition " + key + ": " + err.Error())
	}
	if sink.Append == nil {
		panic("core: definition " + key + " has no Append")
	}

	run := func(raw string, tag language.Tag) Result[T] {
		s := schema
		s.Locale = tag
		return Import(raw, s)
	}

	def := Definition{
		Key:     key,
		Label:   label,
		Columns: schema.Columns,
		preview: func(raw string, tag language.Tag) Outcome {
			res := run(raw, tag)
			return Outcome{Imported: len(res.Records), Errors: res.Errors, TotalErrors: res.TotalErrors}
		},
		apply: func(ctx context.Context, st store.Store, raw string, tag language.Tag) (Outcome, error) {
			res := run(raw, tag)
			if !res.OK() {
				return Outcome{Errors: res.Errors, TotalErrors: res.TotalErrors}, res.Err()
			}
			if err := sink.Append(ctx, st, res.Records); err != nil {
				return Outcome{}, &DownstreamError{Op: "append " + key, Err: err}
			}
			return Outcome{Imported: len(res.Records)}, nil
		},
	}

	if sink.List != nil && sink.Row != nil {
		def.export = func(ctx context.Context, st store.Store) ([][]string, error) {
			recs, err := sink.List(ctx, st)
			if err != nil {
				return nil, err
			}
			rows := make([][]string, len(recs))
			for i, r := range recs {
				rows[i] = sink.Row(r)
			}
			return rows, nil
		}
	}
	return def
}

// Apply imports raw into st. A rejected file returns its errors in the
// Outcome together with a *BatchError; a store failure returns a
// *DownstreamError and no row errors.
func (d Definition) Apply(ctx context.Context, st store.Store, raw string, tag language.Tag) (Outcome, error) {
	return d.apply(ctx, st, raw, tag)
}

// Preview validates raw without storing anything.
func (d Definition) Preview(raw string, tag language.Tag) Outcome {
	return d.preview(raw, tag)
}

// Template returns a header-only file for this import type.
func (d Definition) Template() string {
	return JoinRow(d.Columns.Columns()) + "\n"
}

// Exportable reports whether the definition can render stored records.
func (d Definition) Exportable() bool {
	return d.export != nil
}

// Export renders every stored record in the import format, header first.
func (d Definition) Export(ctx context.Context, st store.Store) (string, error) {
	if d.export == nil {
		return "", ErrUnknownImport
	}
	rows, err := d.export(ctx, st)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(d.Template())
	for _, r := range rows {
		b.WriteString(JoinRow(r))
		b.WriteByte('\n')
	}
	return b.String(), nil
}
