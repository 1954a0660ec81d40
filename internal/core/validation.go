package core

import (
	"slices"
)

// Rule names carried on ImportError.Rule.
const (
	ruleEmpty          = "empty_file"
	ruleMissingColumns = "missing_columns"
	ruleRequired       = "required"
	ruleEnum           = "enum"
	ruleEmail          = "email"
	ruleNumber         = "number"
	ruleBuild          = "build"
)

// HeaderMap maps a target field to its cell position in the actual file.
type HeaderMap map[string]int

// ValidateHeaders matches the header row against the schema.
//
// It returns the field positions for every schema column present in the
// header, plus the required columns that are absent (in schema order).
// Unknown header columns are ignored; a repeated column keeps its last
// position.
func ValidateHeaders(header []string, schema ColumnSchema) (HeaderMap, []string) {
	idx := make(HeaderMap, len(schema.Fields))
	for i, h := range header {
		if f, ok := schema.FieldFor(h); ok {
			idx[f.Field] = i
		}
	}

	var missing []string
	for _, f := range schema.Fields {
		if _, ok := idx[f.Field]; !ok && f.Required {
			missing = append(missing, f.Column)
		}
	}
	return idx, missing
}

// Project reads the cells of one line into a field-keyed map.
// Short lines yield empty values for the absent cells.
func Project(cells []string, idx HeaderMap) map[string]string {
	values := make(map[string]string, len(idx))
	for field, pos := range idx {
		if pos < len(cells) {
			values[field] = cells[pos]
		} else {
			values[field] = ""
		}
	}
	return values
}

// ValidationError describes the first rule a row broke.
type ValidationError struct {
	Spec  FieldSpec
	Value string
	Rule  string
}

// ValidateRow checks a projected row and returns the first failure, or nil.
//
// All required fields are checked for presence first, in schema order; then
// each non-empty value is checked against its type in schema order.
func ValidateRow(values map[string]string, schema ColumnSchema) *ValidationError {
	for _, f := range schema.Fields {
		if f.Required && values[f.Field] == "" {
			return &ValidationError{Spec: f, Rule: ruleRequired}
		}
	}

	for _, f := range schema.Fields {
		v := values[f.Field]
		if v == "" {
			continue
		}
		if rule := ValidateCell(v, f); rule != "" {
			return &ValidationError{Spec: f, Value: v, Rule: rule}
		}
	}
	return nil
}

// ValidateCell checks one non-empty value against its field type and
// returns the name of the broken rule, or "".
func ValidateCell(value string, spec FieldSpec) string {
	switch spec.Type {
	case FieldEnum:
		if !slices.Contains(spec.EnumValues, value) {
			return ruleEnum
		}
	case FieldEmail:
		if !IsEmail(value) {
			return ruleEmail
		}
	case FieldNumeric:
		if _, ok := ParseNumber(value); !ok {
			return ruleNumber
		}
	}
	return ""
}
