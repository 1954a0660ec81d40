package core

import (
	"reflect"
	"testing"
)

// ----------------------------------------------------------------------------
// ParseNumber Tests
// ----------------------------------------------------------------------------

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   float64
		wantOK bool
	}{
		// Valid: basic
		{name: "positive integer", input: "350", want: 350, wantOK: true},
		{name: "zero", input: "0", want: 0, wantOK: true},
		{name: "negative integer", input: "-456", want: -456, wantOK: true},
		{name: "decimal number", input: "123.45", want: 123.45, wantOK: true},
		{name: "leading decimal point", input: ".99", want: 0.99, wantOK: true},
		{name: "trailing decimal point", input: "99.", want: 99, wantOK: true},
		{name: "scientific notation", input: "1e3", want: 1000, wantOK: true},
		{name: "surrounding whitespace", input: "  400  ", want: 400, wantOK: true},

		// Valid: currency and accounting forms
		{name: "shekel sign", input: "₪350", want: 350, wantOK: true},
		{name: "shekel sign after", input: "350 ₪", want: 350, wantOK: true},
		{name: "dollar sign", input: "$12.5", want: 12.5, wantOK: true},
		{name: "accounting negative", input: "(123.45)", want: -123.45, wantOK: true},

		// Invalid
		{name: "empty", input: "", wantOK: false},
		{name: "whitespace only", input: "   ", wantOK: false},
		{name: "letters", input: "abc", wantOK: false},
		{name: "trailing letters", input: "12abc", wantOK: false},
		{name: "NaN literal", input: "NaN", wantOK: false},
		{name: "Inf literal", input: "Inf", wantOK: false},
		{name: "hex", input: "0x1F", wantOK: false},
		{name: "two decimal points", input: "1.2.3", wantOK: false},
		{name: "currency only", input: "₪", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseNumber(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseNumber(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ParseNumber(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatNumber_RoundTrips(t *testing.T) {
	for _, n := range []float64{0, 350, 123.45, -7.5, 1e6} {
		s := FormatNumber(n)
		got, ok := ParseNumber(s)
		if !ok || got != n {
			t.Errorf("ParseNumber(FormatNumber(%v)) = %v, %v", n, got, ok)
		}
	}
}

// ----------------------------------------------------------------------------
// Line and cell splitting Tests
// ----------------------------------------------------------------------------

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "unix newlines", input: "a\nb\nc", want: []string{"a", "b", "c"}},
		{name: "windows newlines", input: "a\r\nb\r\n", want: []string{"a", "b"}},
		{name: "blank lines dropped", input: "a\n\n   \nb\n", want: []string{"a", "b"}},
		{name: "lines trimmed", input: "  a  \n\tb", want: []string{"a", "b"}},
		{name: "empty", input: "", want: []string{}},
		{name: "whitespace only", input: " \n \r\n", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitLines(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitLines(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSplitCells(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "simple", input: "a,b,c", want: []string{"a", "b", "c"}},
		{name: "cells trimmed", input: " דנה , לוי ", want: []string{"דנה", "לוי"}},
		{name: "empty cells kept", input: "a,,c,", want: []string{"a", "", "c", ""}},
		{name: "quotes not interpreted", input: `"a,b",c`, want: []string{`"a`, `b"`, "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitCells(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitCells(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"שם פרטי", "שם פרטי"},
		{"  patientName ", "patientName"},
		{"\ufeffשם פרטי", "שם פרטי"},
		{`"amount"`, `"amount"`},
		{"Amount", "Amount"},
	}
	for _, tt := range tests {
		if got := NormalizeHeader(tt.input); got != tt.want {
			t.Errorf("NormalizeHeader(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestIsEmail(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"dana@x.com", true},
		{"a.b@clinic.co.il", true},
		{"not-an-email", false},
		{"a@b", false},
		{"a b@x.com", false},
		{"@x.com", false},
		{"a@@x.com", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsEmail(tt.input); got != tt.want {
			t.Errorf("IsEmail(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
