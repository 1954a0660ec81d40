package core

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

func TestDecodeText(t *testing.T) {
	win1255, err := charmap.Windows1255.NewEncoder().String("שם פרטי,שם משפחה")
	if err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	utf16, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String("a,b\n1,2")
	if err != nil {
		t.Fatalf("encode fixture: %v", err)
	}

	tests := []struct {
		name     string
		input    []byte
		fallback bool
		want     string
	}{
		{
			name:  "plain utf-8",
			input: []byte("שם פרטי,אימייל"),
			want:  "שם פרטי,אימייל",
		},
		{
			name:  "utf-8 with BOM",
			input: append([]byte{0xEF, 0xBB, 0xBF}, []byte("a,b")...),
			want:  "a,b",
		},
		{
			name:  "only BOM",
			input: []byte{0xEF, 0xBB, 0xBF},
			want:  "",
		},
		{
			name:  "utf-16 with BOM",
			input: []byte(utf16),
			want:  "a,b\n1,2",
		},
		{
			name:     "windows-1255 with fallback",
			input:    []byte(win1255),
			fallback: true,
			want:     "שם פרטי,שם משפחה",
		},
		{
			name:  "invalid bytes without fallback are replaced",
			input: []byte{'a', 0xFF, 'b'},
			want:  "a�b",
		},
		{
			name:  "empty",
			input: nil,
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fallback encoding.Encoding
			if tt.fallback {
				fallback = charmap.Windows1255
			}
			got, err := DecodeText(bytes.NewReader(tt.input), 1024, fallback)
			if err != nil {
				t.Fatalf("DecodeText() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DecodeText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeText_Limit(t *testing.T) {
	input := strings.Repeat("x", 11)

	if _, err := DecodeText(strings.NewReader(input), 10, nil); !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("DecodeText() error = %v, want ErrFileTooLarge", err)
	}
	if got, err := DecodeText(strings.NewReader(input[:10]), 10, nil); err != nil || got != input[:10] {
		t.Errorf("DecodeText() at limit = %q, %v", got, err)
	}
}

func TestLookupEncoding(t *testing.T) {
	enc, err := LookupEncoding("windows-1255")
	if err != nil || enc == nil {
		t.Fatalf("LookupEncoding(windows-1255) = %v, %v", enc, err)
	}

	enc, err = LookupEncoding("none")
	if err != nil || enc != nil {
		t.Errorf("LookupEncoding(none) = %v, %v; want nil, nil", enc, err)
	}

	if _, err := LookupEncoding("klingon-9"); err == nil {
		t.Error("LookupEncoding(klingon-9) should fail")
	}
}

func TestIsCSVUpload(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
		want        bool
	}{
		{name: "csv extension", filename: "patients.csv", want: true},
		{name: "upper-case extension", filename: "PATIENTS.CSV", contentType: "application/octet-stream", want: true},
		{name: "text/csv with params", filename: "export", contentType: "text/csv; charset=utf-8", want: true},
		{name: "excel file", filename: "patients.xlsx", contentType: "application/vnd.ms-excel", want: false},
		{name: "nothing", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCSVUpload(tt.filename, tt.contentType); got != tt.want {
				t.Errorf("IsCSVUpload(%q, %q) = %v, want %v", tt.filename, tt.contentType, got, tt.want)
			}
		})
	}
}
