package core

// decode.go turns an uploaded file into the text the importer consumes.
//
// Spreadsheets exported on Hebrew Windows machines are often Windows-1255 or
// UTF-16 rather than UTF-8, and Excel prefixes UTF-8 exports with a byte
// order mark. DecodeText normalizes all of these to plain UTF-8.

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// LookupEncoding resolves a WHATWG encoding label such as "windows-1255".
// An empty label or "none" returns nil, meaning no fallback decoding.
func LookupEncoding(label string) (encoding.Encoding, error) {
	label = strings.TrimSpace(strings.ToLower(label))
	if label == "" || label == "none" {
		return nil, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", label, err)
	}
	return enc, nil
}

// DecodeText reads at most limit bytes from r and returns them as UTF-8.
//
// A UTF-8 or UTF-16 byte order mark selects the encoding. Otherwise valid
// UTF-8 is used as-is, and invalid UTF-8 is decoded with fallback when one
// is given or has its bad sequences replaced with U+FFFD when not.
func DecodeText(r io.Reader, limit int64, fallback encoding.Encoding) (string, error) {
	var data []byte
	var err error
	if limit > 0 {
		data, err = io.ReadAll(io.LimitReader(r, limit+1))
		if err == nil && int64(len(data)) > limit {
			return "", fmt.Errorf("%w: more than %d bytes", ErrFileTooLarge, limit)
		}
	} else {
		data, err = io.ReadAll(r)
	}
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}

	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return strings.ToValidUTF8(string(data[len(bomUTF8):]), "\uFFFD"), nil
	case bytes.HasPrefix(data, bomUTF16LE), bytes.HasPrefix(data, bomUTF16BE):
		out, err := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("encoding error: utf-16: %w", err)
		}
		return string(out), nil
	case utf8.Valid(data):
		return string(data), nil
	case fallback != nil:
		out, err := fallback.NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("encoding error: %w", err)
		}
		return string(out), nil
	default:
		return strings.ToValidUTF8(string(data), "\uFFFD"), nil
	}
}

// IsCSVUpload reports whether a file looks like CSV by its name or its
// declared content type.
func IsCSVUpload(filename, contentType string) bool {
	if strings.EqualFold(filepath.Ext(filename), ".csv") {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/csv"
}
