package web

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/clinic/internal/core"
)

// maxJSONBody bounds request bodies of JSON endpoints.
const maxJSONBody = 1 << 16

// parseIntParam parses a positive integer query parameter with a default.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// wantsJSONBody reports whether the request body is JSON.
func wantsJSONBody(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidRequest, err)
	}
	return nil
}

// readUpload pulls the "file" part of a multipart request. The caller
// closes the returned body.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (core.Upload, io.Closer, error) {
	maxSize := s.cfg.Import.MaxFileSize
	// Room for multipart framing around the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+1<<20)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		if strings.Contains(err.Error(), "request body too large") {
			return core.Upload{}, nil, fmt.Errorf("%w: %v", core.ErrFileTooLarge, err)
		}
		return core.Upload{}, nil, fmt.Errorf("%w: %v", core.ErrNoFile, err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return core.Upload{}, nil, core.ErrNoFile
	}
	return core.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	}, file, nil
}

// writeCSV sends text as a downloadable UTF-8 CSV file. The byte order
// mark lets spreadsheet programs detect Hebrew text.
func writeCSV(w http.ResponseWriter, filename, text string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "\ufeff"+text)
}
