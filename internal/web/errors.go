package web

// errors.go renders every failure the same way:
//  1. the status code is derived from the error (statusFor)
//  2. the error is mapped to a coded message in the request's language
//  3. the technical error is logged with the request id
//  4. the message is written as an HTMX fragment, JSON or plain text

import (
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/clinic/internal/auth"
	"github.com/JonMunkholm/clinic/internal/clinic"
	"github.com/JonMunkholm/clinic/internal/core"
	"github.com/JonMunkholm/clinic/internal/logging"
	"github.com/JonMunkholm/clinic/internal/web/templates"
)

// ErrorResponse is the JSON body of a failed API call.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

var errInvalidRequest = errors.New("invalid request")

// respondError logs err and writes its user-facing form.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := core.MapErrorIn(err, core.LocaleFrom(r.Context()))

	log := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
	}
	if status >= http.StatusInternalServerError {
		log.Error("request error", attrs...)
	} else {
		log.Warn("request error", attrs...)
	}

	switch {
	case isHTMX(r):
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_ = templates.ErrorAlert(msg.Message, msg.Action, msg.Code).Render(r.Context(), w)
	case wantsJSON(r):
		writeJSON(w, status, ErrorResponse{
			Error:   msg.Message,
			Message: msg.Message,
			Action:  msg.Action,
			Code:    msg.Code,
		})
	default:
		http.Error(w, msg.Message+" ("+msg.Code+")", status)
	}
}

// statusFor maps an error onto an HTTP status.
func statusFor(err error) int {
	var (
		batch     *core.BatchError
		storeErr  *core.DownstreamError
		maxBytes  *http.MaxBytesError
		rateLimit rateLimitError
	)
	switch {
	case errors.As(err, &rateLimit):
		return http.StatusTooManyRequests
	case errors.As(err, &storeErr):
		return http.StatusInternalServerError
	case errors.As(err, &batch):
		return http.StatusUnprocessableEntity
	case errors.As(err, &maxBytes), errors.Is(err, core.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrSessionRequired),
		errors.Is(err, auth.ErrInvalidSession),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, clinic.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, clinic.ErrPatientNotFound),
		errors.Is(err, clinic.ErrPaymentNotFound),
		errors.Is(err, core.ErrUnknownImport):
		return http.StatusNotFound
	case errors.Is(err, clinic.ErrTherapistNotFound),
		errors.Is(err, errInvalidRequest),
		errors.Is(err, core.ErrNotCSV),
		errors.Is(err, core.ErrNoFile):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrTooManyImports):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// isHTMX reports whether the request came from HTMX.
func isHTMX(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("HX-Request"), "true")
}

// wantsJSON reports whether the client prefers a JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	return strings.HasPrefix(r.URL.Path, "/api/")
}
