package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/JonMunkholm/clinic/internal/clinic"
	"github.com/JonMunkholm/clinic/internal/core"
)

type fakeResolver map[string]clinic.Viewer

func (f fakeResolver) Resolve(_ context.Context, token string) (clinic.Viewer, error) {
	v, ok := f[token]
	if !ok {
		return nil, errors.New("invalid session")
	}
	return v, nil
}

func viewers(t *testing.T) (admin, therapist clinic.Viewer) {
	t.Helper()
	admin, err := clinic.ViewerFor(clinic.User{ID: "101", Role: clinic.RoleAdmin})
	require.NoError(t, err)
	therapist, err = clinic.ViewerFor(clinic.User{ID: "1", Role: clinic.RoleTherapist, TherapistID: "1"})
	require.NoError(t, err)
	return admin, therapist
}

func captureViewer(got *clinic.Viewer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = ViewerFrom(r.Context())
	})
}

func TestSession(t *testing.T) {
	admin, _ := viewers(t)
	mw := Session(fakeResolver{"good": admin}, "session")

	tests := []struct {
		name    string
		prepare func(r *http.Request)
		want    clinic.Viewer
	}{
		{name: "no token", prepare: func(r *http.Request) {}},
		{name: "cookie", prepare: func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "session", Value: "good"})
		}, want: admin},
		{name: "bearer", prepare: func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer good")
		}, want: admin},
		{name: "bad token continues anonymously", prepare: func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "session", Value: "bad"})
		}},
		{name: "other cookie name ignored", prepare: func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "sid", Value: "good"})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got clinic.Viewer
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.prepare(req)
			mw(captureViewer(&got)).ServeHTTP(httptest.NewRecorder(), req)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequireViewerAndAdmin(t *testing.T) {
	admin, therapist := viewers(t)
	errMissing := errors.New("session required")

	var failed error
	fail := func(w http.ResponseWriter, r *http.Request, err error) {
		failed = err
		w.WriteHeader(http.StatusTeapot)
	}
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	serve := func(h http.Handler, v clinic.Viewer) int {
		failed = nil
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if v != nil {
			req = req.WithContext(WithViewer(req.Context(), v))
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	viewerOnly := RequireViewer(errMissing, fail)(ok)
	assert.Equal(t, http.StatusTeapot, serve(viewerOnly, nil))
	assert.ErrorIs(t, failed, errMissing)
	assert.Equal(t, http.StatusOK, serve(viewerOnly, therapist))

	adminOnly := RequireAdmin(fail)(ok)
	assert.Equal(t, http.StatusTeapot, serve(adminOnly, therapist))
	assert.ErrorIs(t, failed, clinic.ErrForbidden)
	assert.Equal(t, http.StatusOK, serve(adminOnly, admin))
}

func TestTrustedRealIP(t *testing.T) {
	mw := TrustedRealIP([]string{"10.0.0.0/8", "127.0.0.1", "not-a-cidr"})

	tests := []struct {
		name   string
		remote string
		header map[string]string
		want   string
	}{
		{"trusted proxy with X-Real-IP", "10.1.2.3:5000", map[string]string{"X-Real-IP": "203.0.113.9"}, "203.0.113.9"},
		{"trusted bare address with XFF", "127.0.0.1:5000", map[string]string{"X-Forwarded-For": "198.51.100.1, 10.0.0.1"}, "198.51.100.1"},
		{"untrusted client spoofing", "192.0.2.7:5000", map[string]string{"X-Real-IP": "1.1.1.1"}, "192.0.2.7:5000"},
		{"trusted proxy with garbage header", "10.1.2.3:5000", map[string]string{"X-Real-IP": "nope"}, "10.1.2.3:5000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { got = r.RemoteAddr }))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocale(t *testing.T) {
	mw := Locale(language.Hebrew)

	tests := []struct {
		name   string
		url    string
		accept string
		want   language.Tag
	}{
		{"default", "/", "", language.Hebrew},
		{"accept-language", "/", "en-US,en;q=0.9", language.English},
		{"query wins", "/?lang=he", "en-US", language.Hebrew},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got language.Tag
			h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = core.LocaleFrom(r.Context())
			}))
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if tt.accept != "" {
				req.Header.Set("Accept-Language", tt.accept)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.String(), rec.Header().Get("Content-Language"))
		})
	}
}

func TestRequestMeta(t *testing.T) {
	var meta core.RequestMeta
	h := RequestMeta(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		meta = core.RequestMetaFrom(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	req.Header.Set("User-Agent", "test-agent")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "192.0.2.1", meta.IPAddress)
	assert.Equal(t, "test-agent", meta.UserAgent)
}

func TestLogger_CapturesStatus(t *testing.T) {
	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("done"))
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/x", nil))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "done", rec.Body.String())
}
