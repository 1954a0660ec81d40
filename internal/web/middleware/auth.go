package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/JonMunkholm/clinic/internal/clinic"
	"github.com/JonMunkholm/clinic/internal/logging"
)

// Resolver turns a session token into a viewer.
type Resolver interface {
	Resolve(ctx context.Context, token string) (clinic.Viewer, error)
}

// FailFunc writes an error response for a rejected request.
type FailFunc func(w http.ResponseWriter, r *http.Request, err error)

type viewerKey struct{}

// WithViewer stores v in ctx.
func WithViewer(ctx context.Context, v clinic.Viewer) context.Context {
	return context.WithValue(ctx, viewerKey{}, v)
}

// ViewerFrom returns the viewer stored by Session, or nil.
func ViewerFrom(ctx context.Context) clinic.Viewer {
	v, _ := ctx.Value(viewerKey{}).(clinic.Viewer)
	return v
}

// Session resolves the session token carried by the request, from the
// named cookie or an "Authorization: Bearer" header, and stores the viewer
// in the context. Requests without a valid token continue anonymously;
// RequireViewer and RequireAdmin decide whether that is allowed.
func Session(resolver Resolver, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := SessionToken(r, cookieName)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			v, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				logging.FromContext(r.Context()).Debug("session rejected", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			u := v.User()
			ctx := WithViewer(r.Context(), v)
			ctx = logging.WithActor(ctx, u.ID, string(u.Role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionToken extracts the raw token. The bearer header wins over the cookie.
func SessionToken(r *http.Request, cookieName string) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(cookieName); err == nil {
		return c.Value
	}
	return ""
}

// RequireViewer rejects requests that carry no valid session.
func RequireViewer(missing error, fail FailFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ViewerFrom(r.Context()) == nil {
				fail(w, r, missing)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin rejects requests whose viewer may not manage clinic data.
func RequireAdmin(fail FailFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := clinic.RequireManage(ViewerFrom(r.Context())); err != nil {
				fail(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
