package middleware

import (
	"net/http"

	"golang.org/x/text/language"

	"github.com/JonMunkholm/clinic/internal/core"
	"github.com/JonMunkholm/clinic/internal/i18n"
)

// Locale chooses the display language of a request. A "lang" query
// parameter wins, then Accept-Language, then fallback.
func Locale(fallback language.Tag) func(http.Handler) http.Handler {
	fallback = i18n.Match(fallback)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tag := i18n.MatchAccept(r.Header.Get("Accept-Language"), fallback)
			if lang := r.URL.Query().Get("lang"); lang != "" {
				tag = i18n.Parse(lang)
			}
			w.Header().Set("Content-Language", tag.String())
			next.ServeHTTP(w, r.WithContext(core.WithLocale(r.Context(), tag)))
		})
	}
}

// RequestMeta records the client address and user agent for audit entries.
func RequestMeta(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := core.WithRequestMeta(r.Context(), core.RequestMeta{
			IPAddress: ClientIP(r),
			UserAgent: r.UserAgent(),
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
