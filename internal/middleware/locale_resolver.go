package middleware

import (
	"net/http"

	"eraleague.org/roster-web/internal/i18n"
)

const langCookieName = "hl"

// Locale resolves and stores the preferred language in the session and cookie `hl`.
// Precedence: ?hl=, session, cookie, Accept-Language, bundle fallback.
func Locale(bundle *i18n.Bundle) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := withValue(r.Context(), fallbackLangKey, bundle.Fallback())
			r = r.WithContext(ctx)
			s := GetSession(r)
			switch q := r.URL.Query().Get("hl"); {
			case q != "":
				lang := bundle.Normalize(q)
				if s.Locale != lang {
					s.Locale = lang
					s.MarkDirty()
				}
				http.SetCookie(w, &http.Cookie{Name: langCookieName, Value: lang, Path: "/", SameSite: http.SameSiteLaxMode})
			case s.Locale != "":
				// a stored locale that is no longer supported is re-resolved
				if lang := bundle.Normalize(s.Locale); lang != s.Locale {
					s.Locale = lang
					s.MarkDirty()
				}
			default:
				if c, err := r.Cookie(langCookieName); err == nil && c.Value != "" {
					s.Locale = bundle.Normalize(c.Value)
				} else {
					s.Locale = bundle.Resolve(r.Header.Get("Accept-Language"))
				}
				s.MarkDirty()
			}
			w.Header().Set("Content-Language", s.Locale)
			next.ServeHTTP(w, r)
		})
	}
}

// Lang returns current lang from session, else the bundle fallback, else "ru".
func Lang(r *http.Request) string {
	if s := GetSession(r); s != nil && s.Locale != "" {
		return s.Locale
	}
	if fb, ok := valueOf[string](r.Context(), fallbackLangKey); ok && fb != "" {
		return fb
	}
	return "ru"
}
