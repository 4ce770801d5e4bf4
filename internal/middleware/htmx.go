package middleware

import (
	"net/http"

	"github.com/bytedance/sonic"
)

// HTMX marks requests coming from htmx so handlers/middlewares can adapt responses
func HTMX(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		is := r.Header.Get("HX-Request") == "true"
		ctx := WithHTMX(r.Context(), is)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireHTMX rejects requests that do not come from htmx.
func RequireHTMX(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsHTMX(r.Context()) && r.Header.Get("HX-Request") != "true" {
			writeError(w, r, http.StatusBadRequest, "htmx request required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SetTrigger asks htmx to dispatch the given client events as soon as the
// response arrives. It must be called before the response header is written.
func SetTrigger(w http.ResponseWriter, events map[string]any) error {
	return setTrigger(w, "HX-Trigger", events)
}

// SetTriggerAfterSettle dispatches the events once swapped content has settled.
func SetTriggerAfterSettle(w http.ResponseWriter, events map[string]any) error {
	return setTrigger(w, "HX-Trigger-After-Settle", events)
}

func setTrigger(w http.ResponseWriter, header string, events map[string]any) error {
	if len(events) == 0 {
		return nil
	}
	b, err := sonic.Marshal(events)
	if err != nil {
		return err
	}
	w.Header().Set(header, string(b))
	return nil
}

// SetRefresh tells htmx to reload the whole page.
func SetRefresh(w http.ResponseWriter) {
	w.Header().Set("HX-Refresh", "true")
}
