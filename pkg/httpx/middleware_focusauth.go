package httpx

import (
	"crypto/subtle"
	"net/http"

	"github.com/meetcore/authority/pkg/slogx"
)

// FocusSecretMiddleware gates handlers that must only be reachable by the
// Focus Manager or a test harness (the demo focus-control endpoints that
// create and destroy rooms) — never an end user. It checks a shared secret header
// rather than a bearer JWT, since this domain has no signed credentials.
func FocusSecretMiddleware(secret string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			got := r.Header.Get("X-Focus-Secret")
			if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				log.Warn("rejected request with invalid focus secret", "path", r.URL.Path)
				writeFocusAuthError(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeFocusAuthError(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `FocusSecret error="invalid_secret"`)
	WriteJSON(w, http.StatusUnauthorized, map[string]string{
		"error":             "invalid_focus_secret",
		"error_description": "missing or invalid focus secret",
	})
}
