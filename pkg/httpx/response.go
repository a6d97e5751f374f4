// Package httpx holds the response-writing and context/middleware plumbing
// shared by every handler in internal/authority/http: JSON encoding, the
// no-cache headers every issued-token and policy response needs, rate
// limiting, and the focus-secret webhook check.
package httpx

import (
	"encoding/json"
	"net/http"
)

// WriteJSON writes a JSON response with the given status code.
// It automatically sets the Content-Type header and Cache-Control headers.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching —
// every response here either carries a bearer token or a policy decision
// that must never be served stale from a cache.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
