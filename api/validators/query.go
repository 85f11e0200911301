package validators

import (
	"net/http"
	"strings"
)

// QueryString returns the trimmed query parameter or the fallback when absent.
func QueryString(r *http.Request, key, fallback string) string {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback
	}
	return raw
}

// QueryFlag reports whether the query parameter equals the expected value,
// case-insensitively.
func QueryFlag(r *http.Request, key, expected string) bool {
	return strings.EqualFold(strings.TrimSpace(r.URL.Query().Get(key)), expected)
}
