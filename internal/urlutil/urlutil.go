// Package urlutil builds navigation URLs by rewriting the current
// request's query string. Components use it for pagination and search
// links so a generated URL keeps every unrelated parameter intact.
package urlutil

import "net/http"

// WithParams returns the request path with its query parameters
// updated by set and the named remove keys dropped. The original
// request is not modified.
func WithParams(r *http.Request, set map[string]string, remove ...string) string {
	params := r.URL.Query()
	for key, value := range set {
		params.Set(key, value)
	}
	for _, key := range remove {
		params.Del(key)
	}
	if len(params) == 0 {
		return r.URL.Path
	}
	return r.URL.Path + "?" + params.Encode()
}
