package view

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
)

// StatusError lets an error choose its own HTTP status. Errors without
// one map to 500; hook and component errors are never masked, only
// translated at this outermost boundary.
type StatusError interface {
	error
	StatusCode() int
}

// Handler adapts a view to net/http. build runs once per request and
// returns the options for that request's view instance, preserving the
// one-view-per-request model.
func Handler(build func(r *http.Request) Options) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v := New(r, build(r))

		var resp *Response
		var err error
		switch r.Method {
		case http.MethodGet, http.MethodHead:
			resp, err = v.Get()
		case http.MethodPost:
			resp, err = v.Post()
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err != nil {
			status := http.StatusInternalServerError
			var se StatusError
			if errors.As(err, &se) {
				status = se.StatusCode()
			}
			log.Error().Err(err).Str("path", r.URL.Path).Int("status", status).Msg("view dispatch failed")
			http.Error(w, http.StatusText(status), status)
			return
		}

		for key, values := range resp.Header {
			for _, value := range values {
				w.Header().Add(key, value)
			}
		}
		w.WriteHeader(resp.Status)
		if r.Method != http.MethodHead {
			_, _ = w.Write(resp.Body)
		}
	})
}
