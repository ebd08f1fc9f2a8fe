package api

import (
	"log"
	"net/http"
)

// NewRouter mounts the honeypot endpoint at path (DefaultPath when empty)
// and a health check.
func NewRouter(h *Handler, path string) http.Handler {
	if path == "" {
		path = DefaultPath
	}
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+path, h.Turn)
	mux.HandleFunc("GET /health", h.Health)
	return recoverer(mux)
}

// recoverer turns a panic in a handler into a generic 500 instead of a
// dropped connection.
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Printf("panic serving %s %s: %v", r.Method, r.URL.Path, rec)
				writeError(w, http.StatusInternalServerError, "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
