package middleware

import (
	"context"
	"net/http"

	"sqlstudio/internal/domain"
)

type requestIDKey struct{}

// RequestID returns an HTTP middleware that assigns a request ID to each
// request. An incoming X-Request-ID header from the fronting proxy is
// reused when it is well-formed; otherwise a UUIDv7 is generated so request
// IDs sort by arrival time like every other ID in the system. The ID is
// echoed on the response header and stored in the request context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if !validRequestID(id) {
			id = domain.NewID()
		}
		w.Header().Set("X-Request-ID", id)
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// validRequestID accepts IDs of up to 128 alphanumeric, hyphen, or
// underscore characters. Anything else (log-forging newlines, markup)
// is discarded and replaced.
func validRequestID(id string) bool {
	if id == "" || len(id) > 128 {
		return false
	}
	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}

// RequestIDFromContext extracts the request ID from the context.
// Returns an empty string if no request ID is present.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
