package middleware

import (
	"context"
	"net/http"
)

type principalKey struct{}

const defaultPrincipal = "anonymous"

// WithPrincipal stores the principal name in the context.
func WithPrincipal(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, principalKey{}, name)
}

// PrincipalFromContext extracts the principal name from the context.
func PrincipalFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(principalKey{}).(string)
	return name, ok
}

// Principal returns an HTTP middleware that identifies the caller from the
// X-Principal header set by the fronting proxy. Authentication itself
// happens upstream; requests without the header run as "anonymous".
func Principal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := r.Header.Get("X-Principal")
		if name == "" {
			name = defaultPrincipal
		}
		ctx := WithPrincipal(r.Context(), name)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
