package httpx

import (
	"net/http"
	"strings"

	"github.com/fauzaanirsyaadi/user-management-BE/pkg/jwtx"
	"github.com/fauzaanirsyaadi/user-management-BE/pkg/slogx"
)

// AuthnMiddleware requires a valid bearer token and injects the resolved
// Principal into the request context. Invalid and expired tokens both
// surface as a plain 401 so callers cannot tell which failure occurred.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "missing bearer token")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("jwt verify failed", "err", err)
				writeBearerError(w, "invalid or expired token")
				return
			}

			principal := Principal{
				ID:       claims.UID,
				Username: claims.Subject,
				Email:    claims.Email,
				Role:     claims.Role,
			}

			next.ServeHTTP(w, r.WithContext(contextWithPrincipal(ctx, principal)))
		})
	}
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, desc)
}
