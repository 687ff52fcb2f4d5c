package httpx

import "net/http"

// RequireRole the caller's role must exactly match one of the provided
// roles. The role set is closed and flat, so there is no "or above"
// semantics; a route is either open, any-authenticated, or role-gated.
func RequireRole(roles ...string) Middleware {
	want := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		want[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				// AuthnMiddleware never ran; the request is unauthenticated,
				// not merely under-privileged.
				writeBearerError(w, "missing bearer token")
				return
			}

			if _, ok := want[p.Role]; !ok {
				WriteError(w, http.StatusForbidden, "forbidden")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
