package http

import (
	"net/http"

	"github.com/fauzaanirsyaadi/user-management-BE/pkg/httpx"
)

type MeHandler struct{}

// ServeHTTP returns the authenticated caller's identity. It answers purely
// from the token claims: no store lookup, so it reflects the identity at
// token-issue time, not the current database row.
func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p, ok := httpx.PrincipalFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, UserResponse{
		ID:       p.ID,
		Username: p.Username,
		Email:    p.Email,
		Role:     p.Role,
	})
}
