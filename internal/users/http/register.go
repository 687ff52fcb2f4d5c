package http

import (
	"errors"
	"net/http"

	"github.com/fauzaanirsyaadi/user-management-BE/internal/users/domain"
	"github.com/fauzaanirsyaadi/user-management-BE/internal/users/service"
	"github.com/fauzaanirsyaadi/user-management-BE/pkg/httpx"
	"github.com/fauzaanirsyaadi/user-management-BE/pkg/slogx"
)

type RegisterHandler struct {
	UserService *service.UserService
}

// ServeHTTP creates a new account from a public signup. The role comes from
// the request body, so the route should stay behind a strict rate limit.
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req UserRequest
	if err := decodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeValidationError(w, err)
		return
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Role must be ADMIN or USER")
		return
	}

	user, err := h.UserService.CreateUser(ctx, service.CreateUserParams{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			httpx.WriteError(w, http.StatusBadRequest, "Username is already taken")
		case errors.Is(err, service.ErrEmailTaken):
			httpx.WriteError(w, http.StatusBadRequest, "Email is already in use")
		default:
			log.Error("failed to register user", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toUserResponse(user))
}
