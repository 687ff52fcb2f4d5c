package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fauzaanirsyaadi/user-management-BE/internal/users/domain"
	"github.com/fauzaanirsyaadi/user-management-BE/internal/users/store"
	"github.com/fauzaanirsyaadi/user-management-BE/pkg/cryptox"
	"github.com/fauzaanirsyaadi/user-management-BE/pkg/jwtx"
	"github.com/fauzaanirsyaadi/user-management-BE/pkg/slogx"
)

var ErrInvalidCredentials = errors.New("invalid_credentials")

// AuthService verifies credentials and mints access tokens. Tokens are
// stateless: once issued they stay valid until expiry, so a login is the
// only point at which the store is consulted for identity.
type AuthService struct {
	Store     store.Store
	Signer    jwtx.Signer
	Issuer    string
	AccessTTL time.Duration
}

// Login verifies the username/password pair and returns the user together
// with a freshly signed access token.
//
// Unknown username and wrong password both return ErrInvalidCredentials so
// the response cannot be used to probe which usernames exist.
func (s *AuthService) Login(ctx context.Context, username, password string) (domain.User, string, error) {
	l := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Info("login attempt for unknown username", slog.String("username", username))
			return domain.User{}, "", ErrInvalidCredentials
		}
		return domain.User{}, "", err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrMismatch) {
			l.Info("login attempt with wrong password", slog.String("user_id", user.ID))
			return domain.User{}, "", ErrInvalidCredentials
		}
		// Stored digest is corrupt. That's on us, not the client.
		l.Error("stored password digest unreadable",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
		return domain.User{}, "", err
	}

	ttl := s.AccessTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}

	claims := jwtx.NewAccessClaims(
		user.Username,
		user.ID,
		user.Email,
		user.Role.String(),
		ttl,
		s.Issuer,
		time.Now(),
	)

	token, err := s.Signer.Sign(claims)
	if err != nil {
		l.Error("failed to sign access token",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
		return domain.User{}, "", err
	}

	l.Info("user logged in",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)
	return user, token, nil
}
