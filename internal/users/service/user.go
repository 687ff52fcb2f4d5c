package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/fauzaanirsyaadi/user-management-BE/internal/users/domain"
	"github.com/fauzaanirsyaadi/user-management-BE/internal/users/store"
	"github.com/fauzaanirsyaadi/user-management-BE/pkg/cryptox"
	"github.com/fauzaanirsyaadi/user-management-BE/pkg/idx"
	"github.com/fauzaanirsyaadi/user-management-BE/pkg/slogx"
)

var (
	ErrUsernameTaken = errors.New("username already exists")
	ErrEmailTaken    = errors.New("email already exists")
)

type UserService struct {
	Store store.Store
}

// CreateUserParams carries the already-validated input for a new user.
// Password is plaintext here; it never reaches the store unhashed.
type CreateUserParams struct {
	Username string
	Email    string
	Password string
	Role     domain.Role
}

// UpdateUserParams carries a full-record update. A blank Password means
// "keep the current one".
type UpdateUserParams struct {
	Username string
	Email    string
	Password string
	Role     domain.Role
}

// CreateUser inserts a new user after checking username/email uniqueness.
// The checks and the insert run in one transaction so a concurrent create
// of the same username cannot slip between them.
func (s *UserService) CreateUser(ctx context.Context, p CreateUserParams) (domain.User, error) {
	l := slogx.FromContext(ctx)

	passHash, err := cryptox.HashPassword(p.Password)
	if err != nil {
		l.Error("failed to hash password", slog.Any("error", err))
		return domain.User{}, err
	}

	user := domain.User{
		ID:           idx.New().String(),
		Username:     p.Username,
		Email:        p.Email,
		PasswordHash: passHash,
		Role:         p.Role,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		taken, err := tx.Users().ExistsByUsername(ctx, p.Username)
		if err != nil {
			return err
		}
		if taken {
			return ErrUsernameTaken
		}

		taken, err = tx.Users().ExistsByEmail(ctx, p.Email)
		if err != nil {
			return err
		}
		if taken {
			return ErrEmailTaken
		}

		return tx.Users().CreateUser(ctx, user)
	})
	if err != nil {
		// A racing insert can still trip the UNIQUE constraint after the
		// checks passed. Surface it the same way as a failed check.
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrUsernameTaken
		}
		return domain.User{}, err
	}

	// Read back so CreatedAt/UpdatedAt reflect what the database stamped.
	created, err := s.Store.Users().GetUserByID(ctx, user.ID)
	if err != nil {
		return domain.User{}, err
	}

	l.Info("user created",
		slog.String("user_id", created.ID),
		slog.String("username", created.Username),
		slog.String("role", created.Role.String()),
	)
	return created, nil
}

// GetUserByID fetches a user by id.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}

// GetUserByUsername fetches a user by username.
func (s *UserService) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	return s.Store.Users().GetUserByUsername(ctx, username)
}

// ListUsers returns all users, oldest first.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.Store.Users().ListUsers(ctx)
}

// UpdateUser rewrites a user record. Uniqueness is only re-checked for
// fields that actually change, so saving a user back with its own username
// is not a conflict.
func (s *UserService) UpdateUser(ctx context.Context, userID string, p UpdateUserParams) (domain.User, error) {
	l := slogx.FromContext(ctx)

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		current, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			return err
		}

		if p.Username != current.Username {
			taken, err := tx.Users().ExistsByUsername(ctx, p.Username)
			if err != nil {
				return err
			}
			if taken {
				return ErrUsernameTaken
			}
		}

		if p.Email != current.Email {
			taken, err := tx.Users().ExistsByEmail(ctx, p.Email)
			if err != nil {
				return err
			}
			if taken {
				return ErrEmailTaken
			}
		}

		passHash := current.PasswordHash
		if p.Password != "" {
			passHash, err = cryptox.HashPassword(p.Password)
			if err != nil {
				return err
			}
		}

		return tx.Users().UpdateUser(ctx, domain.User{
			ID:           userID,
			Username:     p.Username,
			Email:        p.Email,
			PasswordHash: passHash,
			Role:         p.Role,
		})
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrUsernameTaken
		}
		return domain.User{}, err
	}

	updated, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}

	l.Info("user updated", slog.String("user_id", userID))
	return updated, nil
}

// DeleteUser removes a user record.
func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	l := slogx.FromContext(ctx)

	if err := s.Store.Users().DeleteUser(ctx, userID); err != nil {
		return err
	}

	l.Info("user deleted", slog.String("user_id", userID))
	return nil
}
