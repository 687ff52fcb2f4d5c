package service

import (
	"context"
	"log/slog"

	"github.com/fauzaanirsyaadi/user-management-BE/internal/users/domain"
	"github.com/fauzaanirsyaadi/user-management-BE/pkg/slogx"
)

// SeedService creates the default accounts on startup so a fresh database
// is immediately usable. Existing accounts are never touched, so changing
// the configured seed passwords later has no effect on a seeded database.
type SeedService struct {
	Users *UserService

	// AdminPassword and UserPassword are the initial passwords for the two
	// seed accounts. They should be overridden outside of development.
	AdminPassword string
	UserPassword  string
}

// Seed ensures the default admin and user accounts exist.
func (s *SeedService) Seed(ctx context.Context) error {
	l := slogx.FromContext(ctx)

	defaults := []CreateUserParams{
		{
			Username: "admin",
			Email:    "admin@example.com",
			Password: s.AdminPassword,
			Role:     domain.RoleAdmin,
		},
		{
			Username: "user",
			Email:    "user@example.com",
			Password: s.UserPassword,
			Role:     domain.RoleUser,
		},
	}

	for _, p := range defaults {
		exists, err := s.Users.Store.Users().ExistsByUsername(ctx, p.Username)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		if _, err := s.Users.CreateUser(ctx, p); err != nil {
			l.Error("failed to seed default account",
				slog.String("username", p.Username),
				slog.Any("error", err),
			)
			return err
		}

		l.Info("seeded default account",
			slog.String("username", p.Username),
			slog.String("role", p.Role.String()),
		)
	}

	return nil
}
