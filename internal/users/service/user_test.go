package service

import (
	"context"
	"testing"

	"github.com/fauzaanirsyaadi/user-management-BE/internal/users/domain"
	"github.com/fauzaanirsyaadi/user-management-BE/internal/users/store"
	"github.com/fauzaanirsyaadi/user-management-BE/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestUserServiceCreateUser(t *testing.T) {
	ctx := context.Background()
	svc := &UserService{Store: newTestStore(t)}

	created, err := svc.CreateUser(ctx, CreateUserParams{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "Sup3r$ecret",
		Role:     domain.RoleUser,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.False(t, created.CreatedAt.IsZero())

	t.Run("password is stored hashed", func(t *testing.T) {
		require.NotEqual(t, "Sup3r$ecret", created.PasswordHash)
		require.NoError(t, cryptox.VerifyPassword("Sup3r$ecret", created.PasswordHash))
	})

	t.Run("duplicate username rejected", func(t *testing.T) {
		_, err := svc.CreateUser(ctx, CreateUserParams{
			Username: "alice",
			Email:    "other@example.com",
			Password: "Sup3r$ecret",
			Role:     domain.RoleUser,
		})
		require.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		_, err := svc.CreateUser(ctx, CreateUserParams{
			Username: "alice2",
			Email:    "alice@example.com",
			Password: "Sup3r$ecret",
			Role:     domain.RoleUser,
		})
		require.ErrorIs(t, err, ErrEmailTaken)
	})
}

func TestUserServiceUpdateUser(t *testing.T) {
	ctx := context.Background()
	svc := &UserService{Store: newTestStore(t)}

	alice, err := svc.CreateUser(ctx, CreateUserParams{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "Sup3r$ecret",
		Role:     domain.RoleUser,
	})
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, CreateUserParams{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "An0ther$ecret",
		Role:     domain.RoleUser,
	})
	require.NoError(t, err)

	t.Run("saving own username back is not a conflict", func(t *testing.T) {
		updated, err := svc.UpdateUser(ctx, alice.ID, UpdateUserParams{
			Username: "alice",
			Email:    "alice@example.com",
			Role:     domain.RoleAdmin,
		})
		require.NoError(t, err)
		require.Equal(t, domain.RoleAdmin, updated.Role)
	})

	t.Run("blank password keeps the current hash", func(t *testing.T) {
		updated, err := svc.UpdateUser(ctx, alice.ID, UpdateUserParams{
			Username: "alice",
			Email:    "alice@example.com",
			Role:     domain.RoleAdmin,
		})
		require.NoError(t, err)
		require.NoError(t, cryptox.VerifyPassword("Sup3r$ecret", updated.PasswordHash))
	})

	t.Run("non-blank password is re-hashed", func(t *testing.T) {
		updated, err := svc.UpdateUser(ctx, alice.ID, UpdateUserParams{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "N3w$ecret!",
			Role:     domain.RoleAdmin,
		})
		require.NoError(t, err)
		require.NoError(t, cryptox.VerifyPassword("N3w$ecret!", updated.PasswordHash))
		require.ErrorIs(t, cryptox.VerifyPassword("Sup3r$ecret", updated.PasswordHash), cryptox.ErrMismatch)
	})

	t.Run("taking another user's username is a conflict", func(t *testing.T) {
		_, err := svc.UpdateUser(ctx, alice.ID, UpdateUserParams{
			Username: "bob",
			Email:    "alice@example.com",
			Role:     domain.RoleAdmin,
		})
		require.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("taking another user's email is a conflict", func(t *testing.T) {
		_, err := svc.UpdateUser(ctx, alice.ID, UpdateUserParams{
			Username: "alice",
			Email:    "bob@example.com",
			Role:     domain.RoleAdmin,
		})
		require.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.UpdateUser(ctx, "does-not-exist", UpdateUserParams{
			Username: "ghost",
			Email:    "ghost@example.com",
			Role:     domain.RoleUser,
		})
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestUserServiceDeleteAndList(t *testing.T) {
	ctx := context.Background()
	svc := &UserService{Store: newTestStore(t)}

	alice, err := svc.CreateUser(ctx, CreateUserParams{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "Sup3r$ecret",
		Role:     domain.RoleUser,
	})
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, CreateUserParams{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "An0ther$ecret",
		Role:     domain.RoleAdmin,
	})
	require.NoError(t, err)

	t.Run("list returns all users oldest first", func(t *testing.T) {
		all, err := svc.ListUsers(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		require.Equal(t, "alice", all[0].Username)
		require.Equal(t, "bob", all[1].Username)
	})

	t.Run("delete removes the record", func(t *testing.T) {
		require.NoError(t, svc.DeleteUser(ctx, alice.ID))

		_, err := svc.GetUserByID(ctx, alice.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("deleting a missing user", func(t *testing.T) {
		require.ErrorIs(t, svc.DeleteUser(ctx, alice.ID), store.ErrNotFound)
	})
}

func TestSeedService(t *testing.T) {
	ctx := context.Background()
	users := &UserService{Store: newTestStore(t)}
	seed := &SeedService{
		Users:         users,
		AdminPassword: "admin123",
		UserPassword:  "user123",
	}

	empty, err := users.Store.Users().IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)

	require.NoError(t, seed.Seed(ctx))

	empty, err = users.Store.Users().IsEmpty(ctx)
	require.NoError(t, err)
	require.False(t, empty)

	admin, err := users.GetUserByUsername(ctx, "admin")
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, admin.Role)
	require.NoError(t, cryptox.VerifyPassword("admin123", admin.PasswordHash))

	usr, err := users.GetUserByUsername(ctx, "user")
	require.NoError(t, err)
	require.Equal(t, domain.RoleUser, usr.Role)

	t.Run("seeding twice leaves existing accounts alone", func(t *testing.T) {
		seed.AdminPassword = "changed-later"
		require.NoError(t, seed.Seed(ctx))

		again, err := users.GetUserByUsername(ctx, "admin")
		require.NoError(t, err)
		require.Equal(t, admin.PasswordHash, again.PasswordHash)
	})
}
