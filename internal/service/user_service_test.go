package service

import (
	"context"
	"testing"

	"github.com/Ali5829511/wwwr/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDefaultUsers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	seeded, err := f.users.EnsureDefaultUsers(ctx)
	require.NoError(t, err)
	assert.True(t, seeded)

	users, err := f.users.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	for _, u := range users {
		assert.Empty(t, u.PasswordHash, u.Username)
	}
	assert.Equal(t, "admin", users[0].Username)
	assert.Equal(t, domain.RoleAdmin, users[0].Role)

	seeded, err = f.users.EnsureDefaultUsers(ctx)
	require.NoError(t, err)
	assert.False(t, seeded)
}

func TestEnsureDefaultUsers_KeepsEmptiedCollection(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.users.EnsureDefaultUsers(ctx)
	require.NoError(t, err)
	for id := int64(1); id <= 3; id++ {
		require.NoError(t, f.users.DeleteUser(ctx, Actor{}, id))
	}

	seeded, err := f.users.EnsureDefaultUsers(ctx)
	require.NoError(t, err)
	assert.False(t, seeded)
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	actor := Actor{UserID: 1, Username: "admin"}

	u, err := f.users.CreateUser(ctx, actor, CreateUserRequest{
		Username: "officer2",
		Password: "secret1",
		Name:     "Officer",
		Role:     domain.RoleViolationEntry,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, domain.UserActive, u.Status)
	assert.Empty(t, u.PasswordHash)

	stored, _, err := f.users.users.Load(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.NotEqual(t, "secret1", stored[0].PasswordHash)
	assert.True(t, newTestHasher().Verify(stored[0].PasswordHash, "secret1"))

	_, err = f.users.CreateUser(ctx, actor, CreateUserRequest{Username: "OFFICER2", Password: "secret1", Role: domain.RoleInquiry})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	_, err = f.users.CreateUser(ctx, actor, CreateUserRequest{Username: "x", Password: "123", Role: domain.RoleInquiry})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	_, err = f.users.CreateUser(ctx, actor, CreateUserRequest{Username: "x", Password: "123456", Role: "root"})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.users.EnsureDefaultUsers(ctx)
	require.NoError(t, err)

	inactive := domain.UserInactive
	name := "  Inquiry Desk "
	u, err := f.users.UpdateUser(ctx, Actor{UserID: 1}, 3, UpdateUserRequest{Status: &inactive, Name: &name})
	require.NoError(t, err)
	assert.Equal(t, domain.UserInactive, u.Status)
	assert.Equal(t, "Inquiry Desk", u.Name)
	require.NotNil(t, u.UpdatedDate)

	taken := "Admin"
	_, err = f.users.UpdateUser(ctx, Actor{UserID: 1}, 3, UpdateUserRequest{Username: &taken})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = f.users.UpdateUser(ctx, Actor{UserID: 1}, 42, UpdateUserRequest{})
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	stats, err := f.users.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.UserStats{Total: 3, Active: 2, Inactive: 1, Admins: 1, ViolationOfficers: 1, InquiryUsers: 1}, *stats)
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.users.EnsureDefaultUsers(ctx)
	require.NoError(t, err)

	err = f.users.DeleteUser(ctx, Actor{UserID: 1, Username: "admin"}, 1)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	require.NoError(t, f.users.DeleteUser(ctx, Actor{UserID: 1}, 2))
	_, err = f.users.GetUser(ctx, 2)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	assert.Equal(t, domain.KindNotFound, domain.KindOf(f.users.DeleteUser(ctx, Actor{UserID: 1}, 2)))
}
