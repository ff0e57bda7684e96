package directory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yogastudio/yoga/internal/api"
	"github.com/yogastudio/yoga/internal/directory"
	"github.com/yogastudio/yoga/test/testutils"
)

func TestTeacherLookup(t *testing.T) {
	ctx := context.Background()
	backend := testutils.RunDevserver(t)
	c, _, _ := backend.LoginAsAdmin(t)
	teachers := directory.NewTeacherLookup(c)

	all, err := teachers.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	one, err := teachers.GetByID(ctx, all[1].ID)
	require.NoError(t, err)
	require.Equal(t, all[1], one)

	_, err = teachers.GetByID(ctx, 99)
	require.ErrorIs(t, err, api.ErrNotFound)
}

func TestUserLookup(t *testing.T) {
	ctx := context.Background()
	backend := testutils.RunDevserver(t)
	c, store, admin := backend.LoginAsAdmin(t)
	users := directory.NewUserLookup(c)

	u, err := users.GetByID(ctx, admin.ID)
	require.NoError(t, err)
	require.Equal(t, testutils.AdminEmail, u.Email)
	require.Equal(t, "Admin ADMIN", u.FullName())

	_, err = users.GetByID(ctx, 99)
	require.ErrorIs(t, err, api.ErrNotFound)

	mc, mstore, member := backend.RegisterMember(t, "member@studio.com")
	require.ErrorIs(t, directory.NewUserLookup(mc).Remove(ctx, admin.ID), api.ErrForbidden)

	require.NoError(t, directory.NewUserLookup(mc).Remove(ctx, member.ID))
	// Removing an account leaves the local session alone.
	require.True(t, mstore.IsLoggedIn())
	require.True(t, store.IsLoggedIn())

	_, err = users.GetByID(ctx, member.ID)
	require.ErrorIs(t, err, api.ErrNotFound)
}
