package sessions_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/yogastudio/yoga/internal/api"
	"github.com/yogastudio/yoga/internal/sessions"
	"github.com/yogastudio/yoga/pkg/model"
	"github.com/yogastudio/yoga/test/testutils"
)

func TestCreateThenGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := testutils.RunDevserver(t)
	c, _, _ := backend.LoginAsAdmin(t)
	repo := sessions.NewRepository(c)

	draft := testutils.SampleDraft("Morning flow")
	created, err := repo.Create(ctx, draft)
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Empty(t, created.Users)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, draft, got.Draft())
	if diff := cmp.Diff(created, got, cmp.AllowUnexported(model.Timestamp{})); diff != "" {
		t.Fatalf("session changed between create and get (-created +got):\n%s", diff)
	}
}

func TestListAllPreservesOrder(t *testing.T) {
	ctx := context.Background()
	backend := testutils.RunDevserver(t)
	c, _, _ := backend.LoginAsAdmin(t)
	repo := sessions.NewRepository(c)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.NotNil(t, all)
	require.Empty(t, all)

	for _, name := range []string{"First", "Second", "Third"} {
		_, err := repo.Create(ctx, testutils.SampleDraft(name))
		require.NoError(t, err)
	}
	all, err = repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i, name := range []string{"First", "Second", "Third"} {
		require.Equal(t, name, all[i].Name)
	}
}

func TestUpdateReplacesEveryField(t *testing.T) {
	ctx := context.Background()
	backend := testutils.RunDevserver(t)
	c, _, _ := backend.LoginAsAdmin(t)
	repo := sessions.NewRepository(c)

	created, err := repo.Create(ctx, testutils.SampleDraft("Flow"))
	require.NoError(t, err)

	backend.Clock.Advance(time.Hour)
	next := model.SessionDraft{
		Name:        "Yin",
		Description: "Slow and deep.",
		Date:        model.Date(2026, time.March, 1),
		TeacherID:   2,
	}
	updated, err := repo.Update(ctx, created.ID, next)
	require.NoError(t, err)
	require.Equal(t, next, updated.Draft())
	require.True(t, updated.UpdatedAt.After(created.UpdatedAt.Time))

	_, err = repo.Update(ctx, 404, next)
	require.ErrorIs(t, err, api.ErrNotFound)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	backend := testutils.RunDevserver(t)
	c, _, _ := backend.LoginAsAdmin(t)
	repo := sessions.NewRepository(c)

	created, err := repo.Create(ctx, testutils.SampleDraft("Flow"))
	require.NoError(t, err)
	require.NoError(t, repo.Remove(ctx, created.ID))

	_, err = repo.GetByID(ctx, created.ID)
	require.ErrorIs(t, err, api.ErrNotFound)
	require.ErrorIs(t, repo.Remove(ctx, created.ID), api.ErrNotFound)
}

func TestParticipationIsIdempotent(t *testing.T) {
	ctx := context.Background()
	backend := testutils.RunDevserver(t)
	c, _, admin := backend.LoginAsAdmin(t)
	repo := sessions.NewRepository(c)

	created, err := repo.Create(ctx, testutils.SampleDraft("Flow"))
	require.NoError(t, err)

	require.NoError(t, repo.AddParticipant(ctx, created.ID, admin.ID))
	require.NoError(t, repo.AddParticipant(ctx, created.ID, admin.ID))
	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, []model.UserID{admin.ID}, got.Users)

	require.NoError(t, repo.RemoveParticipant(ctx, created.ID, admin.ID))
	require.NoError(t, repo.RemoveParticipant(ctx, created.ID, admin.ID))
	got, err = repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Empty(t, got.Users)
}

func TestRemoveParticipantLeavesOthers(t *testing.T) {
	ctx := context.Background()
	backend := testutils.RunDevserver(t)
	c, _, admin := backend.LoginAsAdmin(t)
	repo := sessions.NewRepository(c)

	// Users 2, 3 and 4 exist besides the administrator.
	var members []model.UserID
	for _, email := range []string{"two@studio.com", "three@studio.com", "four@studio.com"} {
		_, _, info := backend.RegisterMember(t, email)
		members = append(members, info.ID)
	}
	require.Equal(t, []model.UserID{2, 3, 4}, members)

	created, err := repo.Create(ctx, testutils.SampleDraft("Flow"))
	require.NoError(t, err)
	require.Equal(t, model.SessionID(1), created.ID)
	for _, id := range append([]model.UserID{admin.ID}, members...) {
		require.NoError(t, repo.AddParticipant(ctx, created.ID, id))
	}

	require.NoError(t, repo.RemoveParticipant(ctx, 1, 4))
	got, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	require.NotContains(t, got.Users, model.UserID(4))
	require.Equal(t, []model.UserID{1, 2, 3}, got.Users)
}

func TestParticipationFailuresPropagate(t *testing.T) {
	ctx := context.Background()
	backend := testutils.RunDevserver(t)
	c, _, admin := backend.LoginAsAdmin(t)
	repo := sessions.NewRepository(c)

	err := repo.AddParticipant(ctx, 77, admin.ID)
	require.ErrorIs(t, err, api.ErrNotFound)
	err = repo.RemoveParticipant(ctx, 77, admin.ID)
	require.ErrorIs(t, err, api.ErrNotFound)
}

func TestUnauthenticatedCalls(t *testing.T) {
	backend := testutils.RunDevserver(t)
	c, _ := backend.NewClient(t)
	_, err := sessions.NewRepository(c).ListAll(context.Background())
	require.ErrorIs(t, err, api.ErrUnauthorized)
	code, ok := api.StatusCode(err)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, code)
}
