package views_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/http/httputil"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yogastudio/yoga/internal/api"
	"github.com/yogastudio/yoga/internal/auth"
	"github.com/yogastudio/yoga/internal/directory"
	"github.com/yogastudio/yoga/internal/router"
	"github.com/yogastudio/yoga/internal/sessions"
	"github.com/yogastudio/yoga/internal/sessionstore"
	"github.com/yogastudio/yoga/internal/views"
	"github.com/yogastudio/yoga/pkg/model"
	"github.com/yogastudio/yoga/test/testutils"
)

type fixture struct {
	deps     views.Deps
	router   *router.Router
	messages []string
}

func newFixture(c *api.Client, store *sessionstore.Store) *fixture {
	f := &fixture{router: router.New(store)}
	f.deps = views.Deps{
		Store:    store,
		Auth:     auth.NewGateway(c),
		Sessions: sessions.NewRepository(c),
		Teachers: directory.NewTeacherLookup(c),
		Users:    directory.NewUserLookup(c),
		Nav:      f.router,
		Notify:   views.NotifierFunc(func(msg string) { f.messages = append(f.messages, msg) }),
	}
	return f
}

func (f *fixture) path() string {
	return f.router.Current().Path
}

func TestAdminReachesAccount(t *testing.T) {
	ctx := context.Background()
	backend := testutils.RunDevserver(t)
	c, store := backend.NewClient(t)
	f := newFixture(c, store)

	require.Equal(t, router.LoginPath, f.router.Navigate(router.RootPath).Path)

	login := views.NewLogin(f.deps)
	require.NoError(t, login.Submit(ctx, model.LoginRequest{
		Email: testutils.AdminEmail, Password: testutils.AdminPassword,
	}))
	require.False(t, login.OnError)
	require.Equal(t, router.SessionsPath, f.path())

	info, ok := store.CurrentUser()
	require.True(t, ok)
	require.True(t, info.Admin)

	require.Equal(t, router.MePath, f.router.Navigate(router.MePath).Path)
	account := views.NewAccount(f.deps)
	require.NoError(t, account.Load(ctx))
	require.Equal(t, testutils.AdminEmail, account.User.Email)
	require.True(t, account.User.Admin)

	res := views.NewApp(f.deps).Logout()
	require.Equal(t, router.LoginPath, res.Path)
	require.False(t, store.IsLoggedIn())
	require.Equal(t, router.LoginPath, f.router.Navigate(router.MePath).Path)
}

func TestRejectedLoginLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	backend := testutils.RunDevserver(t)
	c, store := backend.NewClient(t)
	f := newFixture(c, store)
	f.router.Navigate(router.LoginPath)

	var emissions []bool
	store.Subscribe(func(v bool) { emissions = append(emissions, v) })

	login := views.NewLogin(f.deps)
	err := login.Submit(ctx, model.LoginRequest{Email: testutils.AdminEmail, Password: "wrong!"})
	require.ErrorIs(t, err, api.ErrAuthenticationRejected)
	require.True(t, login.OnError)
	require.False(t, store.IsLoggedIn())
	require.Equal(t, []bool{false}, emissions)
	require.Equal(t, router.LoginPath, f.path())

	fresh := views.NewLogin(f.deps)
	require.Error(t, fresh.Submit(ctx, model.LoginRequest{Email: "", Password: "x"}))
	require.True(t, fresh.OnError)
	require.Equal(t, []bool{false}, emissions)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	backend := testutils.RunDevserver(t)
	c, store := backend.NewClient(t)
	f := newFixture(c, store)
	f.router.Navigate(router.RegisterPath)

	register := views.NewRegister(f.deps)
	req := model.RegisterRequest{
		Email: "new@studio.com", Password: "secret", FirstName: "Jane", LastName: "Doe",
	}
	require.NoError(t, register.Submit(ctx, req))
	require.Equal(t, router.LoginPath, f.path())
	require.False(t, store.IsLoggedIn())

	f.router.Navigate(router.RegisterPath)
	err := register.Submit(ctx, req)
	require.True(t, register.OnError)
	require.EqualError(t, err, views.MsgGenericError)
	require.ErrorIs(t, err, api.ErrRegistrationRejected)
	require.Equal(t, router.RegisterPath, f.path())
}

func TestSessionScreens(t *testing.T) {
	ctx := context.Background()
	backend := testutils.RunDevserver(t)
	c, store, admin := backend.LoginAsAdmin(t)
	f := newFixture(c, store)

	f.router.Navigate(router.CreatePath)
	form := views.NewForm(f.deps)
	require.NoError(t, form.Init(ctx, f.router.Current()))
	require.False(t, form.Updating)
	require.Len(t, form.Teachers, 2)

	_, err := form.Submit(ctx, model.SessionDraft{Name: "x"})
	require.ErrorIs(t, err, api.ErrInvalid)
	require.Empty(t, f.messages)

	created, err := form.Submit(ctx, testutils.SampleDraft("Morning flow"))
	require.NoError(t, err)
	require.Equal(t, []string{views.MsgSessionCreated}, f.messages)
	require.Equal(t, router.SessionsPath, f.path())

	list := views.NewList(f.deps)
	all, err := list.Load(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	user, ok := list.User()
	require.True(t, ok)
	require.True(t, user.Admin)

	res := f.router.Navigate(router.Expand(router.UpdatePath, "id", "1"))
	require.NoError(t, form.Init(ctx, res))
	require.True(t, form.Updating)
	require.Equal(t, created.ID, form.ID)
	require.Equal(t, "Morning flow", form.Draft.Name)
	next := form.Draft
	next.Name = "Evening flow"
	_, err = form.Submit(ctx, next)
	require.NoError(t, err)
	require.Equal(t, views.MsgSessionUpdated, f.messages[len(f.messages)-1])

	res = f.router.Navigate(router.Expand(router.DetailPath, "id", "1"))
	id, err := views.ParseSessionID(res)
	require.NoError(t, err)
	detail := views.NewDetail(f.deps)
	require.NoError(t, detail.Load(ctx, id))
	require.Equal(t, "Evening flow", detail.Session.Name)
	require.Equal(t, "Margot DELAHAYE", detail.Teacher.FullName())
	require.True(t, detail.IsAdmin())
	require.False(t, detail.IsParticipant())

	require.NoError(t, detail.Participate(ctx))
	require.True(t, detail.IsParticipant())
	require.Equal(t, []model.UserID{admin.ID}, detail.Session.Users)
	require.NoError(t, detail.Participate(ctx))
	require.Equal(t, []model.UserID{admin.ID}, detail.Session.Users)

	require.NoError(t, detail.Unparticipate(ctx))
	require.False(t, detail.IsParticipant())
	require.NoError(t, detail.Unparticipate(ctx))

	require.NoError(t, detail.Delete(ctx))
	require.Equal(t, views.MsgSessionDeleted, f.messages[len(f.messages)-1])
	require.Equal(t, router.SessionsPath, f.path())

	f.router.Navigate(router.Expand(router.DetailPath, "id", "1"))
	require.ErrorIs(t, views.NewDetail(f.deps).Load(ctx, 1), api.ErrNotFound)
	require.Equal(t, router.SessionsPath, f.path())
}

func TestMemberCannotManageSessions(t *testing.T) {
	ctx := context.Background()
	backend := testutils.RunDevserver(t)
	c, store, _ := backend.RegisterMember(t, "member@studio.com")
	f := newFixture(c, store)

	res := f.router.Navigate(router.CreatePath)
	require.Equal(t, router.CreatePath, res.Path)
	require.ErrorIs(t, views.NewForm(f.deps).Init(ctx, res), views.ErrNotAdmin)
	require.Equal(t, router.SessionsPath, f.path())

	adminClient, _, _ := backend.LoginAsAdmin(t)
	created, err := sessions.NewRepository(adminClient).Create(ctx, testutils.SampleDraft("Flow"))
	require.NoError(t, err)

	detail := views.NewDetail(f.deps)
	require.NoError(t, detail.Load(ctx, created.ID))
	require.False(t, detail.IsAdmin())
	require.ErrorIs(t, detail.Delete(ctx), views.ErrNotAdmin)
	require.NoError(t, detail.Participate(ctx))
	require.True(t, detail.IsParticipant())
}

func TestAccountDeletion(t *testing.T) {
	ctx := context.Background()
	backend := testutils.RunDevserver(t)
	c, store, member := backend.RegisterMember(t, "member@studio.com")
	f := newFixture(c, store)
	f.router.Navigate(router.MePath)

	account := views.NewAccount(f.deps)
	require.NoError(t, account.Load(ctx))
	require.Equal(t, member.ID, account.User.ID)

	require.NoError(t, account.Delete(ctx))
	require.Equal(t, []string{views.MsgAccountDeleted}, f.messages)
	require.False(t, store.IsLoggedIn())
	require.Equal(t, router.LoginPath, f.path())

	require.ErrorIs(t, account.Load(ctx), views.ErrNotLoggedIn)
	err := views.NewLogin(f.deps).Submit(ctx, model.LoginRequest{
		Email: "member@studio.com", Password: "secret",
	})
	require.ErrorIs(t, err, api.ErrAuthenticationRejected)
}

func TestFailedDetailLoadClearsPreviousSession(t *testing.T) {
	ctx := context.Background()
	backend := testutils.RunDevserver(t)
	c, store, _ := backend.LoginAsAdmin(t)
	f := newFixture(c, store)
	repo := sessions.NewRepository(c)
	kept, err := repo.Create(ctx, testutils.SampleDraft("Morning flow"))
	require.NoError(t, err)

	detail := views.NewDetail(f.deps)
	require.NoError(t, detail.Load(ctx, kept.ID))
	require.Equal(t, kept.ID, detail.Session.ID)

	f.router.Navigate(router.Expand(router.DetailPath, "id", "99"))
	require.ErrorIs(t, detail.Load(ctx, 99), api.ErrNotFound)
	require.Equal(t, router.SessionsPath, f.path())
	require.Zero(t, detail.Session.ID)
	require.Empty(t, detail.Teacher.FirstName)

	require.ErrorIs(t, detail.Delete(ctx), views.ErrNoSession)
	require.ErrorIs(t, detail.Participate(ctx), views.ErrNoSession)
	require.ErrorIs(t, detail.Unparticipate(ctx), views.ErrNoSession)
	_, err = repo.GetByID(ctx, kept.ID)
	require.NoError(t, err)
}

func TestTeacherLookupFailureClearsDetail(t *testing.T) {
	ctx := context.Background()
	backend := testutils.RunDevserver(t)
	_, store, _ := backend.LoginAsAdmin(t)

	target, err := url.Parse(backend.URL)
	require.NoError(t, err)
	var failTeachers atomic.Bool
	proxy := httputil.NewSingleHostReverseProxy(target)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failTeachers.Load() && strings.HasPrefix(r.URL.Path, "/api/teacher") {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		proxy.ServeHTTP(w, r)
	}))
	defer srv.Close()
	c, err := api.NewClient(srv.URL, store)
	require.NoError(t, err)
	f := newFixture(c, store)

	repo := sessions.NewRepository(c)
	kept, err := repo.Create(ctx, testutils.SampleDraft("Morning flow"))
	require.NoError(t, err)

	detail := views.NewDetail(f.deps)
	require.NoError(t, detail.Load(ctx, kept.ID))
	require.Equal(t, kept.ID, detail.Session.ID)

	failTeachers.Store(true)
	require.ErrorIs(t, detail.Load(ctx, kept.ID), api.ErrTransport)
	require.Zero(t, detail.Session.ID)
	require.Empty(t, detail.Teacher.FirstName)
	require.ErrorIs(t, detail.Delete(ctx), views.ErrNoSession)
	require.ErrorIs(t, detail.Participate(ctx), views.ErrNoSession)

	got, err := repo.GetByID(ctx, kept.ID)
	require.NoError(t, err)
	require.Empty(t, got.Users)
}

func TestUpdateOfMissingSessionReturnsToList(t *testing.T) {
	ctx := context.Background()
	backend := testutils.RunDevserver(t)
	c, store, _ := backend.LoginAsAdmin(t)
	f := newFixture(c, store)

	res := f.router.Navigate(router.Expand(router.UpdatePath, "id", "99"))
	require.Equal(t, "/sessions/update/99", res.Path)
	form := views.NewForm(f.deps)
	require.ErrorIs(t, form.Init(ctx, res), api.ErrNotFound)
	require.Equal(t, router.SessionsPath, f.path())
	require.False(t, form.Updating)
	require.Zero(t, form.ID)
}
