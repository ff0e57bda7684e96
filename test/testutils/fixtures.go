// Package testutils starts a devserver and wires clients against it for package tests.
package testutils

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/yogastudio/yoga/internal/api"
	"github.com/yogastudio/yoga/internal/auth"
	"github.com/yogastudio/yoga/internal/devserver"
	"github.com/yogastudio/yoga/internal/sessionstore"
	"github.com/yogastudio/yoga/pkg/model"
)

const (
	// AdminEmail and AdminPassword are the credentials of the seeded administrator.
	AdminEmail    = "yoga@studio.com"
	AdminPassword = "test!1234"
)

// Epoch is the fake time the devserver starts at.
var Epoch = time.Date(2025, 11, 24, 16, 23, 38, 0, time.UTC)

// Backend is a running devserver with its fake clock.
type Backend struct {
	URL   string
	Clock clockwork.FakeClock
}

// RunDevserver starts a seeded devserver that is closed with the test.
func RunDevserver(t *testing.T) *Backend {
	clock := clockwork.NewFakeClockAt(Epoch)
	s, err := devserver.New(devserver.Options{
		JWTSecret: "test-secret",
		TokenTTL:  24 * time.Hour,
		Clock:     clock,
		Seed:      devserver.DefaultSeed(),
	})
	require.NoError(t, err)
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return &Backend{URL: srv.URL, Clock: clock}
}

// NewClient returns a store and a client whose bearer token comes from that store.
func (b *Backend) NewClient(t *testing.T) (*api.Client, *sessionstore.Store) {
	store := sessionstore.New()
	c, err := api.NewClient(b.URL, store)
	require.NoError(t, err)
	return c, store
}

// LoginAs logs in through the gateway and records the result in a fresh store.
func (b *Backend) LoginAs(
	t *testing.T, email, password string,
) (*api.Client, *sessionstore.Store, model.SessionInformation) {
	c, store := b.NewClient(t)
	info, err := auth.NewGateway(c).Login(context.Background(), model.LoginRequest{
		Email: email, Password: password,
	})
	require.NoError(t, err)
	store.LogIn(info)
	return c, store, info
}

// LoginAsAdmin logs in as the seeded administrator.
func (b *Backend) LoginAsAdmin(t *testing.T) (*api.Client, *sessionstore.Store, model.SessionInformation) {
	return b.LoginAs(t, AdminEmail, AdminPassword)
}

// RegisterMember registers a non-admin account and logs in as it.
func (b *Backend) RegisterMember(
	t *testing.T, email string,
) (*api.Client, *sessionstore.Store, model.SessionInformation) {
	c, _ := b.NewClient(t)
	require.NoError(t, auth.NewGateway(c).Register(context.Background(), model.RegisterRequest{
		Email: email, Password: "secret", FirstName: "Member", LastName: "Studio",
	}))
	return b.LoginAs(t, email, "secret")
}

// SampleDraft is a valid session draft led by the first seeded teacher.
func SampleDraft(name string) model.SessionDraft {
	return model.SessionDraft{
		Name:        name,
		Description: "A session for every level.",
		Date:        model.Date(2026, time.February, 11),
		TeacherID:   1,
	}
}
