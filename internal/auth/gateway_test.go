package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yogastudio/yoga/internal/api"
	"github.com/yogastudio/yoga/pkg/model"
)

func newGateway(t *testing.T, h http.HandlerFunc) *Gateway {
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := api.NewClient(srv.URL, nil)
	require.NoError(t, err)
	return NewGateway(c)
}

func TestLogin(t *testing.T) {
	g := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, loginPath, r.URL.Path)
		var req model.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "test!1234" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"token":"jwt","type":"Bearer","id":1,"username":"yoga@studio.com",
			"firstName":"Admin","lastName":"Admin","admin":true}`))
	})

	info, err := g.Login(context.Background(), model.LoginRequest{
		Email: "yoga@studio.com", Password: "test!1234",
	})
	require.NoError(t, err)
	require.Equal(t, model.UserID(1), info.ID)
	require.True(t, info.Admin)
	require.Equal(t, "yoga@studio.com", info.Email)

	_, err = g.Login(context.Background(), model.LoginRequest{
		Email: "yoga@studio.com", Password: "wrong",
	})
	require.ErrorIs(t, err, api.ErrAuthenticationRejected)
}

func TestRegister(t *testing.T) {
	taken := map[string]bool{"yoga@studio.com": true}
	g := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, registerPath, r.URL.Path)
		var req model.RegisterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if taken[req.Email] {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":"Error: Email is already taken!"}`))
			return
		}
		taken[req.Email] = true
		_, _ = w.Write([]byte(`{"message":"User registered successfully!"}`))
	})

	req := model.RegisterRequest{
		Email: "new@studio.com", Password: "secret", FirstName: "Jane", LastName: "Doe",
	}
	require.NoError(t, g.Register(context.Background(), req))

	err := g.Register(context.Background(), req)
	require.ErrorIs(t, err, api.ErrRegistrationRejected)
	require.ErrorContains(t, err, "Email is already taken")
}

func TestTransportFailureIsNotARejection(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c, err := api.NewClient(srv.URL, nil)
	require.NoError(t, err)
	srv.Close()

	g := NewGateway(c)
	_, err = g.Login(context.Background(), model.LoginRequest{Email: "a@b.c", Password: "abc"})
	require.ErrorIs(t, err, api.ErrTransport)
	require.NotErrorIs(t, err, api.ErrAuthenticationRejected)

	err = g.Register(context.Background(), model.RegisterRequest{Email: "a@b.c"})
	require.ErrorIs(t, err, api.ErrTransport)
	require.NotErrorIs(t, err, api.ErrRegistrationRejected)
}
