// Package auth talks to the backend's /api/auth endpoints. It never touches the session store;
// callers decide what to do with a successful login.
package auth

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/yogastudio/yoga/internal/api"
	"github.com/yogastudio/yoga/pkg/model"
)

const (
	registerPath = "/api/auth/register"
	loginPath    = "/api/auth/login"
)

// Gateway issues register and login calls.
type Gateway struct {
	log *log.Entry
	c   *api.Client
}

// NewGateway returns a gateway over the client.
func NewGateway(c *api.Client) *Gateway {
	return &Gateway{log: log.WithField("component", "auth-gateway"), c: c}
}

// Register creates an account. Any non-2xx answer wraps api.ErrRegistrationRejected; network
// failures wrap api.ErrTransport.
func (g *Gateway) Register(ctx context.Context, req model.RegisterRequest) error {
	var ack model.MessageResponse
	if err := g.c.Post(ctx, registerPath, req, &ack); err != nil {
		return rejected(err, api.ErrRegistrationRejected, "registering %s", req.Email)
	}
	g.log.WithField("email", req.Email).Debug("registered")
	return nil
}

// Login exchanges credentials for a SessionInformation. Any non-2xx answer wraps
// api.ErrAuthenticationRejected.
func (g *Gateway) Login(
	ctx context.Context, req model.LoginRequest,
) (model.SessionInformation, error) {
	var info model.SessionInformation
	if err := g.c.Post(ctx, loginPath, req, &info); err != nil {
		return model.SessionInformation{}, rejected(
			err, api.ErrAuthenticationRejected, "logging in as %s", req.Email)
	}
	g.log.WithField("user", info.ID).Debug("logged in")
	return info, nil
}

// rejected maps a status error to the given rejection class, keeping the server detail in the
// message. Transport errors pass through.
func rejected(err, class error, format string, args ...interface{}) error {
	if _, ok := api.StatusCode(err); !ok {
		return errors.Wrapf(err, format, args...)
	}
	return errors.Wrapf(class, format+": %v", append(args, err)...)
}
