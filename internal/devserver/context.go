package devserver

import (
	"github.com/labstack/echo/v4"

	"github.com/yogastudio/yoga/pkg/model"
)

// DevContext is a wrapper around echo.Context so that handlers can reach the authenticated user.
type DevContext struct {
	echo.Context
}

// SetUser sets the user for an echo request context.
func (c *DevContext) SetUser(user model.User) {
	c.Set("user", user)
}

// MustGetUser returns the user for the relevant echo request context. Panics if the user has not
// been set, so this method should only be used inside handlers that require authentication.
func (c *DevContext) MustGetUser() model.User {
	user := c.Get("user")
	if user == nil {
		panic("Failed to get authenticated user from request context!")
	}
	return user.(model.User)
}

func wrapContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		return next(&DevContext{c})
	}
}
