// Package views holds the controllers behind each screen. They orchestrate the gateway, the
// repositories and the session store, and leave rendering to the caller.
package views

import (
	"github.com/yogastudio/yoga/internal/auth"
	"github.com/yogastudio/yoga/internal/directory"
	"github.com/yogastudio/yoga/internal/router"
	"github.com/yogastudio/yoga/internal/sessions"
	"github.com/yogastudio/yoga/internal/sessionstore"
)

// Messages shown through the Notifier.
const (
	MsgSessionCreated = "Session created !"
	MsgSessionUpdated = "Session updated !"
	MsgSessionDeleted = "Session deleted !"
	MsgAccountDeleted = "Your account has been deleted !"
	MsgGenericError   = "An error occurred"
)

// Notifier shows a transient message to the user.
type Notifier interface {
	Notify(msg string)
}

// NotifierFunc adapts a func to a Notifier.
type NotifierFunc func(msg string)

// Notify implements Notifier.
func (f NotifierFunc) Notify(msg string) { f(msg) }

// Navigator moves between screens; the router satisfies it.
type Navigator interface {
	Navigate(path string) router.Resolution
}

// Deps are the collaborators shared by every controller.
type Deps struct {
	Store    *sessionstore.Store
	Auth     *auth.Gateway
	Sessions *sessions.Repository
	Teachers *directory.TeacherLookup
	Users    *directory.UserLookup
	Nav      Navigator
	Notify   Notifier
}
