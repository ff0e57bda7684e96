package views

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/yogastudio/yoga/internal/router"
	"github.com/yogastudio/yoga/pkg/check"
	"github.com/yogastudio/yoga/pkg/model"
)

// Login is the login screen.
type Login struct {
	deps Deps
	log  *log.Entry
	// OnError is set after a rejected or failed attempt and cleared by the next success.
	OnError bool
}

// NewLogin returns the login controller.
func NewLogin(deps Deps) *Login {
	return &Login{deps: deps, log: log.WithField("component", "login-view")}
}

// Submit authenticates, records the session and moves to the session list. A failed attempt
// sets OnError and leaves the store untouched. Invalid input never reaches the backend but
// still sets OnError.
func (l *Login) Submit(ctx context.Context, req model.LoginRequest) error {
	if err := check.Validate(req); err != nil {
		l.OnError = true
		return err
	}
	info, err := l.deps.Auth.Login(ctx, req)
	if err != nil {
		l.OnError = true
		l.log.WithError(err).Debug("login failed")
		return err
	}
	l.OnError = false
	l.deps.Store.LogIn(info)
	l.deps.Nav.Navigate(router.SessionsPath)
	return nil
}

// Register is the registration screen.
type Register struct {
	deps Deps
	log  *log.Entry
	// OnError is set after a failed registration.
	OnError bool
}

// NewRegister returns the registration controller.
func NewRegister(deps Deps) *Register {
	return &Register{deps: deps, log: log.WithField("component", "register-view")}
}

// Submit creates the account and moves to the login screen. The backend's reason is logged but
// only a generic message is exposed.
func (r *Register) Submit(ctx context.Context, req model.RegisterRequest) error {
	if err := check.Validate(req); err != nil {
		return err
	}
	if err := r.deps.Auth.Register(ctx, req); err != nil {
		r.OnError = true
		r.log.WithError(err).Debug("registration failed")
		return &displayError{msg: MsgGenericError, cause: err}
	}
	r.OnError = false
	r.deps.Nav.Navigate(router.LoginPath)
	return nil
}

// App is the application shell, owner of the logout action.
type App struct {
	deps Deps
}

// NewApp returns the shell controller.
func NewApp(deps Deps) *App {
	return &App{deps: deps}
}

// Logout clears the session and returns to the root, which the guards resolve to /login.
func (a *App) Logout() router.Resolution {
	a.deps.Store.LogOut()
	return a.deps.Nav.Navigate(router.RootPath)
}

// LoggedIn mirrors the store for the toolbar.
func (a *App) LoggedIn() bool {
	return a.deps.Store.IsLoggedIn()
}

// displayError shows msg to the user and keeps the cause for errors.Is and logs.
type displayError struct {
	msg   string
	cause error
}

func (e *displayError) Error() string { return e.msg }

func (e *displayError) Unwrap() error { return e.cause }
