package views

import (
	"context"

	"github.com/yogastudio/yoga/internal/router"
	"github.com/yogastudio/yoga/pkg/model"
)

// Account is the "me" screen.
type Account struct {
	deps Deps
	User model.User
}

// NewAccount returns the account controller.
func NewAccount(deps Deps) *Account {
	return &Account{deps: deps}
}

// Load fetches the current user's account.
func (a *Account) Load(ctx context.Context) error {
	info, err := currentUser(a.deps)
	if err != nil {
		return err
	}
	u, err := a.deps.Users.GetByID(ctx, info.ID)
	if err != nil {
		return err
	}
	a.User = u
	return nil
}

// Delete removes the account, logs out and returns to the root.
func (a *Account) Delete(ctx context.Context) error {
	info, err := currentUser(a.deps)
	if err != nil {
		return err
	}
	if err := a.deps.Users.Remove(ctx, info.ID); err != nil {
		return err
	}
	a.deps.Notify.Notify(MsgAccountDeleted)
	a.deps.Store.LogOut()
	a.deps.Nav.Navigate(router.RootPath)
	a.User = model.User{}
	return nil
}
