package console

import (
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/yogastudio/yoga/internal/router"
	"github.com/yogastudio/yoga/internal/views"
	"github.com/yogastudio/yoga/pkg/model"
)

func (c *Console) commandTable() map[string]command {
	return map[string]command{
		"help":  {help: "list commands", run: c.help},
		"go":    {usage: "<path>", help: "navigate to a path", run: c.goTo},
		"back":  {help: "return to the previous screen", run: c.back},
		"show":  {help: "render the current screen again", run: c.show},
		"login": {usage: "<email> <password>", help: "log in", run: c.doLogin},
		"register": {
			usage: "<email> <password> <first> <last>", help: "create an account", run: c.doRegister,
		},
		"logout": {help: "log out", run: c.doLogout},
		"whoami": {help: "print the current user", run: c.whoami},
		"list":   {help: "list sessions", run: c.doList},
		"participate": {
			help: "join the session on screen", run: c.participate,
		},
		"unparticipate": {
			help: "leave the session on screen", run: c.unparticipate,
		},
		"delete": {help: "delete the session on screen (admin)", run: c.deleteSession},
		"create": {
			usage: "name=.. description=.. date=YYYY-MM-DD teacher=<id>",
			help:  "create a session (admin)",
			run:   c.create,
		},
		"update": {
			usage: "<id> [name=..] [description=..] [date=..] [teacher=..]",
			help:  "update a session (admin)",
			run:   c.update,
		},
		"stats":          {help: "show the api client metrics", run: c.stats},
		"me":             {help: "show your account", run: c.me},
		"delete-account": {help: "delete your account and log out", run: c.deleteAccount},
	}
}

func arity(args []string, n int, usage string) error {
	if len(args) != n {
		return errors.Errorf("usage: %s", usage)
	}
	return nil
}

func (c *Console) goTo(ctx context.Context, args []string) error {
	if err := arity(args, 1, "go <path>"); err != nil {
		return err
	}
	c.render(ctx, c.router.Navigate(args[0]))
	return nil
}

func (c *Console) back(ctx context.Context, _ []string) error {
	res, ok := c.router.Back()
	if !ok {
		return errors.New("no previous screen")
	}
	c.render(ctx, res)
	return nil
}

func (c *Console) show(ctx context.Context, _ []string) error {
	c.render(ctx, c.router.Current())
	return nil
}

// enter navigates to path and fails when a guard sent the user elsewhere.
func (c *Console) enter(ctx context.Context, path string) (router.Resolution, error) {
	res := c.router.Navigate(path)
	if res.Path != path {
		c.render(ctx, res)
		return res, errors.Errorf("%s is not available here", path)
	}
	return res, nil
}

func (c *Console) doLogin(ctx context.Context, args []string) error {
	if err := arity(args, 2, "login <email> <password>"); err != nil {
		return err
	}
	if _, err := c.enter(ctx, router.LoginPath); err != nil {
		return err
	}
	if err := c.login.Submit(ctx, model.LoginRequest{Email: args[0], Password: args[1]}); err != nil {
		return err
	}
	c.render(ctx, c.router.Current())
	return nil
}

func (c *Console) doRegister(ctx context.Context, args []string) error {
	if err := arity(args, 4, "register <email> <password> <first> <last>"); err != nil {
		return err
	}
	if _, err := c.enter(ctx, router.RegisterPath); err != nil {
		return err
	}
	if err := c.register.Submit(ctx, model.RegisterRequest{
		Email: args[0], Password: args[1], FirstName: args[2], LastName: args[3],
	}); err != nil {
		return err
	}
	c.printf("account created, you can now log in\n")
	c.render(ctx, c.router.Current())
	return nil
}

func (c *Console) doLogout(ctx context.Context, _ []string) error {
	c.render(ctx, c.app.Logout())
	return nil
}

func (c *Console) whoami(context.Context, []string) error {
	info, ok := c.deps.Store.CurrentUser()
	if !ok {
		c.printf("anonymous\n")
		return nil
	}
	role := "member"
	if info.Admin {
		role = "admin"
	}
	c.printf("%s %s <%s> #%d (%s)\n", info.FirstName, info.LastName, info.Email, info.ID, role)
	return nil
}

func (c *Console) doList(ctx context.Context, _ []string) error {
	res, err := c.enter(ctx, router.SessionsPath)
	if err != nil {
		return err
	}
	c.render(ctx, res)
	return nil
}

// onDetail returns an error unless the session named by the current path is loaded on screen.
func (c *Console) onDetail() error {
	cur := c.router.Current()
	if cur.Route == nil || cur.Route.Pattern != router.DetailPath || c.detail.Session.ID == 0 {
		return errors.New("open a session first: go /sessions/detail/<id>")
	}
	if id, err := views.ParseSessionID(cur); err != nil || id != c.detail.Session.ID {
		return errors.Errorf("session %s is not loaded, try show", cur.Param("id"))
	}
	return nil
}

func (c *Console) participate(ctx context.Context, _ []string) error {
	if err := c.onDetail(); err != nil {
		return err
	}
	if err := c.detail.Participate(ctx); err != nil {
		return err
	}
	c.renderDetail()
	return nil
}

func (c *Console) unparticipate(ctx context.Context, _ []string) error {
	if err := c.onDetail(); err != nil {
		return err
	}
	if err := c.detail.Unparticipate(ctx); err != nil {
		return err
	}
	c.renderDetail()
	return nil
}

func (c *Console) deleteSession(ctx context.Context, _ []string) error {
	if err := c.onDetail(); err != nil {
		return err
	}
	if err := c.detail.Delete(ctx); err != nil {
		return err
	}
	c.render(ctx, c.router.Current())
	return nil
}

func (c *Console) create(ctx context.Context, args []string) error {
	res, err := c.enter(ctx, router.CreatePath)
	if err != nil {
		return err
	}
	if err := c.form.Init(ctx, res); err != nil {
		return err
	}
	return c.submit(ctx, args)
}

func (c *Console) update(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: update <id> [field=value...]")
	}
	res, err := c.enter(ctx, router.Expand(router.UpdatePath, "id", args[0]))
	if err != nil {
		return err
	}
	if err := c.form.Init(ctx, res); err != nil {
		return err
	}
	return c.submit(ctx, args[1:])
}

func (c *Console) submit(ctx context.Context, fields []string) error {
	draft, err := applyFields(c.form.Draft, fields)
	if err != nil {
		return err
	}
	saved, err := c.form.Submit(ctx, draft)
	if err != nil {
		return err
	}
	c.printf("session #%d saved\n", saved.ID)
	c.render(ctx, c.router.Current())
	return nil
}

// applyFields overlays key=value pairs onto a draft.
func applyFields(draft model.SessionDraft, fields []string) (model.SessionDraft, error) {
	for _, f := range fields {
		key, value, ok := strings.Cut(f, "=")
		if !ok {
			return draft, errors.Errorf("expected key=value, got %q", f)
		}
		switch key {
		case "name":
			draft.Name = value
		case "description":
			draft.Description = value
		case "date":
			ts, err := model.ParseTimestamp(value)
			if err != nil {
				return draft, err
			}
			draft.Date = ts
		case "teacher":
			id, err := strconv.Atoi(value)
			if err != nil {
				return draft, errors.Wrapf(err, "teacher must be an id")
			}
			draft.TeacherID = model.TeacherID(id)
		default:
			return draft, errors.Errorf("unknown field %q", key)
		}
	}
	return draft, nil
}

func (c *Console) me(ctx context.Context, _ []string) error {
	res, err := c.enter(ctx, router.MePath)
	if err != nil {
		return err
	}
	c.render(ctx, res)
	return nil
}

func (c *Console) deleteAccount(ctx context.Context, _ []string) error {
	if _, err := c.enter(ctx, router.MePath); err != nil {
		return err
	}
	if err := c.account.Delete(ctx); err != nil {
		return err
	}
	c.render(ctx, c.router.Current())
	return nil
}
