package console

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/yogastudio/yoga/internal/router"
	"github.com/yogastudio/yoga/internal/views"
	"github.com/yogastudio/yoga/pkg/model"
)

// render loads and prints the screen of a resolution. Load failures are printed, not returned:
// the navigation itself has already happened.
func (c *Console) render(ctx context.Context, res router.Resolution) {
	c.printf("[%s]\n", res.Path)
	if res.Route == nil {
		return
	}
	if res.NotFound || res.Route.Pattern == router.NotFoundPath {
		c.printf("Page not found !\n")
		return
	}

	var err error
	switch res.Route.Pattern {
	case router.LoginPath:
		c.printf("login <email> <password>, or: go /register\n")
	case router.RegisterPath:
		c.printf("register <email> <password> <first> <last>, or: go /login\n")
	case router.SessionsPath:
		err = c.renderList(ctx)
	case router.DetailPath:
		c.detail.Reset()
		var id model.SessionID
		if id, err = views.ParseSessionID(res); err == nil {
			if err = c.detail.Load(ctx, id); err == nil {
				c.renderDetail()
			}
		}
	case router.CreatePath, router.UpdatePath:
		if err = c.form.Init(ctx, res); err == nil {
			c.renderForm()
		}
	case router.MePath:
		if err = c.account.Load(ctx); err == nil {
			c.renderAccount()
		}
	}
	if err != nil {
		c.printf("error: %v\n", err)
	}
}

func (c *Console) renderList(ctx context.Context) error {
	all, err := c.list.Load(ctx)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		c.printf("No session yet.\n")
	} else {
		var buf bytes.Buffer
		table := tablewriter.NewWriter(&buf)
		table.SetHeader([]string{"ID", "Name", "Date", "Participants", "Description"})
		table.SetAutoWrapText(false)
		for _, s := range all {
			table.Append([]string{
				strconv.Itoa(int(s.ID)),
				s.Name,
				s.Date.String(),
				strconv.Itoa(len(s.Users)),
				truncate(s.Description, 40),
			})
		}
		table.Render()
		c.printf("%s", buf.String())
	}
	if user, ok := c.list.User(); ok && user.Admin {
		c.printf("admin: create name=.. description=.. date=YYYY-MM-DD teacher=<id>\n")
	}
	return nil
}

func (c *Console) renderDetail() {
	s, t := c.detail.Session, c.detail.Teacher
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", strings.ToUpper(s.Name))
	fmt.Fprintf(&b, "  teacher:     %s\n", t.FullName())
	fmt.Fprintf(&b, "  date:        %s\n", s.Date)
	fmt.Fprintf(&b, "  attendees:   %d\n", len(s.Users))
	fmt.Fprintf(&b, "  description: %s\n", s.Description)
	fmt.Fprintf(&b, "  created:     %s\n", s.CreatedAt)
	fmt.Fprintf(&b, "  last update: %s\n", s.UpdatedAt)
	switch {
	case c.detail.IsAdmin():
		b.WriteString("actions: delete, back\n")
	case c.detail.IsParticipant():
		b.WriteString("you participate. actions: unparticipate, back\n")
	default:
		b.WriteString("actions: participate, back\n")
	}
	c.printf("%s", b.String())
}

func (c *Console) renderForm() {
	f := c.form
	title := "Create session"
	if f.Updating {
		title = fmt.Sprintf("Update session #%d", f.ID)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", title)
	if f.Updating {
		fmt.Fprintf(&b, "  name=%q description=%q date=%s teacher=%d\n",
			f.Draft.Name, f.Draft.Description, f.Draft.Date, f.Draft.TeacherID)
	}
	b.WriteString("  teachers:")
	for _, t := range f.Teachers {
		fmt.Fprintf(&b, " %d=%s", t.ID, t.FullName())
	}
	b.WriteString("\n")
	c.printf("%s", b.String())
}

func (c *Console) renderAccount() {
	u := c.account.User
	var b strings.Builder
	b.WriteString("User information\n")
	fmt.Fprintf(&b, "  name:  %s\n", u.FullName())
	fmt.Fprintf(&b, "  email: %s\n", u.Email)
	if u.Admin {
		b.WriteString("  You are admin\n")
	} else {
		b.WriteString("  actions: delete-account\n")
	}
	fmt.Fprintf(&b, "  create date: %s\n", u.CreatedAt)
	fmt.Fprintf(&b, "  last update: %s\n", u.UpdatedAt)
	c.printf("%s", b.String())
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
