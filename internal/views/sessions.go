package views

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/yogastudio/yoga/internal/api"
	"github.com/yogastudio/yoga/internal/router"
	"github.com/yogastudio/yoga/pkg/check"
	"github.com/yogastudio/yoga/pkg/model"
)

// ErrNotAdmin is returned by admin-only actions attempted by a member.
var ErrNotAdmin = errors.New("reserved to administrators")

// ErrNotLoggedIn is returned by actions that need a current user.
var ErrNotLoggedIn = errors.New("not logged in")

// ErrNoSession is returned by detail actions when no session is loaded.
var ErrNoSession = errors.New("no session loaded")

func currentUser(deps Deps) (model.SessionInformation, error) {
	info, ok := deps.Store.CurrentUser()
	if !ok {
		return model.SessionInformation{}, ErrNotLoggedIn
	}
	return info, nil
}

// ParseSessionID reads the ":id" parameter of a resolution.
func ParseSessionID(res router.Resolution) (model.SessionID, error) {
	raw := res.Param("id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Wrapf(api.ErrInvalid, "session id %q", raw)
	}
	return model.SessionID(id), nil
}

// List is the session list screen.
type List struct {
	deps Deps
}

// NewList returns the list controller.
func NewList(deps Deps) *List {
	return &List{deps: deps}
}

// Load fetches every session.
func (l *List) Load(ctx context.Context) ([]model.Session, error) {
	return l.deps.Sessions.ListAll(ctx)
}

// User returns the logged-in user, whose admin flag decides whether create and edit are offered.
func (l *List) User() (model.SessionInformation, bool) {
	return l.deps.Store.CurrentUser()
}

// Detail is the session detail screen.
type Detail struct {
	deps Deps
	log  *log.Entry

	Session model.Session
	Teacher model.Teacher
}

// NewDetail returns the detail controller.
func NewDetail(deps Deps) *Detail {
	return &Detail{deps: deps, log: log.WithField("component", "detail-view")}
}

// Reset forgets the loaded session, so that no action targets it until the next successful Load.
func (d *Detail) Reset() {
	d.Session, d.Teacher = model.Session{}, model.Teacher{}
}

// Load fetches the session and its teacher. A missing session sends the user back to the list.
// On any failure the controller is left empty.
func (d *Detail) Load(ctx context.Context, id model.SessionID) error {
	d.Reset()
	s, err := d.deps.Sessions.GetByID(ctx, id)
	if errors.Is(err, api.ErrNotFound) {
		d.deps.Nav.Navigate(router.SessionsPath)
		return err
	} else if err != nil {
		return err
	}
	t, err := d.deps.Teachers.GetByID(ctx, s.TeacherID)
	if err != nil {
		return err
	}
	d.Session, d.Teacher = s, t
	return nil
}

// IsParticipant reports whether the current user has joined the loaded session.
func (d *Detail) IsParticipant() bool {
	info, ok := d.deps.Store.CurrentUser()
	return ok && d.Session.HasParticipant(info.ID)
}

// IsAdmin reports whether the current user may delete the session.
func (d *Detail) IsAdmin() bool {
	info, ok := d.deps.Store.CurrentUser()
	return ok && info.Admin
}

// Participate joins the current user, then reloads the session from the backend.
func (d *Detail) Participate(ctx context.Context) error {
	if d.Session.ID == 0 {
		return ErrNoSession
	}
	info, err := currentUser(d.deps)
	if err != nil {
		return err
	}
	if err := d.deps.Sessions.AddParticipant(ctx, d.Session.ID, info.ID); err != nil {
		return err
	}
	return d.refresh(ctx)
}

// Unparticipate removes the current user, then reloads the session from the backend.
func (d *Detail) Unparticipate(ctx context.Context) error {
	if d.Session.ID == 0 {
		return ErrNoSession
	}
	info, err := currentUser(d.deps)
	if err != nil {
		return err
	}
	if err := d.deps.Sessions.RemoveParticipant(ctx, d.Session.ID, info.ID); err != nil {
		return err
	}
	return d.refresh(ctx)
}

func (d *Detail) refresh(ctx context.Context) error {
	s, err := d.deps.Sessions.GetByID(ctx, d.Session.ID)
	if err != nil {
		return err
	}
	d.Session = s
	return nil
}

// Delete removes the session and returns to the list.
func (d *Detail) Delete(ctx context.Context) error {
	if !d.IsAdmin() {
		return ErrNotAdmin
	}
	if d.Session.ID == 0 {
		return ErrNoSession
	}
	err := d.deps.Sessions.Remove(ctx, d.Session.ID)
	if errors.Is(err, api.ErrNotFound) {
		d.deps.Nav.Navigate(router.SessionsPath)
		return err
	} else if err != nil {
		return err
	}
	d.deps.Notify.Notify(MsgSessionDeleted)
	d.deps.Nav.Navigate(router.SessionsPath)
	d.log.WithField("session", d.Session.ID).Debug("deleted")
	d.Session = model.Session{}
	return nil
}

// Form is the create and update screen.
type Form struct {
	deps Deps

	// Updating is set when the form edits an existing session.
	Updating bool
	ID       model.SessionID
	Draft    model.SessionDraft
	Teachers []model.Teacher
}

// NewForm returns the form controller.
func NewForm(deps Deps) *Form {
	return &Form{deps: deps}
}

// Init prepares the form for the resolved route. Members, and updates of a missing session, are
// sent back to the list.
func (f *Form) Init(ctx context.Context, res router.Resolution) error {
	info, err := currentUser(f.deps)
	if err != nil {
		return err
	}
	if !info.Admin {
		f.deps.Nav.Navigate(router.SessionsPath)
		return ErrNotAdmin
	}

	f.Updating, f.ID, f.Draft = false, 0, model.SessionDraft{}
	if res.Route != nil && res.Route.Pattern == router.UpdatePath {
		id, err := ParseSessionID(res)
		if err != nil {
			return err
		}
		s, err := f.deps.Sessions.GetByID(ctx, id)
		if errors.Is(err, api.ErrNotFound) {
			f.deps.Nav.Navigate(router.SessionsPath)
			return err
		} else if err != nil {
			return err
		}
		f.Updating, f.ID, f.Draft = true, id, s.Draft()
	}

	teachers, err := f.deps.Teachers.ListAll(ctx)
	if err != nil {
		return err
	}
	f.Teachers = teachers
	return nil
}

// Submit validates the draft and creates or updates the session, then returns to the list.
func (f *Form) Submit(ctx context.Context, draft model.SessionDraft) (model.Session, error) {
	if err := check.Validate(draft); err != nil {
		return model.Session{}, errors.Wrap(api.ErrInvalid, err.Error())
	}

	var (
		saved model.Session
		err   error
		msg   string
	)
	if f.Updating {
		saved, err = f.deps.Sessions.Update(ctx, f.ID, draft)
		msg = MsgSessionUpdated
	} else {
		saved, err = f.deps.Sessions.Create(ctx, draft)
		msg = MsgSessionCreated
	}
	if err != nil {
		return model.Session{}, err
	}
	f.Draft = draft
	f.deps.Notify.Notify(msg)
	f.deps.Nav.Navigate(router.SessionsPath)
	return saved, nil
}
