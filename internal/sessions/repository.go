// Package sessions is the client side of the /api/session resource.
package sessions

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/yogastudio/yoga/internal/api"
	"github.com/yogastudio/yoga/pkg/model"
)

const basePath = "/api/session"

// Repository performs CRUD and participation calls. It keeps no local copy of any session.
type Repository struct {
	log *log.Entry
	c   *api.Client
}

// NewRepository returns a repository over the client.
func NewRepository(c *api.Client) *Repository {
	return &Repository{log: log.WithField("component", "session-repository"), c: c}
}

// ListAll returns every session, in backend order.
func (r *Repository) ListAll(ctx context.Context) ([]model.Session, error) {
	var out []model.Session
	if err := r.c.Get(ctx, basePath, &out); err != nil {
		return nil, errors.Wrap(err, "listing sessions")
	}
	if out == nil {
		out = []model.Session{}
	}
	return out, nil
}

// GetByID fetches one session; a missing one yields api.ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id model.SessionID) (model.Session, error) {
	var out model.Session
	if err := r.c.Get(ctx, sessionPath(id), &out); err != nil {
		return model.Session{}, errors.Wrapf(err, "getting session %d", id)
	}
	return out, nil
}

// Create stores a new session and returns it with its id and timestamps.
func (r *Repository) Create(ctx context.Context, draft model.SessionDraft) (model.Session, error) {
	var out model.Session
	if err := r.c.Post(ctx, basePath, draft, &out); err != nil {
		return model.Session{}, errors.Wrapf(err, "creating session %q", draft.Name)
	}
	r.log.WithField("session", out.ID).Debug("created")
	return out, nil
}

// Update replaces every editable field of the session.
func (r *Repository) Update(
	ctx context.Context, id model.SessionID, draft model.SessionDraft,
) (model.Session, error) {
	var out model.Session
	if err := r.c.Put(ctx, sessionPath(id), draft, &out); err != nil {
		return model.Session{}, errors.Wrapf(err, "updating session %d", id)
	}
	r.log.WithField("session", id).Debug("updated")
	return out, nil
}

// Remove deletes the session; a missing one yields api.ErrNotFound.
func (r *Repository) Remove(ctx context.Context, id model.SessionID) error {
	if err := r.c.Delete(ctx, sessionPath(id), nil); err != nil {
		return errors.Wrapf(err, "deleting session %d", id)
	}
	r.log.WithField("session", id).Debug("deleted")
	return nil
}

// AddParticipant joins the user to the session. Joining twice is not an error.
func (r *Repository) AddParticipant(
	ctx context.Context, id model.SessionID, user model.UserID,
) error {
	err := r.c.Post(ctx, participationPath(id, user), nil, nil)
	if alreadySatisfied(err) {
		r.log.WithFields(log.Fields{"session": id, "user": user}).Debug("already participating")
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "adding user %d to session %d", user, id)
	}
	return nil
}

// RemoveParticipant removes the user from the session. Leaving a session one is not part of is
// not an error.
func (r *Repository) RemoveParticipant(
	ctx context.Context, id model.SessionID, user model.UserID,
) error {
	err := r.c.Delete(ctx, participationPath(id, user), nil)
	if alreadySatisfied(err) {
		r.log.WithFields(log.Fields{"session": id, "user": user}).Debug("not participating")
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "removing user %d from session %d", user, id)
	}
	return nil
}

// alreadySatisfied recognizes the backend's 400 for a participation change that is already in
// effect.
func alreadySatisfied(err error) bool {
	code, ok := api.StatusCode(err)
	return ok && code == http.StatusBadRequest
}

func sessionPath(id model.SessionID) string {
	return fmt.Sprintf("%s/%d", basePath, id)
}

func participationPath(id model.SessionID, user model.UserID) string {
	return fmt.Sprintf("%s/%d/participate/%d", basePath, id, user)
}
