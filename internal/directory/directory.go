// Package directory reads teachers and users. Every call is a fresh round trip.
package directory

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/yogastudio/yoga/internal/api"
	"github.com/yogastudio/yoga/pkg/model"
)

const (
	teacherPath = "/api/teacher"
	userPath    = "/api/user"
)

// TeacherLookup reads /api/teacher.
type TeacherLookup struct {
	c *api.Client
}

// NewTeacherLookup returns a lookup over the client.
func NewTeacherLookup(c *api.Client) *TeacherLookup {
	return &TeacherLookup{c: c}
}

// ListAll returns every teacher.
func (l *TeacherLookup) ListAll(ctx context.Context) ([]model.Teacher, error) {
	var out []model.Teacher
	if err := l.c.Get(ctx, teacherPath, &out); err != nil {
		return nil, errors.Wrap(err, "listing teachers")
	}
	if out == nil {
		out = []model.Teacher{}
	}
	return out, nil
}

// GetByID returns one teacher.
func (l *TeacherLookup) GetByID(ctx context.Context, id model.TeacherID) (model.Teacher, error) {
	var out model.Teacher
	if err := l.c.Get(ctx, fmt.Sprintf("%s/%d", teacherPath, id), &out); err != nil {
		return model.Teacher{}, errors.Wrapf(err, "getting teacher %d", id)
	}
	return out, nil
}

// UserLookup reads and deletes /api/user entries.
type UserLookup struct {
	log *log.Entry
	c   *api.Client
}

// NewUserLookup returns a lookup over the client.
func NewUserLookup(c *api.Client) *UserLookup {
	return &UserLookup{log: log.WithField("component", "user-lookup"), c: c}
}

// GetByID returns one user.
func (l *UserLookup) GetByID(ctx context.Context, id model.UserID) (model.User, error) {
	var out model.User
	if err := l.c.Get(ctx, fmt.Sprintf("%s/%d", userPath, id), &out); err != nil {
		return model.User{}, errors.Wrapf(err, "getting user %d", id)
	}
	return out, nil
}

// Remove deletes the account. It does not log anyone out.
func (l *UserLookup) Remove(ctx context.Context, id model.UserID) error {
	if err := l.c.Delete(ctx, fmt.Sprintf("%s/%d", userPath, id), nil); err != nil {
		return errors.Wrapf(err, "deleting user %d", id)
	}
	l.log.WithField("user", id).Info("account deleted")
	return nil
}
