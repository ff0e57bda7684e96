package devserver

import (
	"strings"
	"sync"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/yogastudio/yoga/pkg/model"
	"github.com/yogastudio/yoga/pkg/set"
)

// BCryptCost is the cost of stored password hashes.
const BCryptCost = bcrypt.DefaultCost

var (
	// ErrNotFound is the inner error of lookups that convert to a 404.
	ErrNotFound = errors.New("not found")
	// ErrInvalid is the inner error of requests that convert to a 400.
	ErrInvalid = errors.New("bad request")
)

// AsErrNotFound returns an error that wraps ErrNotFound, so that errors.Is can identify it.
func AsErrNotFound(msg string, args ...interface{}) error {
	return errors.Wrapf(ErrNotFound, msg, args...)
}

// AsValidationError returns an error that wraps ErrInvalid, so that errors.Is can identify it.
func AsValidationError(msg string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalid, msg, args...)
}

type userRow struct {
	model.User
	passwordHash []byte
}

type sessionRow struct {
	model.Session
	participants set.Set[model.UserID]
}

func (r *sessionRow) view() model.Session {
	s := r.Session
	s.Users = set.Sorted(r.participants)
	return s
}

// memStore holds every table of the devserver. Sessions and teachers are kept in id order.
type memStore struct {
	clock clockwork.Clock

	mu          sync.RWMutex
	users       map[model.UserID]*userRow
	emails      map[string]model.UserID
	teachers    *treemap.Map
	sessions    *treemap.Map
	nextUser    model.UserID
	nextTeacher model.TeacherID
	nextSession model.SessionID
}

func newMemStore(clock clockwork.Clock) *memStore {
	return &memStore{
		clock:    clock,
		users:    map[model.UserID]*userRow{},
		emails:   map[string]model.UserID{},
		teachers: treemap.NewWith(utils.IntComparator),
		sessions: treemap.NewWith(utils.IntComparator),
	}
}

func (m *memStore) now() model.Timestamp {
	return model.WallClock(m.clock.Now())
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (m *memStore) addUser(u model.User, password string) (model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BCryptCost)
	if err != nil {
		return model.User{}, errors.Wrap(err, "hashing password")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	email := normalizeEmail(u.Email)
	if _, ok := m.emails[email]; ok {
		return model.User{}, AsValidationError("Error: Email is already taken!")
	}
	m.nextUser++
	u.ID = m.nextUser
	u.Email = email
	u.CreatedAt, u.UpdatedAt = m.now(), m.now()
	m.users[u.ID] = &userRow{User: u, passwordHash: hash}
	m.emails[email] = u.ID
	return u, nil
}

// authenticate returns the user owning the credentials.
func (m *memStore) authenticate(email, password string) (model.User, bool) {
	m.mu.RLock()
	id, ok := m.emails[normalizeEmail(email)]
	var row *userRow
	if ok {
		row = m.users[id]
	}
	m.mu.RUnlock()
	if row == nil {
		return model.User{}, false
	}
	if err := bcrypt.CompareHashAndPassword(row.passwordHash, []byte(password)); err != nil {
		return model.User{}, false
	}
	return row.User, true
}

func (m *memStore) userByEmail(email string) (model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.emails[normalizeEmail(email)]
	if !ok {
		return model.User{}, AsErrNotFound("user %s", email)
	}
	return m.users[id].User, nil
}

func (m *memStore) user(id model.UserID) (model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	row, ok := m.users[id]
	if !ok {
		return model.User{}, AsErrNotFound("user %d", id)
	}
	return row.User, nil
}

// deleteUser removes the account and its participations.
func (m *memStore) deleteUser(id model.UserID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.users[id]
	if !ok {
		return AsErrNotFound("user %d", id)
	}
	delete(m.users, id)
	delete(m.emails, row.Email)
	for _, v := range m.sessions.Values() {
		v.(*sessionRow).participants.Remove(id)
	}
	return nil
}

func (m *memStore) addTeacher(t model.Teacher) model.Teacher {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextTeacher++
	t.ID = m.nextTeacher
	t.CreatedAt, t.UpdatedAt = m.now(), m.now()
	m.teachers.Put(int(t.ID), t)
	return t
}

func (m *memStore) listTeachers() []model.Teacher {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Teacher, 0, m.teachers.Size())
	for _, v := range m.teachers.Values() {
		out = append(out, v.(model.Teacher))
	}
	return out
}

func (m *memStore) teacher(id model.TeacherID) (model.Teacher, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.teachers.Get(int(id))
	if !ok {
		return model.Teacher{}, AsErrNotFound("teacher %d", id)
	}
	return v.(model.Teacher), nil
}

func (m *memStore) listSessions() []model.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Session, 0, m.sessions.Size())
	for it := m.sessions.Iterator(); it.Next(); {
		out = append(out, it.Value().(*sessionRow).view())
	}
	return out
}

func (m *memStore) session(id model.SessionID) (model.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	row, err := m.sessionRowLocked(id)
	if err != nil {
		return model.Session{}, err
	}
	return row.view(), nil
}

func (m *memStore) sessionRowLocked(id model.SessionID) (*sessionRow, error) {
	v, ok := m.sessions.Get(int(id))
	if !ok {
		return nil, AsErrNotFound("session %d", id)
	}
	return v.(*sessionRow), nil
}

func (m *memStore) createSession(d model.SessionDraft, users []model.UserID) (model.Session, error) {
	if _, err := m.teacher(d.TeacherID); err != nil {
		return model.Session{}, AsValidationError("unknown teacher %d", d.TeacherID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextSession++
	row := &sessionRow{
		Session: model.Session{
			ID:          m.nextSession,
			Name:        d.Name,
			Description: d.Description,
			Date:        d.Date,
			TeacherID:   d.TeacherID,
			CreatedAt:   m.now(),
			UpdatedAt:   m.now(),
		},
		participants: set.FromSlice(users),
	}
	m.sessions.Put(int(row.ID), row)
	return row.view(), nil
}

func (m *memStore) updateSession(id model.SessionID, d model.SessionDraft) (model.Session, error) {
	if _, err := m.teacher(d.TeacherID); err != nil {
		return model.Session{}, AsValidationError("unknown teacher %d", d.TeacherID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	row, err := m.sessionRowLocked(id)
	if err != nil {
		return model.Session{}, err
	}
	row.Name = d.Name
	row.Description = d.Description
	row.Date = d.Date
	row.TeacherID = d.TeacherID
	row.UpdatedAt = m.now()
	return row.view(), nil
}

func (m *memStore) deleteSession(id model.SessionID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.sessionRowLocked(id); err != nil {
		return err
	}
	m.sessions.Remove(int(id))
	return nil
}

func (m *memStore) participate(id model.SessionID, user model.UserID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, err := m.sessionRowLocked(id)
	if err != nil {
		return err
	}
	if _, ok := m.users[user]; !ok {
		return AsErrNotFound("user %d", user)
	}
	if !row.participants.Insert(user) {
		return AsValidationError("user %d already participates in session %d", user, id)
	}
	row.UpdatedAt = m.now()
	return nil
}

func (m *memStore) noLongerParticipate(id model.SessionID, user model.UserID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, err := m.sessionRowLocked(id)
	if err != nil {
		return err
	}
	if !row.participants.Remove(user) {
		return AsValidationError("user %d does not participate in session %d", user, id)
	}
	row.UpdatedAt = m.now()
	return nil
}
