package model

import (
	"github.com/yogastudio/yoga/pkg/check"
)

// SessionID is the type for bookable session IDs.
type SessionID int

// TeacherID is the type for teacher IDs.
type TeacherID int

const (
	maxSessionNameLength        = 50
	maxSessionDescriptionLength = 2500
)

// Session is a scheduled, teacher-led activity with a set of participants.
type Session struct {
	ID          SessionID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Date        Timestamp `json:"date"`
	TeacherID   TeacherID `json:"teacher_id"`
	Users       []UserID  `json:"users"`
	CreatedAt   Timestamp `json:"createdAt"`
	UpdatedAt   Timestamp `json:"updatedAt"`
}

// HasParticipant reports whether the user has joined the session.
func (s Session) HasParticipant(id UserID) bool {
	for _, u := range s.Users {
		if u == id {
			return true
		}
	}
	return false
}

// Draft returns the editable fields of the session.
func (s Session) Draft() SessionDraft {
	return SessionDraft{
		Name:        s.Name,
		Description: s.Description,
		Date:        s.Date,
		TeacherID:   s.TeacherID,
	}
}

// SessionDraft is the payload of create and update. Updates replace the whole resource, so a
// draft must always carry every field.
type SessionDraft struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Date        Timestamp `json:"date"`
	TeacherID   TeacherID `json:"teacher_id"`
}

// Validate implements the check.Validatable interface.
func (d SessionDraft) Validate() []error {
	return []error{
		check.LenBetween(d.Name, 1, maxSessionNameLength, "name"),
		check.LenBetween(d.Description, 1, maxSessionDescriptionLength, "description"),
		check.True(!d.Date.IsZero(), "date is required"),
		check.GreaterThan(int(d.TeacherID), 0, "teacher"),
	}
}

// Teacher leads sessions; read-only from the client.
type Teacher struct {
	ID        TeacherID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	CreatedAt Timestamp `json:"createdAt"`
	UpdatedAt Timestamp `json:"updatedAt"`
}

// FullName is the display name of the teacher.
func (t Teacher) FullName() string {
	return t.FirstName + " " + t.LastName
}
