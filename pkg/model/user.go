package model

import (
	"encoding/json"
	"strings"

	"gopkg.in/guregu/null.v3"

	"github.com/yogastudio/yoga/pkg/check"
)

// UserID is the type for user IDs.
type UserID int

// User is an account as returned by GET /api/user/{id}.
type User struct {
	ID        UserID    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Admin     bool      `json:"admin"`
	CreatedAt Timestamp `json:"createdAt"`
	UpdatedAt Timestamp `json:"updatedAt"`
}

// FullName is the display name of the user.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + strings.ToUpper(u.LastName))
}

// SessionInformation is the in-memory snapshot of the authenticated user, as returned by a
// successful login. It is distinct from Session, the bookable resource.
type SessionInformation struct {
	ID        UserID      `json:"id"`
	Email     string      `json:"email"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Admin     bool        `json:"admin"`
	CreatedAt Timestamp   `json:"createdAt"`
	UpdatedAt Timestamp   `json:"updatedAt"`
	Token     null.String `json:"token"`
	Type      string      `json:"type,omitempty"`
}

// UnmarshalJSON accepts the login payload's "username" field as the email when "email" is absent.
func (s *SessionInformation) UnmarshalJSON(b []byte) error {
	type plain SessionInformation
	aux := struct {
		*plain
		Username string `json:"username"`
	}{plain: (*plain)(s)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if s.Email == "" {
		s.Email = aux.Username
	}
	return nil
}

// BearerToken returns the token to present on authenticated calls, if one was issued.
func (s SessionInformation) BearerToken() (string, bool) {
	if !s.Token.Valid || s.Token.String == "" {
		return "", false
	}
	return s.Token.String, true
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate implements the check.Validatable interface.
func (r LoginRequest) Validate() []error {
	return []error{
		check.NotEmpty(r.Email, "email is required"),
		check.LenBetween(r.Password, 3, 40, "password"),
	}
}

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Validate implements the check.Validatable interface.
func (r RegisterRequest) Validate() []error {
	return []error{
		check.LenBetween(r.Email, 3, 50, "email"),
		check.True(strings.Contains(r.Email, "@"), "email must contain '@'"),
		check.LenBetween(r.FirstName, 3, 20, "first name"),
		check.LenBetween(r.LastName, 3, 20, "last name"),
		check.LenBetween(r.Password, 3, 40, "password"),
	}
}

// MessageResponse is the acknowledgement body used by register, account deletion and errors.
type MessageResponse struct {
	Message string `json:"message"`
}
