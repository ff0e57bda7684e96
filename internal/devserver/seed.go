package devserver

import (
	"github.com/pkg/errors"

	"github.com/yogastudio/yoga/pkg/model"
)

// SeedUser is an account created at startup.
type SeedUser struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Admin     bool   `json:"admin"`
}

// SeedTeacher is a teacher created at startup.
type SeedTeacher struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Seed is the initial content of the tables.
type Seed struct {
	Users    []SeedUser    `json:"users"`
	Teachers []SeedTeacher `json:"teachers"`
}

// DefaultSeed returns the studio's administrator and two teachers.
func DefaultSeed() Seed {
	return Seed{
		Users: []SeedUser{{
			Email:     "yoga@studio.com",
			Password:  "test!1234",
			FirstName: "Admin",
			LastName:  "Admin",
			Admin:     true,
		}},
		Teachers: []SeedTeacher{
			{FirstName: "Margot", LastName: "DELAHAYE"},
			{FirstName: "Hélène", LastName: "THIERCELIN"},
		},
	}
}

func (m *memStore) seed(s Seed) error {
	for _, u := range s.Users {
		if _, err := m.addUser(model.User{
			Email:     u.Email,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Admin:     u.Admin,
		}, u.Password); err != nil {
			return errors.Wrapf(err, "adding user %s", u.Email)
		}
	}
	for _, t := range s.Teachers {
		m.addTeacher(model.Teacher{FirstName: t.FirstName, LastName: t.LastName})
	}
	return nil
}
