// Package types holds the shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// the roster, the storage backends and the console can all import types
// without depending on each other.
package types

import (
	"strings"
	"time"
)

// DateLayout is how dates are written to snapshot files.
const DateLayout = time.DateOnly

// Student is a single stored profile.
//
// ID and EnrollmentDate are assigned by the roster on creation and never
// change afterwards. A GPA of 0.0 means "not graded yet", not a zero average.
//
// Struct tags:
//
//  1. json:"..." — used by the JSON export in the console.
//  2. yaml:"..." — used by the YAML snapshot backend.
type Student struct {
	ID             int       `json:"id"              yaml:"id"`
	FirstName      string    `json:"first_name"      yaml:"first_name"`
	LastName       string    `json:"last_name"       yaml:"last_name"`
	Email          string    `json:"email"           yaml:"email"`
	PhoneNumber    string    `json:"phone_number"    yaml:"phone_number"`
	DateOfBirth    time.Time `json:"date_of_birth"   yaml:"date_of_birth"`
	Address        string    `json:"address"         yaml:"address"`
	Course         string    `json:"course"          yaml:"course"`
	Semester       int       `json:"semester"        yaml:"semester"`
	GPA            float64   `json:"gpa"             yaml:"gpa"`
	Subjects       []string  `json:"subjects"        yaml:"subjects"`
	EnrollmentDate time.Time `json:"enrollment_date" yaml:"enrollment_date"`
}

// FullName is "First Last".
func (s Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// Age is the difference in calendar years between now and the date of birth.
func (s Student) Age(now time.Time) int {
	return now.Year() - s.DateOfBirth.Year()
}

// Graded reports whether the GPA holds a real value.
func (s Student) Graded() bool {
	return s.GPA > 0
}

// HasSubject reports whether name is already in the subject set.
func (s Student) HasSubject(name string) bool {
	for _, sub := range s.Subjects {
		if sub == name {
			return true
		}
	}
	return false
}

// EmailMatches compares emails the way the uniqueness rule does.
func (s Student) EmailMatches(email string) bool {
	return strings.EqualFold(s.Email, email)
}

// Clone returns a copy that shares no memory with s.
func (s Student) Clone() Student {
	c := s
	c.Subjects = make([]string, len(s.Subjects))
	copy(c.Subjects, s.Subjects)
	return c
}

// StudentInput carries the caller-supplied fields for create and update.
//
// The validate:"..." tags are checked by the console with
// go-playground/validator before the roster is called; the roster itself
// trusts whatever it is given. DateOfBirth is ignored by update and GPA is
// ignored by create (new students start ungraded).
type StudentInput struct {
	FirstName   string    `validate:"required"`
	LastName    string    `validate:"required"`
	Email       string    `validate:"required,email"`
	PhoneNumber string    `validate:"omitempty,max=32"`
	DateOfBirth time.Time `validate:"required"`
	Address     string
	Course      string  `validate:"required"`
	Semester    int     `validate:"required,min=1"`
	GPA         float64 `validate:"gte=0,lte=10"`
}

// Date truncates t to its calendar date at midnight UTC.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
