package domain

import (
	"strings"
	"time"
)

// Address is a postal location. Complaints reuse it for their location.
type Address struct {
	Line     string `json:"line"`
	City     string `json:"city"`
	Postal   string `json:"postal"`
	District string `json:"district"`
}

// Credential is a salted password digest. Never serialised to clients.
type Credential struct {
	Digest string
	Salt   string
}

// User is a citizen account.
type User struct {
	ID         string     `json:"id"`
	FirstName  string     `json:"firstName"`
	LastName   string     `json:"lastName"`
	Email      string     `json:"email"`
	Contact    string     `json:"contact,omitempty"`
	Gender     string     `json:"gender,omitempty"`
	Birthdate  *time.Time `json:"birthdate,omitempty"`
	ProfImg    string     `json:"profImg,omitempty"`
	Occupation string     `json:"occupation,omitempty"`
	Address    Address    `json:"address"`
	Credential Credential `json:"-"`
	Role       Role       `json:"role"`
	Complaints []string   `json:"complaints"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Role: u.Role}
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// UserPatch lists the profile fields a user may change. Nil means unchanged.
type UserPatch struct {
	FirstName  *string
	LastName   *string
	Email      *string
	Contact    *string
	Gender     *string
	Birthdate  *time.Time
	ProfImg    *string
	Occupation *string
	Address    *Address
}

func (p UserPatch) IsEmpty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Email == nil &&
		p.Contact == nil && p.Gender == nil && p.Birthdate == nil &&
		p.ProfImg == nil && p.Occupation == nil && p.Address == nil
}

// PendingRegistration is the signup payload carried inside a pending-registration
// token until the account is activated.
type PendingRegistration struct {
	FirstName string
	LastName  string
	Email     string
	Contact   string
	Password  string
	Address   Address
}
