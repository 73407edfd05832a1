package domain

import "time"

// Authority is a government office account. Admins are authorities with RoleAdmin.
type Authority struct {
	ID            string     `json:"id"`
	AuthorityName string     `json:"authorityName"`
	Username      string     `json:"username"`
	Email         string     `json:"email"`
	Contact       string     `json:"contact,omitempty"`
	District      string     `json:"district"`
	Credential    Credential `json:"-"`
	Role          Role       `json:"role"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func (a *Authority) Identity() Identity {
	return Identity{ID: a.ID, Role: a.Role}
}

// AuthorityPatch lists the profile fields an authority may change.
type AuthorityPatch struct {
	AuthorityName *string
	Email         *string
	Contact       *string
	District      *string
}

func (p AuthorityPatch) IsEmpty() bool {
	return p.AuthorityName == nil && p.Email == nil && p.Contact == nil && p.District == nil
}
