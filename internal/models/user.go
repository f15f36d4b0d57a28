package models

import (
	"strings"
	"time"
)

// Role determines what a user may see.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleClient
}

// User is an authenticated identity. The ID comes from the login provider
// and never changes once the row exists.
type User struct {
	ID              string    `gorm:"primaryKey;size:255" json:"id"`
	Email           *string   `gorm:"uniqueIndex;size:255" json:"email"`
	FirstName       *string   `gorm:"size:255" json:"firstName"`
	LastName        *string   `gorm:"size:255" json:"lastName"`
	ProfileImageURL *string   `gorm:"column:profile_image_url;size:500" json:"profileImageUrl"`
	Role            Role      `gorm:"size:20;not null;default:client" json:"role"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// IsAdmin reports whether the user has full visibility.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// FullName joins first and last name the way they are displayed on dashboards.
func (u *User) FullName() string {
	return strings.TrimSpace(deref(u.FirstName) + " " + deref(u.LastName))
}

// UpsertUser carries the claims of a login. Nil fields are left untouched
// when the user already exists.
type UpsertUser struct {
	ID              string  `json:"id" yaml:"id"`
	Email           *string `json:"email,omitempty" yaml:"email,omitempty"`
	FirstName       *string `json:"firstName,omitempty" yaml:"firstName,omitempty"`
	LastName        *string `json:"lastName,omitempty" yaml:"lastName,omitempty"`
	ProfileImageURL *string `json:"profileImageUrl,omitempty" yaml:"profileImageUrl,omitempty"`
	Role            Role    `json:"role,omitempty" yaml:"role,omitempty"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
