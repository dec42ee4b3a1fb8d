package domain

import "time"

// UserRole enumerates access levels for accounts.
type UserRole string

const (
	RoleUser         UserRole = "USER"
	RoleSupportAgent UserRole = "SUPPORT_AGENT"
	RoleAdmin        UserRole = "ADMIN"
)

// ValidRole reports whether the value is a known role.
func ValidRole(r UserRole) bool {
	switch r {
	case RoleUser, RoleSupportAgent, RoleAdmin:
		return true
	}
	return false
}

// User is the domain model for every account: requesters, agents and admins.
type User struct {
	ID           string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	Role         UserRole
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName joins first and last name for display purposes.
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
