package domain

import "time"

// Role enumerates access levels stored on a profile.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleStaff  Role = "STAFF"
	RolePublic Role = "PUBLIC"
)

// IsPrivileged reports whether the role may use the admin surface.
func (r Role) IsPrivileged() bool {
	return r == RoleAdmin || r == RoleStaff
}

// Profile is the role record of an identity-provider account.
type Profile struct {
	ID           string
	Email        string
	FullName     string
	PasswordHash string
	Role         Role
	IsActive     bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
