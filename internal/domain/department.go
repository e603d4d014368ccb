package domain

import "time"

// Department is a portal unit sharing one login password across its members.
type Department struct {
	ID           string
	Name         string
	PasswordHash string
	// PasswordVersion changes whenever the shared password rotates. Nil means the
	// department predates versioning and sessions are not version-checked.
	PasswordVersion *string
	IsActive        bool
	LastUsedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
