package dto

import "time"

// DepartmentLoginRequest payload for the department portal.
type DepartmentLoginRequest struct {
	DepartmentID string `json:"department_id"`
	Password     string `json:"password"`
}

// DepartmentSessionResponse describes the department behind a session.
type DepartmentSessionResponse struct {
	DepartmentID   string `json:"department_id"`
	DepartmentName string `json:"department_name"`
}

// DepartmentSummary is one entry of the login picker.
type DepartmentSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// StaffLoginRequest payload for admin and staff accounts.
type StaffLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse standard response for identity logins.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PrincipalResponse describes the authenticated admin or staff caller.
type PrincipalResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// RotatePasswordRequest sets a new department password.
type RotatePasswordRequest struct {
	Password string `json:"password"`
}

// RotatePasswordResponse reports the new revocation marker.
type RotatePasswordResponse struct {
	DepartmentID    string `json:"department_id"`
	PasswordVersion string `json:"password_version"`
}
