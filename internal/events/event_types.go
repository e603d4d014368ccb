package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventDepartmentLogin       EventType = "department_login"
	EventDepartmentLoginFailed EventType = "department_login_failed"
	EventStaffLogin            EventType = "staff_login"
	EventDepartmentPasswordSet EventType = "department_password_rotated"
)

// ActorType identifies who triggered an event.
type ActorType string

const (
	ActorDepartment ActorType = "DEPARTMENT"
	ActorProfile    ActorType = "PROFILE"
	ActorAnonymous  ActorType = "ANONYMOUS"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Type ActorType `json:"type"`
	ID   string    `json:"id,omitempty"`
}

// Event represents an access-control activity emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// DepartmentLoginPayload accompanies EventDepartmentLogin.
type DepartmentLoginPayload struct {
	DepartmentID   string `json:"department_id"`
	DepartmentName string `json:"department_name"`
	ClientIP       string `json:"client_ip"`
}

// DepartmentLoginFailedPayload accompanies EventDepartmentLoginFailed.
type DepartmentLoginFailedPayload struct {
	DepartmentID string `json:"department_id"`
	Reason       string `json:"reason"`
	ClientIP     string `json:"client_ip"`
}

// StaffLoginPayload accompanies EventStaffLogin.
type StaffLoginPayload struct {
	ProfileID string `json:"profile_id"`
	Email     string `json:"email"`
}

// DepartmentPasswordSetPayload accompanies EventDepartmentPasswordSet.
type DepartmentPasswordSetPayload struct {
	DepartmentID string `json:"department_id"`
	RotatedBy    string `json:"rotated_by"`
}
