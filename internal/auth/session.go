package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ZYX-Studios/v0-nevha-sub002/internal/domain"
	"github.com/ZYX-Studios/v0-nevha-sub002/internal/token"
)

// DefaultSessionTTL is the lifetime of a department session token.
const DefaultSessionTTL = 7 * 24 * time.Hour

// SessionCookieName carries the department session token.
const SessionCookieName = "dept_session"

// DepartmentReader is the slice of the department store sessions depend on.
type DepartmentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Department, error)
}

// DepartmentSessionPayload is the signed body of a department session token.
type DepartmentSessionPayload struct {
	DepartmentID    string  `json:"department_id"`
	DepartmentName  string  `json:"department_name"`
	IssuedAt        int64   `json:"issued_at"`
	PasswordVersion *string `json:"password_version"`
}

// DepartmentContext is what a valid session resolves to.
type DepartmentContext struct {
	DepartmentID   string
	DepartmentName string
	IssuedAt       time.Time
}

// SessionManager issues department session tokens and resolves them against the
// live department record. Tokens are never renewed; a new login mints a new one.
type SessionManager struct {
	codec       *token.Codec
	departments DepartmentReader
	ttl         time.Duration
	now         func() time.Time
}

// NewSessionManager wires a manager. A non-positive ttl falls back to DefaultSessionTTL.
func NewSessionManager(codec *token.Codec, departments DepartmentReader, ttl time.Duration) *SessionManager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionManager{codec: codec, departments: departments, ttl: ttl, now: time.Now}
}

// TTL returns the session lifetime, which is also the cookie max-age.
func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a fresh session for the department.
func (m *SessionManager) Issue(departmentID, departmentName string, passwordVersion *string) (string, error) {
	return m.codec.Sign(DepartmentSessionPayload{
		DepartmentID:    departmentID,
		DepartmentName:  departmentName,
		IssuedAt:        m.now().Unix(),
		PasswordVersion: passwordVersion,
	})
}

// Resolve validates a session token: signature, lifetime, department liveness and the
// password version marker, in that order.
func (m *SessionManager) Resolve(ctx context.Context, tok string) (*DepartmentContext, error) {
	var payload DepartmentSessionPayload
	if err := m.codec.Verify(tok, &payload); err != nil {
		return nil, ErrSessionInvalid
	}
	if payload.DepartmentID == "" {
		return nil, ErrSessionInvalid
	}

	if m.now().Unix()-payload.IssuedAt > int64(m.ttl/time.Second) {
		return nil, ErrSessionExpired
	}

	dept, err := m.departments.GetByID(ctx, payload.DepartmentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionInvalid
		}
		return nil, fmt.Errorf("%w: %v", ErrIdentityLookup, err)
	}
	if !dept.IsActive {
		return nil, ErrDepartmentInactive
	}
	if dept.PasswordVersion != nil {
		if payload.PasswordVersion == nil || *payload.PasswordVersion != *dept.PasswordVersion {
			return nil, ErrSessionRevoked
		}
	}

	return &DepartmentContext{
		DepartmentID:   dept.ID,
		DepartmentName: dept.Name,
		IssuedAt:       time.Unix(payload.IssuedAt, 0),
	}, nil
}
