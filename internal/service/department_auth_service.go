package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/ZYX-Studios/v0-nevha-sub002/internal/auth"
	"github.com/ZYX-Studios/v0-nevha-sub002/internal/domain"
	"github.com/ZYX-Studios/v0-nevha-sub002/internal/events"
	"github.com/ZYX-Studios/v0-nevha-sub002/internal/repository"
	apperrors "github.com/ZYX-Studios/v0-nevha-sub002/pkg/util"
)

// DepartmentLoginResult is returned on a successful department login.
type DepartmentLoginResult struct {
	Department   *domain.Department
	SessionToken string
}

// DepartmentAuthService verifies shared department passwords and issues sessions.
type DepartmentAuthService struct {
	departments repository.DepartmentRepository
	sessions    *auth.SessionManager
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// NewDepartmentAuthService builds the service.
func NewDepartmentAuthService(departments repository.DepartmentRepository, sessions *auth.SessionManager, dispatcher events.Dispatcher, logger *zap.Logger) *DepartmentAuthService {
	return &DepartmentAuthService{
		departments: departments,
		sessions:    sessions,
		dispatcher:  dispatcher,
		logger:      logger,
	}
}

// ListActive returns departments available on the login screen.
func (s *DepartmentAuthService) ListActive(ctx context.Context) ([]domain.Department, error) {
	depts, err := s.departments.ListActive(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return depts, nil
}

// Login checks the department password and mints a session. Rate limiting happens
// before this is called.
func (s *DepartmentAuthService) Login(ctx context.Context, departmentID, password, clientIP string) (*DepartmentLoginResult, error) {
	departmentID = strings.TrimSpace(departmentID)
	if departmentID == "" || password == "" {
		return nil, apperrors.NewValidationError("department_id and password are required", nil)
	}

	dept, err := s.departments.GetByID(ctx, departmentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.failed(ctx, departmentID, "not_found", clientIP)
			return nil, apperrors.NewNotFound("department", map[string]any{"department_id": departmentID})
		}
		return nil, apperrors.NewInternalError(err)
	}
	if !dept.IsActive {
		s.failed(ctx, departmentID, "inactive", clientIP)
		return nil, apperrors.NewForbidden("department is inactive")
	}
	if err := auth.ComparePassword(dept.PasswordHash, password); err != nil {
		s.failed(ctx, departmentID, "invalid_password", clientIP)
		return nil, apperrors.NewUnauthorized("invalid password")
	}

	tok, err := s.sessions.Issue(dept.ID, dept.Name, dept.PasswordVersion)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	publish(ctx, s.dispatcher, s.logger, events.EventDepartmentLogin,
		events.Actor{Type: events.ActorDepartment, ID: dept.ID},
		events.DepartmentLoginPayload{DepartmentID: dept.ID, DepartmentName: dept.Name, ClientIP: clientIP})

	return &DepartmentLoginResult{Department: dept, SessionToken: tok}, nil
}

func (s *DepartmentAuthService) failed(ctx context.Context, departmentID, reason, clientIP string) {
	publish(ctx, s.dispatcher, s.logger, events.EventDepartmentLoginFailed,
		events.Actor{Type: events.ActorAnonymous},
		events.DepartmentLoginFailedPayload{DepartmentID: departmentID, Reason: reason, ClientIP: clientIP})
}
