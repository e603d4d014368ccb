package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/ZYX-Studios/v0-nevha-sub002/internal/auth"
	"github.com/ZYX-Studios/v0-nevha-sub002/internal/events"
	"github.com/ZYX-Studios/v0-nevha-sub002/internal/repository"
	apperrors "github.com/ZYX-Studios/v0-nevha-sub002/pkg/util"
)

// DepartmentAdminService manages department credentials.
type DepartmentAdminService struct {
	departments repository.DepartmentRepository
	bcryptCost  int
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// NewDepartmentAdminService builds the service.
func NewDepartmentAdminService(departments repository.DepartmentRepository, bcryptCost int, dispatcher events.Dispatcher, logger *zap.Logger) *DepartmentAdminService {
	return &DepartmentAdminService{departments: departments, bcryptCost: bcryptCost, dispatcher: dispatcher, logger: logger}
}

// RotatePassword sets a new shared password and a fresh password version, which
// revokes every session issued before the rotation. It returns the new version.
func (s *DepartmentAdminService) RotatePassword(ctx context.Context, actorProfileID, departmentID, newPassword string) (string, error) {
	if err := auth.ValidateNewPassword(newPassword); err != nil {
		return "", apperrors.NewValidationError("password must be between 8 and 72 bytes", map[string]any{"min_length": auth.MinPasswordLength})
	}
	if _, err := s.departments.GetByID(ctx, departmentID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NewNotFound("department", map[string]any{"department_id": departmentID})
		}
		return "", apperrors.NewInternalError(err)
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return "", apperrors.NewInternalError(err)
	}
	version := uuid.NewString()
	if err := s.departments.UpdateCredentials(ctx, departmentID, hash, version); err != nil {
		return "", apperrors.MapError(err)
	}

	publish(ctx, s.dispatcher, s.logger, events.EventDepartmentPasswordSet,
		events.Actor{Type: events.ActorProfile, ID: actorProfileID},
		events.DepartmentPasswordSetPayload{DepartmentID: departmentID, RotatedBy: actorProfileID})
	return version, nil
}
