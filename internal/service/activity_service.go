package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ZYX-Studios/v0-nevha-sub002/internal/events"
	"github.com/ZYX-Studios/v0-nevha-sub002/internal/repository"
)

// ActivityService records best-effort activity stamps and audit lines for access
// events. Nothing it does can change the outcome of the request that emitted them.
type ActivityService struct {
	dispatcher  events.Dispatcher
	departments repository.DepartmentRepository
	profiles    repository.ProfileRepository
	logger      *zap.Logger
}

// NewActivityService creates the service.
func NewActivityService(dispatcher events.Dispatcher, departments repository.DepartmentRepository, profiles repository.ProfileRepository, logger *zap.Logger) *ActivityService {
	return &ActivityService{
		dispatcher:  dispatcher,
		departments: departments,
		profiles:    profiles,
		logger:      logger,
	}
}

// RegisterHandlers subscribes to events.
func (a *ActivityService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventDepartmentLogin, a.handleDepartmentLogin)
	a.dispatcher.Subscribe(events.EventDepartmentLoginFailed, a.handleDepartmentLoginFailed)
	a.dispatcher.Subscribe(events.EventStaffLogin, a.handleStaffLogin)
	a.dispatcher.Subscribe(events.EventDepartmentPasswordSet, a.handlePasswordRotated)
}

func (a *ActivityService) handleDepartmentLogin(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.DepartmentLoginPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	a.logger.Info("DepartmentLogin",
		zap.String("department_id", payload.DepartmentID),
		zap.String("client_ip", payload.ClientIP))
	if err := a.departments.TouchLastUsed(ctx, payload.DepartmentID, event.Timestamp); err != nil {
		return fmt.Errorf("stamp last_used_at: %w", err)
	}
	return nil
}

func (a *ActivityService) handleDepartmentLoginFailed(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.DepartmentLoginFailedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	a.logger.Warn("DepartmentLoginFailed",
		zap.String("department_id", payload.DepartmentID),
		zap.String("reason", payload.Reason),
		zap.String("client_ip", payload.ClientIP))
	return nil
}

func (a *ActivityService) handleStaffLogin(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.StaffLoginPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	a.logger.Info("StaffLogin", zap.String("profile_id", payload.ProfileID))
	if err := a.profiles.TouchLastLogin(ctx, payload.ProfileID, event.Timestamp); err != nil {
		return fmt.Errorf("stamp last_login_at: %w", err)
	}
	return nil
}

func (a *ActivityService) handlePasswordRotated(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.DepartmentPasswordSetPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	a.logger.Info("DepartmentPasswordRotated",
		zap.String("department_id", payload.DepartmentID),
		zap.String("rotated_by", payload.RotatedBy))
	return nil
}

// publish emits an event without letting dispatch problems reach the caller.
func publish(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, eventType events.EventType, actor events.Actor, payload interface{}) {
	if dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Error("publish event failed", zap.String("event_type", string(eventType)), zap.Error(err))
	}
}
