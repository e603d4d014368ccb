package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/ZYX-Studios/v0-nevha-sub002/internal/auth"
	"github.com/ZYX-Studios/v0-nevha-sub002/internal/domain"
	"github.com/ZYX-Studios/v0-nevha-sub002/internal/events"
	"github.com/ZYX-Studios/v0-nevha-sub002/internal/repository"
	apperrors "github.com/ZYX-Studios/v0-nevha-sub002/pkg/util"
)

// StaffLoginResult carries the identity token for an admin or staff account.
type StaffLoginResult struct {
	Profile     *domain.Profile
	AccessToken string
	ExpiresAt   time.Time
}

// StaffAuthService is the local identity provider for profile accounts.
type StaffAuthService struct {
	profiles   repository.ProfileRepository
	tokens     *auth.TokenManager
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewStaffAuthService builds the service.
func NewStaffAuthService(profiles repository.ProfileRepository, tokens *auth.TokenManager, dispatcher events.Dispatcher, logger *zap.Logger) *StaffAuthService {
	return &StaffAuthService{profiles: profiles, tokens: tokens, dispatcher: dispatcher, logger: logger}
}

// Login verifies email and password. Every credential failure returns the same 401.
// Role is not checked here; the guard reads it live on each request.
func (s *StaffAuthService) Login(ctx context.Context, email, password string) (*StaffLoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError("email and password are required", nil)
	}

	invalid := apperrors.NewUnauthorized("invalid credentials")
	profile, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, invalid
		}
		return nil, apperrors.NewInternalError(err)
	}
	if !profile.IsActive {
		return nil, invalid
	}
	if err := auth.ComparePassword(profile.PasswordHash, password); err != nil {
		return nil, invalid
	}

	tok, exp, err := s.tokens.GenerateToken(profile.ID, profile.Email)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	publish(ctx, s.dispatcher, s.logger, events.EventStaffLogin,
		events.Actor{Type: events.ActorProfile, ID: profile.ID},
		events.StaffLoginPayload{ProfileID: profile.ID, Email: profile.Email})

	return &StaffLoginResult{Profile: profile, AccessToken: tok, ExpiresAt: exp}, nil
}
