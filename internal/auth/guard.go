package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/ZYX-Studios/v0-nevha-sub002/internal/domain"
	apperrors "github.com/ZYX-Studios/v0-nevha-sub002/pkg/util"
)

// IdentityVerifier validates identity-provider credentials.
type IdentityVerifier interface {
	ParseToken(token string) (*Claims, error)
}

// ProfileReader loads role records.
type ProfileReader interface {
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
}

// Principal represents the authenticated caller.
type Principal struct {
	ProfileID string
	Email     string
	// Profile is set once the role record has been loaded.
	Profile *domain.Profile
}

// Guard makes access decisions. It returns nil to proceed or a *DomainError carrying
// 401 or 403. Guards never write to the stores they read.
type Guard struct {
	identities IdentityVerifier
	profiles   ProfileReader
	sessions   *SessionManager
	logger     *zap.Logger
}

// NewGuard constructs a guard.
func NewGuard(identities IdentityVerifier, profiles ProfileReader, sessions *SessionManager, logger *zap.Logger) *Guard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guard{identities: identities, profiles: profiles, sessions: sessions, logger: logger}
}

// RequireAuthenticated verifies the identity credential.
func (g *Guard) RequireAuthenticated(_ context.Context, creds CredentialSource) (*Principal, error) {
	raw := creds.IdentityCredential()
	if raw == "" {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	claims, err := g.identities.ParseToken(raw)
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid or expired credential")
	}
	return &Principal{ProfileID: claims.Subject, Email: claims.Email}, nil
}

// RequireAdminOrStaff authenticates the caller and then checks the live role record.
func (g *Guard) RequireAdminOrStaff(ctx context.Context, creds CredentialSource) (*Principal, error) {
	principal, err := g.RequireAuthenticated(ctx, creds)
	if err != nil {
		return nil, err
	}

	profile, err := g.profiles.GetByID(ctx, principal.ProfileID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			g.logger.Error("role lookup failed", zap.String("profile_id", principal.ProfileID), zap.Error(err))
		}
		return nil, apperrors.NewForbidden("admin or staff role required")
	}
	if !profile.IsActive || !profile.Role.IsPrivileged() {
		return nil, apperrors.NewForbidden("admin or staff role required")
	}

	principal.Profile = profile
	return principal, nil
}

// RequireDepartmentSession resolves the department session credential. Every failure
// mode yields the same 401.
func (g *Guard) RequireDepartmentSession(ctx context.Context, creds CredentialSource) (*DepartmentContext, error) {
	raw := creds.SessionCredential()
	if raw == "" {
		return nil, apperrors.NewUnauthorized("department session required")
	}
	dept, err := g.sessions.Resolve(ctx, raw)
	if err != nil {
		if errors.Is(err, ErrIdentityLookup) {
			g.logger.Error("department session lookup failed", zap.Error(err))
		} else {
			g.logger.Debug("department session rejected", zap.Error(err))
		}
		return nil, apperrors.NewUnauthorized("department session required")
	}
	return dept, nil
}
