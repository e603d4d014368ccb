package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/ZYX-Studios/v0-nevha-sub002/internal/observability"
	apperrors "github.com/ZYX-Studios/v0-nevha-sub002/pkg/util"
)

const (
	principalKey  = "auth_principal"
	departmentKey = "auth_department"
)

// AuthMiddleware adapts Guard decisions to fiber handlers.
type AuthMiddleware struct {
	guard   *Guard
	metrics *observability.Metrics
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(guard *Guard, metrics *observability.Metrics) *AuthMiddleware {
	return &AuthMiddleware{guard: guard, metrics: metrics}
}

// RequireAuthenticated rejects callers without a valid identity credential.
func (m *AuthMiddleware) RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, err := m.guard.RequireAuthenticated(c.UserContext(), FiberCredentials(c))
		m.record("authenticated", err)
		if err != nil {
			return err
		}
		c.Locals(principalKey, principal)
		return c.Next()
	}
}

// RequireAdminOrStaff guards API routes with 401/403 responses.
func (m *AuthMiddleware) RequireAdminOrStaff() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, err := m.guard.RequireAdminOrStaff(c.UserContext(), FiberCredentials(c))
		m.record("admin_or_staff", err)
		if err != nil {
			return err
		}
		c.Locals(principalKey, principal)
		return c.Next()
	}
}

// RequireAdminOrStaffPage guards page routes: unauthenticated callers go to loginPath,
// authenticated callers without the role go to homePath.
func (m *AuthMiddleware) RequireAdminOrStaffPage(loginPath, homePath string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, err := m.guard.RequireAdminOrStaff(c.UserContext(), FiberCredentials(c))
		m.record("admin_or_staff_page", err)
		if err != nil {
			if apperrors.ToDomainError(err).HTTPStatus == http.StatusUnauthorized {
				return c.Redirect(loginPath, http.StatusFound)
			}
			return c.Redirect(homePath, http.StatusFound)
		}
		c.Locals(principalKey, principal)
		return c.Next()
	}
}

// RequireDepartmentSession guards department portal routes.
func (m *AuthMiddleware) RequireDepartmentSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dept, err := m.guard.RequireDepartmentSession(c.UserContext(), FiberCredentials(c))
		m.record("department_session", err)
		if err != nil {
			return err
		}
		c.Locals(departmentKey, dept)
		return c.Next()
	}
}

func (m *AuthMiddleware) record(guard string, err error) {
	outcome := "allowed"
	if err != nil {
		outcome = "denied"
	}
	m.metrics.RecordGuardDecision(guard, outcome)
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	principal, ok := c.Locals(principalKey).(*Principal)
	return principal, ok && principal != nil
}

// DepartmentFromContext retrieves the resolved department session.
func DepartmentFromContext(c *fiber.Ctx) (*DepartmentContext, bool) {
	dept, ok := c.Locals(departmentKey).(*DepartmentContext)
	return dept, ok && dept != nil
}
