package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/ZYX-Studios/v0-nevha-sub002/internal/api/dto"
	"github.com/ZYX-Studios/v0-nevha-sub002/internal/auth"
	"github.com/ZYX-Studios/v0-nevha-sub002/internal/observability"
	"github.com/ZYX-Studios/v0-nevha-sub002/internal/ratelimit"
	"github.com/ZYX-Studios/v0-nevha-sub002/internal/service"
)

// DepartmentAuthHandler exposes the department portal login flow.
type DepartmentAuthHandler struct {
	auth         *service.DepartmentAuthService
	sessionTTL   time.Duration
	secureCookie bool
	metrics      *observability.Metrics
}

// NewDepartmentAuthHandler constructs handler. secureCookie should be true in production.
func NewDepartmentAuthHandler(authService *service.DepartmentAuthService, sessionTTL time.Duration, secureCookie bool, metrics *observability.Metrics) *DepartmentAuthHandler {
	return &DepartmentAuthHandler{auth: authService, sessionTTL: sessionTTL, secureCookie: secureCookie, metrics: metrics}
}

// List handles GET /api/departments.
func (h *DepartmentAuthHandler) List(c *fiber.Ctx) error {
	depts, err := h.auth.ListActive(c.UserContext())
	if err != nil {
		return err
	}
	resp := make([]dto.DepartmentSummary, 0, len(depts))
	for _, d := range depts {
		resp = append(resp, dto.DepartmentSummary{ID: d.ID, Name: d.Name})
	}
	return c.JSON(fiber.Map{"departments": resp})
}

// Login handles POST /api/departments/login.
func (h *DepartmentAuthHandler) Login(c *fiber.Ctx) error {
	var req dto.DepartmentLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	// The identity ends up in event payloads handled after the response is sent.
	client := utils.CopyString(ratelimit.ClientIdentity(c.Get(fiber.HeaderXForwardedFor)))
	result, err := h.auth.Login(c.UserContext(), req.DepartmentID, req.Password, client)
	h.metrics.RecordLogin("department", loginOutcome(err))
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     auth.SessionCookieName,
		Value:    result.SessionToken,
		Path:     "/",
		MaxAge:   int(h.sessionTTL / time.Second),
		Expires:  time.Now().Add(h.sessionTTL),
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
	return c.JSON(dto.DepartmentSessionResponse{
		DepartmentID:   result.Department.ID,
		DepartmentName: result.Department.Name,
	})
}

// Logout handles POST /api/departments/logout. The token itself stays valid until it
// expires; only the cookie is cleared.
func (h *DepartmentAuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
	return c.JSON(fiber.Map{"status": "logged_out"})
}

// Session handles GET /api/departments/session.
func (h *DepartmentAuthHandler) Session(c *fiber.Ctx) error {
	dept, ok := auth.DepartmentFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "department session required")
	}
	return c.JSON(dto.DepartmentSessionResponse{
		DepartmentID:   dept.DepartmentID,
		DepartmentName: dept.DepartmentName,
	})
}

func loginOutcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
