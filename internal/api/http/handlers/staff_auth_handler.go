package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ZYX-Studios/v0-nevha-sub002/internal/api/dto"
	"github.com/ZYX-Studios/v0-nevha-sub002/internal/auth"
	"github.com/ZYX-Studios/v0-nevha-sub002/internal/observability"
	"github.com/ZYX-Studios/v0-nevha-sub002/internal/service"
)

// StaffAuthHandler exposes the identity login for admin and staff accounts.
type StaffAuthHandler struct {
	auth         *service.StaffAuthService
	secureCookie bool
	metrics      *observability.Metrics
}

// NewStaffAuthHandler constructs handler.
func NewStaffAuthHandler(authService *service.StaffAuthService, secureCookie bool, metrics *observability.Metrics) *StaffAuthHandler {
	return &StaffAuthHandler{auth: authService, secureCookie: secureCookie, metrics: metrics}
}

// Login handles POST /api/auth/login. The token is returned in the body for API
// clients and set as a cookie for page navigation.
func (h *StaffAuthHandler) Login(c *fiber.Ctx) error {
	var req dto.StaffLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	h.metrics.RecordLogin("staff", loginOutcome(err))
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     auth.AccessTokenCookieName,
		Value:    result.AccessToken,
		Path:     "/",
		MaxAge:   int(time.Until(result.ExpiresAt) / time.Second),
		Expires:  result.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(dto.AuthResponse{Token: result.AccessToken, ExpiresAt: result.ExpiresAt})
}
