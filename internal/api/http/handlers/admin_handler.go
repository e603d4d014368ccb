package handlers

import (
	"html"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/ZYX-Studios/v0-nevha-sub002/internal/api/dto"
	"github.com/ZYX-Studios/v0-nevha-sub002/internal/auth"
	"github.com/ZYX-Studios/v0-nevha-sub002/internal/service"
)

// AdminHandler serves the admin and staff surface.
type AdminHandler struct {
	departments *service.DepartmentAdminService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(departments *service.DepartmentAdminService) *AdminHandler {
	return &AdminHandler{departments: departments}
}

// Me handles GET /api/admin/me.
func (h *AdminHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Profile == nil {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	return c.JSON(dto.PrincipalResponse{
		ID:       principal.Profile.ID,
		Email:    principal.Profile.Email,
		FullName: principal.Profile.FullName,
		Role:     string(principal.Profile.Role),
	})
}

// RotateDepartmentPassword handles POST /api/admin/departments/:id/password.
func (h *AdminHandler) RotateDepartmentPassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	var req dto.RotatePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	departmentID := utils.CopyString(c.Params("id"))
	version, err := h.departments.RotatePassword(c.UserContext(), principal.ProfileID, departmentID, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.RotatePasswordResponse{DepartmentID: departmentID, PasswordVersion: version})
}

// Dashboard handles GET /admin.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return c.Redirect("/login", http.StatusFound)
	}
	c.Type("html", "utf-8")
	return c.SendString("<!doctype html><title>Admin</title><p>Signed in as " + html.EscapeString(principal.Email) + "</p>")
}
