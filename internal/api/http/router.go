package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/ZYX-Studios/v0-nevha-sub002/internal/api/http/handlers"
	"github.com/ZYX-Studios/v0-nevha-sub002/internal/auth"
	"github.com/ZYX-Studios/v0-nevha-sub002/internal/observability"
	"github.com/ZYX-Studios/v0-nevha-sub002/internal/ratelimit"
)

// LoginThrottle configures rate limiting of password logins.
type LoginThrottle struct {
	Limiter *ratelimit.Limiter
	Window  time.Duration
	Limit   int
}

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Departments    *handlers.DepartmentAuthHandler
	Staff          *handlers.StaffAuthHandler
	Admin          *handlers.AdminHandler
	Lookup         *handlers.LookupHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
	Throttle       LoginThrottle
}

// Page paths used by the admin page guard.
const (
	LoginPagePath = "/login"
	HomePagePath  = "/"
)

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))

	throttle := func(scope string) fiber.Handler {
		return cfg.Throttle.Limiter.Handler(scope, cfg.Throttle.Window, cfg.Throttle.Limit, cfg.Metrics)
	}

	api := app.Group("/api")

	departments := api.Group("/departments")
	departments.Get("", cfg.Departments.List)
	departments.Post("/login", throttle("department_login"), cfg.Departments.Login)
	departments.Post("/logout", cfg.Departments.Logout)
	departments.Get("/session", cfg.AuthMiddleware.RequireDepartmentSession(), cfg.Departments.Session)

	api.Post("/auth/login", throttle("staff_login"), cfg.Staff.Login)

	admin := api.Group("/admin", cfg.AuthMiddleware.RequireAdminOrStaff())
	admin.Get("/me", cfg.Admin.Me)
	admin.Post("/departments/:id/password", cfg.Admin.RotateDepartmentPassword)

	api.Get("/lookup", cfg.Lookup.Search)

	app.Get("/admin", cfg.AuthMiddleware.RequireAdminOrStaffPage(LoginPagePath, HomePagePath), cfg.Admin.Dashboard)
}
