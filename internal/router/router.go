package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/courtdesk/registry-api/internal/config"
	"github.com/courtdesk/registry-api/internal/handler"
	"github.com/courtdesk/registry-api/internal/middleware"
	"github.com/courtdesk/registry-api/internal/models"
	"github.com/courtdesk/registry-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler         *handler.AuthHandler
	UserHandler         *handler.UserHandler
	CaseHandler         *handler.CaseHandler
	EmployeeHandler     *handler.EmployeeHandler
	ReceivingLogHandler *handler.ReceivingLogHandler
	ActivityHandler     *handler.ActivityHandler
	DashboardHandler    *handler.DashboardHandler
	JWTMiddleware       fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	// Authentication
	if deps.AuthHandler != nil {
		auth := api.Group("/auth")
		auth.Use("/login", middleware.RateLimit("login", cfg.LoginRateMax, cfg.LoginRateWindow))
		deps.AuthHandler.RegisterPublic(auth)

		session := auth.Group("", jwtMiddleware)
		deps.AuthHandler.RegisterProtected(session)

		admin := auth.Group("/admin", jwtMiddleware, adminOnly)
		deps.AuthHandler.RegisterAdmin(admin)
	}

	// Staff accounts (admin) and self-service profile
	if deps.UserHandler != nil {
		users := api.Group("/users", jwtMiddleware, adminOnly)
		deps.UserHandler.Register(users)

		profile := api.Group("/profile", jwtMiddleware)
		deps.UserHandler.RegisterProfile(profile)
	}

	// Case docket
	if deps.CaseHandler != nil {
		cases := api.Group("/cases", jwtMiddleware)
		deps.CaseHandler.Register(cases)
	}

	// Staff directory
	if deps.EmployeeHandler != nil {
		employees := api.Group("/employees", jwtMiddleware)
		deps.EmployeeHandler.Register(employees)
	}

	// Incoming-document register
	if deps.ReceivingLogHandler != nil {
		register := api.Group("/receiving-logs", jwtMiddleware)
		deps.ReceivingLogHandler.Register(register)
	}

	// Activity log
	if deps.ActivityHandler != nil {
		activity := api.Group("/activity", jwtMiddleware)
		deps.ActivityHandler.Register(activity)
	}

	// Dashboard counters
	if deps.DashboardHandler != nil {
		dashboard := api.Group("/dashboard", jwtMiddleware)
		deps.DashboardHandler.Register(dashboard)
	}
}
