package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/devking-app/devking-api/internal/config"
	"github.com/devking-app/devking-api/internal/handler"
	"github.com/devking-app/devking-api/internal/middleware"
	"github.com/devking-app/devking-api/internal/models"
	"github.com/devking-app/devking-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler             *handler.AuthHandler
	CatalogHandler          *handler.CatalogHandler
	StudentHandler          *handler.StudentHandler
	CourseHandler           *handler.CourseHandler
	AdminHandler            *handler.AdminHandler
	AdminDashboardHandler   *handler.AdminDashboardHandler
	TeacherDashboardHandler *handler.TeacherDashboardHandler
	UploadHandler           *handler.UploadHandler
	JWTMiddleware           fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	// Common v1 group for health & headers
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

	if deps.AuthHandler != nil {
		auth := api.Group("/auth", middleware.RateLimit("auth", 20, time.Minute))
		deps.AuthHandler.Register(auth)

		profile := api.Group("/profile", jwtMiddleware)
		deps.AuthHandler.RegisterProfile(profile)
	}

	if deps.CatalogHandler != nil {
		deps.CatalogHandler.Register(api.Group("/catalog"))
	}

	if deps.StudentHandler != nil {
		student := api.Group("/student", jwtMiddleware, middleware.RequireRole(models.RoleStudent))
		deps.StudentHandler.Register(student)
	}

	if deps.CourseHandler != nil {
		teacher := api.Group("/teacher", jwtMiddleware, middleware.RequireRole(models.RoleTeacher))
		deps.CourseHandler.Register(teacher)

		if deps.TeacherDashboardHandler != nil {
			deps.TeacherDashboardHandler.Register(teacher.Group("/dashboard"))
		}
	}

	if deps.AdminHandler != nil {
		admin := api.Group("/admin", jwtMiddleware, middleware.RequireRole(models.RoleAdmin))
		deps.AdminHandler.Register(admin)

		if deps.AdminDashboardHandler != nil {
			deps.AdminDashboardHandler.Register(admin.Group("/dashboard"))
		}
	}

	if deps.UploadHandler != nil {
		uploads := api.Group("/uploads", jwtMiddleware, middleware.RequireRole(models.RoleTeacher, models.RoleAdmin))
		deps.UploadHandler.Register(uploads)
	}
}
