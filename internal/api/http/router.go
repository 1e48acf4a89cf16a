package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/jobops-service/internal/api/http/handlers"
	"github.com/spec-kit/jobops-service/internal/auth"
	"github.com/spec-kit/jobops-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Jobs           *handlers.JobsHandler
	Tasks          *handlers.TasksHandler
	Equipment      *handlers.EquipmentHandler
	Dashboard      *handlers.DashboardHandler
	Analytics      *handlers.AnalyticsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Role gates that depend only on the
// caller's role live here; entity-level checks live in the handlers.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	authProtected.Post("/password/change", cfg.Auth.ChangePassword)
	authProtected.Get("/me", cfg.Auth.Me)

	users := app.Group("/users", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	users.Post("", cfg.Users.CreateUser)
	users.Get("", cfg.Users.ListUsers)
	users.Get("/:id", cfg.Users.GetUser)
	users.Put("/:id", cfg.Users.UpdateUser)
	users.Delete("/:id", cfg.Users.DeactivateUser)

	jobs := app.Group("/jobs", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	jobs.Post("", auth.RequireRole(domain.RoleAdmin, domain.RoleSalesAgent), cfg.Jobs.CreateJob)
	jobs.Get("", auth.RequireRole(domain.RoleAdmin, domain.RoleSalesAgent), cfg.Jobs.ListJobs)
	jobs.Get("/:id", cfg.Jobs.GetJob)
	jobs.Put("/:id", cfg.Jobs.UpdateJob)
	jobs.Delete("/:id", cfg.Jobs.DeleteJob)
	jobs.Post("/:id/tasks", cfg.Tasks.CreateTask)
	jobs.Get("/:id/tasks", cfg.Tasks.ListTasks)

	tasks := app.Group("/tasks", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	tasks.Get("/:id", cfg.Tasks.GetTask)
	tasks.Put("/:id", cfg.Tasks.UpdateTask)
	tasks.Delete("/:id", cfg.Tasks.DeleteTask)
	tasks.Post("/:id/status", cfg.Tasks.UpdateTaskStatus)

	equipment := app.Group("/equipment", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	equipment.Get("/active", cfg.Equipment.ListActiveEquipment)
	equipment.Post("", auth.RequireRole(domain.RoleAdmin), cfg.Equipment.CreateEquipment)
	equipment.Get("", auth.RequireRole(domain.RoleAdmin), cfg.Equipment.ListEquipment)
	equipment.Get("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Equipment.GetEquipment)
	equipment.Put("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Equipment.UpdateEquipment)
	equipment.Delete("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Equipment.DeleteEquipment)

	dashboard := app.Group("/dashboard", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleTechnician))
	dashboard.Get("/technician", cfg.Dashboard.TechnicianDashboard)

	analytics := app.Group("/analytics", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	analytics.Get("", cfg.Analytics.Report)
}
