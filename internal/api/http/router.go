package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Analytics      *handlers.AnalyticsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")
	api.Post("/auth/register", cfg.Users.Register)
	api.Post("/auth/login", cfg.Users.Login)

	protected := api.Group("", cfg.AuthMiddleware.Handle)
	protected.Post("/tickets", cfg.Tickets.CreateTicket)
	protected.Get("/tickets", cfg.Tickets.ListTickets)
	protected.Get("/tickets/:id", cfg.Tickets.GetTicket)
	protected.Patch("/tickets/:id/status", cfg.Tickets.UpdateStatus)
	protected.Post("/tickets/:id/comments", cfg.Tickets.AddComment)
	protected.Patch("/tickets/:id/assignee", cfg.Tickets.AssignTicket)
	protected.Delete("/tickets/:id", cfg.Tickets.DeleteTicket)

	protected.Get("/analytics/dashboard", auth.RequireRole(domain.RoleAdmin), cfg.Analytics.Dashboard)
}
