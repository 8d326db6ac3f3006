package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// AnalyticsHandler serves the admin dashboard aggregate.
type AnalyticsHandler struct {
	service *service.AnalyticsService
}

// NewAnalyticsHandler constructs handler.
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: analyticsService}
}

// Dashboard GET /api/analytics/dashboard.
func (h *AnalyticsHandler) Dashboard(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	summary, err := h.service.Dashboard(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"analytics": summary})
}
