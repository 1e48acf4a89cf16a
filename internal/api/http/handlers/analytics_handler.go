package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/jobops-service/internal/service"
)

// AnalyticsHandler exposes the admin aggregate report.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
}

// NewAnalyticsHandler constructs handler.
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analyticsService}
}

// Report GET /analytics.
func (h *AnalyticsHandler) Report(c *fiber.Ctx) error {
	report, err := h.analytics.Report(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": report})
}
