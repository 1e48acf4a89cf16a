package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/jobops-service/internal/api/dto"
	"github.com/spec-kit/jobops-service/internal/auth"
	"github.com/spec-kit/jobops-service/internal/service"
	apperrors "github.com/spec-kit/jobops-service/pkg/util"
)

// DashboardHandler exposes the technician work view.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboardService}
}

// TechnicianDashboard GET /dashboard/technician. Returns the caller's open
// tasks grouped by the scheduled date of their parent job.
func (h *DashboardHandler) TechnicianDashboard(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}

	view, err := h.dashboard.ForTechnician(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDashboardResponse(view)})
}
