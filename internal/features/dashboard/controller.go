package dashboard

import (
	"github.com/gofiber/fiber/v2"
)

type DashboardController struct {
	service *DashboardService
}

func NewDashboardController(service *DashboardService) *DashboardController {
	return &DashboardController{service: service}
}

// GetStats godoc
// @Summary Dashboard statistics
// @Tags dashboard
// @Produce json
// @Success 200 {object} Stats
// @Router /api/dashboard/stats [get]
func (ctrl *DashboardController) GetStats(c *fiber.Ctx) error {
	stats, err := ctrl.service.GetStats(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch dashboard stats",
		})
	}
	return c.JSON(stats)
}
