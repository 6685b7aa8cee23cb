package dashboard

import (
	"github.com/gofiber/fiber/v2"

	common_api "woocrm/internal/common/api"
	"woocrm/internal/config"
	"woocrm/internal/middleware"
)

type DashboardAPI struct {
	controller *DashboardController
	config     *config.Config
}

func NewDashboardAPI(controller *DashboardController, config *config.Config) common_api.Route {
	return &DashboardAPI{
		controller: controller,
		config:     config,
	}
}

func (h *DashboardAPI) Setup(app *fiber.App) {
	api := app.Group("/api/dashboard", middleware.AuthMiddleware(h.config.SkipAuth))

	api.Get("/stats", h.controller.GetStats)
}
