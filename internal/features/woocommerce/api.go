package woocommerce

import (
	"github.com/gofiber/fiber/v2"

	common_api "woocrm/internal/common/api"
	"woocrm/internal/config"
	"woocrm/internal/middleware"
)

type WooCommerceAPI struct {
	controller *WooCommerceController
	config     *config.Config
}

func NewWooCommerceAPI(controller *WooCommerceController, config *config.Config) common_api.Route {
	return &WooCommerceAPI{
		controller: controller,
		config:     config,
	}
}

func (h *WooCommerceAPI) Setup(app *fiber.App) {
	api := app.Group("/api/woocommerce", middleware.AuthMiddleware(h.config.SkipAuth))

	api.Get("/sync/status", h.controller.GetSyncStatus)
	api.Post("/sync/customers", h.controller.TriggerCustomerSync)
	api.Post("/sync/products", h.controller.TriggerProductSync)
	api.Post("/sync/orders", h.controller.TriggerOrderSync)
	api.Post("/sync/all", h.controller.TriggerFullSync)

	// Scheduler settings are admin-only.
	api.Get("/sync/settings", middleware.RequireAdmin(), h.controller.GetSyncSettings)
	api.Put("/sync/settings", middleware.RequireAdmin(), h.controller.UpdateSyncSettings)

	api.Get("/test-connection", h.controller.TestConnection)
}
