package order

import (
	"github.com/gofiber/fiber/v2"

	common_api "woocrm/internal/common/api"
	"woocrm/internal/config"
	"woocrm/internal/middleware"
)

type OrderAPI struct {
	controller *OrderController
	config     *config.Config
}

func NewOrderAPI(controller *OrderController, config *config.Config) common_api.Route {
	return &OrderAPI{
		controller: controller,
		config:     config,
	}
}

func (h *OrderAPI) Setup(app *fiber.App) {
	api := app.Group("/api/orders", middleware.AuthMiddleware(h.config.SkipAuth))

	api.Get("/", h.controller.ListOrders)
	api.Post("/", h.controller.CreateOrder)
	api.Get("/:id", h.controller.GetOrder)
	api.Put("/:id", h.controller.UpdateOrder)
	api.Delete("/:id", h.controller.DeleteOrder)
}
