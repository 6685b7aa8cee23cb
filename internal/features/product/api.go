package product

import (
	"github.com/gofiber/fiber/v2"

	common_api "woocrm/internal/common/api"
	"woocrm/internal/config"
	"woocrm/internal/middleware"
)

type ProductAPI struct {
	controller *ProductController
	config     *config.Config
}

func NewProductAPI(controller *ProductController, config *config.Config) common_api.Route {
	return &ProductAPI{
		controller: controller,
		config:     config,
	}
}

func (h *ProductAPI) Setup(app *fiber.App) {
	api := app.Group("/api/products", middleware.AuthMiddleware(h.config.SkipAuth))

	api.Get("/", h.controller.ListProducts)
	api.Post("/", h.controller.CreateProduct)
	api.Get("/:id", h.controller.GetProduct)
	api.Put("/:id", h.controller.UpdateProduct)
	api.Delete("/:id", h.controller.DeleteProduct)
}
