package tag

import (
	"github.com/gofiber/fiber/v2"

	common_api "woocrm/internal/common/api"
	"woocrm/internal/config"
	"woocrm/internal/middleware"
)

type TagAPI struct {
	controller *TagController
	config     *config.Config
}

func NewTagAPI(controller *TagController, config *config.Config) common_api.Route {
	return &TagAPI{
		controller: controller,
		config:     config,
	}
}

func (h *TagAPI) Setup(app *fiber.App) {
	api := app.Group("/api/tags", middleware.AuthMiddleware(h.config.SkipAuth))

	api.Get("/", h.controller.ListTags)
	api.Post("/", h.controller.CreateTag)
	api.Delete("/:id", h.controller.DeleteTag)

	contacts := app.Group("/api/contacts", middleware.AuthMiddleware(h.config.SkipAuth))
	contacts.Post("/:id/tags", h.controller.AssignToContact)
	contacts.Delete("/:id/tags/:tagId", h.controller.RemoveFromContact)
}
