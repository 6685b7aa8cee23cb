package contact

import (
	"woocrm/internal/common/api"
	"woocrm/internal/config"
	"woocrm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ContactApi struct {
	controller *ContactController
	config     *config.Config
}

func NewContactApi(controller *ContactController, config *config.Config) api.Route {
	return &ContactApi{
		controller: controller,
		config:     config,
	}
}

// Setup registers contact routes
func (h *ContactApi) Setup(app *fiber.App) {
	group := app.Group("/api/contacts", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/", h.controller.ListContacts)
	group.Post("/", h.controller.CreateContact)
	group.Get("/:id", h.controller.GetContact)
	group.Put("/:id", h.controller.UpdateContact)
	group.Delete("/:id", h.controller.DeleteContact)
}
