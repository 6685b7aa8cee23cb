package importer

import (
	"woocrm/internal/common/api"
	"woocrm/internal/config"
	"woocrm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ImportApi struct {
	controller *ImportController
	config     *config.Config
}

func NewImportApi(controller *ImportController, config *config.Config) api.Route {
	return &ImportApi{
		controller: controller,
		config:     config,
	}
}

func (h *ImportApi) Setup(app *fiber.App) {
	group := app.Group("/api/import", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Post("/contacts", h.controller.ImportContacts)
}
