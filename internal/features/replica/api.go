package replica

import (
	"woocrm/internal/common/api"
	"woocrm/internal/config"
	"woocrm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ReplicaApi struct {
	controller *ReplicaController
	config     *config.Config
}

func NewReplicaApi(controller *ReplicaController, config *config.Config) api.Route {
	return &ReplicaApi{
		controller: controller,
		config:     config,
	}
}

func (h *ReplicaApi) Setup(app *fiber.App) {
	group := app.Group("/api/replica",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.RequireAdmin())

	group.Post("/export", h.controller.TriggerExport)
	group.Get("/status", h.controller.GetExportStatus)
}
