package rule

import (
	"woocrm/internal/common/api"
	"woocrm/internal/config"
	"woocrm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type RuleApi struct {
	controller *RuleController
	config     *config.Config
}

func NewRuleApi(controller *RuleController, config *config.Config) api.Route {
	return &RuleApi{
		controller: controller,
		config:     config,
	}
}

// Setup registers automation rule routes. Rules run arbitrary actions, so
// the whole surface is admin-only.
func (h *RuleApi) Setup(app *fiber.App) {
	group := app.Group("/api/rules",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.RequireAdmin())

	group.Get("/", h.controller.ListRules)
	group.Post("/", h.controller.CreateRule)
	group.Get("/:id", h.controller.GetRule)
	group.Put("/:id", h.controller.UpdateRule)
	group.Put("/:id/active", h.controller.SetRuleActive)
	group.Delete("/:id", h.controller.DeleteRule)
}
