package replica

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

type ReplicaController struct {
	service ReplicaService
}

func NewReplicaController(service ReplicaService) *ReplicaController {
	return &ReplicaController{service: service}
}

// TriggerExport godoc
// @Summary Export CRM collections to the SQL reporting replica
// @Tags replica
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/replica/export [post]
func (ctrl *ReplicaController) TriggerExport(c *fiber.Ctx) error {
	if !ctrl.service.Available() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Replica database not configured",
		})
	}

	go func() {
		_, _ = ctrl.service.Export(context.Background())
	}()

	return c.JSON(fiber.Map{
		"message": "Replica export initiated",
	})
}

// GetExportStatus godoc
// @Summary Status of the most recent replica export
// @Tags replica
// @Produce json
// @Success 200 {object} ExportRun
// @Router /api/replica/status [get]
func (ctrl *ReplicaController) GetExportStatus(c *fiber.Ctx) error {
	run := ctrl.service.LastRun()
	if run == nil {
		return c.JSON(fiber.Map{"status": "never_run"})
	}
	return c.JSON(run)
}
