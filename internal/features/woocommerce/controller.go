package woocommerce

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"woocrm/internal/middleware"
)

type WooCommerceController struct {
	service   SyncService
	scheduler *Scheduler
}

func NewWooCommerceController(service SyncService, scheduler *Scheduler) *WooCommerceController {
	return &WooCommerceController{
		service:   service,
		scheduler: scheduler,
	}
}

// GetSyncStatus godoc
// @Summary WooCommerce synchronization status
// @Tags woocommerce
// @Produce json
// @Success 200 {object} SyncStatus
// @Router /api/woocommerce/sync/status [get]
func (ctrl *WooCommerceController) GetSyncStatus(c *fiber.Ctx) error {
	status, err := ctrl.service.Status(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error retrieving sync status",
		})
	}
	return c.JSON(status)
}

// TriggerCustomerSync godoc
// @Summary Trigger customer synchronization
// @Tags woocommerce
// @Produce json
// @Param full_sync query bool false "Run a full sync instead of incremental"
// @Success 200 {object} map[string]interface{}
// @Router /api/woocommerce/sync/customers [post]
func (ctrl *WooCommerceController) TriggerCustomerSync(c *fiber.Ctx) error {
	return ctrl.triggerSync(c, "WooCommerce customer sync initiated", ctrl.service.SyncCustomers)
}

// TriggerProductSync godoc
// @Summary Trigger product synchronization
// @Tags woocommerce
// @Produce json
// @Param full_sync query bool false "Run a full sync instead of incremental"
// @Success 200 {object} map[string]interface{}
// @Router /api/woocommerce/sync/products [post]
func (ctrl *WooCommerceController) TriggerProductSync(c *fiber.Ctx) error {
	return ctrl.triggerSync(c, "WooCommerce product sync initiated", ctrl.service.SyncProducts)
}

// TriggerOrderSync godoc
// @Summary Trigger order synchronization
// @Tags woocommerce
// @Produce json
// @Param full_sync query bool false "Run a full sync instead of incremental"
// @Success 200 {object} map[string]interface{}
// @Router /api/woocommerce/sync/orders [post]
func (ctrl *WooCommerceController) TriggerOrderSync(c *fiber.Ctx) error {
	return ctrl.triggerSync(c, "WooCommerce order sync initiated", ctrl.service.SyncOrders)
}

// triggerSync launches a sync in the background and answers immediately.
// Failures end up in the sync log rather than the response.
func (ctrl *WooCommerceController) triggerSync(c *fiber.Ctx, message string, syncFn func(context.Context, bool) (int, error)) error {
	if !ctrl.service.Available() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "WooCommerce sync service not available",
		})
	}

	fullSync := c.QueryBool("full_sync", false)

	go func() {
		_, _ = syncFn(context.Background(), !fullSync)
	}()

	var email string
	if claims := middleware.CurrentClaims(c); claims != nil {
		email = claims.Email
	}

	return c.JSON(fiber.Map{
		"message":      message,
		"full_sync":    fullSync,
		"initiated_by": email,
	})
}

// TriggerFullSync godoc
// @Summary Trigger a full synchronization of all entity types
// @Tags woocommerce
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/woocommerce/sync/all [post]
func (ctrl *WooCommerceController) TriggerFullSync(c *fiber.Ctx) error {
	if !ctrl.service.Available() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "WooCommerce sync service not available",
		})
	}

	go ctrl.service.RunFullSync(context.Background())

	var email string
	if claims := middleware.CurrentClaims(c); claims != nil {
		email = claims.Email
	}

	return c.JSON(fiber.Map{
		"message":      "Full WooCommerce synchronization initiated",
		"initiated_by": email,
	})
}

// TestConnection godoc
// @Summary Test the WooCommerce API connection
// @Tags woocommerce
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/woocommerce/test-connection [get]
func (ctrl *WooCommerceController) TestConnection(c *fiber.Ctx) error {
	if !ctrl.service.Available() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "WooCommerce client not initialized",
		})
	}

	info, err := ctrl.service.TestConnection(c.Context())
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return c.JSON(fiber.Map{
				"connection":  "failed",
				"status_code": apiErr.Status,
				"error":       "API returned non-200 status",
			})
		}
		return c.JSON(fiber.Map{
			"connection": "failed",
			"error":      err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"connection": "successful",
		"store_info": fiber.Map{
			"name":        info.Name,
			"description": info.Description,
			"url":         info.URL,
			"wc_version":  info.WCVersion,
		},
	})
}

// GetSyncSettings godoc
// @Summary Read scheduler settings
// @Tags woocommerce
// @Produce json
// @Success 200 {object} SyncSettings
// @Router /api/woocommerce/sync/settings [get]
func (ctrl *WooCommerceController) GetSyncSettings(c *fiber.Ctx) error {
	settings, err := ctrl.service.GetSettings(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error retrieving sync settings",
		})
	}
	return c.JSON(settings)
}

// UpdateSyncSettings godoc
// @Summary Update scheduler settings
// @Tags woocommerce
// @Accept json
// @Produce json
// @Param settings body SettingsUpdate true "Fields to change"
// @Success 200 {object} map[string]interface{}
// @Router /api/woocommerce/sync/settings [put]
func (ctrl *WooCommerceController) UpdateSyncSettings(c *fiber.Ctx) error {
	var update SettingsUpdate
	if err := c.BodyParser(&update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	var userID string
	if claims := middleware.CurrentClaims(c); claims != nil {
		userID = claims.UserID
	}

	settings, err := ctrl.service.UpdateSettings(c.Context(), &update, userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	ctrl.scheduler.Reconcile(settings)

	return c.JSON(fiber.Map{
		"message":  "Settings updated successfully",
		"settings": settings,
	})
}
