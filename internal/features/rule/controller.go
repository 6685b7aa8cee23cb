package rule

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"woocrm/internal/middleware"
)

type RuleController struct {
	service RuleService
}

func NewRuleController(service RuleService) *RuleController {
	return &RuleController{service: service}
}

// ListRules godoc
// @Summary List automation rules
// @Tags rules
// @Produce json
// @Param entity_type query string false "Filter by entity type (contact|order)"
// @Success 200 {array} Rule
// @Router /api/rules [get]
func (ctrl *RuleController) ListRules(c *fiber.Ctx) error {
	rules, err := ctrl.service.ListRules(c.Context(), c.Query("entity_type"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error retrieving rules",
		})
	}
	return c.JSON(rules)
}

// GetRule godoc
// @Summary Get one automation rule
// @Tags rules
// @Produce json
// @Param id path string true "Rule ID"
// @Success 200 {object} Rule
// @Router /api/rules/{id} [get]
func (ctrl *RuleController) GetRule(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid rule ID",
		})
	}

	rule, err := ctrl.service.GetRule(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Rule not found",
		})
	}
	return c.JSON(rule)
}

// CreateRule godoc
// @Summary Create an automation rule
// @Tags rules
// @Accept json
// @Produce json
// @Param rule body Rule true "Rule"
// @Success 201 {object} Rule
// @Router /api/rules [post]
func (ctrl *RuleController) CreateRule(c *fiber.Ctx) error {
	var rule Rule
	if err := c.BodyParser(&rule); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	var createdBy string
	if claims := middleware.CurrentClaims(c); claims != nil {
		createdBy = claims.UserID
	}

	if err := ctrl.service.CreateRule(c.Context(), &rule, createdBy); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(rule)
}

// UpdateRule godoc
// @Summary Update an automation rule
// @Tags rules
// @Accept json
// @Produce json
// @Param id path string true "Rule ID"
// @Param rule body Rule true "Rule"
// @Success 200 {object} Rule
// @Router /api/rules/{id} [put]
func (ctrl *RuleController) UpdateRule(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid rule ID",
		})
	}

	var rule Rule
	if err := c.BodyParser(&rule); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	rule.ID = id

	if err := ctrl.service.UpdateRule(c.Context(), &rule); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(rule)
}

// SetRuleActive godoc
// @Summary Enable or disable an automation rule
// @Tags rules
// @Accept json
// @Produce json
// @Param id path string true "Rule ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/rules/{id}/active [put]
func (ctrl *RuleController) SetRuleActive(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid rule ID",
		})
	}

	var body struct {
		Active bool `json:"active"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := ctrl.service.SetActive(c.Context(), id, body.Active); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error updating rule",
		})
	}
	return c.JSON(fiber.Map{"message": "Rule updated", "active": body.Active})
}

// DeleteRule godoc
// @Summary Delete an automation rule
// @Tags rules
// @Produce json
// @Param id path string true "Rule ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/rules/{id} [delete]
func (ctrl *RuleController) DeleteRule(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid rule ID",
		})
	}

	if err := ctrl.service.DeleteRule(c.Context(), id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error deleting rule",
		})
	}
	return c.JSON(fiber.Map{"message": "Rule deleted"})
}
