package tag

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"woocrm/internal/middleware"
)

type TagController struct {
	service *TagService
}

func NewTagController(service *TagService) *TagController {
	return &TagController{service: service}
}

// ListTags godoc
// @Summary List tags
// @Tags tags
// @Produce json
// @Success 200 {array} Tag
// @Router /api/tags [get]
func (ctrl *TagController) ListTags(c *fiber.Ctx) error {
	tags, err := ctrl.service.ListTags(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch tags",
		})
	}
	return c.JSON(tags)
}

// CreateTag godoc
// @Summary Create a tag
// @Tags tags
// @Accept json
// @Produce json
// @Param tag body Tag true "Tag payload"
// @Success 201 {object} Tag
// @Router /api/tags [post]
func (ctrl *TagController) CreateTag(c *fiber.Ctx) error {
	var tag Tag
	if err := c.BodyParser(&tag); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	var createdBy string
	if claims := middleware.CurrentClaims(c); claims != nil {
		createdBy = claims.UserID
	}

	created, err := ctrl.service.CreateTag(c.Context(), &tag, createdBy)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// DeleteTag godoc
// @Summary Delete a tag and detach it from contacts
// @Tags tags
// @Param id path string true "Tag ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/tags/{id} [delete]
func (ctrl *TagController) DeleteTag(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid tag ID",
		})
	}

	if err := ctrl.service.DeleteTag(c.Context(), id); err != nil {
		if err == mongo.ErrNoDocuments {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Tag not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete tag",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Tag deleted successfully",
	})
}

// AssignToContact godoc
// @Summary Add a tag to a contact
// @Tags tags
// @Accept json
// @Param id path string true "Contact ID"
// @Param body body AssignRequest true "Tag to assign"
// @Success 200 {object} map[string]interface{}
// @Router /api/contacts/{id}/tags [post]
func (ctrl *TagController) AssignToContact(c *fiber.Ctx) error {
	var req AssignRequest
	if err := c.BodyParser(&req); err != nil || req.TagID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "tag_id is required",
		})
	}

	tagID, err := primitive.ObjectIDFromHex(req.TagID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid tag ID",
		})
	}

	if err := ctrl.service.AssignToContact(c.Context(), c.Params("id"), tagID); err != nil {
		switch err {
		case ErrTagNotFound, ErrContactNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to add tag to contact",
			})
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Tag added to contact",
	})
}

// RemoveFromContact godoc
// @Summary Remove a tag from a contact
// @Tags tags
// @Param id path string true "Contact ID"
// @Param tagId path string true "Tag ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/contacts/{id}/tags/{tagId} [delete]
func (ctrl *TagController) RemoveFromContact(c *fiber.Ctx) error {
	tagID, err := primitive.ObjectIDFromHex(c.Params("tagId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid tag ID",
		})
	}

	if err := ctrl.service.RemoveFromContact(c.Context(), c.Params("id"), tagID); err != nil {
		if err == ErrTagNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to remove tag from contact",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Tag removed from contact",
	})
}
