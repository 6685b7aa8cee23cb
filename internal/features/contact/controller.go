package contact

import (
	"woocrm/internal/common/models"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
)

type ContactController struct {
	Service ContactService
}

func NewContactController(service ContactService) *ContactController {
	return &ContactController{
		Service: service,
	}
}

// CreateContact godoc
func (ctrl *ContactController) CreateContact(c *fiber.Ctx) error {
	var contact Contact
	if err := c.BodyParser(&contact); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := ctrl.Service.CreateContact(c.Context(), &contact); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(contact)
}

// ListContacts godoc
func (ctrl *ContactController) ListContacts(c *fiber.Ctx) error {
	filter := ListFilter{
		Status:   c.Query("status"),
		Language: c.Query("language"),
		Search:   c.Query("search"),
		Tag:      c.Query("tag"),
		Page:     int64(c.QueryInt("page", 1)),
		Limit:    int64(c.QueryInt("limit", 20)),
	}

	contacts, total, err := ctrl.Service.ListContacts(c.Context(), filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"data":       contacts,
		"pagination": models.NewPagination(filter.Page, filter.Limit, total),
	})
}

// GetContact godoc
func (ctrl *ContactController) GetContact(c *fiber.Ctx) error {
	contact, err := ctrl.Service.GetContact(c.Context(), c.Params("id"))
	if err != nil {
		status := fiber.StatusInternalServerError
		if err == mongo.ErrNoDocuments {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{
			"error": "Contact not found",
		})
	}

	return c.JSON(contact)
}

// UpdateContact godoc
func (ctrl *ContactController) UpdateContact(c *fiber.Ctx) error {
	var updates map[string]interface{}
	if err := c.BodyParser(&updates); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := ctrl.Service.UpdateContact(c.Context(), c.Params("id"), updates); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Contact updated successfully",
	})
}

// DeleteContact godoc
func (ctrl *ContactController) DeleteContact(c *fiber.Ctx) error {
	if err := ctrl.Service.DeleteContact(c.Context(), c.Params("id")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Contact deleted successfully",
	})
}

