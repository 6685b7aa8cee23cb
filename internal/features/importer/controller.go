package importer

import (
	"github.com/gofiber/fiber/v2"
)

type ImportController struct {
	service ImportService
}

func NewImportController(service ImportService) *ImportController {
	return &ImportController{service: service}
}

// ImportContacts godoc
// @Summary Import contacts from an XLSX workbook
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "XLSX workbook"
// @Success 200 {object} ImportResult
// @Router /api/import/contacts [post]
func (ctrl *ImportController) ImportContacts(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "file is required",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to open uploaded file",
		})
	}
	defer file.Close()

	result, err := ctrl.service.ImportContacts(c.Context(), file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(result)
}
