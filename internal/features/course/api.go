package course

import (
	"github.com/gofiber/fiber/v2"

	common_api "woocrm/internal/common/api"
	"woocrm/internal/config"
	"woocrm/internal/middleware"
)

type CourseAPI struct {
	controller *CourseController
	config     *config.Config
}

func NewCourseAPI(controller *CourseController, config *config.Config) common_api.Route {
	return &CourseAPI{
		controller: controller,
		config:     config,
	}
}

func (h *CourseAPI) Setup(app *fiber.App) {
	api := app.Group("/api/courses", middleware.AuthMiddleware(h.config.SkipAuth))

	api.Get("/", h.controller.ListCourses)
	api.Post("/", h.controller.CreateCourse)
	// Must be registered before /:id so "deleted" is not parsed as an ID.
	api.Get("/deleted", h.controller.ListDeletedCourses)
	api.Get("/:id", h.controller.GetCourse)
	api.Put("/:id", h.controller.UpdateCourse)
	api.Delete("/:id", h.controller.DeleteCourse)
	api.Post("/:id/restore-auto-creation", h.controller.RestoreAutoCreation)
	api.Post("/:id/enroll/:contactId", h.controller.EnrollContact)
	api.Get("/:id/students", h.controller.GetCourseStudents)

	enrollments := app.Group("/api/enrollments", middleware.AuthMiddleware(h.config.SkipAuth))
	enrollments.Get("/", h.controller.ListEnrollments)
	enrollments.Delete("/:id", h.controller.CancelEnrollment)

	contacts := app.Group("/api/contacts", middleware.AuthMiddleware(h.config.SkipAuth))
	contacts.Get("/:id/courses", h.controller.GetContactCourses)
}
