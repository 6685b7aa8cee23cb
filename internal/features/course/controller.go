package course

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"woocrm/internal/common/models"
	"woocrm/internal/middleware"
)

type CourseController struct {
	service *CourseService
}

func NewCourseController(service *CourseService) *CourseController {
	return &CourseController{service: service}
}

// ListCourses godoc
// @Summary List courses
// @Tags courses
// @Produce json
// @Param category query string false "Filter by category"
// @Param language query string false "Filter by language"
// @Param instructor query string false "Filter by instructor"
// @Param search query string false "Search in title and description"
// @Success 200 {object} map[string]interface{}
// @Router /api/courses [get]
func (ctrl *CourseController) ListCourses(c *fiber.Ctx) error {
	page, _ := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit", "20"), 10, 64)

	filter := ListFilter{
		Category:   c.Query("category"),
		Language:   c.Query("language"),
		Instructor: c.Query("instructor"),
		Search:     c.Query("search"),
		Page:       page,
		Limit:      limit,
	}

	courses, total, err := ctrl.service.ListCourses(c.Context(), filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch courses",
		})
	}

	return c.JSON(fiber.Map{
		"data":       courses,
		"pagination": models.NewPagination(filter.Page, filter.Limit, total),
	})
}

// GetCourse godoc
// @Summary Get a course by ID
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} Course
// @Router /api/courses/{id} [get]
func (ctrl *CourseController) GetCourse(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid course ID",
		})
	}

	course, err := ctrl.service.GetCourse(c.Context(), id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Course not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch course",
		})
	}

	return c.JSON(course)
}

// CreateCourse godoc
// @Summary Create a course
// @Tags courses
// @Accept json
// @Produce json
// @Success 201 {object} Course
// @Router /api/courses [post]
func (ctrl *CourseController) CreateCourse(c *fiber.Ctx) error {
	var course Course
	if err := c.BodyParser(&course); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	created, err := ctrl.service.CreateCourse(c.Context(), &course)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// UpdateCourse godoc
// @Summary Update a course
// @Tags courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} Course
// @Router /api/courses/{id} [put]
func (ctrl *CourseController) UpdateCourse(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid course ID",
		})
	}

	var updates bson.M
	if err := c.BodyParser(&updates); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	var updatedBy string
	if claims := middleware.CurrentClaims(c); claims != nil {
		updatedBy = claims.UserID
	}

	course, err := ctrl.service.UpdateCourse(c.Context(), id, updates, updatedBy)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Course not found",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(course)
}

// DeleteCourse godoc
// @Summary Delete a course and block its auto-recreation
// @Tags courses
// @Param id path string true "Course ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/courses/{id} [delete]
func (ctrl *CourseController) DeleteCourse(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid course ID",
		})
	}

	var deletedBy string
	if claims := middleware.CurrentClaims(c); claims != nil {
		deletedBy = claims.UserID
	}

	if err := ctrl.service.DeleteCourse(c.Context(), id, deletedBy); err != nil {
		if err == mongo.ErrNoDocuments {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Course not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete course",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Course deleted successfully",
	})
}

// RestoreAutoCreation godoc
// @Summary Allow the product sync to recreate a deleted course
// @Tags courses
// @Param id path string true "Course ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/courses/{id}/restore-auto-creation [post]
func (ctrl *CourseController) RestoreAutoCreation(c *fiber.Ctx) error {
	courseID := c.Params("id")

	if err := ctrl.service.RestoreAutoCreation(c.Context(), courseID); err != nil {
		if err == mongo.ErrNoDocuments {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Course not found in deleted list",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to restore auto-creation",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Course auto-creation restored",
	})
}

// ListDeletedCourses godoc
// @Summary List courses blocked from auto-recreation
// @Tags courses
// @Produce json
// @Success 200 {array} DeletedCourse
// @Router /api/courses/deleted [get]
func (ctrl *CourseController) ListDeletedCourses(c *fiber.Ctx) error {
	tombstones, err := ctrl.service.ListDeletedCourses(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch deleted courses",
		})
	}
	return c.JSON(tombstones)
}

// EnrollContact godoc
// @Summary Enroll a contact in a course
// @Tags courses
// @Param id path string true "Course ID"
// @Param contactId path string true "Contact ID"
// @Success 200 {object} Enrollment
// @Router /api/courses/{id}/enroll/{contactId} [post]
func (ctrl *CourseController) EnrollContact(c *fiber.Ctx) error {
	courseID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid course ID",
		})
	}

	enrollment, err := ctrl.service.EnrollContact(c.Context(), courseID, c.Params("contactId"), "manual")
	if err != nil {
		switch err {
		case ErrCourseNotFound, ErrContactNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to enroll contact",
			})
		}
	}

	return c.JSON(enrollment)
}

// GetCourseStudents godoc
// @Summary List contacts enrolled in a course
// @Tags courses
// @Param id path string true "Course ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/courses/{id}/students [get]
func (ctrl *CourseController) GetCourseStudents(c *fiber.Ctx) error {
	courseID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid course ID",
		})
	}

	course, students, err := ctrl.service.GetCourseStudents(c.Context(), courseID)
	if err != nil {
		if err == ErrCourseNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch course students",
		})
	}

	return c.JSON(fiber.Map{
		"course":         course,
		"students":       students,
		"total_enrolled": len(students),
	})
}

// GetContactCourses godoc
// @Summary List courses a contact is enrolled in
// @Tags courses
// @Param id path string true "Contact ID"
// @Success 200 {array} ContactCourse
// @Router /api/contacts/{id}/courses [get]
func (ctrl *CourseController) GetContactCourses(c *fiber.Ctx) error {
	courses, err := ctrl.service.GetContactCourses(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch contact courses",
		})
	}
	return c.JSON(courses)
}

// ListEnrollments godoc
// @Summary List enrollments
// @Tags courses
// @Param course_id query string false "Filter by course"
// @Param contact_id query string false "Filter by contact"
// @Param status query string false "Filter by status"
// @Success 200 {array} Enrollment
// @Router /api/enrollments [get]
func (ctrl *CourseController) ListEnrollments(c *fiber.Ctx) error {
	filter := EnrollmentFilter{
		CourseID:  c.Query("course_id"),
		ContactID: c.Query("contact_id"),
		Status:    c.Query("status"),
	}

	enrollments, err := ctrl.service.ListEnrollments(c.Context(), filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch enrollments",
		})
	}
	return c.JSON(enrollments)
}

// CancelEnrollment godoc
// @Summary Cancel an enrollment
// @Tags courses
// @Param id path string true "Enrollment ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/enrollments/{id} [delete]
func (ctrl *CourseController) CancelEnrollment(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid enrollment ID",
		})
	}

	if err := ctrl.service.CancelEnrollment(c.Context(), id); err != nil {
		if err == mongo.ErrNoDocuments {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Enrollment not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to cancel enrollment",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Enrollment cancelled successfully",
	})
}
