package course

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"woocrm/internal/features/contact"
)

var (
	ErrCourseNotFound  = errors.New("course not found")
	ErrContactNotFound = errors.New("contact not found")
)

type CourseService struct {
	repo        CourseRepository
	tombstones  TombstoneRepository
	enrollments EnrollmentRepository
	contacts    contact.ContactRepository
	logger      *zap.Logger
}

func NewCourseService(
	repo CourseRepository,
	tombstones TombstoneRepository,
	enrollments EnrollmentRepository,
	contacts contact.ContactRepository,
	logger *zap.Logger,
) *CourseService {
	return &CourseService{
		repo:        repo,
		tombstones:  tombstones,
		enrollments: enrollments,
		contacts:    contacts,
		logger:      logger,
	}
}

func (s *CourseService) CreateCourse(ctx context.Context, course *Course) (*Course, error) {
	if course.Title == "" {
		return nil, errors.New("course title is required")
	}
	if course.Price < 0 {
		return nil, errors.New("course price cannot be negative")
	}
	if course.Source == "" {
		course.Source = "manual"
	}

	id, err := s.repo.Create(ctx, course)
	if err != nil {
		return nil, err
	}
	course.ID = id

	s.logger.Info("Course created", zap.String("course_id", id.Hex()), zap.String("title", course.Title))
	return course, nil
}

func (s *CourseService) GetCourse(ctx context.Context, id primitive.ObjectID) (*Course, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *CourseService) ListCourses(ctx context.Context, filter ListFilter) ([]Course, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}
	return s.repo.List(ctx, filter)
}

func (s *CourseService) UpdateCourse(ctx context.Context, id primitive.ObjectID, updates bson.M, updatedBy string) (*Course, error) {
	if title, ok := updates["title"].(string); ok && title == "" {
		return nil, errors.New("course title cannot be empty")
	}
	if price, ok := updates["price"].(float64); ok && price < 0 {
		return nil, errors.New("course price cannot be negative")
	}

	delete(updates, "_id")
	delete(updates, "created_at")
	if updatedBy != "" {
		updates["updated_by"] = updatedBy
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// DeleteCourse removes a course and records a tombstone first, so the
// WooCommerce product sync will not auto-create it again.
func (s *CourseService) DeleteCourse(ctx context.Context, id primitive.ObjectID, deletedBy string) error {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	tombstone := &DeletedCourse{
		CourseID:            id.Hex(),
		CourseTitle:         course.Title,
		AssociatedProductID: course.AssociatedProductID,
		DeletedBy:           deletedBy,
	}
	if err := s.tombstones.Create(ctx, tombstone); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Course deleted",
		zap.String("course_id", id.Hex()),
		zap.String("title", course.Title),
		zap.String("deleted_by", deletedBy))
	return nil
}

// RestoreAutoCreation clears the tombstone for a course so the product sync
// may create it again.
func (s *CourseService) RestoreAutoCreation(ctx context.Context, courseID string) error {
	deleted, err := s.tombstones.DeleteByCourseID(ctx, courseID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return mongo.ErrNoDocuments
	}

	s.logger.Info("Course auto-creation restored", zap.String("course_id", courseID))
	return nil
}

func (s *CourseService) ListDeletedCourses(ctx context.Context) ([]DeletedCourse, error) {
	return s.tombstones.List(ctx)
}

// EnrollContact enrolls a contact in a course and promotes the contact to
// student status. Enrolling twice returns the existing active enrollment.
func (s *CourseService) EnrollContact(ctx context.Context, courseID primitive.ObjectID, contactID, source string) (*Enrollment, error) {
	if _, err := s.repo.FindByID(ctx, courseID); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	if _, err := s.contacts.FindByID(ctx, contactID); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrContactNotFound
		}
		return nil, err
	}

	if existing, err := s.enrollments.FindActive(ctx, contactID, courseID.Hex()); err == nil {
		return existing, nil
	} else if err != mongo.ErrNoDocuments {
		return nil, err
	}

	enrollment := &Enrollment{
		ContactID:  contactID,
		CourseID:   courseID.Hex(),
		EnrolledAt: time.Now(),
		Status:     "active",
		Source:     source,
	}
	id, err := s.enrollments.Create(ctx, enrollment)
	if err != nil {
		return nil, err
	}
	enrollment.ID = id

	if err := s.contacts.Update(ctx, contactID, map[string]interface{}{"status": "student"}); err != nil {
		s.logger.Warn("Failed to promote contact to student",
			zap.String("contact_id", contactID),
			zap.Error(err))
	}

	s.logger.Info("Contact enrolled in course",
		zap.String("contact_id", contactID),
		zap.String("course_id", courseID.Hex()),
		zap.String("source", source))
	return enrollment, nil
}

// EnrollFromPurchase finds a course matching a purchased product and enrolls
// the contact with source "order". No matching course is not an error.
func (s *CourseService) EnrollFromPurchase(ctx context.Context, contactID, title, category string) error {
	matched, err := s.repo.FindByTitleOrCategory(ctx, title, category)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil
		}
		return err
	}
	_, err = s.EnrollContact(ctx, matched.ID, contactID, "order")
	return err
}

// EnrollFromTag enrolls the contact in every course a course-flavored tag
// maps to, with source "tag".
func (s *CourseService) EnrollFromTag(ctx context.Context, contactID, tagName, tagCategory string) error {
	title := strings.Replace(strings.ToLower(tagName), "corso ", "", 1)

	courses, err := s.repo.FindAllForTag(ctx, title, strings.ToLower(tagCategory))
	if err != nil {
		return err
	}
	for _, matched := range courses {
		if _, err := s.EnrollContact(ctx, matched.ID, contactID, "tag"); err != nil {
			return err
		}
	}
	return nil
}

func (s *CourseService) CancelEnrollment(ctx context.Context, id primitive.ObjectID) error {
	return s.enrollments.Cancel(ctx, id)
}

func (s *CourseService) ListEnrollments(ctx context.Context, filter EnrollmentFilter) ([]Enrollment, error) {
	return s.enrollments.List(ctx, filter)
}

// GetCourseStudents returns the course together with every enrolled contact.
func (s *CourseService) GetCourseStudents(ctx context.Context, courseID primitive.ObjectID) (*Course, []EnrolledStudent, error) {
	course, err := s.repo.FindByID(ctx, courseID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil, ErrCourseNotFound
		}
		return nil, nil, err
	}

	enrollments, err := s.enrollments.List(ctx, EnrollmentFilter{CourseID: courseID.Hex()})
	if err != nil {
		return nil, nil, err
	}

	students := make([]EnrolledStudent, 0, len(enrollments))
	for _, enrollment := range enrollments {
		c, err := s.contacts.FindByID(ctx, enrollment.ContactID)
		if err != nil {
			continue
		}
		students = append(students, EnrolledStudent{Contact: c, Enrollment: enrollment})
	}
	return course, students, nil
}

// GetContactCourses returns every course a contact is enrolled in.
func (s *CourseService) GetContactCourses(ctx context.Context, contactID string) ([]ContactCourse, error) {
	enrollments, err := s.enrollments.List(ctx, EnrollmentFilter{ContactID: contactID})
	if err != nil {
		return nil, err
	}

	courses := make([]ContactCourse, 0, len(enrollments))
	for _, enrollment := range enrollments {
		courseID, err := primitive.ObjectIDFromHex(enrollment.CourseID)
		if err != nil {
			continue
		}
		c, err := s.repo.FindByID(ctx, courseID)
		if err != nil {
			continue
		}
		courses = append(courses, ContactCourse{Course: *c, Enrollment: enrollment})
	}
	return courses, nil
}
