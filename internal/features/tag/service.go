package tag

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"woocrm/internal/features/contact"
	"woocrm/internal/features/course"
)

var (
	ErrTagNotFound     = errors.New("tag not found")
	ErrContactNotFound = errors.New("contact not found")
)

type TagService struct {
	repo     TagRepository
	contacts contact.ContactRepository
	courses  *course.CourseService
	logger   *zap.Logger
}

func NewTagService(
	repo TagRepository,
	contacts contact.ContactRepository,
	courses *course.CourseService,
	logger *zap.Logger,
) *TagService {
	return &TagService{
		repo:     repo,
		contacts: contacts,
		courses:  courses,
		logger:   logger,
	}
}

func (s *TagService) CreateTag(ctx context.Context, tag *Tag, createdBy string) (*Tag, error) {
	if tag.Name == "" {
		return nil, errors.New("tag name is required")
	}
	if tag.Category == "" {
		tag.Category = "general"
	}
	if tag.Color == "" {
		tag.Color = "#3B82F6"
	}
	tag.CreatedBy = createdBy

	id, err := s.repo.Create(ctx, tag)
	if err != nil {
		return nil, err
	}
	tag.ID = id
	return tag, nil
}

func (s *TagService) ListTags(ctx context.Context) ([]Tag, error) {
	return s.repo.List(ctx)
}

// DeleteTag removes the tag and strips it from every contact carrying it.
func (s *TagService) DeleteTag(ctx context.Context, id primitive.ObjectID) error {
	tag, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.contacts.RemoveTagFromAll(ctx, tag.Name); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// AssignToContact tags a contact and, when the tag names a course, enrolls
// the contact in the matching courses.
func (s *TagService) AssignToContact(ctx context.Context, contactID string, tagID primitive.ObjectID) error {
	if _, err := s.contacts.FindByID(ctx, contactID); err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrContactNotFound
		}
		return err
	}

	tag, err := s.repo.FindByID(ctx, tagID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrTagNotFound
		}
		return err
	}

	if err := s.contacts.AddTag(ctx, contactID, tag.Name); err != nil {
		return err
	}

	name := strings.ToLower(tag.Name)
	category := strings.ToLower(tag.Category)
	if strings.Contains(name, "corso") || strings.Contains(name, "course") || category == "corso" {
		if err := s.courses.EnrollFromTag(ctx, contactID, tag.Name, tag.Category); err != nil {
			s.logger.Warn("Course enrollment from tag failed",
				zap.String("contact_id", contactID),
				zap.String("tag", tag.Name),
				zap.Error(err))
		}
	}

	return nil
}

// RemoveFromContact untags a contact. Enrollments made through the tag stay.
func (s *TagService) RemoveFromContact(ctx context.Context, contactID string, tagID primitive.ObjectID) error {
	tag, err := s.repo.FindByID(ctx, tagID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrTagNotFound
		}
		return err
	}
	return s.contacts.RemoveTag(ctx, contactID, tag.Name)
}
