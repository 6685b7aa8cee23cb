package woocommerce

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"woocrm/internal/features/course"
	"woocrm/internal/features/product"
)

// courseNameKeywords marks products that represent a purchasable course.
var courseNameKeywords = []string{"corso", "formazione", "formation", "kurs", "formación"}

// CoursePolicy derives courses from course-like products. Manual deletions
// are recorded as tombstones and win over re-creation on every later sync.
type CoursePolicy struct {
	courses    course.CourseRepository
	tombstones course.TombstoneRepository
	logger     *zap.Logger
}

func NewCoursePolicy(courses course.CourseRepository, tombstones course.TombstoneRepository, logger *zap.Logger) *CoursePolicy {
	return &CoursePolicy{
		courses:    courses,
		tombstones: tombstones,
		logger:     logger,
	}
}

// EnsureCourseForProduct creates a course for a course-like product unless a
// matching course already exists or one was deliberately deleted before.
func (p *CoursePolicy) EnsureCourseForProduct(ctx context.Context, prod *product.Product) error {
	if !isCourseProduct(prod.Name) {
		return nil
	}

	productID := prod.ID.Hex()

	tombstone, err := p.tombstones.FindMatching(ctx, productID, prod.Name)
	if err != nil && err != mongo.ErrNoDocuments {
		return err
	}
	if tombstone != nil {
		p.logger.Info("course was deleted manually, skipping re-creation",
			zap.String("product_name", prod.Name),
			zap.String("deleted_course", tombstone.CourseTitle))
		return nil
	}

	existing, err := p.courses.FindByTitleContaining(ctx, prod.Name)
	if err != nil && err != mongo.ErrNoDocuments {
		return err
	}
	if existing != nil {
		p.logger.Info("course already exists for product",
			zap.String("product_name", prod.Name),
			zap.String("course_title", existing.Title))
		return nil
	}

	category := prod.Category
	if category == "" {
		category = "corso"
	}
	language := prod.Language
	if language == "" {
		language = "it"
	}

	created := &course.Course{
		Title:               prod.Name,
		Description:         "Corso creato automaticamente dal prodotto: " + prod.Name,
		Instructor:          "Grigori Grabovoi",
		Duration:            EstimateCourseDuration(prod.Name),
		Price:               prod.Price,
		Category:            category,
		Language:            language,
		IsActive:            true,
		Source:              "woocommerce_auto",
		AssociatedProductID: productID,
	}

	id, err := p.courses.Create(ctx, created)
	if err != nil {
		return err
	}

	p.logger.Info("course created from product",
		zap.String("course_id", id.Hex()),
		zap.String("title", prod.Name))
	return nil
}

func isCourseProduct(name string) bool {
	lower := strings.ToLower(name)
	for _, keyword := range courseNameKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
