package woocommerce

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"woocrm/internal/features/course"
	"woocrm/internal/features/product"
)

func newPolicyFixture() (*CoursePolicy, *memCourseRepo, *memTombstoneRepo) {
	courses := &memCourseRepo{}
	tombstones := &memTombstoneRepo{}
	return NewCoursePolicy(courses, tombstones, zap.NewNop()), courses, tombstones
}

func courseProduct(name string) *product.Product {
	return &product.Product{
		ID:       primitive.NewObjectID(),
		Name:     name,
		Price:    297,
		Category: "corso",
		Language: "it",
	}
}

func TestEnsureCourseForProduct(t *testing.T) {
	policy, courses, _ := newPolicyFixture()
	prod := courseProduct("Corso Base di Ringiovanimento")

	if err := policy.EnsureCourseForProduct(context.Background(), prod); err != nil {
		t.Fatalf("EnsureCourseForProduct() error = %v", err)
	}

	if len(courses.courses) != 1 {
		t.Fatalf("courses = %d, want 1", len(courses.courses))
	}
	got := courses.courses[0]
	if got.Title != prod.Name {
		t.Errorf("Title = %q, want %q", got.Title, prod.Name)
	}
	if got.AssociatedProductID != prod.ID.Hex() {
		t.Errorf("AssociatedProductID = %q, want %q", got.AssociatedProductID, prod.ID.Hex())
	}
	if got.Instructor != "Grigori Grabovoi" {
		t.Errorf("Instructor = %q", got.Instructor)
	}
	if got.Duration != "4 settimane" {
		t.Errorf("Duration = %q, want 4 settimane for a base course", got.Duration)
	}
	if got.Category != "corso" || got.Language != "it" {
		t.Errorf("category/language = %q/%q", got.Category, got.Language)
	}
	if !got.IsActive {
		t.Error("IsActive = false, want true")
	}
	if got.Source != "woocommerce_auto" {
		t.Errorf("Source = %q", got.Source)
	}
}

func TestEnsureCourseSkipsNonCourseProduct(t *testing.T) {
	policy, courses, _ := newPolicyFixture()

	if err := policy.EnsureCourseForProduct(context.Background(), courseProduct("Gift card")); err != nil {
		t.Fatalf("EnsureCourseForProduct() error = %v", err)
	}
	if len(courses.courses) != 0 {
		t.Errorf("courses = %d, want none", len(courses.courses))
	}
}

func TestEnsureCourseSkipsExisting(t *testing.T) {
	policy, courses, _ := newPolicyFixture()
	prod := courseProduct("Corso Base")

	if _, err := courses.Create(context.Background(), &course.Course{Title: "Corso Base di Ringiovanimento"}); err != nil {
		t.Fatal(err)
	}

	// The existing course title contains the product name, so no new
	// course is created.
	if err := policy.EnsureCourseForProduct(context.Background(), prod); err != nil {
		t.Fatalf("EnsureCourseForProduct() error = %v", err)
	}
	if len(courses.courses) != 1 {
		t.Errorf("courses = %d, want only the pre-existing one", len(courses.courses))
	}
}

func TestEnsureCourseTombstoneByProductID(t *testing.T) {
	policy, courses, tombstones := newPolicyFixture()
	prod := courseProduct("Corso Base di Ringiovanimento")

	if err := tombstones.Create(context.Background(), &course.DeletedCourse{
		CourseID:            primitive.NewObjectID().Hex(),
		CourseTitle:         "some unrelated title",
		AssociatedProductID: prod.ID.Hex(),
	}); err != nil {
		t.Fatal(err)
	}

	if err := policy.EnsureCourseForProduct(context.Background(), prod); err != nil {
		t.Fatalf("EnsureCourseForProduct() error = %v", err)
	}
	if len(courses.courses) != 0 {
		t.Errorf("courses = %d, want re-creation blocked by the tombstone", len(courses.courses))
	}
}

func TestEnsureCourseTombstoneByTitle(t *testing.T) {
	policy, courses, tombstones := newPolicyFixture()
	prod := courseProduct("Corso Base")

	if err := tombstones.Create(context.Background(), &course.DeletedCourse{
		CourseID:    primitive.NewObjectID().Hex(),
		CourseTitle: "Corso Base di Ringiovanimento",
	}); err != nil {
		t.Fatal(err)
	}

	if err := policy.EnsureCourseForProduct(context.Background(), prod); err != nil {
		t.Fatalf("EnsureCourseForProduct() error = %v", err)
	}
	if len(courses.courses) != 0 {
		t.Errorf("courses = %d, want re-creation blocked by title match", len(courses.courses))
	}
}

func TestEnsureCourseAfterTombstoneRemoved(t *testing.T) {
	policy, courses, tombstones := newPolicyFixture()
	prod := courseProduct("Corso Base di Ringiovanimento")

	courseID := primitive.NewObjectID().Hex()
	if err := tombstones.Create(context.Background(), &course.DeletedCourse{
		CourseID:            courseID,
		CourseTitle:         prod.Name,
		AssociatedProductID: prod.ID.Hex(),
	}); err != nil {
		t.Fatal(err)
	}

	if err := policy.EnsureCourseForProduct(context.Background(), prod); err != nil {
		t.Fatal(err)
	}
	if len(courses.courses) != 0 {
		t.Fatal("tombstone must block creation first")
	}

	// Restoring the course removes the tombstone, so the next sync
	// recreates it.
	if _, err := tombstones.DeleteByCourseID(context.Background(), courseID); err != nil {
		t.Fatal(err)
	}
	if err := policy.EnsureCourseForProduct(context.Background(), prod); err != nil {
		t.Fatal(err)
	}
	if len(courses.courses) != 1 {
		t.Errorf("courses = %d, want re-created after restore", len(courses.courses))
	}
}

func TestEnsureCourseFallbackCategoryAndLanguage(t *testing.T) {
	policy, courses, _ := newPolicyFixture()
	prod := &product.Product{
		ID:   primitive.NewObjectID(),
		Name: "Formation Rejuvenation",
	}

	if err := policy.EnsureCourseForProduct(context.Background(), prod); err != nil {
		t.Fatal(err)
	}
	if len(courses.courses) != 1 {
		t.Fatalf("courses = %d, want 1", len(courses.courses))
	}
	got := courses.courses[0]
	if got.Category != "corso" {
		t.Errorf("Category = %q, want corso fallback", got.Category)
	}
	if got.Language != "it" {
		t.Errorf("Language = %q, want it fallback", got.Language)
	}
}
