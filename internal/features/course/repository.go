package course

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"woocrm/internal/database"
)

type CourseRepository interface {
	Create(ctx context.Context, course *Course) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*Course, error)
	FindByTitleContaining(ctx context.Context, title string) (*Course, error)
	FindByTitleOrCategory(ctx context.Context, title, category string) (*Course, error)
	FindAllForTag(ctx context.Context, title, category string) ([]Course, error)
	List(ctx context.Context, filter ListFilter) ([]Course, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, updates bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

type CourseRepositoryImpl struct {
	collection *mongo.Collection
}

func NewCourseRepository(db *database.MongodbDB) CourseRepository {
	return &CourseRepositoryImpl{
		collection: db.DB.Collection("courses"),
	}
}

func (r *CourseRepositoryImpl) Create(ctx context.Context, course *Course) (primitive.ObjectID, error) {
	now := time.Now()
	course.CreatedAt = now
	course.UpdatedAt = now

	res, err := r.collection.InsertOne(ctx, course)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (r *CourseRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*Course, error) {
	var course Course
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&course)
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepositoryImpl) FindByTitleContaining(ctx context.Context, title string) (*Course, error) {
	var course Course
	filter := bson.M{"title": primitive.Regex{Pattern: regexp.QuoteMeta(title), Options: "i"}}
	err := r.collection.FindOne(ctx, filter).Decode(&course)
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// FindByTitleOrCategory matches a course a purchased product maps to, either
// by title containment or by category.
func (r *CourseRepositoryImpl) FindByTitleOrCategory(ctx context.Context, title, category string) (*Course, error) {
	var course Course
	filter := bson.M{"$or": bson.A{
		bson.M{"title": primitive.Regex{Pattern: regexp.QuoteMeta(title), Options: "i"}},
		bson.M{"category": primitive.Regex{Pattern: regexp.QuoteMeta(category), Options: "i"}},
	}}
	err := r.collection.FindOne(ctx, filter).Decode(&course)
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// FindAllForTag returns every course a course-flavored tag maps to, by title
// containment, category containment, or the "corso" category.
func (r *CourseRepositoryImpl) FindAllForTag(ctx context.Context, title, category string) ([]Course, error) {
	or := bson.A{
		bson.M{"title": primitive.Regex{Pattern: regexp.QuoteMeta(title), Options: "i"}},
		bson.M{"category": "corso"},
	}
	if category != "" {
		or = append(or, bson.M{"category": primitive.Regex{Pattern: regexp.QuoteMeta(category), Options: "i"}})
	}

	cursor, err := r.collection.Find(ctx, bson.M{"$or": or})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var courses []Course
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *CourseRepositoryImpl) List(ctx context.Context, filter ListFilter) ([]Course, int64, error) {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Language != "" {
		query["language"] = filter.Language
	}
	if filter.Instructor != "" {
		query["instructor"] = primitive.Regex{Pattern: filter.Instructor, Options: "i"}
	}
	if filter.Search != "" {
		query["$or"] = bson.A{
			bson.M{"title": primitive.Regex{Pattern: filter.Search, Options: "i"}},
			bson.M{"description": primitive.Regex{Pattern: filter.Search, Options: "i"}},
		}
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSkip((filter.Page - 1) * filter.Limit).
		SetLimit(filter.Limit).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var courses []Course
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

func (r *CourseRepositoryImpl) Update(ctx context.Context, id primitive.ObjectID, updates bson.M) error {
	updates["updated_at"] = time.Now()
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *CourseRepositoryImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *CourseRepositoryImpl) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

func (r *CourseRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "title", Value: 1}}},
		{Keys: bson.D{{Key: "associated_product_id", Value: 1}}},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// TombstoneRepository stores deletions of courses. The product sync consults
// it before auto-creating a course, so a course an operator removed stays
// removed until the tombstone itself is cleared.
type TombstoneRepository interface {
	Create(ctx context.Context, tombstone *DeletedCourse) error
	FindMatching(ctx context.Context, productID, title string) (*DeletedCourse, error)
	DeleteByCourseID(ctx context.Context, courseID string) (int64, error)
	List(ctx context.Context) ([]DeletedCourse, error)
}

type TombstoneRepositoryImpl struct {
	collection *mongo.Collection
}

func NewTombstoneRepository(db *database.MongodbDB) TombstoneRepository {
	return &TombstoneRepositoryImpl{
		collection: db.DB.Collection("deleted_courses"),
	}
}

func (r *TombstoneRepositoryImpl) Create(ctx context.Context, tombstone *DeletedCourse) error {
	tombstone.DeletedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, tombstone)
	return err
}

// FindMatching returns a tombstone that blocks auto-creation for the given
// product: either the tombstone points at the product directly, or its
// recorded title contains the product name.
func (r *TombstoneRepositoryImpl) FindMatching(ctx context.Context, productID, title string) (*DeletedCourse, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"associated_product_id": productID},
		bson.M{"course_title": primitive.Regex{Pattern: regexp.QuoteMeta(title), Options: "i"}},
	}}

	var tombstone DeletedCourse
	err := r.collection.FindOne(ctx, filter).Decode(&tombstone)
	if err != nil {
		return nil, err
	}
	return &tombstone, nil
}

func (r *TombstoneRepositoryImpl) DeleteByCourseID(ctx context.Context, courseID string) (int64, error) {
	res, err := r.collection.DeleteOne(ctx, bson.M{"course_id": courseID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *TombstoneRepositoryImpl) List(ctx context.Context) ([]DeletedCourse, error) {
	opts := options.Find().SetSort(bson.D{{Key: "deleted_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tombstones []DeletedCourse
	if err := cursor.All(ctx, &tombstones); err != nil {
		return nil, err
	}
	return tombstones, nil
}

type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *Enrollment) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*Enrollment, error)
	FindActive(ctx context.Context, contactID, courseID string) (*Enrollment, error)
	List(ctx context.Context, filter EnrollmentFilter) ([]Enrollment, error)
	Cancel(ctx context.Context, id primitive.ObjectID) error
}

type EnrollmentRepositoryImpl struct {
	collection *mongo.Collection
}

func NewEnrollmentRepository(db *database.MongodbDB) EnrollmentRepository {
	return &EnrollmentRepositoryImpl{
		collection: db.DB.Collection("course_enrollments"),
	}
}

func (r *EnrollmentRepositoryImpl) Create(ctx context.Context, enrollment *Enrollment) (primitive.ObjectID, error) {
	res, err := r.collection.InsertOne(ctx, enrollment)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (r *EnrollmentRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*Enrollment, error) {
	var enrollment Enrollment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&enrollment)
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *EnrollmentRepositoryImpl) FindActive(ctx context.Context, contactID, courseID string) (*Enrollment, error) {
	var enrollment Enrollment
	err := r.collection.FindOne(ctx, bson.M{
		"contact_id": contactID,
		"course_id":  courseID,
		"status":     "active",
	}).Decode(&enrollment)
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *EnrollmentRepositoryImpl) List(ctx context.Context, filter EnrollmentFilter) ([]Enrollment, error) {
	query := bson.M{}
	if filter.CourseID != "" {
		query["course_id"] = filter.CourseID
	}
	if filter.ContactID != "" {
		query["contact_id"] = filter.ContactID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	opts := options.Find().SetSort(bson.D{{Key: "enrolled_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var enrollments []Enrollment
	if err := cursor.All(ctx, &enrollments); err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (r *EnrollmentRepositoryImpl) Cancel(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":       "cancelled",
		"cancelled_at": time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
