package tag

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"woocrm/internal/database"
)

type TagRepository interface {
	Create(ctx context.Context, tag *Tag) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*Tag, error)
	FindByName(ctx context.Context, name string) (*Tag, error)
	List(ctx context.Context) ([]Tag, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type TagRepositoryImpl struct {
	collection *mongo.Collection
}

func NewTagRepository(db *database.MongodbDB) TagRepository {
	return &TagRepositoryImpl{
		collection: db.DB.Collection("tags"),
	}
}

func (r *TagRepositoryImpl) Create(ctx context.Context, tag *Tag) (primitive.ObjectID, error) {
	tag.CreatedAt = time.Now()

	res, err := r.collection.InsertOne(ctx, tag)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (r *TagRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*Tag, error) {
	var tag Tag
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&tag)
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *TagRepositoryImpl) FindByName(ctx context.Context, name string) (*Tag, error) {
	var tag Tag
	err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&tag)
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *TagRepositoryImpl) List(ctx context.Context) ([]Tag, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tags []Tag
	if err := cursor.All(ctx, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *TagRepositoryImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
