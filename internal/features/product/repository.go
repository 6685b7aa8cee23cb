package product

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

type ProductRepository interface {
	Create(ctx context.Context, p *Product) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*Product, error)
	FindBySKU(ctx context.Context, sku string) (*Product, error)
	FindByExternalID(ctx context.Context, wooID int64) (*Product, error)
	FindByNameContaining(ctx context.Context, name string) (*Product, error)
	List(ctx context.Context, filter ListFilter) ([]Product, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, updates bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

type ProductRepositoryImpl struct {
	collection *mongo.Collection
}

func NewProductRepository(db *database.MongodbDB) ProductRepository {
	return &ProductRepositoryImpl{
		collection: db.DB.Collection("products"),
	}
}

func (r *ProductRepositoryImpl) Create(ctx context.Context, p *Product) (primitive.ObjectID, error) {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	res, err := r.collection.InsertOne(ctx, p)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (r *ProductRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*Product, error) {
	var p Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepositoryImpl) FindBySKU(ctx context.Context, sku string) (*Product, error) {
	var p Product
	err := r.collection.FindOne(ctx, bson.M{"sku": sku}).Decode(&p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepositoryImpl) FindByExternalID(ctx context.Context, wooID int64) (*Product, error) {
	var p Product
	err := r.collection.FindOne(ctx, bson.M{"woocommerce_id": wooID}).Decode(&p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByNameContaining matches the first product whose name contains the given
// text, case-insensitively. Order line items carry installment suffixes that
// the catalog name does not, so an exact match is not enough.
func (r *ProductRepositoryImpl) FindByNameContaining(ctx context.Context, name string) (*Product, error) {
	var p Product
	filter := bson.M{"name": primitive.Regex{Pattern: regexp.QuoteMeta(name), Options: "i"}}
	err := r.collection.FindOne(ctx, filter).Decode(&p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepositoryImpl) List(ctx context.Context, filter ListFilter) ([]Product, int64, error) {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Language != "" {
		query["language"] = filter.Language
	}
	if filter.Search != "" {
		query["$or"] = bson.A{
			bson.M{"name": primitive.Regex{Pattern: filter.Search, Options: "i"}},
			bson.M{"sku": primitive.Regex{Pattern: filter.Search, Options: "i"}},
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

	var products []Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *ProductRepositoryImpl) Update(ctx context.Context, id primitive.ObjectID, updates bson.M) error {
	updates["updated_at"] = time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	return err
}

func (r *ProductRepositoryImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *ProductRepositoryImpl) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

func (r *ProductRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			// Backs the upsert-by-external-ID path: a duplicate key error on
			// insert means another writer already stored this WooCommerce product.
			Keys:    bson.D{{Key: "woocommerce_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{
			Keys: bson.D{{Key: "sku", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "category", Value: 1}},
		},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}
