package order

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"woocrm/internal/database"
)

type OrderRepository interface {
	Create(ctx context.Context, order *Order) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*Order, error)
	FindByExternalID(ctx context.Context, wooID int64) (*Order, error)
	List(ctx context.Context, filter ListFilter) ([]Order, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, updates bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

type OrderRepositoryImpl struct {
	collection *mongo.Collection
}

func NewOrderRepository(db *database.MongodbDB) OrderRepository {
	return &OrderRepositoryImpl{
		collection: db.DB.Collection("orders"),
	}
}

func (r *OrderRepositoryImpl) Create(ctx context.Context, order *Order) (primitive.ObjectID, error) {
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	res, err := r.collection.InsertOne(ctx, order)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (r *OrderRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*Order, error) {
	var order Order
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepositoryImpl) FindByExternalID(ctx context.Context, wooID int64) (*Order, error) {
	var order Order
	err := r.collection.FindOne(ctx, bson.M{"woocommerce_id": wooID}).Decode(&order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepositoryImpl) List(ctx context.Context, filter ListFilter) ([]Order, int64, error) {
	query := bson.M{}
	if filter.ContactID != "" {
		query["contact_id"] = filter.ContactID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.PaymentStatus != "" {
		query["payment_status"] = filter.PaymentStatus
	}
	if filter.Search != "" {
		query["order_number"] = primitive.Regex{Pattern: filter.Search, Options: "i"}
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

	var orders []Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *OrderRepositoryImpl) Update(ctx context.Context, id primitive.ObjectID, updates bson.M) error {
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

func (r *OrderRepositoryImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *OrderRepositoryImpl) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

func (r *OrderRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			// Orders from WooCommerce are matched by external ID only, so the
			// unique index is what makes concurrent syncs safe.
			Keys:    bson.D{{Key: "woocommerce_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{
			Keys: bson.D{{Key: "contact_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

type OrderItemRepository interface {
	FindByOrder(ctx context.Context, orderID string) ([]OrderItem, error)
	InsertMany(ctx context.Context, items []OrderItem) error
	ReplaceForOrder(ctx context.Context, orderID string, items []OrderItem) error
	DeleteByOrder(ctx context.Context, orderID string) error
}

type OrderItemRepositoryImpl struct {
	collection *mongo.Collection
}

func NewOrderItemRepository(db *database.MongodbDB) OrderItemRepository {
	return &OrderItemRepositoryImpl{
		collection: db.DB.Collection("order_items"),
	}
}

func (r *OrderItemRepositoryImpl) FindByOrder(ctx context.Context, orderID string) ([]OrderItem, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"order_id": orderID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []OrderItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *OrderItemRepositoryImpl) InsertMany(ctx context.Context, items []OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	docs := make([]interface{}, len(items))
	for i := range items {
		items[i].CreatedAt = time.Now()
		docs[i] = items[i]
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// ReplaceForOrder swaps the full item set of an order. The WooCommerce sync
// rewrites items on every run, so the previous set is dropped first.
func (r *OrderItemRepositoryImpl) ReplaceForOrder(ctx context.Context, orderID string, items []OrderItem) error {
	if err := r.DeleteByOrder(ctx, orderID); err != nil {
		return err
	}
	return r.InsertMany(ctx, items)
}

func (r *OrderItemRepositoryImpl) DeleteByOrder(ctx context.Context, orderID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"order_id": orderID})
	return err
}
