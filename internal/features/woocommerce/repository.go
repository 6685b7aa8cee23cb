package woocommerce

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"woocrm/internal/database"
)

// MirrorRepository stores the raw store-side records, one collection per
// entity family, keyed by woocommerce_id.
type MirrorRepository interface {
	UpsertCustomer(ctx context.Context, mirror CustomerMirror) error
	UpsertProduct(ctx context.Context, mirror ProductMirror) error
	UpsertOrder(ctx context.Context, mirror OrderMirror) error
	LastSyncTime(ctx context.Context, kind Kind) (time.Time, error)
	Count(ctx context.Context, kind Kind) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

type MirrorRepositoryImpl struct {
	collections map[Kind]*mongo.Collection
}

func NewMirrorRepository(db *database.MongodbDB) MirrorRepository {
	return &MirrorRepositoryImpl{
		collections: map[Kind]*mongo.Collection{
			KindCustomers: db.DB.Collection("wc_customers"),
			KindProducts:  db.DB.Collection("wc_products"),
			KindOrders:    db.DB.Collection("wc_orders"),
		},
	}
}

func (r *MirrorRepositoryImpl) upsert(ctx context.Context, kind Kind, wooID int64, doc interface{}) error {
	_, err := r.collections[kind].UpdateOne(ctx,
		bson.M{"woocommerce_id": wooID},
		bson.M{"$set": doc},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *MirrorRepositoryImpl) UpsertCustomer(ctx context.Context, mirror CustomerMirror) error {
	return r.upsert(ctx, KindCustomers, mirror.WooCommerceID, mirror)
}

func (r *MirrorRepositoryImpl) UpsertProduct(ctx context.Context, mirror ProductMirror) error {
	return r.upsert(ctx, KindProducts, mirror.WooCommerceID, mirror)
}

func (r *MirrorRepositoryImpl) UpsertOrder(ctx context.Context, mirror OrderMirror) error {
	return r.upsert(ctx, KindOrders, mirror.WooCommerceID, mirror)
}

// LastSyncTime returns the newest last_sync in the kind's collection, or the
// zero time when nothing has been synced yet.
func (r *MirrorRepositoryImpl) LastSyncTime(ctx context.Context, kind Kind) (time.Time, error) {
	var doc struct {
		LastSync time.Time `bson:"last_sync"`
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "last_sync", Value: -1}})
	err := r.collections[kind].FindOne(ctx, bson.M{}, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return doc.LastSync, nil
}

func (r *MirrorRepositoryImpl) Count(ctx context.Context, kind Kind) (int64, error) {
	return r.collections[kind].CountDocuments(ctx, bson.M{})
}

func (r *MirrorRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	for _, collection := range r.collections {
		_, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "woocommerce_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{
				Keys: bson.D{{Key: "last_sync", Value: -1}},
			},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

type SyncLogRepository interface {
	Create(ctx context.Context, log *SyncLog) (primitive.ObjectID, error)
	Update(ctx context.Context, id primitive.ObjectID, updates bson.M) error
	Recent(ctx context.Context, limit int64) ([]SyncLog, error)
	EnsureIndexes(ctx context.Context) error
}

type SyncLogRepositoryImpl struct {
	collection *mongo.Collection
}

func NewSyncLogRepository(db *database.MongodbDB) SyncLogRepository {
	return &SyncLogRepositoryImpl{
		collection: db.DB.Collection("wc_sync_logs"),
	}
}

func (r *SyncLogRepositoryImpl) Create(ctx context.Context, log *SyncLog) (primitive.ObjectID, error) {
	result, err := r.collection.InsertOne(ctx, log)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

func (r *SyncLogRepositoryImpl) Update(ctx context.Context, id primitive.ObjectID, updates bson.M) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	return err
}

func (r *SyncLogRepositoryImpl) Recent(ctx context.Context, limit int64) ([]SyncLog, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "started_at", Value: -1}}).
		SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	logs := make([]SyncLog, 0)
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *SyncLogRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "started_at", Value: -1}},
	})
	return err
}

// SettingsRepository persists the single scheduler settings document.
type SettingsRepository interface {
	Get(ctx context.Context) (SyncSettings, error)
	Save(ctx context.Context, settings SyncSettings) (SyncSettings, error)
}

type SettingsRepositoryImpl struct {
	collection *mongo.Collection
}

func NewSettingsRepository(db *database.MongodbDB) SettingsRepository {
	return &SettingsRepositoryImpl{
		collection: db.DB.Collection("wc_sync_settings"),
	}
}

// Get returns the stored settings, inserting the defaults on first read so
// the document always exists afterwards.
func (r *SettingsRepositoryImpl) Get(ctx context.Context) (SyncSettings, error) {
	var settings SyncSettings
	err := r.collection.FindOne(ctx, bson.M{}).Decode(&settings)
	if err == mongo.ErrNoDocuments {
		return r.Save(ctx, DefaultSyncSettings())
	}
	if err != nil {
		return SyncSettings{}, err
	}
	return settings, nil
}

func (r *SettingsRepositoryImpl) Save(ctx context.Context, settings SyncSettings) (SyncSettings, error) {
	if settings.ID.IsZero() {
		settings.ID = primitive.NewObjectID()
	}
	_, err := r.collection.ReplaceOne(ctx,
		bson.M{"_id": settings.ID},
		settings,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return SyncSettings{}, err
	}
	return settings, nil
}
