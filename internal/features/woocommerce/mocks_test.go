package woocommerce

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"woocrm/internal/features/contact"
	"woocrm/internal/features/course"
	"woocrm/internal/features/order"
	"woocrm/internal/features/product"
)

// In-memory fakes for the sync service collaborators. They mirror the query
// semantics of the Mongo repositories closely enough for the sync paths.

type fakeClient struct {
	available bool
	customers []Customer
	products  []Product
	orders    []Order
	err       error

	calls []ListParams
}

func (c *fakeClient) Available() bool { return c.available }

func (c *fakeClient) ListCustomers(ctx context.Context, params ListParams) ([]Customer, error) {
	c.calls = append(c.calls, params)
	if c.err != nil {
		return nil, c.err
	}
	if params.Page > 1 {
		return nil, nil
	}
	return c.customers, nil
}

func (c *fakeClient) ListProducts(ctx context.Context, params ListParams) ([]Product, error) {
	c.calls = append(c.calls, params)
	if c.err != nil {
		return nil, c.err
	}
	if params.Page > 1 {
		return nil, nil
	}
	return c.products, nil
}

func (c *fakeClient) ListOrders(ctx context.Context, params ListParams) ([]Order, error) {
	c.calls = append(c.calls, params)
	if c.err != nil {
		return nil, c.err
	}
	if params.Page > 1 {
		return nil, nil
	}
	return c.orders, nil
}

func (c *fakeClient) TestConnection(ctx context.Context) (*StoreInfo, error) {
	if c.err != nil {
		return nil, c.err
	}
	return &StoreInfo{Name: "Test Store"}, nil
}

type memContactRepo struct {
	contacts []*contact.Contact
	updates  int
}

func (r *memContactRepo) Create(ctx context.Context, c *contact.Contact) error {
	c.ID = primitive.NewObjectID()
	stored := *c
	r.contacts = append(r.contacts, &stored)
	return nil
}

func (r *memContactRepo) FindByID(ctx context.Context, id string) (*contact.Contact, error) {
	for _, c := range r.contacts {
		if c.ID.Hex() == id {
			found := *c
			return &found, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *memContactRepo) FindByEmail(ctx context.Context, email string) (*contact.Contact, error) {
	for _, c := range r.contacts {
		if strings.EqualFold(c.Email, email) {
			found := *c
			return &found, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *memContactRepo) FindByExternalID(ctx context.Context, wooID int64) (*contact.Contact, error) {
	for _, c := range r.contacts {
		if c.WooCommerceID == wooID {
			found := *c
			return &found, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *memContactRepo) List(ctx context.Context, filter contact.ListFilter) ([]contact.Contact, int64, error) {
	out := make([]contact.Contact, 0, len(r.contacts))
	for _, c := range r.contacts {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *memContactRepo) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	r.updates++
	for _, c := range r.contacts {
		if c.ID.Hex() != id {
			continue
		}
		if v, ok := updates["email"].(string); ok {
			c.Email = v
		}
		if v, ok := updates["language"].(string); ok {
			c.Language = v
		}
		if v, ok := updates["wc_orders_count"].(int); ok {
			c.WCOrdersCount = v
		}
		if v, ok := updates["wc_total_spent"].(float64); ok {
			c.WCTotalSpent = v
		}
		return nil
	}
	return mongo.ErrNoDocuments
}

func (r *memContactRepo) AddTag(ctx context.Context, id, tag string) error         { return nil }
func (r *memContactRepo) RemoveTag(ctx context.Context, id, tag string) error      { return nil }
func (r *memContactRepo) RemoveTagFromAll(ctx context.Context, tag string) error   { return nil }
func (r *memContactRepo) Delete(ctx context.Context, id string) error              { return nil }
func (r *memContactRepo) Count(ctx context.Context) (int64, error)                 { return int64(len(r.contacts)), nil }
func (r *memContactRepo) CountByStatus(ctx context.Context, s string) (int64, error) { return 0, nil }
func (r *memContactRepo) EnsureIndexes(ctx context.Context) error                  { return nil }

type memProductRepo struct {
	products []*product.Product
	updates  int
}

func (r *memProductRepo) Create(ctx context.Context, p *product.Product) (primitive.ObjectID, error) {
	p.ID = primitive.NewObjectID()
	stored := *p
	r.products = append(r.products, &stored)
	return p.ID, nil
}

func (r *memProductRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*product.Product, error) {
	for _, p := range r.products {
		if p.ID == id {
			found := *p
			return &found, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *memProductRepo) FindBySKU(ctx context.Context, sku string) (*product.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			found := *p
			return &found, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *memProductRepo) FindByExternalID(ctx context.Context, wooID int64) (*product.Product, error) {
	for _, p := range r.products {
		if p.WooCommerceID == wooID {
			found := *p
			return &found, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *memProductRepo) FindByNameContaining(ctx context.Context, name string) (*product.Product, error) {
	for _, p := range r.products {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(name)) {
			found := *p
			return &found, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *memProductRepo) List(ctx context.Context, filter product.ListFilter) ([]product.Product, int64, error) {
	out := make([]product.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *memProductRepo) Update(ctx context.Context, id primitive.ObjectID, updates bson.M) error {
	r.updates++
	for _, p := range r.products {
		if p.ID != id {
			continue
		}
		if v, ok := updates["name"].(string); ok {
			p.Name = v
		}
		if v, ok := updates["price"].(float64); ok {
			p.Price = v
		}
		if v, ok := updates["stock_quantity"].(int); ok {
			p.StockQuantity = v
		}
		return nil
	}
	return mongo.ErrNoDocuments
}

func (r *memProductRepo) Delete(ctx context.Context, id primitive.ObjectID) error { return nil }
func (r *memProductRepo) Count(ctx context.Context) (int64, error)                { return int64(len(r.products)), nil }
func (r *memProductRepo) EnsureIndexes(ctx context.Context) error                 { return nil }

type memOrderRepo struct {
	orders  []*order.Order
	updates int
}

func (r *memOrderRepo) Create(ctx context.Context, o *order.Order) (primitive.ObjectID, error) {
	o.ID = primitive.NewObjectID()
	stored := *o
	r.orders = append(r.orders, &stored)
	return o.ID, nil
}

func (r *memOrderRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*order.Order, error) {
	for _, o := range r.orders {
		if o.ID == id {
			found := *o
			return &found, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *memOrderRepo) FindByExternalID(ctx context.Context, wooID int64) (*order.Order, error) {
	for _, o := range r.orders {
		if o.WooCommerceID == wooID {
			found := *o
			return &found, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *memOrderRepo) List(ctx context.Context, filter order.ListFilter) ([]order.Order, int64, error) {
	out := make([]order.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *memOrderRepo) Update(ctx context.Context, id primitive.ObjectID, updates bson.M) error {
	r.updates++
	for _, o := range r.orders {
		if o.ID != id {
			continue
		}
		if v, ok := updates["status"].(string); ok {
			o.Status = v
		}
		if v, ok := updates["payment_status"].(string); ok {
			o.PaymentStatus = v
		}
		return nil
	}
	return mongo.ErrNoDocuments
}

func (r *memOrderRepo) Delete(ctx context.Context, id primitive.ObjectID) error { return nil }
func (r *memOrderRepo) Count(ctx context.Context) (int64, error)                { return int64(len(r.orders)), nil }
func (r *memOrderRepo) EnsureIndexes(ctx context.Context) error                 { return nil }

type memOrderItemRepo struct {
	byOrder  map[string][]order.OrderItem
	replaces int
}

func newMemOrderItemRepo() *memOrderItemRepo {
	return &memOrderItemRepo{byOrder: make(map[string][]order.OrderItem)}
}

func (r *memOrderItemRepo) FindByOrder(ctx context.Context, orderID string) ([]order.OrderItem, error) {
	return r.byOrder[orderID], nil
}

func (r *memOrderItemRepo) InsertMany(ctx context.Context, items []order.OrderItem) error {
	for _, item := range items {
		r.byOrder[item.OrderID] = append(r.byOrder[item.OrderID], item)
	}
	return nil
}

func (r *memOrderItemRepo) ReplaceForOrder(ctx context.Context, orderID string, items []order.OrderItem) error {
	r.replaces++
	r.byOrder[orderID] = items
	return nil
}

func (r *memOrderItemRepo) DeleteByOrder(ctx context.Context, orderID string) error {
	delete(r.byOrder, orderID)
	return nil
}

type memMirrorRepo struct {
	lastSync  map[Kind]time.Time
	customers map[int64]CustomerMirror
	products  map[int64]ProductMirror
	orders    map[int64]OrderMirror
}

func newMemMirrorRepo() *memMirrorRepo {
	return &memMirrorRepo{
		lastSync:  make(map[Kind]time.Time),
		customers: make(map[int64]CustomerMirror),
		products:  make(map[int64]ProductMirror),
		orders:    make(map[int64]OrderMirror),
	}
}

func (r *memMirrorRepo) UpsertCustomer(ctx context.Context, mirror CustomerMirror) error {
	r.customers[mirror.WooCommerceID] = mirror
	return nil
}

func (r *memMirrorRepo) UpsertProduct(ctx context.Context, mirror ProductMirror) error {
	r.products[mirror.WooCommerceID] = mirror
	return nil
}

func (r *memMirrorRepo) UpsertOrder(ctx context.Context, mirror OrderMirror) error {
	r.orders[mirror.WooCommerceID] = mirror
	return nil
}

func (r *memMirrorRepo) LastSyncTime(ctx context.Context, kind Kind) (time.Time, error) {
	return r.lastSync[kind], nil
}

func (r *memMirrorRepo) Count(ctx context.Context, kind Kind) (int64, error) {
	switch kind {
	case KindCustomers:
		return int64(len(r.customers)), nil
	case KindProducts:
		return int64(len(r.products)), nil
	default:
		return int64(len(r.orders)), nil
	}
}

func (r *memMirrorRepo) EnsureIndexes(ctx context.Context) error { return nil }

type memSyncLogRepo struct {
	logs []*SyncLog
}

func (r *memSyncLogRepo) Create(ctx context.Context, log *SyncLog) (primitive.ObjectID, error) {
	log.ID = primitive.NewObjectID()
	stored := *log
	r.logs = append(r.logs, &stored)
	return log.ID, nil
}

func (r *memSyncLogRepo) Update(ctx context.Context, id primitive.ObjectID, updates bson.M) error {
	for _, log := range r.logs {
		if log.ID != id {
			continue
		}
		if v, ok := updates["status"].(string); ok {
			log.Status = v
		}
		if v, ok := updates["error_message"].(string); ok {
			log.ErrorMessage = v
		}
		if v, ok := updates["records_processed"].(int); ok {
			log.RecordsProcessed = v
		}
		if v, ok := updates["completed_at"].(time.Time); ok {
			log.CompletedAt = &v
		}
		return nil
	}
	return mongo.ErrNoDocuments
}

func (r *memSyncLogRepo) Recent(ctx context.Context, limit int64) ([]SyncLog, error) {
	out := make([]SyncLog, 0, len(r.logs))
	for i := len(r.logs) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		out = append(out, *r.logs[i])
	}
	return out, nil
}

func (r *memSyncLogRepo) EnsureIndexes(ctx context.Context) error { return nil }

type memSettingsRepo struct {
	settings *SyncSettings
}

func (r *memSettingsRepo) Get(ctx context.Context) (SyncSettings, error) {
	if r.settings == nil {
		return r.Save(ctx, DefaultSyncSettings())
	}
	return *r.settings, nil
}

func (r *memSettingsRepo) Save(ctx context.Context, settings SyncSettings) (SyncSettings, error) {
	if settings.ID.IsZero() {
		settings.ID = primitive.NewObjectID()
	}
	r.settings = &settings
	return settings, nil
}

type memCourseRepo struct {
	courses []*course.Course
}

func (r *memCourseRepo) Create(ctx context.Context, c *course.Course) (primitive.ObjectID, error) {
	c.ID = primitive.NewObjectID()
	stored := *c
	r.courses = append(r.courses, &stored)
	return c.ID, nil
}

func (r *memCourseRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*course.Course, error) {
	for _, c := range r.courses {
		if c.ID == id {
			found := *c
			return &found, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *memCourseRepo) FindByTitleContaining(ctx context.Context, title string) (*course.Course, error) {
	for _, c := range r.courses {
		if strings.Contains(strings.ToLower(c.Title), strings.ToLower(title)) {
			found := *c
			return &found, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *memCourseRepo) FindByTitleOrCategory(ctx context.Context, title, category string) (*course.Course, error) {
	for _, c := range r.courses {
		if strings.Contains(strings.ToLower(c.Title), strings.ToLower(title)) ||
			strings.EqualFold(c.Category, category) {
			found := *c
			return &found, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *memCourseRepo) FindAllForTag(ctx context.Context, title, category string) ([]course.Course, error) {
	return nil, nil
}

func (r *memCourseRepo) List(ctx context.Context, filter course.ListFilter) ([]course.Course, int64, error) {
	out := make([]course.Course, 0, len(r.courses))
	for _, c := range r.courses {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *memCourseRepo) Update(ctx context.Context, id primitive.ObjectID, updates bson.M) error {
	return nil
}

func (r *memCourseRepo) Delete(ctx context.Context, id primitive.ObjectID) error { return nil }
func (r *memCourseRepo) Count(ctx context.Context) (int64, error)                { return int64(len(r.courses)), nil }
func (r *memCourseRepo) EnsureIndexes(ctx context.Context) error                 { return nil }

type memTombstoneRepo struct {
	tombstones []*course.DeletedCourse
}

func (r *memTombstoneRepo) Create(ctx context.Context, tombstone *course.DeletedCourse) error {
	tombstone.ID = primitive.NewObjectID()
	tombstone.DeletedAt = time.Now()
	stored := *tombstone
	r.tombstones = append(r.tombstones, &stored)
	return nil
}

func (r *memTombstoneRepo) FindMatching(ctx context.Context, productID, title string) (*course.DeletedCourse, error) {
	for _, t := range r.tombstones {
		if (productID != "" && t.AssociatedProductID == productID) ||
			strings.Contains(strings.ToLower(t.CourseTitle), strings.ToLower(title)) {
			found := *t
			return &found, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *memTombstoneRepo) DeleteByCourseID(ctx context.Context, courseID string) (int64, error) {
	for i, t := range r.tombstones {
		if t.CourseID == courseID {
			r.tombstones = append(r.tombstones[:i], r.tombstones[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (r *memTombstoneRepo) List(ctx context.Context) ([]course.DeletedCourse, error) {
	out := make([]course.DeletedCourse, 0, len(r.tombstones))
	for _, t := range r.tombstones {
		out = append(out, *t)
	}
	return out, nil
}

// recordingSink captures published sync events.
type recordingSink struct {
	events []string
}

func (s *recordingSink) Publish(event string, payload map[string]interface{}) {
	s.events = append(s.events, event)
}
