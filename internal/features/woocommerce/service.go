package woocommerce

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"woocrm/internal/features/contact"
	"woocrm/internal/features/order"
	"woocrm/internal/features/product"
)

// incrementalOverlap rewinds the cutoff so records modified while the
// previous run was still writing are not missed.
const incrementalOverlap = 5 * time.Minute

const pageSize = 100

var (
	ErrClientUnavailable = errors.New("WooCommerce client not available")
	ErrSyncRunning       = errors.New("sync already running for this entity type")
)

// EventSink receives sync lifecycle events for best-effort broadcast. The
// sync log remains the authoritative record.
type EventSink interface {
	Publish(event string, payload map[string]interface{})
}

type SyncService interface {
	Available() bool
	SyncCustomers(ctx context.Context, incremental bool) (int, error)
	SyncProducts(ctx context.Context, incremental bool) (int, error)
	SyncOrders(ctx context.Context, incremental bool) (int, error)
	RunFullSync(ctx context.Context)
	Status(ctx context.Context) (*SyncStatus, error)
	TestConnection(ctx context.Context) (*StoreInfo, error)
	GetSettings(ctx context.Context) (SyncSettings, error)
	UpdateSettings(ctx context.Context, update *SettingsUpdate, updatedBy string) (SyncSettings, error)
}

type SyncServiceImpl struct {
	client     Client
	contacts   contact.ContactRepository
	products   product.ProductRepository
	orders     order.OrderRepository
	orderItems order.OrderItemRepository
	mirrors    MirrorRepository
	syncLogs   SyncLogRepository
	settings   SettingsRepository
	policy     *CoursePolicy
	events     EventSink
	logger     *zap.Logger

	// One lock per entity family so a manual trigger cannot race a
	// scheduled run of the same kind.
	locks map[Kind]*sync.Mutex
}

func NewSyncService(
	client Client,
	contacts contact.ContactRepository,
	products product.ProductRepository,
	orders order.OrderRepository,
	orderItems order.OrderItemRepository,
	mirrors MirrorRepository,
	syncLogs SyncLogRepository,
	settings SettingsRepository,
	policy *CoursePolicy,
	events EventSink,
	logger *zap.Logger,
) SyncService {
	return &SyncServiceImpl{
		client:     client,
		contacts:   contacts,
		products:   products,
		orders:     orders,
		orderItems: orderItems,
		mirrors:    mirrors,
		syncLogs:   syncLogs,
		settings:   settings,
		policy:     policy,
		events:     events,
		logger:     logger,
		locks: map[Kind]*sync.Mutex{
			KindCustomers: {},
			KindProducts:  {},
			KindOrders:    {},
		},
	}
}

func (s *SyncServiceImpl) Available() bool {
	return s.client.Available()
}

// pageFunc fetches one store page and processes its records, reporting how
// many records the page held and how many were stored.
type pageFunc func(ctx context.Context, params ListParams) (fetched, processed int, err error)

func (s *SyncServiceImpl) SyncCustomers(ctx context.Context, incremental bool) (int, error) {
	return s.runSync(ctx, KindCustomers, incremental, "registered_date", func(ctx context.Context, params ListParams) (int, int, error) {
		customers, err := s.client.ListCustomers(ctx, params)
		if err != nil {
			return 0, 0, err
		}
		processed := 0
		for _, wc := range customers {
			if err := s.processCustomer(ctx, wc); err != nil {
				s.logger.Error("error processing customer",
					zap.Int64("woocommerce_id", wc.ID), zap.Error(err))
				continue
			}
			processed++
		}
		return len(customers), processed, nil
	})
}

func (s *SyncServiceImpl) SyncProducts(ctx context.Context, incremental bool) (int, error) {
	return s.runSync(ctx, KindProducts, incremental, "modified", func(ctx context.Context, params ListParams) (int, int, error) {
		products, err := s.client.ListProducts(ctx, params)
		if err != nil {
			return 0, 0, err
		}
		processed := 0
		for _, wc := range products {
			if err := s.processProduct(ctx, wc); err != nil {
				s.logger.Error("error processing product",
					zap.Int64("woocommerce_id", wc.ID), zap.Error(err))
				continue
			}
			processed++
		}
		return len(products), processed, nil
	})
}

func (s *SyncServiceImpl) SyncOrders(ctx context.Context, incremental bool) (int, error) {
	return s.runSync(ctx, KindOrders, incremental, "modified", func(ctx context.Context, params ListParams) (int, int, error) {
		orders, err := s.client.ListOrders(ctx, params)
		if err != nil {
			return 0, 0, err
		}
		processed := 0
		for _, wc := range orders {
			if err := s.processOrder(ctx, wc); err != nil {
				s.logger.Error("error processing order",
					zap.Int64("woocommerce_id", wc.ID), zap.Error(err))
				continue
			}
			processed++
		}
		return len(orders), processed, nil
	})
}

// RunFullSync walks every entity family in dependency order so orders can
// link contacts and products stored earlier in the same run. A failure
// aborts the chain.
func (s *SyncServiceImpl) RunFullSync(ctx context.Context) {
	if _, err := s.SyncCustomers(ctx, false); err != nil {
		s.logger.Error("full sync aborted during customers", zap.Error(err))
		return
	}
	if _, err := s.SyncProducts(ctx, false); err != nil {
		s.logger.Error("full sync aborted during products", zap.Error(err))
		return
	}
	if _, err := s.SyncOrders(ctx, false); err != nil {
		s.logger.Error("full sync aborted during orders", zap.Error(err))
		return
	}
	s.logger.Info("full WooCommerce sync completed")
}

// runSync wraps one sync run with the shared bookkeeping: availability
// check, per-kind lock, sync log lifecycle and the page loop.
func (s *SyncServiceImpl) runSync(ctx context.Context, kind Kind, incremental bool, orderBy string, fetch pageFunc) (int, error) {
	if !s.client.Available() {
		return 0, ErrClientUnavailable
	}

	lock := s.locks[kind]
	if !lock.TryLock() {
		s.logger.Warn("sync already running, skipping",
			zap.String("entity_type", string(kind)))
		return 0, ErrSyncRunning
	}
	defer lock.Unlock()

	syncType := "full"
	if incremental {
		syncType = "incremental"
	}
	s.logger.Info("starting WooCommerce sync",
		zap.String("entity_type", string(kind)),
		zap.String("sync_type", syncType))

	logID, err := s.syncLogs.Create(ctx, &SyncLog{
		EntityType:       string(kind),
		SyncType:         syncType,
		Status:           "started",
		RecordsProcessed: 0,
		StartedAt:        time.Now(),
	})
	if err != nil {
		return 0, err
	}
	s.publish("sync_started", kind, syncType, 0)

	total, err := s.pageLoop(ctx, kind, incremental, orderBy, fetch)
	if err != nil {
		if uerr := s.syncLogs.Update(ctx, logID, bson.M{
			"status":        "failed",
			"error_message": formatSyncError(err),
			"completed_at":  time.Now(),
		}); uerr != nil {
			s.logger.Error("failed to record sync failure", zap.Error(uerr))
		}
		s.logger.Error("WooCommerce sync failed",
			zap.String("entity_type", string(kind)), zap.Error(err))
		s.publish("sync_failed", kind, syncType, total)
		return total, err
	}

	if uerr := s.syncLogs.Update(ctx, logID, bson.M{
		"status":            "completed",
		"records_processed": total,
		"completed_at":      time.Now(),
	}); uerr != nil {
		s.logger.Error("failed to record sync completion", zap.Error(uerr))
	}

	s.logger.Info("WooCommerce sync completed",
		zap.String("entity_type", string(kind)),
		zap.Int("records_processed", total))
	s.publish("sync_completed", kind, syncType, total)
	return total, nil
}

func (s *SyncServiceImpl) publish(event string, kind Kind, syncType string, processed int) {
	if s.events == nil {
		return
	}
	s.events.Publish(event, map[string]interface{}{
		"entity_type":       string(kind),
		"sync_type":         syncType,
		"records_processed": processed,
	})
}

func (s *SyncServiceImpl) pageLoop(ctx context.Context, kind Kind, incremental bool, orderBy string, fetch pageFunc) (int, error) {
	var cutoff time.Time
	if incremental {
		last, err := s.mirrors.LastSyncTime(ctx, kind)
		if err != nil {
			return 0, err
		}
		if !last.IsZero() {
			cutoff = last.Add(-incrementalOverlap)
		}
	}

	page := 1
	total := 0
	for {
		s.logger.Info("fetching WooCommerce page",
			zap.String("entity_type", string(kind)), zap.Int("page", page))

		fetched, processed, err := fetch(ctx, ListParams{
			Page:          page,
			PerPage:       pageSize,
			OrderBy:       orderBy,
			Order:         "desc",
			ModifiedAfter: cutoff,
		})
		if err != nil {
			return total, err
		}
		total += processed

		if fetched < pageSize {
			break
		}
		page++
	}
	return total, nil
}

func (s *SyncServiceImpl) processCustomer(ctx context.Context, wc Customer) error {
	doc := CustomerToContact(wc)
	if err := s.upsertContact(ctx, wc.ID, &doc); err != nil {
		return err
	}
	return s.mirrors.UpsertCustomer(ctx, NewCustomerMirror(wc))
}

// upsertContact matches by external ID first, then by email, and inserts
// otherwise. A duplicate key error on insert means another writer got there
// first, so it retries as an update.
func (s *SyncServiceImpl) upsertContact(ctx context.Context, wooID int64, doc *contact.Contact) error {
	existing, err := s.contacts.FindByExternalID(ctx, wooID)
	if err != nil && err != mongo.ErrNoDocuments {
		return err
	}
	if existing == nil && doc.Email != "" {
		existing, err = s.contacts.FindByEmail(ctx, doc.Email)
		if err != nil && err != mongo.ErrNoDocuments {
			return err
		}
	}

	if existing != nil {
		if err := s.contacts.Update(ctx, existing.ID.Hex(), contactSyncFields(doc)); err != nil {
			return err
		}
		s.logger.Info("updated contact", zap.String("email", doc.Email))
		return nil
	}

	if err := s.contacts.Create(ctx, doc); err != nil {
		if !mongo.IsDuplicateKeyError(err) {
			return err
		}
		existing, ferr := s.contacts.FindByExternalID(ctx, wooID)
		if ferr != nil {
			return ferr
		}
		return s.contacts.Update(ctx, existing.ID.Hex(), contactSyncFields(doc))
	}
	s.logger.Info("created contact", zap.String("email", doc.Email))
	return nil
}

func (s *SyncServiceImpl) processProduct(ctx context.Context, wc Product) error {
	doc := ProductToProduct(wc)

	stored, err := s.upsertProduct(ctx, &doc)
	if err != nil {
		return err
	}

	if err := s.policy.EnsureCourseForProduct(ctx, stored); err != nil {
		return err
	}

	return s.mirrors.UpsertProduct(ctx, NewProductMirror(wc))
}

func (s *SyncServiceImpl) upsertProduct(ctx context.Context, doc *product.Product) (*product.Product, error) {
	existing, err := s.products.FindByExternalID(ctx, doc.WooCommerceID)
	if err != nil && err != mongo.ErrNoDocuments {
		return nil, err
	}
	if existing == nil && doc.SKU != "" {
		existing, err = s.products.FindBySKU(ctx, doc.SKU)
		if err != nil && err != mongo.ErrNoDocuments {
			return nil, err
		}
	}

	if existing != nil {
		if err := s.products.Update(ctx, existing.ID, productSyncFields(doc)); err != nil {
			return nil, err
		}
		doc.ID = existing.ID
		s.logger.Info("updated product", zap.String("name", doc.Name))
		return doc, nil
	}

	id, err := s.products.Create(ctx, doc)
	if err != nil {
		if !mongo.IsDuplicateKeyError(err) {
			return nil, err
		}
		existing, ferr := s.products.FindByExternalID(ctx, doc.WooCommerceID)
		if ferr != nil {
			return nil, ferr
		}
		if uerr := s.products.Update(ctx, existing.ID, productSyncFields(doc)); uerr != nil {
			return nil, uerr
		}
		doc.ID = existing.ID
		return doc, nil
	}
	doc.ID = id
	s.logger.Info("created product", zap.String("name", doc.Name))
	return doc, nil
}

func (s *SyncServiceImpl) processOrder(ctx context.Context, wc Order) error {
	contactID, err := s.findOrCreateOrderContact(ctx, wc)
	if err != nil {
		return err
	}

	doc := OrderToOrder(wc, contactID)

	var orderID primitive.ObjectID
	existing, err := s.orders.FindByExternalID(ctx, wc.ID)
	if err != nil && err != mongo.ErrNoDocuments {
		return err
	}
	if existing != nil {
		if err := s.orders.Update(ctx, existing.ID, orderSyncFields(doc)); err != nil {
			return err
		}
		orderID = existing.ID
		s.logger.Info("updated order", zap.String("order_number", doc.OrderNumber))
	} else {
		id, err := s.orders.Create(ctx, &doc)
		if err != nil {
			if !mongo.IsDuplicateKeyError(err) {
				return err
			}
			again, ferr := s.orders.FindByExternalID(ctx, wc.ID)
			if ferr != nil {
				return ferr
			}
			if uerr := s.orders.Update(ctx, again.ID, orderSyncFields(doc)); uerr != nil {
				return uerr
			}
			id = again.ID
		} else {
			s.logger.Info("created order", zap.String("order_number", doc.OrderNumber))
		}
		orderID = id
	}

	if err := s.syncOrderItems(ctx, orderID.Hex(), wc.LineItems); err != nil {
		return err
	}

	return s.mirrors.UpsertOrder(ctx, NewOrderMirror(wc, contactID))
}

// findOrCreateOrderContact resolves the CRM contact for an order by billing
// email. Orders without a usable email stay unlinked.
func (s *SyncServiceImpl) findOrCreateOrderContact(ctx context.Context, wc Order) (string, error) {
	email := strings.ToLower(strings.TrimSpace(wc.Billing.Email))
	if email == "" {
		return "", nil
	}

	existing, err := s.contacts.FindByEmail(ctx, email)
	if err != nil && err != mongo.ErrNoDocuments {
		return "", err
	}
	if existing != nil {
		return existing.ID.Hex(), nil
	}

	billing := wc.Billing
	created := &contact.Contact{
		FirstName:  billing.FirstName,
		LastName:   billing.LastName,
		Email:      email,
		Phone:      billing.Phone,
		Address:    billing.Address1,
		City:       billing.City,
		PostalCode: billing.Postcode,
		Country:    strings.ToUpper(billing.Country),
		Language:   LanguageFromCountry(billing.Country),
		Status:     "client",
		Source:     "woocommerce_order",
		Notes:      fmt.Sprintf("Contatto creato da ordine WooCommerce #%s", wc.Number),
	}
	if err := s.contacts.Create(ctx, created); err != nil {
		if !mongo.IsDuplicateKeyError(err) {
			return "", err
		}
		again, ferr := s.contacts.FindByEmail(ctx, email)
		if ferr != nil {
			return "", ferr
		}
		return again.ID.Hex(), nil
	}
	s.logger.Info("created contact from order", zap.String("email", email))
	return created.ID.Hex(), nil
}

// syncOrderItems rebuilds the order's line items. Missing products are
// created on the fly so every item links to a catalog entry.
func (s *SyncServiceImpl) syncOrderItems(ctx context.Context, orderID string, lineItems []LineItem) error {
	items := make([]order.OrderItem, 0, len(lineItems))
	for _, li := range lineItems {
		productID, err := s.resolveOrderItemProduct(ctx, li)
		if err != nil {
			return err
		}
		items = append(items, order.OrderItem{
			OrderID:           orderID,
			ProductID:         productID,
			ProductName:       li.Name,
			SKU:               li.SKU,
			Quantity:          li.Quantity,
			UnitPrice:         float64(li.Price),
			TotalPrice:        float64(li.Total),
			WooCommerceItemID: li.ID,
			RateInfo:          ExtractRateInfo(li.Name),
		})
	}
	return s.orderItems.ReplaceForOrder(ctx, orderID, items)
}

// resolveOrderItemProduct matches a line item to a product by SKU, then by
// the stripped base name, and finally creates the product.
func (s *SyncServiceImpl) resolveOrderItemProduct(ctx context.Context, li LineItem) (string, error) {
	if li.SKU != "" {
		p, err := s.products.FindBySKU(ctx, li.SKU)
		if err != nil && err != mongo.ErrNoDocuments {
			return "", err
		}
		if p != nil {
			return p.ID.Hex(), nil
		}
	}

	if base := BaseProductName(li.Name); base != "" {
		p, err := s.products.FindByNameContaining(ctx, base)
		if err != nil && err != mongo.ErrNoDocuments {
			return "", err
		}
		if p != nil {
			return p.ID.Hex(), nil
		}
	}

	return s.createProductFromOrderItem(ctx, li)
}

func (s *SyncServiceImpl) createProductFromOrderItem(ctx context.Context, li LineItem) (string, error) {
	base := BaseProductName(li.Name)

	sku := li.SKU
	if sku == "" {
		sku = "WC-AUTO-" + time.Now().Format("20060102150405")
	}

	created := &product.Product{
		Name:           base,
		Description:    "Prodotto creato automaticamente da ordine WooCommerce",
		Price:          float64(li.Price),
		SKU:            sku,
		Category:       CategorizeProduct(base),
		Language:       LanguageFromText(li.Name),
		IsActive:       true,
		Source:         "woocommerce_auto",
		WCOriginalName: li.Name,
	}

	id, err := s.products.Create(ctx, created)
	if err != nil {
		return "", err
	}
	created.ID = id
	s.logger.Info("created product from order item", zap.String("name", base))

	if err := s.policy.EnsureCourseForProduct(ctx, created); err != nil {
		return "", err
	}
	return id.Hex(), nil
}

func (s *SyncServiceImpl) Status(ctx context.Context) (*SyncStatus, error) {
	status := &SyncStatus{
		WooCommerceConnection: s.client.Available(),
	}

	lastCustomer, err := s.mirrors.LastSyncTime(ctx, KindCustomers)
	if err != nil {
		return nil, err
	}
	if !lastCustomer.IsZero() {
		status.LastCustomerSync = &lastCustomer
	}
	lastProduct, err := s.mirrors.LastSyncTime(ctx, KindProducts)
	if err != nil {
		return nil, err
	}
	if !lastProduct.IsZero() {
		status.LastProductSync = &lastProduct
	}
	lastOrder, err := s.mirrors.LastSyncTime(ctx, KindOrders)
	if err != nil {
		return nil, err
	}
	if !lastOrder.IsZero() {
		status.LastOrderSync = &lastOrder
	}

	if status.CustomerCount, err = s.mirrors.Count(ctx, KindCustomers); err != nil {
		return nil, err
	}
	if status.ProductCount, err = s.mirrors.Count(ctx, KindProducts); err != nil {
		return nil, err
	}
	if status.OrderCount, err = s.mirrors.Count(ctx, KindOrders); err != nil {
		return nil, err
	}

	if status.RecentSyncLogs, err = s.syncLogs.Recent(ctx, 10); err != nil {
		return nil, err
	}
	return status, nil
}

func (s *SyncServiceImpl) TestConnection(ctx context.Context) (*StoreInfo, error) {
	return s.client.TestConnection(ctx)
}

func (s *SyncServiceImpl) GetSettings(ctx context.Context) (SyncSettings, error) {
	return s.settings.Get(ctx)
}

func (s *SyncServiceImpl) UpdateSettings(ctx context.Context, update *SettingsUpdate, updatedBy string) (SyncSettings, error) {
	if err := update.Validate(); err != nil {
		return SyncSettings{}, err
	}

	current, err := s.settings.Get(ctx)
	if err != nil {
		return SyncSettings{}, err
	}

	merged := update.Apply(current)
	merged.LastUpdated = time.Now()
	merged.UpdatedBy = updatedBy

	saved, err := s.settings.Save(ctx, merged)
	if err != nil {
		return SyncSettings{}, err
	}
	s.logger.Info("sync settings updated", zap.String("updated_by", updatedBy))
	return saved, nil
}

func formatSyncError(err error) string {
	return fmt.Sprintf("Exception type: %T, Message: %s, Traceback: %s",
		err, err.Error(), debug.Stack())
}

func contactSyncFields(doc *contact.Contact) map[string]interface{} {
	return map[string]interface{}{
		"woocommerce_id":  doc.WooCommerceID,
		"first_name":      doc.FirstName,
		"last_name":       doc.LastName,
		"email":           doc.Email,
		"phone":           doc.Phone,
		"address":         doc.Address,
		"city":            doc.City,
		"postal_code":     doc.PostalCode,
		"country":         doc.Country,
		"language":        doc.Language,
		"status":          doc.Status,
		"source":          doc.Source,
		"notes":           doc.Notes,
		"wc_total_spent":  doc.WCTotalSpent,
		"wc_orders_count": doc.WCOrdersCount,
	}
}

func productSyncFields(doc *product.Product) bson.M {
	return bson.M{
		"woocommerce_id": doc.WooCommerceID,
		"name":           doc.Name,
		"description":    doc.Description,
		"price":          doc.Price,
		"sku":            doc.SKU,
		"category":       doc.Category,
		"language":       doc.Language,
		"is_active":      doc.IsActive,
		"stock_quantity": doc.StockQuantity,
		"stock_status":   doc.StockStatus,
		"source":         doc.Source,
	}
}

func orderSyncFields(doc order.Order) bson.M {
	return bson.M{
		"woocommerce_id":    doc.WooCommerceID,
		"contact_id":        doc.ContactID,
		"order_number":      doc.OrderNumber,
		"status":            doc.Status,
		"payment_status":    doc.PaymentStatus,
		"payment_method":    doc.PaymentMethod,
		"total_amount":      doc.TotalAmount,
		"notes":             doc.Notes,
		"source":            doc.Source,
		"language":          doc.Language,
		"wc_currency":       doc.WCCurrency,
		"wc_total_tax":      doc.WCTotalTax,
		"wc_shipping_total": doc.WCShippingTotal,
	}
}
