package woocommerce

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Kind names one of the synced entity families.
type Kind string

const (
	KindCustomers Kind = "customers"
	KindProducts  Kind = "products"
	KindOrders    Kind = "orders"
)

// SyncLog records one sync run. The status endpoint surfaces the most
// recent entries.
type SyncLog struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	EntityType       string             `json:"entity_type" bson:"entity_type"`
	SyncType         string             `json:"sync_type" bson:"sync_type"` // "incremental", "full"
	Status           string             `json:"status" bson:"status"`       // "started", "completed", "failed"
	RecordsProcessed int                `json:"records_processed" bson:"records_processed"`
	ErrorMessage     string             `json:"error_message,omitempty" bson:"error_message,omitempty"`
	StartedAt        time.Time          `json:"started_at" bson:"started_at"`
	CompletedAt      *time.Time         `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
}

// CustomerMirror keeps the store's view of a customer next to the CRM
// contact, for diagnostics and incremental-sync bookkeeping.
type CustomerMirror struct {
	WooCommerceID   int64     `json:"woocommerce_id" bson:"woocommerce_id"`
	Email           string    `json:"email" bson:"email"`
	FirstName       string    `json:"first_name" bson:"first_name"`
	LastName        string    `json:"last_name" bson:"last_name"`
	Username        string    `json:"username" bson:"username"`
	BillingAddress  Address   `json:"billing_address" bson:"billing_address"`
	ShippingAddress Address   `json:"shipping_address" bson:"shipping_address"`
	Phone           string    `json:"phone" bson:"phone"`
	TotalSpent      float64   `json:"total_spent" bson:"total_spent"`
	OrdersCount     int       `json:"orders_count" bson:"orders_count"`
	DateCreatedWC   time.Time `json:"date_created_wc" bson:"date_created_wc"`
	DateModifiedWC  time.Time `json:"date_modified_wc" bson:"date_modified_wc"`
	LastSync        time.Time `json:"last_sync" bson:"last_sync"`
}

type ProductMirror struct {
	WooCommerceID    int64     `json:"woocommerce_id" bson:"woocommerce_id"`
	Name             string    `json:"name" bson:"name"`
	Slug             string    `json:"slug" bson:"slug"`
	SKU              string    `json:"sku" bson:"sku"`
	Price            float64   `json:"price" bson:"price"`
	RegularPrice     float64   `json:"regular_price" bson:"regular_price"`
	SalePrice        float64   `json:"sale_price" bson:"sale_price"`
	Description      string    `json:"description" bson:"description"`
	ShortDescription string    `json:"short_description" bson:"short_description"`
	Categories       []Term    `json:"categories" bson:"categories"`
	Tags             []Term    `json:"tags" bson:"tags"`
	StockQuantity    *int      `json:"stock_quantity" bson:"stock_quantity"`
	StockStatus      string    `json:"stock_status" bson:"stock_status"`
	DateCreatedWC    time.Time `json:"date_created_wc" bson:"date_created_wc"`
	DateModifiedWC   time.Time `json:"date_modified_wc" bson:"date_modified_wc"`
	LastSync         time.Time `json:"last_sync" bson:"last_sync"`
}

type OrderMirror struct {
	WooCommerceID         int64      `json:"woocommerce_id" bson:"woocommerce_id"`
	OrderNumber           string     `json:"order_number" bson:"order_number"`
	WooCommerceCustomerID int64      `json:"woocommerce_customer_id" bson:"woocommerce_customer_id"`
	CRMContactID          string     `json:"crm_contact_id,omitempty" bson:"crm_contact_id,omitempty"`
	Status                string     `json:"status" bson:"status"`
	Currency              string     `json:"currency" bson:"currency"`
	Total                 float64    `json:"total" bson:"total"`
	TotalTax              float64    `json:"total_tax" bson:"total_tax"`
	ShippingTotal         float64    `json:"shipping_total" bson:"shipping_total"`
	PaymentMethod         string     `json:"payment_method" bson:"payment_method"`
	PaymentMethodTitle    string     `json:"payment_method_title" bson:"payment_method_title"`
	BillingAddress        Address    `json:"billing_address" bson:"billing_address"`
	ShippingAddress       Address    `json:"shipping_address" bson:"shipping_address"`
	LineItems             []LineItem `json:"line_items" bson:"line_items"`
	DateCreatedWC         time.Time  `json:"date_created_wc" bson:"date_created_wc"`
	DateModifiedWC        time.Time  `json:"date_modified_wc" bson:"date_modified_wc"`
	DateCompletedWC       *time.Time `json:"date_completed_wc,omitempty" bson:"date_completed_wc,omitempty"`
	LastSync              time.Time  `json:"last_sync" bson:"last_sync"`
}

// NewCustomerMirror projects a store customer into its mirror document.
func NewCustomerMirror(wc Customer) CustomerMirror {
	return CustomerMirror{
		WooCommerceID:   wc.ID,
		Email:           wc.Email,
		FirstName:       wc.FirstName,
		LastName:        wc.LastName,
		Username:        wc.Username,
		BillingAddress:  wc.Billing,
		ShippingAddress: wc.Shipping,
		Phone:           wc.Billing.Phone,
		TotalSpent:      float64(wc.TotalSpent),
		OrdersCount:     wc.OrdersCount,
		DateCreatedWC:   parseTime(wc.DateCreated),
		DateModifiedWC:  parseTime(wc.DateModified),
		LastSync:        time.Now(),
	}
}

func NewProductMirror(wc Product) ProductMirror {
	return ProductMirror{
		WooCommerceID:    wc.ID,
		Name:             wc.Name,
		Slug:             wc.Slug,
		SKU:              wc.SKU,
		Price:            float64(wc.Price),
		RegularPrice:     float64(wc.RegularPrice),
		SalePrice:        float64(wc.SalePrice),
		Description:      wc.Description,
		ShortDescription: wc.ShortDescription,
		Categories:       wc.Categories,
		Tags:             wc.Tags,
		StockQuantity:    wc.StockQuantity,
		StockStatus:      wc.StockStatus,
		DateCreatedWC:    parseTime(wc.DateCreated),
		DateModifiedWC:   parseTime(wc.DateModified),
		LastSync:         time.Now(),
	}
}

func NewOrderMirror(wc Order, contactID string) OrderMirror {
	mirror := OrderMirror{
		WooCommerceID:         wc.ID,
		OrderNumber:           wc.Number,
		WooCommerceCustomerID: wc.CustomerID,
		CRMContactID:          contactID,
		Status:                wc.Status,
		Currency:              wc.Currency,
		Total:                 float64(wc.Total),
		TotalTax:              float64(wc.TotalTax),
		ShippingTotal:         float64(wc.ShippingTotal),
		PaymentMethod:         wc.PaymentMethod,
		PaymentMethodTitle:    wc.PaymentMethodTitle,
		BillingAddress:        wc.Billing,
		ShippingAddress:       wc.Shipping,
		LineItems:             wc.LineItems,
		DateCreatedWC:         parseTime(wc.DateCreated),
		DateModifiedWC:        parseTime(wc.DateModified),
		LastSync:              time.Now(),
	}
	if wc.Currency == "" {
		mirror.Currency = "EUR"
	}
	if wc.DateCompleted != "" {
		completed := parseTime(wc.DateCompleted)
		mirror.DateCompletedWC = &completed
	}
	return mirror
}

// SyncSettings controls the background scheduler. A single document lives in
// the settings collection and is created with defaults on first read.
type SyncSettings struct {
	ID                    primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	AutoSyncEnabled       bool               `json:"auto_sync_enabled" bson:"auto_sync_enabled"`
	SyncCustomersEnabled  bool               `json:"sync_customers_enabled" bson:"sync_customers_enabled"`
	SyncProductsEnabled   bool               `json:"sync_products_enabled" bson:"sync_products_enabled"`
	SyncOrdersEnabled     bool               `json:"sync_orders_enabled" bson:"sync_orders_enabled"`
	SyncIntervalOrders    int                `json:"sync_interval_orders" bson:"sync_interval_orders"`       // minutes
	SyncIntervalCustomers int                `json:"sync_interval_customers" bson:"sync_interval_customers"` // minutes
	SyncIntervalProducts  int                `json:"sync_interval_products" bson:"sync_interval_products"`   // minutes
	FullSyncHour          int                `json:"full_sync_hour" bson:"full_sync_hour"`
	LastUpdated           time.Time          `json:"last_updated" bson:"last_updated"`
	UpdatedBy             string             `json:"updated_by,omitempty" bson:"updated_by,omitempty"`
}

func DefaultSyncSettings() SyncSettings {
	return SyncSettings{
		AutoSyncEnabled:       true,
		SyncCustomersEnabled:  true,
		SyncProductsEnabled:   true,
		SyncOrdersEnabled:     true,
		SyncIntervalOrders:    15,
		SyncIntervalCustomers: 30,
		SyncIntervalProducts:  60,
		FullSyncHour:          2,
		LastUpdated:           time.Now(),
	}
}

// SettingsUpdate carries a partial settings change. Nil fields keep their
// current value.
type SettingsUpdate struct {
	AutoSyncEnabled       *bool `json:"auto_sync_enabled,omitempty"`
	SyncCustomersEnabled  *bool `json:"sync_customers_enabled,omitempty"`
	SyncProductsEnabled   *bool `json:"sync_products_enabled,omitempty"`
	SyncOrdersEnabled     *bool `json:"sync_orders_enabled,omitempty"`
	SyncIntervalOrders    *int  `json:"sync_interval_orders,omitempty"`
	SyncIntervalCustomers *int  `json:"sync_interval_customers,omitempty"`
	SyncIntervalProducts  *int  `json:"sync_interval_products,omitempty"`
	FullSyncHour          *int  `json:"full_sync_hour,omitempty"`
}

// Validate rejects out-of-range values instead of clamping them, so a bad
// request never silently changes the schedule.
func (u *SettingsUpdate) Validate() error {
	intervals := []struct {
		field string
		value *int
	}{
		{"sync_interval_orders", u.SyncIntervalOrders},
		{"sync_interval_customers", u.SyncIntervalCustomers},
		{"sync_interval_products", u.SyncIntervalProducts},
	}
	for _, interval := range intervals {
		if interval.value != nil && *interval.value < 1 {
			return fmt.Errorf("%s must be at least 1 minute", interval.field)
		}
	}
	if u.FullSyncHour != nil && (*u.FullSyncHour < 0 || *u.FullSyncHour > 23) {
		return fmt.Errorf("full_sync_hour must be between 0 and 23")
	}
	return nil
}

// Apply merges the update into settings and returns the result.
func (u *SettingsUpdate) Apply(settings SyncSettings) SyncSettings {
	if u.AutoSyncEnabled != nil {
		settings.AutoSyncEnabled = *u.AutoSyncEnabled
	}
	if u.SyncCustomersEnabled != nil {
		settings.SyncCustomersEnabled = *u.SyncCustomersEnabled
	}
	if u.SyncProductsEnabled != nil {
		settings.SyncProductsEnabled = *u.SyncProductsEnabled
	}
	if u.SyncOrdersEnabled != nil {
		settings.SyncOrdersEnabled = *u.SyncOrdersEnabled
	}
	if u.SyncIntervalOrders != nil {
		settings.SyncIntervalOrders = *u.SyncIntervalOrders
	}
	if u.SyncIntervalCustomers != nil {
		settings.SyncIntervalCustomers = *u.SyncIntervalCustomers
	}
	if u.SyncIntervalProducts != nil {
		settings.SyncIntervalProducts = *u.SyncIntervalProducts
	}
	if u.FullSyncHour != nil {
		settings.FullSyncHour = *u.FullSyncHour
	}
	return settings
}

// SyncStatus is the aggregate health view served by the status endpoint.
type SyncStatus struct {
	WooCommerceConnection bool       `json:"woocommerce_connection"`
	LastCustomerSync      *time.Time `json:"last_customer_sync"`
	LastProductSync       *time.Time `json:"last_product_sync"`
	LastOrderSync         *time.Time `json:"last_order_sync"`
	CustomerCount         int64      `json:"customer_count"`
	ProductCount          int64      `json:"product_count"`
	OrderCount            int64      `json:"order_count"`
	RecentSyncLogs        []SyncLog  `json:"recent_sync_logs"`
}
