package order

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"woocrm/internal/features/contact"
)

type Order struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OrderNumber     string             `json:"order_number" bson:"order_number"`
	ContactID       string             `json:"contact_id,omitempty" bson:"contact_id,omitempty"`
	Status          string             `json:"status" bson:"status"`                 // pending, completed, cancelled
	PaymentStatus   string             `json:"payment_status" bson:"payment_status"` // pending, paid
	PaymentMethod   string             `json:"payment_method,omitempty" bson:"payment_method,omitempty"`
	TotalAmount     float64            `json:"total_amount" bson:"total_amount"`
	Notes           string             `json:"notes,omitempty" bson:"notes,omitempty"`
	Source          string             `json:"source,omitempty" bson:"source,omitempty"`
	Language        string             `json:"language,omitempty" bson:"language,omitempty"`
	WooCommerceID   int64              `json:"woocommerce_id,omitempty" bson:"woocommerce_id,omitempty"`
	WCCurrency      string             `json:"wc_currency,omitempty" bson:"wc_currency,omitempty"`
	WCTotalTax      float64            `json:"wc_total_tax,omitempty" bson:"wc_total_tax,omitempty"`
	WCShippingTotal float64            `json:"wc_shipping_total,omitempty" bson:"wc_shipping_total,omitempty"`
	CreatedBy       string             `json:"created_by,omitempty" bson:"created_by,omitempty"`
	CreatedAt       time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at" bson:"updated_at"`
}

type OrderItem struct {
	ID                primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OrderID           string             `json:"order_id" bson:"order_id"`
	ProductID         string             `json:"product_id,omitempty" bson:"product_id,omitempty"`
	ProductName       string             `json:"product_name" bson:"product_name"`
	SKU               string             `json:"sku,omitempty" bson:"sku,omitempty"`
	Quantity          int                `json:"quantity" bson:"quantity"`
	UnitPrice         float64            `json:"unit_price" bson:"unit_price"`
	TotalPrice        float64            `json:"total_price" bson:"total_price"`
	WooCommerceItemID int64              `json:"woocommerce_item_id,omitempty" bson:"woocommerce_item_id,omitempty"`
	RateInfo          *RateInfo          `json:"rate_info,omitempty" bson:"rate_info,omitempty"`
	CreatedAt         time.Time          `json:"created_at" bson:"created_at"`
}

// RateInfo captures an installment plan parsed from a WooCommerce line item
// name, either "N rate" or "€X x N mois".
type RateInfo struct {
	Type          string  `json:"type" bson:"type"` // rate, monthly
	NumRates      int     `json:"num_rates,omitempty" bson:"num_rates,omitempty"`
	MonthlyAmount float64 `json:"monthly_amount,omitempty" bson:"monthly_amount,omitempty"`
	NumMonths     int     `json:"num_months,omitempty" bson:"num_months,omitempty"`
}

type OrderDetails struct {
	Order
	Contact *contact.Contact `json:"contact,omitempty"`
	Items   []OrderItem      `json:"items"`
}

type CreateOrderRequest struct {
	ContactID     string            `json:"contact_id"`
	Status        string            `json:"status"`
	PaymentMethod string            `json:"payment_method"`
	PaymentStatus string            `json:"payment_status"`
	Notes         string            `json:"notes"`
	Items         []CreateOrderItem `json:"items"`
}

type CreateOrderItem struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	TotalPrice  float64 `json:"total_price"`
}

type ListFilter struct {
	ContactID     string
	Status        string
	PaymentStatus string
	Search        string
	Page          int64
	Limit         int64
}
