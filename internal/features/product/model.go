package product

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name           string             `json:"name" bson:"name"`
	Description    string             `json:"description,omitempty" bson:"description,omitempty"`
	Price          float64            `json:"price" bson:"price"`
	SKU            string             `json:"sku,omitempty" bson:"sku,omitempty"`
	Category       string             `json:"category,omitempty" bson:"category,omitempty"` // "corso", "formazione", "consulenza", "generale"
	Language       string             `json:"language,omitempty" bson:"language,omitempty"`
	IsActive       bool               `json:"is_active" bson:"is_active"`
	StockQuantity  int                `json:"stock_quantity,omitempty" bson:"stock_quantity,omitempty"`
	StockStatus    string             `json:"stock_status,omitempty" bson:"stock_status,omitempty"`
	Source         string             `json:"source,omitempty" bson:"source,omitempty"`
	WooCommerceID  int64              `json:"woocommerce_id,omitempty" bson:"woocommerce_id,omitempty"`
	WCOriginalName string             `json:"wc_original_name,omitempty" bson:"wc_original_name,omitempty"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
}

type ListFilter struct {
	Category string
	Language string
	Search   string
	Page     int64
	Limit    int64
}
