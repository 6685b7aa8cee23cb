package contact

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Contact struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	FirstName     string             `json:"first_name" bson:"first_name"`
	LastName      string             `json:"last_name" bson:"last_name"`
	Email         string             `json:"email" bson:"email"`
	Phone         string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Address       string             `json:"address,omitempty" bson:"address,omitempty"`
	City          string             `json:"city,omitempty" bson:"city,omitempty"`
	PostalCode    string             `json:"postal_code,omitempty" bson:"postal_code,omitempty"`
	Country       string             `json:"country,omitempty" bson:"country,omitempty"`
	Language      string             `json:"language,omitempty" bson:"language,omitempty"`
	Status        string             `json:"status" bson:"status"` // "lead", "client", "student", "inactive"
	Source        string             `json:"source,omitempty" bson:"source,omitempty"`
	Notes         string             `json:"notes,omitempty" bson:"notes,omitempty"`
	Tags          []string           `json:"tags,omitempty" bson:"tags,omitempty"`
	WooCommerceID int64              `json:"woocommerce_id,omitempty" bson:"woocommerce_id,omitempty"`
	WCTotalSpent  float64            `json:"wc_total_spent,omitempty" bson:"wc_total_spent,omitempty"`
	WCOrdersCount int                `json:"wc_orders_count,omitempty" bson:"wc_orders_count,omitempty"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

// ListFilter narrows contact listings.
type ListFilter struct {
	Status   string
	Language string
	Search   string
	Tag      string
	Page     int64
	Limit    int64
}
