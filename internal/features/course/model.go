package course

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"woocrm/internal/features/contact"
)

type Course struct {
	ID                  primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title               string             `json:"title" bson:"title"`
	Description         string             `json:"description,omitempty" bson:"description,omitempty"`
	Instructor          string             `json:"instructor,omitempty" bson:"instructor,omitempty"`
	Duration            string             `json:"duration,omitempty" bson:"duration,omitempty"`
	Price               float64            `json:"price" bson:"price"`
	Category            string             `json:"category,omitempty" bson:"category,omitempty"`
	Language            string             `json:"language,omitempty" bson:"language,omitempty"`
	IsActive            bool               `json:"is_active" bson:"is_active"`
	MaxStudents         int                `json:"max_students,omitempty" bson:"max_students,omitempty"`
	Source              string             `json:"source,omitempty" bson:"source,omitempty"`
	AssociatedProductID string             `json:"associated_product_id,omitempty" bson:"associated_product_id,omitempty"`
	CreatedAt           time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at" bson:"updated_at"`
}

// DeletedCourse records a manual course deletion so the WooCommerce product
// sync does not recreate the course on the next run.
type DeletedCourse struct {
	ID                  primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CourseID            string             `json:"course_id" bson:"course_id"`
	CourseTitle         string             `json:"course_title" bson:"course_title"`
	AssociatedProductID string             `json:"associated_product_id,omitempty" bson:"associated_product_id,omitempty"`
	DeletedAt           time.Time          `json:"deleted_at" bson:"deleted_at"`
	DeletedBy           string             `json:"deleted_by,omitempty" bson:"deleted_by,omitempty"`
}

type Enrollment struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ContactID   string             `json:"contact_id" bson:"contact_id"`
	CourseID    string             `json:"course_id" bson:"course_id"`
	EnrolledAt  time.Time          `json:"enrolled_at" bson:"enrolled_at"`
	Status      string             `json:"status" bson:"status"` // active, completed, cancelled
	Source      string             `json:"source" bson:"source"` // manual, order, tag
	CancelledAt *time.Time         `json:"cancelled_at,omitempty" bson:"cancelled_at,omitempty"`
}

type ListFilter struct {
	Category   string
	Language   string
	Instructor string
	Search     string
	Page       int64
	Limit      int64
}

type EnrollmentFilter struct {
	CourseID  string
	ContactID string
	Status    string
}

type EnrolledStudent struct {
	Contact    *contact.Contact `json:"contact"`
	Enrollment Enrollment       `json:"enrollment"`
}

type ContactCourse struct {
	Course     Course     `json:"course"`
	Enrollment Enrollment `json:"enrollment"`
}
