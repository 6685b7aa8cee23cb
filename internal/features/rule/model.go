package rule

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Operator string

const (
	OperatorEquals      Operator = "equals"
	OperatorNotEquals   Operator = "not_equals"
	OperatorContains    Operator = "contains"
	OperatorGreaterThan Operator = "gt"
	OperatorLessThan    Operator = "lt"
)

type ActionType string

const (
	ActionAddTag      ActionType = "add_tag"
	ActionUpdateField ActionType = "update_field"
	ActionWebhook     ActionType = "webhook"
	ActionRunScript   ActionType = "run_script"
)

type RuleCondition struct {
	Field    string      `json:"field" bson:"field"`
	Operator Operator    `json:"operator" bson:"operator"`
	Value    interface{} `json:"value" bson:"value"`
}

type RuleAction struct {
	Type   ActionType             `json:"type" bson:"type"`
	Config map[string]interface{} `json:"config" bson:"config"`
}

// Rule runs its actions when an entity event matches the trigger and all
// conditions hold. Conditions are ANDed; an empty list always matches.
type Rule struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	EntityType   string             `json:"entity_type" bson:"entity_type"`     // "contact", "order"
	TriggerEvent string             `json:"trigger_event" bson:"trigger_event"` // "create", "update"
	Active       bool               `json:"active" bson:"active"`
	Conditions   []RuleCondition    `json:"conditions" bson:"conditions"`
	Actions      []RuleAction       `json:"actions" bson:"actions"`
	CreatedBy    string             `json:"created_by,omitempty" bson:"created_by,omitempty"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}
