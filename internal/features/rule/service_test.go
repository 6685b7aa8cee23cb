package rule

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestMatchConditions(t *testing.T) {
	record := map[string]interface{}{
		"status":          "client",
		"language":        "fr",
		"wc_total_spent":  450.5,
		"wc_orders_count": 3,
		"email":           "marie@example.fr",
	}

	tests := []struct {
		name       string
		conditions []RuleCondition
		want       bool
	}{
		{
			name: "empty conditions always match",
			want: true,
		},
		{
			name: "equals",
			conditions: []RuleCondition{
				{Field: "status", Operator: OperatorEquals, Value: "client"},
			},
			want: true,
		},
		{
			name: "equals mismatch",
			conditions: []RuleCondition{
				{Field: "status", Operator: OperatorEquals, Value: "lead"},
			},
			want: false,
		},
		{
			name: "not equals",
			conditions: []RuleCondition{
				{Field: "language", Operator: OperatorNotEquals, Value: "it"},
			},
			want: true,
		},
		{
			name: "contains",
			conditions: []RuleCondition{
				{Field: "email", Operator: OperatorContains, Value: "@example.fr"},
			},
			want: true,
		},
		{
			name: "greater than over numbers",
			conditions: []RuleCondition{
				{Field: "wc_total_spent", Operator: OperatorGreaterThan, Value: 400},
			},
			want: true,
		},
		{
			name: "greater than with string threshold",
			conditions: []RuleCondition{
				{Field: "wc_orders_count", Operator: OperatorGreaterThan, Value: "2"},
			},
			want: true,
		},
		{
			name: "less than fails",
			conditions: []RuleCondition{
				{Field: "wc_total_spent", Operator: OperatorLessThan, Value: 100},
			},
			want: false,
		},
		{
			name: "missing field never matches",
			conditions: []RuleCondition{
				{Field: "no_such_field", Operator: OperatorEquals, Value: "x"},
			},
			want: false,
		},
		{
			name: "all conditions must hold",
			conditions: []RuleCondition{
				{Field: "status", Operator: OperatorEquals, Value: "client"},
				{Field: "language", Operator: OperatorEquals, Value: "de"},
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchConditions(tt.conditions, record); got != tt.want {
				t.Errorf("MatchConditions() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateRule(t *testing.T) {
	valid := Rule{
		Name:         "tag big spenders",
		EntityType:   "contact",
		TriggerEvent: "update",
		Actions: []RuleAction{
			{Type: ActionAddTag, Config: map[string]interface{}{"tag": "vip"}},
		},
	}

	tests := []struct {
		name    string
		mutate  func(r *Rule)
		wantErr bool
	}{
		{name: "valid rule", mutate: func(r *Rule) {}},
		{name: "missing name", mutate: func(r *Rule) { r.Name = "" }, wantErr: true},
		{name: "bad entity type", mutate: func(r *Rule) { r.EntityType = "product" }, wantErr: true},
		{name: "bad trigger event", mutate: func(r *Rule) { r.TriggerEvent = "delete" }, wantErr: true},
		{name: "bad action type", mutate: func(r *Rule) { r.Actions[0].Type = "send_sms" }, wantErr: true},
		{name: "run script action allowed", mutate: func(r *Rule) { r.Actions[0].Type = ActionRunScript }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			r.Actions = []RuleAction{valid.Actions[0]}
			tt.mutate(&r)
			err := validateRule(&r)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateRule() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

type memRuleRepo struct {
	rules []*Rule
}

func (r *memRuleRepo) Create(ctx context.Context, rule *Rule) error {
	rule.ID = primitive.NewObjectID()
	stored := *rule
	r.rules = append(r.rules, &stored)
	return nil
}

func (r *memRuleRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*Rule, error) {
	for _, rule := range r.rules {
		if rule.ID == id {
			found := *rule
			return &found, nil
		}
	}
	return nil, nil
}

func (r *memRuleRepo) FindByEntity(ctx context.Context, entityType string) ([]Rule, error) {
	var out []Rule
	for _, rule := range r.rules {
		if rule.EntityType == entityType {
			out = append(out, *rule)
		}
	}
	return out, nil
}

func (r *memRuleRepo) List(ctx context.Context) ([]Rule, error) {
	out := make([]Rule, 0, len(r.rules))
	for _, rule := range r.rules {
		out = append(out, *rule)
	}
	return out, nil
}

func (r *memRuleRepo) Update(ctx context.Context, rule *Rule) error { return nil }
func (r *memRuleRepo) Delete(ctx context.Context, id primitive.ObjectID) error { return nil }
func (r *memRuleRepo) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	return nil
}

type recordingExecutor struct {
	executed [][]RuleAction
}

func (e *recordingExecutor) ExecuteActions(ctx context.Context, actions []RuleAction, entityType string, record map[string]interface{}) error {
	e.executed = append(e.executed, actions)
	return nil
}

func (e *recordingExecutor) ExecuteAction(ctx context.Context, action RuleAction, entityType string, record map[string]interface{}) error {
	return nil
}

func TestExecuteFromTrigger(t *testing.T) {
	repo := &memRuleRepo{}
	executor := &recordingExecutor{}
	service := NewRuleService(repo, executor, zap.NewNop())
	ctx := context.Background()

	mustCreate := func(r Rule) {
		if err := service.CreateRule(ctx, &r, "admin"); err != nil {
			t.Fatalf("CreateRule() error = %v", err)
		}
	}

	mustCreate(Rule{
		Name:         "tag french clients",
		EntityType:   "contact",
		TriggerEvent: "create",
		Active:       true,
		Conditions: []RuleCondition{
			{Field: "language", Operator: OperatorEquals, Value: "fr"},
		},
		Actions: []RuleAction{{Type: ActionAddTag, Config: map[string]interface{}{"tag": "fr"}}},
	})
	mustCreate(Rule{
		Name:         "inactive rule",
		EntityType:   "contact",
		TriggerEvent: "create",
		Active:       false,
		Actions:      []RuleAction{{Type: ActionAddTag}},
	})
	mustCreate(Rule{
		Name:         "update only",
		EntityType:   "contact",
		TriggerEvent: "update",
		Active:       true,
		Actions:      []RuleAction{{Type: ActionAddTag}},
	})

	record := map[string]interface{}{"language": "fr"}
	if err := service.ExecuteFromTrigger(ctx, "contact", record, "create"); err != nil {
		t.Fatalf("ExecuteFromTrigger() error = %v", err)
	}

	// Only the active create-trigger rule with matching conditions ran.
	if len(executor.executed) != 1 {
		t.Fatalf("executed = %d rule action sets, want 1", len(executor.executed))
	}

	// A record that fails the conditions runs nothing.
	if err := service.ExecuteFromTrigger(ctx, "contact", map[string]interface{}{"language": "it"}, "create"); err != nil {
		t.Fatalf("ExecuteFromTrigger() error = %v", err)
	}
	if len(executor.executed) != 1 {
		t.Errorf("executed = %d, want no further executions", len(executor.executed))
	}
}
