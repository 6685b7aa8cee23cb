package rule

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type RuleService interface {
	CreateRule(ctx context.Context, rule *Rule, createdBy string) error
	GetRule(ctx context.Context, id primitive.ObjectID) (*Rule, error)
	ListRules(ctx context.Context, entityType string) ([]Rule, error)
	UpdateRule(ctx context.Context, rule *Rule) error
	DeleteRule(ctx context.Context, id primitive.ObjectID) error
	SetActive(ctx context.Context, id primitive.ObjectID, active bool) error

	// ExecuteFromTrigger runs every active rule registered for the entity
	// and event against the record.
	ExecuteFromTrigger(ctx context.Context, entityType string, record map[string]interface{}, triggerEvent string) error
}

type RuleServiceImpl struct {
	repo     RuleRepository
	executor ActionExecutor
	logger   *zap.Logger
}

func NewRuleService(repo RuleRepository, executor ActionExecutor, logger *zap.Logger) RuleService {
	return &RuleServiceImpl{
		repo:     repo,
		executor: executor,
		logger:   logger,
	}
}

func (s *RuleServiceImpl) CreateRule(ctx context.Context, rule *Rule, createdBy string) error {
	if err := validateRule(rule); err != nil {
		return err
	}
	rule.CreatedBy = createdBy
	return s.repo.Create(ctx, rule)
}

func (s *RuleServiceImpl) GetRule(ctx context.Context, id primitive.ObjectID) (*Rule, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *RuleServiceImpl) ListRules(ctx context.Context, entityType string) ([]Rule, error) {
	if entityType != "" {
		return s.repo.FindByEntity(ctx, entityType)
	}
	return s.repo.List(ctx)
}

func (s *RuleServiceImpl) UpdateRule(ctx context.Context, rule *Rule) error {
	if err := validateRule(rule); err != nil {
		return err
	}
	return s.repo.Update(ctx, rule)
}

func (s *RuleServiceImpl) DeleteRule(ctx context.Context, id primitive.ObjectID) error {
	return s.repo.Delete(ctx, id)
}

func (s *RuleServiceImpl) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	return s.repo.SetActive(ctx, id, active)
}

func (s *RuleServiceImpl) ExecuteFromTrigger(ctx context.Context, entityType string, record map[string]interface{}, triggerEvent string) error {
	rules, err := s.repo.FindByEntity(ctx, entityType)
	if err != nil {
		return err
	}

	for _, rule := range rules {
		if !rule.Active || rule.TriggerEvent != triggerEvent {
			continue
		}
		if !MatchConditions(rule.Conditions, record) {
			continue
		}

		s.logger.Info("rule matched",
			zap.String("rule", rule.Name),
			zap.String("entity", entityType),
			zap.String("event", triggerEvent))

		if err := s.executor.ExecuteActions(ctx, rule.Actions, entityType, record); err != nil {
			s.logger.Error("rule execution failed",
				zap.String("rule", rule.Name), zap.Error(err))
		}
	}
	return nil
}

// MatchConditions reports whether every condition holds against the record.
// A missing field never matches.
func MatchConditions(conditions []RuleCondition, record map[string]interface{}) bool {
	for _, cond := range conditions {
		value, exists := record[cond.Field]
		if !exists {
			return false
		}

		match := false
		switch cond.Operator {
		case OperatorEquals:
			match = fmt.Sprintf("%v", value) == fmt.Sprintf("%v", cond.Value)
		case OperatorNotEquals:
			match = fmt.Sprintf("%v", value) != fmt.Sprintf("%v", cond.Value)
		case OperatorContains:
			match = strings.Contains(fmt.Sprintf("%v", value), fmt.Sprintf("%v", cond.Value))
		case OperatorGreaterThan:
			left, lok := toFloat(value)
			right, rok := toFloat(cond.Value)
			match = lok && rok && left > right
		case OperatorLessThan:
			left, lok := toFloat(value)
			right, rok := toFloat(cond.Value)
			match = lok && rok && left < right
		}

		if !match {
			return false
		}
	}
	return true
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func validateRule(rule *Rule) error {
	if rule.Name == "" {
		return fmt.Errorf("rule name is required")
	}
	if rule.EntityType != "contact" && rule.EntityType != "order" {
		return fmt.Errorf("entity_type must be contact or order")
	}
	if rule.TriggerEvent != "create" && rule.TriggerEvent != "update" {
		return fmt.Errorf("trigger_event must be create or update")
	}
	for _, action := range rule.Actions {
		switch action.Type {
		case ActionAddTag, ActionUpdateField, ActionWebhook, ActionRunScript:
		default:
			return fmt.Errorf("unsupported action type: %s", action.Type)
		}
	}
	return nil
}
