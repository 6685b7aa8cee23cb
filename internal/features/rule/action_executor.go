package rule

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/d5/tengo/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"woocrm/internal/features/contact"
	"woocrm/internal/features/order"
)

// ActionExecutor runs the configured actions of a matched rule against the
// entity record that fired it.
type ActionExecutor interface {
	ExecuteActions(ctx context.Context, actions []RuleAction, entityType string, record map[string]interface{}) error
	ExecuteAction(ctx context.Context, action RuleAction, entityType string, record map[string]interface{}) error
}

type ActionExecutorImpl struct {
	contacts   contact.ContactRepository
	orders     order.OrderRepository
	httpClient *http.Client
	logger     *zap.Logger
}

func NewActionExecutor(contacts contact.ContactRepository, orders order.OrderRepository, logger *zap.Logger) ActionExecutor {
	return &ActionExecutorImpl{
		contacts:   contacts,
		orders:     orders,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// ExecuteActions runs every action, logging failures without stopping the
// rest.
func (e *ActionExecutorImpl) ExecuteActions(ctx context.Context, actions []RuleAction, entityType string, record map[string]interface{}) error {
	for i, action := range actions {
		if err := e.ExecuteAction(ctx, action, entityType, record); err != nil {
			e.logger.Error("rule action failed",
				zap.Int("action", i),
				zap.String("type", string(action.Type)),
				zap.Error(err))
		}
	}
	return nil
}

func (e *ActionExecutorImpl) ExecuteAction(ctx context.Context, action RuleAction, entityType string, record map[string]interface{}) error {
	switch action.Type {
	case ActionAddTag:
		return e.executeAddTag(ctx, action.Config, entityType, record)
	case ActionUpdateField:
		return e.executeUpdateField(ctx, action.Config, entityType, record)
	case ActionWebhook:
		return e.executeWebhook(ctx, action.Config, entityType, record)
	case ActionRunScript:
		return e.executeRunScript(action.Config, entityType, record)
	default:
		return fmt.Errorf("unsupported action type: %s", action.Type)
	}
}

func (e *ActionExecutorImpl) executeAddTag(ctx context.Context, config map[string]interface{}, entityType string, record map[string]interface{}) error {
	if entityType != "contact" {
		return fmt.Errorf("add_tag applies to contacts, not %s", entityType)
	}

	tag, _ := config["tag"].(string)
	if tag == "" {
		return fmt.Errorf("tag is required for add_tag action")
	}

	id, err := recordID(record)
	if err != nil {
		return err
	}
	return e.contacts.AddTag(ctx, id, tag)
}

func (e *ActionExecutorImpl) executeUpdateField(ctx context.Context, config map[string]interface{}, entityType string, record map[string]interface{}) error {
	field, _ := config["field"].(string)
	if field == "" {
		return fmt.Errorf("field name is required for update_field action")
	}
	value := config["value"]

	id, err := recordID(record)
	if err != nil {
		return err
	}

	switch entityType {
	case "contact":
		return e.contacts.Update(ctx, id, map[string]interface{}{field: value})
	case "order":
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return err
		}
		return e.orders.Update(ctx, oid, bson.M{field: value})
	default:
		return fmt.Errorf("update_field does not support entity type %s", entityType)
	}
}

func (e *ActionExecutorImpl) executeWebhook(ctx context.Context, config map[string]interface{}, entityType string, record map[string]interface{}) error {
	url, _ := config["url"].(string)
	if url == "" {
		return fmt.Errorf("webhook URL is required")
	}

	method, _ := config["method"].(string)
	if method == "" {
		method = http.MethodPost
	}

	payload, err := json.Marshal(map[string]interface{}{
		"entity":    entityType,
		"record":    record,
		"timestamp": time.Now().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if headers, ok := config["headers"].(map[string]interface{}); ok {
		for key, value := range headers {
			req.Header.Set(key, fmt.Sprintf("%v", value))
		}
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned error status: %d", resp.StatusCode)
	}

	e.logger.Info("webhook delivered",
		zap.String("url", url), zap.Int("status", resp.StatusCode))
	return nil
}

func (e *ActionExecutorImpl) executeRunScript(config map[string]interface{}, entityType string, record map[string]interface{}) error {
	scriptContent, _ := config["script"].(string)
	if scriptContent == "" {
		return fmt.Errorf("script content is required")
	}

	script := tengo.NewScript([]byte(scriptContent))
	if err := script.Add("entity", entityType); err != nil {
		return err
	}
	if err := script.Add("record", record); err != nil {
		return err
	}

	compiled, err := script.Compile()
	if err != nil {
		return fmt.Errorf("failed to compile script: %w", err)
	}
	if err := compiled.Run(); err != nil {
		return fmt.Errorf("failed to run script: %w", err)
	}

	e.logger.Info("executed rule script", zap.String("entity", entityType))
	return nil
}

func recordID(record map[string]interface{}) (string, error) {
	id, _ := record["_id"].(string)
	if id == "" {
		return "", fmt.Errorf("record ID not found")
	}
	return id, nil
}
