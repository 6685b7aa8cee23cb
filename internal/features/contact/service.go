package contact

import (
	"context"
	"fmt"
	"strings"
)

// AutomationTrigger decouples the contact service from the rule engine,
// which itself depends on the contact repository.
type AutomationTrigger interface {
	ExecuteFromTrigger(ctx context.Context, entityType string, record map[string]interface{}, triggerEvent string) error
}

type ContactService interface {
	CreateContact(ctx context.Context, contact *Contact) error
	GetContact(ctx context.Context, id string) (*Contact, error)
	ListContacts(ctx context.Context, filter ListFilter) ([]Contact, int64, error)
	UpdateContact(ctx context.Context, id string, updates map[string]interface{}) error
	DeleteContact(ctx context.Context, id string) error
}

type ContactServiceImpl struct {
	Repo       ContactRepository
	Automation AutomationTrigger
}

func NewContactService(repo ContactRepository, automation AutomationTrigger) ContactService {
	return &ContactServiceImpl{
		Repo:       repo,
		Automation: automation,
	}
}

func (s *ContactServiceImpl) CreateContact(ctx context.Context, contact *Contact) error {
	contact.Email = strings.ToLower(strings.TrimSpace(contact.Email))
	if contact.Email == "" {
		return fmt.Errorf("email is required")
	}
	if contact.Status == "" {
		contact.Status = "lead"
	}
	if err := s.Repo.Create(ctx, contact); err != nil {
		return err
	}

	s.fireTrigger(ctx, contact, "create")
	return nil
}

func (s *ContactServiceImpl) GetContact(ctx context.Context, id string) (*Contact, error) {
	return s.Repo.FindByID(ctx, id)
}

func (s *ContactServiceImpl) ListContacts(ctx context.Context, filter ListFilter) ([]Contact, int64, error) {
	return s.Repo.List(ctx, filter)
}

func (s *ContactServiceImpl) UpdateContact(ctx context.Context, id string, updates map[string]interface{}) error {
	delete(updates, "_id")
	delete(updates, "created_at")
	if err := s.Repo.Update(ctx, id, updates); err != nil {
		return err
	}

	if updated, err := s.Repo.FindByID(ctx, id); err == nil {
		s.fireTrigger(ctx, updated, "update")
	}
	return nil
}

func (s *ContactServiceImpl) DeleteContact(ctx context.Context, id string) error {
	return s.Repo.Delete(ctx, id)
}

// fireTrigger hands the mutated contact to the rule engine. Rule failures
// are the engine's problem, never the caller's.
func (s *ContactServiceImpl) fireTrigger(ctx context.Context, contact *Contact, event string) {
	if s.Automation == nil {
		return
	}
	_ = s.Automation.ExecuteFromTrigger(ctx, "contact", triggerPayload(contact), event)
}

func triggerPayload(c *Contact) map[string]interface{} {
	return map[string]interface{}{
		"_id":             c.ID.Hex(),
		"first_name":      c.FirstName,
		"last_name":       c.LastName,
		"email":           c.Email,
		"phone":           c.Phone,
		"country":         c.Country,
		"language":        c.Language,
		"status":          c.Status,
		"source":          c.Source,
		"tags":            c.Tags,
		"woocommerce_id":  c.WooCommerceID,
		"wc_total_spent":  c.WCTotalSpent,
		"wc_orders_count": c.WCOrdersCount,
	}
}
