package order

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"woocrm/internal/features/contact"
	"woocrm/internal/features/course"
	"woocrm/internal/features/product"
)

// AutomationTrigger is satisfied by the rule engine; an interface here
// breaks the order→rule→order import cycle.
type AutomationTrigger interface {
	ExecuteFromTrigger(ctx context.Context, entityType string, record map[string]interface{}, triggerEvent string) error
}

type OrderService struct {
	repo       OrderRepository
	items      OrderItemRepository
	contacts   contact.ContactRepository
	products   product.ProductRepository
	courses    *course.CourseService
	automation AutomationTrigger
	logger     *zap.Logger
}

func NewOrderService(
	repo OrderRepository,
	items OrderItemRepository,
	contacts contact.ContactRepository,
	products product.ProductRepository,
	courses *course.CourseService,
	automation AutomationTrigger,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		repo:       repo,
		items:      items,
		contacts:   contacts,
		products:   products,
		courses:    courses,
		automation: automation,
		logger:     logger,
	}
}

func generateOrderNumber() string {
	buf := make([]byte, 4)
	rand.Read(buf)
	return fmt.Sprintf("ORD-%s-%s", time.Now().Format("20060102"), strings.ToUpper(hex.EncodeToString(buf)))
}

func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest, createdBy string) (*OrderDetails, error) {
	if len(req.Items) == 0 {
		return nil, errors.New("order must contain at least one item")
	}

	status := req.Status
	if status == "" {
		status = "pending"
	}
	paymentStatus := req.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = "pending"
	}

	var total float64
	for _, item := range req.Items {
		total += item.TotalPrice
	}

	ord := &Order{
		OrderNumber:   generateOrderNumber(),
		ContactID:     req.ContactID,
		Status:        status,
		PaymentStatus: paymentStatus,
		PaymentMethod: req.PaymentMethod,
		TotalAmount:   total,
		Notes:         req.Notes,
		Source:        "manual",
		CreatedBy:     createdBy,
	}

	id, err := s.repo.Create(ctx, ord)
	if err != nil {
		return nil, err
	}
	ord.ID = id

	items := make([]OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, OrderItem{
			OrderID:     id.Hex(),
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
		})
	}
	if err := s.items.InsertMany(ctx, items); err != nil {
		return nil, err
	}

	if req.ContactID != "" {
		s.ProcessCourseAssociations(ctx, id.Hex(), req.ContactID)
	}

	s.fireTrigger(ctx, ord, "create")

	s.logger.Info("Order created",
		zap.String("order_id", id.Hex()),
		zap.String("order_number", ord.OrderNumber))
	return s.GetOrder(ctx, id)
}

func (s *OrderService) GetOrder(ctx context.Context, id primitive.ObjectID) (*OrderDetails, error) {
	ord, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	details := &OrderDetails{Order: *ord}

	if ord.ContactID != "" {
		if c, err := s.contacts.FindByID(ctx, ord.ContactID); err == nil {
			details.Contact = c
		}
	}

	items, err := s.items.FindByOrder(ctx, id.Hex())
	if err != nil {
		return nil, err
	}
	details.Items = items

	return details, nil
}

func (s *OrderService) ListOrders(ctx context.Context, filter ListFilter) ([]Order, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}
	return s.repo.List(ctx, filter)
}

func (s *OrderService) UpdateOrder(ctx context.Context, id primitive.ObjectID, updates bson.M) (*OrderDetails, error) {
	delete(updates, "_id")
	delete(updates, "created_at")
	delete(updates, "order_number")

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, err
	}

	if updated, err := s.repo.FindByID(ctx, id); err == nil {
		s.fireTrigger(ctx, updated, "update")
	}
	return s.GetOrder(ctx, id)
}

// fireTrigger offers the mutated order to the rule engine, which decides
// whether any automation applies.
func (s *OrderService) fireTrigger(ctx context.Context, ord *Order, event string) {
	if s.automation == nil {
		return
	}
	payload := map[string]interface{}{
		"_id":            ord.ID.Hex(),
		"order_number":   ord.OrderNumber,
		"contact_id":     ord.ContactID,
		"status":         ord.Status,
		"payment_status": ord.PaymentStatus,
		"total_amount":   ord.TotalAmount,
		"source":         ord.Source,
		"language":       ord.Language,
		"woocommerce_id": ord.WooCommerceID,
	}
	_ = s.automation.ExecuteFromTrigger(ctx, "order", payload, event)
}

func (s *OrderService) DeleteOrder(ctx context.Context, id primitive.ObjectID) error {
	if err := s.items.DeleteByOrder(ctx, id.Hex()); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// ProcessCourseAssociations enrolls the order's contact in courses matching
// the purchased items, both by item name and by product category.
func (s *OrderService) ProcessCourseAssociations(ctx context.Context, orderID, contactID string) {
	items, err := s.items.FindByOrder(ctx, orderID)
	if err != nil {
		s.logger.Error("Failed to load order items for course association",
			zap.String("order_id", orderID), zap.Error(err))
		return
	}

	for _, item := range items {
		name := strings.ToLower(item.ProductName)

		if strings.Contains(name, "corso") || strings.Contains(name, "course") {
			title := strings.Replace(name, "corso ", "", 1)
			if err := s.courses.EnrollFromPurchase(ctx, contactID, title, "corso"); err != nil {
				s.logger.Warn("Course enrollment from order item failed",
					zap.String("order_id", orderID),
					zap.String("product_name", item.ProductName),
					zap.Error(err))
			}
		}

		if item.ProductID == "" {
			continue
		}
		productID, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			continue
		}
		p, err := s.products.FindByID(ctx, productID)
		if err != nil || p.Category != "corso" {
			continue
		}
		if err := s.courses.EnrollFromPurchase(ctx, contactID, p.Name, p.Category); err != nil {
			s.logger.Warn("Course enrollment from product category failed",
				zap.String("order_id", orderID),
				zap.String("product_id", item.ProductID),
				zap.Error(err))
		}
	}
}
