package order

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"woocrm/internal/common/models"
	"woocrm/internal/middleware"
)

type OrderController struct {
	service *OrderService
}

func NewOrderController(service *OrderService) *OrderController {
	return &OrderController{service: service}
}

// ListOrders godoc
// @Summary List orders
// @Tags orders
// @Produce json
// @Param contact_id query string false "Filter by contact"
// @Param status query string false "Filter by status"
// @Param payment_status query string false "Filter by payment status"
// @Param search query string false "Search in order number"
// @Success 200 {object} map[string]interface{}
// @Router /api/orders [get]
func (ctrl *OrderController) ListOrders(c *fiber.Ctx) error {
	page, _ := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit", "20"), 10, 64)

	filter := ListFilter{
		ContactID:     c.Query("contact_id"),
		Status:        c.Query("status"),
		PaymentStatus: c.Query("payment_status"),
		Search:        c.Query("search"),
		Page:          page,
		Limit:         limit,
	}

	orders, total, err := ctrl.service.ListOrders(c.Context(), filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch orders",
		})
	}

	return c.JSON(fiber.Map{
		"data":       orders,
		"pagination": models.NewPagination(filter.Page, filter.Limit, total),
	})
}

// GetOrder godoc
// @Summary Get an order with contact and items
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} OrderDetails
// @Router /api/orders/{id} [get]
func (ctrl *OrderController) GetOrder(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid order ID",
		})
	}

	details, err := ctrl.service.GetOrder(c.Context(), id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Order not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch order",
		})
	}

	return c.JSON(details)
}

// CreateOrder godoc
// @Summary Create an order with items
// @Tags orders
// @Accept json
// @Produce json
// @Param order body CreateOrderRequest true "Order payload"
// @Success 201 {object} OrderDetails
// @Router /api/orders [post]
func (ctrl *OrderController) CreateOrder(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	var createdBy string
	if claims := middleware.CurrentClaims(c); claims != nil {
		createdBy = claims.UserID
	}

	details, err := ctrl.service.CreateOrder(c.Context(), req, createdBy)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(details)
}

// UpdateOrder godoc
// @Summary Update an order
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} OrderDetails
// @Router /api/orders/{id} [put]
func (ctrl *OrderController) UpdateOrder(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid order ID",
		})
	}

	var updates bson.M
	if err := c.BodyParser(&updates); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	details, err := ctrl.service.UpdateOrder(c.Context(), id, updates)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Order not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update order",
		})
	}

	return c.JSON(details)
}

// DeleteOrder godoc
// @Summary Delete an order and its items
// @Tags orders
// @Param id path string true "Order ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/orders/{id} [delete]
func (ctrl *OrderController) DeleteOrder(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid order ID",
		})
	}

	if err := ctrl.service.DeleteOrder(c.Context(), id); err != nil {
		if err == mongo.ErrNoDocuments {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Order not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete order",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Order deleted successfully",
	})
}
