package handlers

import (
	"log"

	"market/internal/models"
	"market/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleListOrders)
	orderRoutes.Get("/:id", h.HandleGetOrder)
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Post("/:id/cancel", h.HandleCancelOrder)
	orderRoutes.Patch("/:id/address", h.HandleUpdateDeliveryAddress)
	// Fulfillment drives the forward delivery transitions through here.
	orderRoutes.Patch("/:id/delivery-status", h.HandleUpdateDeliveryStatus)
}

// callerID returns the authenticated member id stored by the JWT middleware.
func callerID(c *fiber.Ctx) string {
	id, _ := c.Locals("member_id").(string)
	return id
}

// CreateOrderBody represents the request body for placing an order.
type CreateOrderBody struct {
	ItemID     string         `json:"item_id"`
	Quantity   int            `json:"quantity"`
	Address    models.Address `json:"address"`
	CouponCode string         `json:"coupon_code"`
}

// HandleCreateOrder places a new order for the authenticated member.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var body CreateOrderBody
	if err := c.BodyParser(&body); err != nil {
		log.Printf("Error parsing create order request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	view, err := h.service.CreateOrder(services.CreateOrderRequest{
		MemberID:   callerID(c),
		ItemID:     body.ItemID,
		Quantity:   body.Quantity,
		Address:    body.Address,
		CouponCode: body.CouponCode,
	})
	if err != nil {
		log.Printf("Error creating order: %v", err)
		return respondDomainError(c, err, "Could not create order")
	}

	return c.Status(fiber.StatusCreated).JSON(view)
}

// HandleListOrders returns one page of the authenticated member's orders.
func (h *OrderHandler) HandleListOrders(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 20)
	sort := c.Query("sort")

	result, err := h.service.ListOrdersByMember(callerID(c), page, pageSize, sort)
	if err != nil {
		log.Printf("Error listing orders: %v", err)
		return respondDomainError(c, err, "Could not retrieve orders")
	}
	return c.JSON(result)
}

// HandleGetOrder retrieves a single order owned by the authenticated member.
func (h *OrderHandler) HandleGetOrder(c *fiber.Ctx) error {
	orderID := c.Params("id")
	view, err := h.service.GetOrder(orderID, callerID(c))
	if err != nil {
		log.Printf("Error getting order %s: %v", orderID, err)
		return respondDomainError(c, err, "Could not retrieve order")
	}
	return c.JSON(view)
}

// HandleCancelOrder cancels an order owned by the authenticated member.
func (h *OrderHandler) HandleCancelOrder(c *fiber.Ctx) error {
	orderID := c.Params("id")
	if err := h.service.CancelOrder(orderID, callerID(c)); err != nil {
		log.Printf("Error cancelling order %s: %v", orderID, err)
		return respondDomainError(c, err, "Could not cancel order")
	}
	return c.JSON(fiber.Map{
		"message": "Order cancelled successfully",
	})
}

// HandleUpdateDeliveryAddress replaces the shipping address of an order
// owned by the authenticated member.
func (h *OrderHandler) HandleUpdateDeliveryAddress(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var addr models.Address
	if err := c.BodyParser(&addr); err != nil {
		log.Printf("Error parsing address update request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	view, err := h.service.UpdateDeliveryAddress(orderID, callerID(c), addr)
	if err != nil {
		log.Printf("Error updating delivery address for order %s: %v", orderID, err)
		return respondDomainError(c, err, "Could not update delivery address")
	}
	return c.JSON(view)
}

// HandleUpdateDeliveryStatus advances the delivery through its forward
// transitions. Restricted to admins.
func (h *OrderHandler) HandleUpdateDeliveryStatus(c *fiber.Ctx) error {
	if role, _ := c.Locals("role").(string); role != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Admin role required",
		})
	}

	orderID := c.Params("id")
	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		log.Printf("Error parsing delivery status request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.service.UpdateDeliveryStatus(orderID, models.DeliveryStatus(body.Status)); err != nil {
		log.Printf("Error updating delivery status for order %s: %v", orderID, err)
		return respondDomainError(c, err, "Could not update delivery status")
	}
	return c.JSON(fiber.Map{
		"message": "Delivery status updated successfully",
	})
}
