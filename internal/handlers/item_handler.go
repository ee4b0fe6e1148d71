package handlers

import (
	"fmt"
	"log"

	"market/internal/models"
	"market/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ItemHandler handles HTTP requests for items.
type ItemHandler struct {
	service  *services.ItemService
	validate *validator.Validate
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(service *services.ItemService) *ItemHandler {
	return &ItemHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the item routes with the Fiber app.
func (h *ItemHandler) RegisterRoutes(router fiber.Router) {
	itemRoutes := router.Group("/items")
	itemRoutes.Get("/", h.HandleGetItems)
	itemRoutes.Get("/:id", h.HandleGetItemByID)
	itemRoutes.Post("/", h.HandleCreateItem)
	itemRoutes.Put("/:id", h.HandleUpdateItem)
	itemRoutes.Delete("/:id", h.HandleDeleteItem)
}

// isAdmin reports whether the authenticated caller has the admin role.
func isAdmin(c *fiber.Ctx) bool {
	role, _ := c.Locals("role").(string)
	return role == models.RoleAdmin
}

// HandleGetItems retrieves all items.
func (h *ItemHandler) HandleGetItems(c *fiber.Ctx) error {
	items, err := h.service.GetAllItems()
	if err != nil {
		log.Printf("Error getting all items: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve items",
			"error":   err.Error(),
		})
	}
	return c.JSON(items)
}

// HandleGetItemByID retrieves a single item by its ID.
func (h *ItemHandler) HandleGetItemByID(c *fiber.Ctx) error {
	itemID := c.Params("id")
	item, err := h.service.GetItemByID(itemID)
	if err != nil {
		log.Printf("Error getting item by ID %s: %v", itemID, err)
		return respondDomainError(c, err, "Could not retrieve item")
	}
	return c.JSON(item)
}

// HandleCreateItem creates a new item listing. Admin only.
func (h *ItemHandler) HandleCreateItem(c *fiber.Ctx) error {
	if !isAdmin(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Admin role required",
		})
	}

	var item models.Item
	if err := c.BodyParser(&item); err != nil {
		log.Printf("Error parsing create item request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(item); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	if err := h.service.CreateItem(&item); err != nil {
		log.Printf("Error creating item: %v", err)
		return respondDomainError(c, err, "Could not create item")
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// HandleUpdateItem updates an existing item's listing fields. Admin only.
func (h *ItemHandler) HandleUpdateItem(c *fiber.Ctx) error {
	if !isAdmin(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Admin role required",
		})
	}

	var item models.Item
	if err := c.BodyParser(&item); err != nil {
		log.Printf("Error parsing update item request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(item); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}
	item.ID = c.Params("id")

	if err := h.service.UpdateItem(&item); err != nil {
		log.Printf("Error updating item %s: %v", item.ID, err)
		return respondDomainError(c, err, "Could not update item")
	}
	return c.JSON(item)
}

// HandleDeleteItem deletes an item by its ID. Admin only.
func (h *ItemHandler) HandleDeleteItem(c *fiber.Ctx) error {
	if !isAdmin(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Admin role required",
		})
	}

	itemID := c.Params("id")
	if err := h.service.DeleteItem(itemID); err != nil {
		log.Printf("Error deleting item %s: %v", itemID, err)
		return respondDomainError(c, err, "Could not delete item")
	}
	return c.JSON(fiber.Map{
		"message": "Item deleted successfully",
	})
}
