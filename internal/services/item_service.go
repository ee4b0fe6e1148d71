package services

import (
	"market/internal/models"
	"market/internal/repositories"
)

// ItemService handles business logic related to items.
type ItemService struct {
	repo repositories.ItemRepository
}

// NewItemService creates a new ItemService.
func NewItemService(repo repositories.ItemRepository) *ItemService {
	return &ItemService{
		repo: repo,
	}
}

// GetAllItems retrieves all items.
func (s *ItemService) GetAllItems() ([]models.Item, error) {
	return s.repo.GetAll()
}

// GetItemByID retrieves a single item by its ID.
func (s *ItemService) GetItemByID(id string) (*models.Item, error) {
	return s.repo.GetByID(id)
}

// CreateItem creates a new item.
func (s *ItemService) CreateItem(item *models.Item) error {
	if item.Stock < 0 {
		return &models.ValidationError{Field: "stock", Reason: "must not be negative"}
	}
	if item.Price.IsNegative() || item.Price.IsZero() {
		return &models.ValidationError{Field: "price", Reason: "must be positive"}
	}
	return s.repo.Create(item)
}

// UpdateItem updates an existing item's listing fields. Stock is not
// touched here; it moves only through reservations and releases.
func (s *ItemService) UpdateItem(item *models.Item) error {
	if item.Price.IsNegative() || item.Price.IsZero() {
		return &models.ValidationError{Field: "price", Reason: "must be positive"}
	}
	return s.repo.Update(item)
}

// DeleteItem deletes an item by its ID.
func (s *ItemService) DeleteItem(id string) error {
	return s.repo.Delete(id)
}
