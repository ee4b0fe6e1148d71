package repositories

import (
	"sync"

	"market/internal/models"

	"github.com/google/uuid"
)

// MockItemRepository is an in-memory implementation of ItemRepository.
// Reservations hold the write lock across the check and the decrement, so
// it honors the same atomicity contract as the GORM implementation.
type MockItemRepository struct {
	items map[string]models.Item
	mu    sync.RWMutex
}

// NewMockItemRepository creates a new instance of MockItemRepository.
func NewMockItemRepository() *MockItemRepository {
	return &MockItemRepository{
		items: make(map[string]models.Item),
	}
}

// GetAll returns all items.
func (r *MockItemRepository) GetAll() ([]models.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	itemList := make([]models.Item, 0, len(r.items))
	for _, it := range r.items {
		itemList = append(itemList, it)
	}
	return itemList, nil
}

// GetByID returns an item by its ID.
func (r *MockItemRepository) GetByID(id string) (*models.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, models.ErrItemNotFound
	}
	return &item, nil
}

// Create adds a new item.
func (r *MockItemRepository) Create(item *models.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	r.items[item.ID] = *item
	return nil
}

// Update modifies an existing item. Stock is left untouched; it only moves
// through ReserveStock and ReleaseStock.
func (r *MockItemRepository) Update(item *models.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[item.ID]
	if !ok {
		return models.ErrItemNotFound
	}
	existing.Name = item.Name
	existing.Description = item.Description
	existing.Price = item.Price
	r.items[item.ID] = existing
	return nil
}

// Delete removes an item by its ID.
func (r *MockItemRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.items[id]
	if !ok {
		return models.ErrItemNotFound
	}
	delete(r.items, id)
	return nil
}

// ReserveStock decrements stock by quantity iff enough is available.
func (r *MockItemRepository) ReserveStock(id string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return models.ErrItemNotFound
	}
	if item.Stock < quantity {
		return models.ErrOutOfStock
	}
	item.Stock -= quantity
	r.items[id] = item
	return nil
}

// ReleaseStock returns quantity units to the item's stock.
func (r *MockItemRepository) ReleaseStock(id string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return models.ErrItemNotFound
	}
	item.Stock += quantity
	r.items[id] = item
	return nil
}
