package repositories

import (
	"fmt"

	"market/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMItemRepository is a GORM implementation of ItemRepository.
type GORMItemRepository struct {
	db *gorm.DB
}

// NewGORMItemRepository creates a new instance of GORMItemRepository.
func NewGORMItemRepository(db *gorm.DB) *GORMItemRepository {
	return &GORMItemRepository{
		db: db,
	}
}

// GetAll retrieves all items from the database.
func (r *GORMItemRepository) GetAll() ([]models.Item, error) {
	var items []models.Item
	if err := r.db.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to get all items: %w", err)
	}
	return items, nil
}

// GetByID retrieves a single item by its ID from the database.
func (r *GORMItemRepository) GetByID(id string) (*models.Item, error) {
	var item models.Item
	if err := r.db.First(&item, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, models.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get item by ID %s: %w", id, err)
	}
	return &item, nil
}

// Create creates a new item in the database.
func (r *GORMItemRepository) Create(item *models.Item) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if err := r.db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}
	return nil
}

// Update updates an existing item in the database. Stock is deliberately
// excluded: it only moves through ReserveStock and ReleaseStock.
func (r *GORMItemRepository) Update(item *models.Item) error {
	res := r.db.Model(item).Omit("stock").Updates(map[string]interface{}{
		"name":        item.Name,
		"description": item.Description,
		"price":       item.Price,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrItemNotFound
	}
	return nil
}

// Delete deletes an item by its ID from the database.
func (r *GORMItemRepository) Delete(id string) error {
	res := r.db.Delete(&models.Item{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrItemNotFound
	}
	return nil
}

// ReserveStock decrements the item's stock by quantity iff enough stock is
// available. The check and the decrement are one conditional UPDATE, so two
// concurrent buyers of the last unit can never both succeed: the database
// serializes the row update and the loser matches zero rows.
func (r *GORMItemRepository) ReserveStock(id string, quantity int) error {
	res := r.db.Model(&models.Item{}).
		Where("id = ? AND stock >= ?", id, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return fmt.Errorf("failed to reserve stock for item %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		// Zero rows means either the item does not exist or its stock is
		// below the requested quantity. Tell them apart for the caller.
		var count int64
		if err := r.db.Model(&models.Item{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check item %s: %w", id, err)
		}
		if count == 0 {
			return models.ErrItemNotFound
		}
		return models.ErrOutOfStock
	}
	return nil
}

// ReleaseStock returns quantity units to the item's stock as a single
// unconditional increment.
func (r *GORMItemRepository) ReleaseStock(id string, quantity int) error {
	res := r.db.Model(&models.Item{}).
		Where("id = ?", id).
		UpdateColumn("stock", gorm.Expr("stock + ?", quantity))
	if res.Error != nil {
		return fmt.Errorf("failed to release stock for item %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrItemNotFound
	}
	return nil
}
