package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Item represents a sellable item in the marketplace.
//
// Stock is never written directly by business code: it is decremented only
// through ItemRepository.ReserveStock and incremented only through
// ItemRepository.ReleaseStock, both of which are single atomic operations.
type Item struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string          `json:"name" validate:"required,min=3,max=100"`
	Description string          `json:"description" validate:"omitempty,max=500"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(20,2)" validate:"required"`
	Stock       int             `json:"stock" validate:"gte=0"`
	gorm.Model                  // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
