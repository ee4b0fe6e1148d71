package repositories

import (
	"market/internal/models"
)

// ItemRepository defines the interface for item data access, including the
// stock ledger operations consumed by the order engine.
//
// ReserveStock and ReleaseStock are the only ways stock is mutated.
// Implementations must perform each as a single atomic operation: a
// reservation either decrements stock when enough is available, failing
// with models.ErrOutOfStock otherwise with no side effect, even under
// concurrent callers targeting the same item.
type ItemRepository interface {
	GetAll() ([]models.Item, error)
	GetByID(id string) (*models.Item, error)
	Create(item *models.Item) error
	Update(item *models.Item) error
	Delete(id string) error
	ReserveStock(id string, quantity int) error
	ReleaseStock(id string, quantity int) error
}
