package repositories

import (
	"market/internal/models"
)

// OrderRepository defines the interface for order data access. Orders are
// persisted together with their lines and delivery as one unit; they are
// never deleted (append-only history).
type OrderRepository interface {
	// Create persists the order with its lines and delivery.
	Create(order *models.Order) error
	// GetByID loads the full aggregate: order, lines and delivery.
	GetByID(id string) (*models.Order, error)
	// Save persists status, discount and delivery changes of an existing
	// aggregate.
	Save(order *models.Order) error
	// ListByMember returns one page of a member's orders plus the total
	// count, ordered by order timestamp (descending unless ascending is set).
	ListByMember(memberID string, offset, limit int, ascending bool) ([]models.Order, int64, error)
}
