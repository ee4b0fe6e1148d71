package repositories

import (
	"sort"
	"sync"
	"time"

	"market/internal/models"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
type MockOrderRepository struct {
	orders map[string]models.Order
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
	}
}

// Create adds a new order aggregate.
func (r *MockOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order.UpdatedAt = time.Now()
	r.orders[order.ID] = *order
	return nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, models.ErrOrderNotFound
	}
	order.LoadedDeliveryStatus = order.Delivery.Status
	return &order, nil
}

// Save replaces the stored aggregate. Like the GORM implementation, the
// write is rejected when the stored delivery status no longer matches the
// one observed at load time.
func (r *MockOrderRepository) Save(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.orders[order.ID]
	if !ok {
		return models.ErrOrderNotFound
	}
	if stored.Delivery.Status != order.LoadedDeliveryStatus {
		return &models.StateError{Op: "save", Status: stored.Delivery.Status, Err: models.ErrModifiedConcurrently}
	}
	order.UpdatedAt = time.Now()
	order.LoadedDeliveryStatus = order.Delivery.Status
	r.orders[order.ID] = *order
	return nil
}

// ListByMember returns one page of a member's orders sorted by order
// timestamp, plus the total count.
func (r *MockOrderRepository) ListByMember(memberID string, offset, limit int, ascending bool) ([]models.Order, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []models.Order
	for _, order := range r.orders {
		if order.MemberID == memberID {
			all = append(all, order)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if ascending {
			return all[i].OrderedAt.Before(all[j].OrderedAt)
		}
		return all[i].OrderedAt.After(all[j].OrderedAt)
	})

	total := int64(len(all))
	if offset >= len(all) {
		return []models.Order{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}
