package repositories

import (
	"errors"
	"fmt"

	"market/internal/models"

	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// Create persists the order together with its lines and delivery. GORM
// wraps the insert and its associations in a single transaction, so the
// aggregate either lands completely or not at all.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// GetByID loads the full aggregate.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Lines").Preload("Delivery").First(&order, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, models.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	order.LoadedDeliveryStatus = order.Delivery.Status
	return &order, nil
}

// Save persists mutations made through the aggregate's methods: order
// status, discount fields and the owned delivery. The delivery write is
// conditional on the status observed when the aggregate was loaded, so a
// stale snapshot cannot overwrite a transition that committed in between;
// the loser gets a StateError carrying the status that won. Lines never
// change after creation, so they are not written here.
func (r *GORMOrderRepository) Save(order *models.Order) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Delivery{}).
			Where("id = ? AND status = ?", order.Delivery.ID, order.LoadedDeliveryStatus).
			Updates(map[string]interface{}{
				"status":         order.Delivery.Status,
				"address_city":   order.Delivery.Address.City,
				"address_street": order.Delivery.Address.Street,
				"address_zip":    order.Delivery.Address.Zip,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var current models.Delivery
			if err := tx.First(&current, "id = ?", order.Delivery.ID).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return models.ErrOrderNotFound
				}
				return err
			}
			return &models.StateError{Op: "save", Status: current.Status, Err: models.ErrModifiedConcurrently}
		}

		res = tx.Model(&models.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
			"status":          order.Status,
			"coupon_code":     order.CouponCode,
			"discount_amount": order.DiscountAmount,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrOrderNotFound
		}
		return nil
	})
	if err != nil {
		var stateErr *models.StateError
		if err == models.ErrOrderNotFound || errors.As(err, &stateErr) {
			return err
		}
		return fmt.Errorf("failed to save order %s: %w", order.ID, err)
	}
	order.LoadedDeliveryStatus = order.Delivery.Status
	return nil
}

// ListByMember returns one page of a member's orders with the total count.
func (r *GORMOrderRepository) ListByMember(memberID string, offset, limit int, ascending bool) ([]models.Order, int64, error) {
	var total int64
	if err := r.db.Model(&models.Order{}).Where("member_id = ?", memberID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders for member %s: %w", memberID, err)
	}

	direction := "DESC"
	if ascending {
		direction = "ASC"
	}

	var orders []models.Order
	err := r.db.Preload("Lines").Preload("Delivery").
		Where("member_id = ?", memberID).
		Order("ordered_at " + direction).
		Offset(offset).Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders for member %s: %w", memberID, err)
	}
	return orders, total, nil
}
