package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"market/internal/models"
	"market/internal/repositories"
)

// EventPublisher publishes order lifecycle events to the message broker.
// *rabbitmq.Client satisfies it; tests substitute a mock.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// CreateOrderRequest holds the input for placing an order.
type CreateOrderRequest struct {
	MemberID   string
	ItemID     string
	Quantity   int
	Address    models.Address
	CouponCode string
}

// OrderService orchestrates the order aggregate against the stock ledger
// and the coupon catalog, enforces ownership, and owns the persistence
// boundaries of order creation and cancellation.
type OrderService struct {
	orderRepo  repositories.OrderRepository
	itemRepo   repositories.ItemRepository
	memberRepo repositories.MemberRepository
	couponRepo repositories.CouponRepository
	publisher  EventPublisher
	now        func() time.Time
}

// NewOrderService creates a new OrderService. publisher may be nil; events
// are then skipped.
func NewOrderService(
	orderRepo repositories.OrderRepository,
	itemRepo repositories.ItemRepository,
	memberRepo repositories.MemberRepository,
	couponRepo repositories.CouponRepository,
	publisher EventPublisher,
) *OrderService {
	return &OrderService{
		orderRepo:  orderRepo,
		itemRepo:   itemRepo,
		memberRepo: memberRepo,
		couponRepo: couponRepo,
		publisher:  publisher,
		now:        time.Now,
	}
}

// CreateOrder places an order for one item. It validates the request,
// resolves the coupon (an ineligible coupon fails the whole call rather
// than silently dropping the discount), reserves stock atomically, and
// persists the aggregate. If persistence fails after the reservation, the
// reservation is released again, so the call leaves either a complete
// order or no trace at all.
func (s *OrderService) CreateOrder(req CreateOrderRequest) (*OrderView, error) {
	if req.Quantity < 1 {
		return nil, &models.ValidationError{Field: "quantity", Reason: "must be at least 1"}
	}
	if req.Address.Blank() {
		return nil, &models.ValidationError{Field: "address", Reason: "city, street and zip are required"}
	}

	member, err := s.memberRepo.GetByID(req.MemberID)
	if err != nil {
		return nil, err
	}

	item, err := s.itemRepo.GetByID(req.ItemID)
	if err != nil {
		return nil, err
	}

	lines := []models.OrderLine{{
		ItemID:    item.ID,
		ItemName:  item.Name,
		UnitPrice: item.Price, // Price snapshot at order time
		Quantity:  req.Quantity,
	}}

	order, err := models.NewOrder(member.ID, req.Address, lines)
	if err != nil {
		return nil, err
	}

	// Resolve the coupon before reserving stock so an ineligible coupon
	// never needs a compensating release.
	if req.CouponCode != "" {
		coupon, err := s.couponRepo.FindByCode(req.CouponCode)
		if err != nil {
			return nil, err
		}
		if err := coupon.Eligible(s.now(), order.TotalBeforeDiscount()); err != nil {
			return nil, err
		}
		order.ApplyCoupon(coupon)
	}

	if err := s.itemRepo.ReserveStock(item.ID, req.Quantity); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Create(order); err != nil {
		// Compensate the reservation; the order was never persisted.
		if relErr := s.itemRepo.ReleaseStock(item.ID, req.Quantity); relErr != nil {
			log.Printf("Failed to release reserved stock for item %s after create failure: %v", item.ID, relErr)
		}
		return nil, fmt.Errorf("failed to create order in repository: %w", err)
	}

	s.publishEvent("order.created", order)

	view := newOrderView(order, member.Username)
	return &view, nil
}

// GetOrder returns one order. Only the owning member may read it.
func (s *OrderService) GetOrder(orderID, callerID string) (*OrderView, error) {
	order, err := s.loadOwned(orderID, callerID)
	if err != nil {
		return nil, err
	}
	view := newOrderView(order, s.memberName(order.MemberID))
	return &view, nil
}

// ListOrdersByMember returns one page of the member's orders, newest first
// unless sort is "oldest".
func (s *OrderService) ListOrdersByMember(memberID string, page, pageSize int, sort string) (*OrderPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	ascending := sort == "oldest"

	orders, total, err := s.orderRepo.ListByMember(memberID, (page-1)*pageSize, pageSize, ascending)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for member %s: %w", memberID, err)
	}

	name := s.memberName(memberID)
	views := make([]OrderView, 0, len(orders))
	for i := range orders {
		views = append(views, newOrderView(&orders[i], name))
	}
	return &OrderPage{
		Orders:   views,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// CancelOrder cancels an order owned by the caller. The aggregate enforces
// the delivery state guard and returns every line's reserved quantity to
// the stock ledger; the CANCELED status is persisted only after all
// releases succeeded, as the last step.
func (s *OrderService) CancelOrder(orderID, callerID string) error {
	order, err := s.loadOwned(orderID, callerID)
	if err != nil {
		return err
	}

	// An item delisted after the order was placed has no stock row left to
	// return units to; the cancellation still goes through.
	release := func(itemID string, quantity int) error {
		err := s.itemRepo.ReleaseStock(itemID, quantity)
		if errors.Is(err, models.ErrItemNotFound) {
			log.Printf("Item %s no longer exists, skipping stock release for order %s", itemID, orderID)
			return nil
		}
		return err
	}

	if err := order.Cancel(release); err != nil {
		return err
	}

	if err := s.orderRepo.Save(order); err != nil {
		var stateErr *models.StateError
		if errors.As(err, &stateErr) {
			// The delivery moved while we were cancelling; the transition
			// that committed first wins. Take the released units back.
			for _, l := range order.Lines {
				if resErr := s.itemRepo.ReserveStock(l.ItemID, l.Quantity); resErr != nil {
					log.Printf("Failed to re-reserve stock for item %s after cancel conflict on order %s: %v", l.ItemID, orderID, resErr)
				}
			}
			return err
		}
		return fmt.Errorf("failed to persist cancellation of order %s: %w", orderID, err)
	}

	s.publishEvent("order.cancelled", order)
	return nil
}

// UpdateDeliveryAddress changes the shipping address of an order owned by
// the caller, as long as the delivery has not shipped.
func (s *OrderService) UpdateDeliveryAddress(orderID, callerID string, addr models.Address) (*OrderView, error) {
	order, err := s.loadOwned(orderID, callerID)
	if err != nil {
		return nil, err
	}

	if err := order.ChangeDeliveryAddress(addr); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(order); err != nil {
		return nil, fmt.Errorf("failed to persist address update of order %s: %w", orderID, err)
	}

	view := newOrderView(order, s.memberName(order.MemberID))
	return &view, nil
}

// UpdateDeliveryStatus drives the forward delivery transitions
// (CONFIRMED, SHIPPED, DELIVERED) on behalf of the fulfillment process.
func (s *OrderService) UpdateDeliveryStatus(orderID string, status models.DeliveryStatus) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}

	switch status {
	case models.DeliveryConfirmed:
		err = order.Delivery.Confirm()
	case models.DeliveryShipped:
		err = order.Delivery.Ship()
	case models.DeliveryDelivered:
		err = order.Delivery.Complete()
	default:
		return &models.ValidationError{Field: "status", Reason: fmt.Sprintf("unknown delivery status %q", status)}
	}
	if err != nil {
		return err
	}

	if err := s.orderRepo.Save(order); err != nil {
		return fmt.Errorf("failed to persist delivery status of order %s: %w", orderID, err)
	}
	return nil
}

// loadOwned loads an order and verifies the caller owns it.
func (s *OrderService) loadOwned(orderID, callerID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.MemberID != callerID {
		return nil, models.ErrNotOwner
	}
	return order, nil
}

// memberName resolves a member's display name for views; lookup failures
// degrade to an empty name rather than failing the read.
func (s *OrderService) memberName(memberID string) string {
	member, err := s.memberRepo.GetByID(memberID)
	if err != nil {
		return ""
	}
	return member.Username
}

// publishEvent publishes an order lifecycle event, logging and continuing
// on failure. Event delivery is best effort and never fails the operation.
func (s *OrderService) publishEvent(routingKey string, order *models.Order) {
	if s.publisher == nil {
		log.Println("Event publisher is not initialized. Skipping message publication.")
		return
	}

	body, err := json.Marshal(map[string]interface{}{
		"orderID":  order.ID,
		"memberID": order.MemberID,
		"status":   order.Status,
		"total":    order.TotalPrice(),
	})
	if err != nil {
		log.Printf("Failed to marshal order event: %v", err)
		return
	}
	if err := s.publisher.Publish(routingKey, body); err != nil {
		log.Printf("Warning: Failed to publish %s event for order %s: %v", routingKey, order.ID, err)
	} else {
		log.Printf("Successfully published %s event for order %s", routingKey, order.ID)
	}
}

// IsNotFound reports whether err is any of the engine's not-found errors.
func IsNotFound(err error) bool {
	return errors.Is(err, models.ErrOrderNotFound) ||
		errors.Is(err, models.ErrItemNotFound) ||
		errors.Is(err, models.ErrMemberNotFound) ||
		errors.Is(err, models.ErrCouponNotFound)
}
