package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order. CANCELED is terminal.
type OrderStatus string

const (
	OrderOrdered  OrderStatus = "ORDERED"
	OrderCanceled OrderStatus = "CANCELED"
)

// OrderLine is one item/quantity entry within an order. UnitPrice and
// ItemName are snapshots taken at order time, not live item values.
type OrderLine struct {
	ID        string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string          `json:"order_id" gorm:"index;type:varchar(36)"`
	ItemID    string          `json:"item_id" gorm:"type:varchar(36)"`
	ItemName  string          `json:"item_name" gorm:"type:varchar(100)"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"type:decimal(20,2)"`
	Quantity  int             `json:"quantity"`
}

// Total returns unit price times quantity.
func (l OrderLine) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Order is the aggregate root of the order engine. It owns its lines and
// its delivery, holds the member and items only by id, and is the single
// consistency boundary for cancellation and discount computation.
//
// Every line's quantity is reserved from its item when the order is
// created and released exactly once, on cancellation, or never. The sale
// is final on normal completion.
type Order struct {
	ID             string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	MemberID       string          `json:"member_id" gorm:"index;type:varchar(36)"`
	Lines          []OrderLine     `json:"lines" gorm:"foreignKey:OrderID"`
	Delivery       Delivery        `json:"delivery" gorm:"foreignKey:OrderID"`
	Status         OrderStatus     `json:"status" gorm:"type:varchar(20)"`
	CouponCode     string          `json:"coupon_code,omitempty" gorm:"type:varchar(50)"`
	DiscountAmount decimal.Decimal `json:"discount_amount" gorm:"type:decimal(20,2)"`
	OrderedAt      time.Time       `json:"ordered_at" gorm:"index"`
	UpdatedAt      time.Time       `json:"updated_at"`

	// LoadedDeliveryStatus is the delivery status observed when the
	// aggregate was loaded from storage. Repositories use it as an
	// optimistic guard in Save: a snapshot that raced a concurrent
	// transition cannot overwrite it.
	LoadedDeliveryStatus DeliveryStatus `json:"-" gorm:"-"`
}

// NewOrder builds an order for the given member with its delivery in the
// PLACED state. At least one line with a positive quantity is required.
// Stock reservation is the caller's responsibility and must have succeeded
// before the order is persisted.
func NewOrder(memberID string, addr Address, lines []OrderLine) (*Order, error) {
	if len(lines) == 0 {
		return nil, &ValidationError{Field: "lines", Reason: "at least one order line is required"}
	}
	for _, l := range lines {
		if l.Quantity < 1 {
			return nil, &ValidationError{Field: "quantity", Reason: "must be at least 1"}
		}
	}
	if addr.Blank() {
		return nil, &ValidationError{Field: "address", Reason: "city, street and zip are required"}
	}

	orderID := uuid.New().String()
	for i := range lines {
		if lines[i].ID == "" {
			lines[i].ID = uuid.New().String()
		}
		lines[i].OrderID = orderID
	}

	return &Order{
		ID:       orderID,
		MemberID: memberID,
		Lines:    lines,
		Delivery: Delivery{
			ID:      uuid.New().String(),
			OrderID: orderID,
			Address: addr,
			Status:  DeliveryPlaced,
		},
		Status:               OrderOrdered,
		DiscountAmount:       decimal.Zero,
		OrderedAt:            time.Now(),
		LoadedDeliveryStatus: DeliveryPlaced,
	}, nil
}

// TotalBeforeDiscount is the sum of all line totals.
func (o *Order) TotalBeforeDiscount() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.Lines {
		total = total.Add(l.Total())
	}
	return total
}

// TotalPrice is the amount payable: total before discount minus the
// discount amount. It is recomputed from the lines on every call rather
// than cached, so it can never go stale.
func (o *Order) TotalPrice() decimal.Decimal {
	return o.TotalBeforeDiscount().Sub(o.DiscountAmount)
}

// ApplyCoupon records the coupon on the order and computes the discount it
// grants. Eligibility (validity window, minimum purchase) is checked by the
// order service before this is called.
func (o *Order) ApplyCoupon(c *Coupon) {
	o.CouponCode = c.Code
	o.DiscountAmount = c.DiscountFor(o.TotalBeforeDiscount())
}

// Cancel cancels the order if its delivery state still permits it. Each
// line's reserved quantity is returned through the release callback before
// any status changes; a release failure aborts the cancellation with the
// aggregate untouched, so the whole call is all-or-nothing.
func (o *Order) Cancel(release func(itemID string, quantity int) error) error {
	if !o.Delivery.Status.Mutable() {
		return &StateError{Op: "cancel", Status: o.Delivery.Status, Err: ErrCancellationNotAllowed}
	}
	for _, l := range o.Lines {
		if err := release(l.ItemID, l.Quantity); err != nil {
			return fmt.Errorf("release stock for item %s: %w", l.ItemID, err)
		}
	}
	o.Delivery.Status = DeliveryCanceled
	o.Status = OrderCanceled
	return nil
}

// ChangeDeliveryAddress delegates to the delivery's own state guard.
func (o *Order) ChangeDeliveryAddress(addr Address) error {
	if addr.Blank() {
		return &ValidationError{Field: "address", Reason: "city, street and zip are required"}
	}
	return o.Delivery.ChangeAddress(addr)
}
