package models

// DeliveryStatus is the shipment state of one order's delivery.
type DeliveryStatus string

const (
	DeliveryPlaced    DeliveryStatus = "PLACED"
	DeliveryConfirmed DeliveryStatus = "CONFIRMED"
	DeliveryShipped   DeliveryStatus = "SHIPPED"
	DeliveryDelivered DeliveryStatus = "DELIVERED"
	DeliveryCanceled  DeliveryStatus = "CANCELED"
)

// Mutable reports whether the address may still be changed and the order
// may still be cancelled. Once a parcel has shipped, neither is possible.
func (s DeliveryStatus) Mutable() bool {
	return s == DeliveryPlaced || s == DeliveryConfirmed
}

// Address is the structured shipping destination of a delivery.
type Address struct {
	City   string `json:"city" gorm:"type:varchar(100)" validate:"required"`
	Street string `json:"street" gorm:"type:varchar(255)" validate:"required"`
	Zip    string `json:"zip" gorm:"type:varchar(20)" validate:"required"`
}

// Blank reports whether any required address field is empty.
func (a Address) Blank() bool {
	return a.City == "" || a.Street == "" || a.Zip == ""
}

// Delivery tracks the shipping address and shipment status for one order.
// It is owned exclusively by that order: created with it, never standalone.
type Delivery struct {
	ID      string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID string         `json:"order_id" gorm:"index;type:varchar(36)"`
	Address Address        `json:"address" gorm:"embedded;embeddedPrefix:address_"`
	Status  DeliveryStatus `json:"status" gorm:"type:varchar(20)"`
}

// ChangeAddress replaces the shipping address. Allowed only while the
// delivery has not shipped.
func (d *Delivery) ChangeAddress(addr Address) error {
	if !d.Status.Mutable() {
		return &StateError{Op: "address update", Status: d.Status, Err: ErrInvalidStateForUpdate}
	}
	d.Address = addr
	return nil
}

// Cancel moves the delivery to its terminal CANCELED state. Allowed only
// while the delivery has not shipped.
func (d *Delivery) Cancel() error {
	if !d.Status.Mutable() {
		return &StateError{Op: "cancel", Status: d.Status, Err: ErrCancellationNotAllowed}
	}
	d.Status = DeliveryCanceled
	return nil
}

// Confirm, Ship and Complete are the forward transitions driven by the
// fulfillment process. Each is valid from exactly one predecessor state.

func (d *Delivery) Confirm() error {
	if d.Status != DeliveryPlaced {
		return &StateError{Op: "confirm", Status: d.Status, Err: ErrInvalidStateForUpdate}
	}
	d.Status = DeliveryConfirmed
	return nil
}

func (d *Delivery) Ship() error {
	if d.Status != DeliveryConfirmed {
		return &StateError{Op: "ship", Status: d.Status, Err: ErrInvalidStateForUpdate}
	}
	d.Status = DeliveryShipped
	return nil
}

func (d *Delivery) Complete() error {
	if d.Status != DeliveryShipped {
		return &StateError{Op: "complete", Status: d.Status, Err: ErrInvalidStateForUpdate}
	}
	d.Status = DeliveryDelivered
	return nil
}
