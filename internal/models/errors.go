package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for the order engine. Services return these (possibly
// wrapped) so that handlers can map them to transport responses with
// errors.Is instead of matching on message strings.
var (
	ErrMemberNotFound = errors.New("member not found")
	ErrItemNotFound   = errors.New("item not found")
	ErrOrderNotFound  = errors.New("order not found")
	ErrCouponNotFound = errors.New("coupon not found")

	// ErrOutOfStock is returned when a stock reservation fails because the
	// item's available quantity is below the requested quantity.
	ErrOutOfStock = errors.New("insufficient stock")

	// ErrCouponNotApplicable is returned when a coupon exists but the order
	// does not satisfy its validity window or minimum purchase amount.
	ErrCouponNotApplicable = errors.New("coupon not applicable")

	// ErrNotOwner is returned when a caller operates on an order that
	// belongs to another member.
	ErrNotOwner = errors.New("order belongs to another member")

	ErrCancellationNotAllowed = errors.New("cancellation not allowed")
	ErrInvalidStateForUpdate  = errors.New("invalid state for update")

	// ErrModifiedConcurrently is returned when a save is rejected because
	// the delivery moved to a different state after the aggregate was
	// loaded. The write that committed first wins.
	ErrModifiedConcurrently = errors.New("order modified concurrently")
)

// StateError reports an operation rejected by the delivery state machine.
// It carries the delivery status observed at the time of the attempt so
// callers can tell the user why ("already shipped", "already cancelled").
type StateError struct {
	Op     string
	Status DeliveryStatus
	Err    error
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s not allowed while delivery is %s", e.Op, e.Status)
}

func (e *StateError) Unwrap() error {
	return e.Err
}

// ValidationError reports a request rejected before touching storage.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
