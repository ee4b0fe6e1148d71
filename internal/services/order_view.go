package services

import (
	"time"

	"market/internal/models"

	"github.com/shopspring/decimal"
)

// OrderLineView is the read projection of one order line.
type OrderLineView struct {
	ItemID    string          `json:"item_id"`
	ItemName  string          `json:"item_name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// DeliveryView is the read projection of an order's delivery.
type DeliveryView struct {
	Address models.Address        `json:"address"`
	Status  models.DeliveryStatus `json:"status"`
}

// OrderView is the read projection of an order returned to callers.
type OrderView struct {
	ID                  string             `json:"id"`
	MemberID            string             `json:"member_id"`
	MemberName          string             `json:"member_name"`
	Lines               []OrderLineView    `json:"lines"`
	Delivery            DeliveryView       `json:"delivery"`
	Status              models.OrderStatus `json:"status"`
	CouponCode          string             `json:"coupon_code,omitempty"`
	DiscountAmount      decimal.Decimal    `json:"discount_amount"`
	TotalBeforeDiscount decimal.Decimal    `json:"total_before_discount"`
	TotalPrice          decimal.Decimal    `json:"total_price"`
	OrderedAt           time.Time          `json:"ordered_at"`
}

// OrderPage is one page of a member's order history.
type OrderPage struct {
	Orders   []OrderView `json:"orders"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

func newOrderView(order *models.Order, memberName string) OrderView {
	lines := make([]OrderLineView, 0, len(order.Lines))
	for _, l := range order.Lines {
		lines = append(lines, OrderLineView{
			ItemID:    l.ItemID,
			ItemName:  l.ItemName,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			LineTotal: l.Total(),
		})
	}
	return OrderView{
		ID:         order.ID,
		MemberID:   order.MemberID,
		MemberName: memberName,
		Lines:      lines,
		Delivery: DeliveryView{
			Address: order.Delivery.Address,
			Status:  order.Delivery.Status,
		},
		Status:              order.Status,
		CouponCode:          order.CouponCode,
		DiscountAmount:      order.DiscountAmount,
		TotalBeforeDiscount: order.TotalBeforeDiscount(),
		TotalPrice:          order.TotalPrice(),
		OrderedAt:           order.OrderedAt,
	}
}
