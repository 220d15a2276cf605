// Package order holds the slim sales order aggregate the fulfillment flow
// operates on: address, line items, totals, and the ship lifecycle.
package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/linenloft/backend/internal/domain/shared"
	"github.com/linenloft/backend/internal/domain/shipping"
)

// Status represents the fulfillment status of an order
type Status string

const (
	StatusPending     Status = "PENDING"
	StatusReadyToShip Status = "READY_TO_SHIP"
	StatusShipped     Status = "SHIPPED"
	StatusDelivered   Status = "DELIVERED"
	StatusCancelled   Status = "CANCELLED"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusReadyToShip, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusReadyToShip || target == StatusCancelled
	case StatusReadyToShip:
		return target == StatusShipped || target == StatusCancelled
	case StatusShipped:
		return target == StatusDelivered
	case StatusDelivered, StatusCancelled:
		return false // Terminal states
	}
	return false
}

// Item represents a line item in an order
type Item struct {
	ID           uuid.UUID
	OrderID      uuid.UUID
	Name         string
	SKU          string
	Units        int
	SellingPrice decimal.Decimal
	Discount     decimal.Decimal
}

// Order is the aggregate root for one customer order. Shipping fields are
// populated by the fulfillment flow once a carrier accepts the shipment.
type Order struct {
	ID            uuid.UUID
	OrderNumber   string
	CustomerName  string
	CustomerPhone string
	CustomerEmail string

	ShippingAddress shipping.Address
	BillingAddress  *shipping.Address
	Dimensions      *shipping.Dimensions

	Items         []Item
	PaymentMethod string
	Subtotal      decimal.Decimal
	Total         decimal.Decimal

	Status Status

	// Carrier outcome, written by fulfillment.
	ShippingProvider string
	ShipmentID       string
	AWBCode          string
	TrackingURL      string
	ShippingError    string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewOrder creates a pending order after validating the fields fulfillment
// will later depend on.
func NewOrder(orderNumber string, shippingAddr shipping.Address, items []Item, paymentMethod string, subtotal, total decimal.Decimal) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Order must contain at least one item")
	}
	for _, item := range items {
		if item.Units <= 0 {
			return nil, shared.NewDomainError("INVALID_UNITS", "Item units must be positive")
		}
		if item.SKU == "" {
			return nil, shared.NewDomainError("INVALID_SKU", "Item SKU cannot be empty")
		}
	}
	if shippingAddr == (shipping.Address{}) {
		return nil, shared.NewDomainError("MISSING_ADDRESS", "Shipping address is required")
	}
	if total.IsNegative() || subtotal.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Order amounts cannot be negative")
	}

	now := time.Now()
	o := &Order{
		ID:              uuid.New(),
		OrderNumber:     orderNumber,
		ShippingAddress: shippingAddr,
		Items:           items,
		PaymentMethod:   paymentMethod,
		Subtotal:        subtotal,
		Total:           total,
		Status:          StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for i := range o.Items {
		if o.Items[i].ID == uuid.Nil {
			o.Items[i].ID = uuid.New()
		}
		o.Items[i].OrderID = o.ID
	}
	return o, nil
}

// IsShippable reports whether fulfillment may attempt a carrier call.
func (o *Order) IsShippable() bool {
	return o.Status == StatusReadyToShip
}

// MarkReadyToShip releases the order to fulfillment.
func (o *Order) MarkReadyToShip() error {
	if !o.Status.CanTransitionTo(StatusReadyToShip) {
		return shared.NewDomainError("INVALID_STATE",
			"Order cannot be marked ready to ship from status "+o.Status.String())
	}
	o.Status = StatusReadyToShip
	o.UpdatedAt = time.Now()
	return nil
}

// MarkShipped records the carrier outcome and moves the order to SHIPPED.
// A previously recorded shipping failure is cleared.
func (o *Order) MarkShipped(provider shipping.ProviderCode, shipmentID, awbCode, trackingURL string) error {
	if !o.Status.CanTransitionTo(StatusShipped) {
		return shared.NewDomainError("INVALID_STATE",
			"Order cannot be shipped from status "+o.Status.String())
	}
	o.Status = StatusShipped
	o.ShippingProvider = provider.String()
	o.ShipmentID = shipmentID
	o.AWBCode = awbCode
	o.TrackingURL = trackingURL
	o.ShippingError = ""
	o.UpdatedAt = time.Now()
	return nil
}

// MarkShippingFailed records the failure reason. The order stays
// READY_TO_SHIP so the operator can correct and retry.
func (o *Order) MarkShippingFailed(reason string) error {
	if o.Status != StatusReadyToShip {
		return shared.NewDomainError("INVALID_STATE",
			"Shipping failure can only be recorded on a ready-to-ship order")
	}
	o.ShippingError = reason
	o.UpdatedAt = time.Now()
	return nil
}

// MarkDelivered completes the order.
func (o *Order) MarkDelivered() error {
	if !o.Status.CanTransitionTo(StatusDelivered) {
		return shared.NewDomainError("INVALID_STATE",
			"Order cannot be delivered from status "+o.Status.String())
	}
	o.Status = StatusDelivered
	o.UpdatedAt = time.Now()
	return nil
}

// Cancel cancels the order. Shipped and delivered orders cannot be
// cancelled here; carrier-side cancellation is a separate fulfillment call.
func (o *Order) Cancel() error {
	if !o.Status.CanTransitionTo(StatusCancelled) {
		return shared.NewDomainError("INVALID_STATE",
			"Order cannot be cancelled from status "+o.Status.String())
	}
	o.Status = StatusCancelled
	o.UpdatedAt = time.Now()
	return nil
}

// ShipmentRequest builds a fresh, immutable shipment request from the
// persisted order state. Each fulfillment attempt constructs a new value.
func (o *Order) ShipmentRequest() *shipping.ShipmentRequest {
	items := make([]shipping.LineItem, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, shipping.LineItem{
			Name:         item.Name,
			SKU:          item.SKU,
			Units:        item.Units,
			SellingPrice: item.SellingPrice,
			Discount:     item.Discount,
		})
	}

	var billing *shipping.Address
	if o.BillingAddress != nil {
		b := *o.BillingAddress
		billing = &b
	}
	var dims *shipping.Dimensions
	if o.Dimensions != nil {
		d := *o.Dimensions
		dims = &d
	}

	return &shipping.ShipmentRequest{
		OrderID:         o.ID.String(),
		OrderNumber:     o.OrderNumber,
		OrderDate:       o.CreatedAt,
		PaymentMethod:   o.PaymentMethod,
		Subtotal:        o.Subtotal,
		Total:           o.Total,
		Items:           items,
		ShippingAddress: o.ShippingAddress,
		BillingAddress:  billing,
		Dimensions:      dims,
	}
}
