// Package shipping defines the normalized shipment vocabulary shared by every
// carrier integration: the request/result model, the carrier port, and the
// registry that resolves provider codes to adapters.
package shipping

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Common errors for the shipping domain
var (
	ErrInvalidProvider      = errors.New("invalid provider")
	ErrCarrierNotRegistered = errors.New("carrier not registered")
	ErrCarrierNotConfigured = errors.New("carrier not configured")
	ErrCarrierAuthFailed    = errors.New("carrier authentication failed")
	ErrCarrierUnavailable   = errors.New("carrier unavailable")
	ErrCarrierRejected      = errors.New("carrier rejected the request")
	ErrInvalidRequest       = errors.New("invalid shipment request")
)

// PaymentMethodCOD is the only payment method with carrier-side significance;
// every other value is treated as prepaid.
const PaymentMethodCOD = "COD"

// Address holds a shipping or billing address. Fields are checked for
// presence only; format validation is the carrier's rejection to raise.
type Address struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
	Country string `json:"country"`
}

// LineItem is one order line inside a shipment request.
type LineItem struct {
	Name         string          `json:"name"`
	SKU          string          `json:"sku"`
	Units        int             `json:"units"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	Discount     decimal.Decimal `json:"discount"`
}

// Dimensions describes the physical package in centimetres and kilograms.
type Dimensions struct {
	Length  float64 `json:"length"`
	Breadth float64 `json:"breadth"`
	Height  float64 `json:"height"`
	Weight  float64 `json:"weight"`
}

// DefaultDimensions returns the package size substituted when a request
// carries no dimensions: 10x10x10 cm, 0.5 kg. Shipment creation never blocks
// on missing dimensions.
func DefaultDimensions() Dimensions {
	return Dimensions{Length: 10, Breadth: 10, Height: 10, Weight: 0.5}
}

// ShipmentRequest is one fulfillment attempt for one order. A request is
// never mutated after construction; each attempt builds a fresh value.
type ShipmentRequest struct {
	OrderID         string          `json:"order_id"`
	OrderNumber     string          `json:"order_number"`
	OrderDate       time.Time       `json:"order_date"`
	PaymentMethod   string          `json:"payment_method"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Total           decimal.Decimal `json:"total"`
	Items           []LineItem      `json:"items"`
	ShippingAddress Address         `json:"shipping_address"`
	BillingAddress  *Address        `json:"billing_address,omitempty"`
	Dimensions      *Dimensions     `json:"dimensions,omitempty"`
}

// Validate checks presence of the fields every carrier needs. It deliberately
// stops at presence: malformed values are carrier rejections, not ours.
func (r *ShipmentRequest) Validate() error {
	if r.OrderID == "" {
		return errors.New("shipping: order id is required")
	}
	if r.OrderNumber == "" {
		return errors.New("shipping: order number is required")
	}
	if len(r.Items) == 0 {
		return errors.New("shipping: at least one line item is required")
	}
	for _, item := range r.Items {
		if item.Units <= 0 {
			return errors.New("shipping: line item units must be positive")
		}
	}
	if r.ShippingAddress == (Address{}) {
		return errors.New("shipping: shipping address is required")
	}
	return nil
}

// IsCOD reports whether the order collects payment on delivery.
func (r *ShipmentRequest) IsCOD() bool {
	return r.PaymentMethod == PaymentMethodCOD
}

// TotalUnits sums units across all line items, for carriers that want a
// single aggregate count rather than a line list.
func (r *ShipmentRequest) TotalUnits() int {
	total := 0
	for _, item := range r.Items {
		total += item.Units
	}
	return total
}

// BillingOrShipping returns the billing address, falling back to the
// shipping address when no separate billing address was supplied.
func (r *ShipmentRequest) BillingOrShipping() Address {
	if r.BillingAddress != nil {
		return *r.BillingAddress
	}
	return r.ShippingAddress
}

// PackageDimensions returns the request dimensions or the carrier default.
func (r *ShipmentRequest) PackageDimensions() Dimensions {
	if r.Dimensions != nil {
		return *r.Dimensions
	}
	return DefaultDimensions()
}

// ShipmentResult is the outcome of one adapter invocation. Exactly one of
// (Success=true with ShipmentID or AWBCode set) or (Success=false with Error
// set) holds. Data carries the raw carrier response regardless of outcome so
// operators can diagnose without code changes.
type ShipmentResult struct {
	Success     bool   `json:"success"`
	ShipmentID  string `json:"shipment_id,omitempty"`
	AWBCode     string `json:"awb_code,omitempty"`
	TrackingURL string `json:"tracking_url,omitempty"`
	Error       string `json:"error,omitempty"`
	Data        string `json:"data,omitempty"`
}

// NewShipmentSuccess builds a success result carrying the carrier's
// identifiers and raw response body.
func NewShipmentSuccess(shipmentID, awbCode, trackingURL, raw string) *ShipmentResult {
	return &ShipmentResult{
		Success:     true,
		ShipmentID:  shipmentID,
		AWBCode:     awbCode,
		TrackingURL: trackingURL,
		Data:        raw,
	}
}

// NewShipmentFailure builds a failure result with the carrier's (or
// transport's) error message and whatever raw body was received.
func NewShipmentFailure(message, raw string) *ShipmentResult {
	return &ShipmentResult{
		Success: false,
		Error:   message,
		Data:    raw,
	}
}

// Consistent reports whether the result honours the success/failure
// exclusivity invariant.
func (r *ShipmentResult) Consistent() bool {
	if r.Success {
		return r.Error == "" && (r.ShipmentID != "" || r.AWBCode != "")
	}
	return r.Error != ""
}
