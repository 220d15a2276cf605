package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/linenloft/backend/internal/domain/order"
	"github.com/linenloft/backend/internal/domain/shipping"
)

// AddressInput carries an address in API requests
type AddressInput struct {
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Phone   string `json:"phone" binding:"required,min=10,max=15"`
	Email   string `json:"email" binding:"omitempty,email"`
	Address string `json:"address" binding:"required,min=1,max=500"`
	City    string `json:"city" binding:"required,min=1,max=100"`
	State   string `json:"state" binding:"required,min=1,max=100"`
	Pincode string `json:"pincode" binding:"required,min=4,max=10"`
	Country string `json:"country" binding:"required,min=1,max=100"`
}

// ToAddress converts the input to a domain address
func (a AddressInput) ToAddress() shipping.Address {
	return shipping.Address{
		Name:    a.Name,
		Phone:   a.Phone,
		Email:   a.Email,
		Address: a.Address,
		City:    a.City,
		State:   a.State,
		Pincode: a.Pincode,
		Country: a.Country,
	}
}

// DimensionsInput carries package dimensions in API requests
type DimensionsInput struct {
	Length  float64 `json:"length" binding:"required,gt=0"`
	Breadth float64 `json:"breadth" binding:"required,gt=0"`
	Height  float64 `json:"height" binding:"required,gt=0"`
	Weight  float64 `json:"weight" binding:"required,gt=0"`
}

// CreateOrderItemInput represents an item in the create order request
type CreateOrderItemInput struct {
	Name         string          `json:"name" binding:"required,min=1,max=200"`
	SKU          string          `json:"sku" binding:"required,min=1,max=100"`
	Units        int             `json:"units" binding:"required,gt=0"`
	SellingPrice decimal.Decimal `json:"selling_price" binding:"required"`
	Discount     decimal.Decimal `json:"discount"`
}

// CreateOrderRequest represents a request to create an order
type CreateOrderRequest struct {
	OrderNumber     string                 `json:"order_number" binding:"required,min=1,max=50"`
	CustomerName    string                 `json:"customer_name" binding:"required,min=1,max=200"`
	CustomerPhone   string                 `json:"customer_phone" binding:"required,min=10,max=15"`
	CustomerEmail   string                 `json:"customer_email" binding:"omitempty,email"`
	ShippingAddress AddressInput           `json:"shipping_address" binding:"required"`
	BillingAddress  *AddressInput          `json:"billing_address"`
	Dimensions      *DimensionsInput       `json:"dimensions"`
	Items           []CreateOrderItemInput `json:"items" binding:"required,min=1,dive"`
	PaymentMethod   string                 `json:"payment_method" binding:"required,oneof=COD Prepaid"`
	Subtotal        decimal.Decimal        `json:"subtotal" binding:"required"`
	Total           decimal.Decimal        `json:"total" binding:"required"`
}

// OrderItemResponse is the API-facing view of an order item
type OrderItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	SKU          string          `json:"sku"`
	Units        int             `json:"units"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	Discount     decimal.Decimal `json:"discount"`
}

// OrderResponse is the API-facing view of an order
type OrderResponse struct {
	ID               uuid.UUID           `json:"id"`
	OrderNumber      string              `json:"order_number"`
	CustomerName     string              `json:"customer_name"`
	CustomerPhone    string              `json:"customer_phone"`
	CustomerEmail    string              `json:"customer_email,omitempty"`
	ShippingAddress  shipping.Address    `json:"shipping_address"`
	BillingAddress   *shipping.Address   `json:"billing_address,omitempty"`
	Dimensions       *shipping.Dimensions `json:"dimensions,omitempty"`
	Items            []OrderItemResponse `json:"items"`
	PaymentMethod    string              `json:"payment_method"`
	Subtotal         decimal.Decimal     `json:"subtotal"`
	Total            decimal.Decimal     `json:"total"`
	Status           string              `json:"status"`
	ShippingProvider string              `json:"shipping_provider,omitempty"`
	ShipmentID       string              `json:"shipment_id,omitempty"`
	AWBCode          string              `json:"awb_code,omitempty"`
	TrackingURL      string              `json:"tracking_url,omitempty"`
	ShippingError    string              `json:"shipping_error,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// ToOrderResponse maps a domain order to its API representation
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ID:           item.ID,
			Name:         item.Name,
			SKU:          item.SKU,
			Units:        item.Units,
			SellingPrice: item.SellingPrice,
			Discount:     item.Discount,
		}
	}

	return OrderResponse{
		ID:               o.ID,
		OrderNumber:      o.OrderNumber,
		CustomerName:     o.CustomerName,
		CustomerPhone:    o.CustomerPhone,
		CustomerEmail:    o.CustomerEmail,
		ShippingAddress:  o.ShippingAddress,
		BillingAddress:   o.BillingAddress,
		Dimensions:       o.Dimensions,
		Items:            items,
		PaymentMethod:    o.PaymentMethod,
		Subtotal:         o.Subtotal,
		Total:            o.Total,
		Status:           o.Status.String(),
		ShippingProvider: o.ShippingProvider,
		ShipmentID:       o.ShipmentID,
		AWBCode:          o.AWBCode,
		TrackingURL:      o.TrackingURL,
		ShippingError:    o.ShippingError,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}
