package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/linenloft/backend/internal/domain/order"
	"github.com/linenloft/backend/internal/domain/shipping"
)

// AddressModel flattens a shipping.Address into prefixed columns so billing
// and shipping addresses live on the order row itself.
type AddressModel struct {
	Name    string `gorm:"type:varchar(200)"`
	Phone   string `gorm:"type:varchar(20)"`
	Email   string `gorm:"type:varchar(200)"`
	Address string `gorm:"type:varchar(500)"`
	City    string `gorm:"type:varchar(100)"`
	State   string `gorm:"type:varchar(100)"`
	Pincode string `gorm:"type:varchar(10)"`
	Country string `gorm:"type:varchar(100)"`
}

// ToDomain converts AddressModel to a domain Address
func (m AddressModel) ToDomain() shipping.Address {
	return shipping.Address{
		Name:    m.Name,
		Phone:   m.Phone,
		Email:   m.Email,
		Address: m.Address,
		City:    m.City,
		State:   m.State,
		Pincode: m.Pincode,
		Country: m.Country,
	}
}

// FromDomainAddress populates AddressModel from a domain Address
func (m *AddressModel) FromDomainAddress(a shipping.Address) {
	m.Name = a.Name
	m.Phone = a.Phone
	m.Email = a.Email
	m.Address = a.Address
	m.City = a.City
	m.State = a.State
	m.Pincode = a.Pincode
	m.Country = a.Country
}

// OrderModel is the persistence model for the Order aggregate root.
type OrderModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	OrderNumber   string    `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerName  string    `gorm:"type:varchar(200)"`
	CustomerPhone string    `gorm:"type:varchar(20)"`
	CustomerEmail string    `gorm:"type:varchar(200)"`

	ShippingAddress AddressModel `gorm:"embedded;embeddedPrefix:shipping_"`
	BillingAddress  AddressModel `gorm:"embedded;embeddedPrefix:billing_"`
	HasBilling      bool         `gorm:"not null;default:false"`

	Length        float64 `gorm:"not null;default:0"`
	Breadth       float64 `gorm:"not null;default:0"`
	Height        float64 `gorm:"not null;default:0"`
	Weight        float64 `gorm:"not null;default:0"`
	HasDimensions bool    `gorm:"not null;default:false"`

	Items         []OrderItemModel `gorm:"foreignKey:OrderID;references:ID"`
	PaymentMethod string           `gorm:"type:varchar(20);not null"`
	Subtotal      decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	Total         decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`

	Status order.Status `gorm:"type:varchar(20);not null;default:'PENDING';index"`

	ShippingProvider string `gorm:"type:varchar(20)"`
	ShipmentID       string `gorm:"type:varchar(100)"`
	AWBCode          string `gorm:"type:varchar(100);index"`
	TrackingURL      string `gorm:"type:varchar(500)"`
	ShippingError    string `gorm:"type:text"`

	CreatedAt time.Time      `gorm:"not null;index"`
	UpdatedAt time.Time      `gorm:"not null"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order entity.
func (m *OrderModel) ToDomain() *order.Order {
	o := &order.Order{
		ID:               m.ID,
		OrderNumber:      m.OrderNumber,
		CustomerName:     m.CustomerName,
		CustomerPhone:    m.CustomerPhone,
		CustomerEmail:    m.CustomerEmail,
		ShippingAddress:  m.ShippingAddress.ToDomain(),
		PaymentMethod:    m.PaymentMethod,
		Subtotal:         m.Subtotal,
		Total:            m.Total,
		Status:           m.Status,
		ShippingProvider: m.ShippingProvider,
		ShipmentID:       m.ShipmentID,
		AWBCode:          m.AWBCode,
		TrackingURL:      m.TrackingURL,
		ShippingError:    m.ShippingError,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
		Items:            make([]order.Item, len(m.Items)),
	}
	if m.HasBilling {
		billing := m.BillingAddress.ToDomain()
		o.BillingAddress = &billing
	}
	if m.HasDimensions {
		o.Dimensions = &shipping.Dimensions{
			Length:  m.Length,
			Breadth: m.Breadth,
			Height:  m.Height,
			Weight:  m.Weight,
		}
	}
	for i, item := range m.Items {
		o.Items[i] = *item.ToDomain()
	}
	return o
}

// FromDomain populates the persistence model from a domain Order entity.
func (m *OrderModel) FromDomain(o *order.Order) {
	m.ID = o.ID
	m.OrderNumber = o.OrderNumber
	m.CustomerName = o.CustomerName
	m.CustomerPhone = o.CustomerPhone
	m.CustomerEmail = o.CustomerEmail
	m.ShippingAddress.FromDomainAddress(o.ShippingAddress)
	m.HasBilling = o.BillingAddress != nil
	if o.BillingAddress != nil {
		m.BillingAddress.FromDomainAddress(*o.BillingAddress)
	} else {
		m.BillingAddress = AddressModel{}
	}
	m.HasDimensions = o.Dimensions != nil
	if o.Dimensions != nil {
		m.Length = o.Dimensions.Length
		m.Breadth = o.Dimensions.Breadth
		m.Height = o.Dimensions.Height
		m.Weight = o.Dimensions.Weight
	} else {
		m.Length, m.Breadth, m.Height, m.Weight = 0, 0, 0, 0
	}
	m.PaymentMethod = o.PaymentMethod
	m.Subtotal = o.Subtotal
	m.Total = o.Total
	m.Status = o.Status
	m.ShippingProvider = o.ShippingProvider
	m.ShipmentID = o.ShipmentID
	m.AWBCode = o.AWBCode
	m.TrackingURL = o.TrackingURL
	m.ShippingError = o.ShippingError
	m.CreatedAt = o.CreatedAt
	m.UpdatedAt = o.UpdatedAt

	m.Items = make([]OrderItemModel, len(o.Items))
	for i := range o.Items {
		m.Items[i].FromDomain(&o.Items[i])
	}
}

// OrderItemModel is the persistence model for an order line item.
type OrderItemModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name         string          `gorm:"type:varchar(200);not null"`
	SKU          string          `gorm:"type:varchar(100);not null"`
	Units        int             `gorm:"not null;default:1"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Discount     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain Item
func (m *OrderItemModel) ToDomain() *order.Item {
	return &order.Item{
		ID:           m.ID,
		OrderID:      m.OrderID,
		Name:         m.Name,
		SKU:          m.SKU,
		Units:        m.Units,
		SellingPrice: m.SellingPrice,
		Discount:     m.Discount,
	}
}

// FromDomain populates the persistence model from a domain Item
func (m *OrderItemModel) FromDomain(item *order.Item) {
	m.ID = item.ID
	m.OrderID = item.OrderID
	m.Name = item.Name
	m.SKU = item.SKU
	m.Units = item.Units
	m.SellingPrice = item.SellingPrice
	m.Discount = item.Discount
}
