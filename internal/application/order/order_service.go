// Package order contains the application service for order intake and
// lifecycle transitions up to the handoff to fulfillment.
package order

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/linenloft/backend/internal/domain/order"
	"github.com/linenloft/backend/internal/domain/shipping"
)

// Service handles order business operations
type Service struct {
	orders order.Repository
	logger *zap.Logger
}

// NewService creates a new order Service
func NewService(orders order.Repository, logger *zap.Logger) *Service {
	return &Service{
		orders: orders,
		logger: logger,
	}
}

// Create creates a new order in PENDING status
func (s *Service) Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	items := make([]order.Item, len(req.Items))
	for i, item := range req.Items {
		items[i] = order.Item{
			Name:         item.Name,
			SKU:          item.SKU,
			Units:        item.Units,
			SellingPrice: item.SellingPrice,
			Discount:     item.Discount,
		}
	}

	o, err := order.NewOrder(req.OrderNumber, req.ShippingAddress.ToAddress(), items, req.PaymentMethod, req.Subtotal, req.Total)
	if err != nil {
		return nil, err
	}

	o.CustomerName = req.CustomerName
	o.CustomerPhone = req.CustomerPhone
	o.CustomerEmail = req.CustomerEmail

	if req.BillingAddress != nil {
		billing := req.BillingAddress.ToAddress()
		o.BillingAddress = &billing
	}
	if req.Dimensions != nil {
		o.Dimensions = &shipping.Dimensions{
			Length:  req.Dimensions.Length,
			Breadth: req.Dimensions.Breadth,
			Height:  req.Dimensions.Height,
			Weight:  req.Dimensions.Weight,
		}
	}

	if err := s.orders.Save(ctx, o); err != nil {
		return nil, err
	}

	s.logger.Info("Order created",
		zap.String("order_id", o.ID.String()),
		zap.String("order_number", o.OrderNumber),
	)

	response := ToOrderResponse(o)
	return &response, nil
}

// Get finds an order by ID
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(o)
	return &response, nil
}

// GetByOrderNumber finds an order by its order number
func (s *Service) GetByOrderNumber(ctx context.Context, orderNumber string) (*OrderResponse, error) {
	o, err := s.orders.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(o)
	return &response, nil
}

// ListByStatus lists orders in the given status, newest first
func (s *Service) ListByStatus(ctx context.Context, status order.Status, limit, offset int) ([]OrderResponse, error) {
	orders, err := s.orders.FindByStatus(ctx, status, limit, offset)
	if err != nil {
		return nil, err
	}

	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses, nil
}

// MarkReadyToShip releases the order to fulfillment
func (s *Service) MarkReadyToShip(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, id, (*order.Order).MarkReadyToShip)
}

// MarkDelivered completes a shipped order
func (s *Service) MarkDelivered(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, id, (*order.Order).MarkDelivered)
}

// Cancel cancels an order that has not shipped
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, id, (*order.Order).Cancel)
}

// transition loads the order, applies the state change, and saves it
func (s *Service) transition(ctx context.Context, id uuid.UUID, change func(*order.Order) error) (*OrderResponse, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := change(o); err != nil {
		return nil, err
	}

	if err := s.orders.Save(ctx, o); err != nil {
		return nil, err
	}

	response := ToOrderResponse(o)
	return &response, nil
}
