package shipping

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/linenloft/backend/internal/domain/order"
	"github.com/linenloft/backend/internal/domain/shared"
	"github.com/linenloft/backend/internal/domain/shipping"
	"github.com/linenloft/backend/internal/infrastructure/telemetry"
)

// FulfillmentService runs the ship-an-order flow: it guards against
// concurrent duplicate attempts, books the shipment through the orchestrator,
// and writes the carrier outcome back onto the order.
type FulfillmentService struct {
	orders       order.Repository
	orchestrator *Orchestrator
	guard        shipping.AttemptGuard
	courierID    int // preferred Shiprocket courier for AWB assignment, 0 lets the carrier pick
	logger       *zap.Logger
}

// NewFulfillmentService creates a new FulfillmentService
func NewFulfillmentService(
	orders order.Repository,
	orchestrator *Orchestrator,
	guard shipping.AttemptGuard,
	courierID int,
	logger *zap.Logger,
) *FulfillmentService {
	return &FulfillmentService{
		orders:       orders,
		orchestrator: orchestrator,
		guard:        guard,
		courierID:    courierID,
		logger:       logger,
	}
}

// ShipOrder books a shipment for a ready-to-ship order with the named
// carrier. Carrier-side failures are recorded on the order and returned in
// the response; a Go error means the attempt never reached the carrier.
func (s *FulfillmentService) ShipOrder(ctx context.Context, orderID uuid.UUID, provider shipping.ProviderCode) (*ShipmentResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "fulfillment", "ship",
		telemetry.WithAttribute("order_id", orderID.String()),
		telemetry.WithAttribute("provider", provider.String()),
	)
	defer span.End()

	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if !o.IsShippable() {
		err := shared.NewDomainError("ORDER_NOT_SHIPPABLE",
			"Order must be ready to ship, current status is "+o.Status.String())
		telemetry.RecordError(span, err)
		return nil, err
	}

	claimed, err := s.guard.Begin(ctx, o.OrderNumber, shipping.DefaultAttemptTTL)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if !claimed {
		err := shared.NewDomainError("SHIPMENT_IN_FLIGHT",
			"A shipment attempt for this order is already in progress")
		telemetry.RecordError(span, err)
		return nil, err
	}
	defer func() {
		if releaseErr := s.guard.Release(ctx, o.OrderNumber); releaseErr != nil {
			s.logger.Warn("Failed to release shipment attempt claim",
				zap.String("order_number", o.OrderNumber),
				zap.Error(releaseErr),
			)
		}
	}()

	result := s.orchestrator.CreateShipment(ctx, provider, o.ShipmentRequest())

	// Shiprocket books the order first and assigns the waybill in a second
	// call when none came back with the booking.
	if result.Success && result.AWBCode == "" {
		if assigned := s.orchestrator.AssignAWB(ctx, provider, result.ShipmentID, s.courierID); assigned.Success {
			result.AWBCode = assigned.AWBCode
			result.TrackingURL = assigned.TrackingURL
		} else {
			s.logger.Warn("AWB assignment failed, order ships without waybill",
				zap.String("order_number", o.OrderNumber),
				zap.String("shipment_id", result.ShipmentID),
				zap.String("reason", assigned.Error),
			)
		}
	}

	if result.Success {
		if err := o.MarkShipped(provider, result.ShipmentID, result.AWBCode, result.TrackingURL); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
	} else {
		if err := o.MarkShippingFailed(result.Error); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
	}

	if err := s.orders.Save(ctx, o); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if result.Success {
		telemetry.SetOK(span)
	} else {
		telemetry.SetAttribute(span, "shipment.failed", true)
	}

	response := ToShipmentResponse(result, o)
	return &response, nil
}

// TrackOrder fetches tracking status from the carrier that shipped the order
func (s *FulfillmentService) TrackOrder(ctx context.Context, orderID uuid.UUID) (*ShipmentResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "fulfillment", "track",
		telemetry.WithAttribute("order_id", orderID.String()),
	)
	defer span.End()

	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if o.AWBCode == "" {
		err := shared.NewDomainError("NO_TRACKING",
			"Order has no waybill to track")
		telemetry.RecordError(span, err)
		return nil, err
	}

	result := s.orchestrator.TrackShipment(ctx, shipping.ProviderCode(o.ShippingProvider), o.AWBCode)
	response := ToShipmentResponse(result, o)
	return &response, nil
}

// CancelOrderShipment cancels the order's shipment on the carrier side. The
// order itself keeps its status; operators cancel the order separately once
// the carrier confirms.
func (s *FulfillmentService) CancelOrderShipment(ctx context.Context, orderID uuid.UUID) (*ShipmentResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "fulfillment", "cancel",
		telemetry.WithAttribute("order_id", orderID.String()),
	)
	defer span.End()

	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if o.AWBCode == "" {
		err := shared.NewDomainError("NO_SHIPMENT",
			"Order has no shipment to cancel")
		telemetry.RecordError(span, err)
		return nil, err
	}

	result := s.orchestrator.CancelShipment(ctx, shipping.ProviderCode(o.ShippingProvider), o.AWBCode)
	response := ToShipmentResponse(result, o)
	return &response, nil
}

// Providers lists the provider codes available for shipping
func (s *FulfillmentService) Providers() []shipping.ProviderCode {
	return s.orchestrator.Providers()
}
