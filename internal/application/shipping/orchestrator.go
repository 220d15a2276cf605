// Package shipping contains the application services that drive carrier
// integrations: the orchestrator dispatches normalized shipment operations to
// the carrier a caller names, and the fulfillment service runs the full
// ship-an-order flow against the order aggregate.
package shipping

import (
	"context"

	"go.uber.org/zap"

	"github.com/linenloft/backend/internal/domain/shipping"
)

// Orchestrator dispatches shipment operations to registered carriers. Carrier
// resolution failures surface as failed results, never as Go errors, so
// callers handle one outcome shape.
type Orchestrator struct {
	registry shipping.CarrierRegistry
	logger   *zap.Logger
}

// NewOrchestrator creates an orchestrator over the given carrier registry
func NewOrchestrator(registry shipping.CarrierRegistry, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		registry: registry,
		logger:   logger,
	}
}

// CreateShipment books a shipment with the named carrier. An unknown or
// unregistered provider fails the result without any carrier call.
func (o *Orchestrator) CreateShipment(ctx context.Context, provider shipping.ProviderCode, req *shipping.ShipmentRequest) *shipping.ShipmentResult {
	c, err := o.registry.Get(provider)
	if err != nil {
		o.logger.Warn("Carrier resolution failed",
			zap.String("provider", provider.String()),
			zap.String("order_number", req.OrderNumber),
			zap.Error(err),
		)
		return shipping.NewShipmentFailure(err.Error(), "")
	}

	result := c.CreateShipment(ctx, req)
	if result.Success {
		o.logger.Info("Shipment created",
			zap.String("provider", provider.String()),
			zap.String("order_number", req.OrderNumber),
			zap.String("shipment_id", result.ShipmentID),
			zap.String("awb_code", result.AWBCode),
		)
	} else {
		o.logger.Warn("Shipment creation failed",
			zap.String("provider", provider.String()),
			zap.String("order_number", req.OrderNumber),
			zap.String("reason", result.Error),
		)
	}
	return result
}

// AssignAWB requests a waybill for an already created shipment. Carriers that
// book and assign in one call report the operation as unsupported.
func (o *Orchestrator) AssignAWB(ctx context.Context, provider shipping.ProviderCode, shipmentID string, courierID int) *shipping.ShipmentResult {
	c, err := o.registry.Get(provider)
	if err != nil {
		return shipping.NewShipmentFailure(err.Error(), "")
	}

	assigner, ok := c.(shipping.AWBAssigner)
	if !ok {
		return shipping.NewShipmentFailure(provider.String()+": carrier does not support separate AWB assignment", "")
	}
	return assigner.AssignAWB(ctx, shipmentID, courierID)
}

// TrackShipment fetches tracking status for a waybill from the named carrier
func (o *Orchestrator) TrackShipment(ctx context.Context, provider shipping.ProviderCode, awbCode string) *shipping.ShipmentResult {
	c, err := o.registry.Get(provider)
	if err != nil {
		return shipping.NewShipmentFailure(err.Error(), "")
	}
	return c.TrackShipment(ctx, awbCode)
}

// CancelShipment cancels the given waybills with the named carrier
func (o *Orchestrator) CancelShipment(ctx context.Context, provider shipping.ProviderCode, awbCodes ...string) *shipping.ShipmentResult {
	c, err := o.registry.Get(provider)
	if err != nil {
		return shipping.NewShipmentFailure(err.Error(), "")
	}

	result := c.CancelShipment(ctx, awbCodes...)
	if !result.Success {
		o.logger.Warn("Shipment cancellation failed",
			zap.String("provider", provider.String()),
			zap.Strings("awb_codes", awbCodes),
			zap.String("reason", result.Error),
		)
	}
	return result
}

// Providers lists the provider codes with a registered carrier
func (o *Orchestrator) Providers() []shipping.ProviderCode {
	return o.registry.Names()
}
