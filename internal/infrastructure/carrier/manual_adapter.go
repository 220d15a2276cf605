package carrier

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/linenloft/backend/internal/domain/shipping"
)

// ManualAdapter is the no-op carrier for orders fulfilled outside any
// integration, e.g. local hand-delivery. Creation succeeds immediately with a
// synthetic shipment id; there is nothing to track or cancel upstream.
type ManualAdapter struct{}

// NewManualAdapter creates a manual adapter
func NewManualAdapter() *ManualAdapter {
	return &ManualAdapter{}
}

// Provider returns the carrier code this adapter handles
func (a *ManualAdapter) Provider() shipping.ProviderCode {
	return shipping.ProviderManual
}

// CreateShipment returns an immediate success with a synthetic shipment id
func (a *ManualAdapter) CreateShipment(ctx context.Context, req *shipping.ShipmentRequest) *shipping.ShipmentResult {
	if err := req.Validate(); err != nil {
		return shipping.NewShipmentFailure(err.Error(), "")
	}
	return shipping.NewShipmentSuccess(fmt.Sprintf("MAN-%s", uuid.New()), "", "", "")
}

// TrackShipment reports that manual shipments carry no live status
func (a *ManualAdapter) TrackShipment(ctx context.Context, awbCode string) *shipping.ShipmentResult {
	return shipping.NewShipmentFailure("manual: shipments fulfilled manually have no tracking", "")
}

// CancelShipment succeeds without side effects; there is no carrier to notify
func (a *ManualAdapter) CancelShipment(ctx context.Context, codes ...string) *shipping.ShipmentResult {
	return &shipping.ShipmentResult{Success: true, ShipmentID: "manual-cancel"}
}

// Ensure ManualAdapter implements the carrier port
var _ shipping.Carrier = (*ManualAdapter)(nil)
