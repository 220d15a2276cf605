package shipping

import "context"

// ProviderCode identifies a logistics carrier integration.
type ProviderCode string

// Supported carrier providers
const (
	ProviderShiprocket ProviderCode = "shiprocket"
	ProviderDelhivery  ProviderCode = "delhivery"
	ProviderManual     ProviderCode = "manual"
)

// IsValid checks if the provider code is supported
func (p ProviderCode) IsValid() bool {
	switch p {
	case ProviderShiprocket, ProviderDelhivery, ProviderManual:
		return true
	}
	return false
}

// String returns the string representation
func (p ProviderCode) String() string {
	return string(p)
}

// Carrier is the port every logistics integration implements. Every
// operation resolves to a ShipmentResult, success or failure; adapters never
// let a carrier-side or transport error escape as a Go error, so the caller
// can always persist an outcome.
type Carrier interface {
	// Provider returns the code this adapter serves.
	Provider() ProviderCode

	// CreateShipment registers the shipment with the carrier. Depending on
	// the carrier this may or may not populate AWBCode: Delhivery returns
	// the waybill on creation, Shiprocket separates creation from waybill
	// assignment (see AWBAssigner).
	CreateShipment(ctx context.Context, req *ShipmentRequest) *ShipmentResult

	// TrackShipment looks up live status by waybill. The tracking URL is
	// attached even when the status call fails, since the public tracking
	// page needs no authentication.
	TrackShipment(ctx context.Context, awbCode string) *ShipmentResult

	// CancelShipment is best-effort: success means the carrier accepted the
	// cancellation request, not that the shipment is confirmed void.
	CancelShipment(ctx context.Context, codes ...string) *ShipmentResult
}

// AWBAssigner is implemented by carriers that split shipment creation from
// waybill assignment. Callers needing a guaranteed AWBCode after
// CreateShipment must invoke AssignAWB with the returned shipment id.
type AWBAssigner interface {
	AssignAWB(ctx context.Context, shipmentID string, courierID int) *ShipmentResult
}

// CarrierRegistry resolves provider codes to registered adapters.
type CarrierRegistry interface {
	// Get returns the carrier for the code, or ErrInvalidProvider /
	// ErrCarrierNotRegistered.
	Get(provider ProviderCode) (Carrier, error)

	// Register adds a carrier under its own provider code.
	Register(c Carrier)

	// Names lists registered provider codes.
	Names() []ProviderCode
}
