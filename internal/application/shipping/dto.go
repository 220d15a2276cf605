package shipping

import (
	"github.com/linenloft/backend/internal/domain/order"
	"github.com/linenloft/backend/internal/domain/shipping"
)

// ShipOrderRequest names the carrier for a fulfillment attempt
type ShipOrderRequest struct {
	Provider string `json:"provider" binding:"required"`
}

// ShipmentResponse is the API-facing view of one carrier operation outcome
// together with the order's shipping state after it.
type ShipmentResponse struct {
	Success     bool   `json:"success"`
	ShipmentID  string `json:"shipment_id,omitempty"`
	AWBCode     string `json:"awb_code,omitempty"`
	TrackingURL string `json:"tracking_url,omitempty"`
	Error       string `json:"error,omitempty"`
	OrderStatus string `json:"order_status"`
	Provider    string `json:"provider,omitempty"`
}

// ToShipmentResponse maps a carrier result and the order it concerns to a response
func ToShipmentResponse(result *shipping.ShipmentResult, o *order.Order) ShipmentResponse {
	return ShipmentResponse{
		Success:     result.Success,
		ShipmentID:  result.ShipmentID,
		AWBCode:     result.AWBCode,
		TrackingURL: result.TrackingURL,
		Error:       result.Error,
		OrderStatus: o.Status.String(),
		Provider:    o.ShippingProvider,
	}
}
