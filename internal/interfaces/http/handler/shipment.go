package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	shippingapp "github.com/linenloft/backend/internal/application/shipping"
	"github.com/linenloft/backend/internal/domain/shipping"
	"github.com/linenloft/backend/internal/interfaces/http/middleware"
)

// ShipmentHandler handles fulfillment API endpoints
type ShipmentHandler struct {
	BaseHandler
	fulfillment *shippingapp.FulfillmentService
}

// NewShipmentHandler creates a new ShipmentHandler
func NewShipmentHandler(fulfillment *shippingapp.FulfillmentService) *ShipmentHandler {
	return &ShipmentHandler{
		fulfillment: fulfillment,
	}
}

// Ship books a shipment for the order with the named carrier. A carrier-side
// failure still responds 200 with success=false in the shipment payload; the
// order keeps its ready-to-ship status for a retry.
func (h *ShipmentHandler) Ship(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req shippingapp.ShipOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.fulfillment.ShipOrder(c.Request.Context(), orderID, shipping.ProviderCode(req.Provider))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Track returns carrier tracking status for the order's waybill
func (h *ShipmentHandler) Track(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	resp, err := h.fulfillment.TrackOrder(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// CancelShipment cancels the order's shipment on the carrier side
func (h *ShipmentHandler) CancelShipment(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	resp, err := h.fulfillment.CancelOrderShipment(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Providers lists the carriers available for shipping
func (h *ShipmentHandler) Providers(c *gin.Context) {
	h.Success(c, gin.H{"providers": h.fulfillment.Providers()})
}

// RegisterRoutes registers all fulfillment routes
func (h *ShipmentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.POST("/:id/ship", h.Ship)
		orders.GET("/:id/tracking", h.Track)
		orders.POST("/:id/shipment/cancel", h.CancelShipment)
	}

	carriers := rg.Group("/shipping")
	{
		carriers.GET("/providers", h.Providers)
	}
}
