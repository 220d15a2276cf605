package carrier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/linenloft/backend/internal/domain/shipping"
)

// shiprocketTrackingPageURL is the public tracking page; it needs no
// authentication, so the URL is attached even when the status call fails.
const shiprocketTrackingPageURL = "https://shiprocket.co/tracking/"

// shiprocketOrderDateLayout is the timestamp format the adhoc order API expects
const shiprocketOrderDateLayout = "2006-01-02 15:04"

// ShiprocketAdapter implements the shipping.Carrier port for Shiprocket.
// Shiprocket splits fulfillment in two steps: creating the order returns a
// shipment id, and a separate AWB assignment call issues the waybill.
type ShiprocketAdapter struct {
	config     *ShiprocketConfig
	sessions   *SessionManager
	httpClient *http.Client
	logger     *zap.Logger
}

// NewShiprocketAdapter creates a Shiprocket adapter. The configuration is
// deliberately not validated here: a misconfigured carrier fails the
// individual call with a configuration error, never the process.
func NewShiprocketAdapter(config *ShiprocketConfig, logger *zap.Logger) *ShiprocketAdapter {
	timeout := time.Duration(config.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ShiprocketAdapter{
		config:     config,
		sessions:   NewSessionManager(config, logger),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Provider returns the carrier code this adapter handles
func (a *ShiprocketAdapter) Provider() shipping.ProviderCode {
	return shipping.ProviderShiprocket
}

// ---------------------------------------------------------------------------
// Shipment Operations
// ---------------------------------------------------------------------------

// CreateShipment registers an adhoc order with Shiprocket. The result carries
// the shipment id; the AWB stays empty until AssignAWB is invoked, so callers
// needing guaranteed tracking must follow up with the assignment step.
func (a *ShiprocketAdapter) CreateShipment(ctx context.Context, req *shipping.ShipmentRequest) *shipping.ShipmentResult {
	if err := req.Validate(); err != nil {
		return shipping.NewShipmentFailure(err.Error(), "")
	}

	token, err := a.sessions.GetValidToken(ctx)
	if err != nil {
		return shipping.NewShipmentFailure(err.Error(), "")
	}

	payload := a.buildOrderPayload(req)
	body, status, err := a.doRequest(ctx, http.MethodPost, "/orders/create/adhoc", token, payload)
	if err != nil {
		return shipping.NewShipmentFailure(err.Error(), string(body))
	}
	if status >= 400 {
		return shipping.NewShipmentFailure(shiprocketFailureMessage(body, status), string(body))
	}

	var created shiprocketOrderResponse
	if err := json.Unmarshal(body, &created); err != nil {
		return shipping.NewShipmentFailure(
			fmt.Sprintf("shiprocket: failed to parse create response: %v", err), string(body))
	}
	if created.ShipmentID == 0 {
		return shipping.NewShipmentFailure(shiprocketFailureMessage(body, status), string(body))
	}

	trackingURL := ""
	if created.AWBCode != "" {
		trackingURL = shiprocketTrackingPageURL + created.AWBCode
	}

	a.logger.Info("Shiprocket shipment created",
		zap.String("order_number", req.OrderNumber),
		zap.Int64("shipment_id", created.ShipmentID))

	return shipping.NewShipmentSuccess(
		strconv.FormatInt(created.ShipmentID, 10), created.AWBCode, trackingURL, string(body))
}

// AssignAWB requests a waybill for a previously created shipment. courierID 0
// lets Shiprocket choose the courier.
func (a *ShiprocketAdapter) AssignAWB(ctx context.Context, shipmentID string, courierID int) *shipping.ShipmentResult {
	if shipmentID == "" {
		return shipping.NewShipmentFailure("shiprocket: shipment id is required for awb assignment", "")
	}

	token, err := a.sessions.GetValidToken(ctx)
	if err != nil {
		return shipping.NewShipmentFailure(err.Error(), "")
	}

	payload := shiprocketAWBRequest{ShipmentID: shipmentID, CourierID: courierID}
	body, status, err := a.doRequest(ctx, http.MethodPost, "/courier/assign/awb", token, payload)
	if err != nil {
		return shipping.NewShipmentFailure(err.Error(), string(body))
	}
	if status >= 400 {
		return shipping.NewShipmentFailure(shiprocketFailureMessage(body, status), string(body))
	}

	var assigned shiprocketAWBResponse
	if err := json.Unmarshal(body, &assigned); err != nil {
		return shipping.NewShipmentFailure(
			fmt.Sprintf("shiprocket: failed to parse awb response: %v", err), string(body))
	}
	awb := assigned.Response.Data.AWBCode
	if assigned.AWBAssignStatus != 1 || awb == "" {
		return shipping.NewShipmentFailure(shiprocketFailureMessage(body, status), string(body))
	}

	result := shipping.NewShipmentSuccess(shipmentID, awb, shiprocketTrackingPageURL+awb, string(body))
	return result
}

// TrackShipment looks up live status by AWB. The public tracking URL is
// attached on both success and failure.
func (a *ShiprocketAdapter) TrackShipment(ctx context.Context, awbCode string) *shipping.ShipmentResult {
	trackingURL := shiprocketTrackingPageURL + awbCode

	token, err := a.sessions.GetValidToken(ctx)
	if err != nil {
		result := shipping.NewShipmentFailure(err.Error(), "")
		result.TrackingURL = trackingURL
		return result
	}

	body, status, err := a.doRequest(ctx, http.MethodGet, "/courier/track/awb/"+awbCode, token, nil)
	if err != nil {
		result := shipping.NewShipmentFailure(err.Error(), string(body))
		result.TrackingURL = trackingURL
		return result
	}

	var tracked shiprocketTrackResponse
	if status >= 400 || json.Unmarshal(body, &tracked) != nil || tracked.TrackingData.Error != "" {
		message := tracked.TrackingData.Error
		if message == "" {
			message = shiprocketFailureMessage(body, status)
		}
		result := shipping.NewShipmentFailure(message, string(body))
		result.TrackingURL = trackingURL
		return result
	}

	return shipping.NewShipmentSuccess("", awbCode, trackingURL, string(body))
}

// CancelShipment cancels shipments by AWB. Best-effort: a 2xx means the
// carrier accepted the request, not that the shipments are confirmed void.
func (a *ShiprocketAdapter) CancelShipment(ctx context.Context, codes ...string) *shipping.ShipmentResult {
	if len(codes) == 0 {
		return shipping.NewShipmentFailure("shiprocket: no awb codes provided", "")
	}

	token, err := a.sessions.GetValidToken(ctx)
	if err != nil {
		return shipping.NewShipmentFailure(err.Error(), "")
	}

	payload := shiprocketCancelRequest{AWBs: codes}
	body, status, err := a.doRequest(ctx, http.MethodPost, "/orders/cancel/shipment/awbs", token, payload)
	if err != nil {
		return shipping.NewShipmentFailure(err.Error(), string(body))
	}
	if status >= 400 {
		return shipping.NewShipmentFailure(shiprocketFailureMessage(body, status), string(body))
	}

	return shipping.NewShipmentSuccess("", strings.Join(codes, ","), "", string(body))
}

// ---------------------------------------------------------------------------
// Payload Mapping
// ---------------------------------------------------------------------------

// buildOrderPayload maps the normalized request to Shiprocket's flattened
// adhoc order shape. Billing falls back to the shipping address, COD maps to
// the carrier's payment flag, and missing dimensions get the default package.
func (a *ShiprocketAdapter) buildOrderPayload(req *shipping.ShipmentRequest) *shiprocketOrderRequest {
	billing := req.BillingOrShipping()
	dims := req.PackageDimensions()

	items := make([]shiprocketOrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		line := shiprocketOrderItem{
			Name:         item.Name,
			SKU:          item.SKU,
			Units:        item.Units,
			SellingPrice: item.SellingPrice.String(),
		}
		if !item.Discount.IsZero() {
			line.Discount = item.Discount.String()
		}
		items = append(items, line)
	}

	paymentMethod := "Prepaid"
	if req.IsCOD() {
		paymentMethod = shipping.PaymentMethodCOD
	}

	return &shiprocketOrderRequest{
		OrderID:        req.OrderNumber,
		OrderDate:      req.OrderDate.Format(shiprocketOrderDateLayout),
		PickupLocation: a.config.PickupLocation,

		BillingCustomerName: billing.Name,
		BillingAddress:      billing.Address,
		BillingCity:         billing.City,
		BillingPincode:      billing.Pincode,
		BillingState:        billing.State,
		BillingCountry:      billing.Country,
		BillingEmail:        billing.Email,
		BillingPhone:        billing.Phone,

		ShippingIsBilling: req.BillingAddress == nil,

		ShippingCustomerName: req.ShippingAddress.Name,
		ShippingAddress:      req.ShippingAddress.Address,
		ShippingCity:         req.ShippingAddress.City,
		ShippingPincode:      req.ShippingAddress.Pincode,
		ShippingState:        req.ShippingAddress.State,
		ShippingCountry:      req.ShippingAddress.Country,
		ShippingEmail:        req.ShippingAddress.Email,
		ShippingPhone:        req.ShippingAddress.Phone,

		OrderItems:    items,
		PaymentMethod: paymentMethod,
		SubTotal:      req.Subtotal.String(),
		TotalQuantity: req.TotalUnits(),

		Length:  dims.Length,
		Breadth: dims.Breadth,
		Height:  dims.Height,
		Weight:  dims.Weight,
	}
}

// doRequest performs an authenticated HTTP request against the Shiprocket
// API. Transport failures come back as an error wrapping
// shipping.ErrCarrierUnavailable; HTTP error statuses are the caller's to
// fold into a result together with the body.
func (a *ShiprocketAdapter) doRequest(ctx context.Context, method, path, token string, payload any) ([]byte, int, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("shiprocket: failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.config.BaseURL+path, reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("shiprocket: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", shipping.ErrCarrierUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCarrierResponseSize))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("shiprocket: failed to read response: %w", err)
	}

	return body, resp.StatusCode, nil
}

// shiprocketFailureMessage builds the error string for a carrier rejection
func shiprocketFailureMessage(body []byte, status int) string {
	if msg := carrierErrorMessage(body); msg != "" {
		return "shiprocket: " + msg
	}
	return fmt.Sprintf("shiprocket: request failed with HTTP %d", status)
}

// Ensure ShiprocketAdapter implements the carrier ports
var (
	_ shipping.Carrier     = (*ShiprocketAdapter)(nil)
	_ shipping.AWBAssigner = (*ShiprocketAdapter)(nil)
)
