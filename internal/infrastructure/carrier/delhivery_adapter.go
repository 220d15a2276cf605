package carrier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/linenloft/backend/internal/domain/shipping"
)

// delhiveryTrackingPageURL is the public tracking page, attached on every
// track result regardless of the status call outcome.
const delhiveryTrackingPageURL = "https://www.delhivery.com/track/package/"

// DelhiveryAdapter implements the shipping.Carrier port for Delhivery.
// Creation is single-step: the manifest call returns the waybill directly.
type DelhiveryAdapter struct {
	config     *DelhiveryConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewDelhiveryAdapter creates a Delhivery adapter. Configuration is checked
// per call, not at construction, so a missing key degrades only this carrier.
func NewDelhiveryAdapter(config *DelhiveryConfig, logger *zap.Logger) *DelhiveryAdapter {
	timeout := time.Duration(config.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &DelhiveryAdapter{
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Provider returns the carrier code this adapter handles
func (a *DelhiveryAdapter) Provider() shipping.ProviderCode {
	return shipping.ProviderDelhivery
}

// ---------------------------------------------------------------------------
// Shipment Operations
// ---------------------------------------------------------------------------

// CreateShipment manifests the consignment with Delhivery. On success the
// result carries the waybill issued by the create call itself.
func (a *DelhiveryAdapter) CreateShipment(ctx context.Context, req *shipping.ShipmentRequest) *shipping.ShipmentResult {
	if err := req.Validate(); err != nil {
		return shipping.NewShipmentFailure(err.Error(), "")
	}
	if err := a.config.Validate(); err != nil {
		return shipping.NewShipmentFailure(
			fmt.Sprintf("%v: %v", shipping.ErrCarrierNotConfigured, err), "")
	}

	payload := a.buildManifestPayload(req)
	data, err := json.Marshal(payload)
	if err != nil {
		return shipping.NewShipmentFailure(
			fmt.Sprintf("delhivery: failed to marshal manifest: %v", err), "")
	}

	// Delhivery takes the JSON document form-encoded under "data".
	form := "format=json&data=" + url.QueryEscape(string(data))
	body, status, err := a.doRequest(ctx, http.MethodPost, "/api/cmu/create.json",
		strings.NewReader(form), "application/x-www-form-urlencoded")
	if err != nil {
		return shipping.NewShipmentFailure(err.Error(), string(body))
	}
	if status >= 400 {
		return shipping.NewShipmentFailure(delhiveryFailureMessage(body, status), string(body))
	}

	var created delhiveryCreateResponse
	if err := json.Unmarshal(body, &created); err != nil {
		return shipping.NewShipmentFailure(
			fmt.Sprintf("delhivery: failed to parse create response: %v", err), string(body))
	}
	if !created.Success || len(created.Packages) == 0 || created.Packages[0].Waybill == "" {
		message := created.Remark
		if message == "" && len(created.Packages) > 0 && len(created.Packages[0].Remarks) > 0 {
			message = strings.Join(created.Packages[0].Remarks, "; ")
		}
		if message == "" {
			message = delhiveryFailureMessage(body, status)
		} else {
			message = "delhivery: " + message
		}
		return shipping.NewShipmentFailure(message, string(body))
	}

	waybill := created.Packages[0].Waybill
	a.logger.Info("Delhivery shipment created",
		zap.String("order_number", req.OrderNumber),
		zap.String("waybill", waybill))

	return shipping.NewShipmentSuccess("", waybill, delhiveryTrackingPageURL+waybill, string(body))
}

// TrackShipment looks up live status by waybill
func (a *DelhiveryAdapter) TrackShipment(ctx context.Context, awbCode string) *shipping.ShipmentResult {
	trackingURL := delhiveryTrackingPageURL + awbCode

	if err := a.config.Validate(); err != nil {
		result := shipping.NewShipmentFailure(
			fmt.Sprintf("%v: %v", shipping.ErrCarrierNotConfigured, err), "")
		result.TrackingURL = trackingURL
		return result
	}

	body, status, err := a.doRequest(ctx, http.MethodGet,
		"/api/v1/packages/json/?waybill="+url.QueryEscape(awbCode), nil, "")
	if err != nil {
		result := shipping.NewShipmentFailure(err.Error(), string(body))
		result.TrackingURL = trackingURL
		return result
	}

	var tracked delhiveryTrackResponse
	if status >= 400 || json.Unmarshal(body, &tracked) != nil || tracked.Error != "" || len(tracked.ShipmentData) == 0 {
		message := tracked.Error
		if message == "" {
			message = delhiveryFailureMessage(body, status)
		} else {
			message = "delhivery: " + message
		}
		result := shipping.NewShipmentFailure(message, string(body))
		result.TrackingURL = trackingURL
		return result
	}

	return shipping.NewShipmentSuccess("", awbCode, trackingURL, string(body))
}

// CancelShipment cancels waybills one at a time; the edit API takes a single
// waybill per call. Best-effort: the first rejected cancellation fails the
// whole result with the codes already accepted attached.
func (a *DelhiveryAdapter) CancelShipment(ctx context.Context, codes ...string) *shipping.ShipmentResult {
	if len(codes) == 0 {
		return shipping.NewShipmentFailure("delhivery: no waybills provided", "")
	}
	if err := a.config.Validate(); err != nil {
		return shipping.NewShipmentFailure(
			fmt.Sprintf("%v: %v", shipping.ErrCarrierNotConfigured, err), "")
	}

	var lastBody []byte
	for _, code := range codes {
		payload, err := json.Marshal(delhiveryCancelRequest{Waybill: code, Cancellation: "true"})
		if err != nil {
			return shipping.NewShipmentFailure(
				fmt.Sprintf("delhivery: failed to marshal cancel request: %v", err), "")
		}

		body, status, err := a.doRequest(ctx, http.MethodPost, "/api/p/edit",
			strings.NewReader(string(payload)), "application/json")
		if err != nil {
			return shipping.NewShipmentFailure(err.Error(), string(body))
		}
		if status >= 400 {
			return shipping.NewShipmentFailure(delhiveryFailureMessage(body, status), string(body))
		}
		lastBody = body
	}

	return shipping.NewShipmentSuccess("", strings.Join(codes, ","), "", string(lastBody))
}

// ---------------------------------------------------------------------------
// Payload Mapping
// ---------------------------------------------------------------------------

// buildManifestPayload maps the normalized request onto Delhivery's manifest
// shape. The consignee is always the shipping address; COD maps the order
// total into cod_amount, and missing dimensions get the default package.
func (a *DelhiveryAdapter) buildManifestPayload(req *shipping.ShipmentRequest) *delhiveryCreateRequest {
	dims := req.PackageDimensions()

	names := make([]string, 0, len(req.Items))
	for _, item := range req.Items {
		names = append(names, item.Name)
	}

	paymentMode := "Prepaid"
	codAmount := "0"
	if req.IsCOD() {
		paymentMode = shipping.PaymentMethodCOD
		codAmount = req.Total.String()
	}

	return &delhiveryCreateRequest{
		Shipments: []delhiveryShipment{{
			Name:    req.ShippingAddress.Name,
			Address: req.ShippingAddress.Address,
			Pincode: req.ShippingAddress.Pincode,
			City:    req.ShippingAddress.City,
			State:   req.ShippingAddress.State,
			Country: req.ShippingAddress.Country,
			Phone:   req.ShippingAddress.Phone,

			Order:        req.OrderNumber,
			PaymentMode:  paymentMode,
			ProductsDesc: strings.Join(names, ", "),
			CODAmount:    codAmount,
			TotalAmount:  req.Total.String(),
			Quantity:     req.TotalUnits(),

			Weight:         dims.Weight,
			ShipmentLength: dims.Length,
			ShipmentWidth:  dims.Breadth,
			ShipmentHeight: dims.Height,
		}},
		PickupLocation: delhiveryPickupLocation{Name: a.config.PickupLocation},
	}
}

// doRequest performs an HTTP request against the Delhivery API with the
// static token header.
func (a *DelhiveryAdapter) doRequest(ctx context.Context, method, path string, reqBody io.Reader, contentType string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, method, a.config.BaseURL+path, reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("delhivery: failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Token "+a.config.APIKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", shipping.ErrCarrierUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCarrierResponseSize))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("delhivery: failed to read response: %w", err)
	}

	return body, resp.StatusCode, nil
}

// delhiveryFailureMessage builds the error string for a carrier rejection
func delhiveryFailureMessage(body []byte, status int) string {
	if msg := carrierErrorMessage(body); msg != "" {
		return "delhivery: " + msg
	}
	return fmt.Sprintf("delhivery: request failed with HTTP %d", status)
}

// Ensure DelhiveryAdapter implements the carrier port
var _ shipping.Carrier = (*DelhiveryAdapter)(nil)
