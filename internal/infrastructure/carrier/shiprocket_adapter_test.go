package carrier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/linenloft/backend/internal/domain/shipping"
)

func TestShiprocketCreateShipmentHappyPath(t *testing.T) {
	server, capture := newShiprocketTestServer(t)
	defer server.Close()
	adapter := createTestShiprocketAdapter(server.URL)

	result := adapter.CreateShipment(context.Background(), testShipmentRequest())

	require.True(t, result.Success, "error: %s", result.Error)
	assert.Equal(t, "212", result.ShipmentID)
	assert.Empty(t, result.Error)
	assert.NotEmpty(t, result.Data, "raw carrier response is always attached")
	assert.True(t, result.Consistent())
	assert.Equal(t, 1, capture.LoginCalls)
	assert.Equal(t, 1, capture.CreateCalls)
}

func TestShiprocketCreateShipmentPayloadMapping(t *testing.T) {
	server, capture := newShiprocketTestServer(t)
	defer server.Close()
	adapter := createTestShiprocketAdapter(server.URL)

	t.Run("billing falls back to shipping byte for byte", func(t *testing.T) {
		req := testShipmentRequest()
		req.BillingAddress = nil
		adapter.CreateShipment(context.Background(), req)

		payload := capture.LastCreatePayload()
		require.NotNil(t, payload)
		assert.Equal(t, true, payload["shipping_is_billing"])
		for _, field := range []string{"customer_name", "address", "city", "pincode", "state", "country", "email", "phone"} {
			assert.Equal(t, payload["shipping_"+field], payload["billing_"+field], field)
		}
	})

	t.Run("explicit billing address is kept", func(t *testing.T) {
		req := testShipmentRequest()
		req.BillingAddress = &shipping.Address{
			Name: "Billing Desk", Phone: "9000000000", Email: "billing@example.com",
			Address: "44 Residency Road", City: "Bengaluru", State: "Karnataka",
			Pincode: "560025", Country: "India",
		}
		adapter.CreateShipment(context.Background(), req)

		payload := capture.LastCreatePayload()
		assert.Equal(t, false, payload["shipping_is_billing"])
		assert.Equal(t, "Bengaluru", payload["billing_city"])
		assert.Equal(t, "Jaipur", payload["shipping_city"])
	})

	t.Run("COD maps to the carrier flag", func(t *testing.T) {
		req := testShipmentRequest()
		req.PaymentMethod = "COD"
		adapter.CreateShipment(context.Background(), req)
		assert.Equal(t, "COD", capture.LastCreatePayload()["payment_method"])

		req = testShipmentRequest()
		req.PaymentMethod = "razorpay"
		adapter.CreateShipment(context.Background(), req)
		assert.Equal(t, "Prepaid", capture.LastCreatePayload()["payment_method"])
	})

	t.Run("missing dimensions get the default package", func(t *testing.T) {
		req := testShipmentRequest()
		req.Dimensions = nil
		result := adapter.CreateShipment(context.Background(), req)

		require.True(t, result.Success)
		payload := capture.LastCreatePayload()
		assert.Equal(t, 10.0, payload["length"])
		assert.Equal(t, 10.0, payload["breadth"])
		assert.Equal(t, 10.0, payload["height"])
		assert.Equal(t, 0.5, payload["weight"])
	})

	t.Run("units aggregate across line items", func(t *testing.T) {
		req := testShipmentRequest()
		req.Items = append(req.Items, shipping.LineItem{
			Name: "Pillow Cover", SKU: "PILLOW-002", Units: 3,
			SellingPrice: decimal.NewFromInt(499),
		})
		adapter.CreateShipment(context.Background(), req)

		payload := capture.LastCreatePayload()
		assert.Equal(t, 4.0, payload["total_quantity"])
		assert.Equal(t, "Primary", payload["pickup_location"])
	})
}

func TestShiprocketCreateShipmentBadCredentials(t *testing.T) {
	createCalls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Invalid credentials, please try again"}`))
	})
	mux.HandleFunc("/orders/create/adhoc", func(w http.ResponseWriter, r *http.Request) {
		createCalls++
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	adapter := createTestShiprocketAdapter(server.URL)
	result := adapter.CreateShipment(context.Background(), testShipmentRequest())

	require.False(t, result.Success)
	assert.Contains(t, result.Error, "authentication")
	assert.Empty(t, result.AWBCode)
	assert.Equal(t, 0, createCalls, "no shipment call after a failed login")
	assert.True(t, result.Consistent())
}

func TestShiprocketCreateShipmentCarrierRejection(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token":"test-token"}`))
	})
	mux.HandleFunc("/orders/create/adhoc", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"Wrong Pincode supplied"}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	adapter := createTestShiprocketAdapter(server.URL)
	result := adapter.CreateShipment(context.Background(), testShipmentRequest())

	require.False(t, result.Success)
	assert.Contains(t, result.Error, "Wrong Pincode")
	assert.Contains(t, result.Data, "Wrong Pincode", "raw body attached for diagnostics")
}

func TestShiprocketCreateShipmentTransportFailure(t *testing.T) {
	server, _ := newShiprocketTestServer(t)
	adapter := createTestShiprocketAdapter(server.URL)
	server.Close()

	result := adapter.CreateShipment(context.Background(), testShipmentRequest())

	require.False(t, result.Success)
	assert.Contains(t, result.Error, shipping.ErrCarrierAuthFailed.Error())
}

func TestShiprocketCreateShipmentInvalidRequest(t *testing.T) {
	server, capture := newShiprocketTestServer(t)
	defer server.Close()
	adapter := createTestShiprocketAdapter(server.URL)

	req := testShipmentRequest()
	req.Items = nil
	result := adapter.CreateShipment(context.Background(), req)

	require.False(t, result.Success)
	assert.Contains(t, result.Error, "line item")
	assert.Equal(t, 0, capture.CreateCalls)
}

func TestShiprocketAssignAWB(t *testing.T) {
	server, _ := newShiprocketTestServer(t)
	defer server.Close()
	adapter := createTestShiprocketAdapter(server.URL)

	result := adapter.AssignAWB(context.Background(), "212", 0)

	require.True(t, result.Success, "error: %s", result.Error)
	assert.Equal(t, "212", result.ShipmentID)
	assert.Equal(t, "AWB1122334455", result.AWBCode)
	assert.Equal(t, "https://shiprocket.co/tracking/AWB1122334455", result.TrackingURL)

	t.Run("missing shipment id", func(t *testing.T) {
		result := adapter.AssignAWB(context.Background(), "", 0)
		assert.False(t, result.Success)
	})
}

func TestShiprocketTrackShipment(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server, _ := newShiprocketTestServer(t)
		defer server.Close()
		adapter := createTestShiprocketAdapter(server.URL)

		result := adapter.TrackShipment(context.Background(), "AWB1122334455")
		require.True(t, result.Success)
		assert.Equal(t, "AWB1122334455", result.AWBCode)
		assert.Equal(t, "https://shiprocket.co/tracking/AWB1122334455", result.TrackingURL)
	})

	t.Run("tracking url attached even when status call fails", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"token":"test-token"}`))
		})
		mux.HandleFunc("/courier/track/awb/", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"tracking_data":{"track_status":0,"error":"Awb not found"}}`))
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		adapter := createTestShiprocketAdapter(server.URL)
		result := adapter.TrackShipment(context.Background(), "AWB404")

		require.False(t, result.Success)
		assert.Contains(t, result.Error, "Awb not found")
		assert.Equal(t, "https://shiprocket.co/tracking/AWB404", result.TrackingURL)
	})
}

func TestShiprocketCancelShipment(t *testing.T) {
	server, _ := newShiprocketTestServer(t)
	defer server.Close()
	adapter := createTestShiprocketAdapter(server.URL)

	// Carriers do not confirm synchronous cancellation; a 2xx is success.
	result := adapter.CancelShipment(context.Background(), "AWB1122334455")
	require.True(t, result.Success)
	assert.True(t, result.Consistent())

	t.Run("no codes", func(t *testing.T) {
		result := adapter.CancelShipment(context.Background())
		assert.False(t, result.Success)
	})
}

// ---------------------------------------------------------------------------
// Test Helpers
// ---------------------------------------------------------------------------

// shiprocketCapture records what the mock carrier received
type shiprocketCapture struct {
	mu            sync.Mutex
	LoginCalls    int
	CreateCalls   int
	createPayload map[string]any
}

func (c *shiprocketCapture) LastCreatePayload() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.createPayload
}

// newShiprocketTestServer starts a mock Shiprocket API covering the happy
// paths of every endpoint the adapter calls.
func newShiprocketTestServer(t *testing.T) (*httptest.Server, *shiprocketCapture) {
	t.Helper()
	capture := &shiprocketCapture{}

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		capture.mu.Lock()
		capture.LoginCalls++
		capture.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"token":"test-token"}`))
	})
	mux.HandleFunc("/orders/create/adhoc", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); !strings.HasPrefix(got, "Bearer ") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		capture.mu.Lock()
		capture.CreateCalls++
		capture.createPayload = payload
		capture.mu.Unlock()
		w.Write([]byte(`{"order_id":224,"shipment_id":212,"status":"NEW","status_code":1,"awb_code":""}`))
	})
	mux.HandleFunc("/courier/assign/awb", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"awb_assign_status":1,"response":{"data":{"awb_code":"AWB1122334455","courier_company_id":24,"courier_name":"Xpressbees"}}}`))
	})
	mux.HandleFunc("/courier/track/awb/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tracking_data":{"track_status":1,"shipment_status":7}}`))
	})
	mux.HandleFunc("/orders/cancel/shipment/awbs", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"cancellation request received"}`))
	})

	return httptest.NewServer(mux), capture
}

// createTestShiprocketAdapter builds an adapter pointed at a mock server
func createTestShiprocketAdapter(baseURL string) *ShiprocketAdapter {
	cfg := NewShiprocketConfig("ops@linenloft.in", "secret", "Primary")
	cfg.BaseURL = baseURL
	return NewShiprocketAdapter(cfg, zap.NewNop())
}

// testShipmentRequest builds a valid COD request shared by the adapter tests
func testShipmentRequest() *shipping.ShipmentRequest {
	return &shipping.ShipmentRequest{
		OrderID:       "a2f1c9b0-0000-0000-0000-000000000001",
		OrderNumber:   "ORD-1001",
		OrderDate:     time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		PaymentMethod: "COD",
		Subtotal:      decimal.NewFromInt(1999),
		Total:         decimal.NewFromInt(1999),
		Items: []shipping.LineItem{
			{Name: "Linen Sheet", SKU: "SHEET-001", Units: 1, SellingPrice: decimal.NewFromInt(1999)},
		},
		ShippingAddress: shipping.Address{
			Name:    "Asha Rao",
			Phone:   "9876543210",
			Email:   "asha@example.com",
			Address: "12 MG Road",
			City:    "Jaipur",
			State:   "Rajasthan",
			Pincode: "302001",
			Country: "India",
		},
	}
}
