package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	shippingapp "github.com/linenloft/backend/internal/application/shipping"
	"github.com/linenloft/backend/internal/domain/order"
	"github.com/linenloft/backend/internal/domain/shipping"
	"github.com/linenloft/backend/internal/infrastructure/carrier"
	"github.com/linenloft/backend/internal/interfaces/http/dto"
	"github.com/linenloft/backend/internal/interfaces/http/middleware"
)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

// stubCarrier answers every call with canned results.
type stubCarrier struct {
	provider     shipping.ProviderCode
	createResult *shipping.ShipmentResult
	assignResult *shipping.ShipmentResult
	trackResult  *shipping.ShipmentResult
	cancelResult *shipping.ShipmentResult
}

func (s *stubCarrier) Provider() shipping.ProviderCode { return s.provider }

func (s *stubCarrier) CreateShipment(context.Context, *shipping.ShipmentRequest) *shipping.ShipmentResult {
	return s.createResult
}

func (s *stubCarrier) TrackShipment(context.Context, string) *shipping.ShipmentResult {
	return s.trackResult
}

func (s *stubCarrier) CancelShipment(context.Context, ...string) *shipping.ShipmentResult {
	return s.cancelResult
}

func (s *stubCarrier) AssignAWB(context.Context, string, int) *shipping.ShipmentResult {
	return s.assignResult
}

var (
	_ shipping.Carrier     = (*stubCarrier)(nil)
	_ shipping.AWBAssigner = (*stubCarrier)(nil)
)

// memGuard is an in-memory attempt guard.
type memGuard struct {
	mu     sync.Mutex
	claims map[string]bool
	refuse bool
}

func newMemGuard() *memGuard {
	return &memGuard{claims: make(map[string]bool)}
}

func (g *memGuard) Begin(_ context.Context, orderNumber string, _ time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.refuse || g.claims[orderNumber] {
		return false, nil
	}
	g.claims[orderNumber] = true
	return true, nil
}

func (g *memGuard) Release(_ context.Context, orderNumber string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.claims, orderNumber)
	return nil
}

func (g *memGuard) Close() error { return nil }

var _ shipping.AttemptGuard = (*memGuard)(nil)

// ---------------------------------------------------------------------------
// Fixture
// ---------------------------------------------------------------------------

type shipmentFixture struct {
	repo   *memoryOrderRepo
	guard  *memGuard
	router *gin.Engine
}

func newShipmentFixture(t *testing.T, carriers ...shipping.Carrier) *shipmentFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()

	registry := carrier.NewRegistry()
	for _, c := range carriers {
		registry.Register(c)
	}

	repo := newMemoryOrderRepo()
	guard := newMemGuard()
	orchestrator := shippingapp.NewOrchestrator(registry, zap.NewNop())
	fulfillment := shippingapp.NewFulfillmentService(repo, orchestrator, guard, 0, zap.NewNop())

	engine := gin.New()
	h := NewShipmentHandler(fulfillment)
	api := engine.Group("/api/v1")
	h.RegisterRoutes(api)

	return &shipmentFixture{repo: repo, guard: guard, router: engine}
}

func (f *shipmentFixture) seedReadyOrder(t *testing.T, orderNumber string) *order.Order {
	t.Helper()
	o := seedOrder(t, f.repo, orderNumber)
	require.NoError(t, o.MarkReadyToShip())
	require.NoError(t, f.repo.Save(context.Background(), o))
	return o
}

func (f *shipmentFixture) ship(orderID uuid.UUID, provider string) *httptest.ResponseRecorder {
	body := `{"provider": "` + provider + `"}`
	req := httptest.NewRequest("POST", "/api/v1/orders/"+orderID.String()+"/ship", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

// ---------------------------------------------------------------------------
// Ship
// ---------------------------------------------------------------------------

func TestShipmentHandler_Ship(t *testing.T) {
	t.Run("ships through a single-call carrier", func(t *testing.T) {
		f := newShipmentFixture(t, &stubCarrier{
			provider:     shipping.ProviderDelhivery,
			createResult: shipping.NewShipmentSuccess("", "WB998877", "https://www.delhivery.com/track/package/WB998877", ""),
		})
		o := f.seedReadyOrder(t, "ORD-3001")

		w := f.ship(o.ID, "delhivery")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		resp := decodeResponse(t, w.Body.Bytes())
		assert.True(t, resp.Success)

		data := resp.Data.(map[string]interface{})
		assert.Equal(t, true, data["success"])
		assert.Equal(t, "WB998877", data["awb_code"])
		assert.Equal(t, "SHIPPED", data["order_status"])

		saved, err := f.repo.FindByID(context.Background(), o.ID)
		require.NoError(t, err)
		assert.Equal(t, order.StatusShipped, saved.Status)
		assert.Equal(t, "WB998877", saved.AWBCode)
	})

	t.Run("ships through a two-step carrier", func(t *testing.T) {
		f := newShipmentFixture(t, &stubCarrier{
			provider:     shipping.ProviderShiprocket,
			createResult: shipping.NewShipmentSuccess("212", "", "", ""),
			assignResult: shipping.NewShipmentSuccess("212", "AWB1122334455", "https://shiprocket.co/tracking/AWB1122334455", ""),
		})
		o := f.seedReadyOrder(t, "ORD-3002")

		w := f.ship(o.ID, "shiprocket")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		data := decodeResponse(t, w.Body.Bytes()).Data.(map[string]interface{})
		assert.Equal(t, "212", data["shipment_id"])
		assert.Equal(t, "AWB1122334455", data["awb_code"])
	})

	t.Run("carrier rejection responds 200 with a failed shipment", func(t *testing.T) {
		f := newShipmentFixture(t, &stubCarrier{
			provider:     shipping.ProviderDelhivery,
			createResult: shipping.NewShipmentFailure("Wrong Pincode supplied", ""),
		})
		o := f.seedReadyOrder(t, "ORD-3003")

		w := f.ship(o.ID, "delhivery")
		require.Equal(t, http.StatusOK, w.Code)

		data := decodeResponse(t, w.Body.Bytes()).Data.(map[string]interface{})
		assert.Equal(t, false, data["success"])
		assert.Contains(t, data["error"], "Wrong Pincode")
		assert.Equal(t, "READY_TO_SHIP", data["order_status"])

		// Order keeps its queue position for a retry.
		saved, err := f.repo.FindByID(context.Background(), o.ID)
		require.NoError(t, err)
		assert.Equal(t, order.StatusReadyToShip, saved.Status)
		assert.Equal(t, "Wrong Pincode supplied", saved.ShippingError)
	})

	t.Run("unknown provider is a failed shipment without carrier calls", func(t *testing.T) {
		f := newShipmentFixture(t)
		o := f.seedReadyOrder(t, "ORD-3004")

		w := f.ship(o.ID, "manual")
		require.Equal(t, http.StatusOK, w.Code)

		data := decodeResponse(t, w.Body.Bytes()).Data.(map[string]interface{})
		assert.Equal(t, false, data["success"])
		assert.Contains(t, data["error"], "not registered")
	})

	t.Run("pending order cannot ship", func(t *testing.T) {
		f := newShipmentFixture(t, &stubCarrier{
			provider:     shipping.ProviderDelhivery,
			createResult: shipping.NewShipmentSuccess("", "WB1", "", ""),
		})
		o := seedOrder(t, f.repo, "ORD-3005")

		w := f.ship(o.ID, "delhivery")
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), dto.ErrCodeOrderNotShippable)
	})

	t.Run("duplicate attempt conflicts", func(t *testing.T) {
		f := newShipmentFixture(t, &stubCarrier{
			provider:     shipping.ProviderDelhivery,
			createResult: shipping.NewShipmentSuccess("", "WB2", "", ""),
		})
		o := f.seedReadyOrder(t, "ORD-3006")
		f.guard.refuse = true

		w := f.ship(o.ID, "delhivery")
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), dto.ErrCodeShipmentInFlight)
	})

	t.Run("unknown order is 404", func(t *testing.T) {
		f := newShipmentFixture(t)

		w := f.ship(uuid.New(), "manual")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("missing provider fails validation", func(t *testing.T) {
		f := newShipmentFixture(t)
		o := f.seedReadyOrder(t, "ORD-3007")

		req := httptest.NewRequest("POST", "/api/v1/orders/"+o.ID.String()+"/ship", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	})
}

// ---------------------------------------------------------------------------
// Track and cancel
// ---------------------------------------------------------------------------

func TestShipmentHandler_Track(t *testing.T) {
	t.Run("returns tracking status", func(t *testing.T) {
		stub := &stubCarrier{
			provider:     shipping.ProviderDelhivery,
			createResult: shipping.NewShipmentSuccess("", "WB998877", "https://www.delhivery.com/track/package/WB998877", ""),
			trackResult:  shipping.NewShipmentSuccess("", "WB998877", "https://www.delhivery.com/track/package/WB998877", `{"Status":"In Transit"}`),
		}
		f := newShipmentFixture(t, stub)
		o := f.seedReadyOrder(t, "ORD-3101")
		require.Equal(t, http.StatusOK, f.ship(o.ID, "delhivery").Code)

		req := httptest.NewRequest("GET", "/api/v1/orders/"+o.ID.String()+"/tracking", nil)
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w.Body.Bytes()).Data.(map[string]interface{})
		assert.Equal(t, true, data["success"])
		assert.Equal(t, "WB998877", data["awb_code"])
	})

	t.Run("order without waybill has nothing to track", func(t *testing.T) {
		f := newShipmentFixture(t)
		o := f.seedReadyOrder(t, "ORD-3102")

		req := httptest.NewRequest("GET", "/api/v1/orders/"+o.ID.String()+"/tracking", nil)
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), dto.ErrCodeNoShipment)
	})
}

func TestShipmentHandler_CancelShipment(t *testing.T) {
	t.Run("cancels on the carrier side", func(t *testing.T) {
		stub := &stubCarrier{
			provider:     shipping.ProviderDelhivery,
			createResult: shipping.NewShipmentSuccess("", "WB998877", "", ""),
			cancelResult: shipping.NewShipmentSuccess("", "WB998877", "", ""),
		}
		f := newShipmentFixture(t, stub)
		o := f.seedReadyOrder(t, "ORD-3201")
		require.Equal(t, http.StatusOK, f.ship(o.ID, "delhivery").Code)

		req := httptest.NewRequest("POST", "/api/v1/orders/"+o.ID.String()+"/shipment/cancel", nil)
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w.Body.Bytes()).Data.(map[string]interface{})
		assert.Equal(t, true, data["success"])
	})

	t.Run("order without shipment cannot cancel", func(t *testing.T) {
		f := newShipmentFixture(t)
		o := f.seedReadyOrder(t, "ORD-3202")

		req := httptest.NewRequest("POST", "/api/v1/orders/"+o.ID.String()+"/shipment/cancel", nil)
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), dto.ErrCodeNoShipment)
	})
}

func TestShipmentHandler_Providers(t *testing.T) {
	f := newShipmentFixture(t,
		&stubCarrier{provider: shipping.ProviderDelhivery},
		&stubCarrier{provider: shipping.ProviderManual},
	)

	req := httptest.NewRequest("GET", "/api/v1/shipping/providers", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w.Body.Bytes()).Data.(map[string]interface{})
	providers := data["providers"].([]interface{})
	assert.Len(t, providers, 2)
	assert.Contains(t, providers, "delhivery")
	assert.Contains(t, providers, "manual")
}
