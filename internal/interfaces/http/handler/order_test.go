package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	orderapp "github.com/linenloft/backend/internal/application/order"
	"github.com/linenloft/backend/internal/domain/order"
	"github.com/linenloft/backend/internal/domain/shared"
	"github.com/linenloft/backend/internal/domain/shipping"
	"github.com/linenloft/backend/internal/interfaces/http/dto"
	"github.com/linenloft/backend/internal/interfaces/http/middleware"
)

// ---------------------------------------------------------------------------
// Fakes and fixtures shared by the handler tests
// ---------------------------------------------------------------------------

// memoryOrderRepo is an in-memory order.Repository for handler tests.
type memoryOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]order.Order
}

func newMemoryOrderRepo() *memoryOrderRepo {
	return &memoryOrderRepo{orders: make(map[uuid.UUID]order.Order)}
}

func (r *memoryOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := o
	return &cp, nil
}

func (r *memoryOrderRepo) FindByOrderNumber(_ context.Context, orderNumber string) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.OrderNumber == orderNumber {
			cp := o
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryOrderRepo) FindByStatus(_ context.Context, status order.Status, limit, offset int) ([]order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []order.Order
	for _, o := range r.orders {
		if o.Status == status {
			result = append(result, o)
		}
	}
	if offset >= len(result) {
		return nil, nil
	}
	result = result[offset:]
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *memoryOrderRepo) Save(_ context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[o.ID] = *o
	return nil
}

func (r *memoryOrderRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.orders, id)
	return nil
}

var _ order.Repository = (*memoryOrderRepo)(nil)

func testShippingAddress() shipping.Address {
	return shipping.Address{
		Name:    "Asha Rao",
		Phone:   "9876543210",
		Email:   "asha@example.com",
		Address: "14 MG Road",
		City:    "Jaipur",
		State:   "Rajasthan",
		Pincode: "302001",
		Country: "India",
	}
}

// seedOrder persists a pending order directly into the repository.
func seedOrder(t *testing.T, repo *memoryOrderRepo, orderNumber string) *order.Order {
	t.Helper()

	items := []order.Item{
		{Name: "Linen Sheet", SKU: "SHEET-001", Units: 2, SellingPrice: decimal.NewFromInt(799)},
	}
	o, err := order.NewOrder(orderNumber, testShippingAddress(), items, "COD",
		decimal.NewFromInt(1598), decimal.NewFromInt(1598))
	require.NoError(t, err)
	o.CustomerName = "Asha Rao"
	o.CustomerPhone = "9876543210"
	require.NoError(t, repo.Save(context.Background(), o))
	return o
}

func newOrderTestRouter(repo *memoryOrderRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()

	engine := gin.New()
	h := NewOrderHandler(orderapp.NewService(repo, zap.NewNop()))
	api := engine.Group("/api/v1")
	h.RegisterRoutes(api)
	return engine
}

func decodeResponse(t *testing.T, body []byte) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestOrderHandler_Create(t *testing.T) {
	repo := newMemoryOrderRepo()
	router := newOrderTestRouter(repo)

	t.Run("creates a pending order", func(t *testing.T) {
		body := `{
			"order_number": "ORD-2001",
			"customer_name": "Asha Rao",
			"customer_phone": "9876543210",
			"shipping_address": {
				"name": "Asha Rao", "phone": "9876543210",
				"address": "14 MG Road", "city": "Jaipur",
				"state": "Rajasthan", "pincode": "302001", "country": "India"
			},
			"items": [
				{"name": "Linen Sheet", "sku": "SHEET-001", "units": 2, "selling_price": "799"}
			],
			"payment_method": "COD",
			"subtotal": "1598",
			"total": "1598"
		}`

		req := httptest.NewRequest("POST", "/api/v1/orders", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		resp := decodeResponse(t, w.Body.Bytes())
		assert.True(t, resp.Success)

		data := resp.Data.(map[string]interface{})
		assert.Equal(t, "ORD-2001", data["order_number"])
		assert.Equal(t, "PENDING", data["status"])
	})

	t.Run("rejects missing items with validation details", func(t *testing.T) {
		body := `{
			"order_number": "ORD-2002",
			"customer_name": "Asha Rao",
			"customer_phone": "9876543210",
			"shipping_address": {
				"name": "Asha Rao", "phone": "9876543210",
				"address": "14 MG Road", "city": "Jaipur",
				"state": "Rajasthan", "pincode": "302001", "country": "India"
			},
			"items": [],
			"payment_method": "COD",
			"subtotal": "0",
			"total": "0"
		}`

		req := httptest.NewRequest("POST", "/api/v1/orders", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	})

	t.Run("rejects unknown payment method", func(t *testing.T) {
		body := `{
			"order_number": "ORD-2003",
			"customer_name": "Asha Rao",
			"customer_phone": "9876543210",
			"shipping_address": {
				"name": "Asha Rao", "phone": "9876543210",
				"address": "14 MG Road", "city": "Jaipur",
				"state": "Rajasthan", "pincode": "302001", "country": "India"
			},
			"items": [
				{"name": "Linen Sheet", "sku": "SHEET-001", "units": 1, "selling_price": "799"}
			],
			"payment_method": "Cheque",
			"subtotal": "799",
			"total": "799"
		}`

		req := httptest.NewRequest("POST", "/api/v1/orders", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

func TestOrderHandler_GetByID(t *testing.T) {
	repo := newMemoryOrderRepo()
	router := newOrderTestRouter(repo)
	o := seedOrder(t, repo, "ORD-2101")

	t.Run("returns the order", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/orders/"+o.ID.String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		resp := decodeResponse(t, w.Body.Bytes())
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, "ORD-2101", data["order_number"])
	})

	t.Run("404 for unknown order", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/orders/"+uuid.NewString(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), dto.ErrCodeNotFound)
	})

	t.Run("400 for malformed id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/orders/not-a-uuid", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOrderHandler_GetByOrderNumber(t *testing.T) {
	repo := newMemoryOrderRepo()
	router := newOrderTestRouter(repo)
	seedOrder(t, repo, "ORD-2102")

	req := httptest.NewRequest("GET", "/api/v1/orders/number/ORD-2102", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w.Body.Bytes())
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "ORD-2102", data["order_number"])
}

func TestOrderHandler_List(t *testing.T) {
	repo := newMemoryOrderRepo()
	router := newOrderTestRouter(repo)

	pending := seedOrder(t, repo, "ORD-2201")
	ready := seedOrder(t, repo, "ORD-2202")
	require.NoError(t, ready.MarkReadyToShip())
	require.NoError(t, repo.Save(context.Background(), ready))

	t.Run("filters by status", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/orders?status=PENDING", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		resp := decodeResponse(t, w.Body.Bytes())
		require.NotNil(t, resp.Meta)
		assert.Equal(t, 1, resp.Meta.Count)

		list := resp.Data.([]interface{})
		entry := list[0].(map[string]interface{})
		assert.Equal(t, pending.OrderNumber, entry["order_number"])
	})

	t.Run("defaults to the ready-to-ship queue", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/orders", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		resp := decodeResponse(t, w.Body.Bytes())
		list := resp.Data.([]interface{})
		require.Len(t, list, 1)
		entry := list[0].(map[string]interface{})
		assert.Equal(t, "ORD-2202", entry["order_number"])
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/orders?status=SOMEWHERE", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects out-of-range limit", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/orders?limit=5000", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// ---------------------------------------------------------------------------
// Transitions
// ---------------------------------------------------------------------------

func TestOrderHandler_Transitions(t *testing.T) {
	repo := newMemoryOrderRepo()
	router := newOrderTestRouter(repo)

	t.Run("marks ready then cancels", func(t *testing.T) {
		o := seedOrder(t, repo, "ORD-2301")

		req := httptest.NewRequest("POST", "/api/v1/orders/"+o.ID.String()+"/ready", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w.Body.Bytes())
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, "READY_TO_SHIP", data["status"])

		req = httptest.NewRequest("POST", "/api/v1/orders/"+o.ID.String()+"/cancel", nil)
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		resp = decodeResponse(t, w.Body.Bytes())
		data = resp.Data.(map[string]interface{})
		assert.Equal(t, "CANCELLED", data["status"])
	})

	t.Run("delivering a pending order is an invalid state", func(t *testing.T) {
		o := seedOrder(t, repo, "ORD-2302")

		req := httptest.NewRequest("POST", "/api/v1/orders/"+o.ID.String()+"/deliver", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), dto.ErrCodeInvalidState)
	})
}
