package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeUnknown, http.StatusInternalServerError},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeValidationRequired, http.StatusBadRequest},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeConflict, http.StatusConflict},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeBusinessRule, http.StatusUnprocessableEntity},
		{ErrCodeOrderNotShippable, http.StatusUnprocessableEntity},
		{ErrCodeNoShipment, http.StatusUnprocessableEntity},
		{ErrCodeShipmentInFlight, http.StatusConflict},
		{ErrCodeBadRequest, http.StatusBadRequest},
		{ErrCodeInvalidInput, http.StatusBadRequest},
		// Unknown code should return 500
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		legacy   string
		expected string
	}{
		{"NOT_FOUND", ErrCodeNotFound},
		{"INVALID_STATE", ErrCodeInvalidState},
		{"ORDER_NOT_SHIPPABLE", ErrCodeOrderNotShippable},
		{"SHIPMENT_IN_FLIGHT", ErrCodeShipmentInFlight},
		{"NO_TRACKING", ErrCodeNoShipment},
		{"EMPTY_ORDER", ErrCodeInvalidInput},
		// Already normalized codes pass through
		{ErrCodeConflict, ErrCodeConflict},
		// Unknown codes pass through
		{"SOMETHING_ELSE", "SOMETHING_ELSE"},
	}

	for _, tt := range tests {
		t.Run(tt.legacy, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.legacy))
		})
	}
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Order not found", "req-123")

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "Order not found", resp.Error.Message)
	assert.Equal(t, "req-123", resp.Error.RequestID)
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{
		{Field: "pincode", Message: "This field is required"},
	}
	resp := NewValidationErrorResponse("Request validation failed", "req-456", details)

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Len(t, resp.Error.Details, 1)
}

func TestResponseSerialization(t *testing.T) {
	t.Run("success response omits error", func(t *testing.T) {
		data, err := json.Marshal(NewSuccessResponse(map[string]string{"id": "1"}))
		require.NoError(t, err)
		assert.NotContains(t, string(data), `"error"`)
	})

	t.Run("error response omits data", func(t *testing.T) {
		data, err := json.Marshal(NewErrorResponse(ErrCodeInternal, "boom"))
		require.NoError(t, err)
		assert.NotContains(t, string(data), `"data"`)
		assert.Contains(t, string(data), `"ERR_INTERNAL"`)
	})

	t.Run("meta carried on list responses", func(t *testing.T) {
		data, err := json.Marshal(NewSuccessResponseWithMeta([]string{"a"}, 20, 0, 1))
		require.NoError(t, err)
		assert.Contains(t, string(data), `"limit":20`)
	})
}
