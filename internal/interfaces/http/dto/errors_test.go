package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/bizdesk/erp/internal/application/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeTokenExpired, http.StatusUnauthorized},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeConcurrencyConflict, http.StatusConflict},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeBusinessRule, http.StatusUnprocessableEntity},
		{ErrCodeInsufficientStock, http.StatusUnprocessableEntity},
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestFromDomainCode(t *testing.T) {
	tests := []struct {
		input  string
		code   string
		status int
	}{
		{"NOT_FOUND", ErrCodeNotFound, http.StatusNotFound},
		{"ALREADY_EXISTS", ErrCodeAlreadyExists, http.StatusConflict},
		{"INVALID_INPUT", ErrCodeInvalidInput, http.StatusBadRequest},
		{"INVALID_STATE", ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{"BUSINESS_RULE", ErrCodeBusinessRule, http.StatusUnprocessableEntity},
		{"FORBIDDEN", ErrCodeForbidden, http.StatusForbidden},
		{"UNAUTHORIZED", ErrCodeUnauthorized, http.StatusUnauthorized},
		{"INSUFFICIENT_STOCK", ErrCodeInsufficientStock, http.StatusUnprocessableEntity},
		{"INVALID_PERIOD", "INVALID_PERIOD", http.StatusBadRequest},
		{"ALREADY_PAID", "ALREADY_PAID", http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			code, status := FromDomainCode(tt.input)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.status, status)
		})
	}
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{
		{Field: "email", Message: "Invalid email format"},
		{Field: "quantity", Message: "Must be greater than zero"},
	}

	resp := NewValidationErrorResponse("Validation failed", "req-789", details)

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-789", resp.Error.RequestID)
	assert.Len(t, resp.Error.Details, 2)
	assert.Equal(t, "email", resp.Error.Details[0].Field)
}

func TestErrorResponseJSON(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Invoice not found", "req-test-123")

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, false, decoded["success"])
	assert.NotContains(t, decoded, "data")
	errObj := decoded["error"].(map[string]any)
	assert.Equal(t, ErrCodeNotFound, errObj["code"])
	assert.Equal(t, "req-test-123", errObj["request_id"])
	assert.NotContains(t, errObj, "details")
}

func TestNewSuccessResponseWithMetaPagination(t *testing.T) {
	tests := []struct {
		total         int64
		pageSize      int
		expectedPages int
		expectedSize  int
	}{
		{100, 10, 10, 10},
		{101, 10, 11, 10},
		{0, 10, 0, 10},
		{9, 10, 1, 10},
		{100, 0, 5, 20},
		{100, -1, 5, 20},
	}

	for _, tt := range tests {
		resp := NewSuccessResponseWithMeta(nil, tt.total, 1, tt.pageSize)
		assert.Equal(t, tt.expectedPages, resp.Meta.TotalPages)
		assert.Equal(t, tt.expectedSize, resp.Meta.PageSize)
	}
}

func TestNewPageResponse_EmptyItemsSerializeAsArray(t *testing.T) {
	resp := NewPageResponse(common.Page[string]{Total: 0, Page: 1, PageSize: 20})

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"data":[]`)
	assert.Equal(t, 0, resp.Meta.TotalPages)
}
