package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bizdesk/erp/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSafeFolder(t *testing.T) {
	for _, ok := range []string{"invoices", "service-tickets", "2026_q1"} {
		assert.True(t, IsSafeFolder(ok), ok)
	}
	for _, bad := range []string{"", "..", "a/b", "../etc", "with space", "a.b"} {
		assert.False(t, IsSafeFolder(bad), bad)
	}
}

func TestValidation_CustomTags(t *testing.T) {
	type request struct {
		Folder   string           `json:"folder" binding:"required,safe_folder"`
		Amount   decimal.Decimal  `json:"amount" binding:"decimal_positive"`
		Discount *decimal.Decimal `json:"discount" binding:"omitempty,decimal_gte0"`
	}
	SetupValidator()

	router := gin.New()
	router.POST("/test", func(c *gin.Context) {
		var req request
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, post(`{"folder":"docs","amount":"10.50","discount":"0"}`).Code)

	w := post(`{"folder":"../docs","amount":"0","discount":"-1"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	fields := make([]string, 0, len(resp.Error.Details))
	for _, d := range resp.Error.Details {
		fields = append(fields, d.Field)
	}
	assert.ElementsMatch(t, []string{"folder", "amount", "discount"}, fields)
}

func TestFormatValidationErrors_MalformedJSON(t *testing.T) {
	resp := FormatValidationErrors(&json.SyntaxError{}, "req-1")
	require.NotNil(t, resp.Error)
	assert.Empty(t, resp.Error.Details)
	assert.Contains(t, resp.Error.Message, "Malformed request")
}
