package middleware

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newTenantRouter(resolved *uuid.UUID) *gin.Engine {
	svc := newTestJWTService()
	router := gin.New()
	router.Use(JWTAuthMiddleware(svc), TenantMiddleware(TenantMiddlewareConfig{}))
	router.GET("/api/v1/accounts", func(c *gin.Context) {
		id, ok := GetTenantID(c)
		if ok {
			*resolved = id
		}
		c.Status(http.StatusOK)
	})
	return router
}

func TestTenantMiddleware_FromClaims(t *testing.T) {
	var resolved uuid.UUID
	router := newTenantRouter(&resolved)
	token, input := newTestToken(t, newTestJWTService(), "staff")

	w := serve(router, http.MethodGet, "/api/v1/accounts", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, input.TenantID, resolved)
}

func TestTenantMiddleware_HeaderOnlyForSuperAdmin(t *testing.T) {
	other := uuid.New()
	headers := map[string]string{TenantHeaderKey: other.String()}

	t.Run("staff header ignored", func(t *testing.T) {
		var resolved uuid.UUID
		router := newTenantRouter(&resolved)
		token, input := newTestToken(t, newTestJWTService(), "staff")

		w := serve(router, http.MethodGet, "/api/v1/accounts", token, headers)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, input.TenantID, resolved)
	})

	t.Run("superadmin acts on tenant", func(t *testing.T) {
		var resolved uuid.UUID
		router := newTenantRouter(&resolved)
		token, _ := newTestToken(t, newTestJWTService(), "superadmin")

		w := serve(router, http.MethodGet, "/api/v1/accounts", token, headers)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, other, resolved)
	})

	t.Run("superadmin with malformed header", func(t *testing.T) {
		var resolved uuid.UUID
		router := newTenantRouter(&resolved)
		token, _ := newTestToken(t, newTestJWTService(), "superadmin")

		w := serve(router, http.MethodGet, "/api/v1/accounts", token, map[string]string{TenantHeaderKey: "nope"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestTenantMiddleware_UnresolvableIsUnauthorized(t *testing.T) {
	router := gin.New()
	router.Use(TenantMiddleware(TenantMiddlewareConfig{}))
	router.GET("/api/v1/accounts", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(router, http.MethodGet, "/api/v1/accounts", "", map[string]string{TenantHeaderKey: uuid.NewString()})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_UNAUTHORIZED")
}
