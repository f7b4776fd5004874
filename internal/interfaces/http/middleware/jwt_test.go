package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/VindFlainger/maplapi/internal/infrastructure/auth"
	"github.com/VindFlainger/maplapi/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:     "test-secret-key-at-least-32-chars-long",
		Expiration: time.Hour,
		Issuer:     "maplapi-test",
	})
}

func signedToken(t *testing.T, svc *auth.JWTService, customerID uuid.UUID, role string) string {
	t.Helper()
	token, _, err := svc.GenerateToken(customerID, role)
	require.NoError(t, err)
	return token
}

func TestAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := testJWTService()

	newRouter := func() *gin.Engine {
		router := gin.New()
		router.GET("/protected", Auth(svc), func(c *gin.Context) {
			id, ok := GetCustomerID(c)
			require.True(t, ok)
			c.JSON(http.StatusOK, gin.H{"customerId": id.String(), "role": GetRole(c)})
		})
		return router
	}

	t.Run("valid token passes with claims in context", func(t *testing.T) {
		customerID := uuid.New()
		token := signedToken(t, svc, customerID, "customer")

		req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)

		w := httptest.NewRecorder()
		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), customerID.String())
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/protected", nil)

		w := httptest.NewRecorder()
		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header is rejected", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set(AuthHeaderKey, "Token abc")

		w := httptest.NewRecorder()
		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token signed with a different secret is rejected", func(t *testing.T) {
		other := auth.NewJWTService(config.JWTConfig{
			Secret:     "another-secret-key-also-32-chars-xx",
			Expiration: time.Hour,
			Issuer:     "maplapi-test",
		})
		token := signedToken(t, other, uuid.New(), "customer")

		req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)

		w := httptest.NewRecorder()
		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestOptionalAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := testJWTService()

	router := gin.New()
	router.GET("/open", OptionalAuth(svc), func(c *gin.Context) {
		if id, ok := GetCustomerID(c); ok {
			c.JSON(http.StatusOK, gin.H{"customerId": id.String()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"customerId": nil})
	})

	t.Run("anonymous request passes", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/open", nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "null")
	})

	t.Run("valid token attaches identity", func(t *testing.T) {
		customerID := uuid.New()
		token := signedToken(t, svc, customerID, "customer")

		req, _ := http.NewRequest(http.MethodGet, "/open", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), customerID.String())
	})

	t.Run("invalid token is treated as anonymous", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/open", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+"not-a-token")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "null")
	})
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := testJWTService()

	router := gin.New()
	router.GET("/admin", Auth(svc), RequireRole(RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	t.Run("admin role passes", func(t *testing.T) {
		token := signedToken(t, svc, uuid.New(), RoleAdmin)

		req, _ := http.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("customer role is forbidden", func(t *testing.T) {
		token := signedToken(t, svc, uuid.New(), "customer")

		req, _ := http.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
