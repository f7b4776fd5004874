package middleware

import (
	"net/http"
	"strings"

	"github.com/VindFlainger/maplapi/internal/domain/shared"
	"github.com/VindFlainger/maplapi/internal/infrastructure/auth"
	"github.com/VindFlainger/maplapi/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Context keys for the authenticated identity
const (
	ClaimsKey     = "auth_claims"
	CustomerIDKey = "auth_customer_id"
	RoleKey       = "auth_role"

	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "

	// RoleAdmin marks fulfilment staff; everything else is a customer
	RoleAdmin = "admin"
)

// Auth requires a valid bearer token and stores the claims in the context
func Auth(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := extractClaims(c, jwtService)
		if !ok {
			abortUnauthorized(c)
			return
		}
		storeClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth extracts claims when a valid token is present but lets
// anonymous requests through. Guest flows (carts, secret-addressed orders)
// run under this middleware.
func OptionalAuth(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := extractClaims(c, jwtService); ok {
			storeClaims(c, claims)
		}
		c.Next()
	}
}

// RequireRole rejects authenticated requests whose role does not match
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetRole(c) != role {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(shared.ErrForbidden.Code, shared.ErrForbidden.Message))
			return
		}
		c.Next()
	}
}

func extractClaims(c *gin.Context, jwtService *auth.JWTService) (*auth.Claims, bool) {
	header := c.GetHeader(AuthHeaderKey)
	if header == "" || !strings.HasPrefix(header, BearerPrefix) {
		return nil, false
	}
	tokenString := strings.TrimPrefix(header, BearerPrefix)
	if tokenString == "" {
		return nil, false
	}
	claims, err := jwtService.ValidateToken(tokenString)
	if err != nil {
		return nil, false
	}
	return claims, true
}

func storeClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(ClaimsKey, claims)
	c.Set(CustomerIDKey, claims.CustomerID)
	c.Set(RoleKey, claims.Role)
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponse(shared.ErrUnauthorized.Code, shared.ErrUnauthorized.Message))
}

// GetCustomerID returns the authenticated customer's ID, or uuid.Nil with
// false when the request is anonymous
func GetCustomerID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get(CustomerIDKey)
	if !exists {
		return uuid.Nil, false
	}
	s, ok := raw.(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// GetRole returns the authenticated role, or an empty string
func GetRole(c *gin.Context) string {
	if role, exists := c.Get(RoleKey); exists {
		if r, ok := role.(string); ok {
			return r
		}
	}
	return ""
}
