package auth

import (
	"testing"
	"time"

	"github.com/VindFlainger/maplapi/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testService(expiration time.Duration) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:     "test-secret-at-least-32-characters-long",
		Expiration: expiration,
		Issuer:     "maplapi-test",
	})
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	service := testService(time.Hour)
	customerID := uuid.New()

	token, expiresAt, err := service.GenerateToken(customerID, "customer")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, customerID.String(), claims.CustomerID)
	assert.Equal(t, "customer", claims.Role)

	parsed, err := claims.CustomerUUID()
	require.NoError(t, err)
	assert.Equal(t, customerID, parsed)
}

func TestJWTService_ValidateToken(t *testing.T) {
	t.Run("rejects an expired token", func(t *testing.T) {
		service := testService(-time.Minute)
		token, _, err := service.GenerateToken(uuid.New(), "customer")
		require.NoError(t, err)

		_, err = service.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:     "another-secret-also-32-characters-x",
			Expiration: time.Hour,
			Issuer:     "maplapi-test",
		})
		token, _, err := other.GenerateToken(uuid.New(), "customer")
		require.NoError(t, err)

		_, err = testService(time.Hour).ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := testService(time.Hour).ValidateToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
